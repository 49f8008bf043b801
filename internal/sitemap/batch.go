package sitemap

import "iter"

// Processing constants for large in-memory assembly. Batches bound working
// memory to one batch at a time; the scheduler is yielded periodically so a
// long serialization cannot starve other goroutines.
const (
	// processingBatchSize is the internal batch size used while streaming
	// one XML document. Not user-visible.
	processingBatchSize = 1000

	// yieldEveryBatches is how many processing batches run between
	// cooperative scheduler yields.
	yieldEveryBatches = 4

	// largeSiteThreshold gates cooperative yielding: below this page count
	// a run is short enough that yielding is pointless.
	largeSiteThreshold = 10000
)

// Batches yields successive fixed-size slices of items along with the
// 0-based batch index. Slices alias the input; no copy is made and at most
// one batch is live at a time for a consuming loop. The final batch may be
// shorter. A non-positive size yields the whole input as one batch.
func Batches[T any](items []T, size int) iter.Seq2[int, []T] {
	return func(yield func(int, []T) bool) {
		if len(items) == 0 {
			return
		}
		if size <= 0 {
			yield(0, items)
			return
		}

		for i, start := 0, 0; start < len(items); i, start = i+1, start+size {
			end := start + size
			if end > len(items) {
				end = len(items)
			}
			if !yield(i, items[start:end]) {
				return
			}
		}
	}
}

// BatchCount returns the number of batches Batches will yield.
func BatchCount(total, size int) int {
	if total <= 0 {
		return 0
	}
	if size <= 0 {
		return 1
	}
	return (total + size - 1) / size
}
