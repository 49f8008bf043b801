package sitemap

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/conneroisu/sitemapgen/internal/errors"
	"github.com/conneroisu/sitemapgen/internal/logging"
	"github.com/conneroisu/sitemapgen/internal/validation"
)

// writeBatchWidth is the number of files written concurrently. Each batch
// of writes is awaited together before the next batch starts.
const writeBatchWidth = 8

// OutputFile is one file to be written into the output directory. Name is
// a path relative to the output root and may contain forward-slash
// separated subdirectories.
type OutputFile struct {
	Name string
	Data []byte
}

// writeJob is an OutputFile with its resolved absolute destination.
type writeJob struct {
	path string
	data []byte
}

// FileWriter writes generated files under one output directory with path
// safety checks. Generation is all-or-nothing: every filename is validated
// before the first write, and any write failure fails the whole call.
type FileWriter struct {
	outputDir string
	logger    logging.Logger
}

// NewFileWriter creates a writer rooted at outputDir.
func NewFileWriter(outputDir string, logger logging.Logger) *FileWriter {
	return &FileWriter{
		outputDir: outputDir,
		logger:    logger.WithComponent("writer"),
	}
}

// SafeOutputPath sanitizes a candidate filename and resolves it inside the
// output directory. Any traversal attempt is fatal, raised before a write
// occurs.
func (w *FileWriter) SafeOutputPath(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.PathTraversalError(name)
	}

	segments := strings.Split(name, "/")
	for i, segment := range segments {
		var sanitized string
		if i == len(segments)-1 {
			sanitized = validation.SanitizeFilename(segment)
		} else {
			sanitized = validation.SanitizePathSegment(segment)
		}
		if sanitized == "" {
			return "", errors.PathTraversalError(name)
		}
		segments[i] = sanitized
	}

	path, err := validation.SafeJoin(w.outputDir, filepath.Join(segments...))
	if err != nil {
		return "", errors.PathTraversalError(name).WithCause(err)
	}

	return path, nil
}

// WriteFiles writes every file or none. All paths are validated up front;
// writes then run in bounded-width concurrent batches. On any failure the
// call returns an error carrying counts and paths, and no file list.
func (w *FileWriter) WriteFiles(ctx context.Context, files []OutputFile) error {
	jobs := make([]writeJob, len(files))
	for i, file := range files {
		path, err := w.SafeOutputPath(file.Name)
		if err != nil {
			return err
		}
		jobs[i] = writeJob{path: path, data: file.Data}
	}

	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return errors.NewIOError("mkdir_failed", "cannot create output directory", err).
			WithPath(w.outputDir)
	}

	for _, batch := range Batches(jobs, writeBatchWidth) {
		if err := w.writeBatch(ctx, batch); err != nil {
			w.logger.Error(ctx, err, "file write failed, aborting generation",
				"files_requested", len(files),
				"output_dir", w.outputDir,
			)
			return err
		}
	}

	return nil
}

// writeBatch writes one bounded batch of files concurrently and waits for
// all of them before returning the first error, if any.
func (w *FileWriter) writeBatch(ctx context.Context, batch []writeJob) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for _, job := range batch {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := w.writeOne(job.path, job.data); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			w.logger.Debug(ctx, "wrote file", "path", job.path, "bytes", len(job.data))
		}()
	}

	wg.Wait()

	return firstErr
}

func (w *FileWriter) writeOne(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != w.outputDir {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.NewIOError("mkdir_failed", "cannot create output subdirectory", err).
				WithPath(dir)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewIOError("write_failed", "cannot write output file", err).
			WithPath(path)
	}

	return nil
}
