package sitemap

import (
	"bytes"
	"context"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/conneroisu/sitemapgen/internal/config"
	"github.com/conneroisu/sitemapgen/internal/errors"
	"github.com/conneroisu/sitemapgen/internal/logging"
	"github.com/conneroisu/sitemapgen/internal/pages"
)

// GenerationResult reports what one generation call produced. FilesWritten
// lists chunk files in order followed by the index file in multi-file mode.
type GenerationResult struct {
	FilesWritten []string
	TotalURLs    int
}

// Generator runs the sitemap pipeline for one site. A Generator is safe to
// reuse across runs because every call owns its own run state; callers must
// not run concurrent generations into the same output directory.
type Generator struct {
	cfg     *config.Config
	logger  logging.Logger
	sampler MemorySampler

	// Now is the clock used for the index lastmod. Overridable in tests so
	// repeated runs are byte-identical.
	Now func() time.Time
}

// runState is the per-invocation context threaded through pipeline stages.
// Nothing in it survives the call.
type runState struct {
	base    *url.URL
	entries []URLEntry
	monitor *MemoryMonitor
	files   []OutputFile
}

// New creates a Generator. A nil sampler selects the runtime memory
// sampler.
func New(cfg *config.Config, logger logging.Logger, sampler MemorySampler) *Generator {
	return &Generator{
		cfg:     cfg,
		logger:  logger.WithComponent("sitemap"),
		sampler: sampler,
		Now:     time.Now,
	}
}

// Generate runs filter, normalize, batch, serialize, and write for the
// given page records. Recoverable conditions log warnings; a returned error
// means the run failed and no result is available.
func (g *Generator) Generate(ctx context.Context, records []pages.PageRecord) (*GenerationResult, error) {
	if !g.cfg.Sitemap.Enabled {
		g.logger.Warn(ctx, nil, "sitemap generation is disabled, skipping")
		return &GenerationResult{}, nil
	}

	if g.cfg.Site.BaseURL == "" {
		g.logger.Warn(ctx, nil, "no base URL configured, skipping sitemap generation")
		return &GenerationResult{}, nil
	}

	base, err := url.Parse(g.cfg.Site.BaseURL)
	if err != nil {
		return nil, errors.NewConfigError("invalid_base_url", "base URL cannot be parsed").
			WithCause(err).WithPath(g.cfg.Site.BaseURL)
	}

	state := &runState{
		base:    base,
		monitor: NewMemoryMonitor(g.sampler, g.logger),
	}
	state.monitor.SetCadence(g.cfg.Sitemap.MemoryCheckCadence)
	state.monitor.Start()

	eligible := Filter(ctx, records, g.logger)

	defaults := Defaults{
		ChangeFreq: g.cfg.Sitemap.DefaultChangeFreq,
		Priority:   g.cfg.Sitemap.DefaultPriority,
	}

	state.entries = make([]URLEntry, 0, len(eligible))
	for _, page := range eligible {
		entry, ok, err := Normalize(ctx, page, base, defaults, g.logger)
		if err != nil {
			return nil, err
		}
		if ok {
			state.entries = append(state.entries, entry)
		}
	}

	if err := g.assemble(ctx, state); err != nil {
		return nil, err
	}

	writer := NewFileWriter(g.cfg.Output.Dir, g.logger)
	if err := writer.WriteFiles(ctx, state.files); err != nil {
		return nil, err
	}

	state.monitor.Summary(ctx, len(state.entries))

	result := &GenerationResult{
		FilesWritten: make([]string, len(state.files)),
		TotalURLs:    len(state.entries),
	}
	for i, file := range state.files {
		result.FilesWritten[i] = file.Name
	}

	g.logger.Info(ctx, "sitemap generation complete",
		"urls", result.TotalURLs,
		"files", len(result.FilesWritten),
	)

	return result, nil
}

// assemble serializes the normalized entries into output files, splitting
// into chunks plus an index when the eligible count exceeds the configured
// per-file maximum and splitting is enabled.
func (g *Generator) assemble(ctx context.Context, state *runState) error {
	split := g.cfg.Sitemap.SplitLargeSites && len(state.entries) > g.cfg.Sitemap.MaxURLsPerFile

	if !split {
		data, err := g.serializeChunk(ctx, state, state.entries, g.cfg.Sitemap.IndexFilename)
		if err != nil {
			return err
		}
		state.files = []OutputFile{{Name: g.cfg.Sitemap.IndexFilename, Data: data}}
		return nil
	}

	generated := g.Now().UTC().Format(time.RFC3339)
	chunkCount := BatchCount(len(state.entries), g.cfg.Sitemap.MaxURLsPerFile)

	state.files = make([]OutputFile, 0, chunkCount+1)
	indexEntries := make([]IndexEntry, 0, chunkCount)

	for i, chunk := range Batches(state.entries, g.cfg.Sitemap.MaxURLsPerFile) {
		name := chunkFilename(g.cfg.Sitemap.ChunkFilenamePattern, i+1)

		data, err := g.serializeChunk(ctx, state, chunk, name)
		if err != nil {
			return err
		}
		state.files = append(state.files, OutputFile{Name: name, Data: data})

		indexEntries = append(indexEntries, IndexEntry{
			Loc:     state.base.JoinPath(name).String(),
			LastMod: generated,
		})

		state.monitor.Checkpoint(ctx, "chunk "+strconv.Itoa(i+1))
	}

	indexData, err := SerializeIndex(indexEntries)
	if err != nil {
		return err
	}
	state.files = append(state.files, OutputFile{Name: g.cfg.Sitemap.IndexFilename, Data: indexData})

	g.logger.Debug(ctx, "split sitemap into chunks",
		"chunks", chunkCount,
		"index", g.cfg.Sitemap.IndexFilename,
	)

	return nil
}

// serializeChunk renders one urlset document, sampling memory at processing
// batch boundaries and yielding the scheduler periodically on large runs.
func (g *Generator) serializeChunk(ctx context.Context, state *runState, entries []URLEntry, name string) ([]byte, error) {
	large := len(state.entries) > largeSiteThreshold

	var buf bytes.Buffer
	err := WriteURLSet(&buf, entries, processingBatchSize, func(batch int) {
		state.monitor.Checkpoint(ctx, name)
		if large && (batch+1)%yieldEveryBatches == 0 {
			runtime.Gosched()
		}
	})
	if err != nil {
		return nil, errors.NewInternalError("serialize_failed", "cannot serialize sitemap", err).
			WithPath(name).WithContext("urls", len(entries))
	}

	return buf.Bytes(), nil
}

// chunkFilename substitutes the 1-based chunk number into the configured
// pattern.
func chunkFilename(pattern string, index int) string {
	return strings.ReplaceAll(pattern, config.IndexPlaceholder, strconv.Itoa(index))
}
