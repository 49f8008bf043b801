package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/conneroisu/sitemapgen/internal/config"
	"github.com/conneroisu/sitemapgen/internal/logging"
	"github.com/conneroisu/sitemapgen/internal/sitemap"
	"github.com/conneroisu/sitemapgen/internal/watcher"
	"github.com/conneroisu/sitemapgen/internal/wellknown"
	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Regenerate sitemap files when content changes",
	Long: `Watch the configured paths and regenerate the sitemap and
well-known files whenever site content changes. Change bursts are
debounced so one save triggers one regeneration.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	regenerate := func() {
		if err := regenerateAll(ctx, cfg, logger); err != nil {
			logger.Error(ctx, err, "regeneration failed")
		}
	}

	// Generate once up front so the watcher starts from a complete site.
	regenerate()

	fw, err := newContentWatcher(cfg, logger, func([]watcher.ChangeEvent) error {
		regenerate()
		return nil
	})
	if err != nil {
		return err
	}
	defer fw.Stop()

	fw.Start(ctx)
	logger.Info(ctx, "watching for changes", "paths", cfg.Watch.Paths)

	<-ctx.Done()
	return nil
}

// regenerateAll runs the full pipeline: page discovery, sitemap, and
// well-known files.
func regenerateAll(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	records, err := loadRecords(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if _, err := sitemap.New(cfg, logger, nil).Generate(ctx, records); err != nil {
		return err
	}

	return wellknown.NewBuilder(cfg, logger).Generate(ctx)
}

// newContentWatcher builds a watcher over the configured paths with the
// standard content filters applied.
func newContentWatcher(cfg *config.Config, logger logging.Logger, handler watcher.ChangeHandler) (*watcher.FileWatcher, error) {
	fw, err := watcher.NewFileWatcher(cfg.Watch.Debounce, logger)
	if err != nil {
		return nil, err
	}

	fw.AddFilter(watcher.ContentFilter)
	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddFilter(watcher.NoOutputFilter(cfg.Output.Dir))
	fw.AddHandler(handler)

	for _, path := range cfg.Watch.Paths {
		if err := fw.AddRecursive(path); err != nil {
			fw.Stop()
			return nil, err
		}
	}

	return fw, nil
}
