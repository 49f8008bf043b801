package cmd

import (
	"os/signal"
	"syscall"

	"github.com/conneroisu/sitemapgen/internal/config"
	"github.com/conneroisu/sitemapgen/internal/server"
	"github.com/conneroisu/sitemapgen/internal/watcher"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Preview the generated site with live reload",
	Long: `Serve the output directory over HTTP. Connected browsers reload
automatically when the watched content changes and the sitemap files are
regenerated.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	logger := newLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Make sure there is something to serve before the listener opens.
	if err := regenerateAll(ctx, cfg, logger); err != nil {
		return err
	}

	srv := server.New(cfg, logger)

	fw, err := newContentWatcher(cfg, logger, func(events []watcher.ChangeEvent) error {
		if err := regenerateAll(ctx, cfg, logger); err != nil {
			logger.Error(ctx, err, "regeneration failed")
			return nil
		}

		paths := make([]string, len(events))
		for i, event := range events {
			paths[i] = event.Path
		}
		srv.NotifyReload(ctx, paths)
		return nil
	})
	if err != nil {
		return err
	}
	defer fw.Stop()
	fw.Start(ctx)

	return srv.Start(ctx)
}
