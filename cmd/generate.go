package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/conneroisu/sitemapgen/internal/config"
	"github.com/conneroisu/sitemapgen/internal/logging"
	"github.com/conneroisu/sitemapgen/internal/pages"
	"github.com/conneroisu/sitemapgen/internal/scanner"
	"github.com/conneroisu/sitemapgen/internal/sitemap"
	"github.com/conneroisu/sitemapgen/internal/wellknown"
	"github.com/spf13/cobra"
)

var (
	pagesManifest string
	scanDir       string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"g", "gen"},
	Short:   "Generate sitemap and well-known files",
	Long: `Generate the sitemap (and any enabled well-known files) into the
output directory.

Pages come from one of two sources:

  --pages FILE   a YAML page manifest (default pages.yml when present)
  --scan DIR     discover pages by scanning a built site directory

With neither flag, pages.yml is used if it exists, otherwise the output
directory itself is scanned.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&pagesManifest, "pages", "", "YAML page manifest to read")
	generateCmd.Flags().StringVar(&scanDir, "scan", "", "built site directory to scan for pages")
	generateCmd.MarkFlagsMutuallyExclusive("pages", "scan")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger()
	ctx := cmd.Context()

	records, err := loadRecords(ctx, cfg, logger)
	if err != nil {
		return err
	}

	result, err := sitemap.New(cfg, logger, nil).Generate(ctx, records)
	if err != nil {
		return err
	}

	if err := wellknown.NewBuilder(cfg, logger).Generate(ctx); err != nil {
		return err
	}

	if len(result.FilesWritten) > 0 {
		fmt.Printf("Wrote %d file(s) covering %d URL(s) to %s\n",
			len(result.FilesWritten), result.TotalURLs, cfg.Output.Dir)
	}
	return nil
}

// loadRecords resolves the page source: an explicit manifest or scan
// directory if flagged, else pages.yml when present, else a scan of the
// output directory.
func loadRecords(ctx context.Context, cfg *config.Config, logger logging.Logger) ([]pages.PageRecord, error) {
	switch {
	case pagesManifest != "":
		return pages.LoadManifest(pagesManifest)
	case scanDir != "":
		return scanner.NewPageScanner(scanDir, logger).Scan(ctx)
	}

	if _, err := os.Stat("pages.yml"); err == nil {
		return pages.LoadManifest("pages.yml")
	}
	return scanner.NewPageScanner(cfg.Output.Dir, logger).Scan(ctx)
}
