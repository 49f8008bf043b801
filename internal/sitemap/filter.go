// Package sitemap implements the build-time sitemap generation pipeline:
// filter, normalize, batch, serialize, write. Each generation call is a
// complete independent run with no state retained between invocations.
package sitemap

import (
	"context"

	"github.com/conneroisu/sitemapgen/internal/logging"
	"github.com/conneroisu/sitemapgen/internal/pages"
)

// Filter returns the subset of records eligible for sitemap inclusion,
// preserving input order. Excluded pages and non-HTML outputs are dropped
// silently; pages with a missing URL are dropped with a warning because the
// omission usually points at a host integration bug.
func Filter(ctx context.Context, records []pages.PageRecord, logger logging.Logger) []pages.PageRecord {
	eligible := make([]pages.PageRecord, 0, len(records))

	for _, record := range records {
		if record.Excluded {
			continue
		}
		if !record.HasHTMLOutput() {
			continue
		}
		if record.URL == "" {
			logger.Warn(ctx, nil, "page has no URL, skipping",
				"input_path", record.InputPath,
				"output_path", record.OutputPath,
			)
			continue
		}
		eligible = append(eligible, record)
	}

	return eligible
}
