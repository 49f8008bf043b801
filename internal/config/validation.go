package config

import (
	"fmt"
	"strings"

	"github.com/conneroisu/sitemapgen/internal/pages"
	"github.com/conneroisu/sitemapgen/internal/validation"
)

// IndexPlaceholder is the substring of the chunk filename pattern replaced
// with the 1-based chunk number.
const IndexPlaceholder = "{index}"

// Validate checks the configuration for values that would make a generation
// run misbehave. A missing base URL is deliberately not an error here: the
// generator treats it as a recoverable whole-run skip.
func (c *Config) Validate() error {
	if c.Site.BaseURL != "" {
		if _, err := validation.ValidateBaseURL(c.Site.BaseURL); err != nil {
			return fmt.Errorf("site.base_url: %w", err)
		}
	}

	if c.Sitemap.MaxURLsPerFile <= 0 {
		return fmt.Errorf("sitemap.max_urls_per_file must be positive, got %d", c.Sitemap.MaxURLsPerFile)
	}

	if !strings.Contains(c.Sitemap.ChunkFilenamePattern, IndexPlaceholder) {
		return fmt.Errorf("sitemap.chunk_filename_pattern must contain %s, got %q",
			IndexPlaceholder, c.Sitemap.ChunkFilenamePattern)
	}

	// Filenames from config must already be filesystem-safe so generated
	// names are predictable. Sanitization still runs again before writes.
	if sanitized := validation.SanitizeFilename(c.Sitemap.IndexFilename); sanitized != c.Sitemap.IndexFilename || sanitized == "" {
		return fmt.Errorf("sitemap.index_filename %q is not a safe filename", c.Sitemap.IndexFilename)
	}

	if !pages.ValidChangeFreq(c.Sitemap.DefaultChangeFreq) {
		return fmt.Errorf("sitemap.default_changefreq %q is not a valid change frequency", c.Sitemap.DefaultChangeFreq)
	}

	if p := c.Sitemap.DefaultPriority; p != nil && (*p < 0 || *p > 1) {
		return fmt.Errorf("sitemap.default_priority %v is outside [0,1]", *p)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}

	return nil
}
