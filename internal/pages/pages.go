// Package pages defines the page records fed into the sitemap generation
// pipeline and a YAML manifest loader for hosts that do not embed a build
// framework.
package pages

import "time"

// ChangeFreq values accepted by the sitemap protocol.
var validChangeFreqs = map[string]bool{
	"always":  true,
	"hourly":  true,
	"daily":   true,
	"weekly":  true,
	"monthly": true,
	"yearly":  true,
	"never":   true,
}

// ValidChangeFreq reports whether freq is a change frequency the sitemap
// protocol accepts. The empty string is valid and means "unset".
func ValidChangeFreq(freq string) bool {
	if freq == "" {
		return true
	}
	return validChangeFreqs[freq]
}

// Overrides carries per-page sitemap settings that take precedence over
// site-wide defaults.
type Overrides struct {
	// ChangeFreq overrides the site default change frequency.
	ChangeFreq string `yaml:"changefreq"`

	// Priority overrides the page priority. Must lie in [0,1]; out-of-range
	// values are dropped with a warning during normalization.
	Priority *float64 `yaml:"priority"`

	// LastMod overrides the page's modification date. Must parse as an ISO
	// date; an unparsable value fails the whole generation run.
	LastMod string `yaml:"lastmod"`
}

// PageRecord is one page of the built site as seen by the pipeline. Records
// are created once per run from the host's page collection (or a manifest)
// and are immutable for the duration of that run.
type PageRecord struct {
	// URL is the page location relative to the site base URL, e.g. "/about/".
	URL string `yaml:"url"`

	// Date is the page's own build or content date. Zero means unknown.
	Date time.Time `yaml:"date"`

	// InputPath is the source file the page was built from.
	InputPath string `yaml:"input_path"`

	// OutputPath is the file the page was rendered to.
	OutputPath string `yaml:"output_path"`

	// Excluded marks pages that asked not to be listed.
	Excluded bool `yaml:"excluded"`

	// Priority is a page-level fallback priority, consulted when no
	// override is present.
	Priority *float64 `yaml:"page_priority"`

	// Overrides holds per-page sitemap settings.
	Overrides Overrides `yaml:"sitemap"`
}

// HasHTMLOutput reports whether the page renders to an HTML file. Pages
// without an output path are treated as HTML, matching hosts that stream
// output without materializing paths.
func (p PageRecord) HasHTMLOutput() bool {
	if p.OutputPath == "" {
		return true
	}
	return hasHTMLExt(p.OutputPath)
}

func hasHTMLExt(path string) bool {
	for _, ext := range []string{".html", ".htm"} {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}
