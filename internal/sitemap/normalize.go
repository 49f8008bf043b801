package sitemap

import (
	"context"
	"encoding/xml"
	"net/url"
	"strconv"

	"github.com/conneroisu/sitemapgen/internal/errors"
	"github.com/conneroisu/sitemapgen/internal/logging"
	"github.com/conneroisu/sitemapgen/internal/pages"
)

// lastModLayout is the date format emitted for <lastmod> elements.
const lastModLayout = "2006-01-02"

// URLEntry is one <url> element of a urlset document. Field order matches
// emission order and is part of the output contract. Priority is held as a
// pre-formatted decimal string because encoding/xml renders float64 in %g
// form, which turns small values into scientific notation.
type URLEntry struct {
	XMLName    xml.Name `xml:"url"`
	Loc        string   `xml:"loc"`
	LastMod    string   `xml:"lastmod,omitempty"`
	ChangeFreq string   `xml:"changefreq,omitempty"`
	Priority   string   `xml:"priority,omitempty"`
}

// Defaults carries the site-wide fallbacks applied during normalization.
type Defaults struct {
	ChangeFreq string
	Priority   *float64
}

// Normalize derives a URLEntry from one page record. The second return
// value reports whether the page should be included; a false value with a
// nil error means the page was dropped with a warning. A non-nil error is
// fatal for the whole run and currently only arises from an unparsable
// lastmod override.
func Normalize(ctx context.Context, page pages.PageRecord, base *url.URL, defaults Defaults, logger logging.Logger) (URLEntry, bool, error) {
	var entry URLEntry

	rel, err := url.Parse(page.URL)
	if err != nil {
		warnErr := errors.NewValidationError("unparsable_url", "page URL cannot be parsed").
			WithCause(err).WithPath(page.InputPath)
		logger.Warn(ctx, warnErr, "page URL cannot be parsed, skipping",
			"url", page.URL,
			"input_path", page.InputPath,
		)
		return entry, false, nil
	}

	resolved := base.ResolveReference(rel)
	if !resolved.IsAbs() || resolved.Host == "" {
		warnErr := errors.NewValidationError("unresolvable_url", "page URL does not resolve to an absolute location").
			WithPath(page.InputPath).WithContext("resolved", resolved.String())
		logger.Warn(ctx, warnErr, "page URL does not resolve to an absolute location, skipping",
			"url", page.URL,
			"resolved", resolved.String(),
		)
		return entry, false, nil
	}
	entry.Loc = resolved.String()

	lastMod, err := resolveLastMod(page)
	if err != nil {
		return entry, false, err
	}
	entry.LastMod = lastMod

	if page.Overrides.ChangeFreq != "" {
		entry.ChangeFreq = page.Overrides.ChangeFreq
	} else {
		entry.ChangeFreq = defaults.ChangeFreq
	}

	if p := resolvePriority(ctx, page, defaults, logger); p != nil {
		entry.Priority = formatPriority(*p)
	}

	return entry, true, nil
}

// formatPriority renders a priority as a plain decimal; FormatFloat with
// the 'f' verb never produces an exponent.
func formatPriority(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// resolveLastMod selects the page's modification date: an explicit override
// wins, then the page's own date, then the field is omitted. An override
// that fails to parse fails the whole run; overrides are operator-supplied
// configuration, not crawled data.
func resolveLastMod(page pages.PageRecord) (string, error) {
	if raw := page.Overrides.LastMod; raw != "" {
		parsed, err := pages.ParseDate(raw)
		if err != nil {
			return "", errors.InvalidDateError(raw).WithPath(page.InputPath)
		}
		return parsed.Format(lastModLayout), nil
	}

	if !page.Date.IsZero() {
		return page.Date.Format(lastModLayout), nil
	}

	return "", nil
}

// resolvePriority selects the entry priority: override, then page-level
// fallback, then site default. Out-of-range values are dropped with a
// warning rather than clamped.
func resolvePriority(ctx context.Context, page pages.PageRecord, defaults Defaults, logger logging.Logger) *float64 {
	candidates := []*float64{page.Overrides.Priority, page.Priority, defaults.Priority}

	for _, p := range candidates {
		if p == nil {
			continue
		}
		if *p < 0 || *p > 1 {
			warnErr := errors.NewValidationError("priority_out_of_range", "priority outside [0,1]").
				WithPath(page.InputPath).WithContext("priority", *p)
			logger.Warn(ctx, warnErr, "priority outside [0,1], dropping",
				"url", page.URL,
				"priority", *p,
			)
			return nil
		}
		value := *p
		return &value
	}

	return nil
}
