// Package scanner discovers page records from a built site's output
// directory, so sitemapgen can run against any static site without access
// to the build framework that produced it.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/conneroisu/sitemapgen/internal/logging"
	"github.com/conneroisu/sitemapgen/internal/pages"
)

// PageScanner walks an output directory and derives one PageRecord per
// HTML file. Walk order is lexical, so scan results are deterministic.
type PageScanner struct {
	root   string
	logger logging.Logger
}

// NewPageScanner creates a scanner rooted at the built site directory.
func NewPageScanner(root string, logger logging.Logger) *PageScanner {
	return &PageScanner{
		root:   root,
		logger: logger.WithComponent("scanner"),
	}
}

// Scan walks the output directory and returns records for every HTML page.
// Files that cannot be read or parsed are skipped with a warning; only a
// failed walk of the root itself is an error.
func (s *PageScanner) Scan(ctx context.Context) ([]pages.PageRecord, error) {
	var records []pages.PageRecord

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".html" && ext != ".htm" {
			return nil
		}

		record, ok := s.scanFile(ctx, path, d)
		if ok {
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning output directory %s: %w", s.root, err)
	}

	s.logger.Debug(ctx, "scan complete", "root", s.root, "pages", len(records))

	return records, nil
}

// scanFile builds one record from an HTML file. The page URL comes from the
// file's path relative to the root; metadata comes from meta tags with the
// file modification time as the date fallback.
func (s *PageScanner) scanFile(ctx context.Context, path string, d fs.DirEntry) (pages.PageRecord, bool) {
	var record pages.PageRecord

	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		s.logger.Warn(ctx, err, "cannot relativize page path, skipping", "path", path)
		return record, false
	}

	record.OutputPath = path
	record.URL = urlForOutputPath(rel)

	if info, err := d.Info(); err == nil {
		record.Date = info.ModTime()
	}

	file, err := os.Open(path)
	if err != nil {
		s.logger.Warn(ctx, err, "cannot open page, skipping", "path", path)
		return record, false
	}
	defer file.Close()

	doc, err := goquery.NewDocumentFromReader(file)
	if err != nil {
		s.logger.Warn(ctx, err, "cannot parse page HTML, skipping", "path", path)
		return record, false
	}

	s.applyMeta(ctx, doc, &record)

	return record, true
}

// applyMeta reads sitemap-relevant meta tags from a parsed document.
func (s *PageScanner) applyMeta(ctx context.Context, doc *goquery.Document, record *pages.PageRecord) {
	doc.Find("meta[name]").Each(func(_ int, sel *goquery.Selection) {
		name, _ := sel.Attr("name")
		content, _ := sel.Attr("content")

		switch strings.ToLower(name) {
		case "robots":
			if strings.Contains(strings.ToLower(content), "noindex") {
				record.Excluded = true
			}
		case "last-modified":
			parsed, err := pages.ParseDate(content)
			if err != nil {
				s.logger.Warn(ctx, err, "unparsable last-modified meta, using file time",
					"path", record.OutputPath,
					"value", content,
				)
				return
			}
			record.Date = parsed
		}
	})
}

// urlForOutputPath maps a relative output file path to a site URL. Index
// files map to their directory with a trailing slash, everything else maps
// to its own path.
func urlForOutputPath(rel string) string {
	slashed := filepath.ToSlash(rel)

	if slashed == "index.html" || slashed == "index.htm" {
		return "/"
	}

	base := filepath.Base(slashed)
	if base == "index.html" || base == "index.htm" {
		return "/" + strings.TrimSuffix(slashed, base)
	}

	return "/" + slashed
}
