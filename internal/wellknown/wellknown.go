// Package wellknown generates the small site-metadata files that accompany
// a sitemap: robots.txt, .well-known/security.txt, and a _headers file with
// security headers. All files go through the same path-safety checks as
// sitemap output.
package wellknown

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/conneroisu/sitemapgen/internal/config"
	"github.com/conneroisu/sitemapgen/internal/logging"
	"github.com/conneroisu/sitemapgen/internal/sitemap"
)

// defaultSecurityHeaders are applied to every path in the _headers file.
// Extra configured headers are appended after these, sorted by name.
var defaultSecurityHeaders = [][2]string{
	{"X-Frame-Options", "DENY"},
	{"X-Content-Type-Options", "nosniff"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Permissions-Policy", "camera=(), microphone=(), geolocation=()"},
}

// Builder assembles well-known output files from configuration.
type Builder struct {
	cfg    *config.Config
	logger logging.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(cfg *config.Config, logger logging.Logger) *Builder {
	return &Builder{
		cfg:    cfg,
		logger: logger.WithComponent("wellknown"),
	}
}

// Files returns the enabled well-known files in a fixed order.
func (b *Builder) Files() []sitemap.OutputFile {
	var files []sitemap.OutputFile

	if b.cfg.WellKnown.Robots.Enabled {
		files = append(files, sitemap.OutputFile{
			Name: "robots.txt",
			Data: b.robotsTxt(),
		})
	}

	if b.cfg.WellKnown.SecurityTxt.Enabled {
		files = append(files, sitemap.OutputFile{
			Name: ".well-known/security.txt",
			Data: b.securityTxt(),
		})
	}

	if b.cfg.WellKnown.Headers.Enabled {
		files = append(files, sitemap.OutputFile{
			Name: "_headers",
			Data: b.headersFile(),
		})
	}

	return files
}

// Generate writes every enabled well-known file into the output directory.
// Nothing enabled is not an error.
func (b *Builder) Generate(ctx context.Context) error {
	files := b.Files()
	if len(files) == 0 {
		b.logger.Debug(ctx, "no well-known files enabled")
		return nil
	}

	writer := sitemap.NewFileWriter(b.cfg.Output.Dir, b.logger)
	if err := writer.WriteFiles(ctx, files); err != nil {
		return err
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	b.logger.Info(ctx, "well-known files written", "files", strings.Join(names, ", "))

	return nil
}

// robotsTxt renders a robots.txt that allows everything not explicitly
// disallowed and advertises the sitemap index when a base URL is known.
func (b *Builder) robotsTxt() []byte {
	var sb strings.Builder

	sb.WriteString("User-agent: *\n")
	if len(b.cfg.WellKnown.Robots.Disallow) == 0 {
		sb.WriteString("Disallow:\n")
	} else {
		for _, rule := range b.cfg.WellKnown.Robots.Disallow {
			fmt.Fprintf(&sb, "Disallow: %s\n", rule)
		}
	}

	if b.cfg.Site.BaseURL != "" && b.cfg.Sitemap.Enabled {
		if base, err := url.Parse(b.cfg.Site.BaseURL); err == nil {
			fmt.Fprintf(&sb, "\nSitemap: %s\n", base.JoinPath(b.cfg.Sitemap.IndexFilename))
		}
	}

	return []byte(sb.String())
}

// securityTxt renders a minimal RFC 9116 security.txt.
func (b *Builder) securityTxt() []byte {
	var sb strings.Builder

	if contact := b.cfg.WellKnown.SecurityTxt.Contact; contact != "" {
		fmt.Fprintf(&sb, "Contact: %s\n", contact)
	}
	if expires := b.cfg.WellKnown.SecurityTxt.Expires; expires != "" {
		fmt.Fprintf(&sb, "Expires: %s\n", expires)
	}

	return []byte(sb.String())
}

// headersFile renders a _headers file applying security headers to all
// paths. Extra headers are emitted in sorted order so output is stable.
func (b *Builder) headersFile() []byte {
	var sb strings.Builder

	sb.WriteString("/*\n")
	for _, header := range defaultSecurityHeaders {
		fmt.Fprintf(&sb, "  %s: %s\n", header[0], header[1])
	}

	extra := b.cfg.WellKnown.Headers.Extra
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %s: %s\n", k, extra[k])
	}

	return []byte(sb.String())
}
