package sitemap

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
)

// Namespace is the sitemap protocol XML namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// IndexEntry is one <sitemap> element of a sitemapindex document.
type IndexEntry struct {
	XMLName xml.Name `xml:"sitemap"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod"`
}

type sitemapIndex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	Xmlns    string       `xml:"xmlns,attr"`
	Sitemaps []IndexEntry `xml:"sitemap"`
}

// WriteURLSet streams a urlset document to w, encoding entries in fixed
// processing batches. onBatch, if non-nil, is invoked with the 0-based
// batch index after each batch is encoded; the generator uses it for memory
// checkpoints and cooperative yields. Output is deterministic for a given
// entry sequence.
func WriteURLSet(w io.Writer, entries []URLEntry, batchSize int, onBatch func(batch int)) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(xml.Header); err != nil {
		return fmt.Errorf("writing XML header: %w", err)
	}

	enc := xml.NewEncoder(bw)
	enc.Indent("", "  ")

	root := xml.StartElement{
		Name: xml.Name{Local: "urlset"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns"}, Value: Namespace}},
	}
	if err := enc.EncodeToken(root); err != nil {
		return fmt.Errorf("encoding urlset start: %w", err)
	}

	for i, batch := range Batches(entries, batchSize) {
		for _, entry := range batch {
			if err := enc.Encode(entry); err != nil {
				return fmt.Errorf("encoding url entry %q: %w", entry.Loc, err)
			}
		}
		if onBatch != nil {
			onBatch(i)
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return fmt.Errorf("encoding urlset end: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("flushing encoder: %w", err)
	}
	if _, err := bw.WriteString("\n"); err != nil {
		return fmt.Errorf("writing trailing newline: %w", err)
	}

	return bw.Flush()
}

// SerializeIndex renders a sitemapindex document listing every chunk file.
// Index documents are small, so there is no batching.
func SerializeIndex(entries []IndexEntry) ([]byte, error) {
	doc := sitemapIndex{Xmlns: Namespace, Sitemaps: entries}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding sitemap index: %w", err)
	}

	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	out = append(out, '\n')

	return out, nil
}
