package sitemap

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteURLSetDocument(t *testing.T) {
	entries := []URLEntry{
		{Loc: "https://example.com/", LastMod: "2024-01-01", ChangeFreq: "yearly"},
		{Loc: "https://example.com/about/", LastMod: "2024-01-02", ChangeFreq: "weekly", Priority: "0.8"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteURLSet(&buf, entries, 1000, nil))
	output := buf.String()

	assert.True(t, strings.HasPrefix(output, xml.Header))
	assert.Contains(t, output, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, output, "<loc>https://example.com/</loc>")
	assert.Contains(t, output, "<loc>https://example.com/about/</loc>")
	assert.Contains(t, output, "<lastmod>2024-01-01</lastmod>")
	assert.Contains(t, output, "<changefreq>weekly</changefreq>")
	assert.Contains(t, output, "<priority>0.8</priority>")
	assert.Contains(t, output, "</urlset>")
}

func TestWriteURLSetFieldOrder(t *testing.T) {
	entries := []URLEntry{
		{Loc: "https://example.com/", LastMod: "2024-01-01", ChangeFreq: "daily", Priority: "0.5"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteURLSet(&buf, entries, 10, nil))
	output := buf.String()

	locIdx := strings.Index(output, "<loc>")
	lastModIdx := strings.Index(output, "<lastmod>")
	changeFreqIdx := strings.Index(output, "<changefreq>")
	priorityIdx := strings.Index(output, "<priority>")

	require.NotEqual(t, -1, locIdx)
	assert.Less(t, locIdx, lastModIdx)
	assert.Less(t, lastModIdx, changeFreqIdx)
	assert.Less(t, changeFreqIdx, priorityIdx)
}

func TestWriteURLSetOmitsEmptyOptionalFields(t *testing.T) {
	entries := []URLEntry{{Loc: "https://example.com/"}}

	var buf bytes.Buffer
	require.NoError(t, WriteURLSet(&buf, entries, 10, nil))
	output := buf.String()

	assert.Contains(t, output, "<loc>")
	assert.NotContains(t, output, "<lastmod>")
	assert.NotContains(t, output, "<changefreq>")
	assert.NotContains(t, output, "<priority>")
}

func TestWriteURLSetEscapesSpecialCharacters(t *testing.T) {
	entries := []URLEntry{{Loc: "https://example.com/search?q=a&b=<c>"}}

	var buf bytes.Buffer
	require.NoError(t, WriteURLSet(&buf, entries, 10, nil))
	output := buf.String()

	assert.Contains(t, output, "&amp;")
	assert.NotContains(t, output, "q=a&b")
	assert.NotContains(t, output, "<c>")
}

func TestWriteURLSetIsWellFormed(t *testing.T) {
	entries := []URLEntry{
		{Loc: "https://example.com/", LastMod: "2024-01-01"},
		{Loc: "https://example.com/a?x=1&y=2", ChangeFreq: "never", Priority: "0.3"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteURLSet(&buf, entries, 10, nil))

	var parsed struct {
		XMLName xml.Name `xml:"urlset"`
		URLs    []struct {
			Loc        string   `xml:"loc"`
			LastMod    string   `xml:"lastmod"`
			ChangeFreq string   `xml:"changefreq"`
			Priority   *float64 `xml:"priority"`
		} `xml:"url"`
	}
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &parsed))
	require.Len(t, parsed.URLs, 2)
	assert.Equal(t, "https://example.com/", parsed.URLs[0].Loc)
	assert.Equal(t, "https://example.com/a?x=1&y=2", parsed.URLs[1].Loc)
	require.NotNil(t, parsed.URLs[1].Priority)
	assert.InDelta(t, 0.3, *parsed.URLs[1].Priority, 1e-9)
}

func TestWriteURLSetSmallPriorityStaysDecimal(t *testing.T) {
	entries := []URLEntry{
		{Loc: "https://example.com/", Priority: formatPriority(0.00001)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteURLSet(&buf, entries, 10, nil))
	output := buf.String()

	assert.Contains(t, output, "<priority>0.00001</priority>")
	assert.NotContains(t, output, "e-")
}

func TestWriteURLSetBatchCallback(t *testing.T) {
	entries := make([]URLEntry, 25)
	for i := range entries {
		entries[i] = URLEntry{Loc: "https://example.com/"}
	}

	var batches []int
	var buf bytes.Buffer
	require.NoError(t, WriteURLSet(&buf, entries, 10, func(batch int) {
		batches = append(batches, batch)
	}))

	assert.Equal(t, []int{0, 1, 2}, batches)
}

func TestWriteURLSetDeterministic(t *testing.T) {
	entries := []URLEntry{
		{Loc: "https://example.com/", LastMod: "2024-01-01", ChangeFreq: "yearly", Priority: "0.7"},
		{Loc: "https://example.com/b/"},
	}

	var first, second bytes.Buffer
	require.NoError(t, WriteURLSet(&first, entries, 1, nil))
	require.NoError(t, WriteURLSet(&second, entries, 100, nil))

	// Batch size affects scheduling, never bytes.
	assert.Equal(t, first.String(), second.String())
}

func TestWriteURLSetEmptyEntries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteURLSet(&buf, nil, 10, nil))

	output := buf.String()
	assert.Contains(t, output, "urlset")
	assert.NotContains(t, output, "<url>")
}

func TestSerializeIndex(t *testing.T) {
	entries := []IndexEntry{
		{Loc: "https://example.com/sitemap-1.xml", LastMod: "2025-01-01T00:00:00Z"},
		{Loc: "https://example.com/sitemap-2.xml", LastMod: "2025-01-01T00:00:00Z"},
	}

	data, err := SerializeIndex(entries)
	require.NoError(t, err)
	output := string(data)

	assert.True(t, strings.HasPrefix(output, xml.Header))
	assert.Contains(t, output, `<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, output, "<loc>https://example.com/sitemap-1.xml</loc>")
	assert.Contains(t, output, "<loc>https://example.com/sitemap-2.xml</loc>")
	assert.Contains(t, output, "<lastmod>2025-01-01T00:00:00Z</lastmod>")

	var parsed struct {
		XMLName  xml.Name `xml:"sitemapindex"`
		Sitemaps []struct {
			Loc     string `xml:"loc"`
			LastMod string `xml:"lastmod"`
		} `xml:"sitemap"`
	}
	require.NoError(t, xml.Unmarshal(data, &parsed))
	require.Len(t, parsed.Sitemaps, 2)
}
