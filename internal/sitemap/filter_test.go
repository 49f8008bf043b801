package sitemap

import (
	"context"
	"testing"

	"github.com/conneroisu/sitemapgen/internal/logging"
	"github.com/conneroisu/sitemapgen/internal/pages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterDropsExcluded(t *testing.T) {
	records := []pages.PageRecord{
		{URL: "/", OutputPath: "index.html"},
		{URL: "/private/", OutputPath: "private/index.html", Excluded: true},
		{URL: "/about/", OutputPath: "about/index.html"},
	}

	eligible := Filter(context.Background(), records, logging.NewNopLogger())

	require.Len(t, eligible, 2)
	assert.Equal(t, "/", eligible[0].URL)
	assert.Equal(t, "/about/", eligible[1].URL)
}

func TestFilterDropsNonHTML(t *testing.T) {
	records := []pages.PageRecord{
		{URL: "/feed.xml", OutputPath: "feed.xml"},
		{URL: "/search.json", OutputPath: "search.json"},
		{URL: "/", OutputPath: "index.html"},
	}

	eligible := Filter(context.Background(), records, logging.NewNopLogger())

	require.Len(t, eligible, 1)
	assert.Equal(t, "/", eligible[0].URL)
}

func TestFilterWarnsOnMissingURL(t *testing.T) {
	capture := logging.NewCaptureLogger()
	records := []pages.PageRecord{
		{URL: "", InputPath: "src/broken.md", OutputPath: "broken.html"},
		{URL: "/ok/", OutputPath: "ok/index.html"},
	}

	eligible := Filter(context.Background(), records, capture)

	require.Len(t, eligible, 1)
	warns := capture.EntriesAt(logging.LevelWarn)
	require.Len(t, warns, 1)
	assert.Equal(t, "src/broken.md", warns[0].Fields["input_path"])
}

func TestFilterPreservesOrder(t *testing.T) {
	records := []pages.PageRecord{
		{URL: "/c/", OutputPath: "c.html"},
		{URL: "/a/", OutputPath: "a.html"},
		{URL: "/b/", OutputPath: "b.html"},
	}

	eligible := Filter(context.Background(), records, logging.NewNopLogger())

	require.Len(t, eligible, 3)
	assert.Equal(t, "/c/", eligible[0].URL)
	assert.Equal(t, "/a/", eligible[1].URL)
	assert.Equal(t, "/b/", eligible[2].URL)
}

func TestFilterEmptyInput(t *testing.T) {
	eligible := Filter(context.Background(), nil, logging.NewNopLogger())
	assert.Empty(t, eligible)
}
