package sitemap

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/conneroisu/sitemapgen/internal/errors"
	"github.com/conneroisu/sitemapgen/internal/logging"
	"github.com/conneroisu/sitemapgen/internal/pages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	return parsed
}

func TestNormalizeResolvesURL(t *testing.T) {
	base := mustParseURL(t, "https://example.com")

	testCases := []struct {
		name     string
		pageURL  string
		expected string
	}{
		{"root", "/", "https://example.com/"},
		{"trailing slash", "/about/", "https://example.com/about/"},
		{"nested", "/blog/post-1/", "https://example.com/blog/post-1/"},
		{"already absolute", "https://example.com/x", "https://example.com/x"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entry, ok, err := Normalize(context.Background(), pages.PageRecord{URL: tc.pageURL}, base, Defaults{}, logging.NewNopLogger())
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tc.expected, entry.Loc)
		})
	}
}

func TestNormalizeBaseWithSubpath(t *testing.T) {
	base := mustParseURL(t, "https://example.com/docs/")

	entry, ok, err := Normalize(context.Background(), pages.PageRecord{URL: "guide/"}, base, Defaults{}, logging.NewNopLogger())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/docs/guide/", entry.Loc)
}

func TestNormalizeUnparsableURLIsWarnSkip(t *testing.T) {
	base := mustParseURL(t, "https://example.com")
	capture := logging.NewCaptureLogger()

	// Control characters make url.Parse fail.
	_, ok, err := Normalize(context.Background(), pages.PageRecord{URL: "/bad\x7f\x00url"}, base, Defaults{}, capture)
	require.NoError(t, err)
	assert.False(t, ok)

	warns := capture.EntriesAt(logging.LevelWarn)
	require.NotEmpty(t, warns)
	assert.True(t, errors.IsType(warns[0].Err, errors.ErrorTypeValidation))
}

func TestNormalizeDateSelection(t *testing.T) {
	base := mustParseURL(t, "https://example.com")
	pageDate := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		page     pages.PageRecord
		expected string
	}{
		{
			name:     "override wins",
			page:     pages.PageRecord{URL: "/", Date: pageDate, Overrides: pages.Overrides{LastMod: "2024-06-30"}},
			expected: "2024-06-30",
		},
		{
			name:     "page date fallback",
			page:     pages.PageRecord{URL: "/", Date: pageDate},
			expected: "2024-01-15",
		},
		{
			name:     "no date omits field",
			page:     pages.PageRecord{URL: "/"},
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entry, ok, err := Normalize(context.Background(), tc.page, base, Defaults{}, logging.NewNopLogger())
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tc.expected, entry.LastMod)
		})
	}
}

func TestNormalizeInvalidDateOverrideIsFatal(t *testing.T) {
	base := mustParseURL(t, "https://example.com")
	page := pages.PageRecord{URL: "/", Overrides: pages.Overrides{LastMod: "not-a-date"}}

	_, _, err := Normalize(context.Background(), page, base, Defaults{}, logging.NewNopLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid date provided: not-a-date")
}

func TestNormalizeChangeFreq(t *testing.T) {
	base := mustParseURL(t, "https://example.com")
	defaults := Defaults{ChangeFreq: "yearly"}

	entry, _, err := Normalize(context.Background(), pages.PageRecord{URL: "/"}, base, defaults, logging.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, "yearly", entry.ChangeFreq)

	page := pages.PageRecord{URL: "/", Overrides: pages.Overrides{ChangeFreq: "daily"}}
	entry, _, err = Normalize(context.Background(), page, base, defaults, logging.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, "daily", entry.ChangeFreq)
}

func TestNormalizePriorityPrecedence(t *testing.T) {
	base := mustParseURL(t, "https://example.com")
	override, fallback, siteDefault := 0.9, 0.6, 0.3

	testCases := []struct {
		name     string
		page     pages.PageRecord
		defaults Defaults
		expected string
	}{
		{
			name:     "override wins",
			page:     pages.PageRecord{URL: "/", Priority: &fallback, Overrides: pages.Overrides{Priority: &override}},
			defaults: Defaults{Priority: &siteDefault},
			expected: "0.9",
		},
		{
			name:     "page fallback",
			page:     pages.PageRecord{URL: "/", Priority: &fallback},
			defaults: Defaults{Priority: &siteDefault},
			expected: "0.6",
		},
		{
			name:     "site default",
			page:     pages.PageRecord{URL: "/"},
			defaults: Defaults{Priority: &siteDefault},
			expected: "0.3",
		},
		{
			name:     "nothing set",
			page:     pages.PageRecord{URL: "/"},
			defaults: Defaults{},
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entry, ok, err := Normalize(context.Background(), tc.page, base, tc.defaults, logging.NewNopLogger())
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tc.expected, entry.Priority)
		})
	}
}

func TestNormalizeOutOfRangePriorityDropped(t *testing.T) {
	base := mustParseURL(t, "https://example.com")

	for _, bad := range []float64{-0.5, 1.5, 2} {
		capture := logging.NewCaptureLogger()
		page := pages.PageRecord{URL: "/", Overrides: pages.Overrides{Priority: &bad}}

		entry, ok, err := Normalize(context.Background(), page, base, Defaults{}, capture)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Empty(t, entry.Priority)

		warns := capture.EntriesAt(logging.LevelWarn)
		require.Len(t, warns, 1)
		assert.Equal(t, "/", warns[0].Fields["url"])
		assert.Equal(t, bad, warns[0].Fields["priority"])
		assert.True(t, errors.IsType(warns[0].Err, errors.ErrorTypeValidation))
	}
}

func TestNormalizeBoundaryPrioritiesKept(t *testing.T) {
	base := mustParseURL(t, "https://example.com")

	testCases := []struct {
		priority float64
		expected string
	}{
		{0, "0"},
		{1, "1"},
		{0.5, "0.5"},
	}

	for _, tc := range testCases {
		page := pages.PageRecord{URL: "/", Overrides: pages.Overrides{Priority: &tc.priority}}
		entry, ok, err := Normalize(context.Background(), page, base, Defaults{}, logging.NewNopLogger())
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, tc.expected, entry.Priority)
	}
}

func TestNormalizeSmallPriorityStaysDecimal(t *testing.T) {
	base := mustParseURL(t, "https://example.com")

	// %g formatting would render these in scientific notation.
	testCases := []struct {
		priority float64
		expected string
	}{
		{0.00001, "0.00001"},
		{0.0000001, "0.0000001"},
	}

	for _, tc := range testCases {
		page := pages.PageRecord{URL: "/", Overrides: pages.Overrides{Priority: &tc.priority}}
		entry, ok, err := Normalize(context.Background(), page, base, Defaults{}, logging.NewNopLogger())
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, tc.expected, entry.Priority)
		assert.NotContains(t, entry.Priority, "e")
	}
}
