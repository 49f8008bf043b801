package sitemap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/conneroisu/sitemapgen/internal/errors"
	"github.com/conneroisu/sitemapgen/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	writer := NewFileWriter(dir, logging.NewNopLogger())

	files := []OutputFile{
		{Name: "sitemap-1.xml", Data: []byte("one")},
		{Name: "sitemap-2.xml", Data: []byte("two")},
		{Name: "sitemap.xml", Data: []byte("index")},
	}

	require.NoError(t, writer.WriteFiles(context.Background(), files))

	for _, file := range files {
		data, err := os.ReadFile(filepath.Join(dir, file.Name))
		require.NoError(t, err)
		assert.Equal(t, file.Data, data)
	}
}

func TestWriteFilesCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	writer := NewFileWriter(dir, logging.NewNopLogger())

	require.NoError(t, writer.WriteFiles(context.Background(), []OutputFile{
		{Name: "sitemap.xml", Data: []byte("x")},
	}))

	_, err := os.Stat(filepath.Join(dir, "sitemap.xml"))
	assert.NoError(t, err)
}

func TestWriteFilesSubdirectory(t *testing.T) {
	dir := t.TempDir()
	writer := NewFileWriter(dir, logging.NewNopLogger())

	require.NoError(t, writer.WriteFiles(context.Background(), []OutputFile{
		{Name: ".well-known/security.txt", Data: []byte("Contact: x")},
	}))

	// Directory segments keep their leading dot; only the filename segment
	// has it stripped.
	data, err := os.ReadFile(filepath.Join(dir, ".well-known", "security.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Contact: x", string(data))
}

func TestWriteFilesRejectsTraversalBeforeAnyWrite(t *testing.T) {
	dir := t.TempDir()
	writer := NewFileWriter(dir, logging.NewNopLogger())

	files := []OutputFile{
		{Name: "sitemap-1.xml", Data: []byte("good")},
		{Name: "../escape.xml", Data: []byte("evil")},
	}

	err := writer.WriteFiles(context.Background(), files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "../escape.xml")
	assert.True(t, errors.IsType(err, errors.ErrorTypeSecurity))

	// The good file must not have been written: validation precedes writes.
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestSafeOutputPath(t *testing.T) {
	dir := t.TempDir()
	writer := NewFileWriter(dir, logging.NewNopLogger())

	testCases := []struct {
		name     string
		input    string
		expected string // relative to dir, empty means error
	}{
		{"plain", "sitemap.xml", "sitemap.xml"},
		{"special chars replaced", "site:map?.xml", "site_map_.xml"},
		{"parent traversal", "../evil.xml", ""},
		{"embedded traversal", "a/../../evil.xml", ""},
		{"dot only segment", "...", ""},
		{"hidden file dot stripped", ".hidden.xml", "hidden.xml"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path, err := writer.SafeOutputPath(tc.input)
			if tc.expected == "" {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrorTypeSecurity))
			} else {
				require.NoError(t, err)
				assert.Equal(t, filepath.Join(dir, tc.expected), path)
			}
		})
	}
}

func TestWriteFilesManyConcurrent(t *testing.T) {
	dir := t.TempDir()
	writer := NewFileWriter(dir, logging.NewNopLogger())

	// More files than the write batch width to exercise batched waits.
	var files []OutputFile
	for i := 0; i < 30; i++ {
		files = append(files, OutputFile{
			Name: "sitemap-" + string(rune('a'+i%26)) + ".xml",
			Data: []byte{byte(i)},
		})
	}

	require.NoError(t, writer.WriteFiles(context.Background(), files))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 26) // later duplicates overwrite earlier names
}

func TestWriteFilesEmptyList(t *testing.T) {
	dir := t.TempDir()
	writer := NewFileWriter(dir, logging.NewNopLogger())

	require.NoError(t, writer.WriteFiles(context.Background(), nil))
}
