// Package validation provides security validation for generated file names
// and site URLs, preventing path traversal and malformed output locations.
package validation

import (
	"fmt"
	"path/filepath"
	"strings"
)

// fsSpecial is the set of filesystem-special characters replaced during
// sanitization. Covers Windows-reserved characters as well as path
// separators on POSIX systems.
const fsSpecial = `/\:*?"<>|`

// SanitizeFilename produces a filesystem-safe filename from a candidate
// name, which may come from a user-configurable pattern. Control characters
// and filesystem-special characters become underscores; leading dots are
// stripped so a pattern cannot produce a hidden file; trailing dots are
// stripped because Windows silently drops them.
func SanitizeFilename(name string) string {
	sanitized := replaceSpecial(name)
	sanitized = strings.TrimLeft(sanitized, ".")
	sanitized = strings.TrimRight(sanitized, ".")

	return sanitized
}

// SanitizePathSegment sanitizes one directory segment of a relative output
// path. Unlike SanitizeFilename it preserves leading dots so well-known
// directory names like ".well-known" survive; callers must reject ".."
// segments before sanitizing.
func SanitizePathSegment(name string) string {
	return strings.TrimRight(replaceSpecial(name), ".")
}

func replaceSpecial(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	for _, r := range name {
		if r < 32 || r == 127 || strings.ContainsRune(fsSpecial, r) {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// SafeJoin joins a sanitized filename onto the output directory and
// verifies, by comparing resolved absolute paths, that the result stays
// inside the output directory. It returns the absolute path to write to.
func SafeJoin(outputDir, filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	absRoot, err := filepath.Abs(outputDir)
	if err != nil {
		return "", fmt.Errorf("resolving output directory: %w", err)
	}

	candidate := filepath.Join(absRoot, filename)
	absCandidate, err := filepath.Abs(candidate)
	if err != nil {
		return "", fmt.Errorf("resolving output path: %w", err)
	}

	rel, err := filepath.Rel(absRoot, absCandidate)
	if err != nil {
		return "", fmt.Errorf("computing relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("filename %q resolves outside output directory", filename)
	}

	return absCandidate, nil
}
