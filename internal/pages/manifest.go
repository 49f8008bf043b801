package pages

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest is the YAML document a host can supply instead of a live page
// collection. The top-level "pages" key lists records in output order.
type Manifest struct {
	Pages []manifestPage `yaml:"pages"`
}

// manifestPage mirrors PageRecord with the date as a string so manifests
// may use either bare dates (2024-01-02) or full timestamps.
type manifestPage struct {
	URL        string    `yaml:"url"`
	Date       string    `yaml:"date"`
	InputPath  string    `yaml:"input_path"`
	OutputPath string    `yaml:"output_path"`
	Excluded   bool      `yaml:"excluded"`
	Priority   *float64  `yaml:"page_priority"`
	Overrides  Overrides `yaml:"sitemap"`
}

// LoadManifest reads a page manifest from path and converts it to
// PageRecords, preserving document order.
func LoadManifest(path string) ([]PageRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading page manifest: %w", err)
	}

	return ParseManifest(data)
}

// ParseManifest parses manifest YAML into PageRecords.
func ParseManifest(data []byte) ([]PageRecord, error) {
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing page manifest: %w", err)
	}

	records := make([]PageRecord, 0, len(manifest.Pages))
	for i, mp := range manifest.Pages {
		record := PageRecord{
			URL:        mp.URL,
			InputPath:  mp.InputPath,
			OutputPath: mp.OutputPath,
			Excluded:   mp.Excluded,
			Priority:   mp.Priority,
			Overrides:  mp.Overrides,
		}

		if mp.Date != "" {
			date, err := ParseDate(mp.Date)
			if err != nil {
				return nil, fmt.Errorf("page %d (%s): %w", i, mp.URL, err)
			}
			record.Date = date
		}

		records = append(records, record)
	}

	return records, nil
}

// dateLayouts are the accepted date formats, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO date or timestamp string.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", value)
}
