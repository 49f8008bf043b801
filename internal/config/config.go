// Package config provides configuration management for sitemapgen using
// Viper for flexible configuration loading from files, environment
// variables, and command-line flags.
//
// The configuration system supports YAML files and environment variable
// overrides with the SITEMAPGEN_ prefix. It manages the site base URL,
// sitemap generation options, well-known file generation, the preview
// server, and watch mode.
package config

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Site      SiteConfig      `yaml:"site" mapstructure:"site"`
	Sitemap   SitemapConfig   `yaml:"sitemap" mapstructure:"sitemap"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	WellKnown WellKnownConfig `yaml:"well_known" mapstructure:"well_known"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Watch     WatchConfig     `yaml:"watch" mapstructure:"watch"`
}

type SiteConfig struct {
	// BaseURL is the canonical absolute root of the site. Every page URL is
	// resolved against it. Empty disables sitemap output with a warning.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

type SitemapConfig struct {
	Enabled              bool     `yaml:"enabled" mapstructure:"enabled"`
	MaxURLsPerFile       int      `yaml:"max_urls_per_file" mapstructure:"max_urls_per_file"`
	SplitLargeSites      bool     `yaml:"split_large_sites" mapstructure:"split_large_sites"`
	IndexFilename        string   `yaml:"index_filename" mapstructure:"index_filename"`
	ChunkFilenamePattern string   `yaml:"chunk_filename_pattern" mapstructure:"chunk_filename_pattern"`
	DefaultChangeFreq    string   `yaml:"default_changefreq" mapstructure:"default_changefreq"`
	DefaultPriority      *float64 `yaml:"default_priority" mapstructure:"default_priority"`

	// MemoryCheckCadence makes only every nth batch boundary take a memory
	// sample. 1 samples every boundary.
	MemoryCheckCadence int `yaml:"memory_check_cadence" mapstructure:"memory_check_cadence"`
}

type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

type WellKnownConfig struct {
	Robots      RobotsConfig      `yaml:"robots" mapstructure:"robots"`
	SecurityTxt SecurityTxtConfig `yaml:"security_txt" mapstructure:"security_txt"`
	Headers     HeadersConfig     `yaml:"headers" mapstructure:"headers"`
}

type RobotsConfig struct {
	Enabled  bool     `yaml:"enabled" mapstructure:"enabled"`
	Disallow []string `yaml:"disallow" mapstructure:"disallow"`
}

type SecurityTxtConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Contact string `yaml:"contact" mapstructure:"contact"`
	Expires string `yaml:"expires" mapstructure:"expires"`
}

type HeadersConfig struct {
	Enabled bool              `yaml:"enabled" mapstructure:"enabled"`
	Extra   map[string]string `yaml:"extra" mapstructure:"extra"`
}

type ServerConfig struct {
	Host           string   `yaml:"host" mapstructure:"host"`
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

type WatchConfig struct {
	Paths    []string      `yaml:"paths" mapstructure:"paths"`
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`
}

// Documented defaults for the sitemap component.
const (
	DefaultMaxURLsPerFile       = 50000
	DefaultChangeFreq           = "yearly"
	DefaultIndexFilename        = "sitemap.xml"
	DefaultChunkFilenamePattern = "sitemap-{index}.xml"
)

// setDefaults registers default values with viper before unmarshaling.
func setDefaults() {
	viper.SetDefault("sitemap.enabled", true)
	viper.SetDefault("sitemap.max_urls_per_file", DefaultMaxURLsPerFile)
	viper.SetDefault("sitemap.split_large_sites", true)
	viper.SetDefault("sitemap.index_filename", DefaultIndexFilename)
	viper.SetDefault("sitemap.chunk_filename_pattern", DefaultChunkFilenamePattern)
	viper.SetDefault("sitemap.default_changefreq", DefaultChangeFreq)
	viper.SetDefault("sitemap.memory_check_cadence", 1)
	viper.SetDefault("output.dir", "_site")
	viper.SetDefault("well_known.robots.enabled", false)
	viper.SetDefault("well_known.security_txt.enabled", false)
	viper.SetDefault("well_known.headers.enabled", false)
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("watch.debounce", 300*time.Millisecond)
}

// Load resolves the configuration from viper's current state (config file,
// environment, bound flags) merged with defaults, then validates it.
func Load() (*Config, error) {
	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if len(config.Watch.Paths) == 0 {
		config.Watch.Paths = []string{"."}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// BindFlags binds command-line flags onto their configuration keys so flag
// values take precedence over file and environment values.
func BindFlags(flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"output.dir":    "output",
		"site.base_url": "base-url",
	}

	for key, flagName := range bindings {
		if flag := flags.Lookup(flagName); flag != nil {
			if err := viper.BindPFlag(key, flag); err != nil {
				return err
			}
		}
	}

	return nil
}
