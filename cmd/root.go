// Package cmd provides the sitemapgen command-line interface.
//
// Configuration is resolved from three sources with clear precedence:
//
//	1. Command-line flags (--output, --base-url, etc.) - highest priority
//	2. Environment variables with the SITEMAPGEN_ prefix
//	   (SITEMAPGEN_SITE_BASE_URL, SITEMAPGEN_SERVER_PORT, ...)
//	3. Configuration file (.sitemapgen.yml) - lowest priority
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/conneroisu/sitemapgen/internal/config"
	"github.com/conneroisu/sitemapgen/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sitemapgen",
	Short: "Sitemap and well-known file generator for static sites",
	Long: `Sitemapgen generates XML sitemaps and well-known files for static sites.

It reads pages from a YAML manifest or discovers them by scanning a built
output directory, then writes sitemap.xml (split into an index plus chunks
for large sites), robots.txt, security.txt, and a _headers file.

Quick Start:
  sitemapgen generate             Generate sitemap and well-known files
  sitemapgen scan ./_site         Preview the pages a scan would find
  sitemapgen watch                Regenerate on content changes
  sitemapgen serve                Preview the output with live reload`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .sitemapgen.yml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output directory for generated files")
	rootCmd.PersistentFlags().String("base-url", "", "canonical site base URL (e.g. https://example.com)")

	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	if err := config.BindFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintln(os.Stderr, "flag binding failed:", err)
	}
}

// initConfig wires viper to the config file and SITEMAPGEN_ environment
// variables. A missing config file is not an error; defaults apply.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("SITEMAPGEN_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".sitemapgen")
	}

	viper.SetEnvPrefix("SITEMAPGEN")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the CLI logger from the resolved log-level setting.
func newLogger() logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(viper.GetString("log-level")),
		Format: "text",
		Output: os.Stderr,
	})
}
