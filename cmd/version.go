package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/conneroisu/sitemapgen/internal/version"
	"github.com/spf13/cobra"
)

var (
	versionFormat string
	versionShort  bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information including the semantic version, git
commit, build time, Go version, and target platform.

Examples:
  sitemapgen version               # Show version
  sitemapgen version --short       # Version number only
  sitemapgen version --format json # Output as JSON`,
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.Get()
	out := cmd.OutOrStdout()

	switch versionFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "text":
		if versionShort {
			fmt.Fprintln(out, version.Short())
			return nil
		}
		fmt.Fprintf(out, "sitemapgen %s", info.Version)
		if info.GitCommit != "unknown" && len(info.GitCommit) >= 7 {
			fmt.Fprintf(out, " (%s)", info.GitCommit[:7])
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  go:       %s\n", info.GoVersion)
		fmt.Fprintf(out, "  platform: %s\n", info.Platform)
		if info.BuildTime != "unknown" {
			fmt.Fprintf(out, "  built:    %s\n", info.BuildTime)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", versionFormat)
	}
}
