package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/conneroisu/sitemapgen/internal/scanner"
	"github.com/spf13/cobra"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:     "scan [directory]",
	Aliases: []string{"s"},
	Short:   "Preview the pages a directory scan would find",
	Long: `Scan a built site directory and print the page records that would
feed sitemap generation, without writing anything.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	records, err := scanner.NewPageScanner(args[0], logger).Scan(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "URL\tDATE\tEXCLUDED")
	for _, record := range records {
		date := ""
		if !record.Date.IsZero() {
			date = record.Date.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%v\n", record.URL, date, record.Excluded)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d page(s) found\n", len(records))
	return nil
}
