package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"retail-dashboard/internal/dataset"
	"retail-dashboard/internal/report"
)

var (
	repTop int
	repOut string
)

var reportCmd = &cobra.Command{
	Use:   "report [csv-file]",
	Short: "Print a markdown report for a dataset",
	Long: `Load the dataset, profile every column, and print a markdown report
with headline figures, ranked groups, and correlations. The CSV path
comes from the argument, the --csv flag, or the config file, in that
order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.CSVFile
		if len(args) == 1 {
			path = args[0]
		}

		schema, err := resolveSchema()
		if err != nil {
			return err
		}

		t, err := dataset.Read(cmd.Context(), path)
		if err != nil {
			return err
		}

		opts := report.DefaultOptions()
		opts.Path = path
		if repTop > 0 {
			opts.TopGroups = repTop
		} else if cfg.TopGroups > 0 {
			opts.TopGroups = cfg.TopGroups
		}

		md := report.Markdown(t, schema, opts)
		if repOut == "" {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}
		if err := os.WriteFile(repOut, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Report written to %s\n", repOut)
		return nil
	},
}

func init() {
	reportCmd.Flags().IntVar(&repTop, "top", 0, "rows per ranked-group table (overrides config)")
	reportCmd.Flags().StringVar(&repOut, "out", "", "write the report to a file instead of stdout")
	rootCmd.AddCommand(reportCmd)
}

func resolveSchema() (dataset.Schema, error) {
	if cfg.SchemaFile == "" {
		return dataset.DefaultSchema(), nil
	}
	return dataset.LoadSchema(cfg.SchemaFile)
}
