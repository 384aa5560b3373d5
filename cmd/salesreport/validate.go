package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"retail-dashboard/internal/dataset"
)

var validateCmd = &cobra.Command{
	Use:   "validate [csv-file]",
	Short: "Check a dataset against the schema bindings",
	Long: `Load the dataset and report which bound columns are present. Missing
required columns fail the command; missing optional columns are listed
as warnings because the dashboard degrades those charts instead of
refusing the dataset.`,
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

		v := schema.Validate(t)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Dataset: %s (%d rows, %d columns)\n", path, t.Rows(), len(t.ColumnNames()))
		if len(v.MissingOptional) > 0 {
			fmt.Fprintf(out, "⚠ Missing optional columns: %s\n", strings.Join(v.MissingOptional, ", "))
		}
		if !v.OK() {
			return fmt.Errorf("missing required columns: %s", strings.Join(v.MissingRequired, ", "))
		}
		fmt.Fprintln(out, "✓ Schema OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
