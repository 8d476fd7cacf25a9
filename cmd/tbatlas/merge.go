package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SHAH-MEER/tbatlas/dataset"
)

var mergeOutput string

// mergeCmd combines two WHO export vintages into one canonical CSV
var mergeCmd = &cobra.Command{
	Use:   "merge <old.csv> <new.csv>",
	Short: "Merge two WHO burden exports into one canonical CSV",
	Long: `Merge canonicalizes both files, outer-joins them on (iso3, year)
preferring the newer file's value for overlapping cells, and writes the
combined table sorted by ISO3 code and year.`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "tb_burden_combined.csv",
		"Output CSV path")
}

func runMerge(cmd *cobra.Command, args []string) error {
	loader := dataset.NewLoader(nil)

	ds, stats, err := loader.Merge(args[0], args[1])
	if err != nil {
		return err
	}

	if err := dataset.WriteCSV(mergeOutput, ds); err != nil {
		return err
	}

	fmt.Printf("Merged %s + %s\n", args[0], args[1])
	fmt.Printf("  Old rows:    %d\n", stats.OldRows)
	fmt.Printf("  New rows:    %d\n", stats.NewRows)
	fmt.Printf("  Overlapping: %d\n", stats.Overlap)
	fmt.Printf("  Merged rows: %d\n", stats.MergedRows)
	fmt.Printf("Wrote %s\n", mergeOutput)
	return nil
}
