package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SHAH-MEER/tbatlas/dataset"
)

// checkCmd validates a burden CSV without serving it
var checkCmd = &cobra.Command{
	Use:   "check <file.csv>",
	Short: "Validate a burden CSV and print its column statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	loader := dataset.NewLoader(nil)

	ds, stats, err := loader.Load(args[0])
	if err != nil {
		return err
	}

	catalog := dataset.BuildCatalog(ds)
	yearSpan := "none"
	if len(catalog.Years) > 0 {
		yearSpan = fmt.Sprintf("%d-%d", catalog.Years[0], catalog.Years[len(catalog.Years)-1])
	}

	fmt.Printf("%s: %d rows, %d countries, %d regions, years %s\n",
		args[0], stats.Rows, len(catalog.Countries), len(catalog.Regions), yearSpan)
	fmt.Printf("  skipped rows: %d, missing values: %d\n", stats.SkippedRows, stats.MissingValues)
	if len(stats.UnknownColumns) > 0 {
		fmt.Printf("  ignored columns: %s\n", strings.Join(stats.UnknownColumns, ", "))
	}
	fmt.Println()

	fmt.Printf("%-24s %8s %8s %14s %14s %14s %14s\n",
		"column", "count", "missing", "min", "max", "mean", "stddev")
	for _, col := range dataset.Summarize(ds) {
		fmt.Printf("%-24s %8d %8d %14.2f %14.2f %14.2f %14.2f\n",
			col.Metric, col.Count, col.Missing, col.Min, col.Max, col.Mean, col.StdDev)
	}
	return nil
}
