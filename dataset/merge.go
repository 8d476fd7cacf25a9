package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/SHAH-MEER/tbatlas/core"
)

// MergeStats counts the rows involved in a merge of two dataset vintages.
type MergeStats struct {
	OldRows    int `json:"old_rows"`
	NewRows    int `json:"new_rows"`
	Overlap    int `json:"overlap"`
	MergedRows int `json:"merged_rows"`
}

// Merge loads two burden files and joins them into one dataset. Rows pair up
// on (ISO3, year); where both files cover the same row, values from the new
// file win and the old file fills the gaps. The result is sorted by ISO3
// then year.
func (l *Loader) Merge(oldPath, newPath string) (*core.Dataset, MergeStats, error) {
	oldDS, _, err := l.Load(oldPath)
	if err != nil {
		return nil, MergeStats{}, fmt.Errorf("merge old vintage: %w", err)
	}
	newDS, _, err := l.Load(newPath)
	if err != nil {
		return nil, MergeStats{}, fmt.Errorf("merge new vintage: %w", err)
	}

	merged, stats := MergeDatasets(oldDS, newDS)
	l.logger.Info("datasets merged",
		zap.Int("old_rows", stats.OldRows),
		zap.Int("new_rows", stats.NewRows),
		zap.Int("overlap", stats.Overlap),
		zap.Int("merged_rows", stats.MergedRows))
	return merged, stats, nil
}

// MergeDatasets performs the outer join of two in-memory datasets.
func MergeDatasets(oldDS, newDS *core.Dataset) (*core.Dataset, MergeStats) {
	type key struct {
		iso3 string
		year int
	}

	stats := MergeStats{OldRows: oldDS.Len(), NewRows: newDS.Len()}
	rows := make(map[key]core.Record, oldDS.Len()+newDS.Len())

	if oldDS != nil {
		for _, r := range oldDS.Records {
			rows[key{r.ISO3, r.Year}] = cloneRecord(r)
		}
	}
	if newDS != nil {
		for _, r := range newDS.Records {
			k := key{r.ISO3, r.Year}
			if prev, ok := rows[k]; ok {
				stats.Overlap++
				rows[k] = combineRecords(prev, r)
			} else {
				rows[k] = cloneRecord(r)
			}
		}
	}

	merged := &core.Dataset{Records: make([]core.Record, 0, len(rows))}
	for _, r := range rows {
		merged.Records = append(merged.Records, r)
	}
	sort.Slice(merged.Records, func(i, j int) bool {
		a, b := merged.Records[i], merged.Records[j]
		if a.ISO3 != b.ISO3 {
			return a.ISO3 < b.ISO3
		}
		return a.Year < b.Year
	})
	stats.MergedRows = len(merged.Records)
	return merged, stats
}

func cloneRecord(r core.Record) core.Record {
	out := r
	out.Values = make(map[core.Metric]float64, len(r.Values))
	for m, v := range r.Values {
		out.Values[m] = v
	}
	return out
}

// combineRecords overlays the newer record on the older one. Identity fields
// and metric values from the newer row win; older values survive only where
// the newer row has none.
func combineRecords(older, newer core.Record) core.Record {
	out := cloneRecord(newer)
	if out.Country == "" {
		out.Country = older.Country
	}
	if out.ISO2 == "" {
		out.ISO2 = older.ISO2
	}
	if out.ISONumeric == "" {
		out.ISONumeric = older.ISONumeric
	}
	if out.Region == "" {
		out.Region = older.Region
	}
	for m, v := range older.Values {
		if _, ok := out.Values[m]; !ok {
			out.Values[m] = v
		}
	}
	return out
}

// WriteCSV writes the dataset to path using the canonical column layout.
// Missing metric values become empty cells.
func WriteCSV(path string, ds *core.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	cols := canonicalColumns()
	if err := w.Write(cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(cols))
	for _, r := range ds.Records {
		for i, col := range cols {
			switch col {
			case colCountry:
				row[i] = r.Country
			case colISO2:
				row[i] = r.ISO2
			case colISO3:
				row[i] = r.ISO3
			case colISONumeric:
				row[i] = r.ISONumeric
			case colRegion:
				row[i] = r.Region
			case colYear:
				row[i] = strconv.Itoa(r.Year)
			default:
				if v, ok := r.Value(core.Metric(col)); ok {
					row[i] = strconv.FormatFloat(v, 'f', -1, 64)
				} else {
					row[i] = ""
				}
			}
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
