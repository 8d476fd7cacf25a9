package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/SHAH-MEER/tbatlas/core"
)

// LoadStats summarizes one parse of a burden file. Missing values are not
// errors: blank and unparsable cells simply leave the metric absent from the
// record, matching the drop policy used everywhere downstream.
type LoadStats struct {
	Rows           int      `json:"rows"`
	SkippedRows    int      `json:"skipped_rows"`
	MissingValues  int      `json:"missing_values"`
	UnknownColumns []string `json:"unknown_columns,omitempty"`
}

// Loader parses WHO burden CSV files into a Dataset.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a loader. A nil logger disables logging.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// Load reads and parses the file at path.
func (l *Loader) Load(path string) (*core.Dataset, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, stats, err := l.LoadReader(f)
	if err != nil {
		return nil, stats, fmt.Errorf("load %s: %w", path, err)
	}

	l.logger.Info("dataset loaded",
		zap.String("path", path),
		zap.Int("rows", stats.Rows),
		zap.Int("skipped_rows", stats.SkippedRows),
		zap.Int("missing_values", stats.MissingValues),
		zap.Strings("unknown_columns", stats.UnknownColumns))
	return ds, stats, nil
}

type metricColumn struct {
	metric core.Metric
	idx    int
}

// LoadReader parses CSV content. The header row decides the vintage: headers
// resolve through the alias table and unresolvable ones are ignored. Rows
// without a parsable year or without country and ISO3 are skipped.
func (l *Loader) LoadReader(r io.Reader) (*core.Dataset, LoadStats, error) {
	var stats LoadStats

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, stats, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		name, ok := canonicalColumn(h)
		if !ok {
			stats.UnknownColumns = append(stats.UnknownColumns, strings.TrimSpace(h))
			continue
		}
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	for _, req := range requiredColumns {
		if _, ok := cols[req]; !ok {
			return nil, stats, fmt.Errorf("%w: %s", core.ErrMissingColumn, req)
		}
	}

	var metricCols []metricColumn
	for name, idx := range cols {
		switch name {
		case colCountry, colISO2, colISO3, colISONumeric, colRegion, colYear:
			continue
		}
		metricCols = append(metricCols, metricColumn{core.Metric(name), idx})
	}
	sort.Slice(metricCols, func(i, j int) bool { return metricCols[i].idx < metricCols[j].idx })

	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	ds := &core.Dataset{}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			stats.SkippedRows++
			l.logger.Warn("skipping malformed row", zap.Int("line", line), zap.Error(err))
			continue
		}

		year, err := strconv.Atoi(field(row, colYear))
		if err != nil {
			stats.SkippedRows++
			l.logger.Warn("skipping row with unparsable year",
				zap.Int("line", line), zap.String("year", field(row, colYear)))
			continue
		}
		country := field(row, colCountry)
		iso3 := field(row, colISO3)
		if country == "" || iso3 == "" {
			stats.SkippedRows++
			continue
		}

		rec := core.Record{
			Country:    country,
			ISO2:       field(row, colISO2),
			ISO3:       iso3,
			ISONumeric: field(row, colISONumeric),
			Region:     field(row, colRegion),
			Year:       year,
			Values:     make(map[core.Metric]float64, len(metricCols)),
		}
		for _, mc := range metricCols {
			if mc.idx >= len(row) {
				stats.MissingValues++
				continue
			}
			raw := strings.TrimSpace(row[mc.idx])
			if raw == "" {
				stats.MissingValues++
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				stats.MissingValues++
				continue
			}
			rec.Values[mc.metric] = v
		}

		ds.Records = append(ds.Records, rec)
		stats.Rows++
	}

	return ds, stats, nil
}
