package dataset

import (
	"math"

	"github.com/SHAH-MEER/tbatlas/core"
)

// ColumnSummary holds descriptive statistics for one metric column.
type ColumnSummary struct {
	Metric  core.Metric `json:"metric"`
	Label   string      `json:"label"`
	Count   int         `json:"count"`
	Missing int         `json:"missing"`
	Min     float64     `json:"min"`
	Max     float64     `json:"max"`
	Mean    float64     `json:"mean"`
	StdDev  float64     `json:"std_dev"`
}

// Summarize computes per-column statistics for every canonical metric using
// Welford's online algorithm, so a single pass over the table suffices.
func Summarize(ds *core.Dataset) []ColumnSummary {
	infos := core.Registry()
	out := make([]ColumnSummary, len(infos))

	type state struct {
		count    int
		mean, m2 float64
		min, max float64
	}
	states := make([]state, len(infos))
	for i := range states {
		states[i].min = math.Inf(1)
		states[i].max = math.Inf(-1)
	}

	rows := 0
	if ds != nil {
		rows = len(ds.Records)
		for _, r := range ds.Records {
			for i, info := range infos {
				v, ok := r.Value(info.Name)
				if !ok {
					continue
				}
				s := &states[i]
				s.count++
				delta := v - s.mean
				s.mean += delta / float64(s.count)
				s.m2 += delta * (v - s.mean)
				if v < s.min {
					s.min = v
				}
				if v > s.max {
					s.max = v
				}
			}
		}
	}

	for i, info := range infos {
		s := states[i]
		sum := ColumnSummary{
			Metric:  info.Name,
			Label:   info.Label,
			Count:   s.count,
			Missing: rows - s.count,
		}
		if s.count > 0 {
			sum.Min = s.min
			sum.Max = s.max
			sum.Mean = s.mean
			sum.StdDev = math.Sqrt(s.m2 / float64(s.count))
		}
		out[i] = sum
	}
	return out
}
