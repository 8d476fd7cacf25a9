package viewmodel

import (
	"fmt"

	"github.com/SHAH-MEER/tbatlas/core"
)

// ComparisonView puts selected countries side by side for one year: one bar
// chart of incidence rates and one of mortality rates, plus the underlying
// rows.
type ComparisonView struct {
	Year          int           `json:"year"`
	Countries     []string      `json:"countries"`
	IncidenceBars BarChart      `json:"incidence_bars"`
	MortalityBars BarChart      `json:"mortality_bars"`
	Rows          []core.Record `json:"rows"`
	Empty         bool          `json:"empty,omitempty"`
	Message       string        `json:"message,omitempty"`
}

// BuildComparison compares the given countries in one year. An empty
// selection or a selection with no matching rows yields a placeholder view.
func BuildComparison(ds *core.Dataset, year int, countries []string) ComparisonView {
	view := ComparisonView{Year: year, Countries: countries}
	if len(countries) == 0 {
		view.Empty = true
		view.Message = "no countries selected"
		return view
	}

	rows := ds.Rows(core.Filter{
		Countries: countries,
		Years:     core.YearRange{From: year, To: year},
	})
	if len(rows) == 0 {
		view.Empty = true
		view.Message = fmt.Sprintf("no data for the selected countries in %d", year)
		return view
	}
	view.Rows = rows

	view.IncidenceBars = metricBars(rows, core.MetricIncidenceRate)
	view.MortalityBars = metricBars(rows, core.MetricMortalityRate)
	return view
}

// metricBars charts one metric per country over the given rows.
func metricBars(rows []core.Record, metric core.Metric) BarChart {
	labels, values := aggregate(rows, metric, byCountry)
	return BarChart{
		Labels: labels,
		Series: []Series{{Label: metricLabel(metric), Metric: metric, Values: values}},
	}
}
