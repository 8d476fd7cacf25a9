package viewmodel

import (
	"fmt"

	"github.com/SHAH-MEER/tbatlas/core"
)

// RegionalView breaks one WHO region down by country: prevalence and
// mortality rate bars, averaged over the selected years.
type RegionalView struct {
	Region         string         `json:"region"`
	Years          core.YearRange `json:"years"`
	PrevalenceBars BarChart       `json:"prevalence_bars"`
	MortalityBars  BarChart       `json:"mortality_bars"`
	Empty          bool           `json:"empty,omitempty"`
	Message        string         `json:"message,omitempty"`
}

// BuildRegional builds the regional tab for one region and year range.
func BuildRegional(ds *core.Dataset, region string, years core.YearRange) RegionalView {
	view := RegionalView{Region: region, Years: years}
	if region == "" {
		view.Empty = true
		view.Message = "no region selected"
		return view
	}

	rows := ds.Rows(core.Filter{Regions: []string{region}, Years: years})
	if len(rows) == 0 {
		view.Empty = true
		view.Message = fmt.Sprintf("no data for region %s", region)
		return view
	}

	view.PrevalenceBars = metricBars(rows, core.MetricPrevalenceRate)
	view.MortalityBars = metricBars(rows, core.MetricMortalityRate)
	return view
}
