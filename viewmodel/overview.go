package viewmodel

import (
	"sort"

	"github.com/SHAH-MEER/tbatlas/core"
)

// OverviewView is the global landing tab: headline cards over the whole
// table, a world map for one year, the regional share pie and the top-10
// countries bar.
type OverviewView struct {
	Year         int           `json:"year"`
	Cards        []MetricCard  `json:"cards"`
	Map          Choropleth    `json:"map"`
	RegionPie    []RegionShare `json:"region_pie"`
	TopCountries BarChart      `json:"top_countries"`
	Empty        bool          `json:"empty,omitempty"`
	Message      string        `json:"message,omitempty"`
}

// overviewCardMetrics are the headline indicators, in display order.
var overviewCardMetrics = []core.Metric{
	core.MetricPopulation,
	core.MetricPrevalenceNum,
	core.MetricDeathsNum,
}

// BuildOverview computes the overview for one map year; year 0 selects the
// most recent year in the dataset. Cards are mean annual totals: the
// lifetime sum of each indicator divided by the number of distinct years,
// so multi-decade tables do not inflate the headline numbers.
func BuildOverview(ds *core.Dataset, year int) OverviewView {
	if ds.Len() == 0 {
		return OverviewView{Empty: true, Message: "no data loaded"}
	}

	years := distinctYears(ds.Records)
	if year == 0 {
		year = years[len(years)-1]
	}
	view := OverviewView{Year: year}

	yearCount := float64(len(years))
	for _, m := range overviewCardMetrics {
		var sum float64
		for _, r := range ds.Records {
			if v, ok := r.Value(m); ok {
				sum += v
			}
		}
		view.Cards = append(view.Cards, MetricCard{
			Label:  metricLabel(m),
			Metric: m,
			Value:  sum / yearCount,
		})
	}

	view.Map = Choropleth{Metric: core.MetricPrevalenceRate, Year: year}
	for _, r := range ds.ForYear(year) {
		if v, ok := r.Value(core.MetricPrevalenceRate); ok {
			view.Map.Entries = append(view.Map.Entries, ChoroplethEntry{
				ISO3: r.ISO3, Country: r.Country, Value: v,
			})
		}
	}
	sort.Slice(view.Map.Entries, func(i, j int) bool {
		return view.Map.Entries[i].ISO3 < view.Map.Entries[j].ISO3
	})

	regions, totals := aggregate(ds.Records, core.MetricPrevalenceNum, byRegion)
	for i, reg := range regions {
		view.RegionPie = append(view.RegionPie, RegionShare{Region: reg, Value: totals[i]})
	}

	countries, sums := aggregate(ds.Records, core.MetricPrevalenceNum, byCountry)
	countries, sums = topNByValue(countries, sums, 10)
	view.TopCountries = BarChart{
		Labels: countries,
		Series: []Series{{
			Label:  metricLabel(core.MetricPrevalenceNum),
			Metric: core.MetricPrevalenceNum,
			Values: sums,
		}},
	}
	return view
}
