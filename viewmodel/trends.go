package viewmodel

import (
	"sort"

	"github.com/SHAH-MEER/tbatlas/core"
)

// TrendsView follows selected countries over time, with dataset-wide context
// charts: the region-by-year heatmap, the incidence-vs-mortality bubble
// cloud and the stacked regional totals.
type TrendsView struct {
	Countries      []string    `json:"countries"`
	IncidenceLines LineChart   `json:"incidence_lines"`
	MortalityLines LineChart   `json:"mortality_lines"`
	RegionHeatmap  Heatmap     `json:"region_heatmap"`
	Bubble         BubbleChart `json:"bubble"`
	StackedTotals  BarChart    `json:"stacked_totals"`
	Empty          bool        `json:"empty,omitempty"`
	Message        string      `json:"message,omitempty"`
}

// BuildTrends builds the trends tab for a country selection and year range.
// Line charts cover only the selected countries; the context charts cover
// every country inside the year range.
func BuildTrends(ds *core.Dataset, countries []string, years core.YearRange) TrendsView {
	view := TrendsView{Countries: countries}
	if len(countries) == 0 {
		view.Empty = true
		view.Message = "no countries selected"
		return view
	}

	selected := ds.Rows(core.Filter{Countries: countries, Years: years})
	if len(selected) == 0 {
		view.Empty = true
		view.Message = "no data for the selected countries and years"
		return view
	}

	view.IncidenceLines = groupLines(selected, core.MetricIncidenceRate, byCountry)
	view.MortalityLines = groupLines(selected, core.MetricMortalityRate, byCountry)

	table := ds.Rows(core.Filter{Years: years})
	view.RegionHeatmap = regionYearHeatmap(table, core.MetricPrevalenceRate)
	view.Bubble = bubblePoints(table, core.MetricIncidenceRate, core.MetricMortalityRate, core.MetricPopulation)
	view.StackedTotals = stackedRegionTotals(table)
	return view
}

// regionYearHeatmap averages one metric per (region, year) cell. Cells with
// no observations stay nil.
func regionYearHeatmap(rows []core.Record, metric core.Metric) Heatmap {
	years := distinctYears(rows)
	yearIdx := make(map[int]int, len(years))
	for i, y := range years {
		yearIdx[y] = i
	}

	accs := make(map[string][]*accumulator)
	for _, r := range rows {
		v, ok := r.Value(metric)
		if !ok || r.Region == "" {
			continue
		}
		if accs[r.Region] == nil {
			accs[r.Region] = make([]*accumulator, len(years))
		}
		cell := accs[r.Region][yearIdx[r.Year]]
		if cell == nil {
			cell = &accumulator{}
			accs[r.Region][yearIdx[r.Year]] = cell
		}
		cell.add(v)
	}

	regions := make([]string, 0, len(accs))
	for reg := range accs {
		regions = append(regions, reg)
	}
	sort.Strings(regions)

	hm := Heatmap{Metric: metric, Rows: regions, Years: years}
	hm.Cells = make([][]*float64, len(regions))
	for i, reg := range regions {
		hm.Cells[i] = make([]*float64, len(years))
		for j, cell := range accs[reg] {
			if cell == nil {
				continue
			}
			mean := cell.value(core.AggregateMean)
			hm.Cells[i][j] = &mean
		}
	}
	return hm
}

// stackedRegionTotals sums the three absolute indicators per region.
func stackedRegionTotals(rows []core.Record) BarChart {
	labels, series := alignedSeries(rows, []core.Metric{
		core.MetricPrevalenceNum,
		core.MetricIncidenceNum,
		core.MetricDeathsNum,
	}, byRegion)
	return BarChart{Labels: labels, Series: series, Stacked: true}
}
