// Package viewmodel turns the burden table into renderable chart data. Each
// builder is a pure function from (dataset, filter inputs) to a typed view
// model: no builder mutates the dataset, fails on thin input, or emits NaN.
// Views for empty selections come back with Empty set and a message instead
// of an error.
package viewmodel

import "github.com/SHAH-MEER/tbatlas/core"

// MetricCard is one headline number.
type MetricCard struct {
	Label  string      `json:"label"`
	Metric core.Metric `json:"metric"`
	Value  float64     `json:"value"`
}

// Series is one named sequence of values aligned to a chart's axis labels.
type Series struct {
	Label  string      `json:"label"`
	Metric core.Metric `json:"metric"`
	Values []float64   `json:"values"`
}

// BarChart holds one or more series over shared category labels. Stacked
// distinguishes stacked totals from grouped side-by-side bars.
type BarChart struct {
	Labels  []string `json:"labels"`
	Series  []Series `json:"series"`
	Stacked bool     `json:"stacked,omitempty"`
}

// LineSeries is one line over a chart's shared year axis. A nil value means
// no data for that year and serializes as JSON null, which renderers draw
// as a gap.
type LineSeries struct {
	Label  string      `json:"label"`
	Metric core.Metric `json:"metric"`
	Values []*float64  `json:"values"`
}

// LineChart holds per-year series. TrendOverlay reports whether the client
// may draw trend or regression overlays; it is false below two points.
type LineChart struct {
	Years        []int        `json:"years"`
	Series       []LineSeries `json:"series"`
	TrendOverlay bool         `json:"trend_overlay"`
}

// Heatmap is a region-by-year grid. A nil cell means no data for that
// combination and serializes as JSON null.
type Heatmap struct {
	Metric core.Metric  `json:"metric"`
	Rows   []string     `json:"rows"`
	Years  []int        `json:"years"`
	Cells  [][]*float64 `json:"cells"`
}

// BubblePoint is one country-year observation in a bubble chart.
type BubblePoint struct {
	Country string  `json:"country"`
	ISO3    string  `json:"iso3"`
	Region  string  `json:"region"`
	Year    int     `json:"year"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Size    float64 `json:"size"`
}

// BubbleChart names its axes so the client needs no out-of-band knowledge
// of which metric went where.
type BubbleChart struct {
	X      core.Metric   `json:"x_metric"`
	Y      core.Metric   `json:"y_metric"`
	Size   core.Metric   `json:"size_metric"`
	Points []BubblePoint `json:"points"`
}

// ChoroplethEntry is one country's value on a map.
type ChoroplethEntry struct {
	ISO3    string  `json:"iso3"`
	Country string  `json:"country"`
	Value   float64 `json:"value"`
}

// Choropleth is a single-year world map of one metric.
type Choropleth struct {
	Metric  core.Metric       `json:"metric"`
	Year    int               `json:"year"`
	Entries []ChoroplethEntry `json:"entries"`
}

// RegionShare is one slice of a regional pie.
type RegionShare struct {
	Region string  `json:"region"`
	Value  float64 `json:"value"`
}
