package viewmodel

import "github.com/SHAH-MEER/tbatlas/core"

const (
	defaultPerPage = 50
	maxPerPage     = 500
)

// ExplorerRequest is an ad-hoc query: a structured filter plus paging.
type ExplorerRequest struct {
	Filter  core.Filter `json:"filter"`
	Page    int         `json:"page,omitempty"`
	PerPage int         `json:"per_page,omitempty"`
}

// ExplorerView returns the matching rows (paged) and, when the match is
// non-empty, the three aggregate charts computed over the whole match.
type ExplorerView struct {
	Filter        core.Filter   `json:"filter"`
	Total         int           `json:"total"`
	Page          int           `json:"page"`
	PerPage       int           `json:"per_page"`
	Rows          []core.Record `json:"rows"`
	RegionBars    BarChart      `json:"region_bars"`
	Bubble        BubbleChart   `json:"bubble"`
	StackedTotals BarChart      `json:"stacked_totals"`
	Empty         bool          `json:"empty,omitempty"`
	Message       string        `json:"message,omitempty"`
}

// BuildExplorer runs the filter and assembles the explorer tab. A query
// matching nothing yields a placeholder view, not an error.
func BuildExplorer(ds *core.Dataset, req ExplorerRequest) ExplorerView {
	page := req.Page
	if page < 1 {
		page = 1
	}
	perPage := req.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	view := ExplorerView{Filter: req.Filter, Page: page, PerPage: perPage}

	rows := ds.Rows(req.Filter)
	view.Total = len(rows)
	if len(rows) == 0 {
		view.Empty = true
		view.Message = "no rows match the query"
		return view
	}

	// Charts aggregate the full match; only the row listing is paged.
	labels, values := aggregate(rows, core.MetricPrevalenceNum, byRegion)
	view.RegionBars = BarChart{
		Labels: labels,
		Series: []Series{{
			Label:  metricLabel(core.MetricPrevalenceNum),
			Metric: core.MetricPrevalenceNum,
			Values: values,
		}},
	}
	view.Bubble = bubblePoints(rows, core.MetricIncidenceRate, core.MetricMortalityRate, core.MetricPopulation)
	view.StackedTotals = stackedRegionTotals(rows)

	start := (page - 1) * perPage
	if start >= len(rows) {
		view.Rows = []core.Record{}
		return view
	}
	end := start + perPage
	if end > len(rows) {
		end = len(rows)
	}
	view.Rows = rows[start:end]
	return view
}
