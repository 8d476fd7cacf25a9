package viewmodel

import (
	"fmt"
	"sort"

	"github.com/SHAH-MEER/tbatlas/core"
)

// MapFrame is one year of an animated choropleth.
type MapFrame struct {
	Year    int               `json:"year"`
	Entries []ChoroplethEntry `json:"entries"`
}

// MapView is an animated world map: one frame per year of one metric.
type MapView struct {
	Metric  core.Metric `json:"metric"`
	Years   []int       `json:"years"`
	Frames  []MapFrame  `json:"frames"`
	Empty   bool        `json:"empty,omitempty"`
	Message string      `json:"message,omitempty"`
}

// BuildMap builds per-year frames of one metric across the year range.
// Years in range but without any value for the metric produce no frame.
func BuildMap(ds *core.Dataset, metric core.Metric, years core.YearRange) MapView {
	view := MapView{Metric: metric}

	frames := make(map[int][]ChoroplethEntry)
	for _, r := range ds.Rows(core.Filter{Years: years}) {
		v, ok := r.Value(metric)
		if !ok {
			continue
		}
		frames[r.Year] = append(frames[r.Year], ChoroplethEntry{
			ISO3: r.ISO3, Country: r.Country, Value: v,
		})
	}
	if len(frames) == 0 {
		view.Empty = true
		view.Message = fmt.Sprintf("no data for metric %s", metric)
		return view
	}

	for y := range frames {
		view.Years = append(view.Years, y)
	}
	sort.Ints(view.Years)

	for _, y := range view.Years {
		entries := frames[y]
		sort.Slice(entries, func(i, j int) bool { return entries[i].ISO3 < entries[j].ISO3 })
		view.Frames = append(view.Frames, MapFrame{Year: y, Entries: entries})
	}
	return view
}
