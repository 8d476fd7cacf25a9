package viewmodel

import (
	"fmt"
	"sort"

	"github.com/SHAH-MEER/tbatlas/core"
)

// ProfileView is one country's full history: every record plus the three
// headline rates as lines over the country's years.
type ProfileView struct {
	Country string        `json:"country"`
	ISO3    string        `json:"iso3"`
	Region  string        `json:"region"`
	Records []core.Record `json:"records"`
	Rates   LineChart     `json:"rates"`
	Empty   bool          `json:"empty,omitempty"`
	Message string        `json:"message,omitempty"`
}

// BuildProfile builds the profile tab for a country given by name or ISO3.
func BuildProfile(ds *core.Dataset, country string) ProfileView {
	if country == "" {
		return ProfileView{Empty: true, Message: "no country selected"}
	}

	records := ds.ForCountry(country)
	if len(records) == 0 {
		return ProfileView{
			Country: country,
			Empty:   true,
			Message: fmt.Sprintf("no data for country %s", country),
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Year < records[j].Year })

	return ProfileView{
		Country: records[0].Country,
		ISO3:    records[0].ISO3,
		Region:  records[0].Region,
		Records: records,
		Rates: metricLines(records, []core.Metric{
			core.MetricPrevalenceRate,
			core.MetricMortalityRate,
			core.MetricIncidenceRate,
		}),
	}
}
