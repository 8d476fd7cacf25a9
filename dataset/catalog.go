package dataset

import (
	"sort"

	"github.com/SHAH-MEER/tbatlas/core"
)

// CountryRef identifies one country in the catalog.
type CountryRef struct {
	Name   string `json:"name"`
	ISO3   string `json:"iso3"`
	Region string `json:"region"`
}

// Catalog lists the selectable countries, regions, years and metrics of a
// dataset. The filter UI is built from it, so it is computed once per load.
type Catalog struct {
	Countries []CountryRef      `json:"countries"`
	Regions   []string          `json:"regions"`
	Years     []int             `json:"years"`
	Metrics   []core.MetricInfo `json:"metrics"`
}

// LatestYear returns the most recent year in the catalog, or 0 when empty.
func (c Catalog) LatestYear() int {
	if len(c.Years) == 0 {
		return 0
	}
	return c.Years[len(c.Years)-1]
}

// HasYear reports whether the year occurs in the dataset.
func (c Catalog) HasYear(year int) bool {
	for _, y := range c.Years {
		if y == year {
			return true
		}
	}
	return false
}

// BuildCatalog derives the catalog from a loaded dataset.
func BuildCatalog(ds *core.Dataset) Catalog {
	countries := make(map[string]CountryRef)
	regions := make(map[string]bool)
	years := make(map[int]bool)

	if ds != nil {
		for _, r := range ds.Records {
			if _, ok := countries[r.ISO3]; !ok {
				countries[r.ISO3] = CountryRef{Name: r.Country, ISO3: r.ISO3, Region: r.Region}
			}
			if r.Region != "" {
				regions[r.Region] = true
			}
			years[r.Year] = true
		}
	}

	cat := Catalog{Metrics: core.Registry()}
	for _, ref := range countries {
		cat.Countries = append(cat.Countries, ref)
	}
	sort.Slice(cat.Countries, func(i, j int) bool {
		return cat.Countries[i].Name < cat.Countries[j].Name
	})
	for reg := range regions {
		cat.Regions = append(cat.Regions, reg)
	}
	sort.Strings(cat.Regions)
	for y := range years {
		cat.Years = append(cat.Years, y)
	}
	sort.Ints(cat.Years)
	return cat
}
