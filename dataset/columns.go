// Package dataset loads WHO tuberculosis burden CSV exports into memory and
// keeps a memoized copy for the view layer. Two WHO header vintages are
// understood: the long descriptive headers of the 1990-2013 archive file and
// the short coded headers of the current API export. Both map onto one
// canonical column set, so merged files load the same way as raw ones.
package dataset

import (
	"strings"

	"github.com/SHAH-MEER/tbatlas/core"
)

// Canonical identity columns. Everything else is a metric column.
const (
	colCountry    = "country"
	colISO2       = "iso2"
	colISO3       = "iso3"
	colISONumeric = "iso_numeric"
	colRegion     = "region"
	colYear       = "year"
)

// requiredColumns must all resolve from the header row or the file is
// rejected at load time.
var requiredColumns = []string{colCountry, colISO3, colRegion, colYear}

// columnAliases maps every known raw header to its canonical column name.
// Long keys come from the archive vintage, short keys from the API vintage.
var columnAliases = map[string]string{
	// archive vintage (long descriptive headers)
	"Country or territory name":                "country",
	"ISO 2-character country/territory code":   "iso2",
	"ISO 3-character country/territory code":   "iso3",
	"ISO numeric country/territory code":       "iso_numeric",
	"Region":                                   "region",
	"Year":                                     "year",
	"Estimated total population number":        "population",
	"Estimated prevalence of TB (all forms)":   "prevalence_num",
	"Estimated prevalence of TB (all forms) per 100 000 population":             "prevalence_rate",
	"Estimated prevalence of TB (all forms) per 100 000 population, low bound":  "prevalence_rate_lo",
	"Estimated prevalence of TB (all forms) per 100 000 population, high bound": "prevalence_rate_hi",
	"Estimated mortality of TB cases (all forms, excluding HIV) per 100 000 population":              "mortality_rate",
	"Estimated mortality of TB cases (all forms, excluding HIV), per 100 000 population, low bound":  "mortality_rate_lo",
	"Estimated mortality of TB cases (all forms, excluding HIV), per 100 000 population, high bound": "mortality_rate_hi",
	"Estimated number of deaths from TB (all forms, excluding HIV)":             "deaths_num",
	"Estimated number of deaths from TB (all forms, excluding HIV), low bound":  "deaths_num_lo",
	"Estimated number of deaths from TB (all forms, excluding HIV), high bound": "deaths_num_hi",
	"Estimated incidence (all forms) per 100 000 population":                    "incidence_rate",
	"Estimated incidence (all forms) per 100 000 population, low bound":         "incidence_rate_lo",
	"Estimated incidence (all forms) per 100 000 population, high bound":        "incidence_rate_hi",
	"Estimated number of incident cases (all forms)":                            "incidence_num",
	"Estimated number of incident cases (all forms), low bound":                 "incidence_num_lo",
	"Estimated number of incident cases (all forms), high bound":                "incidence_num_hi",
	"Estimated HIV in incident TB (percent)":                                    "hiv_in_tb_percent",
	"Estimated HIV in incident TB (percent), low bound":                         "hiv_in_tb_percent_lo",
	"Estimated HIV in incident TB (percent), high bound":                        "hiv_in_tb_percent_hi",
	"Case detection rate (all forms), percent":                                  "detection_rate",
	"Case detection rate (all forms), percent, low bound":                       "detection_rate_lo",
	"Case detection rate (all forms), percent, high bound":                      "detection_rate_hi",

	// API vintage (short coded headers)
	"g_whoregion":              "region",
	"e_pop_num":                "population",
	"e_inc_100k":               "incidence_rate",
	"e_inc_100k_lo":            "incidence_rate_lo",
	"e_inc_100k_hi":            "incidence_rate_hi",
	"e_inc_num":                "incidence_num",
	"e_inc_num_lo":             "incidence_num_lo",
	"e_inc_num_hi":             "incidence_num_hi",
	"e_tbhiv_prct":             "hiv_in_tb_percent",
	"e_tbhiv_prct_lo":          "hiv_in_tb_percent_lo",
	"e_tbhiv_prct_hi":          "hiv_in_tb_percent_hi",
	"e_mort_exc_tbhiv_100k":    "mortality_rate",
	"e_mort_exc_tbhiv_100k_lo": "mortality_rate_lo",
	"e_mort_exc_tbhiv_100k_hi": "mortality_rate_hi",
	"c_cdr":                    "detection_rate",
	"c_cdr_lo":                 "detection_rate_lo",
	"c_cdr_hi":                 "detection_rate_hi",

	// legacy merged exports wrote mortality under this name
	"mort_rate_no_hiv":    "mortality_rate",
	"mort_rate_no_hiv_lo": "mortality_rate_lo",
	"mort_rate_no_hiv_hi": "mortality_rate_hi",
}

// canonicalColumn resolves a raw CSV header to its canonical column name.
// Canonical names pass through unchanged, so merged output is re-loadable.
func canonicalColumn(header string) (string, bool) {
	h := strings.TrimSpace(header)
	if c, ok := columnAliases[h]; ok {
		return c, true
	}
	switch h {
	case colCountry, colISO2, colISO3, colISONumeric, colRegion, colYear:
		return h, true
	}
	if core.KnownMetric(core.Metric(h)) {
		return h, true
	}
	return "", false
}

// canonicalColumns is the column order for CSV output: identity columns
// first, then metrics and their bounds in registry order.
func canonicalColumns() []string {
	cols := []string{colCountry, colISO2, colISO3, colISONumeric, colRegion, colYear}
	for _, info := range core.Registry() {
		cols = append(cols, string(info.Name))
		if info.Lo != "" {
			cols = append(cols, string(info.Lo))
		}
		if info.Hi != "" {
			cols = append(cols, string(info.Hi))
		}
	}
	return cols
}
