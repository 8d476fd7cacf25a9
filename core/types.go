package core

// Metric is the canonical name of one numeric column in the WHO TB burden
// table, e.g. "incidence_rate" or "population".
type Metric string

// Record represents one row of the burden table: a country in a given year
// with whatever metric values the source file carried for it.
type Record struct {
	Country    string             `json:"country"`
	ISO2       string             `json:"iso2,omitempty"`
	ISO3       string             `json:"iso3"`
	ISONumeric string             `json:"iso_numeric,omitempty"`
	Region     string             `json:"region"`
	Year       int                `json:"year"`
	Values     map[Metric]float64 `json:"values"`
}

// Value returns the metric value and whether it is present.
func (r Record) Value(m Metric) (float64, bool) {
	v, ok := r.Values[m]
	return v, ok
}

// Has reports whether the record carries values for every listed metric.
func (r Record) Has(metrics ...Metric) bool {
	for _, m := range metrics {
		if _, ok := r.Values[m]; !ok {
			return false
		}
	}
	return true
}

// Vector extracts the listed metrics as a dense vector. The second return
// is false if any metric is missing; incomplete rows are dropped by callers
// rather than imputed.
func (r Record) Vector(metrics []Metric) ([]float64, bool) {
	vec := make([]float64, len(metrics))
	for i, m := range metrics {
		v, ok := r.Values[m]
		if !ok {
			return nil, false
		}
		vec[i] = v
	}
	return vec, true
}

// Dataset is the in-memory burden table. It is read-only after load; every
// view is computed from it without mutation.
type Dataset struct {
	Records []Record `json:"records"`
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Rows returns the records matching the filter, in table order.
func (d *Dataset) Rows(f Filter) []Record {
	if d == nil {
		return nil
	}
	var out []Record
	for _, r := range d.Records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// ForYear returns all records for a single year.
func (d *Dataset) ForYear(year int) []Record {
	return d.Rows(Filter{Years: YearRange{From: year, To: year}})
}

// ForCountry returns all records for a country, matched by name or ISO3.
func (d *Dataset) ForCountry(country string) []Record {
	if d == nil {
		return nil
	}
	var out []Record
	for _, r := range d.Records {
		if matchesCountry(r, country) {
			out = append(out, r)
		}
	}
	return out
}

// Find locates the record for a country (by name or ISO3 code) in a given
// year. The second return is false when no such row exists.
func (d *Dataset) Find(country string, year int) (Record, bool) {
	if d == nil {
		return Record{}, false
	}
	for _, r := range d.Records {
		if r.Year == year && matchesCountry(r, country) {
			return r, true
		}
	}
	return Record{}, false
}

func matchesCountry(r Record, country string) bool {
	return r.Country == country || (r.ISO3 != "" && r.ISO3 == country)
}
