package core

// Op is a comparison operator used by metric conditions.
type Op string

const (
	OpEq  Op = "eq"
	OpNe  Op = "ne"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
)

// Valid reports whether the operator is one of the supported comparisons.
func (op Op) Valid() bool {
	switch op {
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte:
		return true
	}
	return false
}

func (op Op) compare(have, want float64) bool {
	switch op {
	case OpEq:
		return have == want
	case OpNe:
		return have != want
	case OpGt:
		return have > want
	case OpGte:
		return have >= want
	case OpLt:
		return have < want
	case OpLte:
		return have <= want
	}
	return false
}

// Condition is a numeric threshold on one metric, e.g. incidence_rate gte 300.
type Condition struct {
	Metric Metric  `json:"metric"`
	Op     Op      `json:"op"`
	Value  float64 `json:"value"`
}

// Matches reports whether the record satisfies the condition. A record
// missing the metric never matches.
func (c Condition) Matches(r Record) bool {
	v, ok := r.Value(c.Metric)
	if !ok {
		return false
	}
	return c.Op.compare(v, c.Value)
}

// YearRange is an inclusive span of years. A zero bound leaves that side
// open, so the zero value matches every year.
type YearRange struct {
	From int `json:"from,omitempty"`
	To   int `json:"to,omitempty"`
}

// Contains reports whether the year falls inside the range.
func (y YearRange) Contains(year int) bool {
	if y.From != 0 && year < y.From {
		return false
	}
	if y.To != 0 && year > y.To {
		return false
	}
	return true
}

// Filter selects a subset of the burden table. Empty fields do not
// constrain: the zero Filter matches every record.
type Filter struct {
	Countries  []string    `json:"countries,omitempty"`
	Regions    []string    `json:"regions,omitempty"`
	Years      YearRange   `json:"years,omitempty"`
	Conditions []Condition `json:"conditions,omitempty"`
}

// Matches reports whether the record passes every populated constraint.
// Countries match by display name or ISO3 code.
func (f Filter) Matches(r Record) bool {
	if len(f.Countries) > 0 {
		found := false
		for _, c := range f.Countries {
			if matchesCountry(r, c) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.Regions) > 0 {
		found := false
		for _, reg := range f.Regions {
			if r.Region == reg {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if !f.Years.Contains(r.Year) {
		return false
	}

	for _, c := range f.Conditions {
		if !c.Matches(r) {
			return false
		}
	}
	return true
}

// IsZero reports whether the filter constrains nothing.
func (f Filter) IsZero() bool {
	return len(f.Countries) == 0 && len(f.Regions) == 0 &&
		f.Years == (YearRange{}) && len(f.Conditions) == 0
}
