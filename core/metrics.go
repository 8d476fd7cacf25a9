package core

import "sort"

// Canonical metric columns. Names follow the merged WHO export: rates are
// per 100k population, counts are absolute, percents are 0-100.
const (
	MetricPopulation Metric = "population"

	MetricPrevalenceRate   Metric = "prevalence_rate"
	MetricPrevalenceRateLo Metric = "prevalence_rate_lo"
	MetricPrevalenceRateHi Metric = "prevalence_rate_hi"
	MetricPrevalenceNum    Metric = "prevalence_num"

	MetricMortalityRate   Metric = "mortality_rate"
	MetricMortalityRateLo Metric = "mortality_rate_lo"
	MetricMortalityRateHi Metric = "mortality_rate_hi"

	MetricDeathsNum   Metric = "deaths_num"
	MetricDeathsNumLo Metric = "deaths_num_lo"
	MetricDeathsNumHi Metric = "deaths_num_hi"

	MetricIncidenceRate   Metric = "incidence_rate"
	MetricIncidenceRateLo Metric = "incidence_rate_lo"
	MetricIncidenceRateHi Metric = "incidence_rate_hi"

	MetricIncidenceNum   Metric = "incidence_num"
	MetricIncidenceNumLo Metric = "incidence_num_lo"
	MetricIncidenceNumHi Metric = "incidence_num_hi"

	MetricHIVInTBPercent   Metric = "hiv_in_tb_percent"
	MetricHIVInTBPercentLo Metric = "hiv_in_tb_percent_lo"
	MetricHIVInTBPercentHi Metric = "hiv_in_tb_percent_hi"

	MetricDetectionRate   Metric = "detection_rate"
	MetricDetectionRateLo Metric = "detection_rate_lo"
	MetricDetectionRateHi Metric = "detection_rate_hi"
)

// Aggregation selects how a metric combines across rows in grouped charts.
// Counts sum; rates and percentages average.
type Aggregation string

const (
	AggregateSum  Aggregation = "sum"
	AggregateMean Aggregation = "mean"
)

// MetricInfo describes one metric column for catalogs and chart builders.
// Lo and Hi name the bound columns when the estimate carries an interval.
type MetricInfo struct {
	Name        Metric      `json:"name"`
	Label       string      `json:"label"`
	Aggregation Aggregation `json:"aggregation"`
	Lo          Metric      `json:"lo,omitempty"`
	Hi          Metric      `json:"hi,omitempty"`
}

// registry lists every metric the loader understands, in canonical column
// order. Bound columns are reachable through their parent's Lo/Hi and do not
// get their own entry.
var registry = []MetricInfo{
	{Name: MetricPopulation, Label: "Estimated total population", Aggregation: AggregateSum},
	{Name: MetricPrevalenceRate, Label: "TB prevalence per 100k", Aggregation: AggregateMean, Lo: MetricPrevalenceRateLo, Hi: MetricPrevalenceRateHi},
	{Name: MetricPrevalenceNum, Label: "TB prevalence, all forms", Aggregation: AggregateSum},
	{Name: MetricMortalityRate, Label: "TB mortality per 100k (excl. HIV)", Aggregation: AggregateMean, Lo: MetricMortalityRateLo, Hi: MetricMortalityRateHi},
	{Name: MetricDeathsNum, Label: "TB deaths (excl. HIV)", Aggregation: AggregateSum, Lo: MetricDeathsNumLo, Hi: MetricDeathsNumHi},
	{Name: MetricIncidenceRate, Label: "TB incidence per 100k", Aggregation: AggregateMean, Lo: MetricIncidenceRateLo, Hi: MetricIncidenceRateHi},
	{Name: MetricIncidenceNum, Label: "TB incident cases, all forms", Aggregation: AggregateSum, Lo: MetricIncidenceNumLo, Hi: MetricIncidenceNumHi},
	{Name: MetricHIVInTBPercent, Label: "HIV in incident TB (%)", Aggregation: AggregateMean, Lo: MetricHIVInTBPercentLo, Hi: MetricHIVInTBPercentHi},
	{Name: MetricDetectionRate, Label: "Case detection rate (%)", Aggregation: AggregateMean, Lo: MetricDetectionRateLo, Hi: MetricDetectionRateHi},
}

// boundColumns maps every interval column back to its parent metric.
var boundColumns = buildBoundIndex()

func buildBoundIndex() map[Metric]Metric {
	idx := make(map[Metric]Metric)
	for _, info := range registry {
		if info.Lo != "" {
			idx[info.Lo] = info.Name
		}
		if info.Hi != "" {
			idx[info.Hi] = info.Name
		}
	}
	return idx
}

// Registry returns the metric descriptors in canonical order.
func Registry() []MetricInfo {
	out := make([]MetricInfo, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the descriptor for a metric name. Bound columns resolve to
// their parent descriptor.
func Lookup(m Metric) (MetricInfo, bool) {
	for _, info := range registry {
		if info.Name == m {
			return info, true
		}
	}
	if parent, ok := boundColumns[m]; ok {
		return Lookup(parent)
	}
	return MetricInfo{}, false
}

// KnownMetric reports whether m is a canonical metric or bound column.
func KnownMetric(m Metric) bool {
	if _, ok := boundColumns[m]; ok {
		return true
	}
	for _, info := range registry {
		if info.Name == m {
			return true
		}
	}
	return false
}

// KnownMetrics returns every accepted column name, sorted.
func KnownMetrics() []Metric {
	var out []Metric
	for _, info := range registry {
		out = append(out, info.Name)
		if info.Lo != "" {
			out = append(out, info.Lo)
		}
		if info.Hi != "" {
			out = append(out, info.Hi)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DefaultSimilarityMetrics are the key indicators used when a similarity
// query does not name its own metric set.
var DefaultSimilarityMetrics = []Metric{
	MetricIncidenceRate,
	MetricMortalityRate,
	MetricPrevalenceRate,
	MetricHIVInTBPercent,
	MetricDetectionRate,
}
