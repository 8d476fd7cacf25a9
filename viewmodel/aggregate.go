package viewmodel

import (
	"sort"

	"github.com/SHAH-MEER/tbatlas/core"
)

type accumulator struct {
	sum   float64
	count int
}

func (a *accumulator) add(v float64) {
	a.sum += v
	a.count++
}

func (a *accumulator) value(agg core.Aggregation) float64 {
	if agg == core.AggregateMean && a.count > 0 {
		return a.sum / float64(a.count)
	}
	return a.sum
}

// aggregate groups rows by key and combines one metric per group using the
// registry's aggregation for that metric: counts sum, rates average. Rows
// missing the metric do not participate, and groups with no values at all
// are omitted, so the result never contains NaN. Labels come back sorted.
func aggregate(rows []core.Record, metric core.Metric, key func(core.Record) string) ([]string, []float64) {
	info, ok := core.Lookup(metric)
	if !ok {
		return nil, nil
	}

	groups := make(map[string]*accumulator)
	for _, r := range rows {
		v, present := r.Value(metric)
		if !present {
			continue
		}
		k := key(r)
		acc := groups[k]
		if acc == nil {
			acc = &accumulator{}
			groups[k] = acc
		}
		acc.add(v)
	}

	labels := make([]string, 0, len(groups))
	for k := range groups {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	values := make([]float64, len(labels))
	for i, k := range labels {
		values[i] = groups[k].value(info.Aggregation)
	}
	return labels, values
}

// alignedSeries builds one series per metric over a shared, sorted label
// set. The label set is the union of groups seen for any of the metrics; a
// group with no values for one metric contributes 0 to that series.
func alignedSeries(rows []core.Record, metrics []core.Metric, key func(core.Record) string) ([]string, []Series) {
	perMetric := make([]map[string]float64, len(metrics))
	labelSet := make(map[string]bool)

	for i, m := range metrics {
		labels, values := aggregate(rows, m, key)
		perMetric[i] = make(map[string]float64, len(labels))
		for j, l := range labels {
			perMetric[i][l] = values[j]
			labelSet[l] = true
		}
	}

	labels := make([]string, 0, len(labelSet))
	for l := range labelSet {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	series := make([]Series, len(metrics))
	for i, m := range metrics {
		values := make([]float64, len(labels))
		for j, l := range labels {
			values[j] = perMetric[i][l]
		}
		series[i] = Series{Label: metricLabel(m), Metric: m, Values: values}
	}
	return labels, series
}

// topNByValue keeps the n largest label/value pairs, ordered descending.
// Ties keep their alphabetical order.
func topNByValue(labels []string, values []float64, n int) ([]string, []float64) {
	type pair struct {
		label string
		value float64
	}
	pairs := make([]pair, len(labels))
	for i := range labels {
		pairs[i] = pair{labels[i], values[i]}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].value > pairs[j].value })

	if n > 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	outLabels := make([]string, len(pairs))
	outValues := make([]float64, len(pairs))
	for i, p := range pairs {
		outLabels[i] = p.label
		outValues[i] = p.value
	}
	return outLabels, outValues
}

// groupLines draws one line per group (usually per country) for a single
// metric, aligned to the union of years present in rows. Missing points
// stay nil. The overlay flag turns on once any line has two or more points.
func groupLines(rows []core.Record, metric core.Metric, key func(core.Record) string) LineChart {
	years := distinctYears(rows)
	yearIdx := make(map[int]int, len(years))
	for i, y := range years {
		yearIdx[y] = i
	}

	groups := make(map[string][]*float64)
	for _, r := range rows {
		v, ok := r.Value(metric)
		if !ok {
			continue
		}
		k := key(r)
		if groups[k] == nil {
			groups[k] = make([]*float64, len(years))
		}
		val := v
		groups[k][yearIdx[r.Year]] = &val
	}

	labels := make([]string, 0, len(groups))
	for k := range groups {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	chart := LineChart{Years: years}
	maxPoints := 0
	for _, l := range labels {
		values := groups[l]
		points := 0
		for _, p := range values {
			if p != nil {
				points++
			}
		}
		if points > maxPoints {
			maxPoints = points
		}
		chart.Series = append(chart.Series, LineSeries{Label: l, Metric: metric, Values: values})
	}
	chart.TrendOverlay = maxPoints >= 2
	return chart
}

// metricLines draws one line per metric over the same rows, usually a single
// country's history.
func metricLines(rows []core.Record, metrics []core.Metric) LineChart {
	years := distinctYears(rows)
	yearIdx := make(map[int]int, len(years))
	for i, y := range years {
		yearIdx[y] = i
	}

	chart := LineChart{Years: years}
	maxPoints := 0
	for _, m := range metrics {
		values := make([]*float64, len(years))
		points := 0
		for _, r := range rows {
			if v, ok := r.Value(m); ok {
				val := v
				values[yearIdx[r.Year]] = &val
				points++
			}
		}
		if points > maxPoints {
			maxPoints = points
		}
		chart.Series = append(chart.Series, LineSeries{Label: metricLabel(m), Metric: m, Values: values})
	}
	chart.TrendOverlay = maxPoints >= 2
	return chart
}

// bubblePoints keeps one point per row that carries all three metrics.
func bubblePoints(rows []core.Record, x, y, size core.Metric) BubbleChart {
	chart := BubbleChart{X: x, Y: y, Size: size}
	for _, r := range rows {
		xv, okX := r.Value(x)
		yv, okY := r.Value(y)
		sv, okS := r.Value(size)
		if !okX || !okY || !okS {
			continue
		}
		chart.Points = append(chart.Points, BubblePoint{
			Country: r.Country,
			ISO3:    r.ISO3,
			Region:  r.Region,
			Year:    r.Year,
			X:       xv,
			Y:       yv,
			Size:    sv,
		})
	}
	return chart
}

func byCountry(r core.Record) string { return r.Country }
func byRegion(r core.Record) string  { return r.Region }

// metricLabel resolves the display label for a metric, falling back to the
// raw name for bound columns requested directly.
func metricLabel(m core.Metric) string {
	if info, ok := core.Lookup(m); ok && info.Name == m {
		return info.Label
	}
	return string(m)
}

// distinctYears returns the sorted distinct years present in rows.
func distinctYears(rows []core.Record) []int {
	seen := make(map[int]bool)
	for _, r := range rows {
		seen[r.Year] = true
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
