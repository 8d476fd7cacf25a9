package similarity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SHAH-MEER/tbatlas/core"
)

func rec(country, iso3, region string, year int, values map[core.Metric]float64) core.Record {
	return core.Record{Country: country, ISO3: iso3, Region: region, Year: year, Values: values}
}

// Three-country fixture: Alandia and Borland share one profile, Cordia is
// proportionally far heavier on every indicator.
func threeCountries() *core.Dataset {
	return &core.Dataset{Records: []core.Record{
		rec("Alandia", "ALA", "EUR", 2020, map[core.Metric]float64{
			core.MetricIncidenceRate: 10, core.MetricMortalityRate: 2,
		}),
		rec("Borland", "BOR", "EUR", 2020, map[core.Metric]float64{
			core.MetricIncidenceRate: 10, core.MetricMortalityRate: 2,
		}),
		rec("Cordia", "COR", "AFR", 2020, map[core.Metric]float64{
			core.MetricIncidenceRate: 50, core.MetricMortalityRate: 20,
		}),
	}}
}

func TestRankIdenticalProfilesScoreOne(t *testing.T) {
	engine := NewEngine(0, nil)
	res, err := engine.Rank(context.Background(), threeCountries(), Request{
		Country: "Alandia",
		Year:    2020,
		Metrics: []core.Metric{core.MetricIncidenceRate, core.MetricMortalityRate},
	})
	require.NoError(t, err)

	require.Len(t, res.Neighbors, 2)
	assert.Equal(t, "Borland", res.Neighbors[0].Country)
	assert.InDelta(t, 1.0, res.Neighbors[0].Score, 1e-9)
	assert.Equal(t, "Cordia", res.Neighbors[1].Country)
	assert.Less(t, res.Neighbors[1].Score, res.Neighbors[0].Score)
	assert.Equal(t, 2, res.Candidates)
	assert.Equal(t, 0, res.Dropped)
}

func TestRankExcludesTarget(t *testing.T) {
	engine := NewEngine(0, nil)
	res, err := engine.Rank(context.Background(), threeCountries(), Request{
		Country: "ALA",
		Year:    2020,
		Metrics: []core.Metric{core.MetricIncidenceRate, core.MetricMortalityRate},
	})
	require.NoError(t, err)

	assert.Equal(t, "Alandia", res.Country)
	for _, n := range res.Neighbors {
		assert.NotEqual(t, "ALA", n.ISO3, "ranking must not contain the query country")
	}
}

func TestRankSortedNonIncreasing(t *testing.T) {
	ds := &core.Dataset{Records: []core.Record{
		rec("Target", "TGT", "EUR", 2020, map[core.Metric]float64{
			core.MetricIncidenceRate: 100, core.MetricMortalityRate: 10,
		}),
		rec("NearA", "NRA", "EUR", 2020, map[core.Metric]float64{
			core.MetricIncidenceRate: 110, core.MetricMortalityRate: 11,
		}),
		rec("NearB", "NRB", "EUR", 2020, map[core.Metric]float64{
			core.MetricIncidenceRate: 90, core.MetricMortalityRate: 12,
		}),
		rec("FarA", "FRA", "AFR", 2020, map[core.Metric]float64{
			core.MetricIncidenceRate: 500, core.MetricMortalityRate: 80,
		}),
		rec("FarB", "FRB", "AFR", 2020, map[core.Metric]float64{
			core.MetricIncidenceRate: 20, core.MetricMortalityRate: 90,
		}),
	}}

	engine := NewEngine(0, nil)
	res, err := engine.Rank(context.Background(), ds, Request{
		Country: "Target",
		Year:    2020,
		Metrics: []core.Metric{core.MetricIncidenceRate, core.MetricMortalityRate},
	})
	require.NoError(t, err)
	require.Len(t, res.Neighbors, 4)

	for i := 1; i < len(res.Neighbors); i++ {
		assert.GreaterOrEqual(t, res.Neighbors[i-1].Score, res.Neighbors[i].Score,
			"scores must be non-increasing")
	}
}

func TestRankFewerThanTwoCandidates(t *testing.T) {
	ds := &core.Dataset{Records: []core.Record{
		rec("Alandia", "ALA", "EUR", 2020, map[core.Metric]float64{
			core.MetricIncidenceRate: 10, core.MetricMortalityRate: 2,
		}),
		rec("Borland", "BOR", "EUR", 2020, map[core.Metric]float64{
			core.MetricIncidenceRate: 10, core.MetricMortalityRate: 2,
		}),
	}}

	engine := NewEngine(0, nil)
	res, err := engine.Rank(context.Background(), ds, Request{
		Country: "Alandia",
		Year:    2020,
		Metrics: []core.Metric{core.MetricIncidenceRate, core.MetricMortalityRate},
	})
	require.NoError(t, err, "too few candidates is an empty result, not an error")
	assert.NotNil(t, res.Neighbors)
	assert.Empty(t, res.Neighbors)
	assert.Equal(t, 1, res.Candidates)
}

func TestRankNoDataForCountryYear(t *testing.T) {
	engine := NewEngine(0, nil)

	_, err := engine.Rank(context.Background(), threeCountries(), Request{
		Country: "Atlantis",
		Year:    2020,
		Metrics: []core.Metric{core.MetricIncidenceRate},
	})
	assert.ErrorIs(t, err, core.ErrNoData)

	_, err = engine.Rank(context.Background(), threeCountries(), Request{
		Country: "Alandia",
		Year:    1990,
		Metrics: []core.Metric{core.MetricIncidenceRate},
	})
	assert.ErrorIs(t, err, core.ErrNoData)
}

func TestRankIncompleteTarget(t *testing.T) {
	ds := threeCountries()
	ds.Records = append(ds.Records, rec("Dexia", "DEX", "WPR", 2020, map[core.Metric]float64{
		core.MetricIncidenceRate: 30,
	}))

	engine := NewEngine(0, nil)
	_, err := engine.Rank(context.Background(), ds, Request{
		Country: "Dexia",
		Year:    2020,
		Metrics: []core.Metric{core.MetricIncidenceRate, core.MetricMortalityRate},
	})
	assert.ErrorIs(t, err, core.ErrNoData)
}

func TestRankDropsIncompleteCandidates(t *testing.T) {
	ds := threeCountries()
	ds.Records = append(ds.Records, rec("Dexia", "DEX", "WPR", 2020, map[core.Metric]float64{
		core.MetricIncidenceRate: 30,
	}))

	engine := NewEngine(0, nil)
	res, err := engine.Rank(context.Background(), ds, Request{
		Country: "Alandia",
		Year:    2020,
		Metrics: []core.Metric{core.MetricIncidenceRate, core.MetricMortalityRate},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Candidates)
	assert.Equal(t, 1, res.Dropped)
	for _, n := range res.Neighbors {
		assert.NotEqual(t, "DEX", n.ISO3)
	}
}

func TestRankValidatesMetrics(t *testing.T) {
	engine := NewEngine(0, nil)
	_, err := engine.Rank(context.Background(), threeCountries(), Request{
		Country: "Alandia",
		Year:    2020,
		Metrics: []core.Metric{"bcg_coverage"},
	})
	assert.ErrorIs(t, err, core.ErrUnknownMetric)
}

func TestRankDefaultMetrics(t *testing.T) {
	full := func(base float64) map[core.Metric]float64 {
		return map[core.Metric]float64{
			core.MetricIncidenceRate:  base,
			core.MetricMortalityRate:  base / 10,
			core.MetricPrevalenceRate: base * 1.5,
			core.MetricHIVInTBPercent: 5,
			core.MetricDetectionRate:  70,
		}
	}
	ds := &core.Dataset{Records: []core.Record{
		rec("Alandia", "ALA", "EUR", 2020, full(100)),
		rec("Borland", "BOR", "EUR", 2020, full(110)),
		rec("Cordia", "COR", "AFR", 2020, full(400)),
	}}

	engine := NewEngine(0, nil)
	res, err := engine.Rank(context.Background(), ds, Request{Country: "Alandia", Year: 2020})
	require.NoError(t, err)
	assert.Equal(t, core.DefaultSimilarityMetrics, res.Metrics)
	assert.Len(t, res.Neighbors, 2)
}

func TestRankTopKClamp(t *testing.T) {
	engine := NewEngine(0, nil)
	res, err := engine.Rank(context.Background(), threeCountries(), Request{
		Country: "Alandia",
		Year:    2020,
		Metrics: []core.Metric{core.MetricIncidenceRate, core.MetricMortalityRate},
		K:       1,
	})
	require.NoError(t, err)
	require.Len(t, res.Neighbors, 1)
	assert.Equal(t, "Borland", res.Neighbors[0].Country)
}

func TestRankTieBreakByName(t *testing.T) {
	ds := &core.Dataset{Records: []core.Record{
		rec("Target", "TGT", "EUR", 2020, map[core.Metric]float64{
			core.MetricIncidenceRate: 10, core.MetricMortalityRate: 2,
		}),
		rec("Zed", "ZED", "EUR", 2020, map[core.Metric]float64{
			core.MetricIncidenceRate: 10, core.MetricMortalityRate: 2,
		}),
		rec("Abel", "ABL", "EUR", 2020, map[core.Metric]float64{
			core.MetricIncidenceRate: 10, core.MetricMortalityRate: 2,
		}),
		rec("Cordia", "COR", "AFR", 2020, map[core.Metric]float64{
			core.MetricIncidenceRate: 50, core.MetricMortalityRate: 20,
		}),
	}}

	engine := NewEngine(0, nil)
	res, err := engine.Rank(context.Background(), ds, Request{
		Country: "Target",
		Year:    2020,
		Metrics: []core.Metric{core.MetricIncidenceRate, core.MetricMortalityRate},
	})
	require.NoError(t, err)
	require.Len(t, res.Neighbors, 3)
	assert.Equal(t, "Abel", res.Neighbors[0].Country)
	assert.Equal(t, "Zed", res.Neighbors[1].Country)
	assert.InDelta(t, res.Neighbors[0].Score, res.Neighbors[1].Score, 1e-9)
}
