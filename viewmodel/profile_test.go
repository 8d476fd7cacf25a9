package viewmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SHAH-MEER/tbatlas/core"
)

func TestBuildProfile(t *testing.T) {
	view := BuildProfile(fixture(), "AFG")
	require.False(t, view.Empty)

	assert.Equal(t, "Afghanistan", view.Country)
	assert.Equal(t, "AFG", view.ISO3)
	assert.Equal(t, "EMR", view.Region)

	require.Len(t, view.Records, 2)
	assert.Equal(t, 2010, view.Records[0].Year)
	assert.Equal(t, 2011, view.Records[1].Year)

	require.Len(t, view.Rates.Series, 3)
	assert.Equal(t, core.MetricPrevalenceRate, view.Rates.Series[0].Metric)
	assert.Equal(t, core.MetricMortalityRate, view.Rates.Series[1].Metric)
	assert.Equal(t, core.MetricIncidenceRate, view.Rates.Series[2].Metric)
	assert.True(t, view.Rates.TrendOverlay)
}

func TestBuildProfileUnknownCountry(t *testing.T) {
	view := BuildProfile(fixture(), "Atlantis")
	assert.True(t, view.Empty)
	assert.Contains(t, view.Message, "Atlantis")
}

func TestBuildProfileNoSelection(t *testing.T) {
	view := BuildProfile(fixture(), "")
	assert.True(t, view.Empty)
}
