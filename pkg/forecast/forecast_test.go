package forecast

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-insights/pkg/models"
)

func weekly(values ...float64) models.TimeSeries {
	start := time.Date(2011, 1, 3, 0, 0, 0, 0, time.UTC) // lundi
	s := models.TimeSeries{Frequency: models.Weekly}
	for i, v := range values {
		s.Points = append(s.Points, models.Point{Start: start.AddDate(0, 0, 7*i), Value: v})
	}
	return s
}

func strategies(t *testing.T) []Strategy {
	t.Helper()
	var out []Strategy
	for _, name := range []string{ShortName, LongName} {
		s, err := New(name, DefaultOptions(models.Weekly))
		require.NoError(t, err)
		out = append(out, s)
	}
	return out
}

func TestForecastConstantSeries(t *testing.T) {
	s := weekly(10, 10, 10, 10, 10, 10, 10, 10)
	for _, strat := range strategies(t) {
		res, err := Forecast(s, 4, strat)
		require.NoError(t, err, strat.Name())

		require.Len(t, res.Values, 4)
		for _, v := range res.Values {
			assert.InDelta(t, 10, v, 0.5, strat.Name())
		}
		assert.Equal(t, []string{"Week 1", "Week 2", "Week 3", "Week 4"}, res.Labels)
		for _, sh := range res.Shares {
			assert.InDelta(t, 25, sh.Value, 0.01)
		}
		assert.Equal(t, strat.Name(), res.ModelUsed)
		assert.Equal(t, time.Date(2011, 2, 28, 0, 0, 0, 0, time.UTC), res.PeriodStarts[0])
	}
}

func TestForecastNonNegativeAndLength(t *testing.T) {
	// tendance fortement décroissante : la projection passerait sous zéro
	s := weekly(100, 90, 75, 60, 50, 35, 20, 10, 5, 2)
	for _, strat := range strategies(t) {
		for _, steps := range []int{1, 6, 20} {
			res, err := Forecast(s, steps, strat)
			require.NoError(t, err)
			require.Len(t, res.Values, steps)
			require.Len(t, res.PeriodStarts, steps)
			for _, v := range res.Values {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.False(t, math.IsNaN(v))
			}
		}
	}
}

func TestForecastSeasonalPattern(t *testing.T) {
	s := weekly(10, 20, 30, 40, 10, 20, 30, 40, 10, 20, 30, 40)
	strat, err := New("sarimax", DefaultOptions(models.Weekly))
	require.NoError(t, err)

	res, err := Forecast(s, 4, strat)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{10, 20, 30, 40}, res.Values, 1.0)
}

func TestForecastFitErrors(t *testing.T) {
	for _, strat := range strategies(t) {
		_, err := Forecast(weekly(0, 0, 0, 0, 0, 0), 4, strat)
		var fe *models.ModelFitError
		require.True(t, errors.As(err, &fe), strat.Name())
		assert.ErrorIs(t, err, ErrDegenerateSeries)

		_, err = Forecast(weekly(5, 3), 4, strat)
		require.True(t, errors.As(err, &fe), strat.Name())
		assert.ErrorIs(t, err, ErrTooFewObservations)
	}
}

func TestForecastInvalidInput(t *testing.T) {
	strat := strategies(t)[0]
	_, err := Forecast(weekly(1, 2, 3, 4), 0, strat)
	assert.ErrorIs(t, err, models.ErrConfiguration)

	_, err = Forecast(models.TimeSeries{Frequency: models.Weekly}, 4, strat)
	assert.ErrorIs(t, err, models.ErrEmptySeries)

	_, err = New("prophet", Options{})
	assert.ErrorIs(t, err, models.ErrConfiguration)
}

func TestNewAliases(t *testing.T) {
	for name, want := range map[string]string{
		"short": ShortName, "SARIMAX": ShortName,
		"long": LongName, "xgboost": LongName, "linear": LongName,
	} {
		s, err := New(name, Options{})
		require.NoError(t, err)
		assert.Equal(t, want, s.Name(), name)
	}
}

func TestShares(t *testing.T) {
	shares := Shares([]float64{1, 1, 2})
	assert.Equal(t, []float64{25, 25, 50}, shares)

	shares = Shares([]float64{1, 1, 1})
	var sum float64
	for _, v := range shares {
		sum += v
	}
	assert.InDelta(t, 100, sum, 0.05)

	assert.Equal(t, []float64{0, 0}, Shares([]float64{0, 0}))
}

func TestLabelsDaily(t *testing.T) {
	assert.Equal(t, []string{"Day 1", "Day 2"}, Labels(models.Daily, 2))
}
