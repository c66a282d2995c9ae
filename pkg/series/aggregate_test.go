package series

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-insights/pkg/models"
)

func tx(ts string, total, qty float64) models.Transaction {
	t, err := time.Parse("2006-01-02 15:04", ts)
	if err != nil {
		panic(err)
	}
	return models.Transaction{Timestamp: t, LineTotal: total, Quantity: qty, HasQuantity: true}
}

func TestPeriodStartWeeklyIsMonday(t *testing.T) {
	// 2010-12-05 est un dimanche : la semaine commence le lundi 2010-11-29.
	got, err := PeriodStart(time.Date(2010, 12, 5, 23, 59, 0, 0, time.UTC), models.Weekly)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2010, 11, 29, 0, 0, 0, 0, time.UTC), got)

	got, err = PeriodStart(time.Date(2010, 11, 29, 8, 0, 0, 0, time.UTC), models.Weekly)
	require.NoError(t, err)
	assert.Equal(t, time.Monday, got.Weekday())
	assert.Equal(t, 29, got.Day())
}

func TestAggregateWeeklyFillsGaps(t *testing.T) {
	txs := []models.Transaction{
		tx("2010-12-01 08:26", 10, 1),
		tx("2010-12-02 09:00", 5, 2),
		tx("2010-12-22 12:00", 7, 3), // deux semaines vides entre les deux
	}
	s, err := Aggregate(txs, models.Weekly, models.MeasureSales)
	require.NoError(t, err)

	require.Len(t, s.Points, 4)
	assert.Equal(t, []float64{15, 0, 0, 7}, s.Values())
	for i := 1; i < len(s.Points); i++ {
		assert.Equal(t, 7*24*time.Hour, s.Points[i].Start.Sub(s.Points[i-1].Start))
		assert.Equal(t, time.Monday, s.Points[i].Start.Weekday())
	}
}

func TestAggregateDailyQuantity(t *testing.T) {
	txs := []models.Transaction{
		tx("2011-01-03 10:00", 10, 4),
		tx("2011-01-01 10:00", 10, 1),
		tx("2011-01-03 18:00", 10, 2),
	}
	s, err := Aggregate(txs, models.Daily, models.MeasureQuantity)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 0, 6}, s.Values())
	for i := 1; i < len(s.Points); i++ {
		assert.Equal(t, 24*time.Hour, s.Points[i].Start.Sub(s.Points[i-1].Start))
	}
	assert.Equal(t, time.Date(2011, 1, 3, 0, 0, 0, 0, time.UTC), s.Last())
}

func TestAggregateEmptyIsDistinct(t *testing.T) {
	_, err := Aggregate(nil, models.Weekly, models.MeasureSales)
	assert.True(t, errors.Is(err, models.ErrEmptySeries))
}

func TestAggregateUnsupported(t *testing.T) {
	txs := []models.Transaction{tx("2011-01-03 10:00", 1, 1)}

	_, err := Aggregate(txs, models.Frequency("monthly"), models.MeasureSales)
	assert.True(t, errors.Is(err, models.ErrConfiguration))

	_, err = Aggregate(txs, models.Daily, models.Measure("margin"))
	assert.True(t, errors.Is(err, models.ErrConfiguration))
}
