// Package series agrège des transactions en série temporelle à fréquence fixe, sans trou.
package series

import (
	"fmt"
	"time"

	"retail-insights/pkg/models"
)

// PeriodStart ramène t au début de sa période (minuit UTC, ou lundi minuit UTC en hebdomadaire).
func PeriodStart(t time.Time, freq models.Frequency) (time.Time, error) {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch freq {
	case models.Daily:
		return day, nil
	case models.Weekly:
		offset := (int(day.Weekday()) + 6) % 7 // lundi = 0
		return day.AddDate(0, 0, -offset), nil
	}
	return time.Time{}, fmt.Errorf("%w: unsupported frequency %q", models.ErrConfiguration, freq)
}

// Step retourne la période suivante.
func Step(t time.Time, freq models.Frequency) time.Time {
	if freq == models.Weekly {
		return t.AddDate(0, 0, 7)
	}
	return t.AddDate(0, 0, 1)
}

// Aggregate somme la mesure par période puis complète la grille du premier au dernier
// début de période observé avec des zéros.
// Un sous-ensemble vide retourne ErrEmptySeries, jamais une série de zéros.
func Aggregate(txs []models.Transaction, freq models.Frequency, measure models.Measure) (models.TimeSeries, error) {
	if measure != models.MeasureSales && measure != models.MeasureQuantity {
		return models.TimeSeries{}, fmt.Errorf("%w: unsupported measure %q", models.ErrConfiguration, measure)
	}
	if _, err := PeriodStart(time.Time{}, freq); err != nil {
		return models.TimeSeries{}, err
	}
	if len(txs) == 0 {
		return models.TimeSeries{}, models.ErrEmptySeries
	}

	sums := make(map[time.Time]float64)
	var first, last time.Time
	for i, tx := range txs {
		start, _ := PeriodStart(tx.Timestamp, freq)
		if measure == models.MeasureQuantity {
			sums[start] += tx.Quantity
		} else {
			sums[start] += tx.LineTotal
		}
		if i == 0 || start.Before(first) {
			first = start
		}
		if i == 0 || start.After(last) {
			last = start
		}
	}

	out := models.TimeSeries{Frequency: freq}
	for cur := first; !cur.After(last); cur = Step(cur, freq) {
		out.Points = append(out.Points, models.Point{Start: cur, Value: sums[cur]})
	}
	return out, nil
}
