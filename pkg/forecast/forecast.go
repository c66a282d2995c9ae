package forecast

import (
	"fmt"
	"time"

	"retail-insights/pkg/models"
	"retail-insights/pkg/series"
)

// Forecast prédit steps périodes après la fin de la série avec la stratégie donnée.
// Aucun repli automatique vers l'autre modèle : l'échec d'ajustement est retourné tel quel.
func Forecast(s models.TimeSeries, steps int, strat Strategy) (models.ForecastResult, error) {
	if steps < 1 {
		return models.ForecastResult{}, fmt.Errorf("%w: steps must be >= 1, got %d", models.ErrConfiguration, steps)
	}
	if len(s.Points) == 0 {
		return models.ForecastResult{}, models.ErrEmptySeries
	}

	preds, err := strat.FitAndPredict(s.Values(), steps)
	if err != nil {
		return models.ForecastResult{}, err
	}
	if len(preds) != steps {
		return models.ForecastResult{}, &models.ModelFitError{
			Model: strat.Name(),
			Err:   fmt.Errorf("returned %d values, want %d", len(preds), steps),
		}
	}

	res := models.ForecastResult{
		Labels:       Labels(s.Frequency, steps),
		PeriodStarts: make([]time.Time, steps),
		Values:       preds,
		ModelUsed:    strat.Name(),
		ModelLabel:   strat.Label(),
	}
	next := s.Last()
	for i := range res.PeriodStarts {
		next = series.Step(next, s.Frequency)
		res.PeriodStarts[i] = next
	}
	shares := Shares(preds)
	res.Shares = make([]models.PeriodShare, steps)
	for i := range shares {
		res.Shares[i] = models.PeriodShare{Name: res.Labels[i], Value: shares[i]}
	}
	return res, nil
}

// Labels : "Week 1".."Week N" en hebdomadaire, "Day 1".."Day N" en journalier.
func Labels(freq models.Frequency, steps int) []string {
	unit := "Week"
	if freq == models.Daily {
		unit = "Day"
	}
	out := make([]string, steps)
	for i := range out {
		out[i] = fmt.Sprintf("%s %d", unit, i+1)
	}
	return out
}

// Shares : part de chaque valeur dans la somme, en %, arrondie à 2 décimales. Somme nulle → 0 partout.
func Shares(values []float64) []float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	out := make([]float64, len(values))
	if total == 0 {
		return out
	}
	for i, v := range values {
		out[i] = models.Round2(v / total * 100)
	}
	return out
}
