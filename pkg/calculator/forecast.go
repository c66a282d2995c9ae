package calculator

import (
	"fmt"
	"strings"

	"retail-insights/pkg/forecast"
	"retail-insights/pkg/models"
	"retail-insights/pkg/series"
	"retail-insights/pkg/snapshot"
)

const (
	DefaultForecastSteps = 4
	MaxForecastSteps     = 52
)

// Horizons de la prévision globale des ventes (jours prévus / jours d'historique).
const (
	HorizonShort = "short"
	HorizonLong  = "long"
)

var horizons = map[string]struct{ steps, history int }{
	HorizonShort: {steps: 28, history: 90},
	HorizonLong:  {steps: 120, history: 365},
}

// MatchProduct : code article exact, sinon sous-chaîne de la description (insensible à la casse).
func MatchProduct(snap *snapshot.Snapshot, product string) []models.Transaction {
	var exact, fuzzy []models.Transaction
	needle := strings.ToLower(product)
	for _, tx := range snap.Transactions {
		if tx.ProductID == product {
			exact = append(exact, tx)
			continue
		}
		if len(exact) == 0 && strings.Contains(strings.ToLower(tx.Description), needle) {
			fuzzy = append(fuzzy, tx)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return fuzzy
}

// ForecastProduct prévoit les ventes hebdomadaires d'un produit.
func ForecastProduct(snap *snapshot.Snapshot, req models.ForecastRequest) (models.ProductForecast, error) {
	product := strings.TrimSpace(req.Product)
	if product == "" {
		return models.ProductForecast{}, fmt.Errorf("%w: product is required", models.ErrConfiguration)
	}
	steps := req.Steps
	if steps == 0 {
		steps = DefaultForecastSteps
	}
	if steps < 1 || steps > MaxForecastSteps {
		return models.ProductForecast{}, fmt.Errorf("%w: steps must be in [1, %d], got %d", models.ErrConfiguration, MaxForecastSteps, steps)
	}
	model := req.Model
	if model == "" {
		model = forecast.ShortName
	}
	strat, err := forecast.New(model, forecast.DefaultOptions(models.Weekly))
	if err != nil {
		return models.ProductForecast{}, err
	}

	txs := MatchProduct(snap, product)
	if len(txs) == 0 {
		return models.ProductForecast{}, fmt.Errorf("product %q: %w", product, models.ErrDataUnavailable)
	}
	s, err := series.Aggregate(txs, models.Weekly, models.MeasureSales)
	if err != nil {
		return models.ProductForecast{}, fmt.Errorf("product %q: %w", product, err)
	}
	res, err := forecast.Forecast(s, steps, strat)
	if err != nil {
		return models.ProductForecast{}, fmt.Errorf("product %q: %w", product, err)
	}
	return models.ProductForecast{
		Product:            product,
		ProductDescription: txs[0].Description,
		ForecastResult:     res,
	}, nil
}

// SalesForecast prévoit les ventes journalières du magasin par tendance linéaire
// ajustée sur l'historique récent.
func SalesForecast(snap *snapshot.Snapshot, horizon string) ([]models.DatedValue, error) {
	h, ok := horizons[strings.ToLower(strings.TrimSpace(horizon))]
	if !ok {
		return nil, fmt.Errorf("%w: horizon must be %q or %q, got %q", models.ErrConfiguration, HorizonShort, HorizonLong, horizon)
	}
	s, err := series.Aggregate(snap.Transactions, models.Daily, models.MeasureSales)
	if err != nil {
		return nil, err
	}
	strat := &forecast.Regression{Window: h.history, Lags: 0}
	res, err := forecast.Forecast(s, h.steps, strat)
	if err != nil {
		return nil, err
	}

	out := make([]models.DatedValue, len(res.Values))
	for i, v := range res.Values {
		out[i] = models.DatedValue{
			Date:  res.PeriodStarts[i].Format("2006-01-02"),
			Sales: models.Round2(v),
		}
	}
	return out, nil
}
