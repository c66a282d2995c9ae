// Package forecast produit des prévisions à horizon fixe à partir d'une série agrégée.
// Deux stratégies interchangeables : "short" (autorégressif saisonnier) et "long" (régression sur l'index temporel).
package forecast

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"retail-insights/pkg/models"
)

var (
	ErrTooFewObservations = errors.New("too few observations")
	ErrDegenerateSeries   = errors.New("degenerate series (all zeros)")
	ErrNonFinite          = errors.New("non-finite prediction")
)

// Strategy ajuste un modèle sur l'historique et prédit steps valeurs.
type Strategy interface {
	Name() string
	Label() string
	FitAndPredict(values []float64, steps int) ([]float64, error)
}

// Options paramètre les stratégies.
type Options struct {
	SeasonLength int     // périodes par saison (modèle court)
	Window       int     // historique récent retenu (modèle long), 0 = tout
	Lags         int     // retards utilisés comme variables (modèle long)
	Ridge        float64 // régularisation relative (modèle long)
}

// DefaultOptions : saison mensuelle en hebdomadaire, hebdomadaire en journalier ; un an d'historique pour le modèle long.
func DefaultOptions(freq models.Frequency) Options {
	if freq == models.Daily {
		return Options{SeasonLength: 7, Window: 365, Lags: 2, Ridge: 1e-3}
	}
	return Options{SeasonLength: 4, Window: 52, Lags: 2, Ridge: 1e-3}
}

const (
	ShortName = "short"
	LongName  = "long"
)

// New retourne la stratégie nommée. Les anciens noms ("sarimax", "xgboost") restent acceptés.
func New(name string, opts Options) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ShortName, "sarimax":
		return &Seasonal{SeasonLength: opts.SeasonLength, MinObservations: 4}, nil
	case LongName, "xgboost", "linear":
		return &Regression{Window: opts.Window, Lags: opts.Lags, Ridge: opts.Ridge}, nil
	}
	return nil, fmt.Errorf("%w: model must be %q or %q, got %q", models.ErrConfiguration, ShortName, LongName, name)
}

func fitError(model string, err error) error {
	return &models.ModelFitError{Model: model, Err: err}
}

func checkInput(model string, values []float64, minObs int) error {
	if len(values) < minObs {
		return fitError(model, fmt.Errorf("%w: have %d, need %d", ErrTooFewObservations, len(values), minObs))
	}
	for _, v := range values {
		if v != 0 {
			return nil
		}
	}
	return fitError(model, ErrDegenerateSeries)
}

func clamp(model string, preds []float64) error {
	for i, p := range preds {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fitError(model, ErrNonFinite)
		}
		if p < 0 {
			preds[i] = 0
		}
	}
	return nil
}
