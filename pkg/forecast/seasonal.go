package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Seasonal : tendance linéaire + effets saisonniers (moindres carrés conjoints)
// + AR(1) sur les résidus. La saisonnalité n'est estimée qu'avec au moins deux saisons complètes,
// sinon tendance seule.
type Seasonal struct {
	SeasonLength    int
	MinObservations int
}

const maxPhi = 0.95

func (m *Seasonal) Name() string  { return ShortName }
func (m *Seasonal) Label() string { return "Short term" }

func (m *Seasonal) FitAndPredict(values []float64, steps int) ([]float64, error) {
	if err := checkInput(m.Name(), values, m.MinObservations); err != nil {
		return nil, err
	}
	n := len(values)

	season := m.SeasonLength
	if season < 2 || n < 2*season {
		season = 1
	}
	alpha, beta, offsets, err := m.fitTrend(values, season)
	if err != nil {
		return nil, err
	}

	resid := make([]float64, n)
	for i, v := range values {
		resid[i] = v - (alpha + beta*float64(i) + offsets[i%season])
	}

	var num, den float64
	for i := 1; i < n; i++ {
		num += resid[i] * resid[i-1]
		den += resid[i-1] * resid[i-1]
	}
	phi := 0.0
	if den > 1e-9 {
		phi = math.Max(-maxPhi, math.Min(maxPhi, num/den))
	}

	preds := make([]float64, steps)
	e := resid[n-1]
	for h := 1; h <= steps; h++ {
		t := n - 1 + h
		e *= phi
		preds[h-1] = alpha + beta*float64(t) + offsets[t%season] + e
	}
	if err := clamp(m.Name(), preds); err != nil {
		return nil, err
	}
	return preds, nil
}

// fitTrend retourne intercept, pente et effet de chaque position saisonnière (position 0 = référence).
func (m *Seasonal) fitTrend(values []float64, season int) (float64, float64, []float64, error) {
	n := len(values)
	offsets := make([]float64, season)
	if season == 1 {
		x := make([]float64, n)
		for i := range x {
			x[i] = float64(i)
		}
		alpha, beta := stat.LinearRegression(x, values, nil, false)
		return alpha, beta, offsets, nil
	}

	p := season + 1 // intercept, pente, season-1 indicatrices
	data := make([]float64, n*p)
	for i := 0; i < n; i++ {
		data[i*p] = 1
		data[i*p+1] = float64(i)
		if k := i % season; k > 0 {
			data[i*p+1+k] = 1
		}
	}
	var coef mat.VecDense
	if err := coef.SolveVec(mat.NewDense(n, p, data), mat.NewVecDense(n, append([]float64(nil), values...))); err != nil {
		return 0, 0, nil, fitError(m.Name(), fmt.Errorf("least squares: %w", err))
	}
	for k := 1; k < season; k++ {
		offsets[k] = coef.AtVec(1 + k)
	}
	return coef.AtVec(0), coef.AtVec(1), offsets, nil
}
