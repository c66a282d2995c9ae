package forecast

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Regression : régression ridge sur l'index temporel centré et Lags retards,
// ajustée sur les Window dernières périodes, prédiction récursive pas à pas.
type Regression struct {
	Window int
	Lags   int
	Ridge  float64
}

func (m *Regression) Name() string  { return LongName }
func (m *Regression) Label() string { return "Long term" }

func (m *Regression) FitAndPredict(values []float64, steps int) ([]float64, error) {
	lags := max(m.Lags, 0)
	if m.Window > 0 && len(values) > m.Window {
		values = values[len(values)-m.Window:]
	}
	if err := checkInput(m.Name(), values, lags+3); err != nil {
		return nil, err
	}
	n := len(values)
	tMean := float64(n-1) / 2

	p := 2 + lags
	row := func(hist []float64, t int) []float64 {
		r := make([]float64, p)
		r[0] = 1
		r[1] = float64(t) - tMean
		for l := 1; l <= lags; l++ {
			r[1+l] = hist[t-l]
		}
		return r
	}

	rows := n - lags
	data := make([]float64, 0, rows*p)
	target := make([]float64, 0, rows)
	for t := lags; t < n; t++ {
		data = append(data, row(values, t)...)
		target = append(target, values[t])
	}
	X := mat.NewDense(rows, p, data)
	y := mat.NewVecDense(rows, target)

	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	// pénalité relative à l'échelle des variables, l'intercept n'est pas pénalisé
	var scale float64
	for j := 1; j < p; j++ {
		scale += xtx.At(j, j)
	}
	lambda := m.Ridge * (scale/float64(p-1) + 1)
	for j := 1; j < p; j++ {
		xtx.Set(j, j, xtx.At(j, j)+lambda)
	}
	var xty mat.VecDense
	xty.MulVec(X.T(), y)

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		return nil, fitError(m.Name(), fmt.Errorf("solve: %w", err))
	}

	hist := append(make([]float64, 0, n+steps), values...)
	preds := make([]float64, steps)
	for h := 0; h < steps; h++ {
		t := n + h
		r := row(hist, t)
		var v float64
		for j, c := range r {
			v += c * beta.AtVec(j)
		}
		preds[h] = v
		hist = append(hist, max(v, 0))
	}
	if err := clamp(m.Name(), preds); err != nil {
		return nil, err
	}
	return preds, nil
}
