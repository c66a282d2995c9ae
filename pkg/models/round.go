package models

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 arrondit à 2 décimales (montants et pourcentages exposés). NaN et ±Inf sont rendus tels quels.
func Round2(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
