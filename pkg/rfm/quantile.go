package rfm

import (
	"sort"
	"strconv"
	"strings"
)

// NormalizeID nettoie un identifiant client : espaces retirés, coupé au premier "."
// ("12345.0" → "12345", artefact des exports tableur).
func NormalizeID(raw string) string {
	id := strings.TrimSpace(raw)
	if i := strings.IndexByte(id, '.'); i >= 0 {
		id = id[:i]
	}
	return id
}

// LessID ordonne les identifiants numériquement quand c'est possible, sinon lexicographiquement.
func LessID(a, b string) bool {
	ai, errA := strconv.ParseInt(a, 10, 64)
	bi, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		return ai < bi
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}

// QuantileBuckets classe values par rang croissant (égalités départagées par l'ordre d'entrée)
// puis découpe les rangs en q groupes de même effectif. Retourne le numéro de groupe (1..q)
// de chaque valeur, dans l'ordre d'entrée.
//
// Avec n >= 2 la règle des quantiles interpolés est toujours définie et couvre 1..q, même si n < q.
// Une population de 1 tombe dans le groupe 1.
func QuantileBuckets(values []float64, q int) []int {
	n := len(values)
	out := make([]int, n)
	if n == 0 || q < 1 {
		return out
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return values[order[i]] < values[order[j]] })

	for pos, i := range order {
		out[i] = bucketForRank(pos+1, n, q)
	}
	return out
}

// bucketForRank = ceil((rank-1)*q/(n-1)), au minimum 1.
func bucketForRank(rank, n, q int) int {
	if n == 1 || rank == 1 {
		return 1
	}
	b := ((rank-1)*q + (n - 1) - 1) / (n - 1)
	if b < 1 {
		b = 1
	}
	if b > q {
		b = q
	}
	return b
}
