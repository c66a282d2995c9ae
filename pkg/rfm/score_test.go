package rfm

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-insights/pkg/models"
)

func day(d int) time.Time {
	return time.Date(2011, 12, d, 10, 0, 0, 0, time.UTC)
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "12345", NormalizeID(" 12345.0 "))
	assert.Equal(t, "12345", NormalizeID("12345"))
	assert.Equal(t, "", NormalizeID("   "))
	assert.Equal(t, "C1", NormalizeID("C1.x.y"))
}

func TestLessID(t *testing.T) {
	assert.True(t, LessID("9", "10"))
	assert.False(t, LessID("10", "9"))
	assert.True(t, LessID("10", "abc"))
	assert.True(t, LessID("abc", "abd"))
}

func TestQuantileBucketsPartition(t *testing.T) {
	for _, q := range []int{4, 5} {
		for _, n := range []int{q, 2 * q, 5 * q, 20 * q} {
			values := make([]float64, n)
			for i := range values {
				values[i] = float64((i * 7) % 13) // nombreuses égalités
			}
			counts := map[int]int{}
			for _, b := range QuantileBuckets(values, q) {
				counts[b]++
			}
			require.Len(t, counts, q, "q=%d n=%d", q, n)
			for b := 1; b <= q; b++ {
				assert.Equal(t, n/q, counts[b], "q=%d n=%d bucket=%d", q, n, b)
			}
		}
	}
}

func TestQuantileBucketsTiesKeepInputOrder(t *testing.T) {
	got := QuantileBuckets([]float64{1, 1, 1, 1}, 4)
	assert.Equal(t, []int{1, 2, 3, 4}, got)
}

func TestQuantileBucketsSmallPopulation(t *testing.T) {
	assert.Equal(t, []int{1}, QuantileBuckets([]float64{42}, 4))
	assert.Equal(t, []int{4, 1}, QuantileBuckets([]float64{9, 3}, 4))
	assert.Equal(t, []int{1, 3, 5}, QuantileBuckets([]float64{1, 2, 3}, 5))
	assert.Empty(t, QuantileBuckets(nil, 4))
}

func TestScoreSingleRecentCustomer(t *testing.T) {
	txs := []models.Transaction{
		{EntityID: "17850", InvoiceNo: "536365", Timestamp: day(9), LineTotal: 100},
	}
	got := Score(txs, Config{Buckets: 4, GroupByInvoice: true})

	require.Len(t, got, 1)
	r := got["17850"]
	assert.Equal(t, 1, r.RecencyDays)
	assert.Equal(t, 1, r.Frequency)
	assert.InDelta(t, 100.0, r.Monetary, 1e-9)
	assert.Equal(t, 4, r.RScore)
	assert.Equal(t, 1, r.FScore)
	assert.Equal(t, 1, r.MScore)
	assert.Equal(t, 6, r.Composite)
}

func TestScoreMetrics(t *testing.T) {
	txs := []models.Transaction{
		{EntityID: "1", InvoiceNo: "A", Timestamp: day(1), LineTotal: 10},
		{EntityID: "1", InvoiceNo: "A", Timestamp: day(1), LineTotal: 5},
		{EntityID: "1", InvoiceNo: "B", Timestamp: day(5), LineTotal: 20},
		{EntityID: "2", InvoiceNo: "C", Timestamp: day(10), LineTotal: 1},
		{EntityID: "", InvoiceNo: "D", Timestamp: day(10), LineTotal: 999},
	}

	byInvoice := Score(txs, Config{Buckets: 4, GroupByInvoice: true})
	require.Len(t, byInvoice, 2)
	assert.Equal(t, 2, byInvoice["1"].Frequency)
	assert.Equal(t, 6, byInvoice["1"].RecencyDays)
	assert.InDelta(t, 35.0, byInvoice["1"].Monetary, 1e-9)
	assert.Equal(t, 1, byInvoice["2"].RecencyDays)

	byRows := Score(txs, Config{Buckets: 4})
	assert.Equal(t, 3, byRows["1"].Frequency)
}

func TestScoreDirections(t *testing.T) {
	var txs []models.Transaction
	for i := 1; i <= 8; i++ {
		id := fmt.Sprintf("%d", i)
		// client i : i factures, dernière commande le jour i (plus grand i = plus récent)
		for k := 0; k < i; k++ {
			txs = append(txs, models.Transaction{
				EntityID:  id,
				InvoiceNo: fmt.Sprintf("%s-%d", id, k),
				Timestamp: day(i),
				LineTotal: float64(i * 10),
			})
		}
	}
	got := Score(txs, Config{Buckets: 4, GroupByInvoice: true})

	assert.Equal(t, 4, got["8"].RScore)
	assert.Equal(t, 4, got["8"].FScore)
	assert.Equal(t, 4, got["8"].MScore)
	assert.Equal(t, 1, got["1"].RScore)
	assert.Equal(t, 1, got["1"].FScore)
	assert.Equal(t, 1, got["1"].MScore)
	for _, r := range got {
		assert.Equal(t, r.RScore+r.FScore+r.MScore, r.Composite)
	}
}
