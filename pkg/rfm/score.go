// Package rfm calcule les métriques Récence / Fréquence / Montant par client et leurs scores par quantiles.
package rfm

import (
	"math"
	"sort"
	"time"

	"retail-insights/pkg/models"
)

// Config paramètre le scoring.
type Config struct {
	Buckets        int  // 4 ou 5 selon le profil de segmentation
	GroupByInvoice bool // fréquence = factures distinctes, sinon nombre de lignes
}

type accumulator struct {
	last     time.Time
	rows     int
	invoices map[string]struct{}
	monetary float64
}

// SnapshotInstant = dernière transaction du jeu + 1 jour.
func SnapshotInstant(txs []models.Transaction) time.Time {
	var max time.Time
	for _, tx := range txs {
		if tx.Timestamp.After(max) {
			max = tx.Timestamp
		}
	}
	return max.Add(24 * time.Hour)
}

// Score calcule un RFMRecord par client ayant au moins une transaction.
// Les lignes sans identifiant client sont ignorées, y compris pour l'instant de référence.
func Score(txs []models.Transaction, cfg Config) map[string]models.RFMRecord {
	buckets := cfg.Buckets
	if buckets < 1 {
		buckets = 4
	}

	identified := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.EntityID != "" {
			identified = append(identified, tx)
		}
	}

	snapshot := SnapshotInstant(identified)
	acc := make(map[string]*accumulator)
	for _, tx := range identified {
		a, ok := acc[tx.EntityID]
		if !ok {
			a = &accumulator{invoices: make(map[string]struct{})}
			acc[tx.EntityID] = a
		}
		if tx.Timestamp.After(a.last) {
			a.last = tx.Timestamp
		}
		a.rows++
		if tx.InvoiceNo != "" {
			a.invoices[tx.InvoiceNo] = struct{}{}
		}
		a.monetary += tx.LineTotal
	}

	ids := make([]string, 0, len(acc))
	for id := range acc {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return LessID(ids[i], ids[j]) })

	records := make([]models.RFMRecord, len(ids))
	recency := make([]float64, len(ids))
	frequency := make([]float64, len(ids))
	monetary := make([]float64, len(ids))
	for i, id := range ids {
		a := acc[id]
		freq := a.rows
		if cfg.GroupByInvoice && len(a.invoices) > 0 {
			freq = len(a.invoices)
		}
		days := int(math.Floor(snapshot.Sub(a.last).Hours() / 24))
		records[i] = models.RFMRecord{
			EntityID:    id,
			RecencyDays: days,
			Frequency:   freq,
			Monetary:    a.monetary,
		}
		recency[i] = float64(days)
		frequency[i] = float64(freq)
		monetary[i] = a.monetary
	}

	rb := QuantileBuckets(recency, buckets)
	fb := QuantileBuckets(frequency, buckets)
	mb := QuantileBuckets(monetary, buckets)

	out := make(map[string]models.RFMRecord, len(records))
	for i, r := range records {
		// récence : plus petite = meilleure → score inversé
		r.RScore = buckets + 1 - rb[i]
		r.FScore = fb[i]
		r.MScore = mb[i]
		r.Composite = r.RScore + r.FScore + r.MScore
		out[r.EntityID] = r
	}
	return out
}
