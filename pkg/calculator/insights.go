package calculator

import (
	"sort"
	"time"

	"retail-insights/pkg/models"
	"retail-insights/pkg/snapshot"
)

const (
	DefaultWindowDays = 60
	DefaultInsightTop = 5
)

func days(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }

func quantity(tx models.Transaction) float64 {
	if tx.HasQuantity {
		return tx.Quantity
	}
	return 0
}

// TopProducts : produits les plus vendus (quantité) sur les windowDays derniers jours, bornes incluses.
func TopProducts(snap *snapshot.Snapshot, windowDays, limit int) ([]models.ProductVolume, error) {
	if err := window(windowDays); err != nil {
		return nil, err
	}
	if err := positive("limit", limit); err != nil {
		return nil, err
	}
	cutoff := snap.MaxTime.Add(-days(windowDays))

	type acc struct{ qty, revenue float64 }
	byDesc := make(map[string]*acc)
	for _, tx := range snap.Transactions {
		if tx.Timestamp.Before(cutoff) {
			continue
		}
		a := byDesc[tx.Description]
		if a == nil {
			a = &acc{}
			byDesc[tx.Description] = a
		}
		a.qty += quantity(tx)
		a.revenue += tx.LineTotal
	}

	out := make([]models.ProductVolume, 0, len(byDesc))
	for desc, a := range byDesc {
		out = append(out, models.ProductVolume{
			Description: desc,
			Quantity:    int(a.qty),
			Revenue:     models.Round2(a.revenue),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Description < out[j].Description
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// FutureWinners compare la quantité vendue sur (max-d, max] à celle de (max-2d, max-d]
// et retourne les plus fortes hausses.
func FutureWinners(snap *snapshot.Snapshot, windowDays, limit int) ([]models.ProductGrowth, error) {
	if err := window(windowDays); err != nil {
		return nil, err
	}
	if err := positive("limit", limit); err != nil {
		return nil, err
	}
	recentStart := snap.MaxTime.Add(-days(windowDays))
	pastStart := snap.MaxTime.Add(-days(2 * windowDays))

	type acc struct{ recent, past float64 }
	byDesc := make(map[string]*acc)
	for _, tx := range snap.Transactions {
		var recent bool
		switch {
		case tx.Timestamp.After(recentStart):
			recent = true
		case tx.Timestamp.After(pastStart):
		default:
			continue
		}
		a := byDesc[tx.Description]
		if a == nil {
			a = &acc{}
			byDesc[tx.Description] = a
		}
		if recent {
			a.recent += quantity(tx)
		} else {
			a.past += quantity(tx)
		}
	}

	out := make([]models.ProductGrowth, 0, len(byDesc))
	for desc, a := range byDesc {
		growth := a.recent - a.past
		baseline := a.past
		if baseline <= 0 {
			baseline = 1
		}
		out = append(out, models.ProductGrowth{
			Description: desc,
			RecentQty:   int(a.recent),
			PastQty:     int(a.past),
			Growth:      growth,
			LiftPercent: models.Round2(growth / baseline * 100),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Growth != out[j].Growth {
			return out[i].Growth > out[j].Growth
		}
		return out[i].Description < out[j].Description
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Retention : part des clients de W1 = [max-2d, max-d) encore présents dans W2 = [max-d, max].
// Les lignes sans client sont ignorées ; W1 vide → taux 0.
func Retention(snap *snapshot.Snapshot, windowDays int) (models.RetentionResult, error) {
	if err := window(windowDays); err != nil {
		return models.RetentionResult{}, err
	}
	w2Start := snap.MaxTime.Add(-days(windowDays))
	w1Start := snap.MaxTime.Add(-days(2 * windowDays))

	w1 := make(map[string]struct{})
	w2 := make(map[string]struct{})
	for _, tx := range snap.Transactions {
		if tx.EntityID == "" || tx.Timestamp.Before(w1Start) {
			continue
		}
		if tx.Timestamp.Before(w2Start) {
			w1[tx.EntityID] = struct{}{}
		} else {
			w2[tx.EntityID] = struct{}{}
		}
	}

	res := models.RetentionResult{
		Window1Customers: len(w1),
		Window2Customers: len(w2),
	}
	for id := range w1 {
		if _, ok := w2[id]; ok {
			res.RetainedCustomers++
		}
	}
	if len(w1) > 0 {
		res.RetentionRate = models.Round2(float64(res.RetainedCustomers) / float64(len(w1)) * 100)
	}
	return res, nil
}
