// Package calculator expose les vues en lecture seule calculées sur un snapshot :
// fiche client, segments, indicateurs produits et prévisions.
package calculator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"retail-insights/pkg/models"
	"retail-insights/pkg/rfm"
	"retail-insights/pkg/snapshot"
)

const (
	DefaultTopN        = 50
	DefaultSampleLimit = 10
)

type productAgg struct {
	last     time.Time
	quantity float64
	spent    float64
}

// CustomerProducts retourne le profil RFM du client et ses produits classés par dépense.
// found=false si l'identifiant normalisé ne correspond à aucune ligne.
func CustomerProducts(snap *snapshot.Snapshot, customerID string, topN int) (models.CustomerView, bool) {
	if topN <= 0 {
		topN = DefaultTopN
	}
	profile, ok := snap.Profile(customerID)
	if !ok {
		return models.CustomerView{}, false
	}
	profile.Monetary = models.Round2(profile.Monetary)

	byDesc := make(map[string]*productAgg)
	for _, tx := range snap.CustomerTransactions(customerID) {
		a := byDesc[tx.Description]
		if a == nil {
			a = &productAgg{}
			byDesc[tx.Description] = a
		}
		if tx.Timestamp.After(a.last) {
			a.last = tx.Timestamp
		}
		if tx.HasQuantity {
			a.quantity += tx.Quantity
		}
		a.spent += tx.LineTotal
	}

	products := make([]models.CustomerProduct, 0, len(byDesc))
	for desc, a := range byDesc {
		p := models.CustomerProduct{
			Description:   desc,
			TotalQuantity: a.quantity,
			TotalSpent:    models.Round2(a.spent),
		}
		if !a.last.IsZero() {
			d := a.last.Format("2006-01-02")
			p.LastPurchaseDate = &d
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].TotalSpent != products[j].TotalSpent {
			return products[i].TotalSpent > products[j].TotalSpent
		}
		return products[i].Description < products[j].Description
	})
	if len(products) > topN {
		products = products[:topN]
	}
	return models.CustomerView{Profile: profile, Products: products}, true
}

// SegmentSummary agrège les clients par segment, trié par libellé.
func SegmentSummary(snap *snapshot.Snapshot) []models.SegmentStats {
	type acc struct {
		n         int
		monetary  float64
		frequency float64
	}
	bySeg := make(map[string]*acc)
	for id, rec := range snap.Records {
		label := snap.Segments[id].Label
		a := bySeg[label]
		if a == nil {
			a = &acc{}
			bySeg[label] = a
		}
		a.n++
		a.monetary += rec.Monetary
		a.frequency += float64(rec.Frequency)
	}

	out := make([]models.SegmentStats, 0, len(bySeg))
	for label, a := range bySeg {
		out = append(out, models.SegmentStats{
			Segment:      label,
			Customers:    a.n,
			AvgMonetary:  models.Round2(a.monetary / float64(a.n)),
			AvgFrequency: models.Round2(a.frequency / float64(a.n)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Segment < out[j].Segment })
	return out
}

// SampleCustomers retourne les premiers clients (ordre naturel des identifiants) d'un segment.
// Un libellé inconnu du profil est une erreur de configuration.
func SampleCustomers(snap *snapshot.Snapshot, segment string, limit int) ([]models.CustomerSample, error) {
	if limit <= 0 {
		limit = DefaultSampleLimit
	}
	segment = strings.TrimSpace(segment)
	if _, err := snap.Classifier.Treatment(segment); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(snap.Records))
	for id := range snap.Records {
		if snap.Segments[id].Label == segment {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return rfm.LessID(ids[i], ids[j]) })
	if len(ids) > limit {
		ids = ids[:limit]
	}

	out := make([]models.CustomerSample, len(ids))
	for i, id := range ids {
		rec := snap.Records[id]
		out[i] = models.CustomerSample{
			CustomerID:  id,
			RecencyDays: rec.RecencyDays,
			Frequency:   rec.Frequency,
			Monetary:    models.Round2(rec.Monetary),
		}
	}
	return out, nil
}

// MaxWindowDays borne les fenêtres d'analyse (10 ans).
const MaxWindowDays = 3650

func window(v int) error {
	if v < 1 || v > MaxWindowDays {
		return fmt.Errorf("%w: days must be in [1, %d], got %d", models.ErrConfiguration, MaxWindowDays, v)
	}
	return nil
}

func positive(name string, v int) error {
	if v < 1 {
		return fmt.Errorf("%w: %s must be >= 1, got %d", models.ErrConfiguration, name, v)
	}
	return nil
}
