// Package snapshot maintient la table de base chargée une fois, ses scores RFM et segments,
// publiée de façon atomique et jamais modifiée en place.
package snapshot

import (
	"time"

	"github.com/google/uuid"

	"retail-insights/pkg/dataset"
	"retail-insights/pkg/models"
	"retail-insights/pkg/rfm"
	"retail-insights/pkg/segment"
)

// Snapshot est immuable après Build : les vues ne font que lire.
type Snapshot struct {
	ID           uuid.UUID
	LoadedAt     time.Time
	Transactions []models.Transaction
	HasInvoice   bool
	Dropped      int
	MinTime      time.Time
	MaxTime      time.Time
	Records      map[string]models.RFMRecord
	Segments     map[string]models.Segment
	Classifier   *segment.Classifier

	byCustomer map[string][]int
}

// Build type la table, calcule RFM + segments et indexe les transactions par client.
func Build(t *dataset.Table, cls *segment.Classifier) (*Snapshot, error) {
	ds, err := dataset.Build(t)
	if err != nil {
		return nil, err
	}
	return FromDataset(ds, cls), nil
}

// FromDataset construit le snapshot à partir d'un jeu déjà typé.
func FromDataset(ds dataset.Dataset, cls *segment.Classifier) *Snapshot {
	s := &Snapshot{
		ID:           uuid.New(),
		LoadedAt:     time.Now().UTC(),
		Transactions: ds.Transactions,
		HasInvoice:   ds.HasInvoice,
		Dropped:      ds.Dropped,
		Classifier:   cls,
		byCustomer:   make(map[string][]int),
	}
	for i, tx := range ds.Transactions {
		if s.MinTime.IsZero() || tx.Timestamp.Before(s.MinTime) {
			s.MinTime = tx.Timestamp
		}
		if tx.Timestamp.After(s.MaxTime) {
			s.MaxTime = tx.Timestamp
		}
		if tx.EntityID != "" {
			s.byCustomer[tx.EntityID] = append(s.byCustomer[tx.EntityID], i)
		}
	}

	s.Records = rfm.Score(ds.Transactions, rfm.Config{
		Buckets:        cls.Profile().Buckets,
		GroupByInvoice: ds.HasInvoice,
	})
	s.Segments = make(map[string]models.Segment, len(s.Records))
	for id, rec := range s.Records {
		s.Segments[id] = cls.Classify(rec)
	}
	return s
}

// CustomerTransactions retourne les lignes du client (identifiant brut, normalisé ici).
func (s *Snapshot) CustomerTransactions(rawID string) []models.Transaction {
	idx := s.byCustomer[rfm.NormalizeID(rawID)]
	out := make([]models.Transaction, len(idx))
	for i, j := range idx {
		out[i] = s.Transactions[j]
	}
	return out
}

// Profile retourne le profil RFM + segment du client ; false si inconnu.
func (s *Snapshot) Profile(rawID string) (models.CustomerProfile, bool) {
	id := rfm.NormalizeID(rawID)
	rec, ok := s.Records[id]
	if !ok {
		return models.CustomerProfile{}, false
	}
	return models.CustomerProfile{RFMRecord: rec, Segment: s.Segments[id]}, true
}
