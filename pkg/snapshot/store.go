package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"retail-insights/pkg/dataset"
	"retail-insights/pkg/segment"
)

// ErrThrottled : rafraîchissement demandé trop tôt après le précédent.
var ErrThrottled = errors.New("refresh throttled")

// ErrNotLoaded : aucun snapshot publié.
var ErrNotLoaded = errors.New("snapshot not loaded")

// Loader relit la table nettoyée depuis sa source (fichier ou base).
type Loader func(ctx context.Context) (*dataset.Table, error)

// Store publie le snapshot courant. Les lectures ne prennent aucun verrou.
type Store struct {
	current    atomic.Pointer[Snapshot]
	load       Loader
	classifier *segment.Classifier
	limiter    *rate.Limiter
	logger     *logrus.Logger
}

// NewStore : refreshPerMinute ≤ 0 désactive la limitation.
func NewStore(load Loader, cls *segment.Classifier, refreshPerMinute int, logger *logrus.Logger) *Store {
	limit := rate.Inf
	if refreshPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(refreshPerMinute))
	}
	return &Store{
		load:       load,
		classifier: cls,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// Current retourne le snapshot publié (nil avant le premier Load).
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Snapshot retourne le snapshot publié ou ErrNotLoaded.
func (s *Store) Snapshot() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// Load construit et publie un snapshot sans limitation (démarrage).
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	t, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load table: %w", err)
	}
	snap, err := Build(t, s.classifier)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}
	s.current.Store(snap)
	s.logger.WithFields(logrus.Fields{
		"snapshot":     snap.ID.String(),
		"transactions": len(snap.Transactions),
		"dropped":      snap.Dropped,
		"customers":    len(snap.Records),
		"elapsed":      time.Since(start).Round(time.Millisecond),
	}).Info("snapshot published")
	return snap, nil
}

// Refresh reconstruit un snapshot complet puis remplace le courant.
// En cas d'échec l'ancien reste publié.
func (s *Store) Refresh(ctx context.Context) (*Snapshot, error) {
	if !s.limiter.Allow() {
		return nil, ErrThrottled
	}
	snap, err := s.Load(ctx)
	if err != nil {
		s.logger.WithError(err).Error("snapshot refresh failed, keeping previous")
		return nil, err
	}
	return snap, nil
}
