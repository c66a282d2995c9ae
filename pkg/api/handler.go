// Package api expose les vues et prévisions en HTTP (gin) et traduit les erreurs du cœur en statuts.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"retail-insights/pkg/calculator"
	"retail-insights/pkg/models"
	"retail-insights/pkg/snapshot"
)

// SnapshotSource fournit le snapshot courant et son rafraîchissement.
type SnapshotSource interface {
	Snapshot() (*snapshot.Snapshot, error)
	Refresh(ctx context.Context) (*snapshot.Snapshot, error)
}

// Settings : valeurs par défaut des paramètres de requête.
type Settings struct {
	ForecastSteps int
	TopN          int
	WindowDays    int
}

type Handler struct {
	source   SnapshotSource
	settings Settings
	logger   *logrus.Logger
}

func NewHandler(source SnapshotSource, settings Settings, logger *logrus.Logger) *Handler {
	if settings.ForecastSteps <= 0 {
		settings.ForecastSteps = calculator.DefaultForecastSteps
	}
	if settings.TopN <= 0 {
		settings.TopN = calculator.DefaultTopN
	}
	if settings.WindowDays <= 0 {
		settings.WindowDays = calculator.DefaultWindowDays
	}
	return &Handler{source: source, settings: settings, logger: logger}
}

type customerRequest struct {
	CustomerID string `json:"customer_id"`
}

// snap retourne le snapshot courant ou répond 503.
func (h *Handler) snap(c *gin.Context) (*snapshot.Snapshot, bool) {
	s, err := h.source.Snapshot()
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return s, true
}

// queryInt lit un entier optionnel ; une valeur non numérique est une erreur de requête.
func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", models.ErrConfiguration, key, raw)
	}
	return v, nil
}

func (h *Handler) Health(c *gin.Context) {
	s, ok := h.snap(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"snapshot":     s.ID.String(),
		"loaded_at":    s.LoadedAt,
		"transactions": len(s.Transactions),
		"customers":    len(s.Records),
		"data_range": gin.H{
			"min_date": s.MinTime.Format("2006-01-02"),
			"max_date": s.MaxTime.Format("2006-01-02"),
		},
	})
}

func (h *Handler) Forecast(c *gin.Context) {
	var req models.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", models.ErrConfiguration, err))
		return
	}
	if req.Steps == 0 {
		req.Steps = h.settings.ForecastSteps
	}
	s, ok := h.snap(c)
	if !ok {
		return
	}
	res, err := calculator.ForecastProduct(s, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) SalesForecast(c *gin.Context) {
	horizon := c.Param("horizon")
	s, ok := h.snap(c)
	if !ok {
		return
	}
	points, err := calculator.SalesForecast(s, horizon)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"horizon": strings.ToLower(horizon) + "_term", "points": points})
}

func (h *Handler) CustomerProducts(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.CustomerID) == "" {
		h.fail(c, fmt.Errorf("%w: customer_id is required", models.ErrConfiguration))
		return
	}
	s, ok := h.snap(c)
	if !ok {
		return
	}
	view, found := calculator.CustomerProducts(s, req.CustomerID, h.settings.TopN)
	if !found {
		h.fail(c, fmt.Errorf("customer %q: %w", req.CustomerID, models.ErrIdentityNotFound))
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) Segments(c *gin.Context) {
	s, ok := h.snap(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": s.Classifier.Profile().Name, "segments": calculator.SegmentSummary(s)})
}

func (h *Handler) SampleCustomers(c *gin.Context) {
	s, ok := h.snap(c)
	if !ok {
		return
	}
	limit, err := queryInt(c, "limit", calculator.DefaultSampleLimit)
	if err != nil {
		h.fail(c, err)
		return
	}
	segment := c.Query("segment")
	if segment == "" {
		segment = s.Classifier.Labels()[0]
	}
	customers, err := calculator.SampleCustomers(s, segment, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"segment": segment, "customers": customers})
}

func (h *Handler) TopProducts(c *gin.Context) {
	s, ok := h.snap(c)
	if !ok {
		return
	}
	days, err := queryInt(c, "days", h.settings.WindowDays)
	if err != nil {
		h.fail(c, err)
		return
	}
	limit, err := queryInt(c, "limit", calculator.DefaultInsightTop)
	if err != nil {
		h.fail(c, err)
		return
	}
	products, err := calculator.TopProducts(s, days, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days, "products": products})
}

func (h *Handler) Retention(c *gin.Context) {
	s, ok := h.snap(c)
	if !ok {
		return
	}
	days, err := queryInt(c, "days", h.settings.WindowDays)
	if err != nil {
		h.fail(c, err)
		return
	}
	res, err := calculator.Retention(s, days)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) FutureWinners(c *gin.Context) {
	s, ok := h.snap(c)
	if !ok {
		return
	}
	days, err := queryInt(c, "days", h.settings.WindowDays)
	if err != nil {
		h.fail(c, err)
		return
	}
	limit, err := queryInt(c, "limit", calculator.DefaultInsightTop)
	if err != nil {
		h.fail(c, err)
		return
	}
	products, err := calculator.FutureWinners(s, days, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days, "products": products})
}

func (h *Handler) Refresh(c *gin.Context) {
	s, err := h.source.Refresh(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": s.ID.String(), "transactions": len(s.Transactions), "customers": len(s.Records)})
}
