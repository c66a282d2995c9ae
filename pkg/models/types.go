package models

import (
	"time"
)

/*
LOAD → types simples pour les transactions nettoyées (table de base).
*/

// Transaction représente une ligne de vente nettoyée telle que fournie par le pipeline de nettoyage.
type Transaction struct {
	EntityID    string // identifiant client normalisé ("" si absent)
	InvoiceNo   string
	ProductID   string // StockCode
	Description string
	Timestamp   time.Time
	Quantity    float64
	HasQuantity bool // faux si la colonne quantity est absente ou vide
	UnitPrice   float64
	LineTotal   float64 // mesure monétaire "sales"
}

// Frequency est la granularité d'une série temporelle.
type Frequency string

const (
	Daily  Frequency = "daily"
	Weekly Frequency = "weekly"
)

// Measure choisit la valeur sommée par période.
type Measure string

const (
	MeasureSales    Measure = "sales"
	MeasureQuantity Measure = "quantity"
)

/*
SERIES / FORECAST
*/

// Point est une période de la série : début de période et valeur agrégée.
type Point struct {
	Start time.Time
	Value float64
}

// TimeSeries est une série à fréquence fixe, sans trou (périodes manquantes = 0).
type TimeSeries struct {
	Frequency Frequency
	Points    []Point
}

// Values retourne les valeurs dans l'ordre chronologique.
func (s TimeSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// Last retourne le début de la dernière période observée.
func (s TimeSeries) Last() time.Time {
	if len(s.Points) == 0 {
		return time.Time{}
	}
	return s.Points[len(s.Points)-1].Start
}

// PeriodShare est la part (en %) d'une période dans le total prévu.
type PeriodShare struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ForecastResult contient une prévision à horizon fixe.
type ForecastResult struct {
	Labels       []string      `json:"weeks"`
	PeriodStarts []time.Time   `json:"period_starts"`
	Values       []float64     `json:"forecast"`
	Shares       []PeriodShare `json:"share_by_period"`
	ModelUsed    string        `json:"model_used"`
	ModelLabel   string        `json:"model_label"`
}

/*
RFM / SEGMENTS
*/

// RFMRecord contient les métriques et scores RFM d'un client.
type RFMRecord struct {
	EntityID    string  `json:"customerid"`
	RecencyDays int     `json:"recency"`
	Frequency   int     `json:"frequency"`
	Monetary    float64 `json:"monetary"`
	RScore      int     `json:"r_score"`
	FScore      int     `json:"f_score"`
	MScore      int     `json:"m_score"`
	Composite   int     `json:"rfm_sum"`
}

// Segment est le libellé de segment d'un client et le traitement (offre) associé.
type Segment struct {
	Label     string `json:"customertype"`
	Treatment string `json:"discount"`
}

/*
VIEWS → structures de résultat exportées
*/

// CustomerProfile = RFMRecord + segment dérivé.
type CustomerProfile struct {
	RFMRecord
	Segment
}

// CustomerProduct est une ligne du top produits d'un client.
type CustomerProduct struct {
	Description      string  `json:"description"`
	LastPurchaseDate *string `json:"last_purchase_date"`
	TotalQuantity    float64 `json:"total_quantity"`
	TotalSpent       float64 `json:"total_spent"`
}

// CustomerView est la réponse "customer-products".
type CustomerView struct {
	Profile  CustomerProfile   `json:"profile"`
	Products []CustomerProduct `json:"products"`
}

// SegmentStats résume un segment.
type SegmentStats struct {
	Segment      string  `json:"segment"`
	Customers    int     `json:"customers"`
	AvgMonetary  float64 `json:"avg_monetary"`
	AvgFrequency float64 `json:"avg_frequency"`
}

// CustomerSample est un client échantillon d'un segment.
type CustomerSample struct {
	CustomerID  string  `json:"customer_id"`
	RecencyDays int     `json:"recency_days"`
	Frequency   int     `json:"frequency"`
	Monetary    float64 `json:"monetary"`
}

// ProductVolume est une ligne du top produits (quantité) sur une fenêtre.
type ProductVolume struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}

// ProductGrowth compare deux fenêtres adjacentes pour un produit.
type ProductGrowth struct {
	Description string  `json:"description"`
	RecentQty   int     `json:"recent_qty"`
	PastQty     int     `json:"past_qty"`
	Growth      float64 `json:"growth"`
	LiftPercent float64 `json:"lift_percent"`
}

// RetentionResult compare les clients de deux fenêtres adjacentes.
type RetentionResult struct {
	Window1Customers  int     `json:"window_1_customers"`
	Window2Customers  int     `json:"window_2_customers"`
	RetainedCustomers int     `json:"retained_customers"`
	RetentionRate     float64 `json:"retention_rate"`
}

// ProductForecast est la réponse d'une prévision produit.
type ProductForecast struct {
	Product            string `json:"product"`
	ProductDescription string `json:"product_description"`
	ForecastResult
}

// DatedValue est un point de prévision daté (prévision globale des ventes).
type DatedValue struct {
	Date  string  `json:"date"`
	Sales float64 `json:"sales"`
}

// ForecastRequest est la requête de prévision produit.
type ForecastRequest struct {
	Product string `json:"product"`
	Model   string `json:"model"`
	Steps   int    `json:"steps,omitempty"`
}

// ReportLine est une ligne du rapport batch de prévisions.
type ReportLine struct {
	Product     string    `json:"product"`
	Description string    `json:"product_description,omitempty"`
	Model       string    `json:"model_used,omitempty"`
	Forecast    []float64 `json:"forecast,omitempty"`
	Total       float64   `json:"total"`
	Error       string    `json:"error,omitempty"`
}
