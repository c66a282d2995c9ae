// Package dataset convertit la table nettoyée (en-têtes + lignes texte) en transactions typées.
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"retail-insights/pkg/models"
	"retail-insights/pkg/rfm"
)

// Table est la sortie brute du pipeline de nettoyage, quelle que soit la source (CSV, Excel, SQL).
type Table struct {
	Columns []string
	Rows    [][]string
}

// Dataset est la table de base typée.
type Dataset struct {
	Transactions []models.Transaction
	HasInvoice   bool // colonne facture présente → fréquence = factures distinctes
	Dropped      int  // lignes sans date ou montant exploitable
}

// Noms de colonnes acceptés (comparaison insensible à la casse).
var (
	stockCodeCols   = []string{"stockcode", "stock_code"}
	descriptionCols = []string{"description"}
	dateCols        = []string{"invoicedate", "invoice_date"}
	salesCols       = []string{"sales", "line_total", "totalprice"}
	quantityCols    = []string{"quantity"}
	priceCols       = []string{"unitprice", "unit_price", "price"}
	customerCols    = []string{"customerid", "customer_id", "customer id"}
	invoiceCols     = []string{"invoiceno", "invoice_no", "invoice"}
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"01-02-06 15:04",
	"1/2/06 15:04",
}

type columnIndex struct {
	stock, desc, date, sales, qty, price, customer, invoice int
}

// Build valide les colonnes requises et convertit chaque ligne.
// Une colonne requise manquante est une erreur de configuration (fatale au démarrage).
func Build(t *Table) (Dataset, error) {
	if t == nil {
		return Dataset{}, fmt.Errorf("%w: nil table", models.ErrConfiguration)
	}
	idx, err := resolveColumns(t.Columns)
	if err != nil {
		return Dataset{}, err
	}

	ds := Dataset{
		Transactions: make([]models.Transaction, 0, len(t.Rows)),
		HasInvoice:   idx.invoice >= 0,
	}
	for _, row := range t.Rows {
		tx, ok := convertRow(row, idx)
		if !ok {
			ds.Dropped++
			continue
		}
		ds.Transactions = append(ds.Transactions, tx)
	}
	return ds, nil
}

func resolveColumns(cols []string) (columnIndex, error) {
	pos := make(map[string]int, len(cols))
	for i, c := range cols {
		key := strings.ToLower(strings.TrimSpace(c))
		if _, dup := pos[key]; !dup {
			pos[key] = i
		}
	}
	find := func(names []string) int {
		for _, n := range names {
			if i, ok := pos[n]; ok {
				return i
			}
		}
		return -1
	}

	idx := columnIndex{
		stock:    find(stockCodeCols),
		desc:     find(descriptionCols),
		date:     find(dateCols),
		sales:    find(salesCols),
		qty:      find(quantityCols),
		price:    find(priceCols),
		customer: find(customerCols),
		invoice:  find(invoiceCols),
	}

	var missing []string
	if idx.stock < 0 {
		missing = append(missing, "stockcode")
	}
	if idx.desc < 0 {
		missing = append(missing, "description")
	}
	if idx.date < 0 {
		missing = append(missing, "invoicedate")
	}
	if idx.sales < 0 && idx.qty < 0 {
		missing = append(missing, "sales")
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("%w: missing required columns %v", models.ErrConfiguration, missing)
	}
	return idx, nil
}

func convertRow(row []string, idx columnIndex) (models.Transaction, bool) {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	ts, ok := parseTime(cell(idx.date))
	if !ok {
		return models.Transaction{}, false
	}

	tx := models.Transaction{
		EntityID:    rfm.NormalizeID(cell(idx.customer)),
		InvoiceNo:   cell(idx.invoice),
		ProductID:   cell(idx.stock),
		Description: cell(idx.desc),
		Timestamp:   ts,
	}
	if q, ok := parseNumber(cell(idx.qty)); ok {
		tx.Quantity = q
		tx.HasQuantity = true
	}
	if p, ok := parseNumber(cell(idx.price)); ok {
		tx.UnitPrice = p
	}

	if idx.sales >= 0 {
		v, ok := parseNumber(cell(idx.sales))
		if !ok {
			return models.Transaction{}, false
		}
		tx.LineTotal = v
	} else {
		if !tx.HasQuantity {
			return models.Transaction{}, false
		}
		// sans colonne prix, la quantité sert de mesure
		tx.LineTotal = tx.Quantity
		if idx.price >= 0 {
			tx.LineTotal *= tx.UnitPrice
		}
	}
	if tx.LineTotal < 0 {
		return models.Transaction{}, false
	}
	return tx, true
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
