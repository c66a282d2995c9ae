package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-insights/pkg/models"
)

func TestBuildResolvesAliases(t *testing.T) {
	ds, err := Build(&Table{
		Columns: []string{"Invoice_No", "Stock_Code", "DESCRIPTION", "Invoice_Date", "Line_Total", "Customer_ID"},
		Rows: [][]string{
			{"536365", "85123A", " WHITE HANGING HEART ", "2010-12-01 08:26:00", "15.30", "17850.0"},
		},
	})
	require.NoError(t, err)
	require.Len(t, ds.Transactions, 1)
	assert.True(t, ds.HasInvoice)

	tx := ds.Transactions[0]
	assert.Equal(t, "17850", tx.EntityID)
	assert.Equal(t, "85123A", tx.ProductID)
	assert.Equal(t, "WHITE HANGING HEART", tx.Description)
	assert.Equal(t, 15.30, tx.LineTotal)
	assert.False(t, tx.HasQuantity)
	assert.Equal(t, time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC), tx.Timestamp)
}

func TestBuildDerivesSales(t *testing.T) {
	ds, err := Build(&Table{
		Columns: []string{"StockCode", "Description", "Quantity", "InvoiceDate", "UnitPrice"},
		Rows: [][]string{
			{"22633", "HAND WARMER", "6", "12/1/2010 8:28", "1.85"},
			{"22634", "BROKEN", "", "12/1/2010 8:28", "1.85"},
			{"22635", "NO DATE", "1", "", "1.85"},
			{"22636", "RETURN", "-2", "2010-12-02", "3"},
		},
	})
	require.NoError(t, err)
	assert.False(t, ds.HasInvoice)
	assert.Equal(t, 3, ds.Dropped)
	require.Len(t, ds.Transactions, 1)
	assert.InDelta(t, 11.1, ds.Transactions[0].LineTotal, 1e-9)
	assert.Empty(t, ds.Transactions[0].EntityID)
}

func TestBuildQuantityWithoutPrice(t *testing.T) {
	ds, err := Build(&Table{
		Columns: []string{"StockCode", "Description", "Quantity", "InvoiceDate"},
		Rows: [][]string{
			{"22633", "HAND WARMER", "6", "2010-12-01 08:28:00"},
			{"22634", "NO QTY", "", "2010-12-01 08:28:00"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Dropped)
	require.Len(t, ds.Transactions, 1)
	assert.Equal(t, 6.0, ds.Transactions[0].LineTotal)
}

func TestBuildMissingColumns(t *testing.T) {
	_, err := Build(&Table{Columns: []string{"StockCode", "UnitPrice"}})
	require.ErrorIs(t, err, models.ErrConfiguration)
	assert.Contains(t, err.Error(), "description")
	assert.Contains(t, err.Error(), "invoicedate")
	assert.Contains(t, err.Error(), "sales")

	_, err = Build(nil)
	assert.ErrorIs(t, err, models.ErrConfiguration)
}

func TestReadCSV(t *testing.T) {
	tbl, err := readCSV(strings.NewReader("StockCode,Description\n85123A,\"HEART, WHITE\"\n22633\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"StockCode", "Description"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "HEART, WHITE", tbl.Rows[0][1])
	assert.Len(t, tbl.Rows[1], 1)

	_, err = readCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadCSVLatin1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retail.csv")
	// "CRÈME" en ISO-8859-1
	data := []byte("StockCode,Description\n1,CR\xc8ME\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	tbl, err := ReadCSV(path, true)
	require.NoError(t, err)
	assert.Equal(t, "CRÈME", tbl.Rows[0][1])

	_, err = ReadCSV(filepath.Join(t.TempDir(), "missing.csv"), false)
	assert.Error(t, err)
}

func TestReadExcel(t *testing.T) {
	f := excelize.NewFile()
	cells := map[string]string{
		"A1": "StockCode", "B1": "Description", "C1": "InvoiceDate", "D1": "Sales",
		"A2": "85123A", "B2": "HEART", "C2": "2010-12-01 08:26:00", "D2": "15.3",
	}
	for axis, v := range cells {
		require.NoError(t, f.SetCellValue("Sheet1", axis, v))
	}
	path := filepath.Join(t.TempDir(), "retail.xlsx")
	require.NoError(t, f.SaveAs(path))

	tbl, err := ReadExcel(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"StockCode", "Description", "InvoiceDate", "Sales"}, tbl.Columns)
	require.Len(t, tbl.Rows, 1)

	ds, err := Build(tbl)
	require.NoError(t, err)
	assert.Len(t, ds.Transactions, 1)
}
