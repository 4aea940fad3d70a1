package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ITOpsDashboard/internal/model"
)

func sampleAssets() []model.Asset {
	purchase := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)
	assignee := "Johan, IT"
	invoice := "facturas/C02XK.pdf"
	return []model.Asset{
		{
			SerialNumber:   "C02XK",
			Model:          model.ModelMacPro,
			Company:        model.CompanyHBL,
			AssignedTo:     &assignee,
			Insured:        true,
			PurchaseDate:   &purchase,
			PurchaseCost:   decimal.NewNullDecimal(decimal.RequireFromString("25000")),
			InvoiceRef:     &invoice,
			Rate:           decimal.NewNullDecimal(decimal.RequireFromString("0.2")),
			ResidualPct:    decimal.RequireFromString("0.1"),
			BookValueToday: decimal.RequireFromString("15000"),
			DepreciationY1: decimal.RequireFromString("5000"),
			DepreciationY2: decimal.RequireFromString("5000"),
			DepreciationY3: decimal.RequireFromString("5000"),
			DepreciationY4: decimal.RequireFromString("5000"),
			DepreciationY5: decimal.RequireFromString("2500.005"),
		},
		{
			SerialNumber: "PF3LEN",
			Model:        model.ModelLenovo,
			Company:      model.CompanyAJA,
		},
	}
}

func TestRecord(t *testing.T) {
	assets := sampleAssets()
	rec := Record(assets[0])
	require.Len(t, rec, len(Header))
	require.Equal(t, []string{
		"C02XK", "Mac Pro", "HBL", "Johan, IT", "true",
		"2023-06-15", "25000.00", "20%",
		"5000.00", "5000.00", "5000.00", "5000.00", "2500.01",
		"15000.00", "facturas/C02XK.pdf",
	}, rec)

	// пустые значения вместо отсутствующих
	rec = Record(assets[1])
	require.Equal(t, []string{
		"PF3LEN", "Lenovo", "AJA", "", "false",
		"", "", "0%",
		"0.00", "0.00", "0.00", "0.00", "0.00",
		"0.00", "",
	}, rec)
}

func TestFormatRate(t *testing.T) {
	require.Equal(t, "25%", FormatRate(decimal.NewNullDecimal(decimal.RequireFromString("0.25"))))
	require.Equal(t, "33%", FormatRate(decimal.NewNullDecimal(decimal.RequireFromString("0.333"))))
	require.Equal(t, "0%", FormatRate(decimal.NewNullDecimal(decimal.Zero)))
	require.Equal(t, "0%", FormatRate(decimal.NullDecimal{}))
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	assets := sampleAssets()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, assets))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	// N строк данных и одна строка заголовка
	require.Len(t, records, len(assets)+1)
	require.Equal(t, Header, records[0])

	for i, a := range assets {
		row := records[i+1]
		require.Equal(t, a.SerialNumber, row[0])
		// запятая в имени не ломает колонки
		require.Len(t, row, len(Header))
		for j, d := range a.Depreciation() {
			require.Equal(t, d.StringFixed(2), row[8+j])
		}
		require.Equal(t, a.BookValueToday.StringFixed(2), row[13])
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestWriteXLSX(t *testing.T) {
	assets := sampleAssets()
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, assets))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, len(assets)+1)
	require.Equal(t, Header, rows[0])
	require.Equal(t, "C02XK", rows[1][0])
	require.Equal(t, "Mac Pro", rows[1][1])
	require.Equal(t, "20%", rows[1][7])
	require.Equal(t, "15000", rows[1][13])
	require.Equal(t, "PF3LEN", rows[2][0])
}
