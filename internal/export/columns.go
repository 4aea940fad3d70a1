// Пакет export формирует выгрузки списка оборудования (CSV, XLSX)
// из уже вычисленных записей; пересчёта значений здесь нет
package export

import (
	"strconv"

	"github.com/shopspring/decimal"

	"ITOpsDashboard/internal/model"
)

// Header фиксированный порядок колонок выгрузки
var Header = []string{
	"serial_number", "model", "company", "assigned_to", "insured",
	"purchase_date", "purchase_cost", "dep_anual_pct",
	"depreciation_y1", "depreciation_y2", "depreciation_y3", "depreciation_y4", "depreciation_y5",
	"book_value_today", "invoice_ref",
}

const dateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// Record превращает актив в строку выгрузки в порядке Header
func Record(a model.Asset) []string {
	rec := make([]string, 0, len(Header))
	rec = append(rec,
		a.SerialNumber,
		a.Model.Label(),
		string(a.Company),
		optional(a.AssignedTo),
		strconv.FormatBool(a.Insured),
		formatDate(a),
		formatNullMoney(a.PurchaseCost),
		FormatRate(a.Rate),
	)
	for _, d := range a.Depreciation() {
		rec = append(rec, FormatMoney(d))
	}
	rec = append(rec, FormatMoney(a.BookValueToday), optional(a.InvoiceRef))
	return rec
}

// FormatMoney денежное значение с двумя знаками после запятой
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatRate ставка как целый процент: 0.2 -> "20%", отсутствующая ставка -> "0%"
func FormatRate(r decimal.NullDecimal) string {
	pct := decimal.Zero
	if r.Valid {
		pct = r.Decimal.Mul(hundred)
	}
	return pct.StringFixed(0) + "%"
}

func formatNullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return FormatMoney(d.Decimal)
}

func formatDate(a model.Asset) string {
	if a.PurchaseDate == nil {
		return ""
	}
	return a.PurchaseDate.Format(dateLayout)
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
