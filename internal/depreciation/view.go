package depreciation

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"ITOpsDashboard/internal/model"
)

// assetGroup накапливает строки проекции одного актива.
// Статические поля берутся из первой встреченной строки,
// суммы по годам перезаписываются: при дубликате (serial, year) побеждает последняя.
type assetGroup struct {
	first model.DepreciationRow
	years map[int]decimal.Decimal
}

// BuildEquipmentView группирует строки проекции амортизации по серийному номеру,
// присоединяет метаданные и для каждого актива вычисляет значения на момент asOf.
//
// Результат содержит ровно одну запись на каждый серийный номер из rows и
// отсортирован по серийному номеру. Активы, которые есть только в метаданных,
// в результат не попадают.
func BuildEquipmentView(rows []model.DepreciationRow, metadata []model.AssetMetadata, asOf time.Time) []model.Asset {
	groups := make(map[string]*assetGroup, len(rows)/HorizonYears+1)
	order := make([]string, 0, len(rows)/HorizonYears+1)
	for _, row := range rows {
		g, ok := groups[row.SerialNumber]
		if !ok {
			g = &assetGroup{first: row, years: make(map[int]decimal.Decimal, HorizonYears)}
			groups[row.SerialNumber] = g
			order = append(order, row.SerialNumber)
		}
		g.years[row.YearNumber] = row.DepreciationAmount
	}

	meta := make(map[string]model.AssetMetadata, len(metadata))
	for _, m := range metadata {
		meta[m.SerialNumber] = m
	}

	assets := make([]model.Asset, 0, len(order))
	for _, serial := range order {
		assets = append(assets, assemble(groups[serial], meta, asOf))
	}
	sort.SliceStable(assets, func(i, j int) bool {
		return assets[i].SerialNumber < assets[j].SerialNumber
	})
	return assets
}

// assemble собирает итоговую запись актива из группы и метаданных
func assemble(g *assetGroup, meta map[string]model.AssetMetadata, asOf time.Time) model.Asset {
	row := g.first
	residual := decimal.Zero
	if row.ResidualPct.Valid {
		residual = row.ResidualPct.Decimal
	}
	years := YearsExact(row.PurchaseDate, asOf)

	asset := model.Asset{
		SerialNumber:   row.SerialNumber,
		Model:          row.Model,
		Company:        model.DefaultCompany,
		PurchaseDate:   row.PurchaseDate,
		PurchaseCost:   row.PurchaseCost,
		Rate:           row.Rate,
		ResidualPct:    residual,
		YearsExact:     years,
		YearsElapsed:   YearsElapsed(years),
		BookValueToday: BookValueToday(row.PurchaseCost, row.Rate, residual, years),
		DepreciationY1: g.year(1),
		DepreciationY2: g.year(2),
		DepreciationY3: g.year(3),
		DepreciationY4: g.year(4),
		DepreciationY5: g.year(5),
	}
	if m, ok := meta[row.SerialNumber]; ok {
		if m.Company != "" {
			asset.Company = m.Company
		}
		asset.AssignedTo = m.AssignedTo
		asset.Insured = m.Insured
		asset.InvoiceRef = m.InvoiceRef
		createdAt, updatedAt := m.CreatedAt, m.UpdatedAt
		asset.CreatedAt = &createdAt
		asset.UpdatedAt = &updatedAt
	}
	return asset
}

// year возвращает сумму амортизации за год n, 0 если строки нет
func (g *assetGroup) year(n int) decimal.Decimal {
	if v, ok := g.years[n]; ok {
		return v
	}
	return decimal.Zero
}
