// Пакет analytics агрегирует уже собранный список оборудования для графиков
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"ITOpsDashboard/internal/model"
)

// Range период для помесячной статистики
type Range string

const (
	Range12m Range = "12m"
	Range24m Range = "24m"
	RangeAll Range = "all"
)

func (r Range) Valid() bool {
	return r == Range12m || r == Range24m || r == RangeAll
}

// CompanyAll отключает фильтр по компании
const CompanyAll = "all"

// Filter параметры графиков
type Filter struct {
	Range   Range
	Company string
}

// MonthlyStat закупки за месяц
type MonthlyStat struct {
	Month      string          `json:"month"`
	Qty        int             `json:"qty"`
	TotalSpend decimal.Decimal `json:"total_spend"`
}

// ModelCount количество единиц одной модели
type ModelCount struct {
	Model model.EquipmentModel `json:"model"`
	Label string               `json:"label"`
	Qty   int                  `json:"qty"`
}

// Summary итоговые показатели
type Summary struct {
	TotalEquipment      int             `json:"total_equipment"`
	TotalSpend          decimal.Decimal `json:"total_spend"`
	AverageMonthlySpend decimal.Decimal `json:"average_monthly_spend"`
	TotalBookValue      decimal.Decimal `json:"total_book_value"`
}

// Charts полный набор данных для дашборда
type Charts struct {
	Monthly []MonthlyStat `json:"monthly"`
	Models  []ModelCount  `json:"models"`
	Summary Summary       `json:"summary"`
}

// Build считает все графики для фильтра на момент now
func Build(assets []model.Asset, f Filter, now time.Time) Charts {
	monthly := MonthlyStats(assets, f, now)
	return Charts{
		Monthly: monthly,
		Models:  ModelCounts(assets, f.Company),
		Summary: Summarize(filterCompany(assets, f.Company), monthly),
	}
}

// MonthlyStats группирует закупки по месяцу покупки. Учитываются только активы
// с датой и стоимостью покупки. Результат отсортирован по месяцу.
func MonthlyStats(assets []model.Asset, f Filter, now time.Time) []MonthlyStat {
	var since time.Time
	switch f.Range {
	case Range12m:
		since = truncateDay(now.AddDate(0, -12, 0))
	case Range24m:
		since = truncateDay(now.AddDate(0, -24, 0))
	}

	byMonth := make(map[string]*MonthlyStat)
	for _, a := range filterCompany(assets, f.Company) {
		if a.PurchaseDate == nil || !a.PurchaseCost.Valid {
			continue
		}
		if !since.IsZero() && a.PurchaseDate.Before(since) {
			continue
		}
		key := a.PurchaseDate.Format("2006-01")
		s, ok := byMonth[key]
		if !ok {
			s = &MonthlyStat{Month: key, TotalSpend: decimal.Zero}
			byMonth[key] = s
		}
		s.Qty++
		s.TotalSpend = s.TotalSpend.Add(a.PurchaseCost.Decimal)
	}

	stats := make([]MonthlyStat, 0, len(byMonth))
	for _, s := range byMonth {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Month < stats[j].Month })
	return stats
}

// ModelCounts считает активы по моделям, по убыванию количества
func ModelCounts(assets []model.Asset, company string) []ModelCount {
	counts := make(map[model.EquipmentModel]int)
	for _, a := range filterCompany(assets, company) {
		counts[a.Model]++
	}
	out := make([]ModelCount, 0, len(counts))
	for m, qty := range counts {
		out = append(out, ModelCount{Model: m, Label: m.Label(), Qty: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Qty != out[j].Qty {
			return out[i].Qty > out[j].Qty
		}
		return out[i].Model < out[j].Model
	})
	return out
}

// Summarize итоги по уже отфильтрованному списку. Средние месячные затраты
// считаются по месяцам, в которых были закупки.
func Summarize(assets []model.Asset, monthly []MonthlyStat) Summary {
	s := Summary{
		TotalEquipment:      len(assets),
		TotalSpend:          decimal.Zero,
		AverageMonthlySpend: decimal.Zero,
		TotalBookValue:      decimal.Zero,
	}
	for _, a := range assets {
		s.TotalBookValue = s.TotalBookValue.Add(a.BookValueToday)
	}
	for _, m := range monthly {
		s.TotalSpend = s.TotalSpend.Add(m.TotalSpend)
	}
	if len(monthly) > 0 {
		s.AverageMonthlySpend = s.TotalSpend.Div(decimal.NewFromInt(int64(len(monthly)))).Round(2)
	}
	return s
}

func filterCompany(assets []model.Asset, company string) []model.Asset {
	if company == "" || company == CompanyAll {
		return assets
	}
	out := make([]model.Asset, 0, len(assets))
	for _, a := range assets {
		if string(a.Company) == company {
			out = append(out, a)
		}
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
