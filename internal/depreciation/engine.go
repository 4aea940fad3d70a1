// Пакет depreciation содержит расчёт линейной амортизации с остаточным
// порогом и сборку итогового представления оборудования
package depreciation

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// HorizonYears горизонт амортизации в годах
	HorizonYears = 5
	// daysPerYear фиксированная длина года, високосные годы не учитываются
	daysPerYear = 365
)

// YearsExact возвращает прошедшее с покупки время в годах (дробное),
// ограниченное диапазоном [0, 5]. Год считается равным 365 дням.
// Без даты покупки возвращается 0; дата в будущем тоже даёт 0.
func YearsExact(purchaseDate *time.Time, asOf time.Time) float64 {
	if purchaseDate == nil {
		return 0
	}
	days := asOf.Sub(*purchaseDate).Hours() / 24
	years := days / daysPerYear
	return math.Max(0, math.Min(HorizonYears, years))
}

// YearsElapsed целое число полных лет, только для отображения
func YearsElapsed(yearsExact float64) int {
	return int(math.Floor(yearsExact))
}

// BookValueToday вычисляет балансовую стоимость на текущий момент:
//
//	max(cost - cost*rate*years, cost*residualPct)
//
// Если нет ставки, возвращается стоимость покупки, без стоимости 0.
// Функция чистая и не валидирует входные данные; yearsExact ожидается уже
// ограниченным диапазоном [0, 5].
func BookValueToday(purchaseCost, annualRate decimal.NullDecimal, residualPct decimal.Decimal, yearsExact float64) decimal.Decimal {
	if !purchaseCost.Valid {
		return decimal.Zero
	}
	cost := purchaseCost.Decimal
	if !annualRate.Valid {
		return cost
	}
	depreciated := cost.Mul(annualRate.Decimal).Mul(decimal.NewFromFloat(yearsExact))
	straight := cost.Sub(depreciated)
	floor := cost.Mul(residualPct)
	return decimal.Max(straight, floor)
}
