package model

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepreciationRow строка проекции амортизации (представление equipment_depreciation):
// одна запись на пару (актив, год), год от 1 до 5
type DepreciationRow struct {
	SerialNumber       string              `db:"serial_number" json:"serial_number"`
	Model              EquipmentModel      `db:"model" json:"model"`
	PurchaseDate       *time.Time          `db:"purchase_date" json:"purchase_date"`
	PurchaseCost       decimal.NullDecimal `db:"purchase_cost" json:"purchase_cost"`
	Rate               decimal.NullDecimal `db:"rate" json:"rate"`
	ResidualPct        decimal.NullDecimal `db:"residual_pct" json:"residual_pct"`
	YearNumber         int                 `db:"year_number" json:"year_number"`
	DepreciationAmount decimal.Decimal     `db:"depreciation_year" json:"depreciation_year"`
}

// AssetMetadata изменяемые метаданные актива (таблица equipment)
type AssetMetadata struct {
	SerialNumber string    `db:"serial_number" json:"serial_number"`
	Company      Company   `db:"company" json:"company"`
	AssignedTo   *string   `db:"assigned_to" json:"assigned_to"`
	Insured      bool      `db:"insured" json:"insured"`
	InvoiceRef   *string   `db:"invoice_ref" json:"invoice_ref"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Asset собранная запись об оборудовании: статические поля, метаданные
// и вычисленные на момент чтения значения амортизации
type Asset struct {
	SerialNumber string              `json:"serial_number"`
	Model        EquipmentModel      `json:"model"`
	Company      Company             `json:"company"`
	AssignedTo   *string             `json:"assigned_to"`
	Insured      bool                `json:"insured"`
	PurchaseDate *time.Time          `json:"purchase_date"`
	PurchaseCost decimal.NullDecimal `json:"purchase_cost"`
	InvoiceRef   *string             `json:"invoice_ref"`
	CreatedAt    *time.Time          `json:"created_at,omitempty"`
	UpdatedAt    *time.Time          `json:"updated_at,omitempty"`

	Rate           decimal.NullDecimal `json:"rate"`
	ResidualPct    decimal.Decimal     `json:"residual_pct"`
	BookValueToday decimal.Decimal     `json:"book_value_today"`
	YearsExact     float64             `json:"years_exact"`
	YearsElapsed   int                 `json:"years_elapsed"`
	DepreciationY1 decimal.Decimal     `json:"depreciation_y1"`
	DepreciationY2 decimal.Decimal     `json:"depreciation_y2"`
	DepreciationY3 decimal.Decimal     `json:"depreciation_y3"`
	DepreciationY4 decimal.Decimal     `json:"depreciation_y4"`
	DepreciationY5 decimal.Decimal     `json:"depreciation_y5"`
}

// Depreciation возвращает суммы амортизации по годам 1..5 в виде массива
func (a Asset) Depreciation() [5]decimal.Decimal {
	return [5]decimal.Decimal{a.DepreciationY1, a.DepreciationY2, a.DepreciationY3, a.DepreciationY4, a.DepreciationY5}
}

// NewAsset запись для создания актива; обязательные поля уже проверены вызывающим
type NewAsset struct {
	SerialNumber string          `json:"serial_number"`
	Model        EquipmentModel  `json:"model"`
	Company      Company         `json:"company"`
	AssignedTo   *string         `json:"assigned_to"`
	Insured      bool            `json:"insured"`
	PurchaseDate time.Time       `json:"purchase_date"`
	PurchaseCost decimal.Decimal `json:"purchase_cost"`
	InvoiceRef   *string         `json:"invoice_ref"`
}

// PendingTask задача на одной из досок
type PendingTask struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Board       string     `db:"board" json:"board"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description"`
	StartDate   *time.Time `db:"start_date" json:"start_date"`
	DueDate     *time.Time `db:"due_date" json:"due_date"`
	Importance  Importance `db:"importance" json:"importance"`
	Completed   bool       `db:"completed" json:"completed"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// ChecklistEntry строка чек-листа онбординга сотрудника
type ChecklistEntry struct {
	PersonName     string    `db:"person_name" json:"person_name"`
	OnboardingDate time.Time `db:"onboarding_date" json:"onboarding_date"`

	Antivirus   bool `db:"antivirus" json:"antivirus"`
	Backup      bool `db:"backup" json:"backup"`
	OnePassword bool `db:"onepassword" json:"onepassword"`
	Slack       bool `db:"slack" json:"slack"`
	Monday      bool `db:"monday" json:"monday"`

	Adobe     bool `db:"adobe" json:"adobe"`
	Office    bool `db:"office" json:"office"`
	Acrobat   bool `db:"acrobat" json:"acrobat"`
	Billboard bool `db:"billboard" json:"billboard"`
	Rost      bool `db:"rost" json:"rost"`
	CanvaPro  bool `db:"canva_pro" json:"canva_pro"`
	JumpCloud bool `db:"jumpcloud" json:"jumpcloud"`

	// MandatoryOK вычисляется в БД (generated column), клиент его не пересчитывает
	MandatoryOK bool      `db:"mandatory_ok" json:"mandatory_ok"`
	Comments    *string   `db:"comments" json:"comments"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Check возвращает значение проверки по имени
func (e ChecklistEntry) Check(c ChecklistCheck) bool {
	switch c {
	case CheckAntivirus:
		return e.Antivirus
	case CheckBackup:
		return e.Backup
	case CheckOnePassword:
		return e.OnePassword
	case CheckSlack:
		return e.Slack
	case CheckMonday:
		return e.Monday
	case CheckAdobe:
		return e.Adobe
	case CheckOffice:
		return e.Office
	case CheckAcrobat:
		return e.Acrobat
	case CheckBillboard:
		return e.Billboard
	case CheckRost:
		return e.Rost
	case CheckCanvaPro:
		return e.CanvaPro
	case CheckJumpCloud:
		return e.JumpCloud
	}
	return false
}

// ChecklistRowStatus классификация строки для подсветки
type ChecklistRowStatus string

const (
	RowSpecialAccess ChecklistRowStatus = "special_access"
	RowComplete      ChecklistRowStatus = "complete"
	RowIncomplete    ChecklistRowStatus = "incomplete"
)

// RowStatus: special_access > complete > incomplete
func (e ChecklistEntry) RowStatus() ChecklistRowStatus {
	if e.JumpCloud {
		return RowSpecialAccess
	}
	if e.MandatoryOK {
		return RowComplete
	}
	return RowIncomplete
}

// Ticket заявка в поддержку; ticket_number назначается БД
type Ticket struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	TicketNumber int64          `db:"ticket_number" json:"ticket_number"`
	Title        string         `db:"title" json:"title"`
	Area         string         `db:"area" json:"area"`
	Description  string         `db:"description" json:"description"`
	Status       TicketStatus   `db:"status" json:"status"`
	Priority     TicketPriority `db:"priority" json:"priority"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// InsuredComputer привязка компьютера к страховому полису
type InsuredComputer struct {
	SerialNumber   string     `db:"serial_number" json:"serial_number"`
	PolicyNumber   string     `db:"policy_number" json:"policy_number"`
	PersonName     string     `db:"person_name" json:"person_name"`
	WarrantyExpiry *time.Time `db:"warranty_expiry" json:"warranty_expiry"`
	PolicyExpiry   time.Time  `db:"policy_expiry" json:"policy_expiry"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// ExpiryStatus статус срока действия, только для отображения
type ExpiryStatus string

const (
	ExpiryExpired  ExpiryStatus = "expired"
	ExpiryExpiring ExpiryStatus = "expiring"
	ExpiryValid    ExpiryStatus = "valid"
)

// ExpiringWindowDays окно "скоро истекает" в днях
const ExpiringWindowDays = 30

// ClassifyExpiry определяет статус даты окончания относительно now.
// Дата в прошлом: expired. До 30 дней включительно (с округлением вверх): expiring.
func ClassifyExpiry(expiry, now time.Time) ExpiryStatus {
	if expiry.Before(now) {
		return ExpiryExpired
	}
	days := math.Ceil(expiry.Sub(now).Hours() / 24)
	if days <= ExpiringWindowDays {
		return ExpiryExpiring
	}
	return ExpiryValid
}

// ChangeEvent уведомление "что-то изменилось" без диффа данных
type ChangeEvent struct {
	Resource string    `json:"resource"`
	Action   string    `json:"action"`
	Key      string    `json:"key,omitempty"`
	At       time.Time `json:"at"`
}

const (
	ActionInsert = "insert"
	ActionUpdate = "update"
)
