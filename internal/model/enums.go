package model

// EquipmentModel модель оборудования (закрытый список)
type EquipmentModel string

const (
	ModelMacAir EquipmentModel = "mac_air"
	ModelMacPro EquipmentModel = "mac_pro"
	ModelLenovo EquipmentModel = "lenovo"
)

// EquipmentModels перечисляет все допустимые модели в порядке отображения
var EquipmentModels = []EquipmentModel{ModelMacAir, ModelMacPro, ModelLenovo}

// Valid сообщает, входит ли значение в закрытый список моделей
func (m EquipmentModel) Valid() bool {
	switch m {
	case ModelMacAir, ModelMacPro, ModelLenovo:
		return true
	}
	return false
}

// Label возвращает человекочитаемое название модели.
// Для неизвестного значения возвращается сырая строка.
func (m EquipmentModel) Label() string {
	switch m {
	case ModelMacAir:
		return "Mac Air"
	case ModelMacPro:
		return "Mac Pro"
	case ModelLenovo:
		return "Lenovo"
	}
	return string(m)
}

// Company компания-владелец оборудования
type Company string

const (
	CompanyHBL Company = "HBL"
	CompanyAJA Company = "AJA"
)

// DefaultCompany подставляется, когда у актива нет метаданных
const DefaultCompany = CompanyAJA

func (c Company) Valid() bool {
	return c == CompanyHBL || c == CompanyAJA
}

// Importance важность задачи: baja < media < alta < critica
type Importance string

const (
	ImportanceLow      Importance = "baja"
	ImportanceMedium   Importance = "media"
	ImportanceHigh     Importance = "alta"
	ImportanceCritical Importance = "critica"
)

// Rank возвращает порядковый номер важности, -1 для неизвестного значения
func (i Importance) Rank() int {
	switch i {
	case ImportanceLow:
		return 0
	case ImportanceMedium:
		return 1
	case ImportanceHigh:
		return 2
	case ImportanceCritical:
		return 3
	}
	return -1
}

func (i Importance) Valid() bool {
	return i.Rank() >= 0
}

// TicketStatus статус тикета; переходы между статусами не ограничены
type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved, TicketClosed:
		return true
	}
	return false
}

// TicketPriority приоритет тикета
type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"
)

func (p TicketPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// TicketAreas закрытый список областей для тикетов
var TicketAreas = []string{
	"IT Support",
	"Hardware",
	"Software",
	"Network",
	"Security",
	"Access",
	"Email",
	"Phone",
	"Printer",
	"Other",
}

// ValidTicketArea проверяет, что область входит в TicketAreas
func ValidTicketArea(area string) bool {
	for _, a := range TicketAreas {
		if a == area {
			return true
		}
	}
	return false
}

// AssetField поле актива, доступное для inline-редактирования
type AssetField string

const (
	FieldModel        AssetField = "model"
	FieldCompany      AssetField = "company"
	FieldAssignedTo   AssetField = "assigned_to"
	FieldInsured      AssetField = "insured"
	FieldPurchaseDate AssetField = "purchase_date"
	FieldPurchaseCost AssetField = "purchase_cost"
	FieldInvoiceRef   AssetField = "invoice_ref"
)

// Writable сообщает, можно ли обновлять поле. Поля амортизации и
// балансовой стоимости вычисляются и никогда не записываются.
func (f AssetField) Writable() bool {
	switch f {
	case FieldModel, FieldCompany, FieldAssignedTo, FieldInsured,
		FieldPurchaseDate, FieldPurchaseCost, FieldInvoiceRef:
		return true
	}
	return false
}

// ChecklistCheck булева проверка онбординга
type ChecklistCheck string

const (
	CheckAntivirus   ChecklistCheck = "antivirus"
	CheckBackup      ChecklistCheck = "backup"
	CheckOnePassword ChecklistCheck = "onepassword"
	CheckSlack       ChecklistCheck = "slack"
	CheckMonday      ChecklistCheck = "monday"

	CheckAdobe     ChecklistCheck = "adobe"
	CheckOffice    ChecklistCheck = "office"
	CheckAcrobat   ChecklistCheck = "acrobat"
	CheckBillboard ChecklistCheck = "billboard"
	CheckRost      ChecklistCheck = "rost"
	CheckCanvaPro  ChecklistCheck = "canva_pro"
	CheckJumpCloud ChecklistCheck = "jumpcloud"
)

// MandatoryChecks обязательные проверки, от которых зависит mandatory_ok
var MandatoryChecks = []ChecklistCheck{CheckAntivirus, CheckBackup, CheckOnePassword, CheckSlack, CheckMonday}

// ExtraChecks необязательные проверки
var ExtraChecks = []ChecklistCheck{CheckAdobe, CheckOffice, CheckAcrobat, CheckBillboard, CheckRost, CheckCanvaPro, CheckJumpCloud}

func (c ChecklistCheck) Valid() bool {
	for _, m := range MandatoryChecks {
		if m == c {
			return true
		}
	}
	for _, e := range ExtraChecks {
		if e == c {
			return true
		}
	}
	return false
}

// Resource имя ресурса в ленте уведомлений об изменениях
const (
	ResourceEquipment = "equipment"
	ResourceChecklist = "it_checklist"
	ResourceTickets   = "tickets"
	ResourceInsured   = "insured_computers"
	// ResourceTasksPrefix дополняется именем доски: pending_tasks.johan
	ResourceTasksPrefix = "pending_tasks"
)

// TasksResource возвращает имя ресурса для доски задач
func TasksResource(board string) string {
	return ResourceTasksPrefix + "." + board
}
