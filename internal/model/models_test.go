package model

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAssetMetadataDBTags(t *testing.T) {
	// получаем тип структуры AssetMetadata для анализа рефлексией
	typ := reflect.TypeOf(AssetMetadata{})
	field, found := typ.FieldByName("SerialNumber")
	if !found {
		t.Fatalf("Поле SerialNumber не найдено в структуре AssetMetadata")
	}
	// серийный номер: ключ соединения всех источников
	if field.Tag.Get("db") != "serial_number" {
		t.Errorf("Ожидался тег db:'serial_number', получили '%s'", field.Tag.Get("db"))
	}
	field, _ = typ.FieldByName("InvoiceRef")
	if field.Tag.Get("db") != "invoice_ref" {
		t.Errorf("Ожидался тег db:'invoice_ref', получили '%s'", field.Tag.Get("db"))
	}
}

func TestDepreciationRowDBTags(t *testing.T) {
	typ := reflect.TypeOf(DepreciationRow{})
	field, _ := typ.FieldByName("DepreciationAmount")
	if field.Tag.Get("db") != "depreciation_year" {
		t.Errorf("Ожидался тег db:'depreciation_year', получили '%s'", field.Tag.Get("db"))
	}
	field, _ = typ.FieldByName("YearNumber")
	if field.Tag.Get("db") != "year_number" {
		t.Errorf("Ожидался тег db:'year_number', получили '%s'", field.Tag.Get("db"))
	}
}

func TestEquipmentModelLabel(t *testing.T) {
	require.Equal(t, "Mac Air", ModelMacAir.Label())
	require.Equal(t, "Mac Pro", ModelMacPro.Label())
	require.Equal(t, "Lenovo", ModelLenovo.Label())
	// неизвестная модель отображается как есть
	require.Equal(t, "dell", EquipmentModel("dell").Label())
	for _, m := range EquipmentModels {
		require.True(t, m.Valid(), m)
	}
	require.False(t, EquipmentModel("dell").Valid())
}

func TestImportanceOrder(t *testing.T) {
	order := []Importance{ImportanceLow, ImportanceMedium, ImportanceHigh, ImportanceCritical}
	for i := 1; i < len(order); i++ {
		require.Less(t, order[i-1].Rank(), order[i].Rank())
	}
	require.False(t, Importance("urgente").Valid())
}

func TestAssetFieldWritable(t *testing.T) {
	for _, f := range []AssetField{FieldModel, FieldCompany, FieldAssignedTo, FieldInsured, FieldPurchaseDate, FieldPurchaseCost, FieldInvoiceRef} {
		require.True(t, f.Writable(), f)
	}
	// вычисляемые поля не редактируются
	for _, f := range []AssetField{"book_value_today", "depreciation_y1", "rate", "years_exact", "serial_number"} {
		require.False(t, f.Writable(), f)
	}
}

func TestChecklistRowStatus(t *testing.T) {
	// jumpcloud важнее mandatory_ok
	require.Equal(t, RowSpecialAccess, ChecklistEntry{JumpCloud: true, MandatoryOK: true}.RowStatus())
	require.Equal(t, RowSpecialAccess, ChecklistEntry{JumpCloud: true}.RowStatus())
	require.Equal(t, RowComplete, ChecklistEntry{MandatoryOK: true}.RowStatus())
	require.Equal(t, RowIncomplete, ChecklistEntry{Antivirus: true}.RowStatus())
}

func TestChecklistCheckAccessor(t *testing.T) {
	e := ChecklistEntry{Slack: true, CanvaPro: true}
	require.True(t, e.Check(CheckSlack))
	require.True(t, e.Check(CheckCanvaPro))
	require.False(t, e.Check(CheckBackup))
	require.False(t, e.Check("unknown"))
	require.Len(t, MandatoryChecks, 5)
	require.Len(t, ExtraChecks, 7)
}

func TestClassifyExpiry(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name   string
		expiry time.Time
		want   ExpiryStatus
	}{
		{"вчера", now.AddDate(0, 0, -1), ExpiryExpired},
		{"сегодня в полночь уже в прошлом", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), ExpiryExpired},
		{"через 10 дней", now.AddDate(0, 0, 10), ExpiryExpiring},
		{"ровно 30 дней", now.AddDate(0, 0, 30), ExpiryExpiring},
		{"через 31 день", now.AddDate(0, 0, 31), ExpiryValid},
		{"через год", now.AddDate(1, 0, 0), ExpiryValid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ClassifyExpiry(tc.expiry, now))
		})
	}
}

func TestTicketEnums(t *testing.T) {
	require.True(t, TicketInProgress.Valid())
	require.False(t, TicketStatus("reopened").Valid())
	require.True(t, PriorityUrgent.Valid())
	require.False(t, TicketPriority("critical").Valid())
	require.True(t, ValidTicketArea("Printer"))
	require.False(t, ValidTicketArea("printer"))
}

func TestTasksResource(t *testing.T) {
	require.Equal(t, "pending_tasks.johan", TasksResource("johan"))
}
