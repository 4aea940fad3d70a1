package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"ITOpsDashboard/internal/analytics"
	"ITOpsDashboard/internal/depreciation"
	"ITOpsDashboard/internal/export"
	"ITOpsDashboard/internal/model"
	"ITOpsDashboard/internal/repository"
)

// EquipmentRepo источник данных об оборудовании (Postgres)
type EquipmentRepo interface {
	FetchDepreciationRows(ctx context.Context) ([]model.DepreciationRow, error)
	FetchAssetMetadata(ctx context.Context) ([]model.AssetMetadata, error)
	UpdateAssetField(ctx context.Context, serial string, field model.AssetField, value interface{}) error
	CreateAsset(ctx context.Context, a model.NewAsset) error
}

// ключи кэша сырых выборок; вычисленные значения не кэшируются
const (
	keyDepreciationRows = "equipment:rows"
	keyAssetMetadata    = "equipment:metadata"
)

// EquipmentService собирает представление оборудования и обслуживает его изменения
type EquipmentService struct {
	repo     EquipmentRepo
	cache    Cache
	notifier Notifier
	log      *slog.Logger
	ttl      time.Duration
	now      func() time.Time
}

// NewEquipmentService создаёт сервис оборудования
func NewEquipmentService(r EquipmentRepo, c Cache, n Notifier, log *slog.Logger, ttl time.Duration) *EquipmentService {
	return &EquipmentService{repo: r, cache: c, notifier: n, log: log, ttl: ttl, now: time.Now}
}

// List возвращает собранный список оборудования на текущий момент.
// Обе выборки выполняются параллельно; ошибка любой из них отменяет всю операцию.
// Непустой query оставляет активы, у которых серийный номер, модель,
// сотрудник или компания содержат подстроку без учёта регистра.
func (s *EquipmentService) List(ctx context.Context, query string) ([]model.Asset, error) {
	var (
		rows []model.DepreciationRow
		meta []model.AssetMetadata
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = cached(gctx, s, keyDepreciationRows, s.repo.FetchDepreciationRows)
		return err
	})
	g.Go(func() error {
		var err error
		meta, err = cached(gctx, s, keyAssetMetadata, s.repo.FetchAssetMetadata)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch equipment: %w", err)
	}
	assets := depreciation.BuildEquipmentView(rows, meta, s.now())
	return filterAssets(assets, query), nil
}

// cached читает выборку из кэша, при промахе идёт в репозиторий и кэширует результат.
// Ошибки кэша не прерывают чтение.
func cached[T any](ctx context.Context, s *EquipmentService, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if data, err := s.cache.Get(ctx, key); err == nil {
		var out []T
		if err := json.Unmarshal(data, &out); err == nil {
			return out, nil
		}
		s.log.Warn("повреждённая запись кэша", slog.String("key", key))
	}
	out, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(out)
	if err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.log.Warn("не удалось записать кэш", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
	return out, nil
}

func filterAssets(assets []model.Asset, query string) []model.Asset {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return assets
	}
	out := make([]model.Asset, 0, len(assets))
	for _, a := range assets {
		assignee := ""
		if a.AssignedTo != nil {
			assignee = *a.AssignedTo
		}
		for _, v := range []string{a.SerialNumber, a.Model.Label(), assignee, string(a.Company)} {
			if strings.Contains(strings.ToLower(v), q) {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// CreateAssetInput данные формы создания актива
type CreateAssetInput struct {
	SerialNumber string           `json:"serial_number"`
	Model        string           `json:"model"`
	Company      string           `json:"company"`
	AssignedTo   *string          `json:"assigned_to"`
	Insured      bool             `json:"insured"`
	PurchaseDate string           `json:"purchase_date"`
	PurchaseCost *decimal.Decimal `json:"purchase_cost"`
	InvoiceRef   *string          `json:"invoice_ref"`
}

// Create проверяет обязательные поля и создаёт актив. Повтор серийного номера
// возвращается как repository.ErrDuplicate.
func (s *EquipmentService) Create(ctx context.Context, in CreateAssetInput) (*model.NewAsset, error) {
	v := validator{}
	a := model.NewAsset{
		SerialNumber: strings.TrimSpace(in.SerialNumber),
		Model:        model.EquipmentModel(in.Model),
		Company:      model.Company(in.Company),
		AssignedTo:   trimOptional(in.AssignedTo),
		Insured:      in.Insured,
		InvoiceRef:   trimOptional(in.InvoiceRef),
	}
	if a.SerialNumber == "" {
		v.add("serial_number", "required")
	}
	if !a.Model.Valid() {
		v.add("model", "must be one of mac_air, mac_pro, lenovo")
	}
	if !a.Company.Valid() {
		v.add("company", "must be HBL or AJA")
	}
	if strings.TrimSpace(in.PurchaseDate) == "" {
		v.add("purchase_date", "required")
	} else if d, err := parseDate(in.PurchaseDate); err != nil {
		v.add("purchase_date", "expected YYYY-MM-DD")
	} else {
		a.PurchaseDate = d
	}
	switch {
	case in.PurchaseCost == nil:
		v.add("purchase_cost", "required")
	case in.PurchaseCost.IsNegative():
		v.add("purchase_cost", "must not be negative")
	default:
		a.PurchaseCost = *in.PurchaseCost
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateAsset(ctx, a); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	publishChange(s.notifier, s.log, model.ResourceEquipment, model.ActionInsert, a.SerialNumber)
	return &a, nil
}

// UpdateField разбирает значение по типу поля и обновляет одно поле актива.
// Вычисляемые поля отклоняются с repository.ErrReadOnlyField.
func (s *EquipmentService) UpdateField(ctx context.Context, serial string, field model.AssetField, raw json.RawMessage) error {
	if !field.Writable() {
		return fmt.Errorf("%w: %s", repository.ErrReadOnlyField, field)
	}
	value, err := parseFieldValue(field, raw)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateAssetField(ctx, serial, field, value); err != nil {
		return err
	}
	s.invalidate(ctx)
	publishChange(s.notifier, s.log, model.ResourceEquipment, model.ActionUpdate, serial)
	return nil
}

// parseFieldValue приводит JSON-значение к типу колонки
func parseFieldValue(field model.AssetField, raw json.RawMessage) (interface{}, error) {
	name := string(field)
	isNull := len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
	switch field {
	case model.FieldAssignedTo, model.FieldInvoiceRef:
		if isNull {
			return nil, nil
		}
		var sv string
		if err := json.Unmarshal(raw, &sv); err != nil {
			return nil, fieldError(name, "expected string")
		}
		if p := trimOptional(&sv); p != nil {
			return *p, nil
		}
		return nil, nil
	case model.FieldModel:
		var sv string
		if err := json.Unmarshal(raw, &sv); err != nil || !model.EquipmentModel(sv).Valid() {
			return nil, fieldError(name, "must be one of mac_air, mac_pro, lenovo")
		}
		return sv, nil
	case model.FieldCompany:
		var sv string
		if err := json.Unmarshal(raw, &sv); err != nil || !model.Company(sv).Valid() {
			return nil, fieldError(name, "must be HBL or AJA")
		}
		return sv, nil
	case model.FieldInsured:
		var b bool
		if isNull || json.Unmarshal(raw, &b) != nil {
			return nil, fieldError(name, "expected boolean")
		}
		return b, nil
	case model.FieldPurchaseDate:
		var sv string
		if isNull || json.Unmarshal(raw, &sv) != nil {
			return nil, fieldError(name, "expected YYYY-MM-DD")
		}
		d, err := parseDate(sv)
		if err != nil {
			return nil, fieldError(name, "expected YYYY-MM-DD")
		}
		return d, nil
	case model.FieldPurchaseCost:
		var d decimal.Decimal
		if isNull || json.Unmarshal(raw, &d) != nil {
			return nil, fieldError(name, "expected amount")
		}
		if d.IsNegative() {
			return nil, fieldError(name, "must not be negative")
		}
		return d, nil
	}
	return nil, fmt.Errorf("%w: %s", repository.ErrReadOnlyField, field)
}

// ExportCSV пишет текущий список оборудования в CSV
func (s *EquipmentService) ExportCSV(ctx context.Context, w io.Writer) error {
	assets, err := s.List(ctx, "")
	if err != nil {
		return err
	}
	return export.WriteCSV(w, assets)
}

// ExportXLSX пишет текущий список оборудования в XLSX
func (s *EquipmentService) ExportXLSX(ctx context.Context, w io.Writer) error {
	assets, err := s.List(ctx, "")
	if err != nil {
		return err
	}
	return export.WriteXLSX(w, assets)
}

// Charts считает данные дашборда по текущему списку
func (s *EquipmentService) Charts(ctx context.Context, f analytics.Filter) (*analytics.Charts, error) {
	if f.Range == "" {
		f.Range = analytics.RangeAll
	}
	if !f.Range.Valid() {
		return nil, fieldError("range", "must be 12m, 24m or all")
	}
	if f.Company != "" && f.Company != analytics.CompanyAll && !model.Company(f.Company).Valid() {
		return nil, fieldError("company", "must be HBL, AJA or all")
	}
	assets, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}
	charts := analytics.Build(assets, f, s.now())
	return &charts, nil
}

// HandleChange реагирует на уведомление из ленты изменений: изменения
// оборудования, сделанные другими экземплярами, сбрасывают кэш выборок
func (s *EquipmentService) HandleChange(ctx context.Context, resource string) {
	if resource == model.ResourceEquipment {
		s.invalidate(ctx)
	}
}

func (s *EquipmentService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, keyDepreciationRows, keyAssetMetadata); err != nil && !errors.Is(err, context.Canceled) {
		s.log.Warn("не удалось сбросить кэш оборудования", slog.String("error", err.Error()))
	}
}
