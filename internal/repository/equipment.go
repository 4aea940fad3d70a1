package repository

import (
	"context"
	"database/sql"
	"fmt"

	"ITOpsDashboard/internal/model"
)

// EquipmentRepository доступ к таблице equipment и представлению equipment_depreciation
type EquipmentRepository struct {
	db *sql.DB
}

// NewEquipmentRepository создает новый репозиторий оборудования
func NewEquipmentRepository(db *sql.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

const selectDepreciationRows = `SELECT serial_number, model, purchase_date, purchase_cost, rate, residual_pct, year_number, depreciation_year
		FROM equipment_depreciation ORDER BY serial_number, year_number`

// FetchDepreciationRows возвращает проекцию амортизации: по строке на пару (актив, год),
// упорядоченную по серийному номеру
func (r *EquipmentRepository) FetchDepreciationRows(ctx context.Context) ([]model.DepreciationRow, error) {
	rows, err := r.db.QueryContext(ctx, selectDepreciationRows)
	if err != nil {
		return nil, fmt.Errorf("failed to select depreciation rows: %w", err)
	}
	defer rows.Close()
	var out []model.DepreciationRow
	for rows.Next() {
		var d model.DepreciationRow
		if err := rows.Scan(&d.SerialNumber, &d.Model, &d.PurchaseDate, &d.PurchaseCost,
			&d.Rate, &d.ResidualPct, &d.YearNumber, &d.DepreciationAmount); err != nil {
			return nil, fmt.Errorf("failed to scan depreciation row: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate depreciation rows: %w", err)
	}
	return out, nil
}

const selectAssetMetadata = `SELECT serial_number, company, assigned_to, insured, invoice_ref, created_at, updated_at
		FROM equipment ORDER BY serial_number`

// FetchAssetMetadata возвращает изменяемые метаданные всех активов
func (r *EquipmentRepository) FetchAssetMetadata(ctx context.Context) ([]model.AssetMetadata, error) {
	rows, err := r.db.QueryContext(ctx, selectAssetMetadata)
	if err != nil {
		return nil, fmt.Errorf("failed to select asset metadata: %w", err)
	}
	defer rows.Close()
	var out []model.AssetMetadata
	for rows.Next() {
		var m model.AssetMetadata
		if err := rows.Scan(&m.SerialNumber, &m.Company, &m.AssignedTo, &m.Insured,
			&m.InvoiceRef, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan asset metadata: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate asset metadata: %w", err)
	}
	return out, nil
}

// UpdateAssetField обновляет одно поле актива. Имя колонки подставляется в запрос
// только после проверки по закрытому списку, вычисляемые поля отклоняются.
func (r *EquipmentRepository) UpdateAssetField(ctx context.Context, serial string, field model.AssetField, value interface{}) error {
	if !field.Writable() {
		return fmt.Errorf("%w: %s", ErrReadOnlyField, field)
	}
	query := fmt.Sprintf(`UPDATE equipment SET %s=$1, updated_at=now() WHERE serial_number=$2`, field)
	res, err := r.db.ExecContext(ctx, query, value, serial)
	if err != nil {
		return fmt.Errorf("failed to update equipment %s: %w", field, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateAsset добавляет актив; повтор серийного номера даёт ErrDuplicate
func (r *EquipmentRepository) CreateAsset(ctx context.Context, a model.NewAsset) error {
	query := `INSERT INTO equipment(serial_number, model, company, assigned_to, insured, purchase_date, purchase_cost, invoice_ref)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		a.SerialNumber, string(a.Model), string(a.Company), a.AssignedTo,
		a.Insured, a.PurchaseDate, a.PurchaseCost, a.InvoiceRef)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert equipment: %w", err)
	}
	return nil
}
