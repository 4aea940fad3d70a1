package repository

import (
	"context"
	"database/sql"
	"fmt"

	"ITOpsDashboard/internal/model"
)

// InsuredRepository доступ к таблице insured_computers
type InsuredRepository struct {
	db *sql.DB
}

// NewInsuredRepository создает новый репозиторий застрахованных компьютеров
func NewInsuredRepository(db *sql.DB) *InsuredRepository {
	return &InsuredRepository{db: db}
}

// ListInsured возвращает полисы, ближайшее окончание первым
func (r *InsuredRepository) ListInsured(ctx context.Context) ([]model.InsuredComputer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT serial_number, policy_number, person_name, warranty_expiry, policy_expiry, created_at
		FROM insured_computers ORDER BY policy_expiry`)
	if err != nil {
		return nil, fmt.Errorf("failed to select insured computers: %w", err)
	}
	defer rows.Close()
	var out []model.InsuredComputer
	for rows.Next() {
		var c model.InsuredComputer
		if err := rows.Scan(&c.SerialNumber, &c.PolicyNumber, &c.PersonName,
			&c.WarrantyExpiry, &c.PolicyExpiry, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan insured computer: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate insured computers: %w", err)
	}
	return out, nil
}

// CreateInsured добавляет полис; повтор серийного номера даёт ErrDuplicate
func (r *InsuredRepository) CreateInsured(ctx context.Context, c model.InsuredComputer) (*model.InsuredComputer, error) {
	err := r.db.QueryRowContext(ctx, `INSERT INTO insured_computers(serial_number, policy_number, person_name, warranty_expiry, policy_expiry)
		VALUES($1, $2, $3, $4, $5) RETURNING created_at`,
		c.SerialNumber, c.PolicyNumber, c.PersonName, c.WarrantyExpiry, c.PolicyExpiry).Scan(&c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to insert insured computer: %w", err)
	}
	return &c, nil
}
