package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ITOpsDashboard/internal/model"
)

// ChecklistRepository доступ к таблице it_checklist
type ChecklistRepository struct {
	db *sql.DB
}

// NewChecklistRepository создает новый репозиторий чек-листа
func NewChecklistRepository(db *sql.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

const checklistColumns = `person_name, onboarding_date, antivirus, backup, onepassword, slack, monday,
		adobe, office, acrobat, billboard, rost, canva_pro, jumpcloud, mandatory_ok, comments, created_at`

func scanChecklist(s interface{ Scan(...interface{}) error }) (model.ChecklistEntry, error) {
	var e model.ChecklistEntry
	err := s.Scan(&e.PersonName, &e.OnboardingDate,
		&e.Antivirus, &e.Backup, &e.OnePassword, &e.Slack, &e.Monday,
		&e.Adobe, &e.Office, &e.Acrobat, &e.Billboard, &e.Rost, &e.CanvaPro, &e.JumpCloud,
		&e.MandatoryOK, &e.Comments, &e.CreatedAt)
	return e, err
}

// ListChecklist возвращает все строки, новые сверху
func (r *ChecklistRepository) ListChecklist(ctx context.Context) ([]model.ChecklistEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+checklistColumns+` FROM it_checklist ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select checklist: %w", err)
	}
	defer rows.Close()
	var out []model.ChecklistEntry
	for rows.Next() {
		e, err := scanChecklist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checklist entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate checklist: %w", err)
	}
	return out, nil
}

// CreateChecklistEntry добавляет сотрудника со всеми проверками false;
// повтор имени даёт ErrDuplicate
func (r *ChecklistRepository) CreateChecklistEntry(ctx context.Context, person string, onboarding time.Time) (*model.ChecklistEntry, error) {
	row := r.db.QueryRowContext(ctx, `INSERT INTO it_checklist(person_name, onboarding_date) VALUES($1, $2)
		RETURNING `+checklistColumns, person, onboarding)
	e, err := scanChecklist(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to insert checklist entry: %w", err)
	}
	return &e, nil
}

// ToggleCheck инвертирует проверку и возвращает строку после обновления;
// mandatory_ok пересчитывается в БД
func (r *ChecklistRepository) ToggleCheck(ctx context.Context, person string, check model.ChecklistCheck) (*model.ChecklistEntry, error) {
	if !check.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrReadOnlyField, check)
	}
	query := fmt.Sprintf(`UPDATE it_checklist SET %[1]s = NOT %[1]s WHERE person_name=$1 RETURNING `+checklistColumns, check)
	e, err := scanChecklist(r.db.QueryRowContext(ctx, query, person))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to toggle %s: %w", check, err)
	}
	return &e, nil
}

// UpdateComments заменяет комментарий; nil очищает его
func (r *ChecklistRepository) UpdateComments(ctx context.Context, person string, comments *string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE it_checklist SET comments=$1 WHERE person_name=$2`, comments, person)
	if err != nil {
		return fmt.Errorf("failed to update comments: %w", err)
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
