package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"ITOpsDashboard/internal/model"
)

// TaskRepository доступ к таблице pending_tasks; доски различаются колонкой board
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository создает новый репозиторий задач
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// ListTasks возвращает задачи доски в порядке создания
func (r *TaskRepository) ListTasks(ctx context.Context, board string) ([]model.PendingTask, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, board, title, description, start_date, due_date, importance, completed, created_at
		FROM pending_tasks WHERE board=$1 ORDER BY created_at`, board)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	defer rows.Close()
	var tasks []model.PendingTask
	for rows.Next() {
		var t model.PendingTask
		if err := rows.Scan(&t.ID, &t.Board, &t.Title, &t.Description, &t.StartDate, &t.DueDate,
			&t.Importance, &t.Completed, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask добавляет задачу, created_at назначается БД
func (r *TaskRepository) CreateTask(ctx context.Context, t model.PendingTask) (*model.PendingTask, error) {
	query := `INSERT INTO pending_tasks(id, board, title, description, start_date, due_date, importance, completed)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, t.ID, t.Board, t.Title, t.Description,
		t.StartDate, t.DueDate, string(t.Importance), t.Completed).Scan(&t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}
	return &t, nil
}

// SetTaskCompleted отмечает задачу выполненной или снимает отметку
func (r *TaskRepository) SetTaskCompleted(ctx context.Context, board string, id uuid.UUID, completed bool) error {
	return r.exec(ctx, `UPDATE pending_tasks SET completed=$1 WHERE id=$2 AND board=$3`, completed, id, board)
}

// SetTaskImportance меняет важность задачи
func (r *TaskRepository) SetTaskImportance(ctx context.Context, board string, id uuid.UUID, importance model.Importance) error {
	return r.exec(ctx, `UPDATE pending_tasks SET importance=$1 WHERE id=$2 AND board=$3`, string(importance), id, board)
}

// exec выполняет обновление одной записи; ноль затронутых строк означает ErrNotFound
func (r *TaskRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
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
