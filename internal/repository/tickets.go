package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"ITOpsDashboard/internal/model"
)

// TicketRepository доступ к таблице tickets
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository создает новый репозиторий тикетов
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketColumns = `id, ticket_number, title, area, description, status, priority, created_at, updated_at`

func scanTicket(s interface{ Scan(...interface{}) error }) (model.Ticket, error) {
	var t model.Ticket
	err := s.Scan(&t.ID, &t.TicketNumber, &t.Title, &t.Area, &t.Description,
		&t.Status, &t.Priority, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// ListTickets возвращает тикеты, новые сверху
func (r *TicketRepository) ListTickets(ctx context.Context) ([]model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select tickets: %w", err)
	}
	defer rows.Close()
	var out []model.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}
	return out, nil
}

// CreateTicket добавляет тикет; номер и даты назначает БД
func (r *TicketRepository) CreateTicket(ctx context.Context, t model.Ticket) (*model.Ticket, error) {
	row := r.db.QueryRowContext(ctx, `INSERT INTO tickets(id, title, area, description, status, priority)
		VALUES($1, $2, $3, $4, $5, $6) RETURNING `+ticketColumns,
		t.ID, t.Title, t.Area, t.Description, string(t.Status), string(t.Priority))
	created, err := scanTicket(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert ticket: %w", err)
	}
	return &created, nil
}

// UpdateTicket меняет статус и/или приоритет; nil оставляет значение без изменений
func (r *TicketRepository) UpdateTicket(ctx context.Context, id uuid.UUID, status *model.TicketStatus, priority *model.TicketPriority) (*model.Ticket, error) {
	var st, pr interface{}
	if status != nil {
		st = string(*status)
	}
	if priority != nil {
		pr = string(*priority)
	}
	row := r.db.QueryRowContext(ctx, `UPDATE tickets SET status=COALESCE($1, status), priority=COALESCE($2, priority), updated_at=now()
		WHERE id=$3 RETURNING `+ticketColumns, st, pr, id)
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}
	return &t, nil
}
