package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"ITOpsDashboard/internal/model"
)

// ChangeEventRepo пакетная запись событий изменений в ClickHouse (статистика активности
// по ресурсам; данные записей в событии не хранятся)
type ChangeEventRepo struct {
	db  *sql.DB
	log *slog.Logger
}

// NewChangeEventRepo создаёт репозиторий событий для ClickHouse
func NewChangeEventRepo(db *sql.DB, log *slog.Logger) *ChangeEventRepo {
	return &ChangeEventRepo{db: db, log: log}
}

// BatchInsertEvents записывает пакет событий в таблицу change_events.
// clickhouse-go собирает все Exec подготовленного запроса в один блок при Commit.
func (r *ChangeEventRepo) BatchInsertEvents(ctx context.Context, events []model.ChangeEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin clickhouse batch: %w", err)
	}
	r.log.Debug("начало пакетной вставки событий", slog.Int("count", len(events)))
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO change_events (Resource, Action, Key, EventTime) VALUES (?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare clickhouse insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for _, e := range events {
		at := e.At
		if at.IsZero() {
			at = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, e.Resource, e.Action, e.Key, at.UTC()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to append event %s/%s: %w", e.Resource, e.Action, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit clickhouse batch: %w", err)
	}
	r.log.Info("события записаны в ClickHouse", slog.Int("count", len(events)))
	return nil
}
