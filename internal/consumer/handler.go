// Пакет consumer буферизует уведомления об изменениях из NATS и пакетно
// сохраняет их в ClickHouse
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ITOpsDashboard/internal/model"
)

// Repo пакетная запись событий изменений
type Repo interface {
	BatchInsertEvents(ctx context.Context, events []model.ChangeEvent) error
}

// Consumer буферизует события и отправляет их пакетами по batchSize
type Consumer struct {
	repo      Repo
	log       *slog.Logger
	batchSize int
	events    []model.ChangeEvent
	mu        sync.Mutex
}

// NewConsumer создаёт Consumer с указанным репозиторием и размером пакета
func NewConsumer(repo Repo, log *slog.Logger, batchSize int) *Consumer {
	return &Consumer{repo: repo, log: log, batchSize: batchSize, events: make([]model.ChangeEvent, 0, batchSize)}
}

// HandleMessage разбирает уведомление и добавляет его в буфер. resource берётся из темы,
// если в теле он не указан. При заполнении буфера пакет отправляется в ClickHouse.
func (c *Consumer) HandleMessage(ctx context.Context, resource string, data []byte) error {
	var e model.ChangeEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return fmt.Errorf("failed to decode change event: %w", err)
	}
	if e.Resource == "" {
		e.Resource = resource
	}
	if e.Resource == "" || e.Action == "" {
		return fmt.Errorf("change event without resource or action: %s", data)
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	c.log.Debug("получено событие", slog.String("resource", e.Resource), slog.String("action", e.Action))

	c.mu.Lock()
	c.events = append(c.events, e)
	if len(c.events) < c.batchSize {
		c.mu.Unlock()
		return nil
	}
	batch := c.take()
	c.mu.Unlock()
	return c.repo.BatchInsertEvents(ctx, batch)
}

// Flush отправляет все накопленные события, если они есть
func (c *Consumer) Flush(ctx context.Context) error {
	c.mu.Lock()
	if len(c.events) == 0 {
		c.mu.Unlock()
		return nil
	}
	batch := c.take()
	c.mu.Unlock()
	return c.repo.BatchInsertEvents(ctx, batch)
}

// Run периодически сбрасывает неполный буфер, пока не отменён ctx
func (c *Consumer) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Flush(ctx); err != nil {
				c.log.Error("периодический сброс событий не удался", slog.String("error", err.Error()))
			}
		}
	}
}

// Pending число событий в буфере
func (c *Consumer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// take копирует и очищает буфер; вызывается под мьютексом
func (c *Consumer) take() []model.ChangeEvent {
	batch := make([]model.ChangeEvent, len(c.events))
	copy(batch, c.events)
	c.events = c.events[:0]
	return batch
}
