// Пакет service содержит бизнес-логику дашборда поверх репозиториев:
// валидацию входных данных, кэширование сырых выборок и публикацию
// уведомлений об изменениях
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"ITOpsDashboard/internal/model"
)

// Cache определяет интерфейс кэширования (Redis)
type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Invalidate(ctx context.Context, keys ...string) error
}

// Notifier публикует уведомление об изменении ресурса (NATS)
type Notifier interface {
	Notify(resource string, data []byte) error
}

// ValidationError ошибки проверки входных данных по полям
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// validator накапливает ошибки по полям
type validator map[string]string

func (v validator) add(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}

func (v validator) err() error {
	if len(v) == 0 {
		return nil
	}
	return &ValidationError{Fields: v}
}

// fieldError ValidationError для одного поля
func fieldError(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// IsValidation сообщает, является ли err ошибкой валидации
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrUnknownBoard запрошена доска задач, которой нет в конфигурации
var ErrUnknownBoard = errors.New("unknown task board")

const dateLayout = "2006-01-02"

// parseDate разбирает дату YYYY-MM-DD
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(s))
}

// parseOptionalDate nil или пустая строка дают nil
func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// trimOptional обрезает пробелы; пустая строка становится nil
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// publishChange отправляет уведомление после успешной записи. Ошибка публикации
// только логируется: запись уже выполнена и повторяться не будет.
func publishChange(n Notifier, log *slog.Logger, resource, action, key string) {
	if n == nil {
		return
	}
	data, err := json.Marshal(model.ChangeEvent{Resource: resource, Action: action, Key: key, At: time.Now().UTC()})
	if err != nil {
		log.Error("failed to encode change event", slog.String("resource", resource), slog.String("error", err.Error()))
		return
	}
	if err := n.Notify(resource, data); err != nil {
		log.Warn("failed to publish change event", slog.String("resource", resource), slog.String("error", err.Error()))
	}
}
