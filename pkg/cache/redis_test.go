// Пакет cache содержит unit-тесты для RedisClient: Set, Get, Invalidate и Ping
package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	// библиотека-мок для эмуляции Redis клиента
	redismock "github.com/go-redis/redismock/v8"
)

// TestSetGetInvalidate проверяет Set, Get (hit и miss) и Invalidate нескольких ключей
func TestSetGetInvalidate(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{client: db}
	ctx := context.Background()
	key := "equipment:rows"
	val := []byte(`[{"serial_number":"C02XK"}]`)
	exp := time.Minute

	mock.ExpectSet(key, val, exp).SetVal("OK")
	if err := client.Set(ctx, key, val, exp); err != nil {
		t.Errorf("Set error: %v", err)
	}

	mock.ExpectGet(key).SetVal(string(val))
	got, err := client.Get(ctx, key)
	if err != nil {
		t.Errorf("Get error: %v", err)
	}
	if string(got) != string(val) {
		t.Errorf("Get expected %s, got %s", val, got)
	}

	mock.ExpectGet("missing").RedisNil()
	_, err = client.Get(ctx, "missing")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}

	// оба ключа оборудования удаляются одной командой
	mock.ExpectDel(key, "equipment:metadata").SetVal(2)
	if err := client.Invalidate(ctx, key, "equipment:metadata"); err != nil {
		t.Errorf("Invalidate error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestInvalidate_NoKeys без ключей команда не отправляется
func TestInvalidate_NoKeys(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{client: db}
	if err := client.Invalidate(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestSet_Error проверяет возвращение ошибки при неудаче операции Set
func TestSet_Error(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{client: db}
	ctx := context.Background()
	mock.ExpectSet("key", []byte("value"), time.Minute).SetErr(errors.New("set failed"))
	err := client.Set(ctx, "key", []byte("value"), time.Minute)
	if err == nil || !strings.Contains(err.Error(), "set failed") {
		t.Errorf("expected set error, got %v", err)
	}
}

// TestGet_OtherError ошибка Redis, не связанная с промахом, не превращается в ErrCacheMiss
func TestGet_OtherError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{client: db}
	mock.ExpectGet("key").SetErr(errors.New("get failed"))
	_, err := client.Get(context.Background(), "key")
	if err == nil || errors.Is(err, ErrCacheMiss) || !strings.Contains(err.Error(), "get failed") {
		t.Errorf("expected get error, got %v", err)
	}
}

// TestInvalidate_Error проверяет возвращение ошибки при неудаче Del
func TestInvalidate_Error(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{client: db}
	mock.ExpectDel("key").SetErr(errors.New("del failed"))
	err := client.Invalidate(context.Background(), "key")
	if err == nil || !strings.Contains(err.Error(), "del failed") {
		t.Errorf("expected invalidate error, got %v", err)
	}
}

func TestPing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{client: db}
	mock.ExpectPing().SetVal("PONG")
	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("unexpected ping error: %v", err)
	}
	mock.ExpectPing().SetErr(errors.New("refused"))
	if err := client.Ping(context.Background()); err == nil {
		t.Error("expected ping error")
	}
}
