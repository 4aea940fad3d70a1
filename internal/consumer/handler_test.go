package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ITOpsDashboard/internal/model"
	"ITOpsDashboard/pkg/logger"
)

// mockRepo реализует интерфейс Repo и сохраняет полученные пакеты для проверки
type mockRepo struct {
	mu       sync.Mutex
	received [][]model.ChangeEvent
	err      error
}

func (m *mockRepo) BatchInsertEvents(ctx context.Context, events []model.ChangeEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copyBatch := make([]model.ChangeEvent, len(events))
	copy(copyBatch, events)
	m.received = append(m.received, copyBatch)
	return m.err
}

func (m *mockRepo) batches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.received)
}

func event(resource, action, key string) []byte {
	data, _ := json.Marshal(model.ChangeEvent{Resource: resource, Action: action, Key: key})
	return data
}

func TestHandleMessage_NoFlush(t *testing.T) {
	// событий меньше batchSize: записи в репозиторий нет
	repo := &mockRepo{}
	cons := NewConsumer(repo, logger.Discard(), 3)

	err := cons.HandleMessage(context.Background(), "equipment", event("equipment", model.ActionUpdate, "C02XK"))
	require.NoError(t, err)
	require.Len(t, repo.received, 0)
	require.Equal(t, 1, cons.Pending())
}

func TestHandleMessage_FlushOnBatch(t *testing.T) {
	repo := &mockRepo{}
	cons := NewConsumer(repo, logger.Discard(), 2)

	require.NoError(t, cons.HandleMessage(context.Background(), "tickets", event("tickets", model.ActionInsert, "1")))
	require.NoError(t, cons.HandleMessage(context.Background(), "tickets", event("tickets", model.ActionUpdate, "1")))

	require.Len(t, repo.received, 1)
	require.Len(t, repo.received[0], 2)
	require.Equal(t, model.ActionInsert, repo.received[0][0].Action)
	require.Equal(t, model.ActionUpdate, repo.received[0][1].Action)
	// время проставляется, если его нет в сообщении
	require.False(t, repo.received[0][0].At.IsZero())
	require.Equal(t, 0, cons.Pending())
}

func TestHandleMessage_ResourceFromSubject(t *testing.T) {
	repo := &mockRepo{}
	cons := NewConsumer(repo, logger.Discard(), 1)
	require.NoError(t, cons.HandleMessage(context.Background(), "pending_tasks.dani", []byte(`{"action":"update"}`)))
	require.Equal(t, "pending_tasks.dani", repo.received[0][0].Resource)
}

func TestHandleMessage_Invalid(t *testing.T) {
	repo := &mockRepo{}
	cons := NewConsumer(repo, logger.Discard(), 1)
	require.Error(t, cons.HandleMessage(context.Background(), "equipment", []byte("not json")))
	require.Error(t, cons.HandleMessage(context.Background(), "", []byte(`{"action":"update"}`)))
	require.Error(t, cons.HandleMessage(context.Background(), "equipment", []byte(`{}`)))
	require.Len(t, repo.received, 0)
}

func TestFlush(t *testing.T) {
	repo := &mockRepo{}
	cons := NewConsumer(repo, logger.Discard(), 5)

	// пустой буфер: ничего не отправляется
	require.NoError(t, cons.Flush(context.Background()))
	require.Len(t, repo.received, 0)

	for i := 0; i < 3; i++ {
		require.NoError(t, cons.HandleMessage(context.Background(), "insured_computers", event("insured_computers", model.ActionInsert, "")))
	}
	require.Len(t, repo.received, 0)
	require.NoError(t, cons.Flush(context.Background()))
	require.Len(t, repo.received, 1)
	require.Len(t, repo.received[0], 3)
}

func TestBatchInsertError_IsPropagated(t *testing.T) {
	ex := errors.New("insert failed")
	repo := &mockRepo{err: ex}
	cons := NewConsumer(repo, logger.Discard(), 1)
	err := cons.HandleMessage(context.Background(), "equipment", event("equipment", model.ActionUpdate, "X"))
	require.ErrorIs(t, err, ex)
}

func TestRun_PeriodicFlush(t *testing.T) {
	repo := &mockRepo{}
	cons := NewConsumer(repo, logger.Discard(), 100)
	require.NoError(t, cons.HandleMessage(context.Background(), "equipment", event("equipment", model.ActionUpdate, "X")))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cons.Run(ctx, 10*time.Millisecond)
		close(done)
	}()
	require.Eventually(t, func() bool { return repo.batches() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
