package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"ITOpsDashboard/internal/model"
	cachepkg "ITOpsDashboard/pkg/cache"
	"ITOpsDashboard/pkg/logger"
)

// mockEquipmentRepo реализует EquipmentRepo; поля-функции задают поведение методов
type mockEquipmentRepo struct {
	rowsFn   func(ctx context.Context) ([]model.DepreciationRow, error)
	metaFn   func(ctx context.Context) ([]model.AssetMetadata, error)
	updateFn func(ctx context.Context, serial string, field model.AssetField, value interface{}) error
	createFn func(ctx context.Context, a model.NewAsset) error
}

func (m *mockEquipmentRepo) FetchDepreciationRows(ctx context.Context) ([]model.DepreciationRow, error) {
	return m.rowsFn(ctx)
}
func (m *mockEquipmentRepo) FetchAssetMetadata(ctx context.Context) ([]model.AssetMetadata, error) {
	return m.metaFn(ctx)
}
func (m *mockEquipmentRepo) UpdateAssetField(ctx context.Context, serial string, field model.AssetField, value interface{}) error {
	return m.updateFn(ctx, serial, field, value)
}
func (m *mockEquipmentRepo) CreateAsset(ctx context.Context, a model.NewAsset) error {
	return m.createFn(ctx, a)
}

// mockCache симулирует Redis; выборки оборудования идут параллельно, поэтому с мьютексом
type mockCache struct {
	mu    sync.Mutex
	data  map[string][]byte
	sets  []string
	inval [][]string
	err   error
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}}
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets = append(m.sets, key)
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	return nil
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.data[key]
	if !ok {
		return nil, cachepkg.ErrCacheMiss
	}
	return v, nil
}

func (m *mockCache) Invalidate(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inval = append(m.inval, keys)
	for _, k := range keys {
		delete(m.data, k)
	}
	return m.err
}

// mockNotifier запоминает опубликованные события
type mockNotifier struct {
	mu     sync.Mutex
	events []model.ChangeEvent
	err    error
}

func (m *mockNotifier) Notify(resource string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var e model.ChangeEvent
	_ = json.Unmarshal(data, &e)
	m.events = append(m.events, e)
	return m.err
}

type mockTaskRepo struct {
	listFn       func(ctx context.Context, board string) ([]model.PendingTask, error)
	createFn     func(ctx context.Context, t model.PendingTask) (*model.PendingTask, error)
	completedFn  func(ctx context.Context, board string, id uuid.UUID, completed bool) error
	importanceFn func(ctx context.Context, board string, id uuid.UUID, importance model.Importance) error
}

func (m *mockTaskRepo) ListTasks(ctx context.Context, board string) ([]model.PendingTask, error) {
	return m.listFn(ctx, board)
}
func (m *mockTaskRepo) CreateTask(ctx context.Context, t model.PendingTask) (*model.PendingTask, error) {
	return m.createFn(ctx, t)
}
func (m *mockTaskRepo) SetTaskCompleted(ctx context.Context, board string, id uuid.UUID, completed bool) error {
	return m.completedFn(ctx, board, id, completed)
}
func (m *mockTaskRepo) SetTaskImportance(ctx context.Context, board string, id uuid.UUID, importance model.Importance) error {
	return m.importanceFn(ctx, board, id, importance)
}

type mockChecklistRepo struct {
	listFn     func(ctx context.Context) ([]model.ChecklistEntry, error)
	createFn   func(ctx context.Context, person string, onboarding time.Time) (*model.ChecklistEntry, error)
	toggleFn   func(ctx context.Context, person string, check model.ChecklistCheck) (*model.ChecklistEntry, error)
	commentsFn func(ctx context.Context, person string, comments *string) error
}

func (m *mockChecklistRepo) ListChecklist(ctx context.Context) ([]model.ChecklistEntry, error) {
	return m.listFn(ctx)
}
func (m *mockChecklistRepo) CreateChecklistEntry(ctx context.Context, person string, onboarding time.Time) (*model.ChecklistEntry, error) {
	return m.createFn(ctx, person, onboarding)
}
func (m *mockChecklistRepo) ToggleCheck(ctx context.Context, person string, check model.ChecklistCheck) (*model.ChecklistEntry, error) {
	return m.toggleFn(ctx, person, check)
}
func (m *mockChecklistRepo) UpdateComments(ctx context.Context, person string, comments *string) error {
	return m.commentsFn(ctx, person, comments)
}

type mockTicketRepo struct {
	listFn   func(ctx context.Context) ([]model.Ticket, error)
	createFn func(ctx context.Context, t model.Ticket) (*model.Ticket, error)
	updateFn func(ctx context.Context, id uuid.UUID, status *model.TicketStatus, priority *model.TicketPriority) (*model.Ticket, error)
}

func (m *mockTicketRepo) ListTickets(ctx context.Context) ([]model.Ticket, error) {
	return m.listFn(ctx)
}
func (m *mockTicketRepo) CreateTicket(ctx context.Context, t model.Ticket) (*model.Ticket, error) {
	return m.createFn(ctx, t)
}
func (m *mockTicketRepo) UpdateTicket(ctx context.Context, id uuid.UUID, status *model.TicketStatus, priority *model.TicketPriority) (*model.Ticket, error) {
	return m.updateFn(ctx, id, status, priority)
}

type mockInsuredRepo struct {
	listFn   func(ctx context.Context) ([]model.InsuredComputer, error)
	createFn func(ctx context.Context, c model.InsuredComputer) (*model.InsuredComputer, error)
}

func (m *mockInsuredRepo) ListInsured(ctx context.Context) ([]model.InsuredComputer, error) {
	return m.listFn(ctx)
}
func (m *mockInsuredRepo) CreateInsured(ctx context.Context, c model.InsuredComputer) (*model.InsuredComputer, error) {
	return m.createFn(ctx, c)
}

func ptr[T any](v T) *T { return &v }

var discard = logger.Discard()
