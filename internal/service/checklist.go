package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"ITOpsDashboard/internal/model"
)

// ChecklistRepo хранилище чек-листа онбординга
type ChecklistRepo interface {
	ListChecklist(ctx context.Context) ([]model.ChecklistEntry, error)
	CreateChecklistEntry(ctx context.Context, person string, onboarding time.Time) (*model.ChecklistEntry, error)
	ToggleCheck(ctx context.Context, person string, check model.ChecklistCheck) (*model.ChecklistEntry, error)
	UpdateComments(ctx context.Context, person string, comments *string) error
}

// ChecklistRow строка чек-листа с классификацией для подсветки
type ChecklistRow struct {
	model.ChecklistEntry
	Status model.ChecklistRowStatus `json:"row_status"`
}

// ChecklistView чек-лист с числом строк, прошедших обязательные проверки
type ChecklistView struct {
	Entries   []ChecklistRow `json:"entries"`
	Completed int            `json:"completed"`
	Total     int            `json:"total"`
}

// CreateChecklistInput данные нового сотрудника
type CreateChecklistInput struct {
	PersonName     string `json:"person_name"`
	OnboardingDate string `json:"onboarding_date"`
}

// ChecklistService чек-лист онбординга
type ChecklistService struct {
	repo     ChecklistRepo
	notifier Notifier
	log      *slog.Logger
}

// NewChecklistService создаёт сервис чек-листа
func NewChecklistService(r ChecklistRepo, n Notifier, log *slog.Logger) *ChecklistService {
	return &ChecklistService{repo: r, notifier: n, log: log}
}

// List возвращает строки с классификацией; completed считается по mandatory_ok
func (s *ChecklistService) List(ctx context.Context) (*ChecklistView, error) {
	entries, err := s.repo.ListChecklist(ctx)
	if err != nil {
		return nil, err
	}
	view := &ChecklistView{Entries: make([]ChecklistRow, 0, len(entries)), Total: len(entries)}
	for _, e := range entries {
		view.Entries = append(view.Entries, ChecklistRow{ChecklistEntry: e, Status: e.RowStatus()})
		if e.MandatoryOK {
			view.Completed++
		}
	}
	return view, nil
}

// Create добавляет сотрудника со всеми проверками false; повтор имени даёт repository.ErrDuplicate
func (s *ChecklistService) Create(ctx context.Context, in CreateChecklistInput) (*ChecklistRow, error) {
	v := validator{}
	person := strings.TrimSpace(in.PersonName)
	if person == "" {
		v.add("person_name", "required")
	}
	onboarding, err := parseDate(in.OnboardingDate)
	if err != nil {
		v.add("onboarding_date", "expected YYYY-MM-DD")
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	e, err := s.repo.CreateChecklistEntry(ctx, person, onboarding)
	if err != nil {
		return nil, err
	}
	publishChange(s.notifier, s.log, model.ResourceChecklist, model.ActionInsert, person)
	return &ChecklistRow{ChecklistEntry: *e, Status: e.RowStatus()}, nil
}

// Toggle инвертирует одну проверку сотрудника
func (s *ChecklistService) Toggle(ctx context.Context, person string, check string) (*ChecklistRow, error) {
	c := model.ChecklistCheck(check)
	if !c.Valid() {
		return nil, fieldError("check", "unknown check")
	}
	e, err := s.repo.ToggleCheck(ctx, person, c)
	if err != nil {
		return nil, err
	}
	publishChange(s.notifier, s.log, model.ResourceChecklist, model.ActionUpdate, person)
	return &ChecklistRow{ChecklistEntry: *e, Status: e.RowStatus()}, nil
}

// UpdateComments заменяет комментарий; пустая строка очищает его
func (s *ChecklistService) UpdateComments(ctx context.Context, person string, comments *string) error {
	if err := s.repo.UpdateComments(ctx, person, trimOptional(comments)); err != nil {
		return err
	}
	publishChange(s.notifier, s.log, model.ResourceChecklist, model.ActionUpdate, person)
	return nil
}
