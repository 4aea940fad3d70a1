package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"ITOpsDashboard/internal/model"
)

// TaskRepo хранилище задач досок
type TaskRepo interface {
	ListTasks(ctx context.Context, board string) ([]model.PendingTask, error)
	CreateTask(ctx context.Context, t model.PendingTask) (*model.PendingTask, error)
	SetTaskCompleted(ctx context.Context, board string, id uuid.UUID, completed bool) error
	SetTaskImportance(ctx context.Context, board string, id uuid.UUID, importance model.Importance) error
}

// TaskBoard задачи доски с прогрессом
type TaskBoard struct {
	Board     string              `json:"board"`
	Tasks     []model.PendingTask `json:"tasks"`
	Completed int                 `json:"completed"`
	Total     int                 `json:"total"`
}

// CreateTaskInput данные формы новой задачи
type CreateTaskInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	DueDate     *string `json:"due_date"`
	Importance  string  `json:"importance"`
}

// UpdateTaskInput изменение задачи; nil поля не меняются
type UpdateTaskInput struct {
	Completed  *bool   `json:"completed"`
	Importance *string `json:"importance"`
}

// TaskService задачи на досках из конфигурации
type TaskService struct {
	repo     TaskRepo
	notifier Notifier
	log      *slog.Logger
	boards   map[string]struct{}
	newID    func() uuid.UUID
}

// NewTaskService создаёт сервис для перечисленных досок
func NewTaskService(r TaskRepo, n Notifier, log *slog.Logger, boards []string) *TaskService {
	set := make(map[string]struct{}, len(boards))
	for _, b := range boards {
		set[b] = struct{}{}
	}
	return &TaskService{repo: r, notifier: n, log: log, boards: set, newID: uuid.New}
}

func (s *TaskService) checkBoard(board string) error {
	if _, ok := s.boards[board]; !ok {
		return ErrUnknownBoard
	}
	return nil
}

// List возвращает задачи доски и число выполненных
func (s *TaskService) List(ctx context.Context, board string) (*TaskBoard, error) {
	if err := s.checkBoard(board); err != nil {
		return nil, err
	}
	tasks, err := s.repo.ListTasks(ctx, board)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.PendingTask{}
	}
	res := &TaskBoard{Board: board, Tasks: tasks, Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			res.Completed++
		}
	}
	return res, nil
}

// Create добавляет задачу: заголовок обязателен, важность по умолчанию media
func (s *TaskService) Create(ctx context.Context, board string, in CreateTaskInput) (*model.PendingTask, error) {
	if err := s.checkBoard(board); err != nil {
		return nil, err
	}
	v := validator{}
	t := model.PendingTask{
		ID:          s.newID(),
		Board:       board,
		Title:       strings.TrimSpace(in.Title),
		Description: trimOptional(in.Description),
		Importance:  model.ImportanceMedium,
	}
	if t.Title == "" {
		v.add("title", "required")
	}
	if in.Importance != "" {
		t.Importance = model.Importance(in.Importance)
		if !t.Importance.Valid() {
			v.add("importance", "must be one of baja, media, alta, critica")
		}
	}
	var err error
	if t.StartDate, err = parseOptionalDate(in.StartDate); err != nil {
		v.add("start_date", "expected YYYY-MM-DD")
	}
	if t.DueDate, err = parseOptionalDate(in.DueDate); err != nil {
		v.add("due_date", "expected YYYY-MM-DD")
	}
	if t.StartDate != nil && t.DueDate != nil && t.DueDate.Before(*t.StartDate) {
		v.add("due_date", "must not be before start_date")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateTask(ctx, t)
	if err != nil {
		return nil, err
	}
	publishChange(s.notifier, s.log, model.TasksResource(board), model.ActionInsert, created.ID.String())
	return created, nil
}

// Update меняет отметку выполнения и/или важность задачи
func (s *TaskService) Update(ctx context.Context, board string, id uuid.UUID, in UpdateTaskInput) error {
	if err := s.checkBoard(board); err != nil {
		return err
	}
	if in.Completed == nil && in.Importance == nil {
		return fieldError("body", "completed or importance required")
	}
	if in.Importance != nil && !model.Importance(*in.Importance).Valid() {
		return fieldError("importance", "must be one of baja, media, alta, critica")
	}
	if in.Completed != nil {
		if err := s.repo.SetTaskCompleted(ctx, board, id, *in.Completed); err != nil {
			return err
		}
	}
	if in.Importance != nil {
		if err := s.repo.SetTaskImportance(ctx, board, id, model.Importance(*in.Importance)); err != nil {
			return err
		}
	}
	publishChange(s.notifier, s.log, model.TasksResource(board), model.ActionUpdate, id.String())
	return nil
}
