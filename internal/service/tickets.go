package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"ITOpsDashboard/internal/model"
)

// TicketRepo хранилище тикетов
type TicketRepo interface {
	ListTickets(ctx context.Context) ([]model.Ticket, error)
	CreateTicket(ctx context.Context, t model.Ticket) (*model.Ticket, error)
	UpdateTicket(ctx context.Context, id uuid.UUID, status *model.TicketStatus, priority *model.TicketPriority) (*model.Ticket, error)
}

// TicketList тикеты с числом открытых
type TicketList struct {
	Tickets []model.Ticket `json:"tickets"`
	Open    int            `json:"open"`
	Total   int            `json:"total"`
}

// CreateTicketInput данные нового тикета
type CreateTicketInput struct {
	Title       string `json:"title"`
	Area        string `json:"area"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// UpdateTicketInput изменение статуса и/или приоритета
type UpdateTicketInput struct {
	Status   *string `json:"status"`
	Priority *string `json:"priority"`
}

// TicketService тикеты поддержки
type TicketService struct {
	repo     TicketRepo
	notifier Notifier
	log      *slog.Logger
	newID    func() uuid.UUID
}

// NewTicketService создаёт сервис тикетов
func NewTicketService(r TicketRepo, n Notifier, log *slog.Logger) *TicketService {
	return &TicketService{repo: r, notifier: n, log: log, newID: uuid.New}
}

// List возвращает все тикеты; open считает только статус open
func (s *TicketService) List(ctx context.Context) (*TicketList, error) {
	tickets, err := s.repo.ListTickets(ctx)
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []model.Ticket{}
	}
	res := &TicketList{Tickets: tickets, Total: len(tickets)}
	for _, t := range tickets {
		if t.Status == model.TicketOpen {
			res.Open++
		}
	}
	return res, nil
}

// Create открывает тикет: заголовок и область обязательны, приоритет по умолчанию medium
func (s *TicketService) Create(ctx context.Context, in CreateTicketInput) (*model.Ticket, error) {
	v := validator{}
	t := model.Ticket{
		ID:          s.newID(),
		Title:       strings.TrimSpace(in.Title),
		Area:        strings.TrimSpace(in.Area),
		Description: strings.TrimSpace(in.Description),
		Status:      model.TicketOpen,
		Priority:    model.PriorityMedium,
	}
	if t.Title == "" {
		v.add("title", "required")
	}
	if t.Area == "" {
		v.add("area", "required")
	} else if !model.ValidTicketArea(t.Area) {
		v.add("area", "unknown area")
	}
	if in.Priority != "" {
		t.Priority = model.TicketPriority(in.Priority)
		if !t.Priority.Valid() {
			v.add("priority", "must be one of low, medium, high, urgent")
		}
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	created, err := s.repo.CreateTicket(ctx, t)
	if err != nil {
		return nil, err
	}
	publishChange(s.notifier, s.log, model.ResourceTickets, model.ActionInsert, created.ID.String())
	return created, nil
}

// Update меняет статус и приоритет независимо; переходы статусов не ограничены
func (s *TicketService) Update(ctx context.Context, id uuid.UUID, in UpdateTicketInput) (*model.Ticket, error) {
	if in.Status == nil && in.Priority == nil {
		return nil, fieldError("body", "status or priority required")
	}
	v := validator{}
	var (
		status   *model.TicketStatus
		priority *model.TicketPriority
	)
	if in.Status != nil {
		st := model.TicketStatus(*in.Status)
		if !st.Valid() {
			v.add("status", "must be one of open, in_progress, resolved, closed")
		}
		status = &st
	}
	if in.Priority != nil {
		pr := model.TicketPriority(*in.Priority)
		if !pr.Valid() {
			v.add("priority", "must be one of low, medium, high, urgent")
		}
		priority = &pr
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	t, err := s.repo.UpdateTicket(ctx, id, status, priority)
	if err != nil {
		return nil, err
	}
	publishChange(s.notifier, s.log, model.ResourceTickets, model.ActionUpdate, id.String())
	return t, nil
}
