package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"ITOpsDashboard/internal/model"
	"ITOpsDashboard/internal/service"
)

// TaskService задачи досок
type TaskService interface {
	List(ctx context.Context, board string) (*service.TaskBoard, error)
	Create(ctx context.Context, board string, in service.CreateTaskInput) (*model.PendingTask, error)
	Update(ctx context.Context, board string, id uuid.UUID, in service.UpdateTaskInput) error
}

// ChecklistService чек-лист онбординга
type ChecklistService interface {
	List(ctx context.Context) (*service.ChecklistView, error)
	Create(ctx context.Context, in service.CreateChecklistInput) (*service.ChecklistRow, error)
	Toggle(ctx context.Context, person string, check string) (*service.ChecklistRow, error)
	UpdateComments(ctx context.Context, person string, comments *string) error
}

// TicketService тикеты поддержки
type TicketService interface {
	List(ctx context.Context) (*service.TicketList, error)
	Create(ctx context.Context, in service.CreateTicketInput) (*model.Ticket, error)
	Update(ctx context.Context, id uuid.UUID, in service.UpdateTicketInput) (*model.Ticket, error)
}

// InsuredService застрахованные компьютеры
type InsuredService interface {
	List(ctx context.Context) (*service.InsuredList, error)
	Create(ctx context.Context, in service.CreateInsuredInput) (*model.InsuredComputer, error)
}

// parseID извлекает uuid из пути; при ошибке отвечает 400
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		badRequest(w, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// ListTasks обрабатывает GET /boards/{board}/tasks
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	board, err := h.srv.Tasks.List(r.Context(), mux.Vars(r)["board"])
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// CreateTask обрабатывает POST /boards/{board}/tasks
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTaskInput
	if !decodeBody(w, r, &req) {
		return
	}
	task, err := h.srv.Tasks.Create(r.Context(), mux.Vars(r)["board"], req)
	if err != nil {
		h.writeServiceError(w, r, err, "id")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// UpdateTask обрабатывает PATCH /boards/{board}/tasks/{id} с телом {completed?, importance?}
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req service.UpdateTaskInput
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.srv.Tasks.Update(r.Context(), mux.Vars(r)["board"], id, req); err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "updated": true})
}

// ListChecklist обрабатывает GET /checklist
func (h *Handler) ListChecklist(w http.ResponseWriter, r *http.Request) {
	view, err := h.srv.Checklist.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// CreateChecklist обрабатывает POST /checklist
func (h *Handler) CreateChecklist(w http.ResponseWriter, r *http.Request) {
	var req service.CreateChecklistInput
	if !decodeBody(w, r, &req) {
		return
	}
	row, err := h.srv.Checklist.Create(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err, "person_name")
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

// ToggleCheck обрабатывает PATCH /checklist/{person}/toggle с телом {check}
func (h *Handler) ToggleCheck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Check string `json:"check"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	row, err := h.srv.Checklist.Toggle(r.Context(), mux.Vars(r)["person"], req.Check)
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// UpdateComments обрабатывает PATCH /checklist/{person}/comments с телом {comments}
func (h *Handler) UpdateComments(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Comments *string `json:"comments"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	person := mux.Vars(r)["person"]
	if err := h.srv.Checklist.UpdateComments(r.Context(), person, req.Comments); err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"person_name": person, "updated": true})
}

// ListTickets обрабатывает GET /tickets
func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	list, err := h.srv.Tickets.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateTicket обрабатывает POST /tickets
func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTicketInput
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := h.srv.Tickets.Create(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err, "id")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// UpdateTicket обрабатывает PATCH /tickets/{id} с телом {status?, priority?}
func (h *Handler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req service.UpdateTicketInput
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := h.srv.Tickets.Update(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ListInsured обрабатывает GET /insured
func (h *Handler) ListInsured(w http.ResponseWriter, r *http.Request) {
	list, err := h.srv.Insured.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateInsured обрабатывает POST /insured
func (h *Handler) CreateInsured(w http.ResponseWriter, r *http.Request) {
	var req service.CreateInsuredInput
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := h.srv.Insured.Create(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err, "serial_number")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
