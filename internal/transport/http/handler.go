package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"ITOpsDashboard/internal/analytics"
	"ITOpsDashboard/internal/model"
	"ITOpsDashboard/internal/repository"
	"ITOpsDashboard/internal/service"
	"ITOpsDashboard/pkg/logger"
)

// EquipmentService бизнес-логика оборудования, используемая хендлером
type EquipmentService interface {
	List(ctx context.Context, query string) ([]model.Asset, error)
	Create(ctx context.Context, in service.CreateAssetInput) (*model.NewAsset, error)
	UpdateField(ctx context.Context, serial string, field model.AssetField, raw json.RawMessage) error
	ExportCSV(ctx context.Context, w io.Writer) error
	ExportXLSX(ctx context.Context, w io.Writer) error
	Charts(ctx context.Context, f analytics.Filter) (*analytics.Charts, error)
}

// Services сервисы, которые обслуживает HTTP-слой
type Services struct {
	Equipment EquipmentService
	Tasks     TaskService
	Checklist ChecklistService
	Tickets   TicketService
	Insured   InsuredService
}

// Handler содержит зависимости и реализует HTTP-эндпоинты дашборда
type Handler struct {
	srv    Services
	events Subscriber
	ready  func(ctx context.Context) error
	log    *slog.Logger
}

// NewHandler создаёт новый HTTP Handler. ready проверяет зависимости для /readyz, может быть nil
func NewHandler(srv Services, events Subscriber, ready func(ctx context.Context) error, log *slog.Logger) *Handler {
	return &Handler{srv: srv, events: events, ready: ready, log: log}
}

// RegisterRoutes регистрирует маршруты API
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", h.Healthz).Methods("GET")
	r.HandleFunc("/readyz", h.Readyz).Methods("GET")

	// статические пути регистрируются раньше /equipment/{serial}
	r.HandleFunc("/equipment/export.csv", h.ExportCSV).Methods("GET")
	r.HandleFunc("/equipment/export.xlsx", h.ExportXLSX).Methods("GET")
	r.HandleFunc("/equipment/charts", h.Charts).Methods("GET")
	r.HandleFunc("/equipment", h.ListEquipment).Methods("GET")
	r.HandleFunc("/equipment", h.CreateEquipment).Methods("POST")
	r.HandleFunc("/equipment/{serial}", h.UpdateEquipment).Methods("PATCH")

	r.HandleFunc("/boards/{board}/tasks", h.ListTasks).Methods("GET")
	r.HandleFunc("/boards/{board}/tasks", h.CreateTask).Methods("POST")
	r.HandleFunc("/boards/{board}/tasks/{id}", h.UpdateTask).Methods("PATCH")

	r.HandleFunc("/checklist", h.ListChecklist).Methods("GET")
	r.HandleFunc("/checklist", h.CreateChecklist).Methods("POST")
	r.HandleFunc("/checklist/{person}/toggle", h.ToggleCheck).Methods("PATCH")
	r.HandleFunc("/checklist/{person}/comments", h.UpdateComments).Methods("PATCH")

	r.HandleFunc("/tickets", h.ListTickets).Methods("GET")
	r.HandleFunc("/tickets", h.CreateTicket).Methods("POST")
	r.HandleFunc("/tickets/{id}", h.UpdateTicket).Methods("PATCH")

	r.HandleFunc("/insured", h.ListInsured).Methods("GET")
	r.HandleFunc("/insured", h.CreateInsured).Methods("POST")

	r.HandleFunc("/events/{resource}", h.Events).Methods("GET")
}

// коды ErrorResponse
const (
	codeBadRequest  = 1
	codeConflict    = 2
	codeNotFound    = 3
	codeTooMany     = 4
	codeInternal    = 5
	codeUnavailable = 6
)

// ErrorResponse модель ошибки API
type ErrorResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

func writeError(w http.ResponseWriter, status int, resp ErrorResponse) {
	if resp.Details == nil {
		resp.Details = map[string]interface{}{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, ErrorResponse{codeBadRequest, msg, nil})
}

// decodeBody читает JSON-тело запроса; при ошибке отвечает 400 и возвращает false
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		badRequest(w, "invalid request body")
		return false
	}
	return true
}

// writeServiceError переводит ошибку сервиса в HTTP-ответ.
// dupField поле, на которое указывает 409 при нарушении уникальности.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, dupField string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ErrorResponse{codeBadRequest, "errors.common.validation", ve.Fields})
	case errors.Is(err, repository.ErrDuplicate):
		writeError(w, http.StatusConflict, ErrorResponse{codeConflict, "errors.common.duplicate", map[string]string{dupField: "already exists"}})
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrUnknownBoard):
		writeError(w, http.StatusNotFound, ErrorResponse{codeNotFound, "errors.common.notFound", nil})
	case errors.Is(err, repository.ErrReadOnlyField):
		writeError(w, http.StatusBadRequest, ErrorResponse{codeBadRequest, "errors.common.readOnly", map[string]string{"field": "read-only"}})
	default:
		h.log.Error("request failed", slog.String("method", r.Method), slog.String("path", r.URL.Path), logger.Err(err))
		writeError(w, http.StatusInternalServerError, ErrorResponse{codeInternal, "errors.common.internal", nil})
	}
}

// Healthz возвращает статус работы сервиса
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Readyz возвращает готовность сервиса: Postgres и Redis доступны
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			h.log.Warn("not ready", logger.Err(err))
			writeError(w, http.StatusServiceUnavailable, ErrorResponse{codeUnavailable, "not ready", nil})
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}
