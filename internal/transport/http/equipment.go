package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"ITOpsDashboard/internal/analytics"
	"ITOpsDashboard/internal/model"
	"ITOpsDashboard/internal/service"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ListEquipment обрабатывает GET /equipment?q=
func (h *Handler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	assets, err := h.srv.Equipment.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"equipment": assets, "total": len(assets)})
}

// CreateEquipment обрабатывает POST /equipment
func (h *Handler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var req service.CreateAssetInput
	if !decodeBody(w, r, &req) {
		return
	}
	asset, err := h.srv.Equipment.Create(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err, "serial_number")
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

// UpdateEquipment обрабатывает PATCH /equipment/{serial} с телом {field, value}
func (h *Handler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	serial := mux.Vars(r)["serial"]
	var req struct {
		Field string          `json:"field"`
		Value json.RawMessage `json:"value"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Field) == "" {
		writeError(w, http.StatusBadRequest, ErrorResponse{codeBadRequest, "errors.common.validation", map[string]string{"field": "required"}})
		return
	}
	field := model.AssetField(req.Field)
	if err := h.srv.Equipment.UpdateField(r.Context(), serial, field, req.Value); err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"serial_number": serial, "field": field, "updated": true})
}

// ExportCSV обрабатывает GET /equipment/export.csv
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, h.srv.Equipment.ExportCSV, contentTypeCSV, "equipment.csv")
}

// ExportXLSX обрабатывает GET /equipment/export.xlsx
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, h.srv.Equipment.ExportXLSX, contentTypeXLSX, "equipment.xlsx")
}

// export собирает файл в буфер целиком, чтобы ошибка выборки не оставила обрезанный ответ
func (h *Handler) export(w http.ResponseWriter, r *http.Request, write func(context.Context, io.Writer) error, contentType, filename string) {
	var buf bytes.Buffer
	if err := write(r.Context(), &buf); err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Charts обрабатывает GET /equipment/charts?range=&company=
func (h *Handler) Charts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	charts, err := h.srv.Equipment.Charts(r.Context(), analytics.Filter{
		Range:   analytics.Range(q.Get("range")),
		Company: q.Get("company"),
	})
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, charts)
}
