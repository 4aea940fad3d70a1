package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"ITOpsDashboard/internal/model"
)

// Subscriber источник уведомлений об изменениях внутри процесса (notify.Hub)
type Subscriber interface {
	Subscribe(resource string) (<-chan []byte, func())
}

// heartbeatInterval период комментария-пинга, чтобы прокси не закрывали поток
var heartbeatInterval = 15 * time.Second

// knownResource ресурсы, на которые можно подписаться
func knownResource(resource string) bool {
	switch resource {
	case model.ResourceEquipment, model.ResourceChecklist, model.ResourceTickets, model.ResourceInsured:
		return true
	}
	board := strings.TrimPrefix(resource, model.ResourceTasksPrefix+".")
	return board != resource && board != ""
}

// Events обрабатывает GET /events/{resource}: поток Server-Sent Events с
// уведомлениями об изменениях ресурса. Данные события совпадают с сообщением в NATS.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	resource := mux.Vars(r)["resource"]
	if !knownResource(resource) {
		writeError(w, http.StatusNotFound, ErrorResponse{codeNotFound, "errors.common.notFound", nil})
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok || h.events == nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{codeInternal, "streaming unsupported", nil})
		return
	}

	ch, cancel := h.events.Subscribe(resource)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case data, ok := <-ch:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: change\ndata: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
