// backend-go/internal/possync/handler.go
package possync

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// Handler exposes the sync daemon's status and a manual trigger over HTTP.
type Handler struct {
	syncer *Syncer
}

func NewHandler(syncer *Syncer) *Handler {
	return &Handler{syncer: syncer}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/status", h.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/sync", h.handleSync).Methods(http.MethodPost)
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.syncer.Status())
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	if err := h.syncer.SyncOnce(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, h.syncer.Status())
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
