package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode"

	"github.com/freigent-ai/freigent/internal/hub"
	"github.com/freigent-ai/freigent/internal/orchestrator"
	"github.com/freigent-ai/freigent/internal/recommend"
	"github.com/freigent-ai/freigent/internal/store"
	"github.com/freigent-ai/freigent/internal/worker"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	profiles store.ProfileStore
	hub      *hub.Hub
	gen      recommend.Generator
	worker   *worker.Worker
	orch     *orchestrator.Orchestrator
}

// NewHandler creates a new Handler with the given dependencies.
func NewHandler(profiles store.ProfileStore, h *hub.Hub, gen recommend.Generator, w *worker.Worker, orch *orchestrator.Orchestrator) *Handler {
	return &Handler{profiles: profiles, hub: h, gen: gen, worker: w, orch: orch}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// sanitizeID trims an agent/user id and limits it to 100 characters,
// removing control characters.
func sanitizeID(id string) string {
	id = strings.TrimSpace(id)

	// Remove control characters
	id = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, id)

	// Limit to 100 characters
	if len(id) > 100 {
		id = id[:100]
	}

	return id
}
