package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freigent-ai/freigent/internal/store"
)

// SearchRequest represents the search request body.
type SearchRequest struct {
	Query string `json:"query"`
}

// Search handles single-agent recommendations: stored profile + query
// go straight to the generator, no hub involved.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	userID := sanitizeID(chi.URLParam(r, "user_id"))

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Query == "" {
		h.Error(w, http.StatusBadRequest, "query is required")
		return
	}

	profile, err := h.profiles.LoadProfile(r.Context(), userID)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if profile == nil {
		h.Error(w, http.StatusBadRequest, fmt.Sprintf(
			"No profile stored for user_id '%s'. Call POST /freigent/%s/profile first.", userID, userID))
		return
	}

	result := h.gen.Generate(r.Context(), profile, req.Query)
	h.JSON(w, http.StatusOK, result)
}

// AutoSearch handles the multi-agent recommendation flow: base result
// plus helper agents consulted through the hub.
func (h *Handler) AutoSearch(w http.ResponseWriter, r *http.Request) {
	userID := sanitizeID(chi.URLParam(r, "user_id"))

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Query == "" {
		h.Error(w, http.StatusBadRequest, "query is required")
		return
	}

	result, err := h.orch.AutoSearch(r.Context(), userID, req.Query)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			h.Error(w, http.StatusBadRequest, fmt.Sprintf(
				"No profile stored for user_id '%s'. Call POST /freigent/%s/profile first.", userID, userID))
			return
		}
		h.Error(w, http.StatusInternalServerError, "auto search failed")
		return
	}

	h.JSON(w, http.StatusOK, result)
}
