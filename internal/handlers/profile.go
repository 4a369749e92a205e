package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freigent-ai/freigent/internal/metrics"
	"github.com/freigent-ai/freigent/internal/models"
)

// UpsertProfileResponse represents the profile upsert response.
type UpsertProfileResponse struct {
	Status         string `json:"status"`
	UserID         string `json:"user_id"`
	NumExperiences int    `json:"num_experiences"`
}

// ProfileResponse represents the profile lookup response.
type ProfileResponse struct {
	UserID  string             `json:"user_id"`
	Profile models.UserProfile `json:"profile"`
}

// UpsertProfile stores or updates a user's profile and auto-registers
// the user as a freigent agent in both the database and the hub, so it
// can be discovered as a helper in later auto searches.
func (h *Handler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID := sanitizeID(chi.URLParam(r, "user_id"))
	if userID == "" {
		h.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}

	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	for _, exp := range profile.Experiences {
		if exp.Rating < 1 || exp.Rating > 5 {
			h.Error(w, http.StatusUnprocessableEntity, "experience rating must be between 1 and 5")
			return
		}
	}

	if err := h.profiles.UpsertProfile(r.Context(), userID, &profile); err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to store profile")
		return
	}

	rec := models.AgentRecord{
		AgentID:            userID,
		AgentType:          models.AgentTypeFreigent,
		DisplayName:        profile.Name,
		PersonalitySummary: profile.Personality,
	}
	if err := h.profiles.UpsertAgent(r.Context(), rec); err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to register agent")
		return
	}
	h.hub.RegisterAgent(rec.AgentID, rec.AgentType, rec.DisplayName, rec.PersonalitySummary)
	metrics.AgentsRegistered.Inc()

	h.JSON(w, http.StatusOK, UpsertProfileResponse{
		Status:         "ok",
		UserID:         userID,
		NumExperiences: len(profile.Experiences),
	})
}

// GetProfile returns a stored profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := sanitizeID(chi.URLParam(r, "user_id"))

	profile, err := h.profiles.LoadProfile(r.Context(), userID)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if profile == nil {
		h.Error(w, http.StatusNotFound, "no profile found for user_id "+userID)
		return
	}

	h.JSON(w, http.StatusOK, ProfileResponse{UserID: userID, Profile: *profile})
}
