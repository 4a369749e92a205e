package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freigent-ai/freigent/internal/metrics"
	"github.com/freigent-ai/freigent/internal/models"
)

// RegisterAgentRequest represents the hub registration request body.
type RegisterAgentRequest struct {
	AgentID            string `json:"agent_id"`
	AgentType          string `json:"agent_type"`
	DisplayName        string `json:"display_name"`
	PersonalitySummary string `json:"personality_summary"`
}

// SendMessageRequest represents the A2A send request body.
type SendMessageRequest struct {
	FromAgentID string         `json:"from_agent_id"`
	ToAgentID   string         `json:"to_agent_id"`
	Payload     map[string]any `json:"payload"`
}

// RegisterAgent registers an agent in the hub directory. Registration
// is idempotent and only affects in-memory hub state, not the database.
func (h *Handler) RegisterAgent(w http.ResponseWriter, r *http.Request) {
	var req RegisterAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.AgentID = sanitizeID(req.AgentID)
	if req.AgentID == "" {
		h.Error(w, http.StatusBadRequest, "agent_id is required")
		return
	}
	if req.AgentType == "" {
		req.AgentType = models.AgentTypeFreigent
	}

	rec := h.hub.RegisterAgent(req.AgentID, req.AgentType, req.DisplayName, req.PersonalitySummary)
	metrics.AgentsRegistered.Inc()

	h.JSON(w, http.StatusOK, rec)
}

// ListAgents lists all agents registered in the hub, in first-seen order.
func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, h.hub.ListAgents())
}

// SendMessage delivers an A2A message through the hub.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.FromAgentID = sanitizeID(req.FromAgentID)
	req.ToAgentID = sanitizeID(req.ToAgentID)
	if req.FromAgentID == "" || req.ToAgentID == "" {
		h.Error(w, http.StatusBadRequest, "from_agent_id and to_agent_id are required")
		return
	}

	msg := h.hub.SendMessage(req.FromAgentID, req.ToAgentID, req.Payload)
	metrics.MessagesSent.Inc()

	h.JSON(w, http.StatusOK, msg)
}

// GetInbox returns and clears an agent's pending messages.
func (h *Handler) GetInbox(w http.ResponseWriter, r *http.Request) {
	agentID := sanitizeID(chi.URLParam(r, "agent_id"))

	msgs := h.hub.GetInbox(agentID, true)
	if msgs == nil {
		msgs = []models.A2AMessage{}
	}

	h.JSON(w, http.StatusOK, msgs)
}
