package models

// Payload type values understood by the recommendation worker. The hub
// itself treats payloads as opaque; only the worker and orchestrator
// impose this convention.
const (
	TypeRecommendationRequest  = "recommendation_request"
	TypeRecommendationResponse = "recommendation_response"
	TypeRecommendationError    = "recommendation_error"
)

// A2AMessage represents one agent-to-agent message delivered through the hub.
// Messages are immutable after creation.
type A2AMessage struct {
	ID      string         `json:"message_id"` // ULID, hub-generated at send time
	FromID  string         `json:"from_agent_id"`
	ToID    string         `json:"to_agent_id"`
	Payload map[string]any `json:"payload"`
}

// PayloadType returns the payload's "type" discriminator, or "" if unset.
func (m A2AMessage) PayloadType() string {
	t, _ := m.Payload["type"].(string)
	return t
}
