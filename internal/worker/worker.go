// Package worker drains one agent's mailbox and answers recommendation
// requests found there.
package worker

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/freigent-ai/freigent/internal/hub"
	"github.com/freigent-ai/freigent/internal/metrics"
	"github.com/freigent-ai/freigent/internal/models"
	"github.com/freigent-ai/freigent/internal/recommend"
	"github.com/freigent-ai/freigent/internal/store"
)

// Outcome statuses recorded per examined message.
const (
	StatusOK      = "ok"
	StatusIgnored = "ignored"
	StatusError   = "error"
)

// Outcome summarizes how one inbox message was handled.
type Outcome struct {
	RequestMessageID string `json:"request_message_id"`
	Status           string `json:"status"`
	Reason           string `json:"reason,omitempty"`
	Error            string `json:"error,omitempty"`
	SentTo           string `json:"sent_to,omitempty"`
}

// Worker processes recommendation requests queued in hub mailboxes.
type Worker struct {
	hub      *hub.Hub
	profiles store.ProfileStore
	gen      recommend.Generator
	logger   zerolog.Logger
}

// New creates a worker bound to a hub, a profile store and a generator.
func New(h *hub.Hub, profiles store.ProfileStore, gen recommend.Generator, logger zerolog.Logger) *Worker {
	return &Worker{hub: h, profiles: profiles, gen: gen, logger: logger}
}

// Process drains agentID's mailbox and handles at most maxMessages of
// the drained messages in arrival order. Excess drained messages are
// dropped, not requeued. For each examined message it records exactly
// one outcome and sends at most one reply:
//   - a payload type other than recommendation_request is ignored;
//   - a request whose profile cannot be loaded gets a
//     recommendation_error reply;
//   - otherwise the profile and query go to the generator and the
//     requester gets a recommendation_response correlated by
//     original_message_id.
func (w *Worker) Process(ctx context.Context, agentID string, maxMessages int) []Outcome {
	msgs := w.hub.GetInbox(agentID, true)
	if len(msgs) > maxMessages {
		msgs = msgs[:maxMessages]
	}

	outcomes := make([]Outcome, 0, len(msgs))
	for _, m := range msgs {
		outcome := w.processOne(ctx, agentID, m)
		metrics.RequestsProcessed.WithLabelValues(outcome.Status).Inc()
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func (w *Worker) processOne(ctx context.Context, agentID string, m models.A2AMessage) Outcome {
	msgType := m.PayloadType()
	if msgType != models.TypeRecommendationRequest {
		return Outcome{
			RequestMessageID: m.ID,
			Status:           StatusIgnored,
			Reason:           fmt.Sprintf("Unsupported payload.type '%s'", msgType),
		}
	}

	query, _ := m.Payload["query"].(string)

	// Prefer the explicit from_user_id, fall back to the sender.
	profileUserID, _ := m.Payload["from_user_id"].(string)
	if profileUserID == "" {
		profileUserID = m.FromID
	}

	profile, err := w.profiles.LoadProfile(ctx, profileUserID)
	if err != nil {
		w.logger.Error().Err(err).Str("user_id", profileUserID).Msg("profile load failed")
	}
	if profile == nil {
		errorText := fmt.Sprintf("No profile found for user_id '%s'", profileUserID)
		w.hub.SendMessage(agentID, m.FromID, map[string]any{
			"type":                models.TypeRecommendationError,
			"reason":              errorText,
			"original_message_id": m.ID,
		})
		return Outcome{
			RequestMessageID: m.ID,
			Status:           StatusError,
			Error:            errorText,
		}
	}

	result := w.gen.Generate(ctx, profile, query)

	w.hub.SendMessage(agentID, m.FromID, map[string]any{
		"type":                models.TypeRecommendationResponse,
		"original_message_id": m.ID,
		"query":               query,
		"profile_user_id":     profileUserID,
		"result":              result,
	})

	return Outcome{
		RequestMessageID: m.ID,
		Status:           StatusOK,
		SentTo:           m.FromID,
	}
}
