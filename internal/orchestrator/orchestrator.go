// Package orchestrator runs the multi-agent auto search: one base
// recommendation plus a sequential fan-out to helper agents through the
// hub, with responses collected back at the base agent's mailbox.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/freigent-ai/freigent/internal/hub"
	"github.com/freigent-ai/freigent/internal/metrics"
	"github.com/freigent-ai/freigent/internal/models"
	"github.com/freigent-ai/freigent/internal/recommend"
	"github.com/freigent-ai/freigent/internal/store"
	"github.com/freigent-ai/freigent/internal/worker"
)

// maxHelperMessages caps how many inbox messages one helper handles per
// run. Excess drained messages are dropped by the worker.
const maxHelperMessages = 10

// HelperResult is one helper agent's answer, keyed by its sender.
type HelperResult struct {
	AgentID string                      `json:"agent_id"`
	Result  models.RecommendationResult `json:"result"`
}

// AutoSearchResult is the merged output of one orchestration run.
type AutoSearchResult struct {
	BaseAgentID    string                      `json:"base_agent_id"`
	HelperAgentIDs []string                    `json:"helper_agent_ids"`
	BaseResult     models.RecommendationResult `json:"base_result"`
	HelperResults  []HelperResult              `json:"helper_results"`
	MergedProducts []models.Product            `json:"merged_products"`
	MergedSummary  string                      `json:"merged_summary_for_user"`
}

// Orchestrator coordinates base lookup, helper discovery, request
// fan-out, per-helper dispatch and response fan-in. It keeps no state
// across runs; concurrent runs for the same base id must be serialized
// by the caller.
type Orchestrator struct {
	hub      *hub.Hub
	profiles store.ProfileStore
	gen      recommend.Generator
	worker   *worker.Worker
	logger   zerolog.Logger
}

// New creates an orchestrator over the shared hub, store and generator.
func New(h *hub.Hub, profiles store.ProfileStore, gen recommend.Generator, w *worker.Worker, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{hub: h, profiles: profiles, gen: gen, worker: w, logger: logger}
}

// AutoSearch runs the full fan-out/fan-in flow for one base user and
// query. Only a missing base profile aborts the run; every per-helper
// failure degrades to that helper contributing nothing. Helpers are
// handled strictly sequentially, so merged product order is base
// products followed by helper products in discovery order.
func (o *Orchestrator) AutoSearch(ctx context.Context, userID, query string) (*AutoSearchResult, error) {
	runID := uuid.New().String()
	logger := o.logger.With().Str("run_id", runID).Str("base_agent_id", userID).Logger()

	// Resolve the base profile; absence is the only fatal failure.
	profile, err := o.profiles.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: user_id %q", store.ErrProfileNotFound, userID)
	}

	metrics.AutoSearches.Inc()

	// Base recommendation.
	baseResult := o.gen.Generate(ctx, profile, query)

	// Discover helper agents with stored profiles.
	helperIDs, err := o.profiles.ListHelperAgentIDs(ctx, userID, models.AgentTypeFreigent)
	if err != nil {
		logger.Error().Err(err).Msg("helper discovery failed, continuing with base result only")
		helperIDs = nil
	}
	logger.Info().Int("helpers", len(helperIDs)).Str("query", query).Msg("auto search started")

	// Make sure helpers still loadable are registered in the hub so
	// their mailboxes exist. A helper whose profile vanished since
	// discovery is skipped here and will answer with an error later.
	for _, hid := range helperIDs {
		prof, err := o.profiles.LoadProfile(ctx, hid)
		if err != nil || prof == nil {
			continue
		}
		o.hub.RegisterAgent(hid, models.AgentTypeFreigent, prof.Name, prof.Personality)
	}

	// Fan-out: one recommendation_request per helper.
	for _, hid := range helperIDs {
		o.hub.SendMessage(userID, hid, map[string]any{
			"type":         models.TypeRecommendationRequest,
			"from_user_id": userID,
			"query":        query,
		})
	}

	// Dispatch: each helper synchronously drains its own mailbox. This
	// answers the request just sent plus anything queued earlier.
	for _, hid := range helperIDs {
		o.worker.Process(ctx, hid, maxHelperMessages)
	}

	// Fan-in: drain the base agent's mailbox once and keep the
	// recommendation responses. Other payload types are dropped.
	incoming := o.hub.GetInbox(userID, true)

	helperResults := make([]HelperResult, 0, len(incoming))
	merged := make([]models.Product, 0, len(baseResult.Products))
	merged = append(merged, baseResult.Products...)

	for _, msg := range incoming {
		if msg.PayloadType() != models.TypeRecommendationResponse {
			continue
		}

		result, _ := msg.Payload["result"].(models.RecommendationResult)
		helperResults = append(helperResults, HelperResult{
			AgentID: msg.FromID,
			Result:  result,
		})
		merged = append(merged, result.Products...)
	}

	if helperIDs == nil {
		helperIDs = []string{}
	}

	helperList := "none"
	if len(helperIDs) > 0 {
		helperList = strings.Join(helperIDs, ", ")
	}
	summary := fmt.Sprintf(
		"This response combines the base Freigent '%s' recommendations with %d helper Freigent(s): %s.",
		userID, len(helperResults), helperList)

	logger.Info().
		Int("helper_results", len(helperResults)).
		Int("merged_products", len(merged)).
		Msg("auto search completed")

	return &AutoSearchResult{
		BaseAgentID:    userID,
		HelperAgentIDs: helperIDs,
		BaseResult:     baseResult,
		HelperResults:  helperResults,
		MergedProducts: merged,
		MergedSummary:  summary,
	}, nil
}
