package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freigent-ai/freigent/internal/hub"
	"github.com/freigent-ai/freigent/internal/models"
	"github.com/freigent-ai/freigent/internal/store"
	"github.com/freigent-ai/freigent/internal/worker"
)

// fakeProfileStore serves profiles and helper ids from maps.
type fakeProfileStore struct {
	profiles map[string]*models.UserProfile
	helpers  []string
}

func (f *fakeProfileStore) Close()                     {}
func (f *fakeProfileStore) Ping(context.Context) error { return nil }
func (f *fakeProfileStore) CountProfiles(context.Context) (int64, error) {
	return int64(len(f.profiles)), nil
}
func (f *fakeProfileStore) UpsertProfile(_ context.Context, userID string, p *models.UserProfile) error {
	f.profiles[userID] = p
	return nil
}
func (f *fakeProfileStore) LoadProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	return f.profiles[userID], nil
}
func (f *fakeProfileStore) UpsertAgent(context.Context, models.AgentRecord) error { return nil }
func (f *fakeProfileStore) ListHelperAgentIDs(_ context.Context, baseID, _ string) ([]string, error) {
	var out []string
	for _, id := range f.helpers {
		if id != baseID {
			out = append(out, id)
		}
	}
	return out, nil
}

// fakeGenerator emits one product per call, named after the profile.
type fakeGenerator struct{}

func (fakeGenerator) Generate(_ context.Context, profile *models.UserProfile, query string) models.RecommendationResult {
	return models.RecommendationResult{
		Products: []models.Product{{
			Name:             "pick for " + profile.Name,
			ShortDescription: query,
		}},
		SummaryForUser: "summary for " + profile.Name,
	}
}

func newTestOrchestrator(profiles map[string]*models.UserProfile, helpers []string) (*Orchestrator, *hub.Hub) {
	h := hub.New()
	st := &fakeProfileStore{profiles: profiles, helpers: helpers}
	gen := fakeGenerator{}
	w := worker.New(h, st, gen, zerolog.Nop())
	return New(h, st, gen, w, zerolog.Nop()), h
}

func TestAutoSearch_OnePeer(t *testing.T) {
	o, h := newTestOrchestrator(map[string]*models.UserProfile{
		"u1": {Name: "Alice"},
		"u2": {Name: "Bob"},
	}, []string{"u2"})

	res, err := o.AutoSearch(context.Background(), "u1", "Q")
	require.NoError(t, err)

	assert.Equal(t, "u1", res.BaseAgentID)
	assert.Equal(t, []string{"u2"}, res.HelperAgentIDs)

	require.Len(t, res.HelperResults, 1)
	assert.Equal(t, "u2", res.HelperResults[0].AgentID)

	// Merged products are base products followed by each helper's, in
	// fan-in order. The helper answered with the base profile: the
	// request carried from_user_id=u1.
	require.Len(t, res.MergedProducts, 2)
	assert.Equal(t, res.BaseResult.Products[0], res.MergedProducts[0])
	assert.Equal(t, res.HelperResults[0].Result.Products[0], res.MergedProducts[1])
	assert.Equal(t, "pick for Alice", res.MergedProducts[1].Name)

	assert.Contains(t, res.MergedSummary, "'u1'")
	assert.Contains(t, res.MergedSummary, "1 helper")
	assert.Contains(t, res.MergedSummary, "u2")

	// The helper got registered in the hub during the run.
	rec, ok := h.GetAgent("u2")
	require.True(t, ok)
	assert.Equal(t, "Bob", rec.DisplayName)

	// Both mailboxes are drained at the end of the run.
	assert.Empty(t, h.GetInbox("u1", false))
	assert.Empty(t, h.GetInbox("u2", false))
}

func TestAutoSearch_NoPeers(t *testing.T) {
	o, _ := newTestOrchestrator(map[string]*models.UserProfile{
		"u1": {Name: "Alice"},
	}, nil)

	res, err := o.AutoSearch(context.Background(), "u1", "Q")
	require.NoError(t, err)

	assert.Equal(t, []string{}, res.HelperAgentIDs)
	assert.Empty(t, res.HelperResults)
	assert.Equal(t, res.BaseResult.Products, res.MergedProducts)
	assert.Contains(t, res.MergedSummary, "none")
	assert.Contains(t, res.MergedSummary, "0 helper")
}

func TestAutoSearch_MissingBaseProfile(t *testing.T) {
	o, _ := newTestOrchestrator(map[string]*models.UserProfile{}, []string{"u2"})

	res, err := o.AutoSearch(context.Background(), "u1", "Q")
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrProfileNotFound))
	assert.Nil(t, res)
}

func TestAutoSearch_PeerOrderPreserved(t *testing.T) {
	o, _ := newTestOrchestrator(map[string]*models.UserProfile{
		"u1": {Name: "Alice"},
		"u2": {Name: "Bob"},
		"u3": {Name: "Cleo"},
		"u4": {Name: "Dan"},
	}, []string{"u2", "u3", "u4"})

	res, err := o.AutoSearch(context.Background(), "u1", "Q")
	require.NoError(t, err)

	assert.Equal(t, []string{"u2", "u3", "u4"}, res.HelperAgentIDs)
	require.Len(t, res.HelperResults, 3)
	assert.Equal(t, "u2", res.HelperResults[0].AgentID)
	assert.Equal(t, "u3", res.HelperResults[1].AgentID)
	assert.Equal(t, "u4", res.HelperResults[2].AgentID)

	// base + one product per helper
	assert.Len(t, res.MergedProducts, 4)
}

func TestAutoSearch_IgnoresForeignMessagesInFanIn(t *testing.T) {
	o, h := newTestOrchestrator(map[string]*models.UserProfile{
		"u1": {Name: "Alice"},
		"u2": {Name: "Bob"},
	}, []string{"u2"})

	// Something unrelated was queued for the base agent before the run.
	h.SendMessage("u9", "u1", map[string]any{"type": "chit_chat"})

	res, err := o.AutoSearch(context.Background(), "u1", "Q")
	require.NoError(t, err)

	// The stray message is excluded silently; the run still succeeds.
	require.Len(t, res.HelperResults, 1)
	assert.Equal(t, "u2", res.HelperResults[0].AgentID)
	assert.Len(t, res.MergedProducts, 2)
}

func TestAutoSearch_StatelessAcrossRuns(t *testing.T) {
	o, _ := newTestOrchestrator(map[string]*models.UserProfile{
		"u1": {Name: "Alice"},
		"u2": {Name: "Bob"},
	}, []string{"u2"})

	first, err := o.AutoSearch(context.Background(), "u1", "Q")
	require.NoError(t, err)
	second, err := o.AutoSearch(context.Background(), "u1", "Q")
	require.NoError(t, err)

	// No responses leak from one run into the next.
	assert.Len(t, first.HelperResults, 1)
	assert.Len(t, second.HelperResults, 1)
	assert.Len(t, second.MergedProducts, 2)
}
