package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freigent-ai/freigent/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestProfileRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	profile := &models.UserProfile{
		Name:        "Alice",
		Personality: "curious",
		Values:      "durability over price",
		Experiences: []models.ProductExperience{
			{Name: "trail shoes", Notes: "loved them", Rating: 5},
			{Name: "cheap tent", Notes: "leaked", Rating: 2},
		},
	}

	require.NoError(t, s.UpsertProfile(ctx, "u1", profile))

	got, err := s.LoadProfile(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, profile.Name, got.Name)
	assert.Equal(t, profile.Values, got.Values)
	require.Len(t, got.Experiences, 2)
	assert.Equal(t, "trail shoes", got.Experiences[0].Name)
	assert.Equal(t, 2, got.Experiences[1].Rating)
}

func TestLoadProfile_AbsentReturnsNil(t *testing.T) {
	s := newTestStore(t)

	got, err := s.LoadProfile(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpsertProfile_ReplacesExperiences(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertProfile(ctx, "u1", &models.UserProfile{
		Name: "Alice", Personality: "a", Values: "v",
		Experiences: []models.ProductExperience{
			{Name: "old one", Notes: "n", Rating: 3},
			{Name: "old two", Notes: "n", Rating: 4},
		},
	}))

	require.NoError(t, s.UpsertProfile(ctx, "u1", &models.UserProfile{
		Name: "Alice 2", Personality: "b", Values: "w",
		Experiences: []models.ProductExperience{
			{Name: "new one", Notes: "n", Rating: 5},
		},
	}))

	got, err := s.LoadProfile(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alice 2", got.Name)
	require.Len(t, got.Experiences, 1)
	assert.Equal(t, "new one", got.Experiences[0].Name)
}

func TestListHelperAgentIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	profile := &models.UserProfile{Name: "n", Personality: "p", Values: "v"}
	for _, id := range []string{"u1", "u2", "u3"} {
		require.NoError(t, s.UpsertProfile(ctx, id, profile))
		require.NoError(t, s.UpsertAgent(ctx, models.AgentRecord{
			AgentID: id, AgentType: models.AgentTypeFreigent, DisplayName: "n",
		}))
	}
	// Agent without a profile: must not be discovered.
	require.NoError(t, s.UpsertAgent(ctx, models.AgentRecord{
		AgentID: "u4", AgentType: models.AgentTypeFreigent, DisplayName: "n",
	}))
	// Agent of another type: must not be discovered.
	require.NoError(t, s.UpsertProfile(ctx, "u5", profile))
	require.NoError(t, s.UpsertAgent(ctx, models.AgentRecord{
		AgentID: "u5", AgentType: "observer", DisplayName: "n",
	}))

	ids, err := s.ListHelperAgentIDs(ctx, "u1", models.AgentTypeFreigent)
	require.NoError(t, err)
	assert.Equal(t, []string{"u2", "u3"}, ids)
}

func TestUpsertAgent_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := models.AgentRecord{
		AgentID: "u1", AgentType: models.AgentTypeFreigent,
		DisplayName: "Alice", PersonalitySummary: "curious",
	}
	require.NoError(t, s.UpsertAgent(ctx, rec))

	rec.DisplayName = "Alice v2"
	require.NoError(t, s.UpsertAgent(ctx, rec))

	// Discoverable exactly once after re-registration.
	require.NoError(t, s.UpsertProfile(ctx, "u1", &models.UserProfile{Name: "n", Personality: "p", Values: "v"}))
	ids, err := s.ListHelperAgentIDs(ctx, "other", models.AgentTypeFreigent)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, ids)
}

func TestCountProfiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.CountProfiles(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	profile := &models.UserProfile{Name: "n", Personality: "p", Values: "v"}
	require.NoError(t, s.UpsertProfile(ctx, "u1", profile))
	require.NoError(t, s.UpsertProfile(ctx, "u2", profile))
	require.NoError(t, s.UpsertProfile(ctx, "u2", profile)) // upsert, not insert

	n, err = s.CountProfiles(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
