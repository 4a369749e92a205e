package store

import (
	"context"
	"errors"

	"github.com/freigent-ai/freigent/internal/models"
)

// ErrProfileNotFound reports a lookup for a user id with no stored
// profile. Load methods return (nil, nil) on absence; this sentinel is
// for callers that treat absence as an error, such as the orchestrator
// resolving its base profile.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileStore defines the interface for persistent storage of user
// profiles and agent rows. Both PostgresStore and SQLiteStore implement
// this interface.
type ProfileStore interface {
	// Connection management
	Close()
	Ping(ctx context.Context) error

	// Profile operations
	UpsertProfile(ctx context.Context, userID string, profile *models.UserProfile) error
	LoadProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	CountProfiles(ctx context.Context) (int64, error)

	// Agent operations
	UpsertAgent(ctx context.Context, rec models.AgentRecord) error
	// ListHelperAgentIDs returns ids of agents of the given type, other
	// than baseID, that have a stored profile, in stable id order.
	ListHelperAgentIDs(ctx context.Context, baseID, agentType string) ([]string, error)
}
