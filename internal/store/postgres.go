package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freigent-ai/freigent/internal/models"
)

// PostgresStore handles PostgreSQL database operations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	store := &PostgresStore{pool: pool}

	if err := store.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
func (s *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS agents (
		agent_id TEXT PRIMARY KEY,
		agent_type TEXT NOT NULL,
		display_name TEXT NOT NULL,
		personality_summary TEXT DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		personality TEXT NOT NULL,
		values_text TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS experiences (
		id BIGSERIAL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES profiles(user_id),
		name TEXT NOT NULL,
		notes TEXT NOT NULL,
		rating INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_agents_type ON agents(agent_type);
	CREATE INDEX IF NOT EXISTS idx_experiences_user ON experiences(user_id);
	`

	_, err := s.pool.Exec(ctx, schema)
	return err
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// UpsertProfile stores or updates the profile row and replaces all of
// the user's experiences.
func (s *PostgresStore) UpsertProfile(ctx context.Context, userID string, profile *models.UserProfile) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO profiles (user_id, name, personality, values_text)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT(user_id) DO UPDATE SET
			name = excluded.name,
			personality = excluded.personality,
			values_text = excluded.values_text
	`, userID, profile.Name, profile.Personality, profile.Values)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM experiences WHERE user_id = $1`, userID); err != nil {
		return err
	}
	for _, exp := range profile.Experiences {
		_, err := tx.Exec(ctx, `
			INSERT INTO experiences (user_id, name, notes, rating)
			VALUES ($1, $2, $3, $4)
		`, userID, exp.Name, exp.Notes, exp.Rating)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// LoadProfile retrieves a profile with its experiences.
// Returns (nil, nil) if no profile exists for the user id.
func (s *PostgresStore) LoadProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile := &models.UserProfile{}
	err := s.pool.QueryRow(ctx, `
		SELECT name, personality, values_text
		FROM profiles WHERE user_id = $1
	`, userID).Scan(
		&profile.Name,
		&profile.Personality,
		&profile.Values,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT name, notes, rating
		FROM experiences WHERE user_id = $1
		ORDER BY id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var exp models.ProductExperience
		if err := rows.Scan(&exp.Name, &exp.Notes, &exp.Rating); err != nil {
			return nil, err
		}
		profile.Experiences = append(profile.Experiences, exp)
	}

	return profile, rows.Err()
}

// CountProfiles returns the total number of stored profiles.
func (s *PostgresStore) CountProfiles(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	return count, err
}

// UpsertAgent stores or updates an agent row.
func (s *PostgresStore) UpsertAgent(ctx context.Context, rec models.AgentRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO agents (agent_id, agent_type, display_name, personality_summary)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT(agent_id) DO UPDATE SET
			agent_type = excluded.agent_type,
			display_name = excluded.display_name,
			personality_summary = excluded.personality_summary
	`, rec.AgentID, rec.AgentType, rec.DisplayName, rec.PersonalitySummary)
	return err
}

// ListHelperAgentIDs returns ids of other agents of the given type that
// have a stored profile.
func (s *PostgresStore) ListHelperAgentIDs(ctx context.Context, baseID, agentType string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.agent_id
		FROM agents a
		JOIN profiles p ON a.agent_id = p.user_id
		WHERE a.agent_type = $1
		  AND a.agent_id != $2
		ORDER BY a.agent_id ASC
	`, agentType, baseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
