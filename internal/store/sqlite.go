package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/freigent-ai/freigent/internal/models"
)

// SQLiteStore handles SQLite database operations.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
// If dbPath is empty, defaults to "./data/freigent.db"
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/freigent.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}

	// Initialize schema
	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
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
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		notes TEXT NOT NULL,
		rating INTEGER NOT NULL,
		FOREIGN KEY(user_id) REFERENCES profiles(user_id)
	);

	CREATE INDEX IF NOT EXISTS idx_agents_type ON agents(agent_type);
	CREATE INDEX IF NOT EXISTS idx_experiences_user ON experiences(user_id);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// UpsertProfile stores or updates the profile row and replaces all of
// the user's experiences.
func (s *SQLiteStore) UpsertProfile(ctx context.Context, userID string, profile *models.UserProfile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO profiles (user_id, name, personality, values_text)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			name = excluded.name,
			personality = excluded.personality,
			values_text = excluded.values_text
	`, userID, profile.Name, profile.Personality, profile.Values)
	if err != nil {
		return err
	}

	// Replace experiences for this user
	if _, err := tx.ExecContext(ctx, `DELETE FROM experiences WHERE user_id = ?`, userID); err != nil {
		return err
	}
	for _, exp := range profile.Experiences {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO experiences (user_id, name, notes, rating)
			VALUES (?, ?, ?, ?)
		`, userID, exp.Name, exp.Notes, exp.Rating)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadProfile retrieves a profile with its experiences.
// Returns (nil, nil) if no profile exists for the user id.
func (s *SQLiteStore) LoadProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile := &models.UserProfile{}
	err := s.db.QueryRowContext(ctx, `
		SELECT name, personality, values_text
		FROM profiles WHERE user_id = ?
	`, userID).Scan(
		&profile.Name,
		&profile.Personality,
		&profile.Values,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, notes, rating
		FROM experiences WHERE user_id = ?
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
func (s *SQLiteStore) CountProfiles(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	return count, err
}

// UpsertAgent stores or updates an agent row.
func (s *SQLiteStore) UpsertAgent(ctx context.Context, rec models.AgentRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO agents (agent_id, agent_type, display_name, personality_summary)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(agent_id) DO UPDATE SET
			agent_type = excluded.agent_type,
			display_name = excluded.display_name,
			personality_summary = excluded.personality_summary
	`, rec.AgentID, rec.AgentType, rec.DisplayName, rec.PersonalitySummary)
	return err
}

// ListHelperAgentIDs returns ids of other agents of the given type that
// have a stored profile.
func (s *SQLiteStore) ListHelperAgentIDs(ctx context.Context, baseID, agentType string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.agent_id
		FROM agents a
		JOIN profiles p ON a.agent_id = p.user_id
		WHERE a.agent_type = ?
		  AND a.agent_id != ?
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
