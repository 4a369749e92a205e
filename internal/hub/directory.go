package hub

import (
	"sync"

	"github.com/freigent-ai/freigent/internal/models"
)

// Directory is the process-wide registry of named agents. Registration
// is last-write-wins and entries are never deleted during the process
// lifetime.
type Directory struct {
	mu     sync.RWMutex
	agents map[string]models.AgentRecord
	order  []string // agent ids in first-seen order
}

// NewDirectory creates an empty agent directory.
func NewDirectory() *Directory {
	return &Directory{agents: make(map[string]models.AgentRecord)}
}

// Register upserts an agent record, overwriting all fields if the id is
// already registered. It never fails.
func (d *Directory) Register(agentID, agentType, displayName, personalitySummary string) models.AgentRecord {
	rec := models.AgentRecord{
		AgentID:            agentID,
		AgentType:          agentType,
		DisplayName:        displayName,
		PersonalitySummary: personalitySummary,
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, seen := d.agents[agentID]; !seen {
		d.order = append(d.order, agentID)
	}
	d.agents[agentID] = rec
	return rec
}

// Get returns the record for an agent id, or false if it was never registered.
func (d *Directory) Get(agentID string) (models.AgentRecord, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rec, ok := d.agents[agentID]
	return rec, ok
}

// List returns all registered agents in first-seen order.
func (d *Directory) List() []models.AgentRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]models.AgentRecord, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.agents[id])
	}
	return out
}
