// Package hub provides the in-process agent-to-agent messaging layer:
// a directory of named agents and a store-and-forward mailbox per
// agent. State lives for the process lifetime only.
package hub

import (
	"github.com/freigent-ai/freigent/internal/models"
)

// Hub composes the agent directory and the mailbox store behind one
// handle. Construct one per process (or per test) and pass it to every
// caller; there is no implicit singleton.
type Hub struct {
	directory *Directory
	mailboxes *MailboxStore
}

// New creates an empty hub.
func New() *Hub {
	return &Hub{
		directory: NewDirectory(),
		mailboxes: NewMailboxStore(),
	}
}

// RegisterAgent upserts an agent in the directory and makes sure its
// mailbox exists. Re-registration overwrites all display fields.
func (h *Hub) RegisterAgent(agentID, agentType, displayName, personalitySummary string) models.AgentRecord {
	rec := h.directory.Register(agentID, agentType, displayName, personalitySummary)
	h.mailboxes.Ensure(agentID)
	return rec
}

// GetAgent looks up a directory entry by agent id.
func (h *Hub) GetAgent(agentID string) (models.AgentRecord, bool) {
	return h.directory.Get(agentID)
}

// ListAgents returns all registered agents in first-seen order.
func (h *Hub) ListAgents() []models.AgentRecord {
	return h.directory.List()
}

// SendMessage delivers a payload from one agent to another and returns
// the stored message. The recipient does not need a directory entry.
func (h *Hub) SendMessage(fromID, toID string, payload map[string]any) models.A2AMessage {
	return h.mailboxes.Send(fromID, toID, payload)
}

// GetInbox returns an agent's pending messages in arrival order,
// atomically clearing the mailbox when clear is true.
func (h *Hub) GetInbox(agentID string, clear bool) []models.A2AMessage {
	return h.mailboxes.Receive(agentID, clear)
}
