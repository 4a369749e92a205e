package hub

import (
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/freigent-ai/freigent/internal/models"
)

// MailboxStore holds one FIFO message queue per agent id. Mailboxes are
// created lazily on first registration or first send and are never
// deleted; an absent mailbox reads as an empty one.
type MailboxStore struct {
	mu      sync.Mutex
	inboxes map[string][]models.A2AMessage
}

// NewMailboxStore creates an empty mailbox store.
func NewMailboxStore() *MailboxStore {
	return &MailboxStore{inboxes: make(map[string][]models.A2AMessage)}
}

// Ensure creates an empty mailbox for the agent id if none exists.
func (s *MailboxStore) Ensure(agentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inboxes[agentID]; !ok {
		s.inboxes[agentID] = nil
	}
}

// Send appends a message to the recipient's mailbox, creating the
// mailbox if absent, and returns the stored message with its generated
// id. It never fails: an unknown recipient simply gets a new mailbox.
func (s *MailboxStore) Send(fromID, toID string, payload map[string]any) models.A2AMessage {
	msg := models.A2AMessage{
		ID:      ulid.Make().String(),
		FromID:  fromID,
		ToID:    toID,
		Payload: payload,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.inboxes[toID] = append(s.inboxes[toID], msg)
	return msg
}

// Receive returns the mailbox contents for an agent id in arrival order.
// When clear is true the mailbox is emptied in the same critical
// section: messages arriving after the drain stay for the next call,
// and no message is ever returned twice. An unknown agent id yields an
// empty slice.
func (s *MailboxStore) Receive(agentID string, clear bool) []models.A2AMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.inboxes[agentID]
	if clear {
		s.inboxes[agentID] = nil
		return msgs
	}

	out := make([]models.A2AMessage, len(msgs))
	copy(out, msgs)
	return out
}

// Len returns the number of pending messages for an agent id.
func (s *MailboxStore) Len(agentID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.inboxes[agentID])
}
