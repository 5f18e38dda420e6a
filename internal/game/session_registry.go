// internal/game/session_registry.go
package game

import (
	"log"
	"sync"
)

// SessionRegistry enforces at most one live connection per stable identity,
// across every room in the process. Binding an identity that already has a
// live connection evicts the older one: it gets a force_disconnect notice and
// its context is cancelled. Eviction is immediate and final.
type SessionRegistry struct {
	mu     sync.Mutex
	byUser map[string]*Client
}

// NewSessionRegistry initializes and returns an empty SessionRegistry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		byUser: make(map[string]*Client),
	}
}

// Bind associates userID with client, evicting any previously bound
// connection. Returns the evicted client, or nil if there was none.
func (s *SessionRegistry) Bind(userID string, client *Client) *Client {
	s.mu.Lock()
	old := s.byUser[userID]
	if old == client {
		s.mu.Unlock()
		return nil
	}
	s.byUser[userID] = client
	s.mu.Unlock()

	if old != nil {
		log.Printf("SessionRegistry: identity %s rebound to connection %s, evicting %s", userID, client.ID, old.ID)
		old.Send(Event{Type: EventForceDisconnect, Data: ForceDisconnect{Reason: "You connected from somewhere else."}})
		old.Close()
	}
	return old
}

// Release unbinds the client's identity, but only if this client is still the
// bound connection. A superseded connection releasing late is a no-op, which
// keeps eviction from clobbering the replacement binding.
func (s *SessionRegistry) Release(client *Client) {
	if client.UserID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byUser[client.UserID] == client {
		delete(s.byUser, client.UserID)
	}
}

// Lookup returns the live connection for an identity, if any.
func (s *SessionRegistry) Lookup(userID string) (*Client, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byUser[userID]
	return c, ok
}
