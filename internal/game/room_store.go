// internal/game/room_store.go
package game

import (
	"log"
	"sync"
)

// RoomStore manages active rooms in memory. It provides thread-safe
// create-on-demand access and destroy-on-empty teardown.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[string]*Room

	// newRoom builds a fully initialized room for an unseen id. The store
	// publishes the room only after the factory returns, so callers never
	// observe a half-initialized room.
	newRoom func(id string) *Room
}

// NewRoomStore initializes an empty store around a room factory.
func NewRoomStore(newRoom func(id string) *Room) *RoomStore {
	return &RoomStore{
		rooms:   make(map[string]*Room),
		newRoom: newRoom,
	}
}

// Ensure returns the room for id, creating it idempotently if absent.
func (s *RoomStore) Ensure(id string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[id]; ok {
		return r
	}
	r := s.newRoom(id)
	if r.OnEmpty == nil {
		r.OnEmpty = s.DestroyIfEmpty
	}
	s.rooms[id] = r
	log.Printf("RoomStore: created room %s", id)
	return r
}

// Get returns the room for id, if it exists.
func (s *RoomStore) Get(id string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	return r, ok
}

// DestroyIfEmpty removes the room once its roster is empty. Invoked after
// every leave via the room's OnEmpty callback; the roster re-check means a
// join that raced the teardown keeps the room alive.
func (s *RoomStore) DestroyIfEmpty(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return
	}
	if r.RosterSize() > 0 {
		return
	}
	delete(s.rooms, id)
	log.Printf("RoomStore: destroyed empty room %s", id)
}

// Len reports how many rooms are live.
func (s *RoomStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}
