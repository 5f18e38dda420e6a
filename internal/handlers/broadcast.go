// internal/handlers/broadcast.go
package handlers

import (
	"github.com/sketchparty/sketchparty/internal/game"
)

// attachGateway installs the three room-scoped addressing modes on a room:
// to-room, to-others and to-one. The functions are invoked by the game logic
// with the room lock held, so they only walk the roster and hand events to
// each client's non-blocking Send; the per-connection write pump does the
// actual socket I/O off the lock.
func attachGateway(r *game.Room) {
	r.BroadcastFn = func(ev game.Event) {
		for _, id := range r.Order {
			if p := r.Players[id]; p != nil && p.Client != nil {
				p.Client.Send(ev)
			}
		}
	}
	r.BroadcastExceptFn = func(exceptUserID string, ev game.Event) {
		for _, id := range r.Order {
			if id == exceptUserID {
				continue
			}
			if p := r.Players[id]; p != nil && p.Client != nil {
				p.Client.Send(ev)
			}
		}
	}
	r.BroadcastToPlayerFn = func(userID string, ev game.Event) {
		if p := r.Players[userID]; p != nil && p.Client != nil {
			p.Client.Send(ev)
		}
	}
}
