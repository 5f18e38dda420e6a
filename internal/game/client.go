// internal/game/client.go
package game

import (
	"context"
	"log"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Client is a single live WebSocket session. It is transient: the stable
// player identity lives in Player, and a reconnect produces a fresh Client
// that gets rebound to the same Player.
type Client struct {
	// ID uniquely identifies this connection, not the player behind it.
	ID uuid.UUID

	// Identity is the stable user id resolved from the identity cookie at
	// upgrade time. A join message may override it with an explicit user_id.
	Identity string

	// UserID and RoomID are set once the client has joined a room. Only the
	// client's own read loop writes them.
	UserID string
	RoomID string

	Conn   *websocket.Conn
	Cancel context.CancelFunc

	// OutChan feeds the connection's write pump.
	OutChan chan Event
}

// NewClient builds a connection handle around an accepted WebSocket.
// Conn may be nil in tests; events then simply accumulate in OutChan.
func NewClient(conn *websocket.Conn, identity string, cancel context.CancelFunc) *Client {
	return &Client{
		ID:       uuid.New(),
		Identity: identity,
		Conn:     conn,
		Cancel:   cancel,
		OutChan:  make(chan Event, 32),
	}
}

// Send pushes an event onto the client's OutChan non-blockingly. Logs if the
// channel is closed or full and the event is dropped.
func (c *Client) Send(ev Event) {
	select {
	case c.OutChan <- ev:
	default:
		log.Printf("client %s: OutChan closed or full, dropped event %q", c.ID, ev.Type)
	}
}

// SendError is a convenience to send an error object.
func (c *Client) SendError(msg string) {
	c.Send(Event{Type: EventError, Data: map[string]string{"message": msg}})
}

// Close cancels the connection context, which stops the read and write pumps
// and lets the transport layer close the socket.
func (c *Client) Close() {
	if c.Cancel != nil {
		c.Cancel()
	}
}
