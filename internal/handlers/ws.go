// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
	"github.com/sketchparty/sketchparty/internal/game"
	"github.com/sketchparty/sketchparty/internal/middleware"
)

// ClientMessage is the envelope for every incoming WebSocket message.
type ClientMessage struct {
	Type string `json:"type"`

	// Join fields. UserID is optional; when absent the identity from the
	// upgrade cookie is used.
	RoomID   string `json:"room_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	Nickname string `json:"nickname,omitempty"`

	// Word is the secret word for start_round.
	Word string `json:"word,omitempty"`

	// Text carries a guess or a system notice.
	Text string `json:"text,omitempty"`

	// Stroke is an opaque drawing segment for relay.
	Stroke *game.StrokeSegment `json:"stroke,omitempty"`
}

// GameWSHandler upgrades the HTTP connection to a WebSocket game session.
// It mints or validates the identity cookie, starts the write pump, and then
// blocks in the read loop until the connection goes away.
func GameWSHandler(logger *logrus.Logger, srv *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The identity cookie must be settled before the upgrade response:
		// Accept hijacks the connection and headers can no longer be written.
		identity, err := EnsureIdentity(w, r)
		if err != nil {
			logger.Warnf("Identity resolution failed for %s: %v", r.RemoteAddr, err)
			http.Error(w, "identity resolution failed", http.StatusInternalServerError)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"sketchparty"},
			OriginPatterns: []string{"*"}, // Adjust in production.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "sketchparty" {
			c.Close(BadSubprotocolError, "client must speak the sketchparty subprotocol")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		client := game.NewClient(c, identity, cancel)

		go writePump(ctx, c, client, logger)
		readPump(ctx, c, srv, client, logger)

		// Cleanup after the read loop exits. Leave is a no-op if this
		// connection was already superseded by a reconnect.
		srv.HandleDisconnect(client)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, nil)
	}
}

// readPump reads and routes client messages until the connection closes or
// the context is cancelled. Unknown rooms and unbound connections are
// silently ignored per the best-effort error philosophy.
func readPump(ctx context.Context, c *websocket.Conn, srv *GameServer, client *game.Client, logger *logrus.Logger) {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("WebSocket closed normally for connection %s", client.ID)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("WebSocket context canceled for connection %s", client.ID)
			} else {
				logger.Warnf("Read error on connection %s: %v (status: %d)", client.ID, err, status)
			}
			return
		}
		if typ != websocket.MessageText {
			logger.Warnf("Non-text message type %d from connection %s, ignoring", typ, client.ID)
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("Invalid JSON from connection %s: %v", client.ID, err)
			client.SendError("Invalid JSON format")
			continue
		}

		switch msg.Type {
		case "join":
			srv.HandleJoin(client, msg)
		case "start_round":
			if room, ok := srv.roomFor(client); ok {
				room.StartRound(client, msg.Word)
			}
		case "guess":
			if room, ok := srv.roomFor(client); ok {
				room.SubmitGuess(client, msg.Text)
			}
		case "stroke":
			if room, ok := srv.roomFor(client); ok && msg.Stroke != nil {
				room.RelayStroke(client, *msg.Stroke)
			}
		case "clear_canvas":
			if room, ok := srv.roomFor(client); ok {
				room.ClearCanvas(client)
			}
		case "system_message":
			if room, ok := srv.roomFor(client); ok && strings.TrimSpace(msg.Text) != "" {
				room.SystemNotice(msg.Text)
			}
		case "ping":
			client.Send(game.Event{Type: game.EventPong})
		default:
			logger.Warnf("Unknown message type %q from connection %s", msg.Type, client.ID)
			client.SendError("Unknown message type: " + msg.Type)
		}
	}
}

// writePump drains the client's OutChan onto the socket and sends periodic
// pings. It exits when the context is done or a write fails; the read loop
// then observes the closure and triggers cleanup.
func writePump(ctx context.Context, c *websocket.Conn, client *game.Client, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-client.OutChan:
			data, err := json.Marshal(ev)
			if err != nil {
				logger.Warnf("Failed to marshal outgoing event %q for connection %s: %v", ev.Type, client.ID, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("Write failed on connection %s: %v", client.ID, err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Warnf("Ping failed on connection %s, assuming disconnect: %v", client.ID, err)
				return
			}
		}
	}
}
