// internal/handlers/server.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/sketchparty/sketchparty/internal/config"
	"github.com/sketchparty/sketchparty/internal/game"
)

// GameServer is the high-level wiring: the room registry, the
// connection-per-identity supervisor, and the runtime configuration.
type GameServer struct {
	Rooms    *game.RoomStore
	Sessions *game.SessionRegistry
	Config   config.Config
	Logger   *logrus.Logger
}

// NewGameServer builds the server and its room factory. Every room created
// on demand gets the configured scoring policy, timings, and the WebSocket
// broadcast gateway.
func NewGameServer(logger *logrus.Logger, cfg config.Config) *GameServer {
	policy := game.Policy{
		GuessBase:        cfg.GuessBase,
		GuessBonus:       cfg.GuessBonus,
		DrawerPerGuesser: cfg.DrawerPerGuesser,
		DrawerBonusCap:   cfg.DrawerBonusCap,
	}
	srv := &GameServer{
		Sessions: game.NewSessionRegistry(),
		Config:   cfg,
		Logger:   logger,
	}
	srv.Rooms = game.NewRoomStore(func(id string) *game.Room {
		r := game.NewRoom(id, policy, cfg.RoundDuration, cfg.RotateDelay)
		attachGateway(r)
		return r
	})
	return srv
}

// HandleJoin resolves the stable identity for a join request, enforces the
// single-connection-per-identity rule, and adds the player to the room.
// Malformed joins are ignored without touching any room.
func (srv *GameServer) HandleJoin(client *game.Client, msg ClientMessage) {
	roomID := strings.TrimSpace(msg.RoomID)
	nickname := strings.TrimSpace(msg.Nickname)
	userID := strings.TrimSpace(msg.UserID)
	if userID == "" {
		// Fall back to the identity minted in the upgrade cookie.
		userID = client.Identity
	}
	if roomID == "" || userID == "" || nickname == "" {
		srv.Logger.Warnf("Ignoring malformed join from connection %s (room=%q user=%q nick=%q)",
			client.ID, roomID, userID, nickname)
		return
	}
	if client.RoomID != "" {
		srv.Logger.Warnf("Connection %s already joined room %s, ignoring join", client.ID, client.RoomID)
		return
	}

	if evicted := srv.Sessions.Bind(userID, client); evicted != nil {
		srv.Logger.Infof("Identity %s superseded connection %s with %s", userID, evicted.ID, client.ID)
	}

	room := srv.Rooms.Ensure(roomID)
	room.Join(client, userID, nickname)
	srv.Logger.Infof("User %s (%s) joined room %s on connection %s", userID, nickname, roomID, client.ID)
}

// HandleDisconnect tears down a closed connection. The room's Leave no-ops
// for a connection that has been superseded by a reconnect, so only the
// player's current session removes them from the roster.
func (srv *GameServer) HandleDisconnect(client *game.Client) {
	srv.Sessions.Release(client)
	if client.RoomID == "" {
		return
	}
	if room, ok := srv.Rooms.Get(client.RoomID); ok {
		room.Leave(client)
	}
}

// roomFor looks up the room a client has joined, if any.
func (srv *GameServer) roomFor(client *game.Client) (*game.Room, bool) {
	if client.RoomID == "" {
		return nil, false
	}
	return srv.Rooms.Get(client.RoomID)
}

// PingHandler is a trivial liveness endpoint.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
