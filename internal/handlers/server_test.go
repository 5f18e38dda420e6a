// internal/handlers/server_test.go
package handlers

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sketchparty/sketchparty/internal/config"
	"github.com/sketchparty/sketchparty/internal/game"
)

func testServer() *GameServer {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewGameServer(logger, config.Config{
		Port:             "0",
		RoundDuration:    60 * time.Second,
		RotateDelay:      time.Hour,
		GuessBase:        10,
		GuessBonus:       50,
		DrawerPerGuesser: 10,
		DrawerBonusCap:   50,
	})
}

func TestHandleJoinFallsBackToCookieIdentity(t *testing.T) {
	srv := testServer()
	c := game.NewClient(nil, "cookie-id", nil)

	srv.HandleJoin(c, ClientMessage{Type: "join", RoomID: "room1", Nickname: "Alice"})

	room, ok := srv.Rooms.Get("room1")
	require.True(t, ok)
	room.Mu.Lock()
	_, joined := room.Players["cookie-id"]
	room.Mu.Unlock()
	assert.True(t, joined)
	assert.Equal(t, "cookie-id", c.UserID)

	live, ok := srv.Sessions.Lookup("cookie-id")
	require.True(t, ok)
	assert.Same(t, c, live)
}

func TestHandleJoinExplicitUserIDWins(t *testing.T) {
	srv := testServer()
	c := game.NewClient(nil, "cookie-id", nil)

	srv.HandleJoin(c, ClientMessage{Type: "join", RoomID: "room1", UserID: " u-42 ", Nickname: " Alice "})

	room, ok := srv.Rooms.Get("room1")
	require.True(t, ok)
	room.Mu.Lock()
	p, joined := room.Players["u-42"]
	require.True(t, joined)
	assert.Equal(t, "Alice", p.Nickname, "join fields are trimmed")
	room.Mu.Unlock()
}

func TestHandleJoinIgnoresMalformed(t *testing.T) {
	srv := testServer()

	noNick := game.NewClient(nil, "cookie-id", nil)
	srv.HandleJoin(noNick, ClientMessage{Type: "join", RoomID: "room1"})
	assert.Equal(t, 0, srv.Rooms.Len())

	noRoom := game.NewClient(nil, "cookie-id", nil)
	srv.HandleJoin(noRoom, ClientMessage{Type: "join", Nickname: "Alice"})
	assert.Equal(t, 0, srv.Rooms.Len())

	noIdentity := game.NewClient(nil, "", nil)
	srv.HandleJoin(noIdentity, ClientMessage{Type: "join", RoomID: "room1", Nickname: "Alice"})
	assert.Equal(t, 0, srv.Rooms.Len())
}

func TestHandleJoinIgnoresSecondJoinOnSameConnection(t *testing.T) {
	srv := testServer()
	c := game.NewClient(nil, "cookie-id", nil)

	srv.HandleJoin(c, ClientMessage{Type: "join", RoomID: "room1", Nickname: "Alice"})
	srv.HandleJoin(c, ClientMessage{Type: "join", RoomID: "room2", Nickname: "Alice"})

	assert.Equal(t, 1, srv.Rooms.Len())
	assert.Equal(t, "room1", c.RoomID)
}

func TestDuplicateSessionEviction(t *testing.T) {
	srv := testServer()

	c1 := game.NewClient(nil, "u-x", nil)
	srv.HandleJoin(c1, ClientMessage{Type: "join", RoomID: "room1", Nickname: "Xavier"})

	room, ok := srv.Rooms.Get("room1")
	require.True(t, ok)
	room.Mu.Lock()
	room.Players["u-x"].Score = 33
	room.Mu.Unlock()

	// A second connection for the same identity evicts the first and rebinds
	// the roster entry, keeping the score.
	c2 := game.NewClient(nil, "u-x", nil)
	srv.HandleJoin(c2, ClientMessage{Type: "join", RoomID: "room1", Nickname: "Xavier"})

	gotForce := false
	for len(c1.OutChan) > 0 {
		if ev := <-c1.OutChan; ev.Type == game.EventForceDisconnect {
			gotForce = true
		}
	}
	assert.True(t, gotForce, "evicted connection should be told to disconnect")

	// The evicted connection's teardown must not remove the player.
	srv.HandleDisconnect(c1)

	assert.Equal(t, 1, room.RosterSize())
	room.Mu.Lock()
	p := room.Players["u-x"]
	require.NotNil(t, p)
	assert.Same(t, c2, p.Client)
	assert.Equal(t, 33, p.Score)
	room.Mu.Unlock()

	live, ok := srv.Sessions.Lookup("u-x")
	require.True(t, ok)
	assert.Same(t, c2, live)
}

func TestEvictionAcrossRooms(t *testing.T) {
	srv := testServer()

	c1 := game.NewClient(nil, "u-x", nil)
	srv.HandleJoin(c1, ClientMessage{Type: "join", RoomID: "room1", Nickname: "Xavier"})

	// Same identity joins a different room; the old room loses the player
	// once the evicted connection tears down.
	c2 := game.NewClient(nil, "u-x", nil)
	srv.HandleJoin(c2, ClientMessage{Type: "join", RoomID: "room2", Nickname: "Xavier"})
	srv.HandleDisconnect(c1)

	_, ok := srv.Rooms.Get("room1")
	assert.False(t, ok, "emptied room is destroyed")
	room2, ok := srv.Rooms.Get("room2")
	require.True(t, ok)
	assert.Equal(t, 1, room2.RosterSize())
}

func TestDisconnectDestroysEmptiedRoom(t *testing.T) {
	srv := testServer()

	c := game.NewClient(nil, "u-a", nil)
	srv.HandleJoin(c, ClientMessage{Type: "join", RoomID: "room1", Nickname: "Alice"})
	require.Equal(t, 1, srv.Rooms.Len())

	srv.HandleDisconnect(c)
	assert.Equal(t, 0, srv.Rooms.Len())
	_, ok := srv.Sessions.Lookup("u-a")
	assert.False(t, ok)
}

func TestDisconnectBeforeJoinIsSafe(t *testing.T) {
	srv := testServer()
	c := game.NewClient(nil, "u-a", nil)
	srv.HandleDisconnect(c)
	assert.Equal(t, 0, srv.Rooms.Len())
}
