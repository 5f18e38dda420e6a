// internal/game/room.go
package game

import (
	"fmt"
	"log"
	"slices"
	"sync"
	"time"
)

// Status tracks where a room is in the round lifecycle.
type Status string

const (
	// StatusWaiting means no drawer has been assigned yet (fresh room).
	StatusWaiting Status = "waiting"
	// StatusAwaitingWord means a drawer is assigned and may start a round.
	StatusAwaitingWord Status = "awaiting_word"
	// StatusDrawing means a round is live: the word is set and the timer runs.
	StatusDrawing Status = "drawing"
	// StatusRoundEnd is the reveal pause before the drawer rotates.
	StatusRoundEnd Status = "round_end"
)

// Round end reasons, echoed to clients verbatim.
const (
	ReasonTimeUp     = "Time's up!"
	ReasonAllGuessed = "Everyone guessed it!"
)

// SystemNickname is the display name used for system chat lines.
const SystemNickname = "System"

// Player is a stable identity within one room. It survives reconnects: a new
// connection for the same user id rebinds Client rather than creating a new
// roster entry, so the score carries over.
type Player struct {
	UserID     string
	Nickname   string
	Client     *Client // nil while disconnected
	Score      int
	HasGuessed bool
}

// Room holds the entire state of one game session in memory. All exported
// methods acquire Mu; helpers with the Locked suffix assume it is held.
type Room struct {
	ID string

	Mu sync.Mutex

	// Players is keyed by stable user id; Order is the same set in join
	// order, which doubles as the turn order.
	Players map[string]*Player
	Order   []string

	// DrawerID is the stable id of the current drawer, empty only while
	// the room is in StatusWaiting.
	DrawerID string

	Status       Status
	Word         string
	TimeLeft     int // seconds remaining in the live round
	TotalTime    int // full length of the live round, seconds
	GuessedCount int

	// roundGen increments whenever the active round is superseded. Timer
	// goroutines and rotation callbacks carry the generation they were
	// created under and no-op once it moves on.
	roundGen    int
	timerCancel func()
	rotateTimer *time.Timer

	Policy        Policy
	RoundDuration time.Duration
	RotateDelay   time.Duration

	// Broadcast functions injected by the transport layer (or by tests).
	// All three are invoked with Mu held; implementations must not lock the
	// room and must not block.
	BroadcastFn         func(ev Event)
	BroadcastExceptFn   func(exceptUserID string, ev Event)
	BroadcastToPlayerFn func(userID string, ev Event)

	// OnEmpty is called, outside the lock, after the last player leaves.
	// Typically assigned by the RoomStore to delete the room.
	OnEmpty func(roomID string)
}

// NewRoom builds an idle room with the given policy and timings.
func NewRoom(id string, policy Policy, roundDuration, rotateDelay time.Duration) *Room {
	return &Room{
		ID:            id,
		Players:       make(map[string]*Player),
		Order:         make([]string, 0),
		Status:        StatusWaiting,
		Policy:        policy,
		RoundDuration: roundDuration,
		RotateDelay:   rotateDelay,
	}
}

// Join adds a new player to the roster, or rebinds an existing player's
// connection after a reconnect. The first joiner becomes the drawer. A player
// joining mid-round privately receives the round snapshot: drawer identity,
// word length and remaining time, never the word itself.
func (r *Room) Join(client *Client, userID, nickname string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p, exists := r.Players[userID]
	if exists {
		p.Client = client
		if nickname != "" {
			p.Nickname = nickname
		}
		log.Printf("Room %s: player %s rebound to connection %s", r.ID, userID, client.ID)
	} else {
		p = &Player{UserID: userID, Nickname: nickname, Client: client}
		r.Players[userID] = p
		r.Order = append(r.Order, userID)
		r.systemChatLocked(fmt.Sprintf("%s joined the room.", nickname))
	}
	client.UserID = userID
	client.RoomID = r.ID

	if r.DrawerID == "" && len(r.Order) > 0 {
		r.DrawerID = r.Order[0]
		if r.Status == StatusWaiting {
			r.Status = StatusAwaitingWord
		}
		drawer := r.Players[r.DrawerID]
		r.fireAll(Event{Type: EventNextDrawer, Data: NextDrawer{
			DrawerConnID:   connID(drawer),
			DrawerNickname: drawer.Nickname,
		}})
	}

	r.broadcastRosterLocked()

	if r.Status == StatusDrawing && r.Word != "" {
		drawer := r.Players[r.DrawerID]
		r.fireTo(userID, Event{Type: EventRoundStarted, Data: RoundStarted{
			DrawerUserID:   drawer.UserID,
			DrawerNickname: drawer.Nickname,
			WordLength:     wordLength(r.Word),
		}})
		r.fireTo(userID, Event{Type: EventTimerUpdate, Data: TimerUpdate{
			TimeLeft: r.TimeLeft,
			Total:    r.TotalTime,
		}})
	}
}

// Leave removes the player bound to client from the roster and turn order.
// A stale connection (one that has been superseded by a reconnect) leaving is
// a no-op. If the drawer leaves, the round is torn down and the next drawer
// assigned immediately; otherwise a live round may end early if the shrunken
// roster means everyone remaining has guessed.
func (r *Room) Leave(client *Client) {
	r.Mu.Lock()

	p, ok := r.Players[client.UserID]
	if !ok || p.Client != client {
		r.Mu.Unlock()
		return
	}

	delete(r.Players, client.UserID)
	r.Order = slices.DeleteFunc(r.Order, func(id string) bool {
		return id == client.UserID
	})
	r.systemChatLocked(fmt.Sprintf("%s left the room.", p.Nickname))

	if r.DrawerID == client.UserID {
		r.stopTimerLocked()
		r.stopRotationLocked()
		r.advanceDrawerLocked()
	} else if r.Status == StatusDrawing {
		if guessers := len(r.Order) - 1; guessers > 0 && r.GuessedCount >= guessers {
			r.endRoundLocked(ReasonAllGuessed)
		}
	}

	r.broadcastRosterLocked()

	empty := len(r.Order) == 0
	onEmpty := r.OnEmpty
	if empty {
		r.stopTimerLocked()
		r.stopRotationLocked()
	}
	r.Mu.Unlock()

	if empty && onEmpty != nil {
		log.Printf("Room %s is now empty, triggering OnEmpty", r.ID)
		onEmpty(r.ID)
	}
}

// AdvanceDrawer rotates the drawer role and resets the round-scoped state.
func (r *Room) AdvanceDrawer() {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.advanceDrawerLocked()
}

// advanceDrawerLocked picks the roster member after the current drawer in
// turn order, cyclically. If the drawer is gone from the roster it falls back
// to the first member; an empty roster leaves the room idle with no drawer.
func (r *Room) advanceDrawerLocked() {
	r.resetRoundLocked()

	if len(r.Order) == 0 {
		r.DrawerID = ""
		r.Status = StatusWaiting
		return
	}

	next := r.Order[0]
	if idx := slices.Index(r.Order, r.DrawerID); idx != -1 {
		next = r.Order[(idx+1)%len(r.Order)]
	}
	r.DrawerID = next
	r.Status = StatusAwaitingWord

	drawer := r.Players[next]
	r.fireAll(Event{Type: EventNextDrawer, Data: NextDrawer{
		DrawerConnID:   connID(drawer),
		DrawerNickname: drawer.Nickname,
	}})
	r.fireAll(Event{Type: EventCanvasCleared})
	r.broadcastRosterLocked()
}

// resetRoundLocked clears every round-scoped field and cancels the timer.
func (r *Room) resetRoundLocked() {
	r.stopTimerLocked()
	r.Word = ""
	r.TimeLeft = 0
	r.TotalTime = 0
	r.GuessedCount = 0
	for _, p := range r.Players {
		p.HasGuessed = false
	}
}

// RelayStroke forwards a stroke segment to everyone but the sender. Only the
// current drawer may produce strokes, and only while a round is live. The
// segment is relayed verbatim, never inspected or buffered.
func (r *Room) RelayStroke(client *Client, seg StrokeSegment) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p, ok := r.Players[client.UserID]
	if !ok || p.Client != client {
		return
	}
	if client.UserID != r.DrawerID || r.Status != StatusDrawing {
		return
	}
	r.fireExcept(client.UserID, Event{Type: EventStroke, Data: seg})
}

// ClearCanvas broadcasts a canvas wipe on the drawer's request.
func (r *Room) ClearCanvas(client *Client) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p, ok := r.Players[client.UserID]
	if !ok || p.Client != client {
		return
	}
	if client.UserID != r.DrawerID {
		return
	}
	r.fireAll(Event{Type: EventCanvasCleared})
}

// SystemNotice relays a system chat line to the whole room.
func (r *Room) SystemNotice(text string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.systemChatLocked(text)
}

// RosterSize reports how many players are currently in the room.
func (r *Room) RosterSize() int {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return len(r.Order)
}

// systemChatLocked broadcasts a system chat message. Assumes lock is held.
func (r *Room) systemChatLocked(text string) {
	r.fireAll(Event{Type: EventChatMessage, Data: ChatMessage{
		Nickname: SystemNickname,
		Text:     text,
		IsSystem: true,
	}})
}

// broadcastRosterLocked sends the full roster snapshot to the room.
// Assumes lock is held.
func (r *Room) broadcastRosterLocked() {
	players := make(map[string]PlayerInfo, len(r.Players))
	for _, id := range r.Order {
		p := r.Players[id]
		players[id] = PlayerInfo{
			UserID:     p.UserID,
			Nickname:   p.Nickname,
			ConnID:     connID(p),
			HasGuessed: p.HasGuessed,
		}
	}
	drawerConn := ""
	if drawer, ok := r.Players[r.DrawerID]; ok {
		drawerConn = connID(drawer)
	}
	r.fireAll(Event{Type: EventPlayerListUpdate, Data: PlayerListUpdate{
		Scores:              r.scoresLocked(),
		Players:             players,
		CurrentDrawerConnID: drawerConn,
	}})
}

// scoresLocked snapshots the score map. Assumes lock is held.
func (r *Room) scoresLocked() map[string]int {
	scores := make(map[string]int, len(r.Players))
	for id, p := range r.Players {
		scores[id] = p.Score
	}
	return scores
}

// fireAll, fireExcept and fireTo guard the injected broadcast functions
// against being unset (e.g. before the transport attaches, or in tests that
// only care about state).
func (r *Room) fireAll(ev Event) {
	if r.BroadcastFn != nil {
		r.BroadcastFn(ev)
	}
}

func (r *Room) fireExcept(exceptUserID string, ev Event) {
	if r.BroadcastExceptFn != nil {
		r.BroadcastExceptFn(exceptUserID, ev)
	}
}

func (r *Room) fireTo(userID string, ev Event) {
	if r.BroadcastToPlayerFn != nil {
		r.BroadcastToPlayerFn(userID, ev)
	}
}

// connID returns the player's connection id, or empty while disconnected.
func connID(p *Player) string {
	if p == nil || p.Client == nil {
		return ""
	}
	return p.Client.ID.String()
}
