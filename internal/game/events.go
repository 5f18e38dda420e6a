// internal/game/events.go
package game

// EventType is an enum-like type for messages pushed to clients.
type EventType string

const (
	EventPlayerListUpdate   EventType = "player_list_update"   // roster, scores and current drawer
	EventChatMessage        EventType = "chat_message"         // player chat or system notice
	EventRoundStarted       EventType = "round_started"        // public round start (word length only)
	EventRoundStartedDrawer EventType = "round_started_drawer" // private round start with the full word
	EventTimerUpdate        EventType = "timer_update"         // countdown broadcast, once per second
	EventRoundEnded         EventType = "round_ended"          // reveal + final scores + reason
	EventNextDrawer         EventType = "next_drawer"          // drawer assignment
	EventCanvasCleared      EventType = "canvas_cleared"       // clients should wipe their canvas
	EventStroke             EventType = "stroke"               // relayed stroke segment
	EventForceDisconnect    EventType = "force_disconnect"     // sent to a superseded connection
	EventError              EventType = "error"
	EventPong               EventType = "pong"
)

// Event is the envelope for every server-to-client message.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}

// PlayerInfo is the public view of a roster member.
type PlayerInfo struct {
	UserID     string `json:"user_id"`
	Nickname   string `json:"nickname"`
	ConnID     string `json:"conn_id"`
	HasGuessed bool   `json:"has_guessed"`
}

// PlayerListUpdate carries the full roster snapshot. Scores and Players are
// keyed by stable user id so clients can pair them up.
type PlayerListUpdate struct {
	Scores              map[string]int        `json:"scores"`
	Players             map[string]PlayerInfo `json:"players"`
	CurrentDrawerConnID string                `json:"current_drawer_conn_id"`
}

// ChatMessage is a chat line, either from a player or from the system.
type ChatMessage struct {
	Nickname string `json:"nickname"`
	Text     string `json:"text"`
	IsSystem bool   `json:"is_system,omitempty"`
}

// RoundStarted announces a round to everyone except the drawer. The word
// itself never appears here, only its length.
type RoundStarted struct {
	DrawerUserID   string `json:"drawer_user_id"`
	DrawerNickname string `json:"drawer_nickname"`
	WordLength     int    `json:"word_length"`
}

// RoundStartedDrawer is the drawer's private copy of the round start.
type RoundStartedDrawer struct {
	Word string `json:"word"`
}

// TimerUpdate carries the countdown state in whole seconds.
type TimerUpdate struct {
	TimeLeft int `json:"time_left"`
	Total    int `json:"total"`
}

// RoundEnded reveals the answer once the round is over.
type RoundEnded struct {
	Answer string         `json:"answer"`
	Scores map[string]int `json:"scores"`
	Reason string         `json:"reason"`
}

// NextDrawer announces the newly assigned drawer.
type NextDrawer struct {
	DrawerConnID   string `json:"drawer_conn_id"`
	DrawerNickname string `json:"drawer_nickname"`
}

// ForceDisconnect tells a stale connection why it is being closed.
type ForceDisconnect struct {
	Reason string `json:"reason"`
}

// StrokeSegment is a single drawing segment. The server relays these verbatim
// and never interprets them.
type StrokeSegment struct {
	X0    float64 `json:"x0"`
	Y0    float64 `json:"y0"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	Tool  string  `json:"tool,omitempty"`
}
