// internal/game/round.go
package game

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"
)

// StartRound begins a drawing round. Only the current drawer may start one,
// and only while no round is live. Empty or whitespace-only words are
// rejected silently. The full word goes privately to the drawer; everyone
// else learns only its length.
func (r *Room) StartRound(client *Client, word string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p, ok := r.Players[client.UserID]
	if !ok || p.Client != client {
		return
	}
	if client.UserID != r.DrawerID || r.Status == StatusDrawing {
		return
	}
	trimmed := strings.TrimSpace(word)
	if trimmed == "" {
		return
	}

	// Starting a round supersedes any pending rotation from the previous
	// round end.
	r.stopRotationLocked()

	r.Word = trimmed
	r.Status = StatusDrawing
	r.GuessedCount = 0
	for _, pl := range r.Players {
		pl.HasGuessed = false
	}

	r.fireTo(client.UserID, Event{Type: EventRoundStartedDrawer, Data: RoundStartedDrawer{Word: trimmed}})
	r.fireExcept(client.UserID, Event{Type: EventRoundStarted, Data: RoundStarted{
		DrawerUserID:   p.UserID,
		DrawerNickname: p.Nickname,
		WordLength:     wordLength(trimmed),
	}})
	r.systemChatLocked(fmt.Sprintf("%s is drawing!", p.Nickname))
	r.broadcastRosterLocked()

	r.startTimerLocked()
	log.Printf("Room %s: round started by %s (%d rune word, %ds)", r.ID, p.Nickname, wordLength(trimmed), r.TotalTime)
}

// SubmitGuess evaluates a chat line as a guess while a round is live. The
// drawer's own messages and messages from players who already guessed are
// echoed as plain chat so neither can score (again). A correct guess earns a
// time-weighted award; the word itself is never echoed back to the room.
func (r *Room) SubmitGuess(client *Client, text string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p, ok := r.Players[client.UserID]
	if !ok || p.Client != client {
		return
	}
	raw := strings.TrimSpace(text)
	if raw == "" {
		return
	}

	if r.Status == StatusDrawing && r.Word != "" {
		if client.UserID == r.DrawerID || p.HasGuessed {
			r.playerChatLocked(p, raw)
			return
		}

		if strings.EqualFold(raw, strings.TrimSpace(r.Word)) {
			gained := r.Policy.GuesserAward(r.TimeLeft, r.TotalTime)
			p.Score += gained
			p.HasGuessed = true
			r.GuessedCount++

			r.fireTo(p.UserID, Event{Type: EventChatMessage, Data: ChatMessage{
				Nickname: SystemNickname,
				Text:     fmt.Sprintf("Correct! You earned %d points!", gained),
				IsSystem: true,
			}})
			r.fireExcept(p.UserID, Event{Type: EventChatMessage, Data: ChatMessage{
				Nickname: SystemNickname,
				Text:     fmt.Sprintf("%s guessed the word!", p.Nickname),
				IsSystem: true,
			}})
			r.broadcastRosterLocked()

			if guessers := len(r.Order) - 1; guessers > 0 && r.GuessedCount >= guessers {
				r.endRoundLocked(ReasonAllGuessed)
			}
			return
		}
	}

	r.playerChatLocked(p, raw)
}

// EndRound ends the live round for the given reason. Safe to call from any
// trigger; it is a no-op unless a round is actually live.
func (r *Room) EndRound(reason string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.endRoundLocked(reason)
}

// endRoundLocked is the single terminal transition for a round. The status
// re-check makes it idempotent: when the timer expiry and the last correct
// guess race, whichever fires second is a no-op. Assumes lock is held.
func (r *Room) endRoundLocked(reason string) {
	if r.Status != StatusDrawing {
		return
	}
	r.stopTimerLocked()
	r.Status = StatusRoundEnd

	if drawer, ok := r.Players[r.DrawerID]; ok && r.GuessedCount > 0 {
		bonus := r.Policy.DrawerAward(r.GuessedCount)
		drawer.Score += bonus
		r.systemChatLocked(fmt.Sprintf("Drawer %s earned %d points!", drawer.Nickname, bonus))
	}

	r.fireAll(Event{Type: EventRoundEnded, Data: RoundEnded{
		Answer: r.Word,
		Scores: r.scoresLocked(),
		Reason: reason,
	}})
	r.systemChatLocked(fmt.Sprintf("%s The word was %q.", reason, r.Word))
	r.broadcastRosterLocked()

	// Rotate after the reveal pause. The generation and status checks make a
	// stale callback harmless if the drawer leaves or a new round starts in
	// the meantime.
	gen := r.roundGen
	r.rotateTimer = time.AfterFunc(r.RotateDelay, func() {
		r.Mu.Lock()
		defer r.Mu.Unlock()
		if r.roundGen != gen || r.Status != StatusRoundEnd {
			return
		}
		r.advanceDrawerLocked()
	})
	log.Printf("Room %s: round ended (%s), %d correct guess(es)", r.ID, reason, r.GuessedCount)
}

// startTimerLocked (re)starts the countdown for the round that was just set
// up, superseding any previous timer first. One tick goroutine per room at
// most. Assumes lock is held.
func (r *Room) startTimerLocked() {
	r.stopTimerLocked()

	r.TotalTime = int(r.RoundDuration / time.Second)
	r.TimeLeft = r.TotalTime
	r.fireAll(Event{Type: EventTimerUpdate, Data: TimerUpdate{TimeLeft: r.TimeLeft, Total: r.TotalTime}})

	ctx, cancel := context.WithCancel(context.Background())
	r.timerCancel = cancel
	go r.runTimer(ctx, r.roundGen)
}

// runTimer decrements the countdown once per second and broadcasts it. The
// goroutine exits when its round generation is superseded, its context is
// cancelled, or the countdown reaches zero (which ends the round).
func (r *Room) runTimer(ctx context.Context, gen int) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Mu.Lock()
			if r.roundGen != gen || r.Status != StatusDrawing {
				r.Mu.Unlock()
				return
			}
			r.TimeLeft--
			r.fireAll(Event{Type: EventTimerUpdate, Data: TimerUpdate{TimeLeft: r.TimeLeft, Total: r.TotalTime}})
			if r.TimeLeft <= 0 {
				r.endRoundLocked(ReasonTimeUp)
				r.Mu.Unlock()
				return
			}
			r.Mu.Unlock()
		}
	}
}

// stopTimerLocked cancels the live countdown, if any, and bumps the round
// generation so in-flight tick callbacks become no-ops. Assumes lock is held.
func (r *Room) stopTimerLocked() {
	r.roundGen++
	if r.timerCancel != nil {
		r.timerCancel()
		r.timerCancel = nil
	}
}

// stopRotationLocked cancels a pending drawer rotation. Assumes lock is held.
func (r *Room) stopRotationLocked() {
	if r.rotateTimer != nil {
		r.rotateTimer.Stop()
		r.rotateTimer = nil
	}
}

// playerChatLocked echoes a player's message to the room as ordinary chat.
// Assumes lock is held.
func (r *Room) playerChatLocked(p *Player, text string) {
	r.fireAll(Event{Type: EventChatMessage, Data: ChatMessage{
		Nickname: p.Nickname,
		Text:     text,
	}})
}

// wordLength counts runes, not bytes, so multi-byte words report the length
// players actually see.
func wordLength(word string) int {
	return utf8.RuneCountInString(word)
}
