// internal/game/scoring.go
package game

import "math"

// Policy holds the scoring constants for a room. Awards are pure functions of
// their inputs so they can be unit tested independently of the state machine.
type Policy struct {
	// GuessBase and GuessBonus shape the guesser award: a correct guess earns
	// GuessBase plus a share of GuessBonus proportional to the time left.
	GuessBase  int
	GuessBonus int

	// DrawerPerGuesser and DrawerBonusCap shape the drawer award at round end.
	DrawerPerGuesser int
	DrawerBonusCap   int
}

// DefaultPolicy returns the standard constants: a same-second guess at round
// start is worth 60 points, one at the final second 10.
func DefaultPolicy() Policy {
	return Policy{
		GuessBase:        10,
		GuessBonus:       50,
		DrawerPerGuesser: 10,
		DrawerBonusCap:   50,
	}
}

// GuesserAward computes the points for a correct guess with remaining seconds
// left out of total: ceil(base + remaining/total * bonus).
func (p Policy) GuesserAward(remaining, total int) int {
	if total <= 0 {
		return p.GuessBase
	}
	if remaining < 0 {
		remaining = 0
	}
	ratio := float64(remaining) / float64(total)
	return int(math.Ceil(float64(p.GuessBase) + ratio*float64(p.GuessBonus)))
}

// DrawerAward computes the drawer's end-of-round bonus:
// min(perGuesser * guessed, cap), and nothing if nobody guessed.
func (p Policy) DrawerAward(guessed int) int {
	if guessed <= 0 {
		return 0
	}
	return min(guessed*p.DrawerPerGuesser, p.DrawerBonusCap)
}
