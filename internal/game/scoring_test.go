// internal/game/scoring_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The default constants are the documented policy: guessers earn
// ceil(10 + remaining/total*50), drawers earn min(10*guessed, 50).

func TestGuesserAwardSamples(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, 60, p.GuesserAward(60, 60), "same-second guess at round start")
	assert.Equal(t, 44, p.GuesserAward(40, 60), "ceil(10 + 40/60*50)")
	assert.Equal(t, 35, p.GuesserAward(30, 60))
	assert.Equal(t, 10, p.GuesserAward(0, 60), "guess at the final second")
}

func TestGuesserAwardDeterministic(t *testing.T) {
	p := DefaultPolicy()
	for i := 0; i < 5; i++ {
		assert.Equal(t, 44, p.GuesserAward(40, 60))
	}
}

func TestGuesserAwardDegenerateInputs(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, p.GuessBase, p.GuesserAward(30, 0), "zero total falls back to base")
	assert.Equal(t, 10, p.GuesserAward(-5, 60), "negative remaining clamps to zero")
}

func TestDrawerAward(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, 0, p.DrawerAward(0), "no bonus when nobody guessed")
	assert.Equal(t, 10, p.DrawerAward(1))
	assert.Equal(t, 20, p.DrawerAward(2))
	assert.Equal(t, 50, p.DrawerAward(5), "cap reached exactly")
	assert.Equal(t, 50, p.DrawerAward(12), "cap holds for large rooms")
}
