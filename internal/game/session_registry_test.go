// internal/game/session_registry_test.go
package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindEvictsPreviousConnection(t *testing.T) {
	reg := NewSessionRegistry()

	ctx1, cancel1 := context.WithCancel(context.Background())
	c1 := NewClient(nil, "u-a", cancel1)
	c2 := NewClient(nil, "u-a", nil)

	assert.Nil(t, reg.Bind("u-a", c1))

	evicted := reg.Bind("u-a", c2)
	require.Same(t, c1, evicted)

	// The old connection is told why and its context is cancelled.
	select {
	case ev := <-c1.OutChan:
		assert.Equal(t, EventForceDisconnect, ev.Type)
		assert.NotEmpty(t, ev.Data.(ForceDisconnect).Reason)
	default:
		t.Fatal("expected a force_disconnect on the evicted connection")
	}
	assert.Error(t, ctx1.Err(), "evicted connection context should be cancelled")

	live, ok := reg.Lookup("u-a")
	require.True(t, ok)
	assert.Same(t, c2, live)
}

func TestBindSameClientTwiceIsNoOp(t *testing.T) {
	reg := NewSessionRegistry()
	c := NewClient(nil, "u-a", nil)

	reg.Bind("u-a", c)
	assert.Nil(t, reg.Bind("u-a", c))
	assert.Empty(t, c.OutChan)
}

func TestReleaseOnlyUnbindsCurrentConnection(t *testing.T) {
	reg := NewSessionRegistry()

	c1 := NewClient(nil, "u-a", nil)
	c2 := NewClient(nil, "u-a", nil)
	c1.UserID = "u-a"
	c2.UserID = "u-a"

	reg.Bind("u-a", c1)
	reg.Bind("u-a", c2)

	// The evicted connection's late teardown must not clobber the new binding.
	reg.Release(c1)
	live, ok := reg.Lookup("u-a")
	require.True(t, ok)
	assert.Same(t, c2, live)

	reg.Release(c2)
	_, ok = reg.Lookup("u-a")
	assert.False(t, ok)
}

func TestReleaseWithoutJoinIsNoOp(t *testing.T) {
	reg := NewSessionRegistry()
	c := NewClient(nil, "u-a", nil)
	// UserID is only set on join; releasing a never-joined client is safe.
	reg.Release(c)
}
