// internal/handlers/identity_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sketchparty/sketchparty/internal/auth"
)

func TestExtractCookieToken(t *testing.T) {
	assert.Equal(t, "abc123",
		extractCookieToken("player_token=abc123", "player_token"))
	assert.Equal(t, "abc123",
		extractCookieToken("other=zzz; player_token=abc123; more=yyy", "player_token"))
	assert.Equal(t, "",
		extractCookieToken("other=zzz", "player_token"))
}

func TestEnsureIdentityMintsAndRoundTrips(t *testing.T) {
	auth.Init()

	// First visit: no cookie, a fresh identity is minted and set.
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	id1, err := EnsureIdentity(w, r)
	require.NoError(t, err)
	require.NotEmpty(t, id1)

	res := w.Result()
	cookies := res.Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, identityCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	// Second visit with the minted cookie resolves to the same identity and
	// sets nothing new.
	w2 := httptest.NewRecorder()
	r2 := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r2.AddCookie(cookies[0])
	id2, err := EnsureIdentity(w2, r2)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
	assert.Empty(t, w2.Result().Cookies())
}

func TestEnsureIdentityReplacesGarbageToken(t *testing.T) {
	auth.Init()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.AddCookie(&http.Cookie{Name: identityCookie, Value: "not-a-jwt"})

	id, err := EnsureIdentity(w, r)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.Len(t, w.Result().Cookies(), 1, "a fresh identity cookie replaces the bad one")
}
