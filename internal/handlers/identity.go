// internal/handlers/identity.go
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sketchparty/sketchparty/internal/auth"
)

// identityCookie names the cookie carrying the signed stable player identity.
const identityCookie = "player_token"

// EnsureIdentity resolves the stable player identity for a connection. An
// existing valid token wins; otherwise a fresh identity is minted, signed and
// set as a cookie so the same browser reconnects as the same player. Must be
// called before the WebSocket upgrade, while headers can still be written.
func EnsureIdentity(w http.ResponseWriter, r *http.Request) (string, error) {
	cookieHeader := r.Header.Get("Cookie")
	if strings.Contains(cookieHeader, identityCookie+"=") {
		token := extractCookieToken(cookieHeader, identityCookie)
		if id, err := auth.AuthenticateJWT(token); err == nil {
			return id, nil
		}
		// Invalid or expired token: fall through and mint a new identity.
	}

	id := uuid.NewString()
	token, err := auth.CreateJWT(id)
	if err != nil {
		return "", fmt.Errorf("failed to create identity token: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     identityCookie,
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
	return id, nil
}

// extractCookieToken extracts a named cookie value from the "Cookie" header,
// or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}
