// internal/handlers/session.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"kozyol/internal/auth"
)

// sessionCookieName carries the signed guest session token.
const sessionCookieName = "session_token"

// EnsureGuestSession resolves the client's connection identity. A client
// arriving with a valid session cookie keeps its identity; anyone else gets a
// fresh one, with the signed cookie set on the response. Must run before the
// WebSocket upgrade so the Set-Cookie header rides the handshake response.
func EnsureGuestSession(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if connID, err := auth.ParseSessionToken(cookie.Value); err == nil {
			return connID, nil
		}
	}

	connID := uuid.New()
	token, err := auth.CreateSessionToken(connID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create guest session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Path:     "/",
		MaxAge:   auth.TOKEN_EXPIRE_TIME_SEC,
	})
	return connID, nil
}
