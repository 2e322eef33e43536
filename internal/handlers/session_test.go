// internal/handlers/session_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kozyol/internal/auth"
)

func TestEnsureGuestSessionIssuesCookie(t *testing.T) {
	auth.Init()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)

	connID, err := EnsureGuestSession(w, r)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, connID)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	got, err := auth.ParseSessionToken(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, connID, got)
}

func TestEnsureGuestSessionKeepsIdentity(t *testing.T) {
	auth.Init()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	connID, err := EnsureGuestSession(w, r)
	require.NoError(t, err)
	cookie := w.Result().Cookies()[0]

	// Replaying the cookie yields the same identity and no new Set-Cookie.
	w2 := httptest.NewRecorder()
	r2 := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r2.AddCookie(cookie)

	got, err := EnsureGuestSession(w2, r2)
	require.NoError(t, err)
	assert.Equal(t, connID, got)
	assert.Empty(t, w2.Result().Cookies())
}

func TestEnsureGuestSessionRejectsTamperedCookie(t *testing.T) {
	auth.Init()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "tampered"})

	connID, err := EnsureGuestSession(w, r)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, connID)

	// A fresh cookie replaces the bad one.
	require.Len(t, w.Result().Cookies(), 1)
}
