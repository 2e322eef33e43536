// internal/auth/session_test.go
package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	Init()

	connID := uuid.New()
	token, err := CreateSessionToken(connID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, connID, got)
}

func TestParseRejectsGarbage(t *testing.T) {
	Init()

	_, err := ParseSessionToken("not-a-token")
	assert.Error(t, err)

	_, err = ParseSessionToken("")
	assert.Error(t, err)
}

func TestParseRejectsForeignKey(t *testing.T) {
	Init()
	token, err := CreateSessionToken(uuid.New())
	require.NoError(t, err)

	// Rotate the key pair; the old token must no longer verify.
	Init()
	_, err = ParseSessionToken(token)
	assert.Error(t, err)
}
