// internal/handlers/ws_test.go
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kozyol/internal/auth"
	"kozyol/internal/game"
)

func newTestServer(t *testing.T) (*httptest.Server, *GameServer) {
	t.Helper()
	auth.Init()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	gs := NewGameServer(logger)
	srv := httptest.NewServer(http.HandlerFunc(WSHandler(logger, gs)))
	t.Cleanup(srv.Close)
	return srv, gs
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		Subprotocols: []string{"kozyol"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(websocket.StatusNormalClosure, "") })
	return c
}

func sendIntent(t *testing.T, c *websocket.Conn, msg GameMessage) {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Write(ctx, websocket.MessageText, data))
}

// readUntil reads events off the connection until one satisfies pred. Events
// of other types arriving in between (roster broadcasts etc.) are skipped.
func readUntil(t *testing.T, c *websocket.Conn, pred func(game.GameEvent) bool) game.GameEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		_, data, err := c.Read(ctx)
		require.NoError(t, err, "waiting for event")
		var ev game.GameEvent
		require.NoError(t, json.Unmarshal(data, &ev))
		if pred(ev) {
			return ev
		}
	}
}

func ofType(typ game.GameEventType) func(game.GameEvent) bool {
	return func(ev game.GameEvent) bool { return ev.Type == typ }
}

func TestCreateGameRoundTrip(t *testing.T) {
	srv, gs := newTestServer(t)
	c := dialWS(t, srv)

	sendIntent(t, c, GameMessage{Type: "create_game", Name: "alice"})
	ev := readUntil(t, c, ofType(game.EventGameCreated))

	assert.Len(t, ev.GameID, 8)
	assert.True(t, ev.IsCreator)
	assert.Equal(t, "alice", ev.PlayerName)

	g, ok := gs.Store.GetGame(ev.GameID)
	require.True(t, ok)
	assert.Len(t, g.Players, 1)
	assert.Equal(t, "alice", g.Players[0].Name)
}

func TestJoinStartAndTurnOrder(t *testing.T) {
	srv, _ := newTestServer(t)
	c1 := dialWS(t, srv)
	c2 := dialWS(t, srv)

	sendIntent(t, c1, GameMessage{Type: "create_game", Name: "alice"})
	created := readUntil(t, c1, ofType(game.EventGameCreated))
	code := created.GameID

	sendIntent(t, c2, GameMessage{Type: "join_game", GameID: code, Name: "bob"})

	// The creator sees the roster grow to two.
	joined := readUntil(t, c1, func(ev game.GameEvent) bool {
		return ev.Type == game.EventPlayerJoined && len(ev.Players) == 2
	})
	assert.Equal(t, "bob", joined.PlayerName)

	sendIntent(t, c1, GameMessage{Type: "start_game", GameID: code})

	deal1 := readUntil(t, c1, ofType(game.EventGameStarted))
	deal2 := readUntil(t, c2, ofType(game.EventGameStarted))
	assert.Len(t, deal1.YourCards, 4)
	assert.Len(t, deal2.YourCards, 4)
	require.NotNil(t, deal1.Trump)
	require.NotNil(t, deal1.CurrentPlayer)
	assert.Equal(t, 0, *deal1.CurrentPlayer)

	// Seat 0 leads, so bob playing now is out of turn.
	sendIntent(t, c2, GameMessage{Type: "play_card", GameID: code, Card: &deal2.YourCards[0]})
	errEv := readUntil(t, c2, ofType(game.EventError))
	assert.Equal(t, game.ErrOutOfTurn.Error(), errEv.Message)

	// Alice leads for real and everyone sees the trick grow.
	sendIntent(t, c1, GameMessage{Type: "play_card", GameID: code, Card: &deal1.YourCards[0]})
	update := readUntil(t, c2, ofType(game.EventGameUpdate))
	require.Len(t, update.CurrentTrick, 1)
	assert.Equal(t, deal1.YourCards[0], update.CurrentTrick[0].Card)
	require.NotNil(t, update.CurrentPlayer)
	assert.Equal(t, 1, *update.CurrentPlayer)
}

func TestJoinUnknownRoom(t *testing.T) {
	srv, _ := newTestServer(t)
	c := dialWS(t, srv)

	sendIntent(t, c, GameMessage{Type: "join_game", GameID: "zzzzzzzz", Name: "ghost"})
	ev := readUntil(t, c, ofType(game.EventError))
	assert.Equal(t, game.ErrRoomNotFound.Error(), ev.Message)
}

func TestPingPong(t *testing.T) {
	srv, _ := newTestServer(t)
	c := dialWS(t, srv)

	sendIntent(t, c, GameMessage{Type: "ping"})
	ev := readUntil(t, c, ofType(game.GameEventType("pong")))
	assert.Equal(t, game.GameEventType("pong"), ev.Type)
}

func TestUnknownIntentRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	c := dialWS(t, srv)

	sendIntent(t, c, GameMessage{Type: "bogus"})
	ev := readUntil(t, c, ofType(game.EventError))
	assert.Contains(t, ev.Message, "unknown intent")
}

func TestDisconnectRemovesPlayer(t *testing.T) {
	srv, gs := newTestServer(t)
	c1 := dialWS(t, srv)
	c2 := dialWS(t, srv)

	sendIntent(t, c1, GameMessage{Type: "create_game", Name: "alice"})
	created := readUntil(t, c1, ofType(game.EventGameCreated))
	code := created.GameID

	sendIntent(t, c2, GameMessage{Type: "join_game", GameID: code, Name: "bob"})
	readUntil(t, c1, func(ev game.GameEvent) bool {
		return ev.Type == game.EventPlayerJoined && len(ev.Players) == 2
	})

	require.NoError(t, c2.Close(websocket.StatusNormalClosure, "leaving"))

	left := readUntil(t, c1, ofType(game.EventPlayerLeft))
	require.Len(t, left.Players, 1)
	assert.Equal(t, "alice", left.Players[0].Name)

	g, ok := gs.Store.GetGame(code)
	require.True(t, ok)
	assert.Len(t, g.Players, 1)
}
