// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"kozyol/internal/game"
	"kozyol/internal/middleware"
	"kozyol/internal/models"
)

// GameMessage is the shape of every inbound WebSocket intent.
type GameMessage struct {
	Type string `json:"type"`

	// GameID scopes the intent to a room; unused for create_game.
	GameID string `json:"gameId,omitempty"`

	// Name is the display name supplied on create_game/join_game.
	Name string `json:"name,omitempty"`

	// Card is the card being played on play_card.
	Card *models.Card `json:"card,omitempty"`
}

// WSHandler upgrades the HTTP connection to WebSocket, assigns the client a
// connection identity, and runs the read loop that routes intents to rooms.
func WSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Resolve identity before the upgrade: EnsureGuestSession may need
		// to set the session cookie on the handshake response.
		connID, err := EnsureGuestSession(w, r)
		if err != nil {
			logger.Warnf("guest session setup failed: %v", err)
			http.Error(w, "failed to establish session", http.StatusInternalServerError)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"kozyol"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal error during handler exit")

		if c.Subprotocol() != "kozyol" {
			logger.Warnf("client %s connected with invalid subprotocol: %s", connID, c.Subprotocol())
			c.Close(websocket.StatusPolicyViolation, "client must use the 'kozyol' subprotocol")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readErr := readGameMessages(ctx, c, gs, connID, logger)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, readErr)

		// A dropped connection is a normal departure, not an error: the
		// player is removed from every room they occupied.
		gs.Store.RemoveConnection(connID)
	}
}

// readGameMessages continuously reads intents from a client connection and
// routes them to the targeted room. Returns the read error that ended the
// loop, or nil on a normal closure.
func readGameMessages(ctx context.Context, c *websocket.Conn, gs *GameServer, connID uuid.UUID, logger *logrus.Logger) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway ||
				strings.Contains(err.Error(), "context canceled") {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			logger.Warnf("ignoring non-text message from %s", connID)
			continue
		}

		var msg GameMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("invalid JSON from %s: %v", connID, err)
			sendWsError(ctx, c, "invalid JSON payload")
			continue
		}

		logger.Debugf("intent '%s' from %s (room %q)", msg.Type, connID, msg.GameID)

		switch msg.Type {
		case "create_game":
			handleCreateGame(ctx, c, gs, connID, msg, logger)

		case "join_game":
			g, ok := gs.Store.GetGame(msg.GameID)
			if !ok {
				sendWsError(ctx, c, game.ErrRoomNotFound.Error())
				continue
			}
			p := &models.Player{ID: connID, Name: msg.Name, Conn: c}
			if err := g.AddPlayer(p); err != nil {
				sendWsError(ctx, c, err.Error())
			}

		case "start_game":
			g, ok := gs.Store.GetGame(msg.GameID)
			if !ok {
				sendWsError(ctx, c, game.ErrRoomNotFound.Error())
				continue
			}
			if err := g.Start(); err != nil {
				sendWsError(ctx, c, err.Error())
			}

		case "play_card":
			if msg.Card == nil {
				sendWsError(ctx, c, "play_card requires a card")
				continue
			}
			g, ok := gs.Store.GetGame(msg.GameID)
			if !ok {
				sendWsError(ctx, c, game.ErrRoomNotFound.Error())
				continue
			}
			if err := g.PlayCard(connID, *msg.Card); err != nil {
				sendWsError(ctx, c, err.Error())
			}

		case "ping":
			sendWsEvent(ctx, c, game.GameEvent{Type: "pong"})

		default:
			logger.Warnf("unknown intent type '%s' from %s", msg.Type, connID)
			sendWsError(ctx, c, "unknown intent type: "+msg.Type)
		}
	}
}

// handleCreateGame registers a fresh room, wires its broadcast callbacks,
// seats the creator and confirms to them alone.
func handleCreateGame(ctx context.Context, c *websocket.Conn, gs *GameServer, connID uuid.UUID, msg GameMessage, logger *logrus.Logger) {
	g := gs.Store.CreateGame()
	g.BroadcastFn = createBroadcastFunc(g, logger)
	g.BroadcastToPlayerFn = createBroadcastToPlayerFunc(g, logger)

	p := &models.Player{ID: connID, Name: msg.Name, Conn: c}
	if err := g.AddPlayer(p); err != nil {
		gs.Store.DeleteGame(g.Code)
		sendWsError(ctx, c, err.Error())
		return
	}
	logger.Infof("room %s created by %s", g.Code, connID)

	sendWsEvent(ctx, c, game.GameEvent{
		Type:       game.EventGameCreated,
		GameID:     g.Code,
		PlayerName: msg.Name,
		IsCreator:  true,
	})
}

// createBroadcastFunc returns a function suitable for KozyolGame.BroadcastFn.
// The engine calls it after releasing the room lock; it snapshots the
// connected sockets under a brief lock and writes to them asynchronously so a
// slow client never stalls the room.
func createBroadcastFunc(g *game.KozyolGame, logger *logrus.Logger) func(ev game.GameEvent) {
	return func(ev game.GameEvent) {
		g.Mu.Lock()
		conns := make([]*websocket.Conn, 0, len(g.Players))
		for _, p := range g.Players {
			if p.Connected && p.Conn != nil {
				conns = append(conns, p.Conn)
			}
		}
		g.Mu.Unlock()

		data, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("failed to marshal broadcast event (%s) for room %s: %v", ev.Type, g.Code, err)
			return
		}

		go func(conns []*websocket.Conn, data []byte, code string) {
			for _, conn := range conns {
				writeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				err := conn.Write(writeCtx, websocket.MessageText, data)
				cancel()
				if err != nil {
					logger.Warnf("failed to write broadcast message in room %s: %v", code, err)
				}
			}
		}(conns, data, g.Code)
	}
}

// createBroadcastToPlayerFunc returns a function suitable for
// KozyolGame.BroadcastToPlayerFn. Same discipline as the room broadcast, for
// a single target connection.
func createBroadcastToPlayerFunc(g *game.KozyolGame, logger *logrus.Logger) func(playerID uuid.UUID, ev game.GameEvent) {
	return func(playerID uuid.UUID, ev game.GameEvent) {
		var targetConn *websocket.Conn
		g.Mu.Lock()
		for _, p := range g.Players {
			if p.ID == playerID {
				if p.Connected && p.Conn != nil {
					targetConn = p.Conn
				}
				break
			}
		}
		g.Mu.Unlock()

		if targetConn == nil {
			return
		}
		data, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("failed to marshal private event (%s) for %s in room %s: %v", ev.Type, playerID, g.Code, err)
			return
		}
		go func(conn *websocket.Conn, data []byte, code string) {
			writeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("failed to write private message to %s in room %s: %v", playerID, code, err)
			}
		}(targetConn, data, g.Code)
	}
}

// sendWsEvent marshals an event and writes it directly to one connection,
// with a write timeout.
func sendWsEvent(ctx context.Context, c *websocket.Conn, ev game.GameEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_ = c.Write(writeCtx, websocket.MessageText, data)
}

// sendWsError reports a validation failure to the offending connection only;
// errors are never broadcast.
func sendWsError(ctx context.Context, c *websocket.Conn, message string) {
	sendWsEvent(ctx, c, game.GameEvent{
		Type:    game.EventError,
		Message: message,
	})
}
