// internal/handlers/game_server.go
package handlers

import (
	"github.com/sirupsen/logrus"

	"kozyol/internal/game"
)

// GameServer bundles the room registry with the logger the WebSocket
// handlers use.
type GameServer struct {
	Store  *game.GameStore
	Logger *logrus.Logger
}

// NewGameServer builds a GameServer with an empty registry.
func NewGameServer(logger *logrus.Logger) *GameServer {
	return &GameServer{
		Store:  game.NewGameStore(),
		Logger: logger,
	}
}
