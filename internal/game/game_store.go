// internal/game/game_store.go
package game

import (
	"sync"

	"github.com/google/uuid"
)

// GameStore is the concurrency-safe registry of active rooms, keyed by their
// shareable 8-character code. Handlers for different rooms may hit the store
// concurrently; the store lock only guards the index, never room state.
type GameStore struct {
	mu    sync.Mutex
	games map[string]*KozyolGame
}

// NewGameStore returns an empty in-memory registry.
func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[string]*KozyolGame),
	}
}

// CreateGame registers a new waiting room under a fresh code and wires its
// teardown: the room removes itself from the index when the last player
// leaves.
func (s *GameStore) CreateGame() *KozyolGame {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := newRoomCode()
	for s.games[code] != nil {
		code = newRoomCode()
	}
	g := NewKozyolGame(code)
	g.OnEmpty = func(code string) {
		s.DeleteGame(code)
	}
	s.games[code] = g
	return g
}

// GetGame retrieves a room if it exists.
func (s *GameStore) GetGame(code string) (*KozyolGame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[code]
	return g, ok
}

// DeleteGame removes a room from the index.
func (s *GameStore) DeleteGame(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, code)
}

// Len returns the number of active rooms.
func (s *GameStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}

// RemoveConnection drops connID from every room it occupies. Called by the
// transport when a connection goes away. The index is snapshotted first so
// no room lock is ever taken while the store lock is held.
func (s *GameStore) RemoveConnection(connID uuid.UUID) {
	s.mu.Lock()
	games := make([]*KozyolGame, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, g)
	}
	s.mu.Unlock()

	for _, g := range games {
		g.RemovePlayer(connID)
	}
}

// newRoomCode returns a human-shareable room code: the first 8 characters of
// a fresh UUID.
func newRoomCode() string {
	return uuid.NewString()[:8]
}
