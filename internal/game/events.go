// internal/game/events.go
package game

import "kozyol/internal/models"

// GameEventType is an enum-like type for outbound room events.
type GameEventType string

const (
	EventGameCreated  GameEventType = "game_created"
	EventPlayerJoined GameEventType = "player_joined"
	EventGameStarted  GameEventType = "game_started"
	EventGameUpdate   GameEventType = "game_update"
	EventUpdateHand   GameEventType = "update_hand"
	EventRoundEnded   GameEventType = "round_ended"
	EventPlayerLeft   GameEventType = "player_left"
	EventError        GameEventType = "error"
)

// TrickEntry records one card played into the current trick and who played it.
type TrickEntry struct {
	Player int         `json:"player"`
	Card   models.Card `json:"card"`
}

// GameEvent is the single outbound message shape. Fields are populated per
// event type; everything else is omitted from the JSON payload.
type GameEvent struct {
	Type GameEventType `json:"type"`

	GameID     string `json:"gameId,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
	IsCreator  bool   `json:"isCreator,omitempty"`

	// Players is a value snapshot of the roster at emission time.
	Players []models.Player `json:"players,omitempty"`

	// YourCards carries a private hand; only ever unicast.
	YourCards []models.Card `json:"yourCards,omitempty"`
	Trump     *models.Card  `json:"trump,omitempty"`

	// CurrentTrick is not omitempty: a game_update after trick resolution
	// must be able to report the trick as cleared.
	CurrentTrick  []TrickEntry `json:"currentTrick"`
	CurrentPlayer *int         `json:"currentPlayer,omitempty"`

	RoundScores map[models.Team]int `json:"roundScores,omitempty"`
	TotalScores map[models.Team]int `json:"totalScores,omitempty"`
	TricksWon   map[models.Team]int `json:"tricksWon,omitempty"`

	Message string `json:"message,omitempty"`
}
