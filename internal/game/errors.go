// internal/game/errors.go
package game

import "errors"

// Validation errors returned by room operations. All of them are recoverable
// and local to the offending request: the room is never mutated on a rejected
// intent, and the error is reported only to the originating connection.
var (
	ErrRoomNotFound       = errors.New("no such game room")
	ErrRoomFull           = errors.New("game room is full")
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrInvalidPlayerCount = errors.New("an even number of players (2, 4 or 6) is required")
	ErrOutOfTurn          = errors.New("it is not your turn")
	ErrIllegalMove        = errors.New("you cannot play that card")
)
