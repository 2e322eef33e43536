package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Team identifies one of the two fixed sides of the table.
type Team string

const (
	TeamNone Team = ""
	Team1    Team = "team1"
	Team2    Team = "team2"
)

// TeamForSeat assigns a team from the seat index: even seats are team1,
// odd seats team2. Computed once at join time and stored on the Player.
func TeamForSeat(seat int) Team {
	if seat%2 == 0 {
		return Team1
	}
	return Team2
}

// Player is one seat at the table. ID is the transport-assigned connection
// identity; the core never owns or closes Conn.
type Player struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Team      Team            `json:"team"`
	Connected bool            `json:"connected"`
	Conn      *websocket.Conn `json:"-"`
}
