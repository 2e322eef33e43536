// internal/game/game.go
package game

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"kozyol/internal/cache"
	"kozyol/internal/models"
)

// GameState is the room lifecycle state.
type GameState string

const (
	StateWaiting GameState = "waiting"
	StatePlaying GameState = "playing"
)

// MaxPlayers is the seat limit per room.
const MaxPlayers = 6

// KozyolGame holds the entire state for a single room in memory. A room is a
// single unit of mutual exclusion: every mutation happens under Mu, and
// outbound events are emitted only after the lock has been released.
type KozyolGame struct {
	Code string

	Players []*models.Player
	State   GameState

	// Hands holds one slice per occupied seat; the remaining dealt groups
	// and the post-trump tail leave play for the round.
	Hands              [][]models.Card
	TrumpCard          models.Card
	CurrentTrick       []TrickEntry
	CurrentPlayerIndex int

	RoundScores map[models.Team]int
	TotalScores map[models.Team]int
	TricksWon   map[models.Team]int
	Round       int

	rng *rand.Rand
	Mu  sync.Mutex

	// BroadcastFn sends an event to every connection in the room.
	BroadcastFn func(ev GameEvent)

	// BroadcastToPlayerFn sends an event to a single connection.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)

	// OnEmpty is invoked after the last player leaves, so the registry can
	// tear the room down.
	OnEmpty func(code string)
}

// NewKozyolGame builds an empty waiting room with the given code.
func NewKozyolGame(code string) *KozyolGame {
	return &KozyolGame{
		Code:        code,
		State:       StateWaiting,
		RoundScores: newScores(),
		TotalScores: newScores(),
		TricksWon:   newScores(),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func newScores() map[models.Team]int {
	return map[models.Team]int{models.Team1: 0, models.Team2: 0}
}

func copyScores(scores map[models.Team]int) map[models.Team]int {
	out := make(map[models.Team]int, len(scores))
	for team, pts := range scores {
		out[team] = pts
	}
	return out
}

// outbound couples an event with its destination. A Nil target broadcasts to
// the whole room.
type outbound struct {
	to uuid.UUID
	ev GameEvent
}

// emit delivers events collected during a critical section. Must be called
// after the room lock has been released, so a slow socket never blocks the
// room and every event reflects a consistent snapshot.
func (g *KozyolGame) emit(events []outbound) {
	for _, out := range events {
		if out.to == uuid.Nil {
			if g.BroadcastFn != nil {
				g.BroadcastFn(out.ev)
			} else {
				log.Printf("game %s: BroadcastFn is nil, dropping event %s", g.Code, out.ev.Type)
			}
			continue
		}
		if g.BroadcastToPlayerFn != nil {
			g.BroadcastToPlayerFn(out.to, out.ev)
		} else {
			log.Printf("game %s: BroadcastToPlayerFn is nil, dropping event %s", g.Code, out.ev.Type)
		}
	}
}

// AddPlayer seats a player at the next free position and assigns their team
// by seat parity. Rejects full rooms and rooms already in play.
func (g *KozyolGame) AddPlayer(p *models.Player) error {
	g.Mu.Lock()
	if len(g.Players) >= MaxPlayers {
		g.Mu.Unlock()
		return ErrRoomFull
	}
	if g.State != StateWaiting {
		g.Mu.Unlock()
		return ErrGameAlreadyStarted
	}
	p.Team = models.TeamForSeat(len(g.Players))
	p.Connected = true
	g.Players = append(g.Players, p)
	ev := GameEvent{
		Type:       EventPlayerJoined,
		GameID:     g.Code,
		PlayerName: p.Name,
		Players:    g.rosterLocked(),
	}
	g.Mu.Unlock()

	g.emit([]outbound{{ev: ev}})
	return nil
}

// Start moves the room from waiting to playing and deals the first round.
func (g *KozyolGame) Start() error {
	g.Mu.Lock()
	if g.State != StateWaiting {
		g.Mu.Unlock()
		return ErrGameAlreadyStarted
	}
	out, err := g.startRoundLocked()
	g.Mu.Unlock()
	if err != nil {
		return err
	}
	g.emit(out)
	return nil
}

// startRoundLocked deals a fresh round and builds the per-player deal events.
// Assumes lock is held.
func (g *KozyolGame) startRoundLocked() ([]outbound, error) {
	dealt, trump, err := ShuffleAndDeal(g.rng, len(g.Players))
	if err != nil {
		return nil, err
	}
	g.Hands = dealt[:len(g.Players)]
	g.TrumpCard = trump
	g.State = StatePlaying
	g.CurrentPlayerIndex = 0
	g.CurrentTrick = nil
	g.RoundScores = newScores()
	g.Round++

	roster := g.rosterLocked()
	leader := 0
	out := make([]outbound, 0, len(g.Players))
	for seat, p := range g.Players {
		hand := make([]models.Card, len(g.Hands[seat]))
		copy(hand, g.Hands[seat])
		out = append(out, outbound{to: p.ID, ev: GameEvent{
			Type:          EventGameStarted,
			GameID:        g.Code,
			YourCards:     hand,
			Trump:         &trump,
			CurrentPlayer: &leader,
			Players:       roster,
		}})
	}
	return out, nil
}

// PlayCard applies a play_card intent from connID. Validation happens before
// any mutation; on failure the room state is left untouched.
func (g *KozyolGame) PlayCard(connID uuid.UUID, card models.Card) error {
	g.Mu.Lock()
	seat := g.seatOfLocked(connID)
	if g.State != StatePlaying || seat == -1 || seat != g.CurrentPlayerIndex {
		g.Mu.Unlock()
		return ErrOutOfTurn
	}
	handIdx := -1
	for i, held := range g.Hands[seat] {
		if held == card {
			handIdx = i
			break
		}
	}
	if handIdx == -1 || !g.isLegalMove(seat, card) {
		g.Mu.Unlock()
		return ErrIllegalMove
	}

	g.Hands[seat] = append(g.Hands[seat][:handIdx], g.Hands[seat][handIdx+1:]...)
	g.CurrentTrick = append(g.CurrentTrick, TrickEntry{Player: seat, Card: card})
	g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % len(g.Players)

	if len(g.CurrentTrick) >= len(g.Players) {
		winner := g.resolveTrick()
		if winner < len(g.Players) {
			team := g.Players[winner].Team
			g.RoundScores[team] += trickPoints(g.CurrentTrick)
			g.TricksWon[team]++
			g.CurrentPlayerIndex = winner
		} else {
			// The winning seat left mid-trick; the next lead falls back to
			// seat 0 rather than crediting a vacant seat.
			g.CurrentPlayerIndex = 0
		}
		g.CurrentTrick = nil

		if g.handsEmptyLocked() {
			out := g.endRoundLocked()
			g.Mu.Unlock()
			g.emit(out)
			return nil
		}
	}

	out := []outbound{{ev: g.updateEventLocked()}}
	out = append(out, g.handEventsLocked()...)
	g.Mu.Unlock()

	g.emit(out)
	return nil
}

// endRoundLocked folds round scores into the running totals, reports the
// round, resets per-round counters and immediately deals the next round.
// Rounds repeat indefinitely; there is no terminal game-over state.
// Assumes lock is held.
func (g *KozyolGame) endRoundLocked() []outbound {
	g.TotalScores[models.Team1] += g.RoundScores[models.Team1]
	g.TotalScores[models.Team2] += g.RoundScores[models.Team2]

	out := []outbound{{ev: GameEvent{
		Type:        EventRoundEnded,
		GameID:      g.Code,
		RoundScores: copyScores(g.RoundScores),
		TotalScores: copyScores(g.TotalScores),
		TricksWon:   copyScores(g.TricksWon),
	}}}

	g.publishRoundLocked()
	g.TricksWon = newScores()

	deal, err := g.startRoundLocked()
	if err != nil {
		// The seat count went odd mid-round (disconnect); park the room in
		// waiting until the lobby is balanced again.
		log.Printf("game %s: cannot deal next round: %v", g.Code, err)
		g.State = StateWaiting
		return out
	}
	return append(out, deal...)
}

// publishRoundLocked pushes the finished round's summary to the results
// queue, if one is configured. Fire-and-forget; the engine never depends on
// the queue being reachable. Assumes lock is held.
func (g *KozyolGame) publishRoundLocked() {
	if !cache.Enabled() {
		return
	}
	rec := cache.RoundRecord{
		RoomCode:    g.Code,
		Round:       g.Round,
		RoundScores: copyScores(g.RoundScores),
		TotalScores: copyScores(g.TotalScores),
		TricksWon:   copyScores(g.TricksWon),
		Timestamp:   time.Now().UnixMilli(),
	}
	go func() {
		if err := cache.PublishRoundResult(context.Background(), rec); err != nil {
			log.Printf("game %s: failed to publish round result: %v", g.Code, err)
		}
	}()
}

// RemovePlayer drops the seat held by connID at any state. The remaining
// players' seats shift down and CurrentPlayerIndex is only clamped back into
// range, never repaired; mid-round departures leave turn/team pairing as-is.
// Returns true if the connection held a seat.
func (g *KozyolGame) RemovePlayer(connID uuid.UUID) bool {
	g.Mu.Lock()
	seat := g.seatOfLocked(connID)
	if seat == -1 {
		g.Mu.Unlock()
		return false
	}
	g.Players = append(g.Players[:seat], g.Players[seat+1:]...)
	if len(g.Players) > 0 && g.CurrentPlayerIndex >= len(g.Players) {
		g.CurrentPlayerIndex = 0
	}
	empty := len(g.Players) == 0
	var out []outbound
	if !empty {
		out = append(out, outbound{ev: GameEvent{
			Type:    EventPlayerLeft,
			GameID:  g.Code,
			Players: g.rosterLocked(),
		}})
	}
	g.Mu.Unlock()

	g.emit(out)
	if empty && g.OnEmpty != nil {
		g.OnEmpty(g.Code)
	}
	return true
}

// updateEventLocked snapshots the trick/turn/score state for a broadcast.
// Assumes lock is held.
func (g *KozyolGame) updateEventLocked() GameEvent {
	cur := g.CurrentPlayerIndex
	trick := make([]TrickEntry, len(g.CurrentTrick))
	copy(trick, g.CurrentTrick)
	return GameEvent{
		Type:          EventGameUpdate,
		GameID:        g.Code,
		CurrentTrick:  trick,
		CurrentPlayer: &cur,
		RoundScores:   copyScores(g.RoundScores),
		TricksWon:     copyScores(g.TricksWon),
	}
}

// handEventsLocked builds one private update_hand event per seated player.
// Assumes lock is held.
func (g *KozyolGame) handEventsLocked() []outbound {
	out := make([]outbound, 0, len(g.Players))
	for seat, p := range g.Players {
		hand := make([]models.Card, len(g.Hands[seat]))
		copy(hand, g.Hands[seat])
		out = append(out, outbound{to: p.ID, ev: GameEvent{
			Type:      EventUpdateHand,
			GameID:    g.Code,
			YourCards: hand,
		}})
	}
	return out
}

// rosterLocked returns a value snapshot of the seated players, safe to
// marshal after the lock is released. Assumes lock is held.
func (g *KozyolGame) rosterLocked() []models.Player {
	roster := make([]models.Player, len(g.Players))
	for i, p := range g.Players {
		roster[i] = *p
	}
	return roster
}

// seatOfLocked resolves a connection identity to its seat index, or -1.
// Assumes lock is held.
func (g *KozyolGame) seatOfLocked(connID uuid.UUID) int {
	for i, p := range g.Players {
		if p.ID == connID {
			return i
		}
	}
	return -1
}

// handsEmptyLocked reports whether every occupied seat has played out its
// hand. Assumes lock is held.
func (g *KozyolGame) handsEmptyLocked() bool {
	for _, hand := range g.Hands {
		if len(hand) > 0 {
			return false
		}
	}
	return true
}
