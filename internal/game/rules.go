// internal/game/rules.go
package game

import "kozyol/internal/models"

// isLegalMove checks the follow-suit rule for the acting seat. A card leading
// the trick is always legal; otherwise the card must match the lead suit
// whenever the hand still holds at least one card of that suit.
// Assumes lock is held.
func (g *KozyolGame) isLegalMove(seat int, card models.Card) bool {
	if len(g.CurrentTrick) == 0 {
		return true
	}
	leadSuit := g.CurrentTrick[0].Card.Suit
	if card.Suit == leadSuit {
		return true
	}
	for _, held := range g.Hands[seat] {
		if held.Suit == leadSuit {
			return false
		}
	}
	return true
}

// beats reports whether candidate takes the trick from the running best card.
// Trump dominates everything; among trumps and among lead-suit cards rank
// decides; an off-suit non-trump card can never win.
func beats(candidate, best models.Card, trumpSuit, leadSuit string) bool {
	if candidate.Suit == trumpSuit {
		return best.Suit != trumpSuit || candidate.OutranksInSuit(best)
	}
	if candidate.Suit == leadSuit && best.Suit != trumpSuit {
		return candidate.OutranksInSuit(best)
	}
	return false
}

// resolveTrick walks the completed trick and returns the winning seat.
// Assumes lock is held and the trick is non-empty.
func (g *KozyolGame) resolveTrick() int {
	best := g.CurrentTrick[0]
	leadSuit := best.Card.Suit
	for _, entry := range g.CurrentTrick[1:] {
		if beats(entry.Card, best.Card, g.TrumpCard.Suit, leadSuit) {
			best = entry
		}
	}
	return best.Player
}

// trickPoints sums the point values of every card captured in the trick.
func trickPoints(trick []TrickEntry) int {
	total := 0
	for _, entry := range trick {
		total += entry.Card.Value()
	}
	return total
}
