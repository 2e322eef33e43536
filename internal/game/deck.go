// internal/game/deck.go
package game

import (
	"math/rand"

	"kozyol/internal/models"
)

// DeckSize is the full 36-card deck: 9 ranks x 4 suits.
const DeckSize = 36

// handSize is the number of cards dealt to each of the six seat slots.
const handSize = 4

// dealtSlots is fixed at six regardless of how many seats are occupied;
// hands for empty seats become part of the unused tail.
const dealtSlots = 6

// NewDeck returns the 36-card deck in canonical suit-major order.
// Callers always shuffle before use, so the order itself carries no meaning.
func NewDeck() []models.Card {
	deck := make([]models.Card, 0, DeckSize)
	for _, suit := range models.Suits {
		for _, rank := range models.Ranks {
			deck = append(deck, models.Card{Rank: rank, Suit: suit})
		}
	}
	return deck
}

// ShuffleAndDeal shuffles a fresh deck and slices it into the fixed deal
// layout: six hands of four from cards 0-23, the trump card at index 24.
// Cards 25-35 are the unused tail and leave play for the round.
//
// The player count is validated before any dealing happens: it must be even
// and at least 2, or ErrInvalidPlayerCount is returned.
func ShuffleAndDeal(rng *rand.Rand, numPlayers int) (hands [][]models.Card, trump models.Card, err error) {
	if numPlayers < 2 || numPlayers%2 != 0 {
		return nil, models.Card{}, ErrInvalidPlayerCount
	}

	deck := NewDeck()
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	hands = make([][]models.Card, dealtSlots)
	for i := 0; i < dealtSlots; i++ {
		hand := make([]models.Card, handSize)
		copy(hand, deck[i*handSize:(i+1)*handSize])
		hands[i] = hand
	}
	trump = deck[dealtSlots*handSize]
	return hands, trump, nil
}
