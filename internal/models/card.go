package models

// Suits and Ranks define the 36-card deck: four suits, nine ranks from the
// six up to the ace.
var (
	Suits = []string{"♠", "♥", "♦", "♣"}
	Ranks = []string{"6", "7", "8", "9", "10", "J", "Q", "K", "A"}
)

// CardValues maps a rank to its point value. The deck carries 120 points in
// total; the sixes through nines are worthless.
var CardValues = map[string]int{
	"6": 0, "7": 0, "8": 0, "9": 0,
	"10": 10, "J": 2, "Q": 3, "K": 4, "A": 11,
}

// rankOrder gives each rank its position in Ranks, for comparisons. Rank
// order and point value disagree (the 10 outranks the J/Q/K in points but
// not in trick strength), so both tables exist.
var rankOrder = map[string]int{}

func init() {
	for i, r := range Ranks {
		rankOrder[r] = i
	}
}

// Card is a single playing card. The zero value is not a valid card.
type Card struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// Value returns the card's point value for scoring.
func (c Card) Value() int {
	return CardValues[c.Rank]
}

// OutranksInSuit reports whether c beats other by rank. Only meaningful when
// both cards are of the same suit.
func (c Card) OutranksInSuit(other Card) bool {
	return rankOrder[c.Rank] > rankOrder[other.Rank]
}
