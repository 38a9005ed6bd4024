package hanabi

import "math/rand"

// Each color contributes three ones, two each of two through four, and a
// single five: 10 cards per color, 50 in total.
var numberDistribution = []Number{One, One, One, Two, Two, Three, Three, Four, Four, Five}

// Deck is an ordered stack of face-down cards. Total records the size the
// deck started with, for deck-remaining displays.
type Deck struct {
	Total int    `json:"total"`
	Cards []Card `json:"cards"`
}

// NewDeck builds the fixed 50-card Hanabi deck and shuffles it
func NewDeck() *Deck {
	cards := make([]Card, 0, len(ColorOrder)*len(numberDistribution))
	for _, color := range ColorOrder {
		for _, number := range numberDistribution {
			cards = append(cards, Card{Color: color, Number: number})
		}
	}

	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	return &Deck{Total: len(cards), Cards: cards}
}

// Draw removes and returns the top card. The second return value is false
// if the deck is empty.
func (d *Deck) Draw() (Card, bool) {
	if len(d.Cards) == 0 {
		return Card{}, false
	}
	card := d.Cards[len(d.Cards)-1]
	d.Cards = d.Cards[:len(d.Cards)-1]
	return card, true
}

// Len returns the number of cards left in the deck
func (d *Deck) Len() int {
	return len(d.Cards)
}
