package hanabi

// Hand is the ordered sequence of cards held by one player. Position 0 is
// the leftmost card.
type Hand struct {
	Player string `json:"player"`
	Cards  []Card `json:"cards"`
}

// NewHand constructs an empty hand for the given player
func NewHand(player string) *Hand {
	return &Hand{Player: player}
}

// Draw moves the top card of deck to the right end of the hand. It
// returns false if the deck was empty; callers use that to start the
// final round.
func (h *Hand) Draw(d *Deck) bool {
	card, ok := d.Draw()
	if !ok {
		return false
	}
	h.Cards = append(h.Cards, card)
	return true
}

// Remove takes out the card at pos (0-indexed from the left), shifting
// the remaining cards left. The second return value is false if pos is
// out of bounds.
func (h *Hand) Remove(pos int) (Card, bool) {
	if pos < 0 || pos >= len(h.Cards) {
		return Card{}, false
	}
	card := h.Cards[pos]
	h.Cards = append(h.Cards[:pos], h.Cards[pos+1:]...)
	return card, true
}

// Clue records clue from giver on every card in the hand, and returns how
// many cards the clue matched. A clue must reveal something: if no card
// matches, ErrNoMatchingCards is returned and the hand is left untouched.
func (h *Hand) Clue(giver string, clue Clue) (int, error) {
	matches := 0
	for i := range h.Cards {
		if clue.Matches(h.Cards[i]) {
			matches++
		}
	}

	if matches == 0 {
		return 0, ErrNoMatchingCards
	}

	for i := range h.Cards {
		h.Cards[i].Clues = append(h.Cards[i].Clues, GivenClue{Giver: giver, Clue: clue})
	}

	return matches, nil
}
