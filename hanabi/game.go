package hanabi

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrTooFewPlayers   = errors.New("minimum of 2 players required")
	ErrTooManyPlayers  = errors.New("maximum of 5 players allowed")
	ErrNoSuchPlayer    = errors.New("no such player in this game")
	ErrNoMatchingCards = errors.New("no cards match that clue")
	ErrNotEnoughClues  = errors.New("no clue tokens left")
	ErrNoSuchCard      = errors.New("no card at that position")
	ErrMaxClues        = errors.New("all clue tokens are available")

	// ErrGameOver is not a failure: the action that returned it succeeded
	// and mutated the game, but the game has now ended. The caller must
	// stop dispatching actions into this game and finalize it.
	ErrGameOver = errors.New("the game is over")
)

const (
	// MaxClues is the cap on clue tokens
	MaxClues = 8
	// MaxLives is the number of fuse tokens a game starts with
	MaxLives = 3
	// MaxScore is the score of a won game: all five stacks completed
	MaxScore = 25

	minPlayers = 2
	maxPlayers = 5
)

// Game holds the full state of one game of Hanabi. All fields are
// exported so the session layer can persist a game bit-for-bit and
// resume it after a crash.
//
// Game methods assume exclusive access for their duration; serializing
// calls into a game is the caller's responsibility.
type Game struct {
	Deck     *Deck            `json:"deck"`
	Hands    []*Hand          `json:"hands"`
	Played   map[Color]Number `json:"played"`
	Discards map[Color][]Card `json:"discards"`
	LastMove string           `json:"lastMove"`
	Clues    int              `json:"clues"`
	Lives    int              `json:"lives"`
	Turn     int              `json:"turn"`

	// LastTurns is nil until the deck runs out. From then on it counts
	// completed turns; when it reaches the player count, everyone has had
	// their final turn and the game ends.
	LastTurns *int `json:"lastTurns,omitempty"`

	// Unwinnable is sticky: set the first time BecameUnwinnable detects a
	// dead color, never cleared.
	Unwinnable bool `json:"unwinnable"`
}

// NewGame starts a game for the given players with a freshly shuffled
// deck. Turn order follows the order of players.
func NewGame(players []string) (*Game, error) {
	if len(players) < minPlayers {
		return nil, ErrTooFewPlayers
	}
	if len(players) > maxPlayers {
		return nil, ErrTooManyPlayers
	}

	deck := NewDeck()
	hands := make([]*Hand, 0, len(players))
	for _, p := range players {
		hands = append(hands, NewHand(p))
	}

	cards := 5
	if len(players) >= 4 {
		cards = 4
	}
	for _, h := range hands {
		for i := 0; i < cards; i++ {
			h.Draw(deck)
		}
	}

	return &Game{
		Deck:     deck,
		Hands:    hands,
		Played:   map[Color]Number{},
		Discards: map[Color][]Card{},
		Clues:    MaxClues,
		Lives:    MaxLives,
	}, nil
}

// Score returns the current total score: the sum of the top ranks of all
// played stacks
func (g *Game) Score() int {
	score := 0
	for _, top := range g.Played {
		score += int(top)
	}
	return score
}

// Players enumerates the players of this game in turn order
func (g *Game) Players() []string {
	players := make([]string, 0, len(g.Hands))
	for _, h := range g.Hands {
		players = append(players, h.Player)
	}
	return players
}

// CurrentPlayer returns the player whose turn it is
func (g *Game) CurrentPlayer() string {
	return g.Hands[g.Turn].Player
}

// Clue has the current player give clue to player to. It returns the
// number of cards the clue matched.
//
// On ErrNotEnoughClues, ErrNoSuchPlayer, or ErrNoMatchingCards the game
// is left unchanged. ErrGameOver means the clue was given and the final
// round has now finished.
func (g *Game) Clue(to string, clue Clue) (int, error) {
	if g.Clues == 0 {
		return 0, ErrNotEnoughClues
	}

	giver := g.Hands[g.Turn].Player
	if giver == to {
		return 0, ErrNoSuchPlayer
	}

	var hand *Hand
	for _, h := range g.Hands {
		if h.Player == to {
			hand = h
			break
		}
	}
	if hand == nil {
		return 0, ErrNoSuchPlayer
	}

	num, err := hand.Clue(giver, clue)
	if err != nil {
		return 0, err
	}

	cards := "cards are"
	if num == 1 {
		cards = "card is"
	}
	g.LastMove = fmt.Sprintf("@%s clued @%s that %d %s %s", giver, to, num, cards, clue)
	g.Clues--

	if g.advanceTurn() {
		return num, ErrGameOver
	}
	return num, nil
}

// Play has the current player play the card at pos (0-indexed from the
// left of their hand). A card extends its color's stack if its rank is
// exactly one above the stack's top (or is a one on an empty stack);
// anything else is a misplay that costs a life and sends the card to the
// discard pile.
//
// On ErrNoSuchCard the game is left unchanged. ErrGameOver means the
// play happened and the game has ended, either by the last life going or
// by the final round finishing.
func (g *Game) Play(pos int) error {
	hand := g.Hands[g.Turn]
	player := hand.Player

	card, ok := hand.Remove(pos)
	if !ok {
		return ErrNoSuchCard
	}

	drew := hand.Draw(g.Deck)
	if !drew && g.LastTurns == nil {
		// deck just ran out; everyone gets one more turn
		zero := 0
		g.LastTurns = &zero
	}

	success := false
	if top, started := g.Played[card.Color]; !started {
		if card.Number == One {
			g.Played[card.Color] = One
			success = true
		}
	} else if card.Number == top.Next() {
		g.Played[card.Color] = card.Number
		if card.Number == Five && g.Clues < MaxClues {
			// completed a stack! get a clue back.
			g.Clues++
		}
		success = true
	}

	drewText := ""
	if drew {
		drewText = fmt.Sprintf(", and then drew a %s", hand.Cards[len(hand.Cards)-1])
	}

	if !success {
		g.Lives--
		g.LastMove = fmt.Sprintf("@%s incorrectly played a %s%s", player, card, drewText)
		g.discarded(card)
		if g.Lives == 0 {
			return ErrGameOver
		}
	} else {
		g.LastMove = fmt.Sprintf("@%s played a %s%s", player, card, drewText)
	}

	if g.advanceTurn() {
		return ErrGameOver
	}
	return nil
}

// Discard has the current player discard the card at pos (0-indexed from
// the left of their hand), earning a clue token back. Discarding with
// all 8 tokens banked is disallowed.
//
// On ErrMaxClues or ErrNoSuchCard the game is left unchanged. ErrGameOver
// means the discard happened and the final round has now finished.
func (g *Game) Discard(pos int) error {
	if g.Clues == MaxClues {
		return ErrMaxClues
	}

	hand := g.Hands[g.Turn]
	player := hand.Player

	card, ok := hand.Remove(pos)
	if !ok {
		return ErrNoSuchCard
	}

	if !hand.Draw(g.Deck) && g.LastTurns == nil {
		zero := 0
		g.LastTurns = &zero
	}

	g.LastMove = fmt.Sprintf("@%s discarded a %s", player, card)
	g.discarded(card)
	g.Clues++

	if g.advanceTurn() {
		return ErrGameOver
	}
	return nil
}

// BecameUnwinnable reports whether the game just became impossible to
// win: for some color, every copy of a still-needed rank has been
// discarded, so that color's stack can never be completed. The condition
// is sticky; after returning true once it returns false forever, so a
// caller can use it to notify players exactly once.
func (g *Game) BecameUnwinnable() bool {
	if g.Unwinnable {
		return false
	}

	for _, color := range ColorOrder {
		pile := g.Discards[color]
		run := 0
		for i, card := range pile {
			if i > 0 && pile[i-1].Number == card.Number {
				run++
			} else {
				run = 1
			}
			if run == copiesOf(card.Number) {
				g.Unwinnable = true
				return true
			}
		}
	}
	return false
}

// copiesOf returns how many copies of the given rank each color has
func copiesOf(n Number) int {
	switch n {
	case One:
		return 3
	case Five:
		return 1
	default:
		return 2
	}
}

// advanceTurn passes the turn to the next player and reports whether
// that completed the final round
func (g *Game) advanceTurn() bool {
	g.Turn = (g.Turn + 1) % len(g.Hands)
	if g.LastTurns == nil {
		return false
	}
	*g.LastTurns++
	return *g.LastTurns == len(g.Hands)
}

// discarded routes a card to the discard pile, keeping each color's pile
// sorted by rank
func (g *Game) discarded(card Card) {
	pile := g.Discards[card.Color]
	pos := sort.Search(len(pile), func(i int) bool {
		return pile[i].Number > card.Number
	})
	pile = append(pile, Card{})
	copy(pile[pos+1:], pile[pos:])
	pile[pos] = card
	g.Discards[card.Color] = pile
}
