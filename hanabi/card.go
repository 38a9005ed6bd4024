package hanabi

import "fmt"

// Color represents one of the five card colors
type Color int

var colorNames = []string{"red", "green", "white", "blue", "yellow"}

const (
	Red Color = iota
	Green
	White
	Blue
	Yellow
)

// ColorOrder fixes the order colors are displayed in. The order itself is
// arbitrary, but it must be the same everywhere.
var ColorOrder = []Color{Red, Green, White, Blue, Yellow}

func (c Color) String() string {
	return colorNames[c]
}

// Number represents a card rank, One through Five
type Number int

var numberNames = []string{"one", "two", "three", "four", "five"}

const (
	One Number = iota + 1
	Two
	Three
	Four
	Five
)

func (n Number) String() string {
	return fmt.Sprintf("%d", int(n))
}

// Word returns the spelled-out name of the number, as used in clues
func (n Number) Word() string {
	return numberNames[n-1]
}

// Next returns the rank that has to be played on top of n. Five is the top
// of a completed stack, so it steps to itself.
func (n Number) Next() Number {
	if n >= Five {
		return Five
	}
	return n + 1
}

// ClueKind distinguishes color clues from number clues
type ClueKind int

const (
	ColorClue ClueKind = iota
	NumberClue
)

// Clue is a single piece of information given to a player: either a color
// or a number
type Clue struct {
	Kind   ClueKind `json:"kind"`
	Color  Color    `json:"color,omitempty"`
	Number Number   `json:"number,omitempty"`
}

// NewColorClue constructs a color clue
func NewColorClue(c Color) Clue {
	return Clue{Kind: ColorClue, Color: c}
}

// NewNumberClue constructs a number clue
func NewNumberClue(n Number) Clue {
	return Clue{Kind: NumberClue, Number: n}
}

// Matches reports whether the clue applies to the given card
func (cl Clue) Matches(c Card) bool {
	if cl.Kind == ColorClue {
		return cl.Color == c.Color
	}
	return cl.Number == c.Number
}

func (cl Clue) String() string {
	if cl.Kind == ColorClue {
		return cl.Color.String()
	}
	return cl.Number.String()
}

// GivenClue records a clue a player received, and who gave it
type GivenClue struct {
	Giver string `json:"giver"`
	Clue  Clue   `json:"clue"`
}

// Card is a single Hanabi card. Clues holds every clue given to the
// holder while this card was in their hand; what the holder knows about
// the card is derived from it on demand.
type Card struct {
	Color  Color       `json:"color"`
	Number Number      `json:"number"`
	Clues  []GivenClue `json:"clues,omitempty"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s %s", c.Color, c.Number)
}

// KnowsColor reports whether the holder has been clued this card's color
func (c Card) KnowsColor() bool {
	for _, gc := range c.Clues {
		if gc.Clue.Kind == ColorClue && gc.Clue.Color == c.Color {
			return true
		}
	}
	return false
}

// KnowsNumber reports whether the holder has been clued this card's number
func (c Card) KnowsNumber() bool {
	for _, gc := range c.Clues {
		if gc.Clue.Kind == NumberClue && gc.Clue.Number == c.Number {
			return true
		}
	}
	return false
}

// Known renders the card as its holder sees it, with "?" for anything
// they have not been clued
func (c Card) Known() string {
	switch {
	case c.KnowsColor() && c.KnowsNumber():
		return fmt.Sprintf("%s %s", c.Color, c.Number)
	case c.KnowsColor():
		return fmt.Sprintf("%s ?", c.Color)
	case c.KnowsNumber():
		return fmt.Sprintf("? %s", c.Number)
	default:
		return "? ?"
	}
}
