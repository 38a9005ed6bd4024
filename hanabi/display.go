package hanabi

import (
	"fmt"
	"strings"
)

// MessageSink is where the game writes player-visible text. The game
// never performs I/O itself; it calls Send any number of times during an
// action, and the caller decides how (and whether) the text reaches the
// recipient. Grouping sends per recipient is also the caller's business.
type MessageSink interface {
	Send(recipient, text string)
}

const divider = "--------------------------------------------------------------------------"

// Progress narrates the last move to every player, checks for the end of
// the game, and, if the game continues, shows each player their view of
// the board. It returns true if the game has ended.
//
// This could be folded into the action methods, but it would make their
// return values awkward; the session layer calls it after every action.
func (g *Game) Progress(sink MessageSink) bool {
	for _, h := range g.Hands {
		sink.Send(h.Player, divider)
	}

	if g.LastMove != "" {
		for _, h := range g.Hands {
			sink.Send(h.Player, g.lastMoveFor(h.Player))
		}
	}

	points := g.Score()
	gameOver := g.Lives == 0
	if g.LastTurns != nil && *g.LastTurns == len(g.Hands) {
		gameOver = true
	}
	if gameOver {
		for _, h := range g.Hands {
			sink.Send(h.Player, fmt.Sprintf("Game over. You got %d/%d points.", points, MaxScore))
		}
		return true
	}

	if points == MaxScore {
		for _, h := range g.Hands {
			sink.Send(h.Player, fmt.Sprintf("You won the game with %d/%d points!", MaxScore, MaxScore))
		}
		return true
	}

	for i := range g.Hands {
		g.printGameState(i, sink)
	}
	return false
}

// lastMoveFor rephrases the last move for one player, so that the actor
// reads "You played..." while everyone else reads "@actor played...".
// Mentions are matched as whole words, so a player whose name is a
// prefix of another's is not rewritten by mistake.
func (g *Game) lastMoveFor(player string) string {
	mention := "@" + player
	words := strings.Fields(g.LastMove)
	for i, w := range words {
		if w == mention {
			words[i] = "you"
		}
	}
	m := strings.Join(words, " ")
	if strings.HasPrefix(m, "you ") {
		m = "You" + m[3:]
	}
	return m
}

// ShowHand shows user everything player knows about their own hand
func (g *Game) ShowHand(user, player string, sink MessageSink) {
	for i, h := range g.Hands {
		if h.Player == player {
			sink.Send(user, fmt.Sprintf("@%s knows the following about their hand:", player))
			g.showKnown(i, user, sink, false)
			return
		}
	}
	sink.Send(user, fmt.Sprintf("there is no player in this game named %s", player))
}

// ShowHands shows user the other players' hands, plus what user knows
// about their own
func (g *Game) ShowHands(user string, sink MessageSink) {
	me := -1
	for i, h := range g.Hands {
		if h.Player == user {
			me = i
			break
		}
	}
	if me == -1 {
		return
	}

	for i := 1; i < len(g.Hands); i++ {
		h := g.Hands[(me+i)%len(g.Hands)]
		sink.Send(user, fmt.Sprintf("@%s: %s", h.Player, handText(h)))
	}

	sink.Send(user, "Your hand, as far as you know, is:")
	g.showKnown(me, user, sink, true)
}

// ShowDiscards shows user the discard pile, grouped by color and sorted
// by rank
func (g *Game) ShowDiscards(user string, sink MessageSink) {
	empty := true
	for _, pile := range g.Discards {
		if len(pile) > 0 {
			empty = false
			break
		}
	}
	if empty {
		sink.Send(user, "The discard pile is empty.")
		return
	}

	sink.Send(user, "The discard pile contains the following cards:")
	for _, color := range ColorOrder {
		pile := g.Discards[color]
		if len(pile) == 0 {
			continue
		}
		numbers := make([]string, 0, len(pile))
		for _, card := range pile {
			numbers = append(numbers, card.Number.String())
		}
		sink.Send(user, fmt.Sprintf("%s: %s", color, strings.Join(numbers, " ")))
	}
}

// showKnown sends user the hand'th player's hand as its holder sees it.
// If indexed is true, each card is prefixed with its 1-based position.
func (g *Game) showKnown(hand int, user string, sink MessageSink, indexed bool) {
	descs := make([]string, 0, len(g.Hands[hand].Cards))
	for i, card := range g.Hands[hand].Cards {
		desc := card.Known()
		if indexed {
			desc = fmt.Sprintf("%d: %s", i+1, desc)
		}
		descs = append(descs, desc)
	}
	sink.Send(user, strings.Join(descs, "  |  "))
}

// printGameState shows the hand'th player the board from their seat.
// What they see depends on whether it is their turn.
func (g *Game) printGameState(hand int, sink MessageSink) {
	user := g.Hands[hand].Player

	last := ""
	if g.LastTurns != nil {
		last = " *last*"
	}
	setup := fmt.Sprintf("It's @%s's%s turn", g.Hands[g.Turn].Player, last)
	if g.Turn == hand {
		setup = fmt.Sprintf("It's *your*%s turn", last)
	}

	sink.Send(user, fmt.Sprintf(
		"%s, and there are %d clues and %d lives remaining.",
		setup, g.Clues, g.Lives,
	))
	sink.Send(user, fmt.Sprintf("The deck has %d of %d cards left.", g.Deck.Len(), g.Deck.Total))

	stacks := make([]string, 0, len(ColorOrder))
	for _, color := range ColorOrder {
		if top, ok := g.Played[color]; ok {
			stacks = append(stacks, fmt.Sprintf("%s %s", color, top))
		} else {
			stacks = append(stacks, fmt.Sprintf("%s 0", color))
		}
	}
	sink.Send(user, "Played: "+strings.Join(stacks, "  "))

	if g.Turn == hand {
		// it is our turn: show what we know about our hand, then the
		// other players' hands in the order they play after us
		sink.Send(user, "Your hand, as far as you know, is:")
		g.showKnown(hand, user, sink, true)

		sink.Send(user, "The next players' hands are:")
		for i := 1; i < len(g.Hands); i++ {
			h := g.Hands[(g.Turn+i)%len(g.Hands)]
			sink.Send(user, fmt.Sprintf("@%s: %s", h.Player, handText(h)))
		}

		sink.Send(user, "When you have the time, let me know here what move you want to make next!")
	} else {
		// not our turn: show the current player's hand and what they know
		sink.Send(user, "The current player's hand is:")
		sink.Send(user, handText(g.Hands[g.Turn]))

		sink.Send(user, "They know the following about their hand:")
		g.showKnown(g.Turn, user, sink, false)
	}
}

func handText(h *Hand) string {
	cards := make([]string, 0, len(h.Cards))
	for _, c := range h.Cards {
		cards = append(cards, c.String())
	}
	return strings.Join(cards, "  |  ")
}
