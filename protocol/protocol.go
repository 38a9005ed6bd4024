package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonhoo/hanabot/hanabi"
)

// Cmd represents a command a user can send the bot
type Cmd int

const (
	Null Cmd = iota
	Join
	Leave
	Start
	Players
	Help
	Clue
	Play
	Discard
	Quit
	Ping
	Hands
	Hand
	Discards
)

var cmdNames = []string{
	"Null",
	"Join",
	"Leave",
	"Start",
	"Players",
	"Help",
	"Clue",
	"Play",
	"Discard",
	"Quit",
	"Ping",
	"Hands",
	"Hand",
	"Discards",
}

func (c Cmd) String() string {
	return cmdNames[c]
}

// Action is a fully parsed user command, ready to be dispatched into a
// game
type Action struct {
	Command Cmd `json:"command"`

	// Target is the player being clued, or whose hand to show
	Target string `json:"target,omitempty"`

	// Clue is the clue to give, for Clue actions
	Clue hanabi.Clue `json:"clue,omitempty"`

	// Position is the 0-indexed card position for Play and Discard
	Position int `json:"position,omitempty"`

	// Count is the requested number of players for Start; 0 means as
	// many as are available
	Count int `json:"count,omitempty"`
}

// ErrEmptyCommand is returned for messages with no command in them
var ErrEmptyCommand = errors.New("You must either clue, play, or discard.")

// Parse turns a chat line into an Action. The error values carry
// user-facing guidance and are meant to be sent back verbatim.
//
// Card positions are 1-based on the wire ("play 1" plays the leftmost
// card) and 0-based in the returned Action.
func Parse(text string) (Action, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Action{}, ErrEmptyCommand
	}

	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	// "@bob red" is shorthand for "clue @bob red"
	if strings.HasPrefix(fields[0], "@") {
		cmd = "clue"
		args = fields
	}

	switch cmd {
	case "join":
		return Action{Command: Join}, nil
	case "leave":
		return Action{Command: Leave}, nil
	case "players":
		return Action{Command: Players}, nil
	case "help":
		return Action{Command: Help}, nil
	case "quit":
		return Action{Command: Quit}, nil
	case "ping":
		return Action{Command: Ping}, nil
	case "hands":
		return Action{Command: Hands}, nil
	case "discards":
		return Action{Command: Discards}, nil

	case "start":
		if len(args) == 0 {
			return Action{Command: Start}, nil
		}
		count, err := strconv.Atoi(args[0])
		if err != nil || len(args) > 1 {
			return Action{}, errors.New(
				"To start a game, say `start`, optionally followed by the number of players to include.")
		}
		return Action{Command: Start, Count: count}, nil

	case "hand":
		if len(args) != 1 || !strings.HasPrefix(args[0], "@") {
			return Action{}, errors.New(
				"I believe you are mistaken. " +
					"To view what a person knows about their hand, you just name a player " +
					"(using @playername), and nothing else.")
		}
		return Action{Command: Hand, Target: strings.TrimPrefix(args[0], "@")}, nil

	case "clue":
		if len(args) != 2 || !strings.HasPrefix(args[0], "@") {
			return Action{}, errors.New(
				"I don't have a clue what you mean. " +
					"To clue, you give a player (using @playername), " +
					"a card specifier (e.g., \"red\" or \"one\"), and nothing else.")
		}
		clue, err := parseClue(strings.ToLower(args[1]))
		if err != nil {
			return Action{}, err
		}
		return Action{
			Command: Clue,
			Target:  strings.TrimPrefix(args[0], "@"),
			Clue:    clue,
		}, nil

	case "play":
		pos, err := parsePosition(args)
		if err != nil {
			return Action{}, errors.New(
				"I think you played incorrectly there. " +
					"To play, you just specify which card you'd like to play by specifying " +
					"its index from the left side of your hand (starting at 1).")
		}
		return Action{Command: Play, Position: pos}, nil

	case "discard":
		pos, err := parsePosition(args)
		if err != nil {
			return Action{}, errors.New(
				"I'm going to discard that move. " +
					"To discard, you must specify which card you'd like to discard by specifying " +
					"its index from the left side of your hand (starting at 1).")
		}
		return Action{Command: Discard, Position: pos}, nil
	}

	return Action{}, fmt.Errorf(
		"What do you mean %q?! You must either clue, play, or discard.", fields[0])
}

var clueValues = map[string]hanabi.Clue{
	"red":    hanabi.NewColorClue(hanabi.Red),
	"green":  hanabi.NewColorClue(hanabi.Green),
	"white":  hanabi.NewColorClue(hanabi.White),
	"blue":   hanabi.NewColorClue(hanabi.Blue),
	"yellow": hanabi.NewColorClue(hanabi.Yellow),
	"one":    hanabi.NewNumberClue(hanabi.One),
	"two":    hanabi.NewNumberClue(hanabi.Two),
	"three":  hanabi.NewNumberClue(hanabi.Three),
	"four":   hanabi.NewNumberClue(hanabi.Four),
	"five":   hanabi.NewNumberClue(hanabi.Five),
	"1":      hanabi.NewNumberClue(hanabi.One),
	"2":      hanabi.NewNumberClue(hanabi.Two),
	"3":      hanabi.NewNumberClue(hanabi.Three),
	"4":      hanabi.NewNumberClue(hanabi.Four),
	"5":      hanabi.NewNumberClue(hanabi.Five),
}

func parseClue(s string) (hanabi.Clue, error) {
	clue, ok := clueValues[s]
	if !ok {
		return hanabi.Clue{}, fmt.Errorf("You're making no sense. A card can't be %s...", s)
	}
	return clue, nil
}

func parsePosition(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("expected exactly one card position")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, errors.New("card positions start at 1")
	}
	return n - 1, nil
}
