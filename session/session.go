package session

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/jonhoo/hanabot/hanabi"
	"github.com/jonhoo/hanabot/logger"
	"github.com/jonhoo/hanabot/protocol"
	uuid "github.com/satori/go.uuid"
)

const helpText = "Oh, so you're confused? I'm so sorry to hear that.\n" +
	"\n" +
	"On your turn, you can `play`, `discard`, or `clue`. " +
	"If you `play` or `discard`, you must also specify which card using " +
	"the card's position from the left-hand side, starting at one. " +
	"To `clue`, you give the player you are cluing (`@player`), " +
	"and the clue you want to give (e.g., `red`, `one`).\n" +
	"\n" +
	"To look around, you can use `hands` or `discards`, or you can use " +
	"`hand @player` to see what a particular player knows. " +
	"If everything goes south, you can always use `quit` to give up."

// Session owns the waiting queue, the table of running games, and the
// mapping from players to the game they are in. All state is exported so
// the whole session (games included) can be snapshotted to disk and
// resumed bit-for-bit.
//
// Sessions are not safe for concurrent use; the caller serializes access
// (the websocket gateway holds a lock around every Handle call).
type Session struct {
	// Players holds every user who has joined the bot
	Players map[string]bool `json:"players"`

	// Waiting is the queue of users waiting for a game
	Waiting []string `json:"waiting"`

	// Games holds the running games, keyed by game ID
	Games map[string]*hanabi.Game `json:"games"`

	// InGame maps each playing user to the ID of their game
	InGame map[string]string `json:"inGame"`
}

// New constructs an empty session
func New() *Session {
	return &Session{
		Players: map[string]bool{},
		Games:   map[string]*hanabi.Game{},
		InGame:  map[string]string{},
	}
}

// Handle dispatches one user's action. All player-facing output goes to
// sink; Handle itself never performs I/O.
func (s *Session) Handle(user string, action protocol.Action, sink hanabi.MessageSink) {
	switch action.Command {
	case protocol.Join:
		s.handleJoin(user, sink)
		return

	case protocol.Leave:
		s.handleLeave(user, sink)
		return

	case protocol.Players:
		sink.Send(user, s.playersSummary())
		return

	case protocol.Help:
		sink.Send(user, helpText)
		return

	case protocol.Start:
		if _, playing := s.InGame[user]; playing {
			// game has already started, so ignore this
			return
		}
		s.startGame(user, action.Count, sink)
		return
	}

	// everything else happens inside a game
	gameID, ok := s.InGame[user]
	if !ok {
		sink.Send(user, "You're not currently in any games, and thus can't make a move.")
		return
	}
	game := s.Games[gameID]

	switch action.Command {
	case protocol.Clue, protocol.Play, protocol.Discard:
		if current := game.CurrentPlayer(); current != user {
			sink.Send(user, fmt.Sprintf("It's not your turn yet, it's @%s's.", current))
			return
		}
	}

	switch action.Command {
	case protocol.Quit:
		score := game.Score()
		for _, p := range game.Players() {
			sink.Send(p, fmt.Sprintf(
				"The game was ended prematurely by @%s with a score of %d/%d",
				user, score, hanabi.MaxScore,
			))
		}
		s.endGame(gameID, sink)

	case protocol.Ping:
		if current := game.CurrentPlayer(); current == user {
			sink.Send(user, "It's your turn... No need to bother the other players.")
		} else {
			sink.Send(current, fmt.Sprintf("@%s pinged you -- it's your turn.", user))
		}

	case protocol.Hands:
		game.ShowHands(user, sink)

	case protocol.Hand:
		game.ShowHand(user, action.Target, sink)

	case protocol.Discards:
		game.ShowDiscards(user, sink)

	case protocol.Clue:
		_, err := game.Clue(action.Target, action.Clue)
		switch err {
		case nil, hanabi.ErrGameOver:
			s.progressGame(gameID, sink)
		case hanabi.ErrNoSuchPlayer:
			sink.Send(user, "The player you specified does not exist. "+
				"Remember to name them with @playername.")
		case hanabi.ErrNoMatchingCards:
			sink.Send(user, "That clue matches none of their cards, so you cannot give it.")
		case hanabi.ErrNotEnoughClues:
			sink.Send(user, "There are no clue tokens left, so you cannot clue.")
		}

	case protocol.Play:
		err := game.Play(action.Position)
		switch err {
		case nil, hanabi.ErrGameOver:
			s.progressGame(gameID, sink)
		case hanabi.ErrNoSuchCard:
			sink.Send(user, "The card you specified is not in your hand. "+
				"Remember that card indexing starts at 1.")
		}

	case protocol.Discard:
		err := game.Discard(action.Position)
		switch err {
		case nil, hanabi.ErrGameOver:
			s.progressGame(gameID, sink)
		case hanabi.ErrNoSuchCard:
			sink.Send(user, "The card you specified is not in your hand. "+
				"Remember that card indexing starts at 1.")
		case hanabi.ErrMaxClues:
			sink.Send(user, "All 8 clue tokens are available, so discard is disallowed.")
		}

	default:
		sink.Send(user, "You must either clue, play, or discard.")
	}
}

func (s *Session) handleJoin(user string, sink hanabi.MessageSink) {
	if s.Players[user] {
		if s.isWaiting(user) {
			sink.Send(user, "You can start a game with `start` once there are enough players available.")
		} else {
			sink.Send(user, "You're already playing, but I appreciate your enthusiasm.")
		}
		return
	}

	s.Players[user] = true
	s.Waiting = append(s.Waiting, user)
	logger.Log.Infow("user joined", "user", user)

	sink.Send(user, "Welcome! "+
		"I'll get you started with a game as soon as there are some other players available.")
	s.onPlayerChange(sink)
}

func (s *Session) handleLeave(user string, sink hanabi.MessageSink) {
	if !s.Players[user] {
		return
	}

	// take them off the roster before quitting their game, so that the
	// game's end doesn't queue (or seat) them again
	delete(s.Players, user)
	for i, p := range s.Waiting {
		if p == user {
			s.Waiting = append(s.Waiting[:i], s.Waiting[i+1:]...)
			break
		}
	}

	if _, playing := s.InGame[user]; playing {
		s.Handle(user, protocol.Action{Command: protocol.Quit}, sink)
	}
	logger.Log.Infow("user left", "user", user)

	sink.Send(user, "I have stricken you from all my lists.")
}

func (s *Session) playersSummary() string {
	var out strings.Builder
	fmt.Fprintf(&out, "There are currently %d games and %d players:", len(s.Games), len(s.Players))
	for id, game := range s.Games {
		players := game.Players()
		for i, p := range players {
			players[i] = "@" + p
		}
		fmt.Fprintf(&out, "\n%s: %s", id, strings.Join(players, ", "))
	}
	if len(s.Waiting) == 0 {
		out.WriteString("\nNo players waiting.")
	} else {
		waiting := make([]string, 0, len(s.Waiting))
		for _, p := range s.Waiting {
			waiting = append(waiting, "@"+p)
		}
		fmt.Fprintf(&out, "\nWaiting: %s", strings.Join(waiting, ", "))
	}
	return out.String()
}

// onPlayerChange decides whether a new game can start. Called whenever
// the number of waiting players changes: with five waiting a game starts
// immediately; with two to four, the waiting players are told they can
// force one with `start`.
func (s *Session) onPlayerChange(sink hanabi.MessageSink) {
	switch len(s.Waiting) {
	case 0:
		// reachable, since we get called right after starting a game
	case 1:
		// can't start a game yet
	case 2, 3, 4:
		message := fmt.Sprintf(
			"I have %d other available players, so we *could* start a game.\n"+
				"If you'd like to do so instead of waiting for five players, "+
				"just send me the message `start`.",
			len(s.Waiting)-1,
		)
		for _, p := range s.Waiting {
			sink.Send(p, message)
		}
	default:
		// five or more: start a game, then see if we can start another
		s.startGame("", 0, sink)
		s.onPlayerChange(sink)
	}
}

// startGame starts a game from the waiting queue. If user is non-empty,
// they asked for the game and must be included (and seated first). count
// caps the number of players; 0 means take up to five.
func (s *Session) startGame(user string, count int, sink hanabi.MessageSink) {
	var players []string

	if user != "" {
		if !s.isWaiting(user) {
			// that user isn't waiting, so do nothing
			return
		}
		s.removeWaiting(user)
		players = append(players, user)
	}

	// the requested count is a cap; asking for fewer than two players
	// just means the not-enough-players refusal below fires
	limit := 5
	if count != 0 {
		limit = count
		if limit > 5 {
			limit = 5
		}
	}
	for len(players) < limit && len(s.Waiting) > 0 {
		players = append(players, s.Waiting[0])
		s.Waiting = s.Waiting[1:]
	}

	if len(players) < 2 {
		if user != "" {
			sink.Send(user, "Unfortunately, there aren't enough players to start a game yet.")
		}
		s.Waiting = append(players, s.Waiting...)
		return
	}

	game, err := hanabi.NewGame(players)
	if err != nil {
		// player count is in range by construction
		panic(err)
	}

	gameID := uuid.NewV4().String()
	s.Games[gameID] = game
	logger.Log.Infow("starting game", "game", gameID, "players", players)

	for _, p := range players {
		others := make([]string, 0, len(players)-1)
		for _, other := range players {
			if other != p {
				others = append(others, "@"+other)
			}
		}
		sink.Send(p, fmt.Sprintf(
			"You are now in a game with %d other players: %s",
			len(players)-1, strings.Join(others, ", "),
		))
		s.InGame[p] = gameID
	}

	s.progressGame(gameID, sink)
}

// progressGame advances the presentation of a game after a turn: board
// views for everyone, end-of-game handling, and the one-time unwinnable
// callout.
func (s *Session) progressGame(gameID string, sink hanabi.MessageSink) {
	game := s.Games[gameID]
	if game.Progress(sink) {
		s.endGame(gameID, sink)
		return
	}
	if game.BecameUnwinnable() {
		// last move made the game unwinnable -- call someone out
		for _, p := range game.Players() {
			sink.Send(p, fmt.Sprintf(
				"%s became unwinnable after %s",
				s.describeGame(gameID), game.LastMove,
			))
		}
	}
}

func (s *Session) describeGame(gameID string) string {
	players := s.Games[gameID].Players()
	mentions := make([]string, 0, len(players))
	for _, p := range players {
		mentions = append(mentions, "@"+p)
	}
	if len(mentions) > 1 {
		last := len(mentions) - 1
		return fmt.Sprintf("Game with %s, and %s",
			strings.Join(mentions[:last], ", "), mentions[last])
	}
	return fmt.Sprintf("Game with %s", mentions[0])
}

// endGame removes a finished game and returns its players to the waiting
// pool
func (s *Session) endGame(gameID string, sink hanabi.MessageSink) {
	desc := s.describeGame(gameID)
	game := s.Games[gameID]
	delete(s.Games, gameID)

	logger.Log.Infow("game ended", "game", gameID, "score", game.Score())
	for _, p := range game.Players() {
		sink.Send(p, fmt.Sprintf(
			"%s ended with a score of %d/%d", desc, game.Score(), hanabi.MaxScore,
		))
	}

	// shuffle players before re-queueing them, so the next game doesn't
	// have the same player order as this one
	players := game.Players()
	rand.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})
	for _, p := range players {
		delete(s.InGame, p)
		if s.Players[p] {
			s.Waiting = append(s.Waiting, p)
		}
	}
	s.onPlayerChange(sink)
}

func (s *Session) isWaiting(user string) bool {
	for _, p := range s.Waiting {
		if p == user {
			return true
		}
	}
	return false
}

func (s *Session) removeWaiting(user string) {
	for i, p := range s.Waiting {
		if p == user {
			s.Waiting = append(s.Waiting[:i], s.Waiting[i+1:]...)
			return
		}
	}
}
