// Package jotto implements Jotto: each player registers a secret word of a
// fixed length; players then probe each other's words with guesses scored by
// the number of letters in common. An exact guess wins the game.
package jotto

import (
	"errors"
	"strings"
	"unicode"

	"github.com/mettlex/literally-discord-bot-sub000/gameerr"
)

var (
	ErrWrongLength   = errors.New("word has the wrong length")
	ErrNotLetters    = errors.New("word must contain only letters")
	ErrNoSecret      = errors.New("that player has not set a secret word")
	ErrSecretsNotSet = errors.New("waiting for all players to set secret words")
)

// Player is one seat in a Jotto game.
type Player struct {
	ID      string
	Name    string
	Secret  string
	Guesses int
}

// Game is one Jotto game bound to a channel.
type Game struct {
	ChannelID  string
	WordLength int
	Players    []*Player
	Started    bool
	WinnerID   string
}

// NewGame creates a joinable game seeded with the starter.
func NewGame(channelID, starterID, starterName string, wordLength int) *Game {
	g := &Game{ChannelID: channelID, WordLength: wordLength}
	g.Players = append(g.Players, &Player{ID: starterID, Name: starterName})
	return g
}

// Join adds a player before the game starts.
func (g *Game) Join(id, name string) error {
	if g.Started {
		return gameerr.ErrGameStarted
	}
	if g.playerByID(id) != nil {
		return gameerr.ErrAlreadyJoined
	}
	g.Players = append(g.Players, &Player{ID: id, Name: name})
	return nil
}

// SetSecret registers a player's secret word (sent via DM; never rendered in
// the channel).
func (g *Game) SetSecret(playerID, word string) error {
	if g.Started {
		return gameerr.ErrGameStarted
	}
	p := g.playerByID(playerID)
	if p == nil {
		return gameerr.ErrNotInGame
	}
	word = strings.ToLower(strings.TrimSpace(word))
	if err := g.validWord(word); err != nil {
		return err
	}
	p.Secret = word
	return nil
}

// Begin starts the guessing phase once every player has a secret.
func (g *Game) Begin() error {
	if g.Started {
		return gameerr.ErrGameStarted
	}
	if len(g.Players) < 2 {
		return gameerr.ErrNeedMorePlayers
	}
	for _, p := range g.Players {
		if p.Secret == "" {
			return ErrSecretsNotSet
		}
	}
	g.Started = true
	return nil
}

// Guess probes a target's secret. It returns the number of letters the guess
// has in common with the secret (counting duplicates) and whether the guess
// was exact, which wins the game.
func (g *Game) Guess(guesserID, targetID, word string) (common int, exact bool, err error) {
	if !g.Started {
		return 0, false, gameerr.ErrGameNotStarted
	}
	if g.WinnerID != "" {
		return 0, false, gameerr.ErrGameNotStarted
	}
	guesser := g.playerByID(guesserID)
	target := g.playerByID(targetID)
	if guesser == nil {
		return 0, false, gameerr.ErrNotInGame
	}
	if target == nil || target.ID == guesserID {
		return 0, false, gameerr.ErrInvalidTarget
	}
	if target.Secret == "" {
		return 0, false, ErrNoSecret
	}

	word = strings.ToLower(strings.TrimSpace(word))
	if err := g.validWord(word); err != nil {
		return 0, false, err
	}

	guesser.Guesses++
	if word == target.Secret {
		g.WinnerID = guesserID
		return g.WordLength, true, nil
	}
	return commonLetters(word, target.Secret), false, nil
}

func (g *Game) validWord(word string) error {
	runes := []rune(word)
	if len(runes) != g.WordLength {
		return ErrWrongLength
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) {
			return ErrNotLetters
		}
	}
	return nil
}

func (g *Game) playerByID(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// commonLetters counts the multiset intersection of the two words' letters,
// the classic Jotto score.
func commonLetters(a, b string) int {
	counts := make(map[rune]int)
	for _, r := range a {
		counts[r]++
	}
	n := 0
	for _, r := range b {
		if counts[r] > 0 {
			counts[r]--
			n++
		}
	}
	return n
}
