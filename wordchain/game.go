// Package wordchain implements the word-chain game: each word must start
// with the last letter of the previous one, words cannot repeat, and a
// player who stalls or misses is eliminated. Dictionary validity is checked
// by the caller (words.Checker); the engine only enforces chain rules.
package wordchain

import (
	"errors"
	"math/rand"
	"strings"

	"github.com/mettlex/literally-discord-bot-sub000/gameerr"
)

// Chain-rule sentinel errors.
var (
	ErrWordTooShort     = errors.New("word is too short")
	ErrWordUsed         = errors.New("word was already used")
	ErrWrongStartLetter = errors.New("word must start with the previous word's last letter")
)

// Player is one seat in a word-chain game.
type Player struct {
	ID   string
	Name string
	Out  bool
}

// Game is one word-chain game bound to a channel.
type Game struct {
	ChannelID     string
	Players       []*Player
	CurrentIndex  int
	LastWord      string
	Used          map[string]bool
	Started       bool
	MinWordLength int
	TurnCount     int
}

// NewGame creates a joinable game seeded with the starter.
func NewGame(channelID string, starterID, starterName string, minWordLength int) *Game {
	g := &Game{
		ChannelID:     channelID,
		Used:          make(map[string]bool),
		MinWordLength: minWordLength,
	}
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

// Begin shuffles the turn order and starts play.
func (g *Game) Begin() error {
	if g.Started {
		return gameerr.ErrGameStarted
	}
	if len(g.Players) < 2 {
		return gameerr.ErrNeedMorePlayers
	}
	rand.Shuffle(len(g.Players), func(i, j int) {
		g.Players[i], g.Players[j] = g.Players[j], g.Players[i]
	})
	g.Started = true
	g.CurrentIndex = 0
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

// CurrentPlayer returns the player whose turn it is.
func (g *Game) CurrentPlayer() *Player {
	if len(g.Players) == 0 {
		return nil
	}
	return g.Players[g.CurrentIndex]
}

// ActiveCount returns how many players are still in.
func (g *Game) ActiveCount() int {
	n := 0
	for _, p := range g.Players {
		if !p.Out {
			n++
		}
	}
	return n
}

// Submit validates the chain rules for the current player's word and, on
// success, records it and advances the turn. The word is assumed to have
// passed the dictionary check already.
func (g *Game) Submit(playerID, word string) error {
	if !g.Started {
		return gameerr.ErrGameNotStarted
	}
	cur := g.CurrentPlayer()
	if cur == nil || cur.ID != playerID {
		return gameerr.ErrNotYourTurn
	}

	word = strings.ToLower(strings.TrimSpace(word))
	runes := []rune(word)
	if len(runes) < g.MinWordLength {
		return ErrWordTooShort
	}
	if g.Used[word] {
		return ErrWordUsed
	}
	if g.LastWord != "" {
		last := []rune(g.LastWord)
		if runes[0] != last[len(last)-1] {
			return ErrWrongStartLetter
		}
	}

	g.Used[word] = true
	g.LastWord = word
	g.advance()
	return nil
}

// EliminateCurrent knocks out the player on turn (timeout or invalid word)
// and reports the winner once only one player remains.
func (g *Game) EliminateCurrent() (out *Player, winner *Player) {
	if !g.Started {
		return nil, nil
	}
	out = g.CurrentPlayer()
	out.Out = true
	if g.ActiveCount() == 1 {
		for _, p := range g.Players {
			if !p.Out {
				return out, p
			}
		}
	}
	g.advance()
	return out, nil
}

// advance moves the turn pointer to the next active player.
func (g *Game) advance() {
	for i := 0; i < len(g.Players); i++ {
		g.CurrentIndex = (g.CurrentIndex + 1) % len(g.Players)
		if !g.Players[g.CurrentIndex].Out {
			break
		}
	}
	g.TurnCount++
}
