// Package wink implements The Winking Assassin: one secretly chosen player
// eliminates others with hidden "winks" (button presses relayed by DM) while
// everyone else tries to identify the assassin. A wrong accusation takes the
// accuser out of the game.
package wink

import (
	"errors"
	"math/rand"

	"github.com/mettlex/literally-discord-bot-sub000/gameerr"
)

var ErrNotAssassin = errors.New("only the assassin can wink")

// Outcome reports how a finished game ended.
type Outcome int

const (
	OutcomeOngoing Outcome = iota
	OutcomeAssassinCaught
	OutcomeAssassinWins
)

// Player is one seat in a Winking Assassin game.
type Player struct {
	ID   string
	Name string
	Dead bool // winked at, or knocked out by a wrong accusation
}

// Game is one Winking Assassin game bound to a channel.
type Game struct {
	ChannelID  string
	Players    []*Player
	AssassinID string
	Started    bool
	Result     Outcome
}

// NewGame creates a joinable game seeded with the starter.
func NewGame(channelID, starterID, starterName string) *Game {
	g := &Game{ChannelID: channelID}
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

// Begin picks the assassin at random. The assassin's identity is only ever
// revealed by DM or at game end.
func (g *Game) Begin() error {
	if g.Started {
		return gameerr.ErrGameStarted
	}
	if len(g.Players) < 3 {
		return gameerr.ErrNeedMorePlayers
	}
	g.AssassinID = g.Players[rand.Intn(len(g.Players))].ID
	g.Started = true
	return nil
}

// Wink eliminates a target. Only the assassin may wink, and only at living
// non-assassin players.
func (g *Game) Wink(playerID, targetID string) error {
	if !g.Started || g.Result != OutcomeOngoing {
		return gameerr.ErrGameNotStarted
	}
	if playerID != g.AssassinID {
		return ErrNotAssassin
	}
	target := g.playerByID(targetID)
	if target == nil || target.Dead || target.ID == g.AssassinID {
		return gameerr.ErrInvalidTarget
	}
	target.Dead = true
	g.checkAssassinWin()
	return nil
}

// Accuse names a suspect. A correct accusation ends the game; a wrong one
// eliminates the accuser.
func (g *Game) Accuse(accuserID, suspectID string) (correct bool, err error) {
	if !g.Started || g.Result != OutcomeOngoing {
		return false, gameerr.ErrGameNotStarted
	}
	accuser := g.playerByID(accuserID)
	if accuser == nil || accuser.Dead {
		return false, gameerr.ErrNotInGame
	}
	if g.playerByID(suspectID) == nil {
		return false, gameerr.ErrInvalidTarget
	}

	if suspectID == g.AssassinID {
		g.Result = OutcomeAssassinCaught
		return true, nil
	}
	accuser.Dead = true
	g.checkAssassinWin()
	return false, nil
}

// checkAssassinWin ends the game when no living non-assassin remains.
func (g *Game) checkAssassinWin() {
	for _, p := range g.Players {
		if !p.Dead && p.ID != g.AssassinID {
			return
		}
	}
	g.Result = OutcomeAssassinWins
}

// AliveCount returns the number of living players, assassin included.
func (g *Game) AliveCount() int {
	n := 0
	for _, p := range g.Players {
		if !p.Dead {
			n++
		}
	}
	return n
}

func (g *Game) playerByID(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}
