// Package twotruths implements Two Truths & A Lie: a teller submits three
// statements (one of them false), everyone else votes for the lie, and
// correct voters score a point.
package twotruths

import (
	"errors"

	"github.com/mettlex/literally-discord-bot-sub000/gameerr"
)

var (
	ErrRoundOpen        = errors.New("a round is already in progress")
	ErrNoRound          = errors.New("no round is in progress")
	ErrTellerMayNotVote = errors.New("the teller cannot vote on their own statements")
	ErrBadStatement     = errors.New("invalid statement index")
)

// Round is one teller's set of statements and the votes against them.
type Round struct {
	TellerID   string
	Statements [3]string
	LieIndex   int
	Votes      map[string]int
}

// Game tracks scores across rounds in one channel.
type Game struct {
	ChannelID string
	Scores    map[string]int
	Round     *Round
}

// NewGame creates a game for a channel.
func NewGame(channelID string) *Game {
	return &Game{ChannelID: channelID, Scores: make(map[string]int)}
}

// StartRound opens a round. The lie index is only known to the engine and
// the teller until Reveal.
func (g *Game) StartRound(tellerID string, statements [3]string, lieIndex int) error {
	if g.Round != nil {
		return ErrRoundOpen
	}
	if lieIndex < 0 || lieIndex > 2 {
		return ErrBadStatement
	}
	for _, s := range statements {
		if s == "" {
			return ErrBadStatement
		}
	}
	g.Round = &Round{
		TellerID:   tellerID,
		Statements: statements,
		LieIndex:   lieIndex,
		Votes:      make(map[string]int),
	}
	return nil
}

// Vote records a player's pick for the lie. Re-voting replaces the earlier
// pick.
func (g *Game) Vote(voterID string, index int) error {
	if g.Round == nil {
		return ErrNoRound
	}
	if voterID == g.Round.TellerID {
		return ErrTellerMayNotVote
	}
	if index < 0 || index > 2 {
		return ErrBadStatement
	}
	g.Round.Votes[voterID] = index
	return nil
}

// Reveal closes the round, awards a point to every voter who found the lie
// and one to the teller for every voter who did not, and returns the lie
// index with the ids of the correct voters.
func (g *Game) Reveal(revealerID string) (lieIndex int, correct []string, err error) {
	if g.Round == nil {
		return 0, nil, ErrNoRound
	}
	if revealerID != g.Round.TellerID {
		return 0, nil, gameerr.ErrNotEligible
	}

	r := g.Round
	for voter, pick := range r.Votes {
		if pick == r.LieIndex {
			g.Scores[voter]++
			correct = append(correct, voter)
		} else {
			g.Scores[r.TellerID]++
		}
	}
	g.Round = nil
	return r.LieIndex, correct, nil
}
