package coup

import (
	"math/rand"

	"github.com/mettlex/literally-discord-bot-sub000/gameerr"
)

// Phase is the session's current pending-decision state. Exactly one decision
// is outstanding at a time; Resolve rejects signals that do not match the
// phase instead of silently dropping them.
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseAwaitingAction
	PhaseAwaitingBlockOrChallenge
	PhaseAwaitingChallengeOnBlock
	PhaseAwaitingDismissal
	PhaseAwaitingExchangeReturn
	PhaseFinished
)

// String returns the phase's wire/display name.
func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseAwaitingAction:
		return "awaiting_action"
	case PhaseAwaitingBlockOrChallenge:
		return "awaiting_block_or_challenge"
	case PhaseAwaitingChallengeOnBlock:
		return "awaiting_challenge_on_block"
	case PhaseAwaitingDismissal:
		return "awaiting_dismissal"
	case PhaseAwaitingExchangeReturn:
		return "awaiting_exchange_return"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// phaseFromString parses a phase wire name; unknown names map to PhaseLobby.
func phaseFromString(s string) Phase {
	for p := PhaseLobby; p <= PhaseFinished; p++ {
		if p.String() == s {
			return p
		}
	}
	return PhaseLobby
}

// continuation tells the resolver what to do once a pending dismissal
// completes.
type continuation int

const (
	continueAdvanceTurn continuation = iota
	continueApplyEffect
)

// PendingDecision carries the state of the action currently in flight:
// the declared action, its target, any block, and the "let it go" vote
// bookkeeping. It is cleared when the turn advances.
type PendingDecision struct {
	Action   ActionType
	ActorID  string
	TargetID string

	BlockerID  string
	BlockRoles []Role

	VotesRequired int
	VotesFrom     map[string]struct{}

	// Dismissal bookkeeping: who must dismiss, and what happens after.
	DismisserID string
	Next        continuation

	// InfluencesToReturn counts down during an exchange.
	InfluencesToReturn int
}

// PlayerInfo identifies a joining player.
type PlayerInfo struct {
	ID        string
	Name      string
	AvatarURL string
}

// Mode selects the ruleset variant. Only the original ruleset ships; the
// field exists so saved sessions stay forward-compatible.
type Mode string

const ModeOriginal Mode = "original"

// Session is one Coup game bound to a single channel. At most one session
// exists per channel; the store enforces that. All methods assume the caller
// serializes access (the store's Update does).
type Session struct {
	ChannelID string
	GuildID   string
	Mode      Mode

	Players      []*Player
	CurrentIndex int
	Deck         *Deck
	Started      bool
	Phase        Phase
	Pending      *PendingDecision

	// TurnCount increments on every turn advance; timers use it to detect
	// that the turn they were armed for has already passed.
	TurnCount int
}

// NewSession creates a joinable session seeded with the starter as sole
// player.
func NewSession(channelID, guildID string, starter PlayerInfo) *Session {
	s := &Session{
		ChannelID: channelID,
		GuildID:   guildID,
		Mode:      ModeOriginal,
		Phase:     PhaseLobby,
	}
	s.Players = append(s.Players, &Player{ID: starter.ID, Name: starter.Name, AvatarURL: starter.AvatarURL})
	return s
}

// AddPlayer joins a player during the lobby window.
func (s *Session) AddPlayer(info PlayerInfo, maxPlayers int) error {
	if s.Started {
		return gameerr.ErrGameStarted
	}
	if s.PlayerByID(info.ID) != nil {
		return gameerr.ErrAlreadyJoined
	}
	if maxPlayers > 0 && len(s.Players) >= maxPlayers {
		return gameerr.ErrLobbyFull
	}
	s.Players = append(s.Players, &Player{ID: info.ID, Name: info.Name, AvatarURL: info.AvatarURL})
	return nil
}

// RemovePlayer leaves the lobby. Not allowed after the game starts.
func (s *Session) RemovePlayer(id string) error {
	if s.Started {
		return gameerr.ErrGameStarted
	}
	for i, p := range s.Players {
		if p.ID == id {
			s.Players = append(s.Players[:i], s.Players[i+1:]...)
			return nil
		}
	}
	return gameerr.ErrNotInGame
}

// Begin shuffles turn order, deals two influences and two coins to each
// player, and opens the first turn.
func (s *Session) Begin(minPlayers int) ([]Event, error) {
	if s.Started {
		return nil, gameerr.ErrGameStarted
	}
	if minPlayers < 2 {
		minPlayers = 2
	}
	if len(s.Players) < minPlayers {
		return nil, gameerr.ErrNeedMorePlayers
	}

	rand.Shuffle(len(s.Players), func(i, j int) {
		s.Players[i], s.Players[j] = s.Players[j], s.Players[i]
	})
	s.Deck = NewDeck(len(s.Players))
	for _, p := range s.Players {
		p.Coins = 2
		p.Influences = nil
		for k := 0; k < 2; k++ {
			r, ok := s.Deck.Draw()
			if !ok {
				break
			}
			p.Influences = append(p.Influences, Influence{Role: r, State: InfluenceActive})
		}
	}
	s.Started = true
	s.CurrentIndex = 0
	s.Phase = PhaseAwaitingAction

	events := []Event{{Type: EventGameBegan, Amount: len(s.Players)}}
	events = append(events, Event{Type: EventTurnStarted, PlayerID: s.CurrentPlayer().ID})
	return events, nil
}

// PlayerByID returns the player with the given id, or nil.
func (s *Session) PlayerByID(id string) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CurrentPlayer returns the player whose turn it is.
func (s *Session) CurrentPlayer() *Player {
	if len(s.Players) == 0 {
		return nil
	}
	return s.Players[s.CurrentIndex]
}

// ActivePlayers returns the players still holding at least one undismissed
// influence, in turn order.
func (s *Session) ActivePlayers() []*Player {
	var active []*Player
	for _, p := range s.Players {
		if !p.Eliminated() {
			active = append(active, p)
		}
	}
	return active
}

// EligibleTargets returns the non-eliminated players other than the actor.
func (s *Session) EligibleTargets(actorID string) []*Player {
	var targets []*Player
	for _, p := range s.ActivePlayers() {
		if p.ID != actorID {
			targets = append(targets, p)
		}
	}
	return targets
}

// AvailableActions enumerates the actions the player may legally declare on
// their turn, applying coin gates: coup needs 7 coins; at 10 or more coins
// coup is the only legal action.
func (s *Session) AvailableActions(playerID string) ([]ActionType, error) {
	if !s.Started || s.Phase == PhaseFinished {
		return nil, gameerr.ErrGameNotStarted
	}
	cur := s.CurrentPlayer()
	if cur == nil || cur.ID != playerID {
		return nil, gameerr.ErrNotYourTurn
	}
	if cur.Coins >= 10 {
		return []ActionType{ActionCoup}, nil
	}
	var actions []ActionType
	for _, a := range AllActions {
		meta := a.Meta()
		if cur.Coins < meta.Cost {
			continue
		}
		if meta.NeedsTarget && len(s.EligibleTargets(playerID)) == 0 {
			continue
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// voteQuorum is the number of explicit allows required to let a pending
// action or block proceed: active players minus two (the involved parties),
// with a floor of one so two-player games can still resolve.
func (s *Session) voteQuorum() int {
	q := len(s.ActivePlayers()) - 2
	if q < 1 {
		q = 1
	}
	return q
}

// advanceTurn clears the pending decision and moves the turn pointer to the
// next non-eliminated player. Ends the game instead when at most one player
// remains.
func (s *Session) advanceTurn(events []Event) []Event {
	s.Pending = nil
	if done, evs := s.checkGameEnd(events); done {
		return evs
	}
	for i := 0; i < len(s.Players); i++ {
		s.CurrentIndex = (s.CurrentIndex + 1) % len(s.Players)
		if !s.Players[s.CurrentIndex].Eliminated() {
			break
		}
	}
	s.TurnCount++
	s.Phase = PhaseAwaitingAction
	return append(events, Event{Type: EventTurnStarted, PlayerID: s.CurrentPlayer().ID})
}

// checkGameEnd finishes the session when one or zero players remain active.
func (s *Session) checkGameEnd(events []Event) (bool, []Event) {
	active := s.ActivePlayers()
	if len(active) > 1 {
		return false, events
	}
	s.Phase = PhaseFinished
	s.Pending = nil
	winnerID := ""
	if len(active) == 1 {
		winnerID = active[0].ID
	}
	return true, append(events, Event{Type: EventGameEnded, PlayerID: winnerID})
}

// Finished reports whether the game has ended.
func (s *Session) Finished() bool {
	return s.Phase == PhaseFinished
}
