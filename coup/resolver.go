package coup

import (
	"github.com/mettlex/literally-discord-bot-sub000/gameerr"
)

// SignalType enumerates the human responses that can resolve a pending
// decision.
type SignalType int

const (
	// SignalAllow is one "let it go" vote for the pending action or block.
	SignalAllow SignalType = iota
	// SignalBlock declares a block against the pending action.
	SignalBlock
	// SignalChallenge disputes the pending claim (action or block).
	SignalChallenge
	// SignalDismiss chooses which influence to dismiss after a loss.
	SignalDismiss
	// SignalReturnCard chooses a card to return during an exchange.
	SignalReturnCard
)

// String returns the signal's wire/display name.
func (st SignalType) String() string {
	switch st {
	case SignalAllow:
		return "allow"
	case SignalBlock:
		return "block"
	case SignalChallenge:
		return "challenge"
	case SignalDismiss:
		return "dismiss"
	case SignalReturnCard:
		return "return_card"
	default:
		return "unknown"
	}
}

// Signal is one player response fed into Resolve. Slots carries influence
// slot indices for SignalDismiss (one) and SignalReturnCard (one or more).
type Signal struct {
	Type     SignalType
	PlayerID string
	Slots    []int
}

// Declare opens a turn action. It validates turn order and coin gates, pays
// any up-front cost, and either applies the effect immediately (income, coup)
// or opens the block/challenge window.
func (s *Session) Declare(playerID string, action ActionType, targetID string) ([]Event, error) {
	if !s.Started || s.Phase == PhaseFinished {
		return nil, gameerr.ErrGameNotStarted
	}
	if s.Phase != PhaseAwaitingAction {
		return nil, gameerr.ErrWrongPhase
	}
	cur := s.CurrentPlayer()
	if cur == nil || cur.ID != playerID {
		return nil, gameerr.ErrNotYourTurn
	}

	meta := action.Meta()
	if cur.Coins >= 10 && action != ActionCoup {
		return nil, gameerr.ErrCoupRequired
	}
	if cur.Coins < meta.Cost {
		return nil, gameerr.ErrNotEnoughCoins
	}
	if meta.NeedsTarget {
		target := s.PlayerByID(targetID)
		if target == nil || target.ID == playerID || target.Eliminated() {
			return nil, gameerr.ErrInvalidTarget
		}
	} else {
		targetID = ""
	}

	// The cost is committed at declaration and is not refunded if the
	// action is later blocked or nullified.
	cur.Coins -= meta.Cost

	s.Pending = &PendingDecision{
		Action:   action,
		ActorID:  playerID,
		TargetID: targetID,
	}
	events := []Event{{Type: EventActionDeclared, PlayerID: playerID, Action: action, TargetID: targetID}}

	if meta.Immediate {
		return s.applyEffect(events), nil
	}

	s.Phase = PhaseAwaitingBlockOrChallenge
	s.Pending.VotesRequired = s.voteQuorum()
	s.Pending.VotesFrom = make(map[string]struct{})
	events = append(events, Event{Type: EventDecisionWindow, Amount: s.Pending.VotesRequired})
	return events, nil
}

// Resolve feeds one player response into the pending decision. A signal that
// does not match the current phase is rejected with ErrWrongPhase rather than
// dropped, so a late button press cannot desynchronize the pipeline.
func (s *Session) Resolve(sig Signal) ([]Event, error) {
	if !s.Started || s.Phase == PhaseFinished {
		return nil, gameerr.ErrGameNotStarted
	}
	switch s.Phase {
	case PhaseAwaitingBlockOrChallenge:
		switch sig.Type {
		case SignalAllow:
			return s.handleAllow(sig.PlayerID)
		case SignalBlock:
			return s.handleBlock(sig.PlayerID)
		case SignalChallenge:
			return s.handleActionChallenge(sig.PlayerID)
		}
	case PhaseAwaitingChallengeOnBlock:
		switch sig.Type {
		case SignalAllow:
			return s.handleAllow(sig.PlayerID)
		case SignalChallenge:
			return s.handleBlockChallenge(sig.PlayerID)
		}
	case PhaseAwaitingDismissal:
		if sig.Type == SignalDismiss {
			return s.handleDismiss(sig.PlayerID, sig.Slots)
		}
	case PhaseAwaitingExchangeReturn:
		if sig.Type == SignalReturnCard {
			return s.handleReturnCard(sig.PlayerID, sig.Slots)
		}
	}
	return nil, gameerr.ErrWrongPhase
}

// mayVote reports whether the player may cast a "let it go" vote for the
// current window: any active player except the one whose claim is contested
// (the actor in the action window, the blocker in the block window).
func (s *Session) mayVote(playerID string) bool {
	p := s.PlayerByID(playerID)
	if p == nil || p.Eliminated() {
		return false
	}
	if s.Phase == PhaseAwaitingChallengeOnBlock {
		return playerID != s.Pending.BlockerID
	}
	return playerID != s.Pending.ActorID
}

func (s *Session) handleAllow(playerID string) ([]Event, error) {
	if !s.mayVote(playerID) {
		return nil, gameerr.ErrNotEligible
	}
	if _, ok := s.Pending.VotesFrom[playerID]; ok {
		return nil, gameerr.ErrAlreadyVoted
	}
	s.Pending.VotesFrom[playerID] = struct{}{}
	if len(s.Pending.VotesFrom) < s.Pending.VotesRequired {
		remaining := s.Pending.VotesRequired - len(s.Pending.VotesFrom)
		return []Event{{Type: EventDecisionWindow, Amount: remaining}}, nil
	}
	return s.windowClosed(nil), nil
}

// windowClosed resolves the current window in favor of the pending claim:
// the action proceeds, or the block stands and nullifies the action.
func (s *Session) windowClosed(events []Event) []Event {
	if s.Phase == PhaseAwaitingChallengeOnBlock {
		events = append(events, Event{
			Type:     EventActionBlocked,
			PlayerID: s.Pending.BlockerID,
			Action:   s.Pending.Action,
			TargetID: s.Pending.ActorID,
		})
		return s.advanceTurn(events)
	}
	return s.applyEffect(events)
}

func (s *Session) handleBlock(playerID string) ([]Event, error) {
	meta := s.Pending.Action.Meta()
	if !s.Pending.Action.Blockable() {
		return nil, gameerr.ErrCannotBlock
	}
	p := s.PlayerByID(playerID)
	if p == nil || p.Eliminated() || playerID == s.Pending.ActorID {
		return nil, gameerr.ErrNotEligible
	}
	// Targeted actions can only be blocked by their target; foreign aid by
	// anyone at the table.
	if meta.NeedsTarget && playerID != s.Pending.TargetID {
		return nil, gameerr.ErrNotEligible
	}

	s.Pending.BlockerID = playerID
	s.Pending.BlockRoles = meta.BlockableBy
	s.Phase = PhaseAwaitingChallengeOnBlock
	s.Pending.VotesRequired = s.voteQuorum()
	s.Pending.VotesFrom = make(map[string]struct{})

	events := []Event{
		{Type: EventBlockDeclared, PlayerID: playerID, Action: s.Pending.Action, Roles: meta.BlockableBy, TargetID: s.Pending.ActorID},
		{Type: EventDecisionWindow, Amount: s.Pending.VotesRequired},
	}
	return events, nil
}

func (s *Session) handleActionChallenge(playerID string) ([]Event, error) {
	if !s.Pending.Action.Challengeable() {
		return nil, gameerr.ErrCannotChallenge
	}
	p := s.PlayerByID(playerID)
	if p == nil || p.Eliminated() || playerID == s.Pending.ActorID {
		return nil, gameerr.ErrNotEligible
	}

	claim := s.Pending.Action.Meta().Claim
	claimTrue, events := s.arbitrate(playerID, s.Pending.ActorID, []Role{claim}, nil)
	if claimTrue {
		// Challenger guessed wrong: they lose an influence, then the
		// action proceeds.
		return s.loseInfluence(playerID, continueApplyEffect, events), nil
	}
	// The actor was bluffing: the action is nullified and the actor loses
	// an influence.
	events = append(events, Event{Type: EventActionAborted, PlayerID: s.Pending.ActorID, Action: s.Pending.Action})
	return s.loseInfluence(s.Pending.ActorID, continueAdvanceTurn, events), nil
}

func (s *Session) handleBlockChallenge(playerID string) ([]Event, error) {
	p := s.PlayerByID(playerID)
	if p == nil || p.Eliminated() || playerID == s.Pending.BlockerID {
		return nil, gameerr.ErrNotEligible
	}

	claimTrue, events := s.arbitrate(playerID, s.Pending.BlockerID, s.Pending.BlockRoles, nil)
	if claimTrue {
		// The block was genuine: it stands, the action is nullified, and
		// the challenger loses an influence.
		events = append(events, Event{
			Type:     EventActionBlocked,
			PlayerID: s.Pending.BlockerID,
			Action:   s.Pending.Action,
			TargetID: s.Pending.ActorID,
		})
		return s.loseInfluence(playerID, continueAdvanceTurn, events), nil
	}
	// The blocker was bluffing: the block falls, the blocker loses an
	// influence, and the action proceeds.
	return s.loseInfluence(s.Pending.BlockerID, continueApplyEffect, events), nil
}

func (s *Session) handleDismiss(playerID string, slots []int) ([]Event, error) {
	if playerID != s.Pending.DismisserID {
		return nil, gameerr.ErrNotEligible
	}
	if len(slots) != 1 {
		return nil, gameerr.ErrInvalidSelection
	}
	p := s.PlayerByID(playerID)
	slot := slots[0]
	if p == nil || slot < 0 || slot >= len(p.Influences) {
		return nil, gameerr.ErrInvalidSelection
	}
	inf := p.Influences[slot]
	if inf.State != InfluenceActive || inf.Returned {
		return nil, gameerr.ErrInvalidSelection
	}

	events := s.dismiss(p, slot, nil)
	return s.afterDismissal(events), nil
}

func (s *Session) handleReturnCard(playerID string, slots []int) ([]Event, error) {
	if playerID != s.Pending.ActorID {
		return nil, gameerr.ErrNotEligible
	}
	if len(slots) == 0 || len(slots) > s.Pending.InfluencesToReturn {
		return nil, gameerr.ErrInvalidSelection
	}
	p := s.PlayerByID(playerID)
	if p == nil {
		return nil, gameerr.ErrNotEligible
	}
	seen := make(map[int]struct{})
	for _, slot := range slots {
		if slot < 0 || slot >= len(p.Influences) {
			return nil, gameerr.ErrInvalidSelection
		}
		if _, dup := seen[slot]; dup {
			return nil, gameerr.ErrInvalidSelection
		}
		seen[slot] = struct{}{}
		inf := p.Influences[slot]
		if inf.State != InfluenceActive || inf.Returned {
			return nil, gameerr.ErrInvalidSelection
		}
	}

	for _, slot := range slots {
		p.Influences[slot].Returned = true
	}
	s.Pending.InfluencesToReturn -= len(slots)
	if s.Pending.InfluencesToReturn > 0 {
		return nil, nil
	}
	return s.finishExchange(p, nil), nil
}

// finishExchange flushes the set-aside cards back into the deck and advances
// the turn.
func (s *Session) finishExchange(p *Player, events []Event) []Event {
	kept := p.Influences[:0]
	for _, inf := range p.Influences {
		if inf.Returned {
			s.Deck.Return(inf.Role)
			continue
		}
		kept = append(kept, inf)
	}
	p.Influences = kept
	events = append(events, Event{Type: EventExchangeCompleted, PlayerID: p.ID})
	return s.advanceTurn(events)
}

// applyEffect performs the economic/card effect of the pending action. The
// target is re-validated here because the decision may have resolved long
// after declaration; a vanished target silently aborts the action.
func (s *Session) applyEffect(events []Event) []Event {
	pending := s.Pending
	actor := s.PlayerByID(pending.ActorID)
	if actor == nil || actor.Eliminated() {
		events = append(events, Event{Type: EventActionAborted, PlayerID: pending.ActorID, Action: pending.Action})
		return s.advanceTurn(events)
	}

	meta := pending.Action.Meta()
	var target *Player
	if meta.NeedsTarget {
		target = s.PlayerByID(pending.TargetID)
		if target == nil || target.Eliminated() {
			events = append(events, Event{Type: EventActionAborted, PlayerID: pending.ActorID, Action: pending.Action})
			return s.advanceTurn(events)
		}
	}

	switch pending.Action {
	case ActionIncome:
		actor.Coins++
		events = append(events, Event{Type: EventActionResolved, PlayerID: actor.ID, Action: pending.Action, Amount: 1})
	case ActionForeignAid:
		actor.Coins += 2
		events = append(events, Event{Type: EventActionResolved, PlayerID: actor.ID, Action: pending.Action, Amount: 2})
	case ActionTax:
		actor.Coins += 3
		events = append(events, Event{Type: EventActionResolved, PlayerID: actor.ID, Action: pending.Action, Amount: 3})
	case ActionSteal:
		n := target.Coins
		if n > 2 {
			n = 2
		}
		target.Coins -= n
		actor.Coins += n
		events = append(events, Event{Type: EventActionResolved, PlayerID: actor.ID, Action: pending.Action, TargetID: target.ID, Amount: n})
	case ActionExchange:
		drawn := 0
		for i := 0; i < 2; i++ {
			r, ok := s.Deck.Draw()
			if !ok {
				break
			}
			actor.Influences = append(actor.Influences, Influence{Role: r, State: InfluenceActive})
			drawn++
		}
		if drawn == 0 {
			events = append(events, Event{Type: EventActionAborted, PlayerID: actor.ID, Action: pending.Action})
			return s.advanceTurn(events)
		}
		pending.InfluencesToReturn = drawn
		s.Phase = PhaseAwaitingExchangeReturn
		var hand []Role
		for _, i := range actor.ActiveSlots() {
			hand = append(hand, actor.Influences[i].Role)
		}
		events = append(events, Event{Type: EventExchangeDrawn, PlayerID: actor.ID, Roles: hand, Amount: drawn})
		return events
	case ActionAssassinate, ActionCoup:
		events = append(events, Event{Type: EventActionResolved, PlayerID: actor.ID, Action: pending.Action, TargetID: target.ID})
		return s.loseInfluence(target.ID, continueAdvanceTurn, events)
	}
	return s.advanceTurn(events)
}

// ForceResolve is the synthetic signal injected by a decision-window timer:
// the window closes as if every required vote had arrived.
func (s *Session) ForceResolve() ([]Event, error) {
	if s.Phase != PhaseAwaitingBlockOrChallenge && s.Phase != PhaseAwaitingChallengeOnBlock {
		return nil, gameerr.ErrWrongPhase
	}
	return s.windowClosed(nil), nil
}

// ForceSkip is the synthetic signal injected by a turn timer: an idle turn is
// skipped, a stalled dismissal or exchange is resolved with the first legal
// choice.
func (s *Session) ForceSkip() ([]Event, error) {
	switch s.Phase {
	case PhaseAwaitingAction:
		return s.advanceTurn(nil), nil
	case PhaseAwaitingDismissal:
		p := s.PlayerByID(s.Pending.DismisserID)
		if p == nil {
			return s.advanceTurn(nil), nil
		}
		slots := p.ActiveSlots()
		if len(slots) == 0 {
			return s.afterDismissal(nil), nil
		}
		events := s.dismiss(p, slots[0], nil)
		return s.afterDismissal(events), nil
	case PhaseAwaitingExchangeReturn:
		p := s.PlayerByID(s.Pending.ActorID)
		if p == nil {
			return s.advanceTurn(nil), nil
		}
		for _, slot := range p.ActiveSlots() {
			if s.Pending.InfluencesToReturn == 0 {
				break
			}
			p.Influences[slot].Returned = true
			s.Pending.InfluencesToReturn--
		}
		return s.finishExchange(p, nil), nil
	}
	return nil, gameerr.ErrWrongPhase
}
