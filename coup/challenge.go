package coup

// arbitrate settles a dispute over whether the claimant truly holds one of
// the claimed roles. If they do, the revealed card is shuffled back into the
// deck and replaced with a fresh draw, so the reveal leaks nothing about the
// claimant's next hand.
func (s *Session) arbitrate(challengerID, claimantID string, claimed []Role, events []Event) (bool, []Event) {
	claimant := s.PlayerByID(claimantID)
	slot := -1
	if claimant != nil {
		slot = claimant.SlotWithRole(claimed...)
	}
	if slot < 0 {
		events = append(events, Event{
			Type:      EventChallengeResolved,
			PlayerID:  challengerID,
			TargetID:  claimantID,
			Roles:     claimed,
			ClaimTrue: false,
		})
		return false, events
	}

	revealed := claimant.Influences[slot].Role
	s.Deck.Return(revealed)
	// The deck is never empty here: Return just pushed a card.
	if r, ok := s.Deck.Draw(); ok {
		claimant.Influences[slot].Role = r
	}
	events = append(events, Event{
		Type:      EventChallengeResolved,
		PlayerID:  challengerID,
		TargetID:  claimantID,
		Role:      revealed,
		Roles:     claimed,
		ClaimTrue: true,
	})
	return true, events
}

// loseInfluence makes a player give up one influence. With two active cards
// the choice is theirs (the session waits in PhaseAwaitingDismissal); with
// one the dismissal is forced immediately.
func (s *Session) loseInfluence(playerID string, next continuation, events []Event) []Event {
	p := s.PlayerByID(playerID)
	if p == nil {
		s.Pending.Next = next
		return s.afterDismissal(events)
	}

	slots := p.ActiveSlots()
	if len(slots) > 1 {
		s.Phase = PhaseAwaitingDismissal
		s.Pending.DismisserID = playerID
		s.Pending.Next = next
		return append(events, Event{Type: EventAwaitingDismissal, PlayerID: playerID})
	}

	if len(slots) == 1 {
		events = s.dismiss(p, slots[0], events)
	}
	s.Pending.Next = next
	return s.afterDismissal(events)
}

// dismiss flips one influence face-up permanently and reports an elimination
// when it was the player's last.
func (s *Session) dismiss(p *Player, slot int, events []Event) []Event {
	p.Influences[slot].State = InfluenceDismissed
	events = append(events, Event{Type: EventInfluenceDismissed, PlayerID: p.ID, Role: p.Influences[slot].Role})
	if p.Eliminated() {
		events = append(events, Event{Type: EventPlayerEliminated, PlayerID: p.ID})
	}
	return events
}

// afterDismissal resumes the pipeline once a required dismissal is complete:
// end the game if at most one player survived, otherwise apply the pending
// effect or advance the turn per the stored continuation.
func (s *Session) afterDismissal(events []Event) []Event {
	if done, evs := s.checkGameEnd(events); done {
		return evs
	}
	if s.Pending.Next == continueApplyEffect {
		return s.applyEffect(events)
	}
	return s.advanceTurn(events)
}
