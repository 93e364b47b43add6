package coup

import (
	"testing"

	"github.com/mettlex/literally-discord-bot-sub000/gameerr"
)

func hasEvent(events []Event, typ EventType) (Event, bool) {
	for _, e := range events {
		if e.Type == typ {
			return e, true
		}
	}
	return Event{}, false
}

func TestForeignAid_UnopposedGivesTwoCoins(t *testing.T) {
	a := testPlayer("a", 2, RoleDuke, RoleContessa)
	b := testPlayer("b", 2, RoleCaptain, RoleCaptain)
	c := testPlayer("c", 2, RoleAssassin, RoleAssassin)
	s := testSession(a, b, c)

	if _, err := s.Declare("a", ActionForeignAid, ""); err != nil {
		t.Fatal(err)
	}
	if s.Phase != PhaseAwaitingBlockOrChallenge {
		t.Fatalf("expected awaiting_block_or_challenge, got %s", s.Phase)
	}
	if s.Pending.VotesRequired != 1 {
		t.Errorf("expected quorum 1 with 3 players, got %d", s.Pending.VotesRequired)
	}

	events, err := s.Resolve(Signal{Type: SignalAllow, PlayerID: "b"})
	if err != nil {
		t.Fatal(err)
	}
	if a.Coins != 4 {
		t.Errorf("expected a to have 4 coins after foreign aid, got %d", a.Coins)
	}
	if _, ok := hasEvent(events, EventActionResolved); !ok {
		t.Error("expected action_resolved event")
	}
	if s.CurrentPlayer().ID != "b" {
		t.Errorf("expected turn to pass to b, got %s", s.CurrentPlayer().ID)
	}
}

func TestAllow_ActorCannotVote(t *testing.T) {
	s := testSession(
		testPlayer("a", 2, RoleDuke, RoleContessa),
		testPlayer("b", 2, RoleCaptain, RoleCaptain),
	)
	s.Declare("a", ActionForeignAid, "")
	if _, err := s.Resolve(Signal{Type: SignalAllow, PlayerID: "a"}); err != gameerr.ErrNotEligible {
		t.Errorf("expected ErrNotEligible for actor vote, got %v", err)
	}
}

func TestAllow_DuplicateVoteRejected(t *testing.T) {
	s := testSession(
		testPlayer("a", 2, RoleDuke, RoleContessa),
		testPlayer("b", 2, RoleCaptain, RoleCaptain),
		testPlayer("c", 2, RoleAssassin, RoleAssassin),
		testPlayer("d", 2, RoleAmbassador, RoleAmbassador),
	)
	s.Declare("a", ActionForeignAid, "")
	if s.Pending.VotesRequired != 2 {
		t.Fatalf("expected quorum 2 with 4 players, got %d", s.Pending.VotesRequired)
	}
	if _, err := s.Resolve(Signal{Type: SignalAllow, PlayerID: "b"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Resolve(Signal{Type: SignalAllow, PlayerID: "b"}); err != gameerr.ErrAlreadyVoted {
		t.Errorf("expected ErrAlreadyVoted, got %v", err)
	}
}

func TestSteal_ClampsToTargetCoins(t *testing.T) {
	a := testPlayer("a", 2, RoleCaptain, RoleContessa)
	b := testPlayer("b", 1, RoleDuke, RoleDuke)
	c := testPlayer("c", 2, RoleAssassin, RoleAssassin)
	s := testSession(a, b, c)

	if _, err := s.Declare("a", ActionSteal, "b"); err != nil {
		t.Fatal(err)
	}
	events, err := s.Resolve(Signal{Type: SignalAllow, PlayerID: "c"})
	if err != nil {
		t.Fatal(err)
	}
	if a.Coins != 3 || b.Coins != 0 {
		t.Errorf("expected a=3 b=0 after clamped steal, got a=%d b=%d", a.Coins, b.Coins)
	}
	ev, ok := hasEvent(events, EventActionResolved)
	if !ok || ev.Amount != 1 {
		t.Errorf("expected action_resolved with amount 1, got %+v", ev)
	}
}

func TestTax_ChallengedWhileTrue(t *testing.T) {
	a := testPlayer("a", 2, RoleDuke, RoleContessa)
	b := testPlayer("b", 2, RoleCaptain, RoleCaptain)
	c := testPlayer("c", 2, RoleAssassin, RoleAssassin)
	s := testSession(a, b, c)
	s.Deck.Cards = []Role{RoleAssassin, RoleAmbassador, RoleCaptain} // no dukes undealt

	if _, err := s.Declare("a", ActionTax, ""); err != nil {
		t.Fatal(err)
	}
	events, err := s.Resolve(Signal{Type: SignalChallenge, PlayerID: "b"})
	if err != nil {
		t.Fatal(err)
	}

	ev, ok := hasEvent(events, EventChallengeResolved)
	if !ok || !ev.ClaimTrue || ev.Role != RoleDuke {
		t.Fatalf("expected true challenge resolution revealing duke, got %+v", ev)
	}
	// b holds two cards, so the session waits for b's choice of dismissal.
	if s.Phase != PhaseAwaitingDismissal || s.Pending.DismisserID != "b" {
		t.Fatalf("expected b to be dismissing, got phase=%s dismisser=%s", s.Phase, s.Pending.DismisserID)
	}

	events, err = s.Resolve(Signal{Type: SignalDismiss, PlayerID: "b", Slots: []int{0}})
	if err != nil {
		t.Fatal(err)
	}
	if b.CountActive() != 1 {
		t.Errorf("expected b to have 1 influence left, got %d", b.CountActive())
	}
	if a.Coins != 5 {
		t.Errorf("expected a to collect tax (5 coins), got %d", a.Coins)
	}
	if a.CountActive() != 2 {
		t.Errorf("expected a to keep 2 influences after reshuffle, got %d", a.CountActive())
	}

	// Bluff-proof shuffle: the revealed duke went back into the deck and a
	// replacement was drawn, so exactly one duke is in circulation between
	// the deck and a's hand.
	dukes := s.Deck.Count(RoleDuke)
	for _, i := range a.ActiveSlots() {
		if a.Influences[i].Role == RoleDuke {
			dukes++
		}
	}
	if dukes != 1 {
		t.Errorf("expected exactly 1 duke in circulation, got %d", dukes)
	}
	if _, ok := hasEvent(events, EventTurnStarted); !ok {
		t.Error("expected turn to advance after resolution")
	}
}

func TestTax_ChallengedWhileBluffing(t *testing.T) {
	a := testPlayer("a", 2, RoleAssassin, RoleContessa)
	b := testPlayer("b", 2, RoleCaptain, RoleCaptain)
	c := testPlayer("c", 2, RoleDuke, RoleDuke)
	s := testSession(a, b, c)

	s.Declare("a", ActionTax, "")
	events, err := s.Resolve(Signal{Type: SignalChallenge, PlayerID: "b"})
	if err != nil {
		t.Fatal(err)
	}

	ev, _ := hasEvent(events, EventChallengeResolved)
	if ev.ClaimTrue {
		t.Fatal("expected challenge to succeed against a bluff")
	}
	if _, ok := hasEvent(events, EventActionAborted); !ok {
		t.Error("expected the bluffed tax to be nullified")
	}
	if s.Phase != PhaseAwaitingDismissal || s.Pending.DismisserID != "a" {
		t.Fatalf("expected a to be dismissing, got phase=%s dismisser=%s", s.Phase, s.Pending.DismisserID)
	}

	s.Resolve(Signal{Type: SignalDismiss, PlayerID: "a", Slots: []int{0}})
	if a.Coins != 2 {
		t.Errorf("expected no tax for a nullified action, got %d coins", a.Coins)
	}
	if a.CountActive() != 1 {
		t.Errorf("expected a to lose an influence, got %d active", a.CountActive())
	}
}

func TestAssassinate_TargetChoosesDismissal(t *testing.T) {
	a := testPlayer("a", 3, RoleAssassin, RoleContessa)
	b := testPlayer("b", 2, RoleCaptain, RoleDuke)
	c := testPlayer("c", 2, RoleAmbassador, RoleAmbassador)
	s := testSession(a, b, c)

	if _, err := s.Declare("a", ActionAssassinate, "b"); err != nil {
		t.Fatal(err)
	}
	if a.Coins != 0 {
		t.Errorf("expected assassinate cost paid at declaration, a has %d coins", a.Coins)
	}
	if _, err := s.Resolve(Signal{Type: SignalAllow, PlayerID: "c"}); err != nil {
		t.Fatal(err)
	}
	if s.Phase != PhaseAwaitingDismissal || s.Pending.DismisserID != "b" {
		t.Fatalf("expected b choosing a dismissal, got phase=%s", s.Phase)
	}

	if _, err := s.Resolve(Signal{Type: SignalDismiss, PlayerID: "b", Slots: []int{1}}); err != nil {
		t.Fatal(err)
	}
	if b.Influences[0].State != InfluenceActive || b.Influences[1].State != InfluenceDismissed {
		t.Errorf("expected slot 1 dismissed and slot 0 kept, got %v/%v",
			b.Influences[0].State, b.Influences[1].State)
	}
}

func TestCoup_ImmediateAndUnblockable(t *testing.T) {
	a := testPlayer("a", 7, RoleDuke, RoleContessa)
	b := testPlayer("b", 2, RoleCaptain)
	c := testPlayer("c", 2, RoleAssassin, RoleAssassin)
	s := testSession(a, b, c)

	events, err := s.Declare("a", ActionCoup, "b")
	if err != nil {
		t.Fatal(err)
	}
	if a.Coins != 0 {
		t.Errorf("expected coup to cost 7 coins, a has %d", a.Coins)
	}
	// b held one influence, so the dismissal is forced and b is out.
	if _, ok := hasEvent(events, EventPlayerEliminated); !ok {
		t.Error("expected b to be eliminated")
	}
	if s.CurrentPlayer().ID != "c" {
		t.Errorf("expected turn to pass to c, got %s", s.CurrentPlayer().ID)
	}
}

func TestDeclare_TenCoinsForcesCoup(t *testing.T) {
	a := testPlayer("a", 10, RoleDuke, RoleContessa)
	b := testPlayer("b", 2, RoleCaptain, RoleCaptain)
	s := testSession(a, b)

	if _, err := s.Declare("a", ActionTax, ""); err != gameerr.ErrCoupRequired {
		t.Errorf("expected ErrCoupRequired at 10 coins, got %v", err)
	}
}

func TestDeclare_InsufficientCoins(t *testing.T) {
	s := testSession(
		testPlayer("a", 2, RoleAssassin, RoleContessa),
		testPlayer("b", 2, RoleCaptain, RoleCaptain),
	)
	if _, err := s.Declare("a", ActionAssassinate, "b"); err != gameerr.ErrNotEnoughCoins {
		t.Errorf("expected ErrNotEnoughCoins, got %v", err)
	}
}

func TestDeclare_SelfTargetRejected(t *testing.T) {
	s := testSession(
		testPlayer("a", 7, RoleDuke, RoleContessa),
		testPlayer("b", 2, RoleCaptain, RoleCaptain),
	)
	if _, err := s.Declare("a", ActionCoup, "a"); err != gameerr.ErrInvalidTarget {
		t.Errorf("expected ErrInvalidTarget, got %v", err)
	}
}

func TestBlock_ForeignAidBlockStands(t *testing.T) {
	a := testPlayer("a", 2, RoleCaptain, RoleContessa)
	b := testPlayer("b", 2, RoleDuke, RoleCaptain)
	c := testPlayer("c", 2, RoleAssassin, RoleAssassin)
	s := testSession(a, b, c)

	s.Declare("a", ActionForeignAid, "")
	if _, err := s.Resolve(Signal{Type: SignalBlock, PlayerID: "b"}); err != nil {
		t.Fatal(err)
	}
	if s.Phase != PhaseAwaitingChallengeOnBlock {
		t.Fatalf("expected awaiting_challenge_on_block, got %s", s.Phase)
	}

	events, err := s.Resolve(Signal{Type: SignalAllow, PlayerID: "c"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := hasEvent(events, EventActionBlocked); !ok {
		t.Error("expected action_blocked event")
	}
	if a.Coins != 2 {
		t.Errorf("expected blocked foreign aid to leave a at 2 coins, got %d", a.Coins)
	}
	if s.CurrentPlayer().ID != "b" {
		t.Errorf("expected turn to pass to b, got %s", s.CurrentPlayer().ID)
	}
}

func TestBlock_TargetedActionOnlyTargetMayBlock(t *testing.T) {
	a := testPlayer("a", 2, RoleCaptain, RoleContessa)
	b := testPlayer("b", 2, RoleDuke, RoleCaptain)
	c := testPlayer("c", 2, RoleAmbassador, RoleAssassin)
	s := testSession(a, b, c)

	s.Declare("a", ActionSteal, "b")
	if _, err := s.Resolve(Signal{Type: SignalBlock, PlayerID: "c"}); err != gameerr.ErrNotEligible {
		t.Errorf("expected ErrNotEligible for non-target block, got %v", err)
	}
	if _, err := s.Resolve(Signal{Type: SignalBlock, PlayerID: "b"}); err != nil {
		t.Errorf("expected the target to be able to block, got %v", err)
	}
}

func TestBlockChallenge_BlockerBluffed(t *testing.T) {
	a := testPlayer("a", 2, RoleCaptain, RoleContessa)
	b := testPlayer("b", 2, RoleDuke, RoleDuke) // no captain/ambassador
	c := testPlayer("c", 2, RoleAssassin, RoleAssassin)
	s := testSession(a, b, c)

	s.Declare("a", ActionSteal, "b")
	s.Resolve(Signal{Type: SignalBlock, PlayerID: "b"})
	events, err := s.Resolve(Signal{Type: SignalChallenge, PlayerID: "a"})
	if err != nil {
		t.Fatal(err)
	}

	ev, _ := hasEvent(events, EventChallengeResolved)
	if ev.ClaimTrue {
		t.Fatal("expected the block claim to be exposed as a bluff")
	}
	if s.Phase != PhaseAwaitingDismissal || s.Pending.DismisserID != "b" {
		t.Fatalf("expected b dismissing, got phase=%s", s.Phase)
	}

	events, err = s.Resolve(Signal{Type: SignalDismiss, PlayerID: "b", Slots: []int{0}})
	if err != nil {
		t.Fatal(err)
	}
	// The block fell, so the steal proceeds.
	if a.Coins != 4 || b.Coins != 0 {
		t.Errorf("expected steal to proceed after failed block (a=4 b=0), got a=%d b=%d", a.Coins, b.Coins)
	}
	if _, ok := hasEvent(events, EventActionResolved); !ok {
		t.Error("expected action_resolved after the block fell")
	}
}

func TestBlockChallenge_StealBlockJustifiedByEitherRole(t *testing.T) {
	a := testPlayer("a", 2, RoleCaptain, RoleContessa)
	b := testPlayer("b", 2, RoleAmbassador, RoleDuke) // blocks with ambassador
	c := testPlayer("c", 2, RoleAssassin, RoleAssassin)
	s := testSession(a, b, c)

	s.Declare("a", ActionSteal, "b")
	s.Resolve(Signal{Type: SignalBlock, PlayerID: "b"})
	events, err := s.Resolve(Signal{Type: SignalChallenge, PlayerID: "a"})
	if err != nil {
		t.Fatal(err)
	}

	ev, _ := hasEvent(events, EventChallengeResolved)
	if !ev.ClaimTrue || ev.Role != RoleAmbassador {
		t.Fatalf("expected ambassador to justify the steal block, got %+v", ev)
	}
	if _, ok := hasEvent(events, EventActionBlocked); !ok {
		t.Error("expected the steal to be nullified")
	}
	if s.Phase != PhaseAwaitingDismissal || s.Pending.DismisserID != "a" {
		t.Fatalf("expected challenger a dismissing, got phase=%s", s.Phase)
	}

	s.Resolve(Signal{Type: SignalDismiss, PlayerID: "a", Slots: []int{0}})
	if a.Coins != 2 || b.Coins != 2 {
		t.Errorf("expected no coins to move, got a=%d b=%d", a.Coins, b.Coins)
	}
}

func TestExchange_DrawTwoReturnTwo(t *testing.T) {
	a := testPlayer("a", 2, RoleDuke, RoleAssassin)
	b := testPlayer("b", 2, RoleCaptain, RoleCaptain)
	c := testPlayer("c", 2, RoleContessa, RoleContessa)
	s := testSession(a, b, c)
	s.Deck.Cards = []Role{RoleCaptain, RoleAmbassador}

	s.Declare("a", ActionExchange, "")
	events, err := s.Resolve(Signal{Type: SignalAllow, PlayerID: "b"})
	if err != nil {
		t.Fatal(err)
	}
	ev, ok := hasEvent(events, EventExchangeDrawn)
	if !ok || len(ev.Roles) != 4 {
		t.Fatalf("expected a private hand of 4 after drawing, got %+v", ev)
	}
	if s.Phase != PhaseAwaitingExchangeReturn {
		t.Fatalf("expected awaiting_exchange_return, got %s", s.Phase)
	}

	events, err = s.Resolve(Signal{Type: SignalReturnCard, PlayerID: "a", Slots: []int{0, 1}})
	if err != nil {
		t.Fatal(err)
	}
	if a.CountActive() != 2 {
		t.Errorf("expected a back to 2 influences, got %d", a.CountActive())
	}
	if s.Deck.Len() != 2 {
		t.Errorf("expected deck back to 2 cards, got %d", s.Deck.Len())
	}
	if s.Deck.Count(RoleDuke) != 1 || s.Deck.Count(RoleAssassin) != 1 {
		t.Error("expected the returned duke and assassin in the deck")
	}
	if _, ok := hasEvent(events, EventExchangeCompleted); !ok {
		t.Error("expected exchange_completed event")
	}
	if s.CurrentPlayer().ID != "b" {
		t.Errorf("expected turn to advance, current is %s", s.CurrentPlayer().ID)
	}
}

func TestExchange_ReturnOneAtATime(t *testing.T) {
	a := testPlayer("a", 2, RoleDuke, RoleAssassin)
	b := testPlayer("b", 2, RoleCaptain, RoleCaptain)
	s := testSession(a, b)
	s.Deck.Cards = []Role{RoleCaptain, RoleAmbassador}

	s.Declare("a", ActionExchange, "")
	s.Resolve(Signal{Type: SignalAllow, PlayerID: "b"})

	if _, err := s.Resolve(Signal{Type: SignalReturnCard, PlayerID: "a", Slots: []int{2}}); err != nil {
		t.Fatal(err)
	}
	if s.Phase != PhaseAwaitingExchangeReturn {
		t.Fatalf("expected session still waiting for the second return, got %s", s.Phase)
	}
	if _, err := s.Resolve(Signal{Type: SignalReturnCard, PlayerID: "a", Slots: []int{3}}); err != nil {
		t.Fatal(err)
	}
	if a.CountActive() != 2 {
		t.Errorf("expected a back to 2 influences, got %d", a.CountActive())
	}
}

func TestSteal_TargetEliminatedBeforeResolutionAborts(t *testing.T) {
	a := testPlayer("a", 2, RoleCaptain, RoleContessa)
	b := testPlayer("b", 5, RoleDuke)
	c := testPlayer("c", 2, RoleAssassin, RoleAssassin)
	d := testPlayer("d", 2, RoleAmbassador, RoleAmbassador)
	s := testSession(a, b, c, d)

	s.Declare("a", ActionSteal, "b")
	// b vanishes while the window is open (e.g. a concurrent forced loss).
	b.Influences[0].State = InfluenceDismissed

	s.Resolve(Signal{Type: SignalAllow, PlayerID: "c"})
	events, err := s.Resolve(Signal{Type: SignalAllow, PlayerID: "d"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := hasEvent(events, EventActionAborted); !ok {
		t.Error("expected the steal to abort against an eliminated target")
	}
	if a.Coins != 2 || b.Coins != 5 {
		t.Errorf("expected no coins to move, got a=%d b=%d", a.Coins, b.Coins)
	}
}

func TestResolve_WrongPhaseSignalRejected(t *testing.T) {
	s := testSession(
		testPlayer("a", 2, RoleDuke, RoleContessa),
		testPlayer("b", 2, RoleCaptain, RoleCaptain),
	)
	if _, err := s.Resolve(Signal{Type: SignalAllow, PlayerID: "b"}); err != gameerr.ErrWrongPhase {
		t.Errorf("expected ErrWrongPhase before any declaration, got %v", err)
	}

	s.Declare("a", ActionForeignAid, "")
	if _, err := s.Resolve(Signal{Type: SignalDismiss, PlayerID: "b", Slots: []int{0}}); err != gameerr.ErrWrongPhase {
		t.Errorf("expected ErrWrongPhase for dismiss during a window, got %v", err)
	}
}

func TestGameEnd_LastEliminationAnnouncesWinner(t *testing.T) {
	a := testPlayer("a", 7, RoleDuke, RoleContessa)
	b := testPlayer("b", 2, RoleCaptain)
	s := testSession(a, b)

	events, err := s.Declare("a", ActionCoup, "b")
	if err != nil {
		t.Fatal(err)
	}
	ev, ok := hasEvent(events, EventGameEnded)
	if !ok || ev.PlayerID != "a" {
		t.Fatalf("expected game_ended with winner a, got %+v", ev)
	}
	if !s.Finished() {
		t.Error("expected session to be finished")
	}
}

func TestForceResolve_ClosesWindowInFavorOfClaim(t *testing.T) {
	a := testPlayer("a", 2, RoleDuke, RoleContessa)
	b := testPlayer("b", 2, RoleCaptain, RoleCaptain)
	c := testPlayer("c", 2, RoleAssassin, RoleAssassin)
	s := testSession(a, b, c)

	s.Declare("a", ActionTax, "")
	events, err := s.ForceResolve()
	if err != nil {
		t.Fatal(err)
	}
	if a.Coins != 5 {
		t.Errorf("expected tax applied on timeout, a has %d coins", a.Coins)
	}
	if _, ok := hasEvent(events, EventTurnStarted); !ok {
		t.Error("expected turn to advance on timeout")
	}
}

func TestForceSkip_IdleTurnPasses(t *testing.T) {
	a := testPlayer("a", 2, RoleDuke, RoleContessa)
	b := testPlayer("b", 2, RoleCaptain, RoleCaptain)
	s := testSession(a, b)

	events, err := s.ForceSkip()
	if err != nil {
		t.Fatal(err)
	}
	if s.CurrentPlayer().ID != "b" {
		t.Errorf("expected turn skipped to b, got %s", s.CurrentPlayer().ID)
	}
	if _, ok := hasEvent(events, EventTurnStarted); !ok {
		t.Error("expected turn_started event")
	}
}

func TestForceSkip_StalledDismissalForcesFirstSlot(t *testing.T) {
	a := testPlayer("a", 3, RoleAssassin, RoleContessa)
	b := testPlayer("b", 2, RoleCaptain, RoleDuke)
	c := testPlayer("c", 2, RoleAmbassador, RoleAmbassador)
	s := testSession(a, b, c)

	s.Declare("a", ActionAssassinate, "b")
	s.Resolve(Signal{Type: SignalAllow, PlayerID: "c"})
	if s.Phase != PhaseAwaitingDismissal {
		t.Fatalf("expected awaiting_dismissal, got %s", s.Phase)
	}

	if _, err := s.ForceSkip(); err != nil {
		t.Fatal(err)
	}
	if b.Influences[0].State != InfluenceDismissed {
		t.Error("expected the first active slot to be force-dismissed")
	}
	if s.Phase != PhaseAwaitingAction {
		t.Errorf("expected play to resume, got %s", s.Phase)
	}
}

// The eliminated set and the current player stay disjoint through a full
// scripted round.
func TestCurrentPlayerNeverEliminated(t *testing.T) {
	a := testPlayer("a", 7, RoleDuke, RoleContessa)
	b := testPlayer("b", 2, RoleCaptain)
	c := testPlayer("c", 2, RoleAssassin, RoleAssassin)
	d := testPlayer("d", 2, RoleAmbassador, RoleAmbassador)
	s := testSession(a, b, c, d)

	check := func() {
		t.Helper()
		if s.Finished() {
			return
		}
		if s.CurrentPlayer().Eliminated() {
			t.Fatalf("current player %s is eliminated", s.CurrentPlayer().ID)
		}
	}

	s.Declare("a", ActionCoup, "b") // b out
	check()
	s.Declare("c", ActionIncome, "")
	check()
	s.Declare("d", ActionIncome, "")
	check()
	s.Declare("a", ActionIncome, "")
	check()
}
