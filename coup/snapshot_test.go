package coup

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestSnapshot_RoundTripMidGame(t *testing.T) {
	a := testPlayer("a", 4, RoleDuke, RoleContessa)
	b := testPlayer("b", 1, RoleCaptain, RoleCaptain)
	c := testPlayer("c", 6, RoleAssassin, RoleAmbassador)
	c.Influences[1].State = InfluenceDismissed
	s := testSession(a, b, c)
	s.TurnCount = 7

	if _, err := s.Declare("a", ActionSteal, "b"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Resolve(Signal{Type: SignalBlock, PlayerID: "b"}); err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatal(err)
	}
	restored := FromSnapshot(&snap)

	if restored.ChannelID != s.ChannelID || restored.GuildID != s.GuildID {
		t.Error("channel/guild identity not preserved")
	}
	if restored.Phase != PhaseAwaitingChallengeOnBlock {
		t.Errorf("expected phase awaiting_challenge_on_block, got %s", restored.Phase)
	}
	if restored.CurrentIndex != s.CurrentIndex || restored.TurnCount != 7 {
		t.Errorf("turn pointer not preserved: index=%d count=%d", restored.CurrentIndex, restored.TurnCount)
	}
	if !reflect.DeepEqual(restored.Deck.Cards, s.Deck.Cards) {
		t.Error("deck order not preserved")
	}
	for i, p := range s.Players {
		rp := restored.Players[i]
		if rp.ID != p.ID || rp.Coins != p.Coins {
			t.Errorf("player %d identity/coins not preserved", i)
		}
		if !reflect.DeepEqual(rp.Influences, p.Influences) {
			t.Errorf("player %d influences not preserved: %+v vs %+v", i, rp.Influences, p.Influences)
		}
	}

	pd, rpd := s.Pending, restored.Pending
	if rpd == nil {
		t.Fatal("pending decision lost in round trip")
	}
	if rpd.Action != pd.Action || rpd.ActorID != pd.ActorID || rpd.TargetID != pd.TargetID {
		t.Errorf("pending action not preserved: %+v", rpd)
	}
	if rpd.BlockerID != "b" || !reflect.DeepEqual(rpd.BlockRoles, pd.BlockRoles) {
		t.Errorf("block state not preserved: %+v", rpd)
	}
	if rpd.VotesRequired != pd.VotesRequired {
		t.Errorf("expected votes required %d, got %d", pd.VotesRequired, rpd.VotesRequired)
	}
}

func TestSnapshot_LobbySessionRoundTrips(t *testing.T) {
	s := NewSession("c9", "g9", PlayerInfo{ID: "a", Name: "Alice", AvatarURL: "http://a.png"})

	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatal(err)
	}
	restored := FromSnapshot(&snap)

	if restored.Started || restored.Phase != PhaseLobby {
		t.Errorf("expected unstarted lobby, got started=%v phase=%s", restored.Started, restored.Phase)
	}
	if len(restored.Players) != 1 || restored.Players[0].Name != "Alice" {
		t.Errorf("lobby players not preserved: %+v", restored.Players)
	}
	if restored.Deck != nil {
		t.Error("lobby session should have no deck")
	}
}
