package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/mettlex/literally-discord-bot-sub000/coup"
	"github.com/mettlex/literally-discord-bot-sub000/store"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.ErrorLevel)
	return log
}

// stepCoupGame advances the game by one decision: the current player takes
// income until they can coup, coups the next active player, and pending
// dismissals pick the first active slot. Only immediate actions are used so
// the test is deterministic regardless of deck and turn-order shuffles.
func stepCoupGame(t *testing.T, st *store.SessionStore, channelID string) {
	t.Helper()
	_, err := st.Update(channelID, func(s *coup.Session) ([]coup.Event, error) {
		if s.Phase == coup.PhaseAwaitingDismissal {
			dismisser := s.PlayerByID(s.Pending.DismisserID)
			slots := dismisser.ActiveSlots()
			return s.Resolve(coup.Signal{
				Type:     coup.SignalDismiss,
				PlayerID: dismisser.ID,
				Slots:    slots[:1],
			})
		}

		actor := s.CurrentPlayer()
		if actor.Coins >= 7 {
			targets := s.EligibleTargets(actor.ID)
			if len(targets) == 0 {
				t.Fatal("no eligible coup target")
			}
			return s.Declare(actor.ID, coup.ActionCoup, targets[0].ID)
		}
		return s.Declare(actor.ID, coup.ActionIncome, "")
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestFullCoupGameSurvivesRestart drives a three-player game to completion,
// swapping in a fresh store halfway through to prove the snapshot on disk is
// enough to resume play.
func TestFullCoupGameSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	channelID := "chan1"

	st, err := store.NewSessionStore(dir, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sess := coup.NewSession(channelID, "guild1", coup.PlayerInfo{ID: "a", Name: "A"})
	if err := sess.AddPlayer(coup.PlayerInfo{ID: "b", Name: "B"}, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sess.AddPlayer(coup.PlayerInfo{ID: "c", Name: "C"}, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := st.Set(channelID, sess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := st.Update(channelID, func(s *coup.Session) ([]coup.Event, error) {
		return s.Begin(2)
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Play until the first elimination.
	for i := 0; i < 100; i++ {
		s := st.Get(channelID)
		eliminated := false
		for _, p := range s.Players {
			if p.Eliminated() {
				eliminated = true
			}
		}
		if eliminated {
			break
		}
		stepCoupGame(t, st, channelID)
	}
	if st.Get(channelID) == nil {
		t.Fatal("expected session still running after first elimination")
	}

	// Simulate a restart: a brand-new store over the same directory must
	// rehydrate the session from its snapshot.
	st2, err := store.NewSessionStore(dir, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resumed := st2.Get(channelID)
	if resumed == nil {
		t.Fatal("expected session rehydrated from disk after restart")
	}
	if !resumed.Started {
		t.Error("expected resumed session to be in progress")
	}

	// Finish the game through the new store.
	for i := 0; i < 200; i++ {
		if st2.Get(channelID) == nil {
			break
		}
		stepCoupGame(t, st2, channelID)
	}

	if got := st2.Get(channelID); got != nil {
		t.Errorf("expected finished session cleared from store, phase is %v", got.Phase)
	}
	if _, err := os.Stat(filepath.Join(dir, "coup-"+channelID+".json")); !os.IsNotExist(err) {
		t.Error("expected snapshot file removed once the game finished")
	}
}
