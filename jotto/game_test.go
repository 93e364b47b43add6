package jotto

import "testing"

func testGame(t *testing.T) *Game {
	t.Helper()
	g := NewGame("c1", "a", "Alice", 5)
	if err := g.Join("b", "Bob"); err != nil {
		t.Fatal(err)
	}
	if err := g.SetSecret("a", "crane"); err != nil {
		t.Fatal(err)
	}
	if err := g.SetSecret("b", "pools"); err != nil {
		t.Fatal(err)
	}
	if err := g.Begin(); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestBegin_RequiresAllSecrets(t *testing.T) {
	g := NewGame("c1", "a", "Alice", 5)
	g.Join("b", "Bob")
	g.SetSecret("a", "crane")
	if err := g.Begin(); err != ErrSecretsNotSet {
		t.Errorf("expected ErrSecretsNotSet, got %v", err)
	}
}

func TestSetSecret_WrongLengthRejected(t *testing.T) {
	g := NewGame("c1", "a", "Alice", 5)
	if err := g.SetSecret("a", "cat"); err != ErrWrongLength {
		t.Errorf("expected ErrWrongLength, got %v", err)
	}
	if err := g.SetSecret("a", "cr4ne"); err != ErrNotLetters {
		t.Errorf("expected ErrNotLetters, got %v", err)
	}
}

func TestGuess_CountsCommonLettersWithDuplicates(t *testing.T) {
	g := testGame(t)

	// "spool" vs secret "pools": all five letters in common.
	common, exact, err := g.Guess("a", "b", "spool")
	if err != nil {
		t.Fatal(err)
	}
	if exact {
		t.Error("anagram should not count as exact")
	}
	if common != 5 {
		t.Errorf("expected 5 common letters, got %d", common)
	}

	// "paper" vs "pools": only one p counts, plus nothing else = 1.
	common, _, err = g.Guess("a", "b", "paper")
	if err != nil {
		t.Fatal(err)
	}
	if common != 1 {
		t.Errorf("expected 1 common letter, got %d", common)
	}
}

func TestGuess_ExactWins(t *testing.T) {
	g := testGame(t)

	common, exact, err := g.Guess("b", "a", "crane")
	if err != nil {
		t.Fatal(err)
	}
	if !exact || common != 5 {
		t.Errorf("expected exact winning guess, got common=%d exact=%v", common, exact)
	}
	if g.WinnerID != "b" {
		t.Errorf("expected winner b, got %q", g.WinnerID)
	}
}

func TestGuess_SelfTargetRejected(t *testing.T) {
	g := testGame(t)
	if _, _, err := g.Guess("a", "a", "crane"); err == nil {
		t.Error("expected self-guess to be rejected")
	}
}
