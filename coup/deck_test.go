package coup

import "testing"

func TestNewDeck_SizeScalesWithPlayerCount(t *testing.T) {
	cases := []struct {
		players int
		copies  int
	}{
		{2, 3},
		{6, 3},
		{7, 4},
		{8, 4},
		{9, 5},
		{10, 5},
	}
	for _, c := range cases {
		d := NewDeck(c.players)
		want := c.copies * len(AllRoles)
		if d.Len() != want {
			t.Errorf("players=%d: expected deck size %d, got %d", c.players, want, d.Len())
		}
		for _, r := range AllRoles {
			if d.Count(r) != c.copies {
				t.Errorf("players=%d: expected %d copies of %s, got %d", c.players, c.copies, r, d.Count(r))
			}
		}
	}
}

func TestDraw_DepletesDeck(t *testing.T) {
	d := NewDeck(3)
	n := d.Len()
	for i := 0; i < n; i++ {
		if _, ok := d.Draw(); !ok {
			t.Fatalf("draw %d failed with %d cards left", i, d.Len())
		}
	}
	if _, ok := d.Draw(); ok {
		t.Error("expected draw from empty deck to fail")
	}
}

func TestReturn_RestoresCount(t *testing.T) {
	d := &Deck{Cards: []Role{RoleDuke, RoleCaptain}}
	r, _ := d.Draw()
	d.Return(r)
	if d.Len() != 2 {
		t.Errorf("expected 2 cards after return, got %d", d.Len())
	}
	if d.Count(RoleDuke)+d.Count(RoleCaptain) != 2 {
		t.Error("returned card changed deck contents")
	}
}
