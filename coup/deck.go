package coup

import "math/rand"

// Deck is the shared pool of undealt role cards. Cards are popped when dealt
// or drawn and pushed back when returned. The deck reshuffles after any
// mutation that could bias draw order, so a returned card is never
// guaranteed to come back on the next draw.
type Deck struct {
	Cards []Role
}

// NewDeck builds a shuffled deck sized for the given player count.
func NewDeck(playerCount int) *Deck {
	copies := CopiesPerRole(playerCount)
	d := &Deck{Cards: make([]Role, 0, copies*len(AllRoles))}
	for _, r := range AllRoles {
		for i := 0; i < copies; i++ {
			d.Cards = append(d.Cards, r)
		}
	}
	d.Shuffle()
	return d
}

// Shuffle re-randomizes the deck order.
func (d *Deck) Shuffle() {
	rand.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// Draw removes and returns the top card. ok is false when the deck is empty.
func (d *Deck) Draw() (Role, bool) {
	if len(d.Cards) == 0 {
		return "", false
	}
	top := d.Cards[len(d.Cards)-1]
	d.Cards = d.Cards[:len(d.Cards)-1]
	return top, true
}

// Return pushes a card back into the deck and reshuffles.
func (d *Deck) Return(r Role) {
	d.Cards = append(d.Cards, r)
	d.Shuffle()
}

// Len returns the number of undealt cards.
func (d *Deck) Len() int {
	return len(d.Cards)
}

// Count returns how many copies of a role remain undealt.
func (d *Deck) Count(r Role) int {
	n := 0
	for _, c := range d.Cards {
		if c == r {
			n++
		}
	}
	return n
}
