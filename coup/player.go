package coup

// InfluenceState tags one influence slot as alive or permanently lost.
type InfluenceState int

const (
	InfluenceActive InfluenceState = iota
	InfluenceDismissed
)

// String returns the string representation of an InfluenceState.
func (s InfluenceState) String() string {
	switch s {
	case InfluenceActive:
		return "active"
	case InfluenceDismissed:
		return "dismissed"
	default:
		return "unknown"
	}
}

// Influence is one dealt role card held by a player. Dismissed cards stay in
// the player's slots face-up until the game ends; Returned marks a card set
// aside during an exchange, pending reinsertion into the deck.
type Influence struct {
	Role     Role
	State    InfluenceState
	Returned bool
}

// Player is one seat in a session. Slice order in Session.Players is turn
// order once the game has started.
type Player struct {
	ID         string
	Name       string
	AvatarURL  string
	Coins      int
	Influences []Influence
}

// ActiveSlots returns the indices of the player's undismissed influences,
// excluding cards set aside during an exchange.
func (p *Player) ActiveSlots() []int {
	var slots []int
	for i, inf := range p.Influences {
		if inf.State == InfluenceActive && !inf.Returned {
			slots = append(slots, i)
		}
	}
	return slots
}

// CountActive returns the number of undismissed influences.
func (p *Player) CountActive() int {
	return len(p.ActiveSlots())
}

// Eliminated reports whether the player holds zero undismissed influences.
func (p *Player) Eliminated() bool {
	return p.CountActive() == 0
}

// SlotWithRole returns the index of an active influence matching any of the
// given roles, or -1 if none matches.
func (p *Player) SlotWithRole(roles ...Role) int {
	for _, i := range p.ActiveSlots() {
		for _, r := range roles {
			if p.Influences[i].Role == r {
				return i
			}
		}
	}
	return -1
}
