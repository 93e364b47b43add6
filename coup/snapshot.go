package coup

// SnapshotSchemaVersion guards saved sessions against layout changes.
const SnapshotSchemaVersion = 1

// Snapshot is the durable, pure-data form of a Session. Timers and any other
// live handles belong to the layers above and are reconstructed on load, so
// serialization never strips fields ad hoc.
type Snapshot struct {
	SchemaVersion int    `json:"schema_version"`
	ChannelID     string `json:"channel_id"`
	GuildID       string `json:"guild_id"`
	Mode          string `json:"mode"`

	Players      []PlayerSnapshot `json:"players"`
	CurrentIndex int              `json:"current_index"`
	Deck         []Role           `json:"deck"`
	Started      bool             `json:"started"`
	Phase        string           `json:"phase"`
	TurnCount    int              `json:"turn_count"`

	Pending *PendingSnapshot `json:"pending,omitempty"`
}

// PlayerSnapshot is the durable form of a Player.
type PlayerSnapshot struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	AvatarURL  string              `json:"avatar_url,omitempty"`
	Coins      int                 `json:"coins"`
	Influences []InfluenceSnapshot `json:"influences"`
}

// InfluenceSnapshot is the durable form of one influence slot.
type InfluenceSnapshot struct {
	Role      Role `json:"role"`
	Dismissed bool `json:"dismissed"`
	Returned  bool `json:"returned,omitempty"`
}

// PendingSnapshot is the durable form of a PendingDecision.
type PendingSnapshot struct {
	Action             string   `json:"action"`
	ActorID            string   `json:"actor_id"`
	TargetID           string   `json:"target_id,omitempty"`
	BlockerID          string   `json:"blocker_id,omitempty"`
	BlockRoles         []Role   `json:"block_roles,omitempty"`
	VotesRequired      int      `json:"votes_required"`
	VotesFrom          []string `json:"votes_from,omitempty"`
	DismisserID        string   `json:"dismisser_id,omitempty"`
	Next               string   `json:"next"`
	InfluencesToReturn int      `json:"influences_to_return,omitempty"`
}

// Snapshot converts the live session to its durable form.
func (s *Session) Snapshot() *Snapshot {
	snap := &Snapshot{
		SchemaVersion: SnapshotSchemaVersion,
		ChannelID:     s.ChannelID,
		GuildID:       s.GuildID,
		Mode:          string(s.Mode),
		CurrentIndex:  s.CurrentIndex,
		Started:       s.Started,
		Phase:         s.Phase.String(),
		TurnCount:     s.TurnCount,
	}
	if s.Deck != nil {
		snap.Deck = append([]Role(nil), s.Deck.Cards...)
	}
	for _, p := range s.Players {
		ps := PlayerSnapshot{ID: p.ID, Name: p.Name, AvatarURL: p.AvatarURL, Coins: p.Coins}
		for _, inf := range p.Influences {
			ps.Influences = append(ps.Influences, InfluenceSnapshot{
				Role:      inf.Role,
				Dismissed: inf.State == InfluenceDismissed,
				Returned:  inf.Returned,
			})
		}
		snap.Players = append(snap.Players, ps)
	}
	if s.Pending != nil {
		pd := &PendingSnapshot{
			Action:             s.Pending.Action.String(),
			ActorID:            s.Pending.ActorID,
			TargetID:           s.Pending.TargetID,
			BlockerID:          s.Pending.BlockerID,
			BlockRoles:         append([]Role(nil), s.Pending.BlockRoles...),
			VotesRequired:      s.Pending.VotesRequired,
			DismisserID:        s.Pending.DismisserID,
			InfluencesToReturn: s.Pending.InfluencesToReturn,
		}
		if s.Pending.Next == continueApplyEffect {
			pd.Next = "apply_effect"
		} else {
			pd.Next = "advance_turn"
		}
		for id := range s.Pending.VotesFrom {
			pd.VotesFrom = append(pd.VotesFrom, id)
		}
		snap.Pending = pd
	}
	return snap
}

// FromSnapshot rebuilds a live session from its durable form.
func FromSnapshot(snap *Snapshot) *Session {
	s := &Session{
		ChannelID:    snap.ChannelID,
		GuildID:      snap.GuildID,
		Mode:         Mode(snap.Mode),
		CurrentIndex: snap.CurrentIndex,
		Started:      snap.Started,
		Phase:        phaseFromString(snap.Phase),
		TurnCount:    snap.TurnCount,
	}
	if s.Mode == "" {
		s.Mode = ModeOriginal
	}
	if snap.Deck != nil {
		s.Deck = &Deck{Cards: append([]Role(nil), snap.Deck...)}
	}
	for _, ps := range snap.Players {
		p := &Player{ID: ps.ID, Name: ps.Name, AvatarURL: ps.AvatarURL, Coins: ps.Coins}
		for _, inf := range ps.Influences {
			state := InfluenceActive
			if inf.Dismissed {
				state = InfluenceDismissed
			}
			p.Influences = append(p.Influences, Influence{Role: inf.Role, State: state, Returned: inf.Returned})
		}
		s.Players = append(s.Players, p)
	}
	if snap.Pending != nil {
		action, _ := ActionFromName(snap.Pending.Action)
		pd := &PendingDecision{
			Action:             action,
			ActorID:            snap.Pending.ActorID,
			TargetID:           snap.Pending.TargetID,
			BlockerID:          snap.Pending.BlockerID,
			BlockRoles:         append([]Role(nil), snap.Pending.BlockRoles...),
			VotesRequired:      snap.Pending.VotesRequired,
			DismisserID:        snap.Pending.DismisserID,
			InfluencesToReturn: snap.Pending.InfluencesToReturn,
			VotesFrom:          make(map[string]struct{}),
		}
		if snap.Pending.Next == "apply_effect" {
			pd.Next = continueApplyEffect
		}
		for _, id := range snap.Pending.VotesFrom {
			pd.VotesFrom[id] = struct{}{}
		}
		s.Pending = pd
	}
	return s
}
