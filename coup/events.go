package coup

// EventType enumerates the notifications the engine emits while resolving.
type EventType int

const (
	EventGameBegan EventType = iota
	EventTurnStarted
	EventActionDeclared
	EventDecisionWindow
	EventBlockDeclared
	EventChallengeResolved
	EventAwaitingDismissal
	EventInfluenceDismissed
	EventPlayerEliminated
	EventActionResolved
	EventActionBlocked
	EventActionAborted
	EventExchangeDrawn
	EventExchangeCompleted
	EventGameEnded
)

// String returns the event's wire/display name.
func (e EventType) String() string {
	switch e {
	case EventGameBegan:
		return "game_began"
	case EventTurnStarted:
		return "turn_started"
	case EventActionDeclared:
		return "action_declared"
	case EventDecisionWindow:
		return "decision_window"
	case EventBlockDeclared:
		return "block_declared"
	case EventChallengeResolved:
		return "challenge_resolved"
	case EventAwaitingDismissal:
		return "awaiting_dismissal"
	case EventInfluenceDismissed:
		return "influence_dismissed"
	case EventPlayerEliminated:
		return "player_eliminated"
	case EventActionResolved:
		return "action_resolved"
	case EventActionBlocked:
		return "action_blocked"
	case EventActionAborted:
		return "action_aborted"
	case EventExchangeDrawn:
		return "exchange_drawn"
	case EventExchangeCompleted:
		return "exchange_completed"
	case EventGameEnded:
		return "game_ended"
	default:
		return "unknown"
	}
}

// Event is a value notification emitted by the engine for the rendering layer.
// The engine never renders text itself; the bot package formats these.
//
// Field use by type:
//   - TurnStarted: PlayerID is the player to act.
//   - ActionDeclared: PlayerID actor, Action, TargetID when targeted.
//   - DecisionWindow: Amount is the number of allows still required.
//   - BlockDeclared: PlayerID blocker, Roles the roles that justify the block.
//   - ChallengeResolved: PlayerID challenger, TargetID the challenged claimant,
//     ClaimTrue whether the claim held, Role the revealed-and-reshuffled card.
//   - AwaitingDismissal: PlayerID must choose an influence to dismiss.
//   - InfluenceDismissed: PlayerID, Role the card lost.
//   - ActionResolved: Action, PlayerID actor, TargetID, Amount coins moved.
//   - ExchangeDrawn: PlayerID actor, Roles the actor's full private hand.
//   - GameEnded: PlayerID the winner ("" when stopped without one).
type Event struct {
	Type      EventType
	PlayerID  string
	TargetID  string
	Action    ActionType
	Role      Role
	Roles     []Role
	Amount    int
	ClaimTrue bool
}
