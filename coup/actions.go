package coup

// ActionType enumerates the declarable turn actions.
type ActionType int

const (
	ActionIncome ActionType = iota
	ActionForeignAid
	ActionTax
	ActionSteal
	ActionExchange
	ActionAssassinate
	ActionCoup
)

// String returns the action's wire/display name.
func (a ActionType) String() string {
	switch a {
	case ActionIncome:
		return "income"
	case ActionForeignAid:
		return "foreign-aid"
	case ActionTax:
		return "tax"
	case ActionSteal:
		return "steal"
	case ActionExchange:
		return "exchange"
	case ActionAssassinate:
		return "assassinate"
	case ActionCoup:
		return "coup"
	default:
		return "unknown"
	}
}

// ActionFromName parses an action wire name.
func ActionFromName(name string) (ActionType, bool) {
	for _, a := range AllActions {
		if a.String() == name {
			return a, true
		}
	}
	return 0, false
}

// AllActions lists every action in declaration-menu order.
var AllActions = []ActionType{
	ActionIncome, ActionForeignAid, ActionTax, ActionSteal,
	ActionExchange, ActionAssassinate, ActionCoup,
}

// actionMeta describes the static rules of one action: cost, targeting, which
// role the actor implicitly claims (empty = unchallengeable), and which roles
// can justify a block (empty = unblockable). Steal is the one action with two
// blocking roles.
type actionMeta struct {
	Cost        int
	NeedsTarget bool
	Claim       Role
	BlockableBy []Role
	// Immediate actions resolve with no response window.
	Immediate bool
}

var actionTable = map[ActionType]actionMeta{
	ActionIncome:      {Immediate: true},
	ActionForeignAid:  {BlockableBy: []Role{RoleDuke}},
	ActionTax:         {Claim: RoleDuke},
	ActionSteal:       {NeedsTarget: true, Claim: RoleCaptain, BlockableBy: []Role{RoleCaptain, RoleAmbassador}},
	ActionExchange:    {Claim: RoleAmbassador},
	ActionAssassinate: {Cost: 3, NeedsTarget: true, Claim: RoleAssassin, BlockableBy: []Role{RoleContessa}},
	ActionCoup:        {Cost: 7, NeedsTarget: true, Immediate: true},
}

// Meta returns the static rule metadata for an action.
func (a ActionType) Meta() actionMeta {
	return actionTable[a]
}

// Blockable reports whether any role can block the action.
func (a ActionType) Blockable() bool {
	return len(actionTable[a].BlockableBy) > 0
}

// Challengeable reports whether declaring the action is itself a role claim.
func (a ActionType) Challengeable() bool {
	return actionTable[a].Claim != ""
}
