package coup

// Role identifies one of the fixed influence roles.
type Role string

const (
	RoleDuke       Role = "duke"
	RoleAssassin   Role = "assassin"
	RoleCaptain    Role = "captain"
	RoleAmbassador Role = "ambassador"
	RoleContessa   Role = "contessa"
)

// AllRoles lists every role in the deck, in display order.
var AllRoles = []Role{RoleDuke, RoleAssassin, RoleCaptain, RoleAmbassador, RoleContessa}

// Card is the immutable template for a role card shared by every copy in the
// deck. Description and ImageURL are used by the rendering layer.
type Card struct {
	Role        Role
	Description string
	ImageURL    string
}

var cards = map[Role]Card{
	RoleDuke: {
		Role:        RoleDuke,
		Description: "Takes 3 coins as tax. Blocks foreign aid.",
		ImageURL:    "https://i.imgur.com/3v7d0fK.png",
	},
	RoleAssassin: {
		Role:        RoleAssassin,
		Description: "Pays 3 coins to assassinate another player's influence.",
		ImageURL:    "https://i.imgur.com/YbKbCJn.png",
	},
	RoleCaptain: {
		Role:        RoleCaptain,
		Description: "Steals 2 coins from another player. Blocks stealing.",
		ImageURL:    "https://i.imgur.com/xMjn3lR.png",
	},
	RoleAmbassador: {
		Role:        RoleAmbassador,
		Description: "Exchanges cards with the deck. Blocks stealing.",
		ImageURL:    "https://i.imgur.com/J0JQtbq.png",
	},
	RoleContessa: {
		Role:        RoleContessa,
		Description: "Blocks assassination.",
		ImageURL:    "https://i.imgur.com/1zp2dSx.png",
	},
}

// CardFor returns the template card for a role.
func CardFor(r Role) (Card, bool) {
	c, ok := cards[r]
	return c, ok
}

// ValidRole reports whether r names a known role.
func ValidRole(r Role) bool {
	_, ok := cards[r]
	return ok
}

// CopiesPerRole returns how many copies of each role the deck carries for the
// given player count: 3 up to 6 players, 4 for 7-8, 5 for 9-10.
func CopiesPerRole(playerCount int) int {
	switch {
	case playerCount <= 6:
		return 3
	case playerCount <= 8:
		return 4
	default:
		return 5
	}
}
