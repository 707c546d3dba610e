package game

// Role identifies one of the four hands at the table
type Role int

const (
	Player Role = iota
	Bot1
	Bot2
	Dealer
)

const roleCount = 4

// DealOrder is the order in which hands receive their two opening cards
var DealOrder = []Role{Player, Bot1, Bot2, Dealer}

// AutoPlayOrder is the strict order in which opponents play their hands
var AutoPlayOrder = []Role{Bot1, Bot2, Dealer}

// Opponents lists the hands the player is compared against, dealer first
var Opponents = []Role{Dealer, Bot1, Bot2}

// String returns the string representation of the role
func (r Role) String() string {
	switch r {
	case Player:
		return "Player"
	case Bot1:
		return "Bot 1"
	case Bot2:
		return "Bot 2"
	case Dealer:
		return "Dealer"
	default:
		return "Unknown"
	}
}

// IsOpponent reports whether the role plays automatically
func (r Role) IsOpponent() bool {
	return r == Bot1 || r == Bot2 || r == Dealer
}

// IsBot reports whether the role is one of the computer players
func (r Role) IsBot() bool {
	return r == Bot1 || r == Bot2
}

// nextOpponent returns the opponent that plays after r
func nextOpponent(r Role) (Role, bool) {
	for i, role := range AutoPlayOrder {
		if role == r && i+1 < len(AutoPlayOrder) {
			return AutoPlayOrder[i+1], true
		}
	}
	return 0, false
}
