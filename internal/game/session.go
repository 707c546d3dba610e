package game

import (
	"github.com/lox/blackjack/internal/deck"
)

// Phase is the round's position in the turn state machine
type Phase int

const (
	PhaseBetting Phase = iota
	PhaseDealt
	PhaseAceChoice
	PhasePlayerTurn
	PhaseAutoPlay
	PhaseSettled
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseBetting:
		return "Betting"
	case PhaseDealt:
		return "Dealt"
	case PhaseAceChoice:
		return "AceChoice"
	case PhasePlayerTurn:
		return "PlayerTurn"
	case PhaseAutoPlay:
		return "AutoPlay"
	case PhaseSettled:
		return "Settled"
	default:
		return "Unknown"
	}
}

// Prompts shown while the engine waits on the player
const (
	PromptBet        = "Enter your bet amount:"
	PromptInvalidBet = "Invalid amount, re-enter bet"
	PromptAce        = "You got an Ace! Choose 11 or 1:"
)

// Session is the mutable state of one round. The engine owns it and hands
// out Snapshots; nothing else mutates it.
type Session struct {
	RoundID string
	Round   int
	Phase   Phase
	Actor   Role
	Stake   int // wager when the round was dealt

	hands      [roleCount]*Hand
	identities [roleCount]Identity

	IsPlaying    bool
	CanDouble    bool
	IsBotActive  bool
	HoleRevealed bool
	Doubled      bool
	NeedsBet     bool

	Results Results
	Message string
}

func newSession(roundID string, round int) *Session {
	s := &Session{
		RoundID: roundID,
		Round:   round,
		Phase:   PhaseBetting,
	}
	for _, role := range DealOrder {
		s.hands[role] = NewHand(role)
		s.identities[role] = fixedIdentity(role)
	}
	return s
}

// Hand returns the hand held by role
func (s *Session) Hand(role Role) *Hand {
	return s.hands[role]
}

// Identity returns the display identity of role
func (s *Session) Identity(role Role) Identity {
	return s.identities[role]
}

// SetIdentity assigns a bot persona for the round
func (s *Session) SetIdentity(role Role, id Identity) {
	s.identities[role] = id
}

// HandView is a read-only rendering of one hand
type HandView struct {
	Role      Role
	Identity  Identity
	Cards     []deck.Card
	HoleCard  bool // Cards[0] is face down and blanked
	Total     int
	ShowTotal bool
	Blackjack bool
	Bust      bool

	HardTotal    int // flexible aces counted as 1
	FlexibleAces int
}

// Snapshot is the state published to the presentation layer
type Snapshot struct {
	RoundID     string
	Round       int
	Phase       Phase
	Actor       Role
	Hands       [roleCount]HandView
	Wager       int
	WagerLine   string
	Message     string
	IsPlaying   bool
	CanDouble   bool
	IsBotActive bool
	NeedsBet    bool
	Doubled     bool
	Results     Results
}

// Hand returns the view of role's hand
func (s Snapshot) Hand(role Role) HandView {
	return s.Hands[role]
}

func (s *Session) snapshot(wager int) Snapshot {
	snap := Snapshot{
		RoundID:     s.RoundID,
		Round:       s.Round,
		Phase:       s.Phase,
		Actor:       s.Actor,
		Wager:       wager,
		WagerLine:   WagerLine(wager),
		Message:     s.Message,
		IsPlaying:   s.IsPlaying,
		CanDouble:   s.CanDouble,
		IsBotActive: s.IsBotActive,
		NeedsBet:    s.NeedsBet,
		Doubled:     s.Doubled,
		Results:     s.Results,
	}

	for _, role := range DealOrder {
		h := s.hands[role]
		view := HandView{
			Role:      role,
			Identity:  s.identities[role],
			Cards:     h.Cards(),
			Total:     h.Total(),
			ShowTotal: true,
			Blackjack: h.IsBlackjack(),
			Bust:      h.IsBust(),

			HardTotal:    h.HardTotal(),
			FlexibleAces: h.FlexibleAces(),
		}
		if role == Dealer && !s.HoleRevealed && h.Len() > 0 {
			view.HoleCard = true
			view.Cards[0] = deck.Card{}
			view.ShowTotal = false
			view.Total = 0
			view.Blackjack = false
			view.Bust = false
			view.HardTotal = 0
			view.FlexibleAces = 0
		}
		snap.Hands[role] = view
	}
	return snap
}
