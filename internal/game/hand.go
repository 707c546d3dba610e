package game

import (
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// Blackjack is the target total
const Blackjack = 21

// AcePin records how an ace in a hand is valued. A flexible ace is resolved
// by OptimalTotal; a pinned ace always counts its pinned value.
type AcePin uint8

const (
	AceFlexible AcePin = iota
	AceOne
	AceEleven
)

// String returns the string representation of the pin
func (p AcePin) String() string {
	switch p {
	case AceOne:
		return "1"
	case AceEleven:
		return "11"
	default:
		return "1/11"
	}
}

// PinFor maps a player's ace choice to a pin
func PinFor(value int) (AcePin, bool) {
	switch value {
	case 1:
		return AceOne, true
	case 11:
		return AceEleven, true
	}
	return AceFlexible, false
}

// HandCard is a card held in a hand together with its ace pin
type HandCard struct {
	Card deck.Card
	Pin  AcePin
}

// Flexible reports whether the card is an ace whose value is still open
func (hc HandCard) Flexible() bool {
	return hc.Card.IsAce() && hc.Pin == AceFlexible
}

func (hc HandCard) value() int {
	if !hc.Card.IsAce() {
		return hc.Card.Value()
	}
	if hc.Pin == AceOne {
		return 1
	}
	return 11
}

// OptimalTotal returns the best total for the cards: every flexible ace
// starts at 11 and drops to 1 while the total is over 21. The result is the
// highest total not exceeding 21 when one exists, otherwise the lowest.
func OptimalTotal(cards []HandCard) int {
	total := 0
	flexible := 0
	for _, c := range cards {
		total += c.value()
		if c.Flexible() {
			flexible++
		}
	}

	for total > Blackjack && flexible > 0 {
		total -= 10
		flexible--
	}
	return total
}

// IsBlackjack reports a natural: exactly two cards totalling 21
func IsBlackjack(cards []HandCard) bool {
	return len(cards) == 2 && OptimalTotal(cards) == Blackjack
}

// Total values plain cards with every ace flexible
func Total(cards ...deck.Card) int {
	return OptimalTotal(toHandCards(cards))
}

// IsNatural reports whether plain cards form a natural blackjack
func IsNatural(cards ...deck.Card) bool {
	return IsBlackjack(toHandCards(cards))
}

func toHandCards(cards []deck.Card) []HandCard {
	out := make([]HandCard, len(cards))
	for i, c := range cards {
		out[i] = HandCard{Card: c}
	}
	return out
}

// Hand is the ordered set of cards held by one role
type Hand struct {
	role  Role
	cards []HandCard
}

// NewHand creates a hand for role holding cards
func NewHand(role Role, cards ...deck.Card) *Hand {
	return &Hand{role: role, cards: toHandCards(cards)}
}

// Role returns the owner of the hand
func (h *Hand) Role() Role {
	return h.role
}

// Add appends a freshly dealt card
func (h *Hand) Add(c deck.Card) {
	h.cards = append(h.cards, HandCard{Card: c})
}

// Cards returns a copy of the cards in deal order
func (h *Hand) Cards() []deck.Card {
	out := make([]deck.Card, len(h.cards))
	for i, c := range h.cards {
		out[i] = c.Card
	}
	return out
}

// HandCards returns a copy of the cards with their ace pins
func (h *Hand) HandCards() []HandCard {
	out := make([]HandCard, len(h.cards))
	copy(out, h.cards)
	return out
}

// Len returns the number of cards held
func (h *Hand) Len() int {
	return len(h.cards)
}

// Total returns the optimal total of the hand
func (h *Hand) Total() int {
	return OptimalTotal(h.cards)
}

// IsBlackjack reports a natural blackjack
func (h *Hand) IsBlackjack() bool {
	return IsBlackjack(h.cards)
}

// IsBust reports a total over 21
func (h *Hand) IsBust() bool {
	return h.Total() > Blackjack
}

// IsSoft reports whether a flexible ace is currently counted as 11
func (h *Hand) IsSoft() bool {
	hard := 0
	flexible := false
	for _, c := range h.cards {
		if c.Flexible() {
			hard++
			flexible = true
		} else {
			hard += c.value()
		}
	}
	return flexible && hard+10 <= Blackjack
}

// HasAce reports whether any ace is held, pinned or not
func (h *Hand) HasAce() bool {
	for _, c := range h.cards {
		if c.Card.IsAce() {
			return true
		}
	}
	return false
}

// HardTotal counts every flexible ace as 1
func (h *Hand) HardTotal() int {
	hard := 0
	for _, c := range h.cards {
		if c.Flexible() {
			hard++
		} else {
			hard += c.value()
		}
	}
	return hard
}

// FlexibleAces returns the number of aces not yet pinned
func (h *Hand) FlexibleAces() int {
	n := 0
	for _, c := range h.cards {
		if c.Flexible() {
			n++
		}
	}
	return n
}

// HasFlexibleAce reports whether any ace still awaits a value
func (h *Hand) HasFlexibleAce() bool {
	for _, c := range h.cards {
		if c.Flexible() {
			return true
		}
	}
	return false
}

// PinAces fixes every flexible ace to pin and returns how many were pinned
func (h *Hand) PinAces(pin AcePin) int {
	n := 0
	for i := range h.cards {
		if h.cards[i].Flexible() {
			h.cards[i].Pin = pin
			n++
		}
	}
	return n
}

// String renders the hand as e.g. "[A♠ 5♥]"
func (h *Hand) String() string {
	parts := make([]string, len(h.cards))
	for i, c := range h.cards {
		parts[i] = c.Card.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
