package simulator

import (
	"fmt"
	"sort"

	"github.com/lox/blackjack/internal/game"
)

// Strategy decides for the player during a simulated round
type Strategy interface {
	// Ace returns the value (1 or 11) to pin pending aces to
	Ace(hand game.HandView) int
	// Decide picks the next action while the player's turn is open
	Decide(snap game.Snapshot) game.Action
}

// BasicStrategy counts aces as 11 when that does not bust, doubles on 10
// or 11 and hits below the stand threshold
type BasicStrategy struct {
	StandOn int
}

func (b BasicStrategy) Ace(hand game.HandView) int {
	return aceHigh(hand)
}

func (b BasicStrategy) Decide(snap game.Snapshot) game.Action {
	total := snap.Hand(game.Player).Total
	switch {
	case snap.CanDouble && (total == 10 || total == 11):
		return game.DoubleDown
	case total < b.standOn():
		return game.Hit
	default:
		return game.Stand
	}
}

func (b BasicStrategy) standOn() int {
	if b.StandOn <= 0 {
		return game.DefaultStandOn
	}
	return b.StandOn
}

// CautiousStrategy never doubles and stands on any total that could bust
type CautiousStrategy struct{}

func (CautiousStrategy) Ace(hand game.HandView) int {
	return aceHigh(hand)
}

func (CautiousStrategy) Decide(snap game.Snapshot) game.Action {
	if snap.Hand(game.Player).Total < 12 {
		return game.Hit
	}
	return game.Stand
}

// StandStrategy stands on whatever it is dealt
type StandStrategy struct{}

func (StandStrategy) Ace(hand game.HandView) int       { return aceHigh(hand) }
func (StandStrategy) Decide(game.Snapshot) game.Action { return game.Stand }

func aceHigh(hand game.HandView) int {
	if hand.HardTotal+10*hand.FlexibleAces <= game.Blackjack {
		return 11
	}
	return 1
}

var strategies = map[string]func(standOn int) Strategy{
	"basic":    func(standOn int) Strategy { return BasicStrategy{StandOn: standOn} },
	"cautious": func(int) Strategy { return CautiousStrategy{} },
	"stand":    func(int) Strategy { return StandStrategy{} },
}

// StrategyNames lists the strategies accepted by NewStrategy
func StrategyNames() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewStrategy returns the named strategy
func NewStrategy(name string, standOn int) (Strategy, error) {
	build, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
	return build(standOn), nil
}
