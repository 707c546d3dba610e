package game

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidBet is returned for non-numeric, non-positive or oversized bets
var ErrInvalidBet = errors.New("invalid bet")

const (
	// MaxBet is the largest wager that can be placed
	MaxBet = 1_000_000_000

	// MaxWager caps the carried wager; doubling and payouts saturate here
	MaxWager = math.MaxInt / 2
)

var betPattern = regexp.MustCompile(`^\d+$`)

// ParseBet validates raw bet input: digits only, strictly positive and at
// most MaxBet
func ParseBet(input string) (int, error) {
	val := strings.TrimSpace(input)
	if !betPattern.MatchString(val) {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidBet, input)
	}
	amount, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidBet, input, err)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("%w: %d must be positive", ErrInvalidBet, amount)
	}
	if amount > MaxBet {
		return 0, fmt.Errorf("%w: %d exceeds the table limit of %d", ErrInvalidBet, amount, MaxBet)
	}
	return amount, nil
}

// WagerLine formats the wager for display
func WagerLine(wager int) string {
	return fmt.Sprintf("Bet: $%d", wager)
}

// Ledger tracks the player's single wager across rounds
type Ledger struct {
	wager int
}

// Wager returns the current wager
func (l *Ledger) Wager() int {
	return l.wager
}

// Place sets a new wager
func (l *Ledger) Place(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %d must be positive", ErrInvalidBet, amount)
	}
	if amount > MaxBet {
		return fmt.Errorf("%w: %d exceeds the table limit of %d", ErrInvalidBet, amount, MaxBet)
	}
	l.wager = amount
	return nil
}

// Double doubles the wager for a double down and returns the new amount
func (l *Ledger) Double() int {
	l.wager = doubled(l.wager)
	return l.wager
}

// Settle applies the round result to the wager and returns the new amount.
// A player blackjack pays 3:2 regardless of the opponents; otherwise a loss
// to any opponent forfeits the wager and the dealer comparison decides the
// rest.
func (l *Ledger) Settle(playerBlackjack bool, r Results) int {
	switch {
	case playerBlackjack:
		if l.wager > MaxWager-l.wager/2 {
			l.wager = MaxWager
		} else {
			l.wager += l.wager / 2
		}
	case r.LostToAny():
		l.wager = 0
	case r.Dealer == Win:
		l.wager = doubled(l.wager)
	}
	return l.wager
}

func doubled(wager int) int {
	if wager > MaxWager/2 {
		return MaxWager
	}
	return wager * 2
}

// NeedsBet reports whether a fresh bet is required before the next round
func (l *Ledger) NeedsBet() bool {
	return l.wager == 0
}

// Reset clears the wager
func (l *Ledger) Reset() {
	l.wager = 0
}
