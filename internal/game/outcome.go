package game

import (
	"fmt"
	"strings"
)

// Outcome is the result of the player's hand against one opponent
type Outcome int

const (
	OutcomeNone Outcome = iota
	Win
	Lose
	Push
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Lose:
		return "lose"
	case Push:
		return "push"
	default:
		return "none"
	}
}

// Compare classifies the player's finished hand against one opponent.
// A player bust loses before anything else is considered.
func Compare(player, opponent *Hand) Outcome {
	playerTotal := player.Total()
	opponentTotal := opponent.Total()
	playerBJ := player.IsBlackjack()
	opponentBJ := opponent.IsBlackjack()

	switch {
	case playerTotal > Blackjack:
		return Lose
	case opponentTotal > Blackjack:
		return Win
	case playerBJ && !opponentBJ:
		return Win
	case opponentBJ && !playerBJ:
		return Lose
	case playerBJ && opponentBJ:
		return Push
	case playerTotal > opponentTotal:
		return Win
	case playerTotal < opponentTotal:
		return Lose
	default:
		return Push
	}
}

// Results holds the three independent comparisons of a settled round
type Results struct {
	Dealer Outcome
	Bot1   Outcome
	Bot2   Outcome
}

// Resolve compares the player against every opponent
func Resolve(player, dealer, bot1, bot2 *Hand) Results {
	return Results{
		Dealer: Compare(player, dealer),
		Bot1:   Compare(player, bot1),
		Bot2:   Compare(player, bot2),
	}
}

// For returns the outcome against role
func (r Results) For(role Role) Outcome {
	switch role {
	case Dealer:
		return r.Dealer
	case Bot1:
		return r.Bot1
	case Bot2:
		return r.Bot2
	default:
		return OutcomeNone
	}
}

// Counts tallies wins, losses and pushes across the three comparisons
func (r Results) Counts() (wins, losses, pushes int) {
	for _, o := range []Outcome{r.Dealer, r.Bot1, r.Bot2} {
		switch o {
		case Win:
			wins++
		case Lose:
			losses++
		case Push:
			pushes++
		}
	}
	return wins, losses, pushes
}

// LostToAny reports whether any opponent beat the player
func (r Results) LostToAny() bool {
	return r.Dealer == Lose || r.Bot1 == Lose || r.Bot2 == Lose
}

// String returns e.g. "dealer=win bot1=push bot2=lose"
func (r Results) String() string {
	return fmt.Sprintf("dealer=%s bot1=%s bot2=%s", r.Dealer, r.Bot1, r.Bot2)
}

// Round result messages that override the per-opponent breakdown
const (
	MessageBusted  = "Busted! You lost to all players!"
	MessagePerfect = "Perfect round! You beat everyone!"
	MessageSwept   = "Tough luck! You lost to all players!"
	MessageAllPush = "Push all around! Nobody wins."
)

// ComposeMessage builds the round result line from the session's hands and
// the resolved outcomes. A player bust overrides every comparison.
func ComposeMessage(s *Session, r Results) string {
	player := s.Hand(Player)
	if player.IsBust() {
		return MessageBusted
	}

	switch wins, losses, pushes := r.Counts(); {
	case wins == 3:
		return MessagePerfect
	case losses == 3:
		return MessageSwept
	case pushes == 3:
		return MessageAllPush
	}

	playerBJ := player.IsBlackjack()
	dealerBJ := s.Hand(Dealer).IsBlackjack()

	var dealerMessage string
	switch r.Dealer {
	case Win:
		if playerBJ {
			dealerMessage = "Blackjack! You beat the Dealer!"
		} else {
			dealerMessage = "You beat the Dealer!"
		}
	case Lose:
		if dealerBJ {
			dealerMessage = "Dealer has Blackjack! You lose!"
		} else {
			dealerMessage = "You lost to the Dealer!"
		}
	case Push:
		if playerBJ && dealerBJ {
			dealerMessage = "Both have Blackjack! Push!"
		} else {
			dealerMessage = "You tied with the Dealer!"
		}
	}

	var botMessages []string
	for _, role := range []Role{Bot1, Bot2} {
		name := s.Identity(role).Name
		botBJ := s.Hand(role).IsBlackjack()

		switch r.For(role) {
		case Win:
			if playerBJ {
				botMessages = append(botMessages, fmt.Sprintf("beat %s with Blackjack", name))
			} else {
				botMessages = append(botMessages, fmt.Sprintf("beat %s", name))
			}
		case Lose:
			if botBJ {
				botMessages = append(botMessages, fmt.Sprintf("lost to %s (Blackjack)", name))
			} else {
				botMessages = append(botMessages, fmt.Sprintf("lost to %s", name))
			}
		case Push:
			if playerBJ && botBJ {
				botMessages = append(botMessages, fmt.Sprintf("both have Blackjack vs %s", name))
			} else {
				botMessages = append(botMessages, fmt.Sprintf("tied with %s", name))
			}
		}
	}

	message := dealerMessage
	if len(botMessages) > 0 {
		message += fmt.Sprintf(" You %s.", strings.Join(botMessages, ", "))
	}
	return message
}
