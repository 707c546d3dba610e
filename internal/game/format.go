package game

import (
	"fmt"
	"strings"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	ShowWagerChanges bool // Emit a line for every wager change (TUI log)
	ColorCard        func(string, bool) string
}

// EventFormatter turns game events into human-readable log lines. It
// remembers the bot identities announced at the start of each round.
type EventFormatter struct {
	opts       FormattingOptions
	identities [roleCount]Identity
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	ef := &EventFormatter{opts: opts}
	for _, role := range DealOrder {
		ef.identities[role] = fixedIdentity(role)
	}
	return ef
}

// Format returns the log line for event, or "" when the event is not shown
func (ef *EventFormatter) Format(event GameEvent) string {
	switch ev := event.(type) {
	case BetPlacedEvent:
		return fmt.Sprintf("Bet placed: $%d", ev.Amount)
	case BetRejectedEvent:
		return PromptInvalidBet
	case RoundStartEvent:
		ef.identities[Bot1] = ev.Bot1
		ef.identities[Bot2] = ev.Bot2
		return fmt.Sprintf("*** ROUND %d *** %s | %s vs %s", ev.Round, WagerLine(ev.Wager), ev.Bot1, ev.Bot2)
	case CardDealtEvent:
		name := ef.name(ev.Role)
		if ev.FaceDown {
			return fmt.Sprintf("%s: dealt a face-down card", name)
		}
		if ev.TotalHidden {
			return fmt.Sprintf("%s: dealt %s", name, ef.card(ev.Card.String(), ev.Card.IsRed()))
		}
		return fmt.Sprintf("%s: dealt %s (total %d)", name, ef.card(ev.Card.String(), ev.Card.IsRed()), ev.Total)
	case AcePromptEvent:
		return fmt.Sprintf("%s (currently %d)", PromptAce, ev.Total)
	case AceChosenEvent:
		return fmt.Sprintf("You: aces count as %d (total %d)", ev.Value, ev.Total)
	case PlayerActionEvent:
		return ef.formatPlayerAction(ev)
	case AutoPlayStartEvent:
		return "*** OPPONENTS PLAY ***"
	case HoleCardEvent:
		return fmt.Sprintf("Dealer: reveals %s (total %d)", ef.card(ev.Card.String(), ev.Card.IsRed()), ev.Total)
	case OpponentStandEvent:
		if ev.Total > Blackjack {
			return fmt.Sprintf("%s: busts with %d", ev.Identity, ev.Total)
		}
		return fmt.Sprintf("%s: stands on %d", ev.Identity, ev.Total)
	case WagerChangedEvent:
		if !ef.opts.ShowWagerChanges {
			return ""
		}
		return ev.Line
	case RoundSettledEvent:
		return fmt.Sprintf("*** RESULT *** %s | %s", ev.Message, WagerLine(ev.WagerAfter))
	case ResetEvent:
		if ev.CancelledAutoPlay {
			return "Table reset (opponents interrupted)"
		}
		return "Table reset"
	default:
		return fmt.Sprintf("event: %s", event.EventType())
	}
}

func (ef *EventFormatter) formatPlayerAction(ev PlayerActionEvent) string {
	var b strings.Builder
	b.WriteString("You: ")
	switch ev.Action {
	case Hit:
		fmt.Fprintf(&b, "hit, drew %s (total %d)", ef.card(ev.Card.String(), ev.Card.IsRed()), ev.Total)
	case Stand:
		fmt.Fprintf(&b, "stand on %d", ev.Total)
	case DoubleDown:
		fmt.Fprintf(&b, "double down to $%d, drew %s (total %d)", ev.Wager, ef.card(ev.Card.String(), ev.Card.IsRed()), ev.Total)
	default:
		b.WriteString(ev.Action.String())
	}
	if ev.Total > Blackjack {
		b.WriteString(" - bust")
	}
	return b.String()
}

func (ef *EventFormatter) name(role Role) string {
	return ef.identities[role].String()
}

func (ef *EventFormatter) card(text string, red bool) string {
	if ef.opts.ColorCard == nil {
		return text
	}
	return ef.opts.ColorCard(text, red)
}
