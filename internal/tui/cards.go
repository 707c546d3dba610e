package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// colorCard styles card text by suit colour
func colorCard(text string, red bool) string {
	if red {
		return RedCardStyle.Render(text)
	}
	return BlackCardStyle.Render(text)
}

// renderCard draws one card as a small bordered box
func renderCard(card deck.Card, hidden bool) string {
	if hidden {
		return HiddenCardStyle.Render("░░")
	}
	return CardBoxStyle.Render(colorCard(card.String(), card.IsRed()))
}

// renderCards draws a row of card boxes; the first card is face down when
// hole is set
func renderCards(cards []deck.Card, hole bool) string {
	if len(cards) == 0 {
		return InfoStyle.Render("(no cards)")
	}
	boxes := make([]string, len(cards))
	for i, card := range cards {
		boxes[i] = renderCard(card, hole && i == 0)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

// formatCards formats cards inline with colors
func formatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return ""
	}
	formatted := make([]string, len(cards))
	for i, card := range cards {
		formatted[i] = colorCard(card.String(), card.IsRed())
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// handTitle is the heading above a hand: identity, total and any badge
func handTitle(view game.HandView, active bool) string {
	total := "?"
	if view.ShowTotal {
		total = fmt.Sprintf("%d", view.Total)
	}

	title := fmt.Sprintf("%s (%s)", view.Identity, total)
	if active {
		title = ActiveHandStyle.Render("▶ " + title)
	} else {
		title = PlayerInfoStyle.Render(title)
	}

	switch {
	case view.Blackjack:
		title += " " + SuccessStyle.Render("BLACKJACK")
	case view.Bust:
		title += " " + ErrorStyle.Render("BUST")
	}
	return title
}

// outcomeBadge shows the player's result against one opponent
func outcomeBadge(o game.Outcome) string {
	switch o {
	case game.Win:
		return SuccessStyle.Render("you win")
	case game.Lose:
		return ErrorStyle.Render("you lose")
	case game.Push:
		return WarningStyle.Render("push")
	default:
		return ""
	}
}

// renderHand draws a titled hand block
func renderHand(view game.HandView, active bool, outcome game.Outcome) string {
	title := handTitle(view, active)
	if badge := outcomeBadge(outcome); badge != "" {
		title += "  " + badge
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, renderCards(view.Cards, view.HoleCard))
}
