package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
)

type harness struct {
	tui   *TUIModel
	clock *quartz.Mock
	stats *statistics.Recorder
}

func newHarness(t *testing.T, cards string) *harness {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}) // Quiet logger for tests
	clock := quartz.NewMock(t)
	engine := game.NewEngine(game.Options{
		Clock:  clock,
		Logger: logger,
		Rand:   randutil.New(3),
		Shoe:   deck.NewStackedShoe(randutil.New(4), deck.MustParseCards(cards)...),
	})
	stats := statistics.NewRecorder(3)
	engine.Subscribe(stats)

	return &harness{
		tui:   NewTUIModelWithOptions(engine, stats, logger, true),
		clock: clock,
		stats: stats,
	}
}

// pump feeds queued engine events through Update as the program would
func (h *harness) pump() {
	for {
		select {
		case ev := <-h.tui.events.Events():
			h.tui.Update(eventMsg{event: ev})
		default:
			return
		}
	}
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		h.tui.Update(msg)
		h.pump()
	}
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.press(string(r))
	}
}

// finishAutoPlay fires pending autoplay timers until the round settles
func (h *harness) finishAutoPlay(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := 0; h.tui.engine.Snapshot().IsBotActive; i++ {
		require.Less(t, i, 64, "autoplay did not finish")
		_, w := h.clock.AdvanceNext()
		w.MustWait(ctx)
	}
	h.pump()
}

func logContains(lines []string, substr string) bool {
	for _, line := range lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func TestTUITestMode(t *testing.T) {
	t.Run("test mode captures log entries", func(t *testing.T) {
		h := newHarness(t, "")

		assert.True(t, h.tui.IsTestMode())
		assert.Empty(t, h.tui.GetCapturedLog())

		h.tui.AddLogEntry("*** ROUND 1 ***")
		h.tui.AddLogEntry("You: stand on 18")

		assert.Equal(t, []string{"*** ROUND 1 ***", "You: stand on 18"}, h.tui.GetCapturedLog())
	})

	t.Run("production mode does not capture logs", func(t *testing.T) {
		logger := log.New(io.Discard)
		engine := game.NewEngine(game.Options{Clock: quartz.NewMock(t), Logger: logger})
		tui := NewTUIModel(engine, nil, logger)

		assert.False(t, tui.IsTestMode())
		tui.AddLogEntry("Some log entry")
		assert.Nil(t, tui.GetCapturedLog())
	})
}

func TestTUIInvalidBetReprompts(t *testing.T) {
	h := newHarness(t, "")

	assert.Equal(t, game.PhaseBetting, h.tui.Snapshot().Phase)
	assert.True(t, h.tui.betInput.Focused())

	h.typeText("abc")
	h.press("enter")

	snap := h.tui.Snapshot()
	assert.Equal(t, game.PhaseBetting, snap.Phase)
	assert.Equal(t, game.PromptInvalidBet, snap.Message)
	assert.Empty(t, h.tui.betInput.Value(), "field is cleared after a rejected bet")
	assert.True(t, logContains(h.tui.GetCapturedLog(), game.PromptInvalidBet))
}

func TestTUIPlaysARound(t *testing.T) {
	h := newHarness(t, "10h 8c  Ks 7h  Qd 7c  Jh 7s")

	h.typeText("100")
	h.press("enter")

	snap := h.tui.Snapshot()
	require.Equal(t, game.PhasePlayerTurn, snap.Phase)
	assert.False(t, h.tui.betInput.Focused())
	assert.True(t, h.tui.keys.Hit.Enabled())
	assert.True(t, h.tui.keys.Double.Enabled())
	assert.False(t, h.tui.keys.AceOne.Enabled())
	assert.True(t, logContains(h.tui.GetCapturedLog(), "*** ROUND 1 *** Bet: $100"))
	assert.True(t, logContains(h.tui.GetCapturedLog(), "Dealer: dealt a face-down card"))

	h.press("s")
	assert.True(t, h.tui.Snapshot().IsBotActive)
	assert.False(t, h.tui.keys.Hit.Enabled())

	h.finishAutoPlay(t)

	snap = h.tui.Snapshot()
	assert.Equal(t, game.PhaseSettled, snap.Phase)
	assert.Equal(t, game.MessagePerfect, snap.Message)
	assert.Equal(t, 200, snap.Wager)
	assert.True(t, h.tui.keys.Submit.Enabled())

	lines := h.tui.GetCapturedLog()
	assert.True(t, logContains(lines, "Dealer: reveals J♥ (total 17)"))
	assert.True(t, logContains(lines, "*** RESULT *** "+game.MessagePerfect+" | Bet: $200"))
	assert.Equal(t, 1, h.stats.Rounds())

	// Enter deals the next round with the carried wager.
	h.press("enter")
	snap = h.tui.Snapshot()
	assert.Equal(t, 2, snap.Round)
	assert.Equal(t, 200, snap.Wager)
}

func TestTUIAceChoiceKeys(t *testing.T) {
	h := newHarness(t, "As 5h  Ks 8h  Qd 9c  Jh 7s")

	h.typeText("10")
	h.press("enter")
	require.Equal(t, game.PhaseAceChoice, h.tui.Snapshot().Phase)
	assert.True(t, h.tui.keys.AceEleven.Enabled())
	assert.False(t, h.tui.keys.Hit.Enabled())

	h.press("h")
	assert.Equal(t, game.PhaseAceChoice, h.tui.Snapshot().Phase, "hit is refused until the ace is chosen")

	h.press("e")
	snap := h.tui.Snapshot()
	assert.Equal(t, game.PhasePlayerTurn, snap.Phase)
	assert.Equal(t, 16, snap.Hand(game.Player).Total)
	assert.False(t, h.tui.keys.Double.Enabled())
	assert.True(t, logContains(h.tui.GetCapturedLog(), "You: aces count as 11 (total 16)"))
}

func TestTUIResetReturnsToBetting(t *testing.T) {
	h := newHarness(t, "10h 8c  Ks 8h  Qd 9c  Jh 7s")

	h.typeText("50")
	h.press("enter", "r")

	snap := h.tui.Snapshot()
	assert.Equal(t, game.PhaseBetting, snap.Phase)
	assert.Zero(t, snap.Wager)
	assert.True(t, h.tui.betInput.Focused())
	assert.True(t, logContains(h.tui.GetCapturedLog(), "Table reset"))
}

func TestTUIView(t *testing.T) {
	h := newHarness(t, "10h 8c  Ks 8h  Qd 9c  Jh 7s")

	assert.Equal(t, "Loading...", h.tui.View())

	h.tui.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	view := h.tui.View()
	assert.Contains(t, view, "Enter your bet amount:")
	assert.Contains(t, view, "Bet: $0")

	h.typeText("100")
	h.press("enter")
	view = h.tui.View()
	assert.Contains(t, view, "Dealer (?)")
	assert.Contains(t, view, "You (18)")
	assert.Contains(t, view, "Round 1")
	assert.Contains(t, view, "Bet: $100")
	assert.NotContains(t, view, "J♥", "hole card stays hidden")
}

func TestTUIQuit(t *testing.T) {
	h := newHarness(t, "")

	_, cmd := h.tui.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)
	assert.True(t, h.tui.quitting)
	assert.Empty(t, h.tui.View())
}
