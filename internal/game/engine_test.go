package game

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

// testEventSubscriber captures events for testing
type testEventSubscriber struct {
	mu     sync.Mutex
	events []GameEvent
}

func (t *testEventSubscriber) OnEvent(event GameEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
}

func (t *testEventSubscriber) all() []GameEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]GameEvent, len(t.events))
	copy(out, t.events)
	return out
}

func (t *testEventSubscriber) ofType(et EventType) []GameEvent {
	var out []GameEvent
	for _, ev := range t.all() {
		if ev.EventType() == et {
			out = append(out, ev)
		}
	}
	return out
}

// newTestEngine creates an engine whose shoe deals cards in order: two for
// the player, two each for bot 1, bot 2 and the dealer, then the rest.
func newTestEngine(t *testing.T, cards string) (*Engine, *quartz.Mock, *testEventSubscriber) {
	t.Helper()
	clock := quartz.NewMock(t)
	shoe := deck.NewStackedShoe(randutil.New(1), deck.MustParseCards(cards)...)
	events := &testEventSubscriber{}
	e := NewEngine(Options{
		Clock:  clock,
		Logger: log.New(io.Discard),
		Rand:   randutil.New(42),
		Shoe:   shoe,
	})
	e.Subscribe(events)
	return e, clock, events
}

// runAutoPlay steps the mock clock until the bots and dealer are done and
// returns the number of continuations that fired.
func runAutoPlay(t *testing.T, clock *quartz.Mock, e *Engine) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	steps := 0
	for e.Snapshot().IsBotActive {
		require.Less(t, steps, 64, "autoplay did not finish")
		d, w := clock.AdvanceNext()
		w.MustWait(ctx)
		assert.Equal(t, DefaultAutoPlayDelay, d)
		steps++
	}
	return steps
}

func TestEngineStartsWaitingForBet(t *testing.T) {
	e, _, _ := newTestEngine(t, "")

	snap := e.Snapshot()
	assert.Equal(t, PhaseBetting, snap.Phase)
	assert.Equal(t, PromptBet, snap.Message)
	assert.Zero(t, snap.Wager)
	assert.False(t, snap.IsPlaying)
	assert.False(t, e.Hit())
}

func TestPlaceBetInputRejectsInvalid(t *testing.T) {
	e, _, events := newTestEngine(t, "")

	for _, input := range []string{"abc", "0", "-3", "", "4.5"} {
		err := e.PlaceBetInput(input)
		assert.ErrorIs(t, err, ErrInvalidBet, input)
	}

	snap := e.Snapshot()
	assert.Equal(t, PhaseBetting, snap.Phase)
	assert.Equal(t, PromptInvalidBet, snap.Message)
	assert.Zero(t, snap.Wager)
	assert.Len(t, events.ofType(EventTypeBetRejected), 5)

	err := e.PlaceBetInput("9223372036854775807")
	require.ErrorIs(t, err, ErrInvalidBet)
	assert.Zero(t, e.Wager())
	assert.Equal(t, PhaseBetting, e.Snapshot().Phase)

	require.NoError(t, e.PlaceBetInput(" 40 "))
	assert.Equal(t, 40, e.Wager())
	assert.NotEqual(t, PhaseBetting, e.Snapshot().Phase)
}

func TestDealHidesDealerHoleCard(t *testing.T) {
	e, _, events := newTestEngine(t, "10h 8c  Ks 8h  Qd 9c  Jh 7s")
	require.NoError(t, e.PlaceBet(10))

	snap := e.Snapshot()
	assert.Equal(t, PhasePlayerTurn, snap.Phase)
	assert.True(t, snap.IsPlaying)
	assert.True(t, snap.CanDouble)
	assert.NotEmpty(t, snap.RoundID)
	assert.Equal(t, 1, snap.Round)

	dealer := snap.Hand(Dealer)
	assert.True(t, dealer.HoleCard)
	assert.False(t, dealer.ShowTotal)
	assert.Equal(t, deck.Card{}, dealer.Cards[0])
	assert.Equal(t, deck.MustParseCards("7s")[0], dealer.Cards[1])

	assert.Equal(t, 18, snap.Hand(Player).Total)
	assert.Equal(t, 18, snap.Hand(Bot1).Total)
	assert.Equal(t, 19, snap.Hand(Bot2).Total)
	assert.NotEmpty(t, snap.Hand(Bot1).Identity.Name)
	assert.NotEmpty(t, snap.Hand(Bot2).Identity.Emoji)

	dealt := events.ofType(EventTypeCardDealt)
	require.Len(t, dealt, 8)
	hole := dealt[6].(CardDealtEvent)
	assert.Equal(t, Dealer, hole.Role)
	assert.True(t, hole.FaceDown)
	assert.Equal(t, deck.Card{}, hole.Card)
}

func TestDealerUpCardKeepsTotalHidden(t *testing.T) {
	e, _, events := newTestEngine(t, "10h 8c  Ks 8h  Qd 9c  Jh 7s")
	require.NoError(t, e.PlaceBet(100))

	dealt := events.ofType(EventTypeCardDealt)
	require.Len(t, dealt, 8)
	up := dealt[7].(CardDealtEvent)
	assert.Equal(t, Dealer, up.Role)
	assert.False(t, up.FaceDown)
	assert.True(t, up.TotalHidden)
	assert.Equal(t, 0, up.Total)

	ef := NewEventFormatter(FormattingOptions{})
	line := ef.Format(up)
	assert.Equal(t, "Dealer: dealt 7♠", line)
	assert.NotContains(t, line, "17")
}

func TestBustAfterPinnedAce(t *testing.T) {
	// bet 100, dealt [A,5], ace=11, hit to 23
	e, clock, events := newTestEngine(t, "As 5h  Ks 8h  Qd 9c  Jh 7s  7d")
	require.NoError(t, e.PlaceBet(100))

	snap := e.Snapshot()
	require.Equal(t, PhaseAceChoice, snap.Phase)
	assert.False(t, snap.IsPlaying)
	assert.False(t, snap.CanDouble)
	assert.Equal(t, PromptAce, snap.Message)
	assert.Len(t, events.ofType(EventTypeAcePrompt), 1)

	// Nothing but an ace choice is accepted while it is pending.
	assert.False(t, e.Hit())
	assert.False(t, e.Stand())
	assert.False(t, e.DoubleDown())
	assert.False(t, e.ChooseAce(7))

	require.True(t, e.ChooseAce(11))
	snap = e.Snapshot()
	assert.Equal(t, PhasePlayerTurn, snap.Phase)
	assert.True(t, snap.IsPlaying)
	assert.False(t, snap.CanDouble)
	assert.Equal(t, 16, snap.Hand(Player).Total)

	require.True(t, e.Hit())
	snap = e.Snapshot()
	assert.Equal(t, 23, snap.Hand(Player).Total)
	assert.Equal(t, PhaseAutoPlay, snap.Phase)
	assert.False(t, snap.IsPlaying)
	assert.True(t, snap.IsBotActive)
	assert.False(t, e.Stand(), "turn already concluded")

	assert.Equal(t, 1, runAutoPlay(t, clock, e))

	snap = e.Snapshot()
	assert.Equal(t, PhaseSettled, snap.Phase)
	assert.Equal(t, Results{Dealer: Lose, Bot1: Lose, Bot2: Lose}, snap.Results)
	assert.Equal(t, MessageBusted, snap.Message)
	assert.Zero(t, snap.Wager)
	assert.True(t, snap.NeedsBet)

	settled := events.ofType(EventTypeRoundSettled)
	require.Len(t, settled, 1)
	ev := settled[0].(RoundSettledEvent)
	assert.True(t, ev.PlayerBust)
	assert.Equal(t, -100, ev.Net())

	require.True(t, e.PlayAgain())
	snap = e.Snapshot()
	assert.Equal(t, PhaseBetting, snap.Phase)
	assert.Equal(t, PromptBet, snap.Message)
	assert.Empty(t, snap.Hand(Player).Cards)
}

func TestNaturalBlackjackPaysThreeToTwo(t *testing.T) {
	e, clock, events := newTestEngine(t, "As Kh  Ac Kd  5c 5d  10s 9d  9h")
	require.NoError(t, e.PlaceBet(100))

	snap := e.Snapshot()
	require.Equal(t, PhasePlayerTurn, snap.Phase, "natural skips the ace choice")
	assert.True(t, snap.IsPlaying)
	assert.False(t, snap.CanDouble)
	assert.True(t, snap.Hand(Player).Blackjack)
	assert.Empty(t, events.ofType(EventTypeAcePrompt))

	require.True(t, e.Stand())
	// initial continuation plus bot 2 drawing the nine
	assert.Equal(t, 2, runAutoPlay(t, clock, e))

	snap = e.Snapshot()
	assert.Equal(t, Results{Dealer: Win, Bot1: Push, Bot2: Win}, snap.Results)
	assert.Equal(t, 150, snap.Wager)
	assert.False(t, snap.NeedsBet)
	assert.Equal(t, "Bet: $150", snap.WagerLine)

	// The wager carries into the next round without a new bet.
	require.True(t, e.PlayAgain())
	snap = e.Snapshot()
	assert.Equal(t, 2, snap.Round)
	assert.NotEqual(t, PhaseBetting, snap.Phase)
	assert.Equal(t, 150, snap.Wager)
}

func TestDoubleDownBustStillResolves(t *testing.T) {
	e, clock, events := newTestEngine(t, "10h 4c  Ks 8h  Qd 9c  Jh 7s  Kc")
	require.NoError(t, e.PlaceBet(50))
	require.True(t, e.Snapshot().CanDouble)

	require.True(t, e.DoubleDown())
	snap := e.Snapshot()
	assert.Equal(t, 100, snap.Wager)
	assert.Len(t, snap.Hand(Player).Cards, 3)
	assert.Equal(t, 24, snap.Hand(Player).Total)
	assert.Equal(t, PhaseAutoPlay, snap.Phase)
	assert.True(t, snap.Doubled)
	assert.False(t, e.Hit())
	assert.False(t, e.DoubleDown())

	runAutoPlay(t, clock, e)

	snap = e.Snapshot()
	assert.Equal(t, PhaseSettled, snap.Phase)
	assert.Equal(t, MessageBusted, snap.Message)
	assert.Zero(t, snap.Wager)
	assert.True(t, snap.NeedsBet)

	actions := events.ofType(EventTypePlayerAction)
	require.Len(t, actions, 1)
	assert.Equal(t, DoubleDown, actions[0].(PlayerActionEvent).Action)
}

func TestDoubleDownWinDoublesAgain(t *testing.T) {
	e, clock, _ := newTestEngine(t, "5h 6c  Ks 8h  Qd 9c  Jh 7s  10d")
	require.NoError(t, e.PlaceBet(50))
	require.True(t, e.DoubleDown())
	runAutoPlay(t, clock, e)

	snap := e.Snapshot()
	assert.Equal(t, 21, snap.Hand(Player).Total)
	assert.False(t, snap.Hand(Player).Blackjack, "three cards is not a natural")
	assert.Equal(t, MessagePerfect, snap.Message)
	assert.Equal(t, 200, snap.Wager)
}

func TestDoubleNotAllowedAfterHit(t *testing.T) {
	e, _, _ := newTestEngine(t, "2h 3c  Ks 8h  Qd 9c  Jh 7s  4d")
	require.NoError(t, e.PlaceBet(50))

	require.True(t, e.Hit())
	snap := e.Snapshot()
	assert.False(t, snap.CanDouble)
	assert.True(t, snap.IsPlaying)
	assert.False(t, e.DoubleDown())
	assert.Equal(t, 50, e.Wager())
}

func TestHitToTwentyOneConcludesTurn(t *testing.T) {
	e, clock, _ := newTestEngine(t, "10h 4c  Ks 8h  Qd 9c  Jh 7s  7d")
	require.NoError(t, e.PlaceBet(10))

	require.True(t, e.Hit())
	snap := e.Snapshot()
	assert.Equal(t, 21, snap.Hand(Player).Total)
	assert.Equal(t, PhaseAutoPlay, snap.Phase)

	runAutoPlay(t, clock, e)
	assert.Equal(t, 20, e.Wager())
}

func TestAceDrawnOnHitPromptsAgain(t *testing.T) {
	e, _, events := newTestEngine(t, "9h 2c  Ks 8h  Qd 9c  Jh 7s  Ad")
	require.NoError(t, e.PlaceBet(10))
	require.Equal(t, PhasePlayerTurn, e.Snapshot().Phase)

	require.True(t, e.Hit())
	snap := e.Snapshot()
	assert.Equal(t, PhaseAceChoice, snap.Phase)
	assert.Equal(t, 12, snap.Hand(Player).Total)
	assert.False(t, snap.IsPlaying)
	assert.Len(t, events.ofType(EventTypeAcePrompt), 1)

	require.True(t, e.ChooseAce(1))
	snap = e.Snapshot()
	assert.Equal(t, 12, snap.Hand(Player).Total)
	assert.True(t, snap.IsPlaying)
	assert.False(t, snap.CanDouble)
}

func TestAceChoiceThatReaches21EndsTurn(t *testing.T) {
	e, _, _ := newTestEngine(t, "As Ah  Ks 8h  Qd 9c  Jh 7s")
	require.NoError(t, e.PlaceBet(10))
	require.Equal(t, PhaseAceChoice, e.Snapshot().Phase)

	require.True(t, e.ChooseAce(11))
	snap := e.Snapshot()
	assert.Equal(t, 22, snap.Hand(Player).Total)
	assert.Equal(t, PhaseAutoPlay, snap.Phase)
	assert.True(t, snap.IsBotActive)
}

func TestAutoPlayOrder(t *testing.T) {
	e, clock, events := newTestEngine(t,
		"10h 8c  2s 3h  2d 3c  4s 5s  4d 5c 6s  Kd 2h  8d")
	require.NoError(t, e.PlaceBet(100))
	require.True(t, e.Stand())

	// initial continuation plus six draws
	assert.Equal(t, 7, runAutoPlay(t, clock, e))

	var sequence []string
	for _, ev := range events.all() {
		switch ev := ev.(type) {
		case CardDealtEvent:
			sequence = append(sequence, ev.Role.String()+":"+ev.Card.String())
		case HoleCardEvent:
			sequence = append(sequence, "reveal:"+ev.Card.String())
		case OpponentStandEvent:
			sequence = append(sequence, "stand:"+ev.Role.String())
		}
	}

	// Skip the eight opening cards.
	assert.Equal(t, []string{
		"Bot 1:4♦", "Bot 1:5♣", "Bot 1:6♠", "stand:Bot 1",
		"Bot 2:K♦", "Bot 2:2♥", "stand:Bot 2",
		"reveal:4♠",
		"Dealer:8♦", "stand:Dealer",
	}, sequence[8:])

	snap := e.Snapshot()
	assert.Equal(t, Results{Dealer: Win, Bot1: Lose, Bot2: Win}, snap.Results)
	assert.Zero(t, snap.Wager, "a loss to any opponent forfeits the wager")
	assert.True(t, snap.NeedsBet)
	assert.True(t, snap.Hand(Dealer).ShowTotal)
	assert.Equal(t, 17, snap.Hand(Dealer).Total)
	assert.Equal(t, deck.MustParseCards("4s")[0], snap.Hand(Dealer).Cards[0])
}

func TestDealerHoleCardHiddenWhileBotsPlay(t *testing.T) {
	e, clock, _ := newTestEngine(t, "10h 8c  2s 3h  Qd 9c  4s 5s  4d 5c 6s  8d")
	require.NoError(t, e.PlaceBet(100))
	require.True(t, e.Stand())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// initial continuation schedules bot 1's first draw
	_, w := clock.AdvanceNext()
	w.MustWait(ctx)
	_, w = clock.AdvanceNext()
	w.MustWait(ctx)

	snap := e.Snapshot()
	assert.Equal(t, Bot1, snap.Actor)
	assert.Len(t, snap.Hand(Bot1).Cards, 3)
	assert.True(t, snap.Hand(Dealer).HoleCard)

	runAutoPlay(t, clock, e)
	assert.False(t, e.Snapshot().Hand(Dealer).HoleCard)
}

func TestResetCancelsAutoPlay(t *testing.T) {
	e, clock, events := newTestEngine(t, "10h 8c  2s 3h  2d 3c  4s 5s  4d 5c 6s")
	require.NoError(t, e.PlaceBet(100))
	require.True(t, e.Stand())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, w := clock.AdvanceNext()
	w.MustWait(ctx)
	require.True(t, e.Snapshot().IsBotActive)

	e.Reset()

	snap := e.Snapshot()
	assert.Equal(t, PhaseBetting, snap.Phase)
	assert.False(t, snap.IsBotActive)
	assert.Zero(t, snap.Wager)
	assert.Empty(t, snap.Hand(Bot1).Cards)
	assert.Empty(t, events.ofType(EventTypeRoundSettled))

	resets := events.ofType(EventTypeReset)
	require.Len(t, resets, 1)
	assert.True(t, resets[0].(ResetEvent).CancelledAutoPlay)

	// Bets are accepted again straight away.
	require.NoError(t, e.PlaceBet(5))
	assert.Equal(t, 5, e.Wager())
}

func TestStaleContinuationIsDropped(t *testing.T) {
	e, clock, _ := newTestEngine(t, "")

	called := false
	e.mu.Lock()
	e.session.IsBotActive = true
	e.scheduleLocked(func() { called = true })
	// A newer round invalidates the continuation without stopping its timer.
	e.generation++
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, w := clock.AdvanceNext()
	w.MustWait(ctx)

	assert.False(t, called)
}

func TestIllegalActionsAreNoOps(t *testing.T) {
	e, clock, _ := newTestEngine(t, "10h 8c  Ks 8h  Qd 9c  Jh 7s")

	assert.False(t, e.Hit())
	assert.False(t, e.Stand())
	assert.False(t, e.DoubleDown())
	assert.False(t, e.ChooseAce(11))
	assert.False(t, e.PlayAgain())

	require.NoError(t, e.PlaceBet(10))
	assert.NoError(t, e.PlaceBet(20), "bets mid-round are ignored")
	assert.Equal(t, 10, e.Wager())
	assert.False(t, e.PlayAgain())

	require.True(t, e.Stand())
	assert.False(t, e.Stand())
	runAutoPlay(t, clock, e)

	assert.False(t, e.Hit())
	assert.False(t, e.ChooseAce(1))
}

func TestIdentitiesRedrawnEachRound(t *testing.T) {
	e, _, events := newTestEngine(t, "")

	for i := 0; i < 5; i++ {
		require.NoError(t, e.PlaceBet(10))
		e.Reset()
	}

	starts := events.ofType(EventTypeRoundStart)
	require.Len(t, starts, 5)
	ids := map[string]bool{}
	for i, ev := range starts {
		start := ev.(RoundStartEvent)
		assert.Equal(t, i+1, start.Round)
		assert.Contains(t, DefaultBotNames, start.Bot1.Name)
		assert.Contains(t, DefaultBotEmojis, start.Bot2.Emoji)
		ids[start.RoundID] = true
	}
	assert.Len(t, ids, 5, "round ids are unique")
}
