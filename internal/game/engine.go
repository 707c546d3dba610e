package game

import (
	"io"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/gameid"
	"github.com/lox/blackjack/internal/randutil"
)

const (
	// DefaultAutoPlayDelay is the pause before each automatic draw
	DefaultAutoPlayDelay = 50 * time.Millisecond
	// DefaultStandOn is the total at which bots and the dealer stop drawing
	DefaultStandOn = 17
)

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	Clock   quartz.Clock
	Logger  *log.Logger
	Bus     EventBus
	Rand    *rand.Rand
	Shoe    *deck.Shoe
	Delay   time.Duration
	StandOn int
	Names   []string
	Emojis  []string

	// NoDelay runs autoplay continuations with a zero delay even when Delay
	// is unset, for simulations.
	NoDelay bool
}

// Engine is the round-resolution engine. All methods are safe for
// concurrent use; state changes are serialized behind a single mutex.
type Engine struct {
	mu      sync.Mutex
	clock   quartz.Clock
	logger  *log.Logger
	bus     EventBus
	rng     *rand.Rand
	shoe    *deck.Shoe
	ledger  Ledger
	session *Session

	delay   time.Duration
	standOn int
	names   []string
	emojis  []string

	round      int
	generation uint64
	timers     []*quartz.Timer
}

// NewEngine creates an engine waiting for the first bet
func NewEngine(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Bus == nil {
		opts.Bus = NewEventBus()
	}
	if opts.Rand == nil {
		opts.Rand = randutil.NewRandom()
	}
	if opts.Shoe == nil {
		opts.Shoe = deck.NewShoe(opts.Rand)
	}
	if opts.Delay <= 0 && !opts.NoDelay {
		opts.Delay = DefaultAutoPlayDelay
	}
	if opts.StandOn <= 0 {
		opts.StandOn = DefaultStandOn
	}
	if len(opts.Names) == 0 {
		opts.Names = DefaultBotNames
	}
	if len(opts.Emojis) == 0 {
		opts.Emojis = DefaultBotEmojis
	}

	e := &Engine{
		clock:   opts.Clock,
		logger:  opts.Logger.WithPrefix("engine"),
		bus:     opts.Bus,
		rng:     opts.Rand,
		shoe:    opts.Shoe,
		delay:   opts.Delay,
		standOn: opts.StandOn,
		names:   opts.Names,
		emojis:  opts.Emojis,
	}
	e.session = e.bettingSession()
	return e
}

// Subscribe registers a subscriber on the engine's event bus
func (e *Engine) Subscribe(subscriber EventSubscriber) {
	e.bus.Subscribe(subscriber)
}

// Unsubscribe removes a subscriber from the engine's event bus
func (e *Engine) Unsubscribe(subscriber EventSubscriber) {
	e.bus.Unsubscribe(subscriber)
}

// Snapshot returns the current state for rendering
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.snapshot(e.ledger.Wager())
}

// Wager returns the current wager
func (e *Engine) Wager() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Wager()
}

// PlaceBetInput validates raw bet text and places it. Invalid input leaves
// the engine waiting for a bet with the re-entry prompt.
func (e *Engine) PlaceBetInput(input string) error {
	amount, err := ParseBet(input)
	if err != nil {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.session.Phase == PhaseBetting {
			e.session.Message = PromptInvalidBet
			e.bus.Publish(NewBetRejectedEvent(e.clock.Now(), input, err))
		}
		return err
	}
	return e.PlaceBet(amount)
}

// PlaceBet accepts a positive wager and deals a new round. Bets outside the
// betting phase are ignored.
func (e *Engine) PlaceBet(amount int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Phase != PhaseBetting {
		e.logger.Debug("Ignoring bet outside betting phase", "phase", e.session.Phase, "amount", amount)
		return nil
	}
	if err := e.ledger.Place(amount); err != nil {
		e.session.Message = PromptInvalidBet
		e.bus.Publish(NewBetRejectedEvent(e.clock.Now(), "", err))
		return err
	}

	e.logger.Info("Bet placed", "amount", amount)
	e.bus.Publish(NewBetPlacedEvent(e.clock.Now(), amount))
	e.bus.Publish(NewWagerChangedEvent(e.clock.Now(), amount))
	e.startRoundLocked()
	return nil
}

// ChooseAce pins every flexible ace in the player's hand to value (1 or 11)
func (e *Engine) ChooseAce(value int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	pin, ok := PinFor(value)
	if s.Phase != PhaseAceChoice || !ok {
		e.logger.Debug("Ignoring ace choice", "phase", s.Phase, "value", value)
		return false
	}

	player := s.Hand(Player)
	pinned := player.PinAces(pin)
	s.IsPlaying = true
	s.CanDouble = false
	s.Phase = PhasePlayerTurn
	s.Message = ""

	e.logger.Debug("Aces pinned", "value", value, "count", pinned, "total", player.Total())
	e.bus.Publish(NewAceChosenEvent(e.clock.Now(), value, pinned, player.Total()))

	if player.Total() >= Blackjack {
		e.concludeTurnLocked()
	}
	return true
}

// Hit draws one card into the player's hand
func (e *Engine) Hit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if !s.IsPlaying {
		e.logger.Debug("Ignoring hit", "phase", s.Phase)
		return false
	}

	player := s.Hand(Player)
	card := e.shoe.Draw()
	player.Add(card)
	s.CanDouble = false

	e.logger.Debug("Player hits", "card", card, "total", player.Total())
	e.bus.Publish(NewPlayerActionEvent(e.clock.Now(), Hit, &card, player.Total(), e.ledger.Wager()))

	switch {
	case player.Total() >= Blackjack:
		e.concludeTurnLocked()
	case card.IsAce():
		e.enterAceChoiceLocked()
	}
	return true
}

// Stand ends the player's turn
func (e *Engine) Stand() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if !s.IsPlaying {
		e.logger.Debug("Ignoring stand", "phase", s.Phase)
		return false
	}

	total := s.Hand(Player).Total()
	e.logger.Debug("Player stands", "total", total)
	e.bus.Publish(NewPlayerActionEvent(e.clock.Now(), Stand, nil, total, e.ledger.Wager()))
	e.concludeTurnLocked()
	return true
}

// DoubleDown doubles the wager, draws exactly one card and ends the turn
// whatever the resulting total
func (e *Engine) DoubleDown() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if !s.IsPlaying || !s.CanDouble {
		e.logger.Debug("Ignoring double down", "phase", s.Phase, "canDouble", s.CanDouble)
		return false
	}

	wager := e.ledger.Double()
	s.Doubled = true
	e.bus.Publish(NewWagerChangedEvent(e.clock.Now(), wager))

	player := s.Hand(Player)
	card := e.shoe.Draw()
	player.Add(card)

	e.logger.Debug("Player doubles", "card", card, "total", player.Total(), "wager", wager)
	e.bus.Publish(NewPlayerActionEvent(e.clock.Now(), DoubleDown, &card, player.Total(), wager))
	e.concludeTurnLocked()
	return true
}

// PlayAgain routes a settled round to the next one: straight into a new
// deal when a wager carries over, or back to the bet prompt when it is zero
func (e *Engine) PlayAgain() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Phase != PhaseSettled {
		e.logger.Debug("Ignoring play again", "phase", e.session.Phase)
		return false
	}

	if e.ledger.NeedsBet() {
		e.session = e.bettingSession()
		return true
	}
	e.startRoundLocked()
	return true
}

// Reset clears the wager and every hand and cancels any autoplay in flight
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	cancelled := e.cancelAutoPlayLocked()
	e.ledger.Reset()
	e.session = e.bettingSession()

	e.logger.Info("Table reset", "cancelledAutoPlay", cancelled)
	e.bus.Publish(NewResetEvent(e.clock.Now(), cancelled))
	e.bus.Publish(NewWagerChangedEvent(e.clock.Now(), 0))
}

// Stop cancels pending autoplay continuations without touching the table
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelAutoPlayLocked()
}

func (e *Engine) bettingSession() *Session {
	s := newSession("", e.round)
	s.Message = PromptBet
	return s
}

func (e *Engine) startRoundLocked() {
	e.cancelAutoPlayLocked()
	e.round++

	s := newSession(gameid.Generate(), e.round)
	s.SetIdentity(Bot1, RandomIdentity(e.rng, e.names, e.emojis))
	s.SetIdentity(Bot2, RandomIdentity(e.rng, e.names, e.emojis))
	s.Phase = PhaseDealt
	s.Stake = e.ledger.Wager()
	e.session = s

	now := e.clock.Now()
	e.bus.Publish(NewRoundStartEvent(now, s.RoundID, s.Round, e.ledger.Wager(), s.Identity(Bot1), s.Identity(Bot2)))

	for _, role := range DealOrder {
		h := s.Hand(role)
		for i := 0; i < 2; i++ {
			card := e.shoe.Draw()
			h.Add(card)
			switch {
			case role != Dealer:
				e.bus.Publish(NewCardDealtEvent(now, role, card, false, h.Total()))
			case i == 0:
				e.bus.Publish(NewCardDealtEvent(now, role, card, true, 0))
			default:
				// The hole card is down so the dealer total stays hidden.
				e.bus.Publish(NewUpCardEvent(now, role, card))
			}
		}
	}

	player := s.Hand(Player)
	e.logger.Info("Round dealt",
		"round", s.Round,
		"id", s.RoundID,
		"player", player,
		"bot1", s.Hand(Bot1),
		"bot2", s.Hand(Bot2),
		"wager", e.ledger.Wager())

	// A natural is already 21 so its ace needs no decision.
	if player.HasFlexibleAce() && !player.IsBlackjack() {
		e.enterAceChoiceLocked()
		return
	}

	s.Phase = PhasePlayerTurn
	s.IsPlaying = true
	s.CanDouble = !player.HasAce()
	s.Message = ""
}

func (e *Engine) enterAceChoiceLocked() {
	s := e.session
	s.Phase = PhaseAceChoice
	s.IsPlaying = false
	s.CanDouble = false
	s.Message = PromptAce
	e.bus.Publish(NewAcePromptEvent(e.clock.Now(), s.Hand(Player).Total()))
}
