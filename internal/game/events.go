package game

import (
	"reflect"
	"sync"
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeBetPlaced     EventType = "bet_placed"
	EventTypeBetRejected   EventType = "bet_rejected"
	EventTypeRoundStart    EventType = "round_start"
	EventTypeCardDealt     EventType = "card_dealt"
	EventTypeAcePrompt     EventType = "ace_prompt"
	EventTypeAceChosen     EventType = "ace_chosen"
	EventTypePlayerAction  EventType = "player_action"
	EventTypeAutoPlayStart EventType = "autoplay_start"
	EventTypeHoleCard      EventType = "hole_card"
	EventTypeOpponentStand EventType = "opponent_stand"
	EventTypeWagerChanged  EventType = "wager_changed"
	EventTypeRoundSettled  EventType = "round_settled"
	EventTypeReset         EventType = "reset"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a round
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// Action is a player decision during their turn
type Action int

const (
	Hit Action = iota
	Stand
	DoubleDown
)

// String returns the string representation of the action
func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case DoubleDown:
		return "double"
	default:
		return "unknown"
	}
}

// BetPlacedEvent is published when a bet is accepted
type BetPlacedEvent struct {
	Amount    int
	timestamp time.Time
}

func (e BetPlacedEvent) EventType() EventType { return EventTypeBetPlaced }
func (e BetPlacedEvent) Timestamp() time.Time { return e.timestamp }

// NewBetPlacedEvent creates a new bet placed event
func NewBetPlacedEvent(at time.Time, amount int) BetPlacedEvent {
	return BetPlacedEvent{Amount: amount, timestamp: at}
}

// BetRejectedEvent is published when bet input is invalid
type BetRejectedEvent struct {
	Input     string
	Reason    string
	timestamp time.Time
}

func (e BetRejectedEvent) EventType() EventType { return EventTypeBetRejected }
func (e BetRejectedEvent) Timestamp() time.Time { return e.timestamp }

// NewBetRejectedEvent creates a new bet rejected event
func NewBetRejectedEvent(at time.Time, input string, reason error) BetRejectedEvent {
	return BetRejectedEvent{Input: input, Reason: reason.Error(), timestamp: at}
}

// RoundStartEvent is published once the opening cards are dealt
type RoundStartEvent struct {
	RoundID   string
	Round     int
	Wager     int
	Bot1      Identity
	Bot2      Identity
	timestamp time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// NewRoundStartEvent creates a new round start event
func NewRoundStartEvent(at time.Time, roundID string, round, wager int, bot1, bot2 Identity) RoundStartEvent {
	return RoundStartEvent{
		RoundID:   roundID,
		Round:     round,
		Wager:     wager,
		Bot1:      bot1,
		Bot2:      bot2,
		timestamp: at,
	}
}

// CardDealtEvent is published for every card leaving the shoe. The card of
// a face-down deal is blanked. Total is zero while TotalHidden is set.
type CardDealtEvent struct {
	Role        Role
	Card        deck.Card
	FaceDown    bool
	TotalHidden bool
	Total       int
	timestamp   time.Time
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }
func (e CardDealtEvent) Timestamp() time.Time { return e.timestamp }

// NewCardDealtEvent creates a new card dealt event
func NewCardDealtEvent(at time.Time, role Role, card deck.Card, faceDown bool, total int) CardDealtEvent {
	if faceDown {
		card = deck.Card{}
		total = 0
	}
	return CardDealtEvent{Role: role, Card: card, FaceDown: faceDown, Total: total, timestamp: at}
}

// NewUpCardEvent creates a card dealt event for a face-up card in a hand
// whose total must stay hidden, such as the dealer's before the reveal
func NewUpCardEvent(at time.Time, role Role, card deck.Card) CardDealtEvent {
	return CardDealtEvent{Role: role, Card: card, TotalHidden: true, timestamp: at}
}

// AcePromptEvent is published when the player must value their aces
type AcePromptEvent struct {
	Total     int
	timestamp time.Time
}

func (e AcePromptEvent) EventType() EventType { return EventTypeAcePrompt }
func (e AcePromptEvent) Timestamp() time.Time { return e.timestamp }

// NewAcePromptEvent creates a new ace prompt event
func NewAcePromptEvent(at time.Time, total int) AcePromptEvent {
	return AcePromptEvent{Total: total, timestamp: at}
}

// AceChosenEvent is published when the player pins their aces
type AceChosenEvent struct {
	Value     int
	Pinned    int
	Total     int
	timestamp time.Time
}

func (e AceChosenEvent) EventType() EventType { return EventTypeAceChosen }
func (e AceChosenEvent) Timestamp() time.Time { return e.timestamp }

// NewAceChosenEvent creates a new ace chosen event
func NewAceChosenEvent(at time.Time, value, pinned, total int) AceChosenEvent {
	return AceChosenEvent{Value: value, Pinned: pinned, Total: total, timestamp: at}
}

// PlayerActionEvent is published when the player hits, stands or doubles
type PlayerActionEvent struct {
	Action    Action
	Card      *deck.Card
	Total     int
	Wager     int
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// NewPlayerActionEvent creates a new player action event
func NewPlayerActionEvent(at time.Time, action Action, card *deck.Card, total, wager int) PlayerActionEvent {
	return PlayerActionEvent{Action: action, Card: card, Total: total, Wager: wager, timestamp: at}
}

// AutoPlayStartEvent is published when the player's turn ends
type AutoPlayStartEvent struct {
	PlayerTotal int
	timestamp   time.Time
}

func (e AutoPlayStartEvent) EventType() EventType { return EventTypeAutoPlayStart }
func (e AutoPlayStartEvent) Timestamp() time.Time { return e.timestamp }

// NewAutoPlayStartEvent creates a new autoplay start event
func NewAutoPlayStartEvent(at time.Time, playerTotal int) AutoPlayStartEvent {
	return AutoPlayStartEvent{PlayerTotal: playerTotal, timestamp: at}
}

// HoleCardEvent is published when the dealer turns over the hole card
type HoleCardEvent struct {
	Card      deck.Card
	Total     int
	timestamp time.Time
}

func (e HoleCardEvent) EventType() EventType { return EventTypeHoleCard }
func (e HoleCardEvent) Timestamp() time.Time { return e.timestamp }

// NewHoleCardEvent creates a new hole card event
func NewHoleCardEvent(at time.Time, card deck.Card, total int) HoleCardEvent {
	return HoleCardEvent{Card: card, Total: total, timestamp: at}
}

// OpponentStandEvent is published when a bot or the dealer stops drawing
type OpponentStandEvent struct {
	Role      Role
	Identity  Identity
	Total     int
	timestamp time.Time
}

func (e OpponentStandEvent) EventType() EventType { return EventTypeOpponentStand }
func (e OpponentStandEvent) Timestamp() time.Time { return e.timestamp }

// NewOpponentStandEvent creates a new opponent stand event
func NewOpponentStandEvent(at time.Time, role Role, identity Identity, total int) OpponentStandEvent {
	return OpponentStandEvent{Role: role, Identity: identity, Total: total, timestamp: at}
}

// WagerChangedEvent carries the new wager line
type WagerChangedEvent struct {
	Wager     int
	Line      string
	timestamp time.Time
}

func (e WagerChangedEvent) EventType() EventType { return EventTypeWagerChanged }
func (e WagerChangedEvent) Timestamp() time.Time { return e.timestamp }

// NewWagerChangedEvent creates a new wager changed event
func NewWagerChangedEvent(at time.Time, wager int) WagerChangedEvent {
	return WagerChangedEvent{Wager: wager, Line: WagerLine(wager), timestamp: at}
}

// RoundSettledEvent is published once all opponents have played and the
// wager has been settled
type RoundSettledEvent struct {
	RoundID         string
	Round           int
	Results         Results
	PlayerTotal     int
	PlayerBlackjack bool
	PlayerBust      bool
	Doubled         bool
	Stake           int
	WagerBefore     int
	WagerAfter      int
	NeedsBet        bool
	Message         string
	timestamp       time.Time
}

func (e RoundSettledEvent) EventType() EventType { return EventTypeRoundSettled }
func (e RoundSettledEvent) Timestamp() time.Time { return e.timestamp }

// Net returns the wager change produced by settlement
func (e RoundSettledEvent) Net() int {
	return e.WagerAfter - e.WagerBefore
}

// Units returns the wager change measured in opening stakes. A doubled hand
// risks two stakes, so it wins +2 or loses -2.
func (e RoundSettledEvent) Units() float64 {
	if e.Stake == 0 {
		return 0
	}
	return float64(e.Net()) / float64(e.Stake)
}

// ResetEvent is published when the table is cleared
type ResetEvent struct {
	CancelledAutoPlay bool
	timestamp         time.Time
}

func (e ResetEvent) EventType() EventType { return EventTypeReset }
func (e ResetEvent) Timestamp() time.Time { return e.timestamp }

// NewResetEvent creates a new reset event
func NewResetEvent(at time.Time, cancelled bool) ResetEvent {
	return ResetEvent{CancelledAutoPlay: cancelled, timestamp: at}
}

// EventSubscriber can subscribe to game events. OnEvent runs while the
// engine holds its lock: it must not block and must not call back into the
// engine.
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber. Func values are
// not comparable, so a func subscriber cannot be unsubscribed; subscribe a
// pointer type when removal is needed.
type EventSubscriberFunc func(event GameEvent)

// OnEvent calls f(event)
func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events. Subscribers of a
// non-comparable type, such as EventSubscriberFunc, are left in place.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	if subscriber == nil || !reflect.TypeOf(subscriber).Comparable() {
		return
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers in subscription order
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subscribers := make([]EventSubscriber, len(bus.subscribers))
	copy(subscribers, bus.subscribers)
	bus.mu.RUnlock()

	for _, subscriber := range subscribers {
		subscriber.OnEvent(event)
	}
}
