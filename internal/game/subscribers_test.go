package game

import (
	"bytes"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestLoggingSubscriber(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})
	sub := NewLoggingSubscriber(logger)

	now := time.Now()
	sub.OnEvent(NewRoundStartEvent(now, "01ABC", 1, 10, Identity{Name: "Ali"}, Identity{Name: "Brian"}))
	sub.OnEvent(NewCardDealtEvent(now, Player, card("9s"), false, 9))
	sub.OnEvent(RoundSettledEvent{Round: 1, Message: MessagePerfect, WagerBefore: 10, WagerAfter: 20})

	out := buf.String()
	assert.Contains(t, out, "events")
	assert.Contains(t, out, "*** ROUND 1 ***")
	assert.NotContains(t, out, "dealt 9♠", "card deals are debug level")
	assert.Contains(t, out, MessagePerfect)
}

func TestChannelSubscriberNeverBlocks(t *testing.T) {
	sub := NewChannelSubscriber(2)
	for i := 0; i < 5; i++ {
		sub.OnEvent(NewWagerChangedEvent(time.Now(), i))
	}

	assert.Len(t, sub.Events(), 2)
	assert.Equal(t, int64(3), sub.Dropped())
	first := (<-sub.Events()).(WagerChangedEvent)
	assert.Equal(t, 0, first.Wager)
}
