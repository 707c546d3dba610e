package game

import (
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// ChannelSubscriber forwards events into a buffered channel without ever
// blocking the publisher. Events that do not fit are counted and dropped.
type ChannelSubscriber struct {
	ch      chan GameEvent
	dropped atomic.Int64
}

// NewChannelSubscriber creates a subscriber buffering up to size events
func NewChannelSubscriber(size int) *ChannelSubscriber {
	return &ChannelSubscriber{ch: make(chan GameEvent, size)}
}

// OnEvent implements EventSubscriber
func (c *ChannelSubscriber) OnEvent(event GameEvent) {
	select {
	case c.ch <- event:
	default:
		c.dropped.Add(1)
	}
}

// Events returns the receive side of the buffer
func (c *ChannelSubscriber) Events() <-chan GameEvent {
	return c.ch
}

// Dropped returns how many events did not fit in the buffer
func (c *ChannelSubscriber) Dropped() int64 {
	return c.dropped.Load()
}

// LoggingSubscriber writes every game event to a structured logger
type LoggingSubscriber struct {
	logger    *log.Logger
	formatter *EventFormatter
}

// NewLoggingSubscriber creates a subscriber logging through logger
func NewLoggingSubscriber(logger *log.Logger) *LoggingSubscriber {
	return &LoggingSubscriber{
		logger:    logger.WithPrefix("events"),
		formatter: NewEventFormatter(FormattingOptions{}),
	}
}

// OnEvent implements EventSubscriber
func (l *LoggingSubscriber) OnEvent(event GameEvent) {
	switch ev := event.(type) {
	case RoundSettledEvent:
		l.logger.Info(l.formatter.Format(event),
			"type", event.EventType(),
			"round", ev.Round,
			"results", ev.Results,
			"net", ev.Net())
	case RoundStartEvent, ResetEvent:
		l.logger.Info(l.formatter.Format(event), "type", event.EventType())
	default:
		l.logger.Debug(l.formatter.Format(event), "type", event.EventType())
	}
}
