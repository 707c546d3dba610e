package statistics

import (
	"sync"

	"github.com/lox/blackjack/internal/game"
)

// Recorder accumulates statistics from settlement events. It is safe to
// subscribe to an engine and read from another goroutine.
type Recorder struct {
	mu    sync.Mutex
	stats Statistics
	seed  int64
}

// NewRecorder creates a recorder tagging every result with seed
func NewRecorder(seed int64) *Recorder {
	return &Recorder{seed: seed}
}

// OnEvent implements game.EventSubscriber
func (r *Recorder) OnEvent(event game.GameEvent) {
	ev, ok := event.(game.RoundSettledEvent)
	if !ok {
		return
	}
	result := ResultFromEvent(ev)
	result.Seed = r.seed

	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.Add(result)
}

// Snapshot returns a copy of the statistics collected so far
func (r *Recorder) Snapshot() Statistics {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.stats
	out.Values = append([]float64(nil), r.stats.Values...)
	return out
}

// Rounds returns the number of settled rounds seen
func (r *Recorder) Rounds() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats.Rounds
}
