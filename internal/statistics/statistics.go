package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjack/internal/game"
)

// RoundResult represents the outcome of a single round for the player
type RoundResult struct {
	Net       float64 // Net result in opening stakes (+1 win, +0.5 blackjack, -1 loss, doubled hands twice that)
	Seed      int64   // RNG seed of the engine that played the round (for replay)
	Results   game.Results
	Blackjack bool // Player was dealt a natural
	Bust      bool // Player finished over 21
	Doubled   bool // Player doubled down
}

// ResultFromEvent converts a settlement event into a RoundResult
func ResultFromEvent(ev game.RoundSettledEvent) RoundResult {
	return RoundResult{
		Net:       ev.Units(),
		Results:   ev.Results,
		Blackjack: ev.PlayerBlackjack,
		Bust:      ev.PlayerBust,
		Doubled:   ev.Doubled,
	}
}

// OpponentStats tallies head-to-head outcomes against one opponent
type OpponentStats struct {
	Wins   int
	Losses int
	Pushes int
}

// Total returns the number of rounds resolved against this opponent
func (o OpponentStats) Total() int {
	return o.Wins + o.Losses + o.Pushes
}

// WinRate returns the fraction of rounds won against this opponent
func (o OpponentStats) WinRate() float64 {
	if o.Total() == 0 {
		return 0
	}
	return float64(o.Wins) / float64(o.Total())
}

// Statistics tracks session and simulation statistics
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Store all values for median/percentile calculation

	Blackjacks int
	Busts      int
	Doubles    int
	Perfect    int // Rounds won against every opponent
	Swept      int // Rounds lost to every opponent

	// Net split by whether the player doubled, for the ledger check
	DoubledNet   float64
	UndoubledNet float64
	AllNet       float64

	// Head-to-head results indexed by game.Role; the Player slot is unused
	Opponents [4]OpponentStats
}

// Mean returns the arithmetic mean result per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(math.Max(s.Variance(), 0))
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := result.Net
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)

	if result.Blackjack {
		s.Blackjacks++
	}
	if result.Bust {
		s.Busts++
	}

	if result.Doubled {
		s.Doubles++
		s.DoubledNet += net
	} else {
		s.UndoubledNet += net
	}
	s.AllNet += net

	wins, losses := 0, 0
	for _, role := range game.Opponents {
		switch result.Results.For(role) {
		case game.Win:
			s.Opponents[role].Wins++
			wins++
		case game.Lose:
			s.Opponents[role].Losses++
			losses++
		case game.Push:
			s.Opponents[role].Pushes++
		}
	}
	switch {
	case wins == len(game.Opponents):
		s.Perfect++
	case losses == len(game.Opponents):
		s.Swept++
	}
}

// Merge folds other into s. Used to combine per-worker statistics.
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	s.Blackjacks += other.Blackjacks
	s.Busts += other.Busts
	s.Doubles += other.Doubles
	s.Perfect += other.Perfect
	s.Swept += other.Swept
	s.DoubledNet += other.DoubledNet
	s.UndoubledNet += other.UndoubledNet
	s.AllNet += other.AllNet
	for i := range s.Opponents {
		s.Opponents[i].Wins += other.Opponents[i].Wins
		s.Opponents[i].Losses += other.Opponents[i].Losses
		s.Opponents[i].Pushes += other.Opponents[i].Pushes
	}
}

// Opponent returns the head-to-head tally against role
func (s *Statistics) Opponent(role game.Role) OpponentStats {
	if !role.IsOpponent() {
		return OpponentStats{}
	}
	return s.Opponents[role]
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IsLedgerBalanced checks if the accounting is consistent
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllNet-s.DoubledNet-s.UndoubledNet) <= 1e-6
}

// Validate performs consistency checks on the collected data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllNet=%.6f, DoubledNet=%.6f, UndoubledNet=%.6f",
			s.AllNet, s.DoubledNet, s.UndoubledNet)
	}

	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	if s.Perfect+s.Swept > s.Rounds {
		return fmt.Errorf("perfect (%d) and swept (%d) rounds exceed total rounds (%d)",
			s.Perfect, s.Swept, s.Rounds)
	}

	for _, role := range game.Opponents {
		if total := s.Opponents[role].Total(); total != s.Rounds {
			return fmt.Errorf("%s results total (%d) does not match rounds (%d)", role, total, s.Rounds)
		}
	}

	return nil
}
