package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds   int
	Workers  int
	Stake    int
	StandOn  int
	Strategy string
	Seed     int64
	Timeout  time.Duration // per round
	Logger   *log.Logger
}

// Simulator plays rounds with a fixed strategy on zero-delay engines
type Simulator struct {
	config   Config
	strategy Strategy
}

// New creates a new simulator with the given configuration. A zero seed is
// replaced with a random one so the run can be replayed.
func New(config Config) (*Simulator, error) {
	if config.Rounds <= 0 {
		return nil, fmt.Errorf("rounds must be positive, got %d", config.Rounds)
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.Workers > config.Rounds {
		config.Workers = config.Rounds
	}
	if config.Stake <= 0 {
		config.Stake = 10
	}
	if config.Stake > game.MaxBet {
		return nil, fmt.Errorf("stake %d exceeds the table limit of %d", config.Stake, game.MaxBet)
	}
	if config.StandOn <= 0 {
		config.StandOn = game.DefaultStandOn
	}
	if config.Strategy == "" {
		config.Strategy = "basic"
	}
	if config.Seed == 0 {
		config.Seed = randutil.NewRandom().Int64()
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}

	strategy, err := NewStrategy(config.Strategy, config.StandOn)
	if err != nil {
		return nil, err
	}
	return &Simulator{config: config, strategy: strategy}, nil
}

// Seed returns the base seed of the run
func (s *Simulator) Seed() int64 {
	return s.config.Seed
}

// Run plays every round and returns the merged statistics and a description
// of the run
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, string, error) {
	workers := s.config.Workers
	perWorker := s.config.Rounds / workers
	remainder := s.config.Rounds % workers

	recorders := make([]*statistics.Recorder, workers)
	g, gctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		rounds := perWorker
		if w < remainder {
			rounds++
		}
		seed := s.config.Seed + int64(w)
		recorders[w] = statistics.NewRecorder(seed)
		recorder := recorders[w]
		logger := s.config.Logger.With("worker", w)

		g.Go(func() error {
			return s.runWorker(gctx, seed, rounds, recorder, logger)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	stats := &statistics.Statistics{}
	for _, r := range recorders {
		snap := r.Snapshot()
		stats.Merge(&snap)
	}

	if err := stats.Validate(); err != nil {
		return nil, "", fmt.Errorf("statistics validation failed: %w", err)
	}

	info := fmt.Sprintf("%s (stand on %d, %d workers, seed %d)",
		s.config.Strategy, s.config.StandOn, workers, s.config.Seed)
	return stats, info, nil
}

func (s *Simulator) runWorker(ctx context.Context, seed int64, rounds int, recorder *statistics.Recorder, logger *log.Logger) error {
	settled := make(chan game.RoundSettledEvent, 1)

	engine := game.NewEngine(game.Options{
		Clock:   quartz.NewReal(),
		Logger:  logger,
		Rand:    randutil.New(seed),
		StandOn: s.config.StandOn,
		NoDelay: true,
	})
	engine.Subscribe(recorder)
	engine.Subscribe(game.EventSubscriberFunc(func(event game.GameEvent) {
		if ev, ok := event.(game.RoundSettledEvent); ok {
			select {
			case settled <- ev:
			default:
			}
		}
	}))
	defer engine.Stop()

	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.playRound(ctx, engine, settled); err != nil {
			return fmt.Errorf("round %d (seed %d): %w", i+1, seed, err)
		}
	}

	logger.Debug("Worker finished", "rounds", rounds, "seed", seed)
	return nil
}

// playRound plays one round from a fresh bet to settlement
func (s *Simulator) playRound(ctx context.Context, engine *game.Engine, settled <-chan game.RoundSettledEvent) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	engine.Reset()
	if err := engine.PlaceBet(s.config.Stake); err != nil {
		return err
	}

	for {
		snap := engine.Snapshot()
		if snap.Phase == game.PhaseAceChoice {
			if !engine.ChooseAce(s.strategy.Ace(snap.Hand(game.Player))) {
				return fmt.Errorf("ace choice rejected")
			}
			continue
		}
		if !snap.IsPlaying {
			break
		}
		if !s.act(engine, s.strategy.Decide(snap)) {
			engine.Stand()
		}
	}

	select {
	case <-settled:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("round timed out after %v: %w", s.config.Timeout, ctx.Err())
	}
}

func (s *Simulator) act(engine *game.Engine, action game.Action) bool {
	switch action {
	case game.Hit:
		return engine.Hit()
	case game.DoubleDown:
		return engine.DoubleDown()
	default:
		return engine.Stand()
	}
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(ctx context.Context, rounds int, strategy string, seed int64, logger *log.Logger) (*statistics.Statistics, string, error) {
	sim, err := New(Config{
		Rounds:   rounds,
		Strategy: strategy,
		Seed:     seed,
		Logger:   logger,
	})
	if err != nil {
		return nil, "", err
	}
	return sim.Run(ctx)
}
