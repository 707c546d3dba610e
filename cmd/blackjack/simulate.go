package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/simulator"
	"github.com/lox/blackjack/internal/statistics"
)

type SimulateCmd struct {
	Rounds   int           `default:"100000" help:"Number of rounds to simulate"`
	Workers  int           `help:"Parallel workers (0 for one per CPU)"`
	Strategy string        `default:"basic" enum:"basic,cautious,stand" help:"Player strategy: basic, cautious, stand"`
	Stake    int           `default:"10" help:"Bet placed at the start of every round"`
	StandOn  int           `name:"stand-on" help:"Total at which bots and the dealer stand (overrides table.stand_on)"`
	Timeout  time.Duration `default:"5s" help:"Timeout per round"`
	Report   string        `type:"path" help:"Write an HCL summary of the results to this file"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	level := "warn"
	if g.Debug {
		level = "debug"
	}
	logger, err := newLogger(os.Stderr, level, "simulate")
	if err != nil {
		return err
	}

	standOn := cfg.Table.StandOn
	if c.StandOn > 0 {
		standOn = c.StandOn
	}

	sim, err := simulator.New(simulator.Config{
		Rounds:   c.Rounds,
		Workers:  c.Workers,
		Stake:    c.Stake,
		StandOn:  standOn,
		Strategy: c.Strategy,
		Seed:     cfg.Table.Seed,
		Timeout:  c.Timeout,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting simulation: %d rounds with %s strategy (seed: %d)\n\n", c.Rounds, c.Strategy, sim.Seed())

	start := time.Now()
	stats, info, err := sim.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	elapsed := time.Since(start)

	printSimulationResults(stats, info, elapsed)

	if c.Report != "" {
		if err := statistics.WriteReport(c.Report, statistics.NewReport(stats, info)); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Printf("\nReport written to %s\n", c.Report)
	}
	return nil
}

func printSimulationResults(stats *statistics.Statistics, info string, elapsed time.Duration) {
	low, high := stats.ConfidenceInterval95()

	fmt.Println(titleStyle.Render(" Simulation results "))
	fmt.Println()
	fmt.Printf("Strategy: %s\n", info)
	fmt.Printf("Performance: %.0f rounds/sec over %v\n", float64(stats.Rounds)/elapsed.Seconds(), elapsed.Round(time.Millisecond))
	fmt.Printf("Results: %+.4f stakes/round ± %.4f SE\n", stats.Mean(), stats.StdError())
	fmt.Printf("95%% CI: [%+.4f, %+.4f] stakes/round\n", low, high)
	fmt.Printf("Median: %+.2f  StdDev: %.3f\n", stats.Median(), stats.StdDev())
	fmt.Println()

	fmt.Println(strings.Repeat("-", 44))
	fmt.Printf("%-10s %8s %8s %8s %7s\n", "Opponent", "Won", "Lost", "Pushed", "Win%")
	for _, role := range game.Opponents {
		o := stats.Opponent(role)
		fmt.Printf("%-10s %8d %8d %8d %6.1f%%\n", role, o.Wins, o.Losses, o.Pushes, o.WinRate()*100)
	}
	fmt.Println(strings.Repeat("-", 44))

	pct := func(n int) float64 { return float64(n) / float64(stats.Rounds) * 100 }
	fmt.Printf("Perfect rounds: %d (%.1f%%)\n", stats.Perfect, pct(stats.Perfect))
	fmt.Printf("Swept rounds:   %d (%.1f%%)\n", stats.Swept, pct(stats.Swept))
	fmt.Printf("Blackjacks:     %d (%.1f%%)\n", stats.Blackjacks, pct(stats.Blackjacks))
	fmt.Printf("Busts:          %d (%.1f%%)\n", stats.Busts, pct(stats.Busts))
	fmt.Printf("Doubles:        %d (%.1f%%, net %+.1f stakes)\n", stats.Doubles, pct(stats.Doubles), stats.DoubledNet)
}
