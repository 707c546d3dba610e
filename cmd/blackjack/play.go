package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/lox/blackjack/internal/tui"
)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

type PlayCmd struct {
	Delay   time.Duration `help:"Pause before each automatic draw (overrides table.autoplay_delay_ms)"`
	StandOn int           `name:"stand-on" help:"Total at which bots and the dealer stand (overrides table.stand_on)"`
	LogFile string        `name:"log-file" type:"path" help:"Debug log file (overrides ui.log_file)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.LogFile != "" {
		cfg.UI.LogFile = c.LogFile
	}

	logFile, err := openLogFile(cfg.UI.LogFile)
	if err != nil {
		return err
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("Failed to close debug file", "error", err)
		}
	}()

	logger, err := newLogger(logFile, cfg.UI.LogLevel, "blackjack")
	if err != nil {
		return err
	}

	opts := cfg.EngineOptions()
	if c.Delay > 0 {
		opts.Delay = c.Delay
	}
	if c.StandOn > 0 {
		opts.StandOn = c.StandOn
	}
	opts.Logger = logger
	opts.Rand = randutil.FromSeed(cfg.Table.Seed)

	logger.Info("Starting table",
		"seed", cfg.Table.Seed,
		"delay", opts.Delay,
		"standOn", opts.StandOn,
		"version", version)

	engine := game.NewEngine(opts)
	defer engine.Stop()
	engine.Subscribe(game.NewLoggingSubscriber(logger))

	stats := statistics.NewRecorder(cfg.Table.Seed)
	engine.Subscribe(stats)

	model := tui.NewTUIModel(engine, stats, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		model.SendQuitSignal()
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	printSessionSummary(stats.Snapshot(), engine.Wager())
	return nil
}

func printSessionSummary(stats statistics.Statistics, wager int) {
	if stats.Rounds == 0 {
		return
	}
	fmt.Println(titleStyle.Render(" ♠ ♥ Blackjack session ♦ ♣ "))
	fmt.Println()
	fmt.Printf("Rounds played: %d\n", stats.Rounds)
	for _, role := range game.Opponents {
		o := stats.Opponent(role)
		fmt.Printf("  vs %-6s %d won, %d lost, %d pushed\n", role, o.Wins, o.Losses, o.Pushes)
	}
	fmt.Printf("Blackjacks: %d  Busts: %d  Doubles: %d\n", stats.Blackjacks, stats.Busts, stats.Doubles)
	fmt.Printf("Average: %+.3f stakes/round\n", stats.Mean())
	fmt.Printf("Final %s\n", game.WagerLine(wager))
}
