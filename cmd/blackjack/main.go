package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/blackjack/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Config  string           `short:"c" type:"path" default:"blackjack.hcl" help:"HCL configuration file"`
	Seed    int64            `help:"RNG seed (0 for random, overrides table.seed)"`
	Debug   bool             `help:"Log at debug level"`
	NoColor bool             `name:"no-color" help:"Disable colours"`
}

type CLI struct {
	Globals

	Play     PlayCmd     `cmd:"" default:"withargs" help:"Play at the table (default)"`
	Simulate SimulateCmd `cmd:"" help:"Simulate rounds with a fixed player strategy"`
}

// loadConfig reads the config file and applies the global flag overrides
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(g.Config)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", g.Config, err)
	}
	if g.Seed != 0 {
		cfg.Table.Seed = g.Seed
	}
	if g.Debug {
		cfg.UI.LogLevel = "debug"
	}
	if g.NoColor {
		color := false
		cfg.UI.Color = &color
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if !cfg.ColorEnabled() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	return cfg, nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Blackjack against a dealer and two bots"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
