package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/game"
)

// Config represents the complete table configuration
type Config struct {
	Table *TableSettings `hcl:"table,block"`
	Bots  *BotSettings   `hcl:"bots,block"`
	UI    *UISettings    `hcl:"ui,block"`
}

// TableSettings controls the pace and rules of the automatic opponents
type TableSettings struct {
	AutoPlayDelayMS int   `hcl:"autoplay_delay_ms,optional"`
	StandOn         int   `hcl:"stand_on,optional"`
	Seed            int64 `hcl:"seed,optional"`
}

// BotSettings overrides the identity pools the bots are drawn from
type BotSettings struct {
	Names  []string `hcl:"names,optional"`
	Emojis []string `hcl:"emojis,optional"`
}

// UISettings contains user interface settings
type UISettings struct {
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
	Color    *bool  `hcl:"color,optional"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	color := true
	return &Config{
		Table: &TableSettings{
			AutoPlayDelayMS: int(game.DefaultAutoPlayDelay / time.Millisecond),
			StandOn:         game.DefaultStandOn,
		},
		Bots: &BotSettings{
			Names:  game.DefaultBotNames,
			Emojis: game.DefaultBotEmojis,
		},
		UI: &UISettings{
			LogLevel: "warn",
			LogFile:  "blackjack.log",
			Color:    &color,
		},
	}
}

// LoadConfig loads configuration from an HCL file. A missing file yields the
// defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Table == nil {
		c.Table = defaults.Table
	}
	if c.Table.AutoPlayDelayMS == 0 {
		c.Table.AutoPlayDelayMS = defaults.Table.AutoPlayDelayMS
	}
	if c.Table.StandOn == 0 {
		c.Table.StandOn = defaults.Table.StandOn
	}

	if c.Bots == nil {
		c.Bots = defaults.Bots
	}
	if len(c.Bots.Names) == 0 {
		c.Bots.Names = defaults.Bots.Names
	}
	if len(c.Bots.Emojis) == 0 {
		c.Bots.Emojis = defaults.Bots.Emojis
	}

	if c.UI == nil {
		c.UI = defaults.UI
	}
	if c.UI.LogLevel == "" {
		c.UI.LogLevel = defaults.UI.LogLevel
	}
	if c.UI.LogFile == "" {
		c.UI.LogFile = defaults.UI.LogFile
	}
	if c.UI.Color == nil {
		c.UI.Color = defaults.UI.Color
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Table.AutoPlayDelayMS < 0 {
		return fmt.Errorf("autoplay delay cannot be negative")
	}

	if c.Table.StandOn < 2 || c.Table.StandOn > game.Blackjack {
		return fmt.Errorf("stand_on must be between 2 and %d, got %d", game.Blackjack, c.Table.StandOn)
	}

	for _, name := range c.Bots.Names {
		if name == "" {
			return fmt.Errorf("bot names cannot be empty")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.UI.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.UI.LogLevel)
	}

	return nil
}

// AutoPlayDelay returns the pause before each automatic draw
func (c *Config) AutoPlayDelay() time.Duration {
	return time.Duration(c.Table.AutoPlayDelayMS) * time.Millisecond
}

// ColorEnabled reports whether cards and panes should be coloured
func (c *Config) ColorEnabled() bool {
	return c.UI.Color == nil || *c.UI.Color
}

// EngineOptions returns engine options for this configuration. Clock,
// logger, shoe and random source are left for the caller.
func (c *Config) EngineOptions() game.Options {
	return game.Options{
		Delay:   c.AutoPlayDelay(),
		StandOn: c.Table.StandOn,
		Names:   c.Bots.Names,
		Emojis:  c.Bots.Emojis,
	}
}
