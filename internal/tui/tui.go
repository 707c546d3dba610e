package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/gameid"
	"github.com/lox/blackjack/internal/statistics"
)

// eventBuffer bounds how many engine events can queue between renders
const eventBuffer = 256

// TUIModel represents the Bubble Tea model for the blackjack table
type TUIModel struct {
	engine *game.Engine
	stats  *statistics.Recorder
	logger *log.Logger

	events    *game.ChannelSubscriber
	formatter *game.EventFormatter

	// UI components
	logViewport viewport.Model
	betInput    textinput.Model
	help        help.Model
	keys        keyMap

	// State
	snap       game.Snapshot
	gameLog    []string
	quitSignal chan bool
	quitting   bool

	// Dimensions
	width       int
	height      int
	initialized bool // Track if viewport has been properly sized

	// Test mode
	testMode    bool
	capturedLog []string // For test assertions
}

// eventMsg carries one engine event into the update loop
type eventMsg struct {
	event game.GameEvent
}

// QuitMsg is a custom message to signal quit
type QuitMsg struct{}

// NewTUIModel creates a TUI model driving engine
func NewTUIModel(engine *game.Engine, stats *statistics.Recorder, logger *log.Logger) *TUIModel {
	return NewTUIModelWithOptions(engine, stats, logger, false)
}

// NewTUIModelWithOptions creates a new TUI model with test mode option
func NewTUIModelWithOptions(engine *game.Engine, stats *statistics.Recorder, logger *log.Logger, testMode bool) *TUIModel {
	// Sized properly when WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "Bet amount, e.g. 25"
	ti.CharLimit = 12
	ti.Width = 20
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "$ "

	opts := game.FormattingOptions{ShowWagerChanges: true}
	if !testMode {
		opts.ColorCard = colorCard
	}

	events := game.NewChannelSubscriber(eventBuffer)
	engine.Subscribe(events)

	m := &TUIModel{
		engine:      engine,
		stats:       stats,
		logger:      logger.WithPrefix("tui"),
		events:      events,
		formatter:   game.NewEventFormatter(opts),
		logViewport: vp,
		betInput:    ti,
		help:        help.New(),
		keys:        defaultKeyMap(),
		gameLog:     []string{},
		quitSignal:  make(chan bool, 1),
		testMode:    testMode,
		capturedLog: []string{},
	}
	m.refresh()
	return m
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForEvent(), m.listenForQuit())
}

// waitForEvent returns a command that delivers the next engine event
func (m *TUIModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events.Events()
		if !ok {
			return nil
		}
		return eventMsg{event: ev}
	}
}

// listenForQuit returns a command that listens for quit signals
func (m *TUIModel) listenForQuit() tea.Cmd {
	return func() tea.Msg {
		<-m.quitSignal
		return QuitMsg{}
	}
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case QuitMsg:
		return m, m.quit()

	case eventMsg:
		m.handleEvent(msg.event)
		cmds = append(cmds, m.waitForEvent())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, m.quit()
		}
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *TUIModel) quit() tea.Cmd {
	m.quitting = true
	m.engine.Stop()
	m.engine.Unsubscribe(m.events)
	return tea.Sequence(tea.ClearScreen, tea.Quit)
}

// handleKey routes a key press to the bet field or to an engine command
func (m *TUIModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	defer m.refresh()

	if m.snap.Phase == game.PhaseBetting {
		switch {
		case msg.Type == tea.KeyEnter:
			m.submitBet()
		case key.Matches(msg, m.keys.Reset):
			m.engine.Reset()
		default:
			var cmd tea.Cmd
			m.betInput, cmd = m.betInput.Update(msg)
			return cmd
		}
		return nil
	}

	accepted := true
	switch {
	case key.Matches(msg, m.keys.Hit):
		accepted = m.engine.Hit()
	case key.Matches(msg, m.keys.Stand):
		accepted = m.engine.Stand()
	case key.Matches(msg, m.keys.Double):
		accepted = m.engine.DoubleDown()
	case key.Matches(msg, m.keys.AceOne):
		accepted = m.engine.ChooseAce(1)
	case key.Matches(msg, m.keys.AceEleven):
		accepted = m.engine.ChooseAce(11)
	case key.Matches(msg, m.keys.Submit):
		accepted = m.engine.PlayAgain()
	case key.Matches(msg, m.keys.Reset):
		m.engine.Reset()
	case key.Matches(msg, m.keys.ScrollUp):
		m.logViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.ScrollDn):
		m.logViewport.ScrollDown(1)
	}
	if !accepted {
		m.logger.Debug("Key ignored by engine", "key", msg.String(), "phase", m.snap.Phase)
	}
	return nil
}

func (m *TUIModel) submitBet() {
	input := m.betInput.Value()
	m.betInput.SetValue("")
	if err := m.engine.PlaceBetInput(input); err != nil {
		m.logger.Debug("Bet rejected", "input", input, "error", err)
	}
}

// handleEvent logs an engine event and re-reads the table state
func (m *TUIModel) handleEvent(ev game.GameEvent) {
	if line := m.formatter.Format(ev); line != "" {
		if _, ok := ev.(game.RoundStartEvent); ok {
			m.AddLogEntry("")
		}
		m.AddLogEntry(line)
	}
	if dropped := m.events.Dropped(); dropped > 0 {
		m.logger.Warn("Engine events dropped", "count", dropped)
	}
	m.refresh()
}

// refresh pulls a fresh snapshot and syncs key bindings and input focus
func (m *TUIModel) refresh() {
	m.snap = m.engine.Snapshot()
	m.keys.enable(
		m.snap.IsPlaying,
		m.snap.CanDouble,
		m.snap.Phase == game.PhaseAceChoice,
		m.snap.Phase == game.PhaseSettled,
	)
	if m.snap.Phase == game.PhaseBetting {
		m.betInput.Focus()
	} else {
		m.betInput.Blur()
	}
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Sidebar (right of the table and log)
	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(28, lipgloss.Width(sidebarContent))
	mainWidth := max(1, m.width-sidebarWidth-4)

	// Action pane (bottom, full width)
	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Width(max(1, m.width-2)).
		Height(max(1, actionHeight)).
		Render(actionContent)

	// Table pane (top left)
	tableContent := m.renderTablePane()
	tableHeight := lipgloss.Height(tableContent)
	tablePane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Width(mainWidth).
		Render(tableContent)

	// Log pane (below the table)
	logHeight := max(1, m.height-actionHeight-tableHeight-6)
	m.logViewport.Width = mainWidth
	m.logViewport.Height = logHeight
	m.logViewport.SetContent(m.renderLogPane())

	// On first proper sizing, jump to the newest entries
	if !m.initialized && logHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Width(mainWidth).
		Height(logHeight).
		Render(m.logViewport.View())

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Width(sidebarWidth).
		Height(max(1, tableHeight+logHeight+2)).
		Render(sidebarContent)

	left := lipgloss.JoinVertical(lipgloss.Left, tablePane, logPane)
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, left, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Left, topRow, actionPane)
}

// renderTablePane draws the dealer, both bots and the player
func (m *TUIModel) renderTablePane() string {
	s := m.snap
	settled := s.Phase == game.PhaseSettled

	hand := func(role game.Role) string {
		active := s.IsBotActive && s.Actor == role
		if role == game.Player {
			active = s.IsPlaying || s.Phase == game.PhaseAceChoice
		}
		outcome := game.OutcomeNone
		if settled {
			outcome = s.Results.For(role)
		}
		return renderHand(s.Hand(role), active, outcome)
	}

	bots := lipgloss.JoinHorizontal(lipgloss.Top,
		hand(game.Bot1),
		"    ",
		hand(game.Bot2),
	)

	header := HeaderStyle.Render("Blackjack")
	if s.Round > 0 {
		header = HeaderStyle.Render(fmt.Sprintf("Blackjack | Round %d", s.Round))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		hand(game.Dealer),
		"",
		bots,
		"",
		hand(game.Player),
	)
}

// renderLogPane renders the game log pane content
func (m *TUIModel) renderLogPane() string {
	return GameLogStyle.Render(strings.Join(m.gameLog, "\n"))
}

// renderSidebarPane shows the wager and session statistics
func (m *TUIModel) renderSidebarPane() string {
	var content strings.Builder

	content.WriteString(WarningStyle.Render(m.snap.WagerLine))
	content.WriteString("\n")
	if m.snap.RoundID != "" {
		content.WriteString(InfoStyle.Render("Round " + gameid.Short(m.snap.RoundID)))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	if m.stats == nil {
		return content.String()
	}
	stats := m.stats.Snapshot()
	if stats.Rounds == 0 {
		content.WriteString(InfoStyle.Render("No rounds played yet"))
		return content.String()
	}

	content.WriteString(InfoStyle.Render("Session:"))
	content.WriteString("\n")
	fmt.Fprintf(&content, "  Rounds: %d\n", stats.Rounds)
	for _, role := range game.Opponents {
		o := stats.Opponent(role)
		fmt.Fprintf(&content, "  vs %s: %d-%d-%d\n", role, o.Wins, o.Losses, o.Pushes)
	}
	fmt.Fprintf(&content, "  Blackjacks: %d\n", stats.Blackjacks)
	fmt.Fprintf(&content, "  Busts: %d\n", stats.Busts)
	fmt.Fprintf(&content, "  Doubles: %d\n", stats.Doubles)
	fmt.Fprintf(&content, "  Avg: %+.2f stakes/round", stats.Mean())

	return content.String()
}

// renderActionPane renders the prompt, the bet field and the key help
func (m *TUIModel) renderActionPane() string {
	var content strings.Builder

	message := m.snap.Message
	switch {
	case message == game.PromptInvalidBet:
		content.WriteString(ErrorStyle.Render(message))
	case message != "":
		content.WriteString(HandInfoStyle.Render(message))
	case m.snap.IsBotActive:
		content.WriteString(HandInfoStyle.Render("Opponents are playing..."))
	default:
		player := m.snap.Hand(game.Player)
		content.WriteString(HandInfoStyle.Render(
			fmt.Sprintf("Hand: %s  Total: %d", formatCards(player.Cards), player.Total)))
	}
	content.WriteString("\n")

	switch m.snap.Phase {
	case game.PhaseBetting:
		content.WriteString(m.betInput.View())
	case game.PhaseSettled:
		content.WriteString(ActionsStyle.Render("Press enter to play again"))
	default:
		content.WriteString(ActionsStyle.Render(m.snap.WagerLine))
	}
	content.WriteString("\n")

	content.WriteString(m.help.View(m.keys))
	return content.String()
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	// In test mode, also capture the log entry
	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return // Skip UI updates in test mode
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	// Only call GotoBottom if viewport has valid dimensions
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// ClearLog clears the game log
func (m *TUIModel) ClearLog() {
	m.gameLog = []string{}
	m.logViewport.SetContent("")
}

// Snapshot returns the table state last rendered
func (m *TUIModel) Snapshot() game.Snapshot {
	return m.snap
}

// SendQuitSignal signals the TUI to quit gracefully
func (m *TUIModel) SendQuitSignal() {
	select {
	case m.quitSignal <- true:
	default:
		// Channel is full, quit signal already sent
	}
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	// Return a copy to prevent modification
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}
