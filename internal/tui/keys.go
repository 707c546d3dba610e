package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Hit       key.Binding
	Stand     key.Binding
	Double    key.Binding
	AceOne    key.Binding
	AceEleven key.Binding
	Submit    key.Binding
	Reset     key.Binding
	Quit      key.Binding
	ScrollUp  key.Binding
	ScrollDn  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Hit:       key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hit")),
		Stand:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stand")),
		Double:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "double")),
		AceOne:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "ace = 1")),
		AceEleven: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "ace = 11")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "bet / play again")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		ScrollUp:  key.NewBinding(key.WithKeys("up", "pgup"), key.WithHelp("↑", "scroll log")),
		ScrollDn:  key.NewBinding(key.WithKeys("down", "pgdown"), key.WithHelp("↓", "scroll log")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Hit, k.Stand, k.Double, k.AceOne, k.AceEleven, k.Submit, k.Reset, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Hit, k.Stand, k.Double},
		{k.AceOne, k.AceEleven},
		{k.Submit, k.Reset, k.Quit},
		{k.ScrollUp, k.ScrollDn},
	}
}

// enable switches bindings on and off to match what the engine will accept
func (k *keyMap) enable(playing, canDouble, aceChoice, settled bool) {
	k.Hit.SetEnabled(playing)
	k.Stand.SetEnabled(playing)
	k.Double.SetEnabled(playing && canDouble)
	k.AceOne.SetEnabled(aceChoice)
	k.AceEleven.SetEnabled(aceChoice)
	k.Submit.SetEnabled(settled)
}
