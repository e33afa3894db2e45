package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the practice screen.
type keyMap struct {
	pause     key.Binding
	metronome key.Binding
	tempoUp   key.Binding
	tempoDown key.Binding
	notes     key.Binding
	stop      key.Binding
	back      key.Binding
	again     key.Binding
	retry     key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		pause:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		metronome: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "metronome")),
		tempoUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "tempo up")),
		tempoDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "tempo down")),
		notes:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notes")),
		stop:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop & save")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		again:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "new session")),
		retry:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.pause, k.metronome, k.stop, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.pause, k.metronome, k.notes},
		{k.tempoUp, k.tempoDown},
		{k.stop, k.quit},
	}
}
