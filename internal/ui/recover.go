package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// SafeModel wraps another model and catches panics from its Update and
// View. Instead of tearing the terminal down, a panic switches to a
// fallback screen where the user can retry with a fresh model or quit.
type SafeModel struct {
	inner  tea.Model
	reset  func() tea.Model
	logger *log.Logger
	panic  any
	help   string
	keys   keyMap
}

// NewSafe wraps inner. The reset function builds a replacement model
// when the user retries after a panic; a nil reset disables retry.
func NewSafe(inner tea.Model, reset func() tea.Model, logger *log.Logger) *SafeModel {
	return &SafeModel{
		inner:  inner,
		reset:  reset,
		logger: logger,
		keys:   newKeyMap(),
	}
}

func (s *SafeModel) Init() tea.Cmd {
	return s.guardCmd(s.inner.Init())
}

func (s *SafeModel) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	if s.panic != nil {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(keyMsg, s.keys.retry) && s.reset != nil:
				s.panic = nil
				s.inner = s.reset()
				return s, s.guardCmd(s.inner.Init())
			case key.Matches(keyMsg, s.keys.quit):
				return s, tea.Quit
			}
		}
		return s, nil
	}

	if p, ok := msg.(panicMsg); ok {
		s.recordPanic(p.value)
		return s, nil
	}

	defer func() {
		if r := recover(); r != nil {
			s.recordPanic(r)
			model, cmd = s, nil
		}
	}()

	inner, cmd := s.inner.Update(msg)
	s.inner = inner
	return s, s.guardCmd(cmd)
}

func (s *SafeModel) View() (view string) {
	if s.panic != nil {
		return s.renderFallback()
	}

	defer func() {
		if r := recover(); r != nil {
			s.recordPanic(r)
			view = s.renderFallback()
		}
	}()

	return s.inner.View()
}

// guardCmd wraps a command so a panic inside it surfaces as the
// fallback screen instead of crashing the program goroutine.
func (s *SafeModel) guardCmd(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = panicMsg{value: r}
			}
		}()
		return cmd()
	}
}

type panicMsg struct {
	value any
}

func (s *SafeModel) recordPanic(r any) {
	s.panic = r
	if s.logger != nil {
		s.logger.Error("screen crashed", "panic", r)
	}
}

func (s *SafeModel) renderFallback() string {
	msg := styles.err.Render(fmt.Sprintf("The screen crashed: %v", s.panic))
	hint := "Press q to quit"
	if s.reset != nil {
		hint = "Press r to retry, q to quit"
	}
	return fmt.Sprintf("%s\n\n%s\n", msg, styles.help.Render(hint))
}
