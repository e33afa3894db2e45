package ui

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/woodshedhq/woodshed/internal/metronome"
	"github.com/woodshedhq/woodshed/internal/models"
	"github.com/woodshedhq/woodshed/internal/practice"
	wstesting "github.com/woodshedhq/woodshed/internal/testing"
)

type stubStore struct {
	sessions []*models.PracticeSession
}

func (s *stubStore) Create(session *models.PracticeSession) error {
	s.sessions = append(s.sessions, session)
	return nil
}

type silentSink struct{}

func (silentSink) Start() error           { return nil }
func (silentSink) Write(pcm []byte) error { return nil }
func (silentSink) Close() error           { return nil }

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testModel(t *testing.T) (*Model, *wstesting.ManualClock, *stubStore) {
	t.Helper()
	clock := wstesting.NewManualClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	store := &stubStore{}
	timer := practice.NewTimer(practice.Config{
		UserID: "local",
		Clock:  clock,
		Store:  store,
		Logger: log.New(io.Discard),
	})
	engine := metronome.NewEngine(silentSink{}, metronome.DefaultSettings(), log.New(io.Discard))
	song := models.NewSong(1, "Giant Steps", "John Coltrane")

	return NewModel(context.Background(), timer, engine, nil, song), clock, store
}

func TestModel(t *testing.T) {
	t.Run("init starts the timer", func(t *testing.T) {
		m, _, _ := testModel(t)
		m.Init()
		if m.timer.State() != practice.StateRunning {
			t.Errorf("state = %v, want running", m.timer.State())
		}
	})

	t.Run("space pauses and resumes", func(t *testing.T) {
		m, _, _ := testModel(t)
		m.Init()

		m.Update(tea.KeyMsg{Type: tea.KeySpace})
		if m.timer.State() != practice.StatePaused {
			t.Fatalf("state = %v, want paused", m.timer.State())
		}
		m.Update(tea.KeyMsg{Type: tea.KeySpace})
		if m.timer.State() != practice.StateRunning {
			t.Errorf("state = %v, want running", m.timer.State())
		}
	})

	t.Run("tempo keys clamp to the valid range", func(t *testing.T) {
		m, _, _ := testModel(t)
		m.Init()

		for i := 0; i < 100; i++ {
			m.Update(keyRunes("+"))
		}
		if got := m.engine.Settings().BPM; got != models.MaxBPM {
			t.Errorf("bpm = %d, want %d", got, models.MaxBPM)
		}

		for i := 0; i < 100; i++ {
			m.Update(keyRunes("-"))
		}
		if got := m.engine.Settings().BPM; got != models.MinBPM {
			t.Errorf("bpm = %d, want %d", got, models.MinBPM)
		}
	})

	t.Run("tempo nudges persist once after settling", func(t *testing.T) {
		m, _, _ := testModel(t)
		m.Init()

		var mu sync.Mutex
		var saved []int
		m.PersistTempo(20*time.Millisecond, func(bpm int) error {
			mu.Lock()
			defer mu.Unlock()
			saved = append(saved, bpm)
			return nil
		}, log.New(io.Discard))

		for i := 0; i < 4; i++ {
			m.Update(keyRunes("+"))
		}
		time.Sleep(100 * time.Millisecond)

		mu.Lock()
		defer mu.Unlock()
		if len(saved) != 1 {
			t.Fatalf("saves = %d, want 1", len(saved))
		}
		if want := metronome.DefaultSettings().BPM + 4*tempoStep; saved[0] != want {
			t.Errorf("saved bpm = %d, want %d", saved[0], want)
		}
	})

	t.Run("stop saves and lands on the done view", func(t *testing.T) {
		m, clock, store := testModel(t)
		m.Init()
		clock.Advance(5 * time.Minute)

		_, cmd := m.Update(keyRunes("s"))
		if cmd == nil {
			t.Fatal("expected a stop command")
		}
		m.Update(cmd())

		if m.view != DoneView {
			t.Errorf("view = %v, want done", m.view)
		}
		if len(store.sessions) != 1 {
			t.Fatalf("sessions = %d, want 1", len(store.sessions))
		}
		if !strings.Contains(m.View(), "Session saved") {
			t.Errorf("done view missing confirmation:\n%s", m.View())
		}
	})

	t.Run("new session key restarts from the done view", func(t *testing.T) {
		m, clock, store := testModel(t)
		m.Init()
		clock.Advance(5 * time.Minute)

		_, cmd := m.Update(keyRunes("s"))
		m.Update(cmd())
		if m.view != DoneView {
			t.Fatalf("view = %v, want done", m.view)
		}
		if !strings.Contains(m.View(), "new session") {
			t.Errorf("done view missing restart hint:\n%s", m.View())
		}

		m.Update(keyRunes("r"))
		if m.view != PracticeView {
			t.Errorf("view = %v, want practice", m.view)
		}
		if m.timer.State() != practice.StateRunning {
			t.Errorf("state = %v, want running", m.timer.State())
		}

		clock.Advance(2 * time.Minute)
		_, cmd = m.Update(keyRunes("s"))
		m.Update(cmd())
		if len(store.sessions) != 2 {
			t.Errorf("sessions = %d, want 2", len(store.sessions))
		}
	})

	t.Run("zero elapsed stop shows nothing to save", func(t *testing.T) {
		m, _, store := testModel(t)
		m.Init()

		_, cmd := m.Update(keyRunes("s"))
		m.Update(cmd())

		if len(store.sessions) != 0 {
			t.Errorf("sessions = %d, want 0", len(store.sessions))
		}
		if !strings.Contains(m.View(), "Nothing to save") {
			t.Errorf("done view should explain the empty session:\n%s", m.View())
		}
	})

	t.Run("practice view shows song and clock", func(t *testing.T) {
		m, clock, _ := testModel(t)
		m.Init()
		clock.Advance(90 * time.Second)

		out := m.View()
		if !strings.Contains(out, "Giant Steps") {
			t.Error("missing song title")
		}
		if !strings.Contains(out, "01:30") {
			t.Errorf("missing clock, output:\n%s", out)
		}
	})

	t.Run("notes mode feeds the timer", func(t *testing.T) {
		m, _, _ := testModel(t)
		m.Init()

		m.Update(keyRunes("n"))
		if !m.notesMode {
			t.Fatal("expected notes mode")
		}
		m.Update(keyRunes("abc"))
		if m.timer.Notes() != "abc" {
			t.Errorf("notes = %q, want abc", m.timer.Notes())
		}
		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if m.notesMode {
			t.Error("esc should leave notes mode")
		}
	})
}

// panicky blows up after its first View call.
type panicky struct {
	calls int
}

func (p *panicky) Init() tea.Cmd { return nil }

func (p *panicky) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		panic("boom")
	}
	return p, nil
}

func (p *panicky) View() string {
	p.calls++
	if p.calls > 1 {
		panic("view boom")
	}
	return "ok"
}

type plain struct{}

func (plain) Init() tea.Cmd                       { return nil }
func (plain) Update(tea.Msg) (tea.Model, tea.Cmd) { return plain{}, nil }
func (plain) View() string                        { return "recovered" }

func TestSafeModel(t *testing.T) {
	logger := log.New(io.Discard)

	t.Run("panic in update shows the fallback", func(t *testing.T) {
		s := NewSafe(&panicky{}, nil, logger)
		s.Update(keyRunes("x"))

		out := s.View()
		if !strings.Contains(out, "boom") {
			t.Errorf("fallback missing panic value:\n%s", out)
		}
		if !strings.Contains(out, "q to quit") {
			t.Error("fallback missing quit hint")
		}
	})

	t.Run("panic in view shows the fallback", func(t *testing.T) {
		s := NewSafe(&panicky{}, nil, logger)
		s.View()
		out := s.View()
		if !strings.Contains(out, "view boom") {
			t.Errorf("fallback missing panic value:\n%s", out)
		}
	})

	t.Run("retry resets the inner model", func(t *testing.T) {
		s := NewSafe(&panicky{}, func() tea.Model { return plain{} }, logger)
		s.Update(keyRunes("x"))
		s.Update(keyRunes("r"))

		if out := s.View(); out != "recovered" {
			t.Errorf("view = %q, want recovered", out)
		}
	})

	t.Run("quit works from the fallback", func(t *testing.T) {
		s := NewSafe(&panicky{}, nil, logger)
		s.Update(keyRunes("x"))
		_, cmd := s.Update(keyRunes("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected a quit message")
		}
	})

	t.Run("panic in a command surfaces", func(t *testing.T) {
		s := NewSafe(&panicky{}, nil, logger)
		cmd := s.guardCmd(func() tea.Msg { panic("cmd boom") })
		msg := cmd()
		s.Update(msg)

		if !strings.Contains(s.View(), "cmd boom") {
			t.Error("fallback missing command panic")
		}
	})
}
