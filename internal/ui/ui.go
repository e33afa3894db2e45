package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/woodshedhq/woodshed/internal/debounce"
	"github.com/woodshedhq/woodshed/internal/events"
	"github.com/woodshedhq/woodshed/internal/metronome"
	"github.com/woodshedhq/woodshed/internal/models"
	"github.com/woodshedhq/woodshed/internal/practice"
	"github.com/woodshedhq/woodshed/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PracticeView ViewState = iota
	DoneView
)

// tempoStep is how far one keypress moves the metronome.
const tempoStep = 5

type tickMsg time.Time

type beatMsg metronome.Beat

type noteMsg events.Notification

type stoppedMsg struct {
	err error
}

// Model represents the practice screen state.
type Model struct {
	ctx       context.Context
	view      ViewState
	timer     *practice.Timer
	engine    *metronome.Engine
	notifier  *events.Notifier
	noteSub   *events.NotificationSub
	song      *models.Song
	width     int
	height    int
	lastBeat  *metronome.Beat
	note      *events.Notification
	notesMode bool
	notesIn   textinput.Model
	stopErr   error
	help      help.Model
	keys      keyMap
	beats     chan metronome.Beat
	tempo     *debounce.Control[int]
}

// NewModel creates a new practice screen with the provided dependencies.
// The song is optional; a nil song starts a free practice session.
func NewModel(ctx context.Context, timer *practice.Timer, engine *metronome.Engine, notifier *events.Notifier, song *models.Song) *Model {
	notesIn := textinput.New()
	notesIn.Placeholder = "What did you work on?"
	notesIn.CharLimit = 500

	m := &Model{
		ctx:      ctx,
		view:     PracticeView,
		timer:    timer,
		engine:   engine,
		notifier: notifier,
		song:     song,
		notesIn:  notesIn,
		help:     help.New(),
		keys:     newKeyMap(),
		beats:    make(chan metronome.Beat, 8),
	}

	engine.SetOnBeat(func(b metronome.Beat) {
		select {
		case m.beats <- b:
		default:
		}
	})
	return m
}

// PersistTempo arranges for tempo nudges to be written back to storage once
// the keys settle, instead of on every keypress.
func (m *Model) PersistTempo(delay time.Duration, save debounce.SaveFunc[int], logger *log.Logger) {
	m.tempo = debounce.New(delay, save, logger)
}

// Init starts the session timer and the update streams.
func (m *Model) Init() tea.Cmd {
	if m.notifier != nil {
		m.noteSub = m.notifier.Subscribe()
	}
	if err := m.timer.Start(m.ctx); err != nil {
		m.stopErr = err
		m.view = DoneView
		return nil
	}
	return tea.Batch(m.tick(), m.waitForBeat(), m.waitForNote())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.view == DoneView {
			return m.handleDoneKeys(msg)
		}
		if m.notesMode {
			return m.handleNotesKeys(msg)
		}
		return m.handlePracticeKeys(msg)

	case tickMsg:
		if m.note != nil && m.note.Expired(time.Time(msg)) {
			m.note = nil
		}
		return m, m.tick()

	case beatMsg:
		beat := metronome.Beat(msg)
		m.lastBeat = &beat
		return m, m.waitForBeat()

	case noteMsg:
		note := events.Notification(msg)
		m.note = &note
		return m, m.waitForNote()

	case stoppedMsg:
		m.stopErr = msg.err
		m.view = DoneView
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case DoneView:
		return m.renderDone()
	default:
		return m.renderPractice()
	}
}

func (m *Model) handlePracticeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, m.stopAndQuit()

	case key.Matches(msg, m.keys.pause):
		if m.timer.State() == practice.StatePaused {
			m.timer.Resume(m.ctx)
		} else {
			m.timer.Pause()
			m.lastBeat = nil
		}
		return m, nil

	case key.Matches(msg, m.keys.metronome):
		if m.timer.State() != practice.StateRunning {
			return m, nil
		}
		if _, err := m.engine.Toggle(); err != nil && m.notifier != nil {
			m.notifier.Warn(fmt.Sprintf("Metronome unavailable: %v", err))
		}
		if !m.engine.Running() {
			m.lastBeat = nil
		}
		return m, nil

	case key.Matches(msg, m.keys.tempoUp):
		m.adjustTempo(tempoStep)
		return m, nil

	case key.Matches(msg, m.keys.tempoDown):
		m.adjustTempo(-tempoStep)
		return m, nil

	case key.Matches(msg, m.keys.notes):
		m.notesMode = true
		m.notesIn.SetValue(m.timer.Notes())
		return m, m.notesIn.Focus()

	case key.Matches(msg, m.keys.stop):
		return m, m.stopSession()
	}
	return m, nil
}

func (m *Model) handleNotesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.notesMode = false
		m.notesIn.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.notesIn, cmd = m.notesIn.Update(msg)
	m.timer.SetNotes(m.notesIn.Value())
	return m, cmd
}

func (m *Model) handleDoneKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.again):
		return m.startAgain()
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	}
	return m, nil
}

// startAgain rewinds the timer and opens a fresh session without leaving
// the screen. The saved session stays saved; only the in-memory state is
// cleared.
func (m *Model) startAgain() (tea.Model, tea.Cmd) {
	if m.timer.State() == practice.StateStopped {
		if err := m.timer.Reset(); err != nil {
			m.stopErr = err
			return m, nil
		}
	}
	if err := m.timer.Start(m.ctx); err != nil {
		m.stopErr = err
		return m, nil
	}
	m.view = PracticeView
	m.stopErr = nil
	m.lastBeat = nil
	m.notesMode = false
	m.notesIn.SetValue("")
	return m, tea.Batch(m.tick(), m.waitForBeat(), m.waitForNote())
}

// adjustTempo moves the metronome BPM by delta, clamped to the valid range.
func (m *Model) adjustTempo(delta int) {
	bpm := m.engine.Settings().BPM + delta
	if bpm < models.MinBPM {
		bpm = models.MinBPM
	}
	if bpm > models.MaxBPM {
		bpm = models.MaxBPM
	}
	m.engine.UpdateSettings(metronome.Partial{BPM: &bpm})
	if m.tempo != nil {
		m.tempo.Change(bpm)
	}
}

func (m *Model) stopSession() tea.Cmd {
	return func() tea.Msg {
		return stoppedMsg{err: m.timer.Stop(m.ctx)}
	}
}

func (m *Model) stopAndQuit() tea.Cmd {
	return func() tea.Msg {
		if s := m.timer.State(); s == practice.StateRunning || s == practice.StatePaused {
			m.timer.Stop(m.ctx)
		}
		if m.tempo != nil {
			m.tempo.Cancel()
		}
		m.engine.Close()
		return tea.Quit()
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) waitForBeat() tea.Cmd {
	return func() tea.Msg {
		return beatMsg(<-m.beats)
	}
}

func (m *Model) waitForNote() tea.Cmd {
	if m.noteSub == nil {
		return nil
	}
	return func() tea.Msg {
		note, ok := <-m.noteSub.C
		if !ok {
			return nil
		}
		return noteMsg(note)
	}
}

func (m *Model) renderPractice() string {
	title := "Free Practice"
	if m.song != nil {
		title = fmt.Sprintf("%s - %s", m.song.Artist(), m.song.Title())
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n\n")

	clock := shared.FormatClock(int(m.timer.Elapsed().Seconds()))
	if m.timer.State() == practice.StatePaused {
		b.WriteString(fmt.Sprintf("  %s  %s\n\n", clock, styles.warn.Render("PAUSED")))
	} else {
		b.WriteString(fmt.Sprintf("  %s\n\n", clock))
	}

	b.WriteString(m.renderMetronome())
	b.WriteString("\n")

	if m.notesMode {
		b.WriteString(fmt.Sprintf("\nNotes: %s\n%s\n", m.notesIn.View(), styles.help.Render("esc to close")))
	} else if notes := m.timer.Notes(); notes != "" {
		b.WriteString(fmt.Sprintf("\nNotes: %s\n", notes))
	}

	if m.note != nil {
		b.WriteString(fmt.Sprintf("\n%s\n", m.renderNotification(*m.note)))
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

// renderMetronome draws the tempo line and a beat indicator with the
// downbeat highlighted.
func (m *Model) renderMetronome() string {
	settings := m.engine.Settings()
	status := fmt.Sprintf("  ♩ %d bpm (%d/4)", settings.BPM, settings.TimeSignature)
	if !m.engine.Running() {
		return status + styles.help.Render("  off")
	}

	marks := make([]string, settings.TimeSignature)
	for i := range marks {
		marks[i] = "·"
		if m.lastBeat != nil && i == m.lastBeat.Index {
			if m.lastBeat.Accent {
				marks[i] = styles.ok.Render("●")
			} else {
				marks[i] = "●"
			}
		}
	}
	return fmt.Sprintf("%s  %s", status, strings.Join(marks, " "))
}

func (m *Model) renderNotification(note events.Notification) string {
	switch note.Level {
	case events.LevelError:
		return styles.err.Render(note.Message)
	case events.LevelWarn:
		return styles.warn.Render(note.Message)
	case events.LevelSuccess:
		return styles.ok.Render(note.Message)
	default:
		return note.Message
	}
}

func (m *Model) renderDone() string {
	if m.stopErr != nil {
		return styles.err.Render(fmt.Sprintf("Session ended with an error: %v", m.stopErr)) +
			"\n\n" + m.help.ShortHelpView([]key.Binding{m.keys.again, m.keys.quit})
	}

	session := m.timer.Session()
	if session == nil {
		return styles.warn.Render("Nothing to save, the session had no practice time.") +
			"\n\n" + m.help.ShortHelpView([]key.Binding{m.keys.again, m.keys.quit})
	}

	title := styles.ok.Render("✓ Session saved")
	info := fmt.Sprintf("\nPracticed: %s\n", shared.FormatMinutes(session.DurationMinutes()))
	if notes := session.Notes(); notes != "" {
		info += fmt.Sprintf("Notes: %s\n", notes)
	}
	return fmt.Sprintf("%s\n%s\n%s", title, info, m.help.ShortHelpView([]key.Binding{m.keys.again, m.keys.quit}))
}
