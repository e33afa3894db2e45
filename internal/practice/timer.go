package practice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/charmbracelet/log"
	"github.com/woodshedhq/woodshed/internal/events"
	"github.com/woodshedhq/woodshed/internal/models"
	"github.com/woodshedhq/woodshed/internal/shared"
)

// State is the timer's lifecycle position.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return "idle"
	}
}

// SessionStore persists finished sessions.
type SessionStore interface {
	Create(session *models.PracticeSession) error
}

// Metronome is the slice of the pulse engine the timer drives.
type Metronome interface {
	Stop()
}

// WakeLock is the slice of the idle-inhibitor manager the timer drives.
type WakeLock interface {
	Enable(ctx context.Context) bool
	Disable()
	Active() bool
	Reacquire(ctx context.Context) bool
}

const DefaultNotesDelay = 1500 * time.Millisecond

// Config wires a Timer's collaborators.
type Config struct {
	UserID     string
	SongID     string
	Clock      shared.Clock
	Store      SessionStore
	Metronome  Metronome
	WakeLock   WakeLock
	Bus        *events.Bus
	Notifier   *events.Notifier
	Logger     *log.Logger
	NotesDelay time.Duration
	// SaveNotes receives the draft notes after typing settles. Optional.
	SaveNotes func(notes string)
}

// Timer is the session state machine. It owns the pause bookkeeping
// and, on stop, turns the wall clock into a persisted session row.
type Timer struct {
	mu      sync.Mutex
	state   State
	record  *Record
	notes   string
	session *models.PracticeSession

	cfg           Config
	debounceNotes func(func())
}

func NewTimer(cfg Config) *Timer {
	if cfg.Clock == nil {
		cfg.Clock = shared.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = shared.NewLogger(nil)
	}
	if cfg.NotesDelay <= 0 {
		cfg.NotesDelay = DefaultNotesDelay
	}
	return &Timer{
		cfg:           cfg,
		debounceNotes: debounce.New(cfg.NotesDelay),
	}
}

func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Elapsed returns practiced time so far, zero before the first start.
func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.record == nil {
		return 0
	}
	return t.record.Elapsed(t.cfg.Clock.Now())
}

func (t *Timer) Notes() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.notes
}

// Session returns the persisted row after a successful stop, nil
// otherwise.
func (t *Timer) Session() *models.PracticeSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session
}

// Start begins the session and engages the idle inhibitor. A failed
// inhibitor never blocks practice; the timer runs regardless.
func (t *Timer) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.state != StateIdle {
		t.mu.Unlock()
		return fmt.Errorf("%w: cannot start from %s", shared.ErrInvalidInput, t.state)
	}
	t.record = NewRecord(t.cfg.Clock.Now())
	t.state = StateRunning
	t.mu.Unlock()

	if t.cfg.WakeLock != nil && !t.cfg.WakeLock.Enable(ctx) {
		t.cfg.Logger.Warn("idle inhibitor unavailable, screen may sleep")
	}
	return nil
}

// Pause opens a break. The metronome stops with the timer; the idle
// inhibitor stays held so the screen survives a short break.
func (t *Timer) Pause() error {
	t.mu.Lock()
	if t.state != StateRunning {
		t.mu.Unlock()
		return fmt.Errorf("%w: cannot pause from %s", shared.ErrInvalidInput, t.state)
	}
	if err := t.record.BeginPause(t.cfg.Clock.Now()); err != nil {
		t.mu.Unlock()
		return err
	}
	t.state = StatePaused
	t.mu.Unlock()

	if t.cfg.Metronome != nil {
		t.cfg.Metronome.Stop()
	}
	return nil
}

// Resume closes the open break and re-engages the inhibitor if the
// platform dropped it while paused.
func (t *Timer) Resume(ctx context.Context) error {
	t.mu.Lock()
	if t.state != StatePaused {
		t.mu.Unlock()
		return fmt.Errorf("%w: cannot resume from %s", shared.ErrInvalidInput, t.state)
	}
	if err := t.record.EndPause(t.cfg.Clock.Now()); err != nil {
		t.mu.Unlock()
		return err
	}
	t.state = StateRunning
	t.mu.Unlock()

	if t.cfg.WakeLock != nil && !t.cfg.WakeLock.Active() {
		t.cfg.WakeLock.Reacquire(ctx)
	}
	return nil
}

// Stop finishes the session: halts the metronome, releases the
// inhibitor, and persists the rounded minutes. A session with no
// elapsed time leaves no row and no events behind. A failed save is
// surfaced to the user but the timer stays stopped; the minutes from
// that session are lost.
func (t *Timer) Stop(ctx context.Context) error {
	t.mu.Lock()
	if t.state != StateRunning && t.state != StatePaused {
		t.mu.Unlock()
		return fmt.Errorf("%w: cannot stop from %s", shared.ErrInvalidInput, t.state)
	}
	now := t.cfg.Clock.Now()
	if t.record.Paused() {
		t.record.EndPause(now)
	}
	t.state = StateStopped
	record := t.record
	notes := t.notes
	t.mu.Unlock()

	if t.cfg.Metronome != nil {
		t.cfg.Metronome.Stop()
	}
	if t.cfg.WakeLock != nil {
		t.cfg.WakeLock.Disable()
	}

	minutes := record.DurationMinutes(now)
	if minutes == 0 {
		return nil
	}

	session := models.NewPracticeSession(0, t.cfg.UserID, t.cfg.SongID, minutes, record.StartedAt)
	if notes != "" {
		session.SetNotes(notes)
	}

	if err := t.cfg.Store.Create(session); err != nil {
		t.cfg.Logger.Error("failed to save session", "minutes", minutes, "error", err)
		if t.cfg.Notifier != nil {
			t.cfg.Notifier.Error("Could not save your session")
		}
		return fmt.Errorf("failed to save session: %w", err)
	}

	t.mu.Lock()
	t.session = session
	t.mu.Unlock()

	if t.cfg.Bus != nil {
		t.cfg.Bus.Publish(events.SessionCreated, session)
		t.cfg.Bus.Publish(events.AnalyticsChanged, nil)
		t.cfg.Bus.Publish(events.GoalsChanged, nil)
	}
	if t.cfg.Notifier != nil {
		t.cfg.Notifier.Success(fmt.Sprintf("Logged %s of practice", shared.FormatMinutes(minutes)))
	}
	return nil
}

// Reset discards the finished session's in-memory state and returns
// the timer to idle so the same Timer can run the next session. Only a
// stopped timer can be reset; the persisted row is unaffected.
func (t *Timer) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateStopped {
		return fmt.Errorf("%w: cannot reset from %s", shared.ErrInvalidInput, t.state)
	}
	t.state = StateIdle
	t.record = nil
	t.notes = ""
	t.session = nil
	return nil
}

// SetNotes updates the draft and schedules the debounced save. Rapid
// keystrokes collapse into one save after typing settles.
func (t *Timer) SetNotes(notes string) {
	t.mu.Lock()
	t.notes = notes
	save := t.cfg.SaveNotes
	t.mu.Unlock()

	if save == nil {
		return
	}
	t.debounceNotes(func() {
		save(t.Notes())
	})
}
