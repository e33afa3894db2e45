package metronome

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/woodshedhq/woodshed/internal/shared"
)

// Beat marks one pulse. Index counts from zero within the bar.
type Beat struct {
	Index  int
	Accent bool
}

// Engine drives the pulse loop. Start and Stop are safe to call from
// any goroutine; a toggle that arrives while another toggle is still
// switching the engine over is dropped, so mashing the key produces at
// most one state change.
type Engine struct {
	mu        sync.Mutex
	settings  Settings
	sink      Sink
	logger    *log.Logger
	running   bool
	switching bool
	onBeat    func(Beat)
	stop      chan struct{}
	done      chan struct{}
	bump      chan struct{}
}

func NewEngine(sink Sink, settings Settings, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Engine{
		sink:     sink,
		settings: settings,
		logger:   logger,
	}
}

// SetOnBeat registers a listener invoked on every pulse, from the
// engine's own goroutine. Set it before Start.
func (e *Engine) SetOnBeat(fn func(Beat)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onBeat = fn
}

func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

func (e *Engine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// Start warms the sink up and begins pulsing. The first pulse sounds
// immediately, not one interval in. A sink failure leaves the engine
// stopped.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.running || e.switching {
		e.mu.Unlock()
		return nil
	}
	e.switching = true
	if err := e.settings.Validate(); err != nil {
		e.switching = false
		e.mu.Unlock()
		return err
	}
	e.mu.Unlock()

	// Warming up may spawn a process; keep the lock released.
	if err := e.sink.Start(); err != nil {
		e.mu.Lock()
		e.switching = false
		e.mu.Unlock()
		return err
	}

	e.mu.Lock()
	e.running = true
	e.switching = false
	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	e.bump = make(chan struct{}, 1)
	go e.loop(e.stop, e.done, e.bump)
	e.mu.Unlock()
	return nil
}

// Stop halts the pulse loop and waits for it to drain. Idempotent.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running || e.switching {
		e.mu.Unlock()
		return
	}
	e.switching = true
	stop, done := e.stop, e.done
	e.mu.Unlock()

	close(stop)
	<-done

	e.mu.Lock()
	e.running = false
	e.switching = false
	e.mu.Unlock()
}

// Toggle flips the engine and reports whether it is running afterwards.
func (e *Engine) Toggle() (bool, error) {
	if e.Running() {
		e.Stop()
		return false, nil
	}
	err := e.Start()
	return e.Running(), err
}

// UpdateSettings merges a partial update into the live settings. A
// tempo change while running reschedules the pending pulse with the new
// period instead of letting the old interval run out.
func (e *Engine) UpdateSettings(p Partial) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := p.Apply(e.settings)
	if err := next.Validate(); err != nil {
		return err
	}
	rebump := e.running && next.BPM != e.settings.BPM
	e.settings = next

	if rebump {
		select {
		case e.bump <- struct{}{}:
		default:
		}
	}
	return nil
}

// TestSound plays a single unaccented pulse so the user can preview a
// timbre without starting the loop.
func (e *Engine) TestSound(sound Sound) error {
	e.mu.Lock()
	volume := e.settings.Volume
	e.mu.Unlock()

	if err := e.sink.Start(); err != nil {
		return err
	}
	return e.sink.Write(Synthesize(sound, false, volume))
}

// Close releases the sink. The engine cannot be restarted after Close.
func (e *Engine) Close() error {
	e.Stop()
	return e.sink.Close()
}

func (e *Engine) loop(stop, done, bump chan struct{}) {
	defer close(done)

	beat := 0
	timer := time.NewTimer(0) // first pulse fires immediately
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case <-bump:
			e.mu.Lock()
			bpm := e.settings.BPM
			e.mu.Unlock()
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(Interval(bpm))
		case <-timer.C:
			e.mu.Lock()
			s := e.settings
			fn := e.onBeat
			e.mu.Unlock()

			if beat >= s.TimeSignature {
				beat = 0
			}
			b := Beat{Index: beat, Accent: s.Accent && beat == 0}
			if err := e.sink.Write(Synthesize(s.Sound, b.Accent, s.Volume)); err != nil {
				e.logger.Error("pulse write failed", "error", err)
			}
			if fn != nil {
				fn(b)
			}
			beat++
			timer.Reset(Interval(s.BPM))
		}
	}
}
