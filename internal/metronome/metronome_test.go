package metronome

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// memorySink records pulses in memory.
type memorySink struct {
	mu       sync.Mutex
	startErr error
	starts   int
	pulses   [][]byte
}

func (s *memorySink) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.starts++
	return s.startErr
}

func (s *memorySink) Write(pcm []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pulses = append(s.pulses, pcm)
	return nil
}

func (s *memorySink) Close() error { return nil }

func (s *memorySink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pulses)
}

// slowSink simulates a sink whose warm-up takes a while.
type slowSink struct {
	*memorySink
	delay time.Duration
}

func (s *slowSink) Start() error {
	time.Sleep(s.delay)
	return s.memorySink.Start()
}

func testEngine(sink Sink, settings Settings) *Engine {
	return NewEngine(sink, settings, log.New(io.Discard))
}

func TestInterval(t *testing.T) {
	cases := []struct {
		bpm  int
		want time.Duration
	}{
		{60, time.Second},
		{120, 500 * time.Millisecond},
		{100, 600 * time.Millisecond},
	}
	for _, c := range cases {
		if got := Interval(c.bpm); got != c.want {
			t.Errorf("Interval(%d) = %v, want %v", c.bpm, got, c.want)
		}
	}
}

func TestSynthesize(t *testing.T) {
	t.Run("pulse length matches format", func(t *testing.T) {
		pcm := Synthesize(SoundClick, false, 0.7)
		if len(pcm)%BytesPerFrame != 0 {
			t.Errorf("pulse of %d bytes is not frame aligned", len(pcm))
		}
		// 100ms of mono s16le at 48kHz
		if want := SampleRate / 10 * BytesPerFrame; len(pcm) != want {
			t.Errorf("pulse is %d bytes, want %d", len(pcm), want)
		}
	})

	t.Run("each sound has its own waveform", func(t *testing.T) {
		sounds := []Sound{SoundClick, SoundBeep, SoundWood, SoundDigital}
		rendered := make(map[Sound][]byte, len(sounds))
		for _, s := range sounds {
			rendered[s] = Synthesize(s, false, 0.7)
		}
		for i, a := range sounds {
			for _, b := range sounds[i+1:] {
				if bytes.Equal(rendered[a], rendered[b]) {
					t.Errorf("%s and %s render identically", a, b)
				}
			}
		}
	})

	t.Run("accent is louder", func(t *testing.T) {
		plain := peakAmplitude(Synthesize(SoundBeep, false, 0.5))
		accented := peakAmplitude(Synthesize(SoundBeep, true, 0.5))
		if accented <= plain {
			t.Errorf("accent peak %d not louder than plain peak %d", accented, plain)
		}
	})

	t.Run("zero volume is silent", func(t *testing.T) {
		if peak := peakAmplitude(Synthesize(SoundClick, true, 0)); peak != 0 {
			t.Errorf("expected silence, peak %d", peak)
		}
	})

	t.Run("full volume does not wrap", func(t *testing.T) {
		pcm := Synthesize(SoundDigital, true, 1)
		if peak := peakAmplitude(pcm); peak <= 0 {
			t.Errorf("clipped pulse should still peak positive, got %d", peak)
		}
	})
}

func peakAmplitude(pcm []byte) int16 {
	var peak int16
	for i := 0; i+BytesPerFrame <= len(pcm); i += BytesPerFrame {
		s := int16(binary.LittleEndian.Uint16(pcm[i:]))
		if s > peak {
			peak = s
		}
	}
	return peak
}

func TestSettings(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		if err := DefaultSettings().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("rejects out of range", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*Settings)
		}{
			{"bpm too low", func(s *Settings) { s.BPM = 10 }},
			{"bpm too high", func(s *Settings) { s.BPM = 300 }},
			{"volume negative", func(s *Settings) { s.Volume = -0.1 }},
			{"volume above one", func(s *Settings) { s.Volume = 1.5 }},
			{"unknown sound", func(s *Settings) { s.Sound = "cowbell" }},
			{"bad time signature", func(s *Settings) { s.TimeSignature = 5 }},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				s := DefaultSettings()
				c.mutate(&s)
				if err := s.Validate(); err == nil {
					t.Error("expected validation error")
				}
			})
		}
	})

	t.Run("partial apply keeps unset fields", func(t *testing.T) {
		s := DefaultSettings()
		bpm := 140
		got := Partial{BPM: &bpm}.Apply(s)
		if got.BPM != 140 {
			t.Errorf("bpm = %d, want 140", got.BPM)
		}
		if got.Volume != s.Volume || got.Sound != s.Sound {
			t.Error("untouched fields changed")
		}
	})
}

func TestEngine(t *testing.T) {
	t.Run("start failure leaves engine stopped", func(t *testing.T) {
		sink := &memorySink{startErr: errors.New("no device")}
		e := testEngine(sink, DefaultSettings())

		if err := e.Start(); err == nil {
			t.Fatal("expected start error")
		}
		if e.Running() {
			t.Error("engine must stay stopped after a sink failure")
		}
	})

	t.Run("invalid settings refuse to start", func(t *testing.T) {
		s := DefaultSettings()
		s.BPM = 0
		e := testEngine(&memorySink{}, s)
		if err := e.Start(); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("first pulse is immediate", func(t *testing.T) {
		sink := &memorySink{}
		settings := DefaultSettings()
		settings.BPM = 40 // 1.5s between pulses
		e := testEngine(sink, settings)

		if err := e.Start(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer e.Stop()

		deadline := time.After(200 * time.Millisecond)
		for sink.count() == 0 {
			select {
			case <-deadline:
				t.Fatal("no pulse within 200ms of start")
			case <-time.After(5 * time.Millisecond):
			}
		}
	})

	t.Run("repeated start is a no-op", func(t *testing.T) {
		sink := &memorySink{}
		e := testEngine(sink, DefaultSettings())

		if err := e.Start(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer e.Stop()
		if err := e.Start(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sink.starts != 1 {
			t.Errorf("sink started %d times, want 1", sink.starts)
		}
	})

	t.Run("toggle flips state once per call", func(t *testing.T) {
		e := testEngine(&memorySink{}, DefaultSettings())

		running, err := e.Toggle()
		if err != nil || !running {
			t.Fatalf("first toggle: running=%v err=%v", running, err)
		}
		running, err = e.Toggle()
		if err != nil || running {
			t.Fatalf("second toggle: running=%v err=%v", running, err)
		}
	})

	t.Run("toggle during an in-flight start changes state once", func(t *testing.T) {
		sink := &slowSink{memorySink: &memorySink{}, delay: 100 * time.Millisecond}
		e := testEngine(sink, DefaultSettings())

		started := make(chan struct{})
		go func() {
			defer close(started)
			e.Toggle()
		}()

		// hits the engine while the first start is still warming the sink up
		time.Sleep(20 * time.Millisecond)
		e.Toggle()
		<-started
		defer e.Stop()

		if !e.Running() {
			t.Error("engine should be running after the first toggle resolves")
		}
		if sink.starts != 1 {
			t.Errorf("sink started %d times, want 1", sink.starts)
		}
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		e := testEngine(&memorySink{}, DefaultSettings())
		if err := e.Start(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		e.Stop()
		e.Stop()
		if e.Running() {
			t.Error("engine should be stopped")
		}
	})

	t.Run("accents land on the downbeat", func(t *testing.T) {
		settings := DefaultSettings()
		settings.BPM = 200
		settings.TimeSignature = 3

		beats := make(chan Beat, 16)
		e := testEngine(&memorySink{}, settings)
		e.SetOnBeat(func(b Beat) {
			select {
			case beats <- b:
			default:
			}
		})

		if err := e.Start(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer e.Stop()

		var got []Beat
		timeout := time.After(5 * time.Second)
		for len(got) < 7 {
			select {
			case b := <-beats:
				got = append(got, b)
			case <-timeout:
				t.Fatalf("only %d beats before timeout", len(got))
			}
		}

		for i, b := range got {
			wantIndex := i % 3
			if b.Index != wantIndex {
				t.Errorf("beat %d index = %d, want %d", i, b.Index, wantIndex)
			}
			if b.Accent != (wantIndex == 0) {
				t.Errorf("beat %d accent = %v at index %d", i, b.Accent, b.Index)
			}
		}
	})

	t.Run("accent flag off silences downbeat accent", func(t *testing.T) {
		settings := DefaultSettings()
		settings.BPM = 200
		settings.Accent = false

		beats := make(chan Beat, 4)
		e := testEngine(&memorySink{}, settings)
		e.SetOnBeat(func(b Beat) {
			select {
			case beats <- b:
			default:
			}
		})

		if err := e.Start(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer e.Stop()

		select {
		case b := <-beats:
			if b.Accent {
				t.Error("accent should be off")
			}
		case <-time.After(2 * time.Second):
			t.Fatal("no beat before timeout")
		}
	})

	t.Run("tempo change reschedules the pending pulse", func(t *testing.T) {
		settings := DefaultSettings()
		settings.BPM = 40 // 1.5s between pulses

		beats := make(chan Beat, 16)
		e := testEngine(&memorySink{}, settings)
		e.SetOnBeat(func(b Beat) {
			select {
			case beats <- b:
			default:
			}
		})

		if err := e.Start(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer e.Stop()

		select {
		case <-beats:
		case <-time.After(time.Second):
			t.Fatal("no first pulse")
		}

		// 300ms period should preempt the 1.5s one already pending
		fast := 200
		if err := e.UpdateSettings(Partial{BPM: &fast}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		select {
		case <-beats:
		case <-time.After(time.Second):
			t.Error("pulse did not arrive at the new tempo")
		}
	})

	t.Run("update settings validates the merge", func(t *testing.T) {
		e := testEngine(&memorySink{}, DefaultSettings())
		bad := 500
		if err := e.UpdateSettings(Partial{BPM: &bad}); err == nil {
			t.Error("expected validation error")
		}
		good := 132
		if err := e.UpdateSettings(Partial{BPM: &good}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if e.Settings().BPM != 132 {
			t.Errorf("bpm = %d, want 132", e.Settings().BPM)
		}
	})

	t.Run("test sound plays a single pulse", func(t *testing.T) {
		sink := &memorySink{}
		e := testEngine(sink, DefaultSettings())
		if err := e.TestSound(SoundWood); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sink.count() != 1 {
			t.Errorf("pulses = %d, want 1", sink.count())
		}
	})
}
