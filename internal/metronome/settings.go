package metronome

import (
	"fmt"

	"github.com/woodshedhq/woodshed/internal/models"
	"github.com/woodshedhq/woodshed/internal/shared"
)

// Sound selects the click timbre.
type Sound string

const (
	SoundClick   Sound = "click"
	SoundBeep    Sound = "beep"
	SoundWood    Sound = "wood"
	SoundDigital Sound = "digital"
)

var Sounds = []Sound{SoundClick, SoundBeep, SoundWood, SoundDigital}

func ValidSound(s Sound) bool {
	for _, v := range Sounds {
		if s == v {
			return true
		}
	}
	return false
}

// Settings is the full metronome configuration. It is treated as a value:
// the engine copies it on every update, never shares a pointer.
type Settings struct {
	BPM           int
	Volume        float64
	Sound         Sound
	Accent        bool
	TimeSignature int
}

func DefaultSettings() Settings {
	return Settings{
		BPM:           100,
		Volume:        0.7,
		Sound:         SoundClick,
		Accent:        true,
		TimeSignature: 4,
	}
}

func (s Settings) Validate() error {
	if !models.ValidBPM(s.BPM) {
		return fmt.Errorf("%w: bpm %d out of range [%d, %d]", shared.ErrInvalidInput, s.BPM, models.MinBPM, models.MaxBPM)
	}
	if s.Volume < 0 || s.Volume > 1 {
		return fmt.Errorf("%w: volume %.2f out of range [0, 1]", shared.ErrInvalidInput, s.Volume)
	}
	if !ValidSound(s.Sound) {
		return fmt.Errorf("%w: unknown sound %q", shared.ErrInvalidInput, s.Sound)
	}
	if !models.ValidTimeSignature(s.TimeSignature) {
		return fmt.Errorf("%w: unsupported time signature %d", shared.ErrInvalidInput, s.TimeSignature)
	}
	return nil
}

// Partial carries the fields of an in-place settings update. Nil fields
// keep their current value.
type Partial struct {
	BPM           *int
	Volume        *float64
	Sound         *Sound
	Accent        *bool
	TimeSignature *int
}

// Apply merges p over s and returns the result.
func (p Partial) Apply(s Settings) Settings {
	if p.BPM != nil {
		s.BPM = *p.BPM
	}
	if p.Volume != nil {
		s.Volume = *p.Volume
	}
	if p.Sound != nil {
		s.Sound = *p.Sound
	}
	if p.Accent != nil {
		s.Accent = *p.Accent
	}
	if p.TimeSignature != nil {
		s.TimeSignature = *p.TimeSignature
	}
	return s
}
