package metronome

import (
	"encoding/binary"
	"math"
	"time"
)

// PCM format written to sinks: signed 16-bit little-endian mono.
const (
	SampleRate    = 48000
	Channels      = 1
	BytesPerFrame = 2

	pulseDuration = 100 * time.Millisecond
	accentGain    = 1.2
	accentPitch   = 1.5
)

// baseFrequency is the unaccented pitch of each sound, in Hz.
func baseFrequency(sound Sound) float64 {
	switch sound {
	case SoundBeep:
		return 880
	case SoundWood:
		return 600
	case SoundDigital:
		return 1200
	default:
		return 1000
	}
}

// Synthesize renders one click pulse as raw PCM. An accented pulse plays
// at a higher pitch and with a louder attack than a regular one.
func Synthesize(sound Sound, accent bool, volume float64) []byte {
	freq := baseFrequency(sound)
	gain := volume
	if accent {
		freq *= accentPitch
		gain *= accentGain
	}

	frames := int(SampleRate * pulseDuration / time.Second)
	buf := make([]byte, frames*BytesPerFrame)
	for i := 0; i < frames; i++ {
		t := float64(i) / SampleRate
		sample := oscillate(sound, freq, t) * envelope(i, frames) * gain
		binary.LittleEndian.PutUint16(buf[i*BytesPerFrame:], uint16(clip(sample)))
	}
	return buf
}

func oscillate(sound Sound, freq, t float64) float64 {
	phase := 2 * math.Pi * freq * t
	switch sound {
	case SoundDigital:
		// square wave
		if math.Sin(phase) >= 0 {
			return 1
		}
		return -1
	case SoundWood:
		// fundamental plus a quick overtone, a rough knock
		return 0.7*math.Sin(phase) + 0.3*math.Sin(2.4*phase)
	case SoundBeep:
		// triangle wave, softer than the square but not a pure tone
		return 2 / math.Pi * math.Asin(math.Sin(phase))
	default:
		return math.Sin(phase)
	}
}

// envelope fades each pulse out exponentially so consecutive clicks
// never smear into each other.
func envelope(i, frames int) float64 {
	return math.Exp(-6 * float64(i) / float64(frames))
}

func clip(sample float64) int16 {
	scaled := sample * math.MaxInt16
	if scaled > math.MaxInt16 {
		return math.MaxInt16
	}
	if scaled < math.MinInt16 {
		return math.MinInt16
	}
	return int16(scaled)
}

// Interval converts a tempo to the wall-clock gap between pulses.
func Interval(bpm int) time.Duration {
	return time.Minute / time.Duration(bpm)
}
