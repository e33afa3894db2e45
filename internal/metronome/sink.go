package metronome

import (
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"

	"github.com/woodshedhq/woodshed/internal/shared"
)

// Sink receives raw PCM pulses. Start warms the output up before the
// first pulse; implementations may do real work there (spawning a
// player, opening a device) and must be safe to Close more than once.
type Sink interface {
	Start() error
	Write(pcm []byte) error
	Close() error
}

// PlayerSink pipes PCM into an external player process (aplay, pacat,
// or any command that reads s16le from stdin).
type PlayerSink struct {
	mu      sync.Mutex
	player  string
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	started bool
}

func NewPlayerSink(player string) *PlayerSink {
	return &PlayerSink{player: player}
}

func (s *PlayerSink) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.player == "" {
		return fmt.Errorf("%w: no audio player configured", shared.ErrAudioUnavailable)
	}
	if _, err := exec.LookPath(s.player); err != nil {
		return fmt.Errorf("%w: %s not found", shared.ErrAudioUnavailable, s.player)
	}

	cmd := exec.Command(s.player, playerArgs(s.player)...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAudioUnavailable, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAudioUnavailable, err)
	}

	s.cmd = cmd
	s.stdin = stdin
	s.started = true
	return nil
}

func playerArgs(player string) []string {
	rate := strconv.Itoa(SampleRate)
	switch player {
	case "aplay":
		return []string{"-q", "-t", "raw", "-f", "S16_LE", "-r", rate, "-c", strconv.Itoa(Channels)}
	case "pacat":
		return []string{"--format=s16le", "--rate=" + rate, "--channels=" + strconv.Itoa(Channels)}
	default:
		return nil
	}
}

func (s *PlayerSink) Write(pcm []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return fmt.Errorf("%w: sink not started", shared.ErrAudioUnavailable)
	}
	_, err := s.stdin.Write(pcm)
	return err
}

func (s *PlayerSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.started = false
	s.stdin.Close()
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	return s.cmd.Wait()
}
