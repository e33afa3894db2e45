package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/woodshedhq/woodshed/internal/metronome"
	"github.com/woodshedhq/woodshed/internal/shared"
)

// metronomeSettings builds engine settings from config defaults and flags.
func (r *Runner) metronomeSettings(cmd *cli.Command) metronome.Settings {
	settings := metronome.DefaultSettings()
	settings.BPM = r.config.Practice.DefaultBPM
	settings.TimeSignature = r.config.Practice.TimeSignature
	settings.Volume = r.config.Audio.Volume

	if bpm := int(cmd.Int("bpm")); bpm != 0 {
		settings.BPM = bpm
	}
	if sig := int(cmd.Int("time-signature")); sig != 0 {
		settings.TimeSignature = sig
	}
	if sound := cmd.String("sound"); sound != "" {
		settings.Sound = metronome.Sound(sound)
	}
	if cmd.Bool("no-accent") {
		settings.Accent = false
	}
	return settings
}

// MetronomeRun keeps the click going until interrupted.
func (r *Runner) MetronomeRun(ctx context.Context, cmd *cli.Command) error {
	settings := r.metronomeSettings(cmd)
	engine := metronome.NewEngine(metronome.NewPlayerSink(r.config.Audio.Player), settings, r.logger)
	defer engine.Close()

	if err := engine.Start(); err != nil {
		return fmt.Errorf("failed to start metronome: %w", err)
	}

	r.writePlain("♩ %d bpm (%d/4), ctrl+c to stop\n", settings.BPM, settings.TimeSignature)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	<-ctx.Done()

	engine.Stop()
	r.writePlain("\nstopped\n")
	return nil
}

// MetronomeSound previews a single click of the named timbre.
func (r *Runner) MetronomeSound(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: sound name required, one of click, beep, wood, digital", shared.ErrMissingArgument)
	}
	sound := metronome.Sound(name)
	if !metronome.ValidSound(sound) {
		return fmt.Errorf("%w: unknown sound %q", shared.ErrInvalidArgument, name)
	}

	engine := metronome.NewEngine(metronome.NewPlayerSink(r.config.Audio.Player), metronome.DefaultSettings(), r.logger)
	defer engine.Close()

	if err := engine.TestSound(sound); err != nil {
		return fmt.Errorf("failed to play sound: %w", err)
	}

	// give the player time to drain before the pipe closes
	time.Sleep(300 * time.Millisecond)
	return nil
}
