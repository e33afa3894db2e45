package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"github.com/woodshedhq/woodshed/internal/metronome"
	"github.com/woodshedhq/woodshed/internal/models"
	"github.com/woodshedhq/woodshed/internal/practice"
	"github.com/woodshedhq/woodshed/internal/shared"
	"github.com/woodshedhq/woodshed/internal/stats"
	"github.com/woodshedhq/woodshed/internal/ui"
	"github.com/woodshedhq/woodshed/internal/wakelock"
)

// noteSaver persists the session's draft notes onto the song record.
// Saves are silent on success; a failure is logged and the draft stays
// on screen for the next attempt. Without a song there is nowhere to
// save, so the timer keeps the notes for the session row only.
func (r *Runner) noteSaver(song *models.Song, logger *log.Logger) func(string) {
	if song == nil {
		return nil
	}
	return func(notes string) {
		if err := r.songs.SetNotes(song.ID(), notes); err != nil {
			logger.Error("failed to save notes", "song", song.ID(), "error", err)
		}
	}
}

// Practice runs the interactive practice screen.
func (r *Runner) Practice(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	var song *models.Song
	if title := cmd.StringArg("song"); title != "" {
		found, err := r.resolveSong(title)
		if err != nil {
			return err
		}
		song = found
	}

	settings := metronome.DefaultSettings()
	settings.BPM = r.config.Practice.DefaultBPM
	settings.TimeSignature = r.config.Practice.TimeSignature
	settings.Volume = r.config.Audio.Volume
	if song != nil {
		if song.MetronomeBPM() > 0 {
			settings.BPM = song.MetronomeBPM()
		}
		if song.TimeSignature() > 0 {
			settings.TimeSignature = song.TimeSignature()
		}
	}
	if bpm := int(cmd.Int("bpm")); bpm != 0 {
		settings.BPM = bpm
	}

	// The TUI owns the terminal, so logs go to a file for the duration.
	logger, err := shared.NewFileLogger("woodshed.log")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	r.SetLogger(logger)

	songID := ""
	if song != nil {
		songID = song.ID()
	}

	newSession := func() (*practice.Timer, *metronome.Engine) {
		engine := metronome.NewEngine(metronome.NewPlayerSink(r.config.Audio.Player), settings, logger)
		timer := practice.NewTimer(practice.Config{
			UserID:     r.config.User.ID,
			SongID:     songID,
			Store:      r.sessions,
			Metronome:  engine,
			WakeLock:   wakelock.NewManager(logger, wakelock.NewHelperLocker(), wakelock.NewDBusLocker()),
			Bus:        r.bus,
			Notifier:   r.notifier,
			Logger:     logger,
			NotesDelay: time.Duration(r.config.Practice.NotesDebounceMS) * time.Millisecond,
			SaveNotes:  r.noteSaver(song, logger),
		})
		return timer, engine
	}

	saveDelay := time.Duration(r.config.Practice.SaveDebounceMS) * time.Millisecond
	newModel := func(t *practice.Timer, e *metronome.Engine) *ui.Model {
		model := ui.NewModel(ctx, t, e, r.notifier, song)
		if song != nil {
			model.PersistTempo(saveDelay, func(bpm int) error {
				return r.songs.SetTempo(song.ID(), bpm)
			}, logger)
		}
		return model
	}

	// Surface goal progress as a notification once the saved session
	// has been folded into the stats.
	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	watcher := stats.NewWatcher(r.stats, r.bus, r.config.User.ID, func(s *stats.Summary) {
		if g := s.Goal; g != nil && g.Percent >= 100 {
			r.notifier.Success(fmt.Sprintf("%s goal reached: %s practiced", g.Period, shared.FormatMinutes(g.PracticedMinutes)))
		}
	}, logger)
	go watcher.Run(watchCtx)

	timer, engine := newSession()
	defer engine.Close()

	model := ui.NewSafe(newModel(timer, engine), func() tea.Model {
		engine.Close()
		var fresh *practice.Timer
		fresh, engine = newSession()
		timer = fresh
		return newModel(fresh, engine)
	}, logger)

	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("practice screen failed: %w", err)
	}

	if session := timer.Session(); session != nil && song != nil {
		if err := r.songs.TouchLastPracticed(song.ID(), session.PracticedAt()); err != nil {
			logger.Error("failed to update last practiced time", "song", song.ID(), "error", err)
		}
	}
	return nil
}
