package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/woodshedhq/woodshed/internal/models"
	"github.com/woodshedhq/woodshed/internal/shared"
	"github.com/woodshedhq/woodshed/internal/tasks"
)

// SessionsList prints recent practice sessions, newest first.
func (r *Runner) SessionsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	criteria := map[string]any{"user_id": r.config.User.ID}
	if title := cmd.String("song"); title != "" {
		song, err := r.songs.GetByTitle(title)
		if err != nil {
			return fmt.Errorf("failed to find song %q: %w", title, err)
		}
		criteria["song_id"] = song.ID()
	}

	sessions, err := r.sessions.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if limit := int(cmd.Int("limit")); limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}

	if cmd.Bool("json") {
		return r.writeJSON(sessionsJSON(sessions, r.songTitles(sessions)), true)
	}

	if len(sessions) == 0 {
		r.writePlain("No sessions yet. Start one with 'woodshed practice'\n")
		return nil
	}

	titles := r.songTitles(sessions)
	r.writePlainHeader(fmt.Sprintf("Sessions (%d)", len(sessions)))
	for _, session := range sessions {
		title := titles[session.SongID()]
		if title == "" {
			title = "Free practice"
		}
		r.writePlain("%s  %s  %s\n",
			session.PracticedAt().Format("2006-01-02 15:04"),
			shared.FormatMinutes(session.DurationMinutes()),
			title)
		if notes := session.Notes(); notes != "" {
			r.writePlain("  %s\n", notes)
		}
	}
	return nil
}

// SessionsLog records a session practiced away from the computer.
func (r *Runner) SessionsLog(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	minutes := int(cmd.Int("minutes"))
	var songID string
	if title := cmd.String("song"); title != "" {
		song, err := r.songs.GetByTitle(title)
		if err != nil {
			return fmt.Errorf("failed to find song %q: %w", title, err)
		}
		songID = song.ID()
	}

	session := models.NewPracticeSession(0, r.config.User.ID, songID, minutes, time.Now())
	if notes := cmd.String("notes"); notes != "" {
		session.SetNotes(notes)
	}

	if err := r.sessions.Create(session); err != nil {
		return fmt.Errorf("failed to log session: %w", err)
	}
	if songID != "" {
		if err := r.songs.TouchLastPracticed(songID, session.PracticedAt()); err != nil {
			r.logger.Warn("failed to update last practiced", "error", err)
		}
	}

	r.writePlain("✓ Logged %s of practice\n", shared.FormatMinutes(minutes))
	return nil
}

// SessionsExport writes practice history to files, one per month, and
// prints progress as chunks complete.
func (r *Runner) SessionsExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	months := int(cmd.Int("months"))
	if months <= 0 {
		return fmt.Errorf("%w: months must be positive", shared.ErrInvalidFlag)
	}

	now := time.Now()
	opts := tasks.BulkExportOpts{
		UserID:     r.config.User.ID,
		From:       now.AddDate(0, -months, 0),
		To:         now,
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
	}

	prog := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := r.engine.BulkExport(ctx, prog, opts)
	close(prog)
	<-done
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlainln("✓ Exported %d sessions across %d months to %s",
		result.TotalSessions, result.SuccessfulChunks, result.OutputDirectory)
	if result.FailedChunks > 0 {
		r.writePlain("%d months failed, see %s\n", result.FailedChunks, result.ManifestPath)
	}
	return nil
}

// songTitles resolves the distinct song IDs in sessions to titles.
func (r *Runner) songTitles(sessions []*models.PracticeSession) map[string]string {
	titles := make(map[string]string)
	for _, session := range sessions {
		id := session.SongID()
		if id == "" {
			continue
		}
		if _, seen := titles[id]; seen {
			continue
		}
		if song, err := r.songs.Get(id); err == nil {
			titles[id] = song.Title()
		} else {
			titles[id] = ""
		}
	}
	return titles
}

type sessionOutJSON struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Song    string `json:"song,omitempty"`
	Minutes int    `json:"minutes"`
	Notes   string `json:"notes,omitempty"`
}

func sessionsJSON(sessions []*models.PracticeSession, titles map[string]string) []sessionOutJSON {
	out := make([]sessionOutJSON, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, sessionOutJSON{
			ID:      session.ID(),
			Date:    session.PracticedAt().Format(time.RFC3339),
			Song:    titles[session.SongID()],
			Minutes: session.DurationMinutes(),
			Notes:   session.Notes(),
		})
	}
	return out
}
