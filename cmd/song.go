package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/woodshedhq/woodshed/internal/models"
	"github.com/woodshedhq/woodshed/internal/shared"
)

// SongAdd adds a song to the library, filing it under a folder when one is named.
func (r *Runner) SongAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: song title required", shared.ErrMissingArgument)
	}

	song := models.NewSong(0, title, cmd.String("artist"))
	if bpm := cmd.Int("bpm"); bpm != 0 {
		song.SetMetronomeBPM(int(bpm))
	}
	if sig := cmd.Int("time-signature"); sig != 0 {
		song.SetTimeSignature(int(sig))
	}

	if folderName := cmd.String("folder"); folderName != "" {
		folder, err := r.folders.GetByName(folderName)
		if err != nil {
			return fmt.Errorf("failed to resolve folder %q: %w", folderName, err)
		}
		song.SetFolderID(folder.ID())
	}

	if err := r.songs.Create(song); err != nil {
		return fmt.Errorf("failed to add song: %w", err)
	}

	r.logger.Info("song added", "title", song.Title(), "id", song.ID())
	r.writePlain("✓ Added %q (%d bpm, %d/4)\n", song.Title(), song.MetronomeBPM(), song.TimeSignature())
	return nil
}

// SongList lists the library, optionally narrowed to one folder.
func (r *Runner) SongList(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	criteria := map[string]any{}
	if folderName := cmd.String("folder"); folderName != "" {
		folder, err := r.folders.GetByName(folderName)
		if err != nil {
			return fmt.Errorf("failed to resolve folder %q: %w", folderName, err)
		}
		criteria["folder_id"] = folder.ID()
	}

	songs, err := r.songs.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list songs: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(songsJSON(songs), true)
	}

	if len(songs) == 0 {
		r.writePlain("No songs yet. Add one with 'woodshed song add'\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Songs (%d)", len(songs)))
	for _, song := range songs {
		line := song.Title()
		if song.Artist() != "" {
			line = fmt.Sprintf("%s - %s", song.Artist(), song.Title())
		}
		r.writePlain("%s  [%d bpm]\n", line, song.MetronomeBPM())
		if at := song.LastPracticedAt(); at != nil {
			r.writePlain("  last practiced %s\n", at.Format("2006-01-02"))
		}
	}
	return nil
}

// SongTempo saves a metronome tempo on a song.
func (r *Runner) SongTempo(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	song, err := r.resolveSong(cmd.StringArg("title"))
	if err != nil {
		return err
	}

	bpm := int(cmd.Int("bpm"))
	if err := r.songs.SetTempo(song.ID(), bpm); err != nil {
		return fmt.Errorf("failed to set tempo: %w", err)
	}

	r.writePlain("✓ %q now plays at %d bpm\n", song.Title(), bpm)
	return nil
}

// SongNotes replaces the notes on a song.
func (r *Runner) SongNotes(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	song, err := r.resolveSong(cmd.StringArg("title"))
	if err != nil {
		return err
	}

	if err := r.songs.SetNotes(song.ID(), cmd.StringArg("notes")); err != nil {
		return fmt.Errorf("failed to set notes: %w", err)
	}

	r.writePlain("✓ Notes updated for %q\n", song.Title())
	return nil
}

// SongRemove soft-deletes a song; its practice history stays.
func (r *Runner) SongRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	song, err := r.resolveSong(cmd.StringArg("title"))
	if err != nil {
		return err
	}

	if err := r.songs.Delete(song.ID()); err != nil {
		return fmt.Errorf("failed to remove song: %w", err)
	}

	r.writePlain("✓ Removed %q\n", song.Title())
	return nil
}

func (r *Runner) resolveSong(title string) (*models.Song, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: song title required", shared.ErrMissingArgument)
	}
	song, err := r.songs.GetByTitle(title)
	if err != nil {
		return nil, fmt.Errorf("failed to find song %q: %w", title, err)
	}
	return song, nil
}

type songJSON struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Artist        string `json:"artist,omitempty"`
	FolderID      string `json:"folder_id,omitempty"`
	MetronomeBPM  int    `json:"metronome_bpm"`
	TimeSignature int    `json:"time_signature"`
	Notes         string `json:"notes,omitempty"`
	LastPracticed string `json:"last_practiced_at,omitempty"`
}

func songsJSON(songs []*models.Song) []songJSON {
	out := make([]songJSON, 0, len(songs))
	for _, song := range songs {
		entry := songJSON{
			ID:            song.ID(),
			Title:         song.Title(),
			Artist:        song.Artist(),
			FolderID:      song.FolderID(),
			MetronomeBPM:  song.MetronomeBPM(),
			TimeSignature: song.TimeSignature(),
			Notes:         song.Notes(),
		}
		if at := song.LastPracticedAt(); at != nil {
			entry.LastPracticed = at.Format("2006-01-02")
		}
		out = append(out, entry)
	}
	return out
}
