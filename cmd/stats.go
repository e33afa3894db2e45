package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/woodshedhq/woodshed/internal/shared"
)

// Stats prints the practice dashboard: totals, streak, per-song
// minutes for the week, and goal progress.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	summary, err := r.stats.Summarize(r.config.User.ID)
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(summary, true)
	}

	r.writePlainHeader("Practice Stats")
	r.writePlain("Today:     %s\n", shared.FormatMinutes(summary.TodayMinutes))
	r.writePlain("This week: %s\n", shared.FormatMinutes(summary.WeekMinutes))
	r.writePlain("Streak:    %d days\n", summary.StreakDays)

	if goal := summary.Goal; goal != nil {
		r.writePlainln("Goal (%s): %s of %s (%.0f%%)",
			goal.Period,
			shared.FormatMinutes(goal.PracticedMinutes),
			shared.FormatMinutes(goal.TargetMinutes),
			goal.Percent)
	}

	if len(summary.PerSong) > 0 {
		r.writePlainln("This week by song:")
		titles := make(map[string]string)
		for _, entry := range summary.PerSong {
			title := "Free practice"
			if entry.SongID != "" {
				if cached, ok := titles[entry.SongID]; ok {
					title = cached
				} else if song, err := r.songs.Get(entry.SongID); err == nil {
					title = song.Title()
					titles[entry.SongID] = title
				}
			}
			r.writePlain("  %s  %s\n", shared.FormatMinutes(entry.Minutes), title)
		}
	}
	return nil
}
