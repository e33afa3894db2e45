package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/woodshedhq/woodshed/internal/models"
	"github.com/woodshedhq/woodshed/internal/shared"
)

// GoalSet sets a daily or weekly minutes goal, replacing any active
// goal for the same period.
func (r *Runner) GoalSet(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	period := cmd.String("period")
	if period != models.GoalPeriodDay && period != models.GoalPeriodWeek {
		return fmt.Errorf("%w: period must be day or week", shared.ErrInvalidFlag)
	}

	goal := models.NewGoal(0, r.config.User.ID, int(cmd.Int("minutes")), period)
	if err := r.goals.Create(goal); err != nil {
		return fmt.Errorf("failed to set goal: %w", err)
	}

	r.writePlain("✓ Goal set: %s per %s\n", shared.FormatMinutes(goal.TargetMinutes()), period)
	return nil
}

// GoalStatus shows progress against the active goals.
func (r *Runner) GoalStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	found := false
	for _, period := range []string{models.GoalPeriodDay, models.GoalPeriodWeek} {
		progress, err := r.stats.GoalProgress(r.config.User.ID, period)
		if err != nil {
			return fmt.Errorf("failed to compute goal progress: %w", err)
		}
		if progress == nil {
			continue
		}
		found = true
		r.writePlain("%s goal: %s of %s (%.0f%%)\n",
			period,
			shared.FormatMinutes(progress.PracticedMinutes),
			shared.FormatMinutes(progress.TargetMinutes),
			progress.Percent)
	}

	if !found {
		r.writePlain("No active goal. Set one with 'woodshed goal set --minutes 120'\n")
	}
	return nil
}

// GoalClear deactivates the active goal for a period.
func (r *Runner) GoalClear(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	period := cmd.String("period")
	goal, err := r.goals.GetActive(r.config.User.ID, period)
	if err != nil {
		if errors.Is(err, shared.ErrGoalNotFound) {
			r.writePlain("No active %s goal to clear\n", period)
			return nil
		}
		return fmt.Errorf("failed to find goal: %w", err)
	}

	goal.SetActive(false)
	if err := r.goals.Update(goal); err != nil {
		return fmt.Errorf("failed to clear goal: %w", err)
	}

	r.writePlain("✓ Cleared the %s goal\n", period)
	return nil
}
