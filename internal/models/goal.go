package models

import (
	"fmt"
	"time"
)

// Goal periods supported by the tracker.
const (
	GoalPeriodDay  = "day"
	GoalPeriodWeek = "week"
)

// Goal is a practice-minute target over a rolling day or week.
type Goal struct {
	id            string
	sequence      int
	userID        string
	targetMinutes int
	period        string
	active        bool
	createdAt     time.Time
	updatedAt     time.Time
	deletedAt     *time.Time
}

// NewGoal creates an active Goal with current timestamps.
func NewGoal(sequence int, userID string, targetMinutes int, period string) *Goal {
	now := time.Now()
	return &Goal{
		sequence:      sequence,
		userID:        userID,
		targetMinutes: targetMinutes,
		period:        period,
		active:        true,
		createdAt:     now,
		updatedAt:     now,
	}
}

func (g *Goal) ID() string            { return g.id }
func (g *Goal) Sequence() int         { return g.sequence }
func (g *Goal) UserID() string        { return g.userID }
func (g *Goal) TargetMinutes() int    { return g.targetMinutes }
func (g *Goal) Period() string        { return g.period }
func (g *Goal) Active() bool          { return g.active }
func (g *Goal) CreatedAt() time.Time  { return g.createdAt }
func (g *Goal) UpdatedAt() time.Time  { return g.updatedAt }
func (g *Goal) DeletedAt() *time.Time { return g.deletedAt }

func (g *Goal) SetID(id string)           { g.id = id }
func (g *Goal) SetSequence(seq int)       { g.sequence = seq }
func (g *Goal) SetUserID(userID string)   { g.userID = userID }
func (g *Goal) SetTargetMinutes(m int)    { g.targetMinutes = m }
func (g *Goal) SetPeriod(period string)   { g.period = period }
func (g *Goal) SetActive(active bool)     { g.active = active }
func (g *Goal) SetCreatedAt(t time.Time)  { g.createdAt = t }
func (g *Goal) SetUpdatedAt(t time.Time)  { g.updatedAt = t }
func (g *Goal) SetDeletedAt(t *time.Time) { g.deletedAt = t }

// Validate checks required fields and the target bounds.
func (g *Goal) Validate() error {
	if g.userID == "" {
		return fmt.Errorf("goal user id is required")
	}
	if g.targetMinutes <= 0 {
		return fmt.Errorf("goal target must be positive, got %d", g.targetMinutes)
	}
	if g.period != GoalPeriodDay && g.period != GoalPeriodWeek {
		return fmt.Errorf("goal period must be %q or %q, got %q", GoalPeriodDay, GoalPeriodWeek, g.period)
	}
	return nil
}
