// package stats aggregates practice history into totals, streaks, and
// goal progress.
package stats

import (
	"errors"
	"fmt"
	"time"

	"github.com/woodshedhq/woodshed/internal/models"
	"github.com/woodshedhq/woodshed/internal/shared"
)

// SessionSource reads persisted sessions for a user.
type SessionSource interface {
	ListRange(userID string, from, to time.Time) ([]*models.PracticeSession, error)
}

// GoalSource reads the active goal for a user and period.
type GoalSource interface {
	GetActive(userID, period string) (*models.Goal, error)
}

// SongMinutes is the practiced total for one song.
type SongMinutes struct {
	SongID  string `json:"song_id"`
	Minutes int    `json:"minutes"`
}

// GoalProgress compares practiced minutes against the active goal for
// its period.
type GoalProgress struct {
	Period           string  `json:"period"`
	TargetMinutes    int     `json:"target_minutes"`
	PracticedMinutes int     `json:"practiced_minutes"`
	Percent          float64 `json:"percent"`
}

// Summary is one user's practice picture as of now.
type Summary struct {
	TodayMinutes int           `json:"today_minutes"`
	WeekMinutes  int           `json:"week_minutes"`
	StreakDays   int           `json:"streak_days"`
	PerSong      []SongMinutes `json:"per_song,omitempty"`
	Goal         *GoalProgress `json:"goal,omitempty"`
}

type Service struct {
	sessions SessionSource
	goals    GoalSource
	clock    shared.Clock
}

func NewService(sessions SessionSource, goals GoalSource, clock shared.Clock) *Service {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &Service{sessions: sessions, goals: goals, clock: clock}
}

// streakWindow bounds how far back the streak calculation looks.
const streakWindow = 365

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// weekStart returns the Monday that opens t's week.
func weekStart(t time.Time) time.Time {
	day := dayStart(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// DayTotal sums practiced minutes for the calendar day containing day.
func (s *Service) DayTotal(userID string, day time.Time) (int, error) {
	from := dayStart(day)
	sessions, err := s.sessions.ListRange(userID, from, from.AddDate(0, 0, 1))
	if err != nil {
		return 0, fmt.Errorf("failed to load sessions: %w", err)
	}
	return sumMinutes(sessions), nil
}

// WeekTotal sums practiced minutes for the Monday-start week containing
// day.
func (s *Service) WeekTotal(userID string, day time.Time) (int, error) {
	from := weekStart(day)
	sessions, err := s.sessions.ListRange(userID, from, from.AddDate(0, 0, 7))
	if err != nil {
		return 0, fmt.Errorf("failed to load sessions: %w", err)
	}
	return sumMinutes(sessions), nil
}

// PerSong totals practiced minutes by song over [from, to). Sessions
// logged without a song are grouped under an empty song ID.
func (s *Service) PerSong(userID string, from, to time.Time) ([]SongMinutes, error) {
	sessions, err := s.sessions.ListRange(userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	totals := make(map[string]int)
	var order []string
	for _, session := range sessions {
		id := session.SongID()
		if _, seen := totals[id]; !seen {
			order = append(order, id)
		}
		totals[id] += session.DurationMinutes()
	}

	result := make([]SongMinutes, 0, len(order))
	for _, id := range order {
		result = append(result, SongMinutes{SongID: id, Minutes: totals[id]})
	}
	return result, nil
}

// Streak counts consecutive days with at least one session, ending
// today. A streak survives until a full day passes with no practice,
// so an empty today does not break yesterday's run.
func (s *Service) Streak(userID string) (int, error) {
	now := s.clock.Now()
	from := dayStart(now).AddDate(0, 0, -streakWindow)
	sessions, err := s.sessions.ListRange(userID, from, dayStart(now).AddDate(0, 0, 1))
	if err != nil {
		return 0, fmt.Errorf("failed to load sessions: %w", err)
	}

	practiced := make(map[string]bool)
	for _, session := range sessions {
		practiced[dayStart(session.PracticedAt()).Format(time.DateOnly)] = true
	}

	day := dayStart(now)
	streak := 0
	if !practiced[day.Format(time.DateOnly)] {
		day = day.AddDate(0, 0, -1)
	}
	for practiced[day.Format(time.DateOnly)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak, nil
}

// GoalProgress reports progress against the user's active goal for the
// given period. No active goal yields nil, not an error.
func (s *Service) GoalProgress(userID, period string) (*GoalProgress, error) {
	goal, err := s.goals.GetActive(userID, period)
	if err != nil {
		if errors.Is(err, shared.ErrGoalNotFound) {
			return nil, nil
		}
		return nil, err
	}

	now := s.clock.Now()
	var practiced int
	switch period {
	case models.GoalPeriodDay:
		practiced, err = s.DayTotal(userID, now)
	default:
		practiced, err = s.WeekTotal(userID, now)
	}
	if err != nil {
		return nil, err
	}

	progress := &GoalProgress{
		Period:           period,
		TargetMinutes:    goal.TargetMinutes(),
		PracticedMinutes: practiced,
	}
	if goal.TargetMinutes() > 0 {
		progress.Percent = float64(practiced) / float64(goal.TargetMinutes()) * 100
	}
	return progress, nil
}

// Summarize assembles the full dashboard picture for a user.
func (s *Service) Summarize(userID string) (*Summary, error) {
	now := s.clock.Now()

	today, err := s.DayTotal(userID, now)
	if err != nil {
		return nil, err
	}
	week, err := s.WeekTotal(userID, now)
	if err != nil {
		return nil, err
	}
	streak, err := s.Streak(userID)
	if err != nil {
		return nil, err
	}
	perSong, err := s.PerSong(userID, weekStart(now), weekStart(now).AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		TodayMinutes: today,
		WeekMinutes:  week,
		StreakDays:   streak,
		PerSong:      perSong,
	}

	for _, period := range []string{models.GoalPeriodDay, models.GoalPeriodWeek} {
		progress, err := s.GoalProgress(userID, period)
		if err != nil {
			return nil, err
		}
		if progress != nil {
			summary.Goal = progress
			break
		}
	}
	return summary, nil
}

func sumMinutes(sessions []*models.PracticeSession) int {
	total := 0
	for _, session := range sessions {
		total += session.DurationMinutes()
	}
	return total
}
