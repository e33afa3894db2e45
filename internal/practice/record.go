package practice

import (
	"fmt"
	"math"
	"time"

	"github.com/woodshedhq/woodshed/internal/shared"
)

// Pause is one break in a session. End is nil while the break is open;
// a record holds at most one open pause at a time.
type Pause struct {
	Start time.Time
	End   *time.Time
}

// Record tracks the wall-clock shape of a single session: when it
// started and every pause taken along the way. Elapsed time is the
// span minus the pauses, so a minute spent on the couch never counts
// as a minute practiced.
type Record struct {
	StartedAt time.Time
	Pauses    []Pause
}

func NewRecord(startedAt time.Time) *Record {
	return &Record{StartedAt: startedAt}
}

// Paused reports whether the record has an open pause.
func (r *Record) Paused() bool {
	n := len(r.Pauses)
	return n > 0 && r.Pauses[n-1].End == nil
}

func (r *Record) BeginPause(now time.Time) error {
	if r.Paused() {
		return fmt.Errorf("%w: pause already open", shared.ErrInvalidInput)
	}
	r.Pauses = append(r.Pauses, Pause{Start: now})
	return nil
}

func (r *Record) EndPause(now time.Time) error {
	if !r.Paused() {
		return fmt.Errorf("%w: no open pause", shared.ErrInvalidInput)
	}
	r.Pauses[len(r.Pauses)-1].End = &now
	return nil
}

// Elapsed returns practiced time as of now: the full span minus every
// pause, with an open pause counted up to now.
func (r *Record) Elapsed(now time.Time) time.Duration {
	elapsed := now.Sub(r.StartedAt)
	for _, p := range r.Pauses {
		end := now
		if p.End != nil {
			end = *p.End
		}
		elapsed -= end.Sub(p.Start)
	}
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// DurationMinutes rounds elapsed time to the nearest whole minute.
// Any non-zero amount of practice counts for at least one minute; a
// session with no elapsed time at all counts for none.
func (r *Record) DurationMinutes(now time.Time) int {
	elapsed := r.Elapsed(now)
	if elapsed <= 0 {
		return 0
	}
	minutes := int(math.Round(elapsed.Minutes()))
	if minutes < 1 {
		return 1
	}
	return minutes
}
