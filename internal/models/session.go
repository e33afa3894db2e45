package models

import (
	"fmt"
	"time"
)

// PracticeSession is a finalized timer run. Durations are whole minutes with a
// floor of one minute; zero-length runs are never persisted.
type PracticeSession struct {
	id              string
	sequence        int
	userID          string
	songID          string
	durationMinutes int
	notes           string
	practicedAt     time.Time
	createdAt       time.Time
	updatedAt       time.Time
	deletedAt       *time.Time
}

// NewPracticeSession creates a PracticeSession with current timestamps.
func NewPracticeSession(sequence int, userID, songID string, durationMinutes int, practicedAt time.Time) *PracticeSession {
	now := time.Now()
	return &PracticeSession{
		sequence:        sequence,
		userID:          userID,
		songID:          songID,
		durationMinutes: durationMinutes,
		practicedAt:     practicedAt,
		createdAt:       now,
		updatedAt:       now,
	}
}

func (p *PracticeSession) ID() string             { return p.id }
func (p *PracticeSession) Sequence() int          { return p.sequence }
func (p *PracticeSession) UserID() string         { return p.userID }
func (p *PracticeSession) SongID() string         { return p.songID }
func (p *PracticeSession) DurationMinutes() int   { return p.durationMinutes }
func (p *PracticeSession) Notes() string          { return p.notes }
func (p *PracticeSession) PracticedAt() time.Time { return p.practicedAt }
func (p *PracticeSession) CreatedAt() time.Time   { return p.createdAt }
func (p *PracticeSession) UpdatedAt() time.Time   { return p.updatedAt }
func (p *PracticeSession) DeletedAt() *time.Time  { return p.deletedAt }

func (p *PracticeSession) SetID(id string)            { p.id = id }
func (p *PracticeSession) SetSequence(seq int)        { p.sequence = seq }
func (p *PracticeSession) SetUserID(userID string)    { p.userID = userID }
func (p *PracticeSession) SetSongID(songID string)    { p.songID = songID }
func (p *PracticeSession) SetDurationMinutes(m int)   { p.durationMinutes = m }
func (p *PracticeSession) SetNotes(notes string)      { p.notes = notes }
func (p *PracticeSession) SetPracticedAt(t time.Time) { p.practicedAt = t }
func (p *PracticeSession) SetCreatedAt(t time.Time)   { p.createdAt = t }
func (p *PracticeSession) SetUpdatedAt(t time.Time)   { p.updatedAt = t }
func (p *PracticeSession) SetDeletedAt(t *time.Time)  { p.deletedAt = t }

// Validate checks required fields and the minimum-duration rule.
func (p *PracticeSession) Validate() error {
	if p.userID == "" {
		return fmt.Errorf("session user id is required")
	}
	if p.durationMinutes < 1 {
		return fmt.Errorf("session duration must be at least 1 minute, got %d", p.durationMinutes)
	}
	if p.practicedAt.IsZero() {
		return fmt.Errorf("session practiced_at is required")
	}
	return nil
}
