package models

import (
	"fmt"
	"time"
)

// Song is a catalog entry the user practices against. It carries the stored
// metronome tempo and time signature used to seed the engine when a practice
// view opens, plus free-form practice notes.
type Song struct {
	id              string
	sequence        int
	title           string
	artist          string
	folderID        string
	metronomeBPM    int
	timeSignature   int
	notes           string
	position        int
	lastPracticedAt *time.Time
	createdAt       time.Time
	updatedAt       time.Time
	deletedAt       *time.Time
}

// NewSong creates a Song with default tempo settings and current timestamps.
func NewSong(sequence int, title, artist string) *Song {
	now := time.Now()
	return &Song{
		sequence:      sequence,
		title:         title,
		artist:        artist,
		metronomeBPM:  100,
		timeSignature: 4,
		createdAt:     now,
		updatedAt:     now,
	}
}

func (s *Song) ID() string                  { return s.id }
func (s *Song) Sequence() int               { return s.sequence }
func (s *Song) Title() string               { return s.title }
func (s *Song) Artist() string              { return s.artist }
func (s *Song) FolderID() string            { return s.folderID }
func (s *Song) MetronomeBPM() int           { return s.metronomeBPM }
func (s *Song) TimeSignature() int          { return s.timeSignature }
func (s *Song) Notes() string               { return s.notes }
func (s *Song) Position() int               { return s.position }
func (s *Song) LastPracticedAt() *time.Time { return s.lastPracticedAt }
func (s *Song) CreatedAt() time.Time        { return s.createdAt }
func (s *Song) UpdatedAt() time.Time        { return s.updatedAt }
func (s *Song) DeletedAt() *time.Time       { return s.deletedAt }

func (s *Song) SetID(id string)                 { s.id = id }
func (s *Song) SetSequence(seq int)             { s.sequence = seq }
func (s *Song) SetTitle(title string)           { s.title = title }
func (s *Song) SetArtist(artist string)         { s.artist = artist }
func (s *Song) SetFolderID(folderID string)     { s.folderID = folderID }
func (s *Song) SetMetronomeBPM(bpm int)         { s.metronomeBPM = bpm }
func (s *Song) SetTimeSignature(ts int)         { s.timeSignature = ts }
func (s *Song) SetNotes(notes string)           { s.notes = notes }
func (s *Song) SetPosition(pos int)             { s.position = pos }
func (s *Song) SetLastPracticedAt(t *time.Time) { s.lastPracticedAt = t }
func (s *Song) SetCreatedAt(t time.Time)        { s.createdAt = t }
func (s *Song) SetUpdatedAt(t time.Time)        { s.updatedAt = t }
func (s *Song) SetDeletedAt(t *time.Time)       { s.deletedAt = t }

// Validate checks required fields and tempo bounds.
func (s *Song) Validate() error {
	if s.title == "" {
		return fmt.Errorf("song title is required")
	}
	if !ValidBPM(s.metronomeBPM) {
		return fmt.Errorf("metronome bpm must be between %d and %d, got %d", MinBPM, MaxBPM, s.metronomeBPM)
	}
	if !ValidTimeSignature(s.timeSignature) {
		return fmt.Errorf("time signature must be one of %v, got %d", ValidTimeSignatures, s.timeSignature)
	}
	return nil
}
