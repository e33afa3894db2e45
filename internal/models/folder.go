package models

import (
	"fmt"
	"time"
)

// Folder groups songs in the practice library with manual ordering.
type Folder struct {
	id        string
	sequence  int
	name      string
	position  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewFolder creates a Folder with current timestamps.
func NewFolder(sequence int, name string) *Folder {
	now := time.Now()
	return &Folder{
		sequence:  sequence,
		name:      name,
		createdAt: now,
		updatedAt: now,
	}
}

func (f *Folder) ID() string            { return f.id }
func (f *Folder) Sequence() int         { return f.sequence }
func (f *Folder) Name() string          { return f.name }
func (f *Folder) Position() int         { return f.position }
func (f *Folder) CreatedAt() time.Time  { return f.createdAt }
func (f *Folder) UpdatedAt() time.Time  { return f.updatedAt }
func (f *Folder) DeletedAt() *time.Time { return f.deletedAt }

func (f *Folder) SetID(id string)           { f.id = id }
func (f *Folder) SetSequence(seq int)       { f.sequence = seq }
func (f *Folder) SetName(name string)       { f.name = name }
func (f *Folder) SetPosition(pos int)       { f.position = pos }
func (f *Folder) SetCreatedAt(t time.Time)  { f.createdAt = t }
func (f *Folder) SetUpdatedAt(t time.Time)  { f.updatedAt = t }
func (f *Folder) SetDeletedAt(t *time.Time) { f.deletedAt = t }

// Validate checks required fields.
func (f *Folder) Validate() error {
	if f.name == "" {
		return fmt.Errorf("folder name is required")
	}
	return nil
}
