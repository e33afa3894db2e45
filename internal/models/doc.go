// Package models defines domain entities and persistence interfaces for the woodshed practice tracker.
//
// Persistent entities are database-backed models with full lifecycle management:
//   - [Song] : catalog entries with stored metronome tempo and practice notes
//   - [Folder] : library groupings with manual ordering
//   - [PracticeSession] : finalized timer runs with duration in whole minutes
//   - [Goal] : weekly (or daily) practice-minute targets
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
