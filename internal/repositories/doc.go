// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [SongRepository] : practice catalog with folder and position ordering
//   - [FolderRepository] : library groupings
//   - [SessionRepository] : finalized practice sessions with date-range queries
//   - [GoalRepository] : practice-minute targets with active-goal lookup
//
// Sequence numbers provide stable, human-readable ordering (e.g., song #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
