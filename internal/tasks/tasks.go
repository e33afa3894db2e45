// package tasks implements long-running practice-history operations.
//
// The core abstraction is ExportEngine, which turns stored sessions into files
// on disk, one chunk at a time. Operations emit progress updates via channels
// for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"time"

	"github.com/woodshedhq/woodshed/internal/models"
)

// SessionReader reads persisted sessions for export.
type SessionReader interface {
	ListRange(userID string, from, to time.Time) ([]*models.PracticeSession, error)
}

// SongReader resolves song IDs to songs so exports can carry titles.
type SongReader interface {
	Get(id string) (*models.Song, error)
}

// ExportEngine writes practice history to disk in bulk.
// Contains dependencies on the session and song stores.
type ExportEngine struct {
	sessions SessionReader
	songs    SongReader
}

// NewExportEngine creates a new ExportEngine with the provided stores.
func NewExportEngine(sessions SessionReader, songs SongReader) *ExportEngine {
	return &ExportEngine{sessions: sessions, songs: songs}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ExportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
