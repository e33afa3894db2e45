package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadSessions Phase = iota
	WriteChunk
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case LoadSessions:
		return "load_sessions"
	case WriteChunk:
		return "write_chunk"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func loadSessionsUpdate(step, total int, label string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadSessions,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Loading sessions for %s...", step, total, label),
	}
}

func chunkCompletedUpdate(step, total int, label string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteChunk,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, label, filesCount),
	}
}

func chunkFailedUpdate(step, total int, label string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteChunk,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, label, err),
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Manifest written: %s", path),
	}
}
