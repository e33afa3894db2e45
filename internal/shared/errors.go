package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Audio and platform errors
	ErrAudioUnavailable = fmt.Errorf("audio output unavailable")
	ErrNoWakeLock       = fmt.Errorf("no wake lock mechanism available")

	// Domain errors
	ErrSongNotFound    = fmt.Errorf("song not found")
	ErrFolderNotFound  = fmt.Errorf("folder not found")
	ErrSessionNotFound = fmt.Errorf("session not found")
	ErrGoalNotFound    = fmt.Errorf("goal not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
