// package models defines the data model for the practice tracker
package models

import (
	"time"
)

// Model defines the base interface for all persistent models in the practice tracker.
// Implementations include Song, Folder, PracticeSession, and Goal.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// ValidTimeSignatures enumerates supported beats-per-measure values.
var ValidTimeSignatures = []int{2, 3, 4, 6}

// Metronome tempo bounds shared by songs and the engine.
const (
	MinBPM = 40
	MaxBPM = 200
)

// ValidBPM reports whether a tempo lies in the supported metronome range.
func ValidBPM(bpm int) bool {
	return bpm >= MinBPM && bpm <= MaxBPM
}

// ValidTimeSignature reports whether beats-per-measure is a supported value.
func ValidTimeSignature(ts int) bool {
	for _, v := range ValidTimeSignatures {
		if ts == v {
			return true
		}
	}
	return false
}
