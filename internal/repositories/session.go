package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/woodshedhq/woodshed/internal/models"
	"github.com/woodshedhq/woodshed/internal/shared"
)

// SessionRepository implements models.Repository[*models.PracticeSession].
//
// This is the persistence collaborator the practice timer flushes to on stop;
// the analytics layer reads back through the date-range queries.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new [models.PracticeSession] with generated ID and sequence
func (r *SessionRepository) Create(session *models.PracticeSession) error {
	sequence, err := NextSequence(r.db, "sessions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	session.SetID(id)
	session.SetSequence(sequence)

	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sessions (id, sequence, user_id, song_id, duration_minutes, notes, practiced_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		session.UserID(),
		nullString(session.SongID()),
		session.DurationMinutes(),
		nullString(session.Notes()),
		session.PracticedAt(),
		session.CreatedAt(),
		session.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID, excluding soft-deleted sessions
func (r *SessionRepository) Get(id string) (*models.PracticeSession, error) {
	query := `
		SELECT id, sequence, user_id, song_id, duration_minutes, notes, practiced_at, created_at, updated_at, deleted_at
		FROM sessions
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scan(r.db.QueryRow(query, id))
}

// Update modifies an existing session in the database
func (r *SessionRepository) Update(session *models.PracticeSession) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	session.SetUpdatedAt(now)

	query := `
		UPDATE sessions
		SET song_id = ?, duration_minutes = ?, notes = ?, practiced_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		nullString(session.SongID()),
		session.DurationMinutes(),
		nullString(session.Notes()),
		session.PracticedAt(),
		now,
		session.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, session.ID())
	}

	return nil
}

// Delete soft-deletes a session by ID
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(
		"UPDATE sessions SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}

	return nil
}

// List retrieves sessions matching the given criteria, newest first.
// Supported criteria: user_id, song_id.
func (r *SessionRepository) List(criteria map[string]any) ([]*models.PracticeSession, error) {
	query := `
		SELECT id, sequence, user_id, song_id, duration_minutes, notes, practiced_at, created_at, updated_at, deleted_at
		FROM sessions
		WHERE deleted_at IS NULL
	`
	args := []any{}

	if userID, ok := criteria["user_id"]; ok {
		query += " AND user_id = ?"
		args = append(args, userID)
	}
	if songID, ok := criteria["song_id"]; ok {
		query += " AND song_id = ?"
		args = append(args, songID)
	}

	query += " ORDER BY practiced_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.PracticeSession
	for rows.Next() {
		session, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// ListRange retrieves sessions for a user practiced within [from, to), oldest first.
// The analytics layer aggregates over this window.
func (r *SessionRepository) ListRange(userID string, from, to time.Time) ([]*models.PracticeSession, error) {
	query := `
		SELECT id, sequence, user_id, song_id, duration_minutes, notes, practiced_at, created_at, updated_at, deleted_at
		FROM sessions
		WHERE user_id = ? AND practiced_at >= ? AND practiced_at < ? AND deleted_at IS NULL
		ORDER BY practiced_at
	`

	rows, err := r.db.Query(query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query session range: %w", err)
	}
	defer rows.Close()

	var sessions []*models.PracticeSession
	for rows.Next() {
		session, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

func (r *SessionRepository) scan(row rowScanner) (*models.PracticeSession, error) {
	var (
		id              string
		sequence        int
		userID          string
		songID          sql.NullString
		durationMinutes int
		notes           sql.NullString
		practicedAt     time.Time
		createdAt       time.Time
		updatedAt       time.Time
		deletedAt       sql.NullTime
	)

	err := row.Scan(&id, &sequence, &userID, &songID, &durationMinutes, &notes, &practicedAt, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w", shared.ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	session := models.NewPracticeSession(sequence, userID, songID.String, durationMinutes, practicedAt)
	session.SetID(id)
	session.SetNotes(notes.String)
	session.SetCreatedAt(createdAt)
	session.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		session.SetDeletedAt(&deletedAt.Time)
	}

	return session, nil
}
