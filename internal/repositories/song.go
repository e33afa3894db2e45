package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/woodshedhq/woodshed/internal/models"
	"github.com/woodshedhq/woodshed/internal/shared"
)

// SongRepository implements models.Repository[*models.Song] for the practice catalog.
//
// Songs carry the stored metronome tempo used to seed the practice view, and a
// manual position within their folder for drag-style reordering from the CLI.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new [models.Song] into the database with generated ID and sequence
func (r *SongRepository) Create(song *models.Song) error {
	sequence, err := NextSequence(r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	song.SetID(id)
	song.SetSequence(sequence)

	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO songs (id, sequence, title, artist, folder_id, metronome_bpm, time_signature, notes, position, last_practiced_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		song.Title(),
		song.Artist(),
		nullString(song.FolderID()),
		song.MetronomeBPM(),
		song.TimeSignature(),
		nullString(song.Notes()),
		song.Position(),
		song.LastPracticedAt(),
		song.CreatedAt(),
		song.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	return nil
}

// Get retrieves a song by ID, excluding soft-deleted songs
func (r *SongRepository) Get(id string) (*models.Song, error) {
	query := `
		SELECT id, sequence, title, artist, folder_id, metronome_bpm, time_signature, notes, position, last_practiced_at, created_at, updated_at, deleted_at
		FROM songs
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByTitle retrieves a song by exact title match
func (r *SongRepository) GetByTitle(title string) (*models.Song, error) {
	query := `
		SELECT id, sequence, title, artist, folder_id, metronome_bpm, time_signature, notes, position, last_practiced_at, created_at, updated_at, deleted_at
		FROM songs
		WHERE title = ? AND deleted_at IS NULL
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRow(query, title))
}

// Update modifies an existing song in the database
func (r *SongRepository) Update(song *models.Song) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	song.SetUpdatedAt(now)

	query := `
		UPDATE songs
		SET title = ?, artist = ?, folder_id = ?, metronome_bpm = ?, time_signature = ?, notes = ?, position = ?, last_practiced_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		song.Title(),
		song.Artist(),
		nullString(song.FolderID()),
		song.MetronomeBPM(),
		song.TimeSignature(),
		nullString(song.Notes()),
		song.Position(),
		song.LastPracticedAt(),
		now,
		song.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, song.ID())
	}

	return nil
}

// SetTempo updates only the stored metronome tempo. Used by the debounced
// tempo control so a slider commit is a single-field last-write-wins update.
func (r *SongRepository) SetTempo(id string, bpm int) error {
	if !models.ValidBPM(bpm) {
		return fmt.Errorf("metronome bpm must be between %d and %d, got %d", models.MinBPM, models.MaxBPM, bpm)
	}

	result, err := r.db.Exec(
		"UPDATE songs SET metronome_bpm = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL",
		bpm, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update song tempo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
	}

	return nil
}

// SetNotes updates only the song notes. Used by the debounced notes auto-save.
func (r *SongRepository) SetNotes(id string, notes string) error {
	result, err := r.db.Exec(
		"UPDATE songs SET notes = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL",
		nullString(notes), time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update song notes: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
	}

	return nil
}

// TouchLastPracticed records when a song was last practiced.
func (r *SongRepository) TouchLastPracticed(id string, at time.Time) error {
	_, err := r.db.Exec(
		"UPDATE songs SET last_practiced_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL",
		at, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update last practiced: %w", err)
	}
	return nil
}

// Delete soft-deletes a song by ID
func (r *SongRepository) Delete(id string) error {
	result, err := r.db.Exec(
		"UPDATE songs SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
	}

	return nil
}

// List retrieves songs matching the given criteria, ordered by folder position then title.
// Supported criteria: folder_id.
func (r *SongRepository) List(criteria map[string]any) ([]*models.Song, error) {
	query := `
		SELECT id, sequence, title, artist, folder_id, metronome_bpm, time_signature, notes, position, last_practiced_at, created_at, updated_at, deleted_at
		FROM songs
		WHERE deleted_at IS NULL
	`
	args := []any{}

	if folderID, ok := criteria["folder_id"]; ok {
		query += " AND folder_id = ?"
		args = append(args, folderID)
	}

	query += " ORDER BY position, title"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.Song
	for rows.Next() {
		song, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	return songs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SongRepository) scan(row rowScanner) (*models.Song, error) {
	var (
		id              string
		sequence        int
		title           string
		artist          sql.NullString
		folderID        sql.NullString
		metronomeBPM    int
		timeSignature   int
		notes           sql.NullString
		position        int
		lastPracticedAt sql.NullTime
		createdAt       time.Time
		updatedAt       time.Time
		deletedAt       sql.NullTime
	)

	err := row.Scan(&id, &sequence, &title, &artist, &folderID, &metronomeBPM, &timeSignature, &notes, &position, &lastPracticedAt, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w", shared.ErrSongNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	song := models.NewSong(sequence, title, artist.String)
	song.SetID(id)
	song.SetFolderID(folderID.String)
	song.SetMetronomeBPM(metronomeBPM)
	song.SetTimeSignature(timeSignature)
	song.SetNotes(notes.String)
	song.SetPosition(position)
	song.SetCreatedAt(createdAt)
	song.SetUpdatedAt(updatedAt)
	if lastPracticedAt.Valid {
		song.SetLastPracticedAt(&lastPracticedAt.Time)
	}
	if deletedAt.Valid {
		song.SetDeletedAt(&deletedAt.Time)
	}

	return song, nil
}

// scanOne scans a single [sql.Row] into a [models.Song]
func (r *SongRepository) scanOne(row *sql.Row) (*models.Song, error) {
	return r.scan(row)
}

// scanRow scans a row from [sql.Rows] into a [models.Song]
func (r *SongRepository) scanRow(rows *sql.Rows) (*models.Song, error) {
	return r.scan(rows)
}

// nullString converts an empty string to a NULL-able database value.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
