package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/woodshedhq/woodshed/internal/models"
	"github.com/woodshedhq/woodshed/internal/shared"
)

// FolderRepository implements models.Repository[*models.Folder] for library groupings.
type FolderRepository struct {
	db *sql.DB
}

// NewFolderRepository creates a new FolderRepository with the given database connection
func NewFolderRepository(db *sql.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

// Create inserts a new [models.Folder] into the database with generated ID and sequence
func (r *FolderRepository) Create(folder *models.Folder) error {
	sequence, err := NextSequence(r.db, "folders")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	folder.SetID(id)
	folder.SetSequence(sequence)

	if err := folder.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO folders (id, sequence, name, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		folder.Name(),
		folder.Position(),
		folder.CreatedAt(),
		folder.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert folder: %w", err)
	}

	return nil
}

// Get retrieves a folder by ID, excluding soft-deleted folders
func (r *FolderRepository) Get(id string) (*models.Folder, error) {
	query := `
		SELECT id, sequence, name, position, created_at, updated_at, deleted_at
		FROM folders
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scan(r.db.QueryRow(query, id))
}

// GetByName retrieves a folder by exact name match
func (r *FolderRepository) GetByName(name string) (*models.Folder, error) {
	query := `
		SELECT id, sequence, name, position, created_at, updated_at, deleted_at
		FROM folders
		WHERE name = ? AND deleted_at IS NULL
		LIMIT 1
	`

	return r.scan(r.db.QueryRow(query, name))
}

// Update modifies an existing folder in the database
func (r *FolderRepository) Update(folder *models.Folder) error {
	if err := folder.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	folder.SetUpdatedAt(now)

	result, err := r.db.Exec(
		"UPDATE folders SET name = ?, position = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL",
		folder.Name(), folder.Position(), now, folder.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update folder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrFolderNotFound, folder.ID())
	}

	return nil
}

// Delete soft-deletes a folder by ID
func (r *FolderRepository) Delete(id string) error {
	result, err := r.db.Exec(
		"UPDATE folders SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrFolderNotFound, id)
	}

	return nil
}

// List retrieves all folders ordered by position then name. Criteria are unused.
func (r *FolderRepository) List(criteria map[string]any) ([]*models.Folder, error) {
	query := `
		SELECT id, sequence, name, position, created_at, updated_at, deleted_at
		FROM folders
		WHERE deleted_at IS NULL
		ORDER BY position, name
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query folders: %w", err)
	}
	defer rows.Close()

	var folders []*models.Folder
	for rows.Next() {
		folder, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, folder)
	}

	return folders, rows.Err()
}

func (r *FolderRepository) scan(row rowScanner) (*models.Folder, error) {
	var (
		id        string
		sequence  int
		name      string
		position  int
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &name, &position, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w", shared.ErrFolderNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan folder: %w", err)
	}

	folder := models.NewFolder(sequence, name)
	folder.SetID(id)
	folder.SetPosition(position)
	folder.SetCreatedAt(createdAt)
	folder.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		folder.SetDeletedAt(&deletedAt.Time)
	}

	return folder, nil
}
