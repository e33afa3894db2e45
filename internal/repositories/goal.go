package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/woodshedhq/woodshed/internal/models"
	"github.com/woodshedhq/woodshed/internal/shared"
)

// GoalRepository implements models.Repository[*models.Goal].
type GoalRepository struct {
	db *sql.DB
}

// NewGoalRepository creates a new GoalRepository with the given database connection
func NewGoalRepository(db *sql.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// Create inserts a new [models.Goal] with generated ID and sequence.
// Any previously active goal for the same user and period is deactivated so
// at most one goal per period is active at a time.
func (r *GoalRepository) Create(goal *models.Goal) error {
	sequence, err := NextSequence(r.db, "goals")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	goal.SetID(id)
	goal.SetSequence(sequence)

	if err := goal.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if goal.Active() {
		_, err = tx.Exec(
			"UPDATE goals SET active = 0, updated_at = ? WHERE user_id = ? AND period = ? AND active = 1 AND deleted_at IS NULL",
			time.Now(), goal.UserID(), goal.Period(),
		)
		if err != nil {
			return fmt.Errorf("failed to deactivate previous goal: %w", err)
		}
	}

	query := `
		INSERT INTO goals (id, sequence, user_id, target_minutes, period, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		id,
		sequence,
		goal.UserID(),
		goal.TargetMinutes(),
		goal.Period(),
		goal.Active(),
		goal.CreatedAt(),
		goal.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}

	return tx.Commit()
}

// Get retrieves a goal by ID, excluding soft-deleted goals
func (r *GoalRepository) Get(id string) (*models.Goal, error) {
	query := `
		SELECT id, sequence, user_id, target_minutes, period, active, created_at, updated_at, deleted_at
		FROM goals
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scan(r.db.QueryRow(query, id))
}

// GetActive retrieves the active goal for a user and period.
func (r *GoalRepository) GetActive(userID, period string) (*models.Goal, error) {
	query := `
		SELECT id, sequence, user_id, target_minutes, period, active, created_at, updated_at, deleted_at
		FROM goals
		WHERE user_id = ? AND period = ? AND active = 1 AND deleted_at IS NULL
		LIMIT 1
	`

	return r.scan(r.db.QueryRow(query, userID, period))
}

// Update modifies an existing goal in the database
func (r *GoalRepository) Update(goal *models.Goal) error {
	if err := goal.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	goal.SetUpdatedAt(now)

	result, err := r.db.Exec(
		"UPDATE goals SET target_minutes = ?, period = ?, active = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL",
		goal.TargetMinutes(), goal.Period(), goal.Active(), now, goal.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrGoalNotFound, goal.ID())
	}

	return nil
}

// Delete soft-deletes a goal by ID
func (r *GoalRepository) Delete(id string) error {
	result, err := r.db.Exec(
		"UPDATE goals SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrGoalNotFound, id)
	}

	return nil
}

// List retrieves goals matching the given criteria, newest first.
// Supported criteria: user_id, active.
func (r *GoalRepository) List(criteria map[string]any) ([]*models.Goal, error) {
	query := `
		SELECT id, sequence, user_id, target_minutes, period, active, created_at, updated_at, deleted_at
		FROM goals
		WHERE deleted_at IS NULL
	`
	args := []any{}

	if userID, ok := criteria["user_id"]; ok {
		query += " AND user_id = ?"
		args = append(args, userID)
	}
	if active, ok := criteria["active"]; ok {
		query += " AND active = ?"
		args = append(args, active)
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		goal, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}

	return goals, rows.Err()
}

func (r *GoalRepository) scan(row rowScanner) (*models.Goal, error) {
	var (
		id            string
		sequence      int
		userID        string
		targetMinutes int
		period        string
		active        bool
		createdAt     time.Time
		updatedAt     time.Time
		deletedAt     sql.NullTime
	)

	err := row.Scan(&id, &sequence, &userID, &targetMinutes, &period, &active, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w", shared.ErrGoalNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan goal: %w", err)
	}

	goal := models.NewGoal(sequence, userID, targetMinutes, period)
	goal.SetID(id)
	goal.SetActive(active)
	goal.SetCreatedAt(createdAt)
	goal.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		goal.SetDeletedAt(&deletedAt.Time)
	}

	return goal, nil
}
