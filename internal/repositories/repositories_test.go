package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/woodshedhq/woodshed/internal/models"
	"github.com/woodshedhq/woodshed/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestSongRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := models.NewSong(0, "Blue Bossa", "Kenny Dorham")

		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		if song.ID() == "" {
			t.Error("song ID should be set after creation")
		}
		if song.Sequence() == 0 {
			t.Error("song sequence should be set after creation")
		}
	})

	t.Run("Create rejects invalid tempo", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := models.NewSong(0, "Too Fast", "")
		song.SetMetronomeBPM(300)

		if err := repo.Create(song); err == nil {
			t.Error("expected validation error for bpm out of range")
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := models.NewSong(0, "Blue Bossa", "Kenny Dorham")
		song.SetMetronomeBPM(160)
		song.SetTimeSignature(4)

		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		retrieved, err := repo.Get(song.ID())
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}

		if retrieved.Title() != "Blue Bossa" {
			t.Errorf("expected title Blue Bossa, got %s", retrieved.Title())
		}
		if retrieved.MetronomeBPM() != 160 {
			t.Errorf("expected bpm 160, got %d", retrieved.MetronomeBPM())
		}
	})

	t.Run("SetTempo", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := models.NewSong(0, "Blue Bossa", "Kenny Dorham")

		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		if err := repo.SetTempo(song.ID(), 132); err != nil {
			t.Fatalf("failed to set tempo: %v", err)
		}

		retrieved, err := repo.Get(song.ID())
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}
		if retrieved.MetronomeBPM() != 132 {
			t.Errorf("expected bpm 132, got %d", retrieved.MetronomeBPM())
		}

		if err := repo.SetTempo(song.ID(), 10); err == nil {
			t.Error("expected error for out-of-range tempo")
		}

		if err := repo.SetTempo("missing", 100); !errors.Is(err, shared.ErrSongNotFound) {
			t.Errorf("expected ErrSongNotFound, got %v", err)
		}
	})

	t.Run("SetNotes", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := models.NewSong(0, "Blue Bossa", "Kenny Dorham")

		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		if err := repo.SetNotes(song.ID(), "work on the bridge"); err != nil {
			t.Fatalf("failed to set notes: %v", err)
		}

		retrieved, err := repo.Get(song.ID())
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}
		if retrieved.Notes() != "work on the bridge" {
			t.Errorf("unexpected notes: %q", retrieved.Notes())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := models.NewSong(0, "Blue Bossa", "Kenny Dorham")

		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		if err := repo.Delete(song.ID()); err != nil {
			t.Fatalf("failed to delete song: %v", err)
		}

		if _, err := repo.Get(song.ID()); err == nil {
			t.Error("expected error when getting deleted song")
		}
	})

	t.Run("List by folder", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		folders := NewFolderRepository(db)
		folder := models.NewFolder(0, "Standards")
		if err := folders.Create(folder); err != nil {
			t.Fatalf("failed to create folder: %v", err)
		}

		repo := NewSongRepository(db)
		inFolder := models.NewSong(0, "All of Me", "")
		inFolder.SetFolderID(folder.ID())
		loose := models.NewSong(0, "Etude No. 1", "")

		for _, s := range []*models.Song{inFolder, loose} {
			if err := repo.Create(s); err != nil {
				t.Fatalf("failed to create song: %v", err)
			}
		}

		songs, err := repo.List(map[string]any{"folder_id": folder.ID()})
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if len(songs) != 1 {
			t.Fatalf("expected 1 song in folder, got %d", len(songs))
		}
		if songs[0].Title() != "All of Me" {
			t.Errorf("unexpected song: %s", songs[0].Title())
		}
	})
}

func TestSessionRepository(t *testing.T) {
	t.Run("Create and Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		session := models.NewPracticeSession(0, "user-1", "", 5, time.Now())
		session.SetNotes("slow scales")

		if err := repo.Create(session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		retrieved, err := repo.Get(session.ID())
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}
		if retrieved.DurationMinutes() != 5 {
			t.Errorf("expected 5 minutes, got %d", retrieved.DurationMinutes())
		}
		if retrieved.Notes() != "slow scales" {
			t.Errorf("unexpected notes: %q", retrieved.Notes())
		}
	})

	t.Run("Create rejects zero duration", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		session := models.NewPracticeSession(0, "user-1", "", 0, time.Now())

		if err := repo.Create(session); err == nil {
			t.Error("expected validation error for zero duration")
		}
	})

	t.Run("ListRange", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		base := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

		for i, mins := range []int{10, 20, 30} {
			s := models.NewPracticeSession(0, "user-1", "", mins, base.AddDate(0, 0, i))
			if err := repo.Create(s); err != nil {
				t.Fatalf("failed to create session: %v", err)
			}
		}

		sessions, err := repo.ListRange("user-1", base, base.AddDate(0, 0, 2))
		if err != nil {
			t.Fatalf("failed to list range: %v", err)
		}
		if len(sessions) != 2 {
			t.Fatalf("expected 2 sessions in range, got %d", len(sessions))
		}
		if sessions[0].DurationMinutes() != 10 {
			t.Errorf("expected oldest first, got %d minutes", sessions[0].DurationMinutes())
		}
	})
}

func TestFolderRepository(t *testing.T) {
	t.Run("Create and GetByName", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewFolderRepository(db)
		folder := models.NewFolder(0, "Standards")

		if err := repo.Create(folder); err != nil {
			t.Fatalf("failed to create folder: %v", err)
		}

		found, err := repo.GetByName("Standards")
		if err != nil {
			t.Fatalf("failed to get folder: %v", err)
		}
		if found.ID() != folder.ID() {
			t.Errorf("expected folder %s, got %s", folder.ID(), found.ID())
		}
	})

	t.Run("Delete leaves songs in the library", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		folders := NewFolderRepository(db)
		songs := NewSongRepository(db)

		folder := models.NewFolder(0, "Etudes")
		if err := folders.Create(folder); err != nil {
			t.Fatalf("failed to create folder: %v", err)
		}

		song := models.NewSong(0, "Etude No. 1", "Villa-Lobos")
		song.SetFolderID(folder.ID())
		if err := songs.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		if err := folders.Delete(folder.ID()); err != nil {
			t.Fatalf("failed to delete folder: %v", err)
		}
		if _, err := folders.GetByName("Etudes"); !errors.Is(err, shared.ErrFolderNotFound) {
			t.Errorf("expected ErrFolderNotFound, got %v", err)
		}

		remaining, err := songs.List(nil)
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if len(remaining) != 1 {
			t.Errorf("expected song to survive folder deletion, got %d songs", len(remaining))
		}
	})
}

func TestGoalRepository(t *testing.T) {
	t.Run("Create deactivates previous goal", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewGoalRepository(db)

		first := models.NewGoal(0, "user-1", 120, models.GoalPeriodWeek)
		if err := repo.Create(first); err != nil {
			t.Fatalf("failed to create first goal: %v", err)
		}

		second := models.NewGoal(0, "user-1", 180, models.GoalPeriodWeek)
		if err := repo.Create(second); err != nil {
			t.Fatalf("failed to create second goal: %v", err)
		}

		active, err := repo.GetActive("user-1", models.GoalPeriodWeek)
		if err != nil {
			t.Fatalf("failed to get active goal: %v", err)
		}
		if active.TargetMinutes() != 180 {
			t.Errorf("expected active goal target 180, got %d", active.TargetMinutes())
		}

		goals, err := repo.List(map[string]any{"user_id": "user-1"})
		if err != nil {
			t.Fatalf("failed to list goals: %v", err)
		}
		if len(goals) != 2 {
			t.Fatalf("expected 2 goals, got %d", len(goals))
		}
	})

	t.Run("GetActive missing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewGoalRepository(db)
		if _, err := repo.GetActive("user-1", models.GoalPeriodWeek); !errors.Is(err, shared.ErrGoalNotFound) {
			t.Errorf("expected ErrGoalNotFound, got %v", err)
		}
	})
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first, err := NextSequence(db, "songs")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}

	second, err := NextSequence(db, "songs")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}

	if second != first+1 {
		t.Errorf("expected sequence to increment: %d then %d", first, second)
	}
}
