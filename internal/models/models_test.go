package models

import (
	"testing"
	"time"
)

func TestSongValidate(t *testing.T) {
	tc := []struct {
		name    string
		mutate  func(*Song)
		wantErr bool
	}{
		{name: "valid defaults", mutate: func(s *Song) {}, wantErr: false},
		{name: "missing title", mutate: func(s *Song) { s.SetTitle("") }, wantErr: true},
		{name: "bpm too low", mutate: func(s *Song) { s.SetMetronomeBPM(39) }, wantErr: true},
		{name: "bpm too high", mutate: func(s *Song) { s.SetMetronomeBPM(201) }, wantErr: true},
		{name: "bpm lower bound", mutate: func(s *Song) { s.SetMetronomeBPM(40) }, wantErr: false},
		{name: "bpm upper bound", mutate: func(s *Song) { s.SetMetronomeBPM(200) }, wantErr: false},
		{name: "invalid time signature", mutate: func(s *Song) { s.SetTimeSignature(5) }, wantErr: true},
		{name: "waltz time", mutate: func(s *Song) { s.SetTimeSignature(3) }, wantErr: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			song := NewSong(1, "Autumn Leaves", "Joseph Kosma")
			tt.mutate(song)
			err := song.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestPracticeSessionValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		s := NewPracticeSession(1, "user-1", "song-1", 5, time.Now())
		if err := s.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("zero duration rejected", func(t *testing.T) {
		s := NewPracticeSession(1, "user-1", "song-1", 0, time.Now())
		if err := s.Validate(); err == nil {
			t.Error("expected error for zero duration")
		}
	})

	t.Run("missing user", func(t *testing.T) {
		s := NewPracticeSession(1, "", "song-1", 5, time.Now())
		if err := s.Validate(); err == nil {
			t.Error("expected error for missing user")
		}
	})

	t.Run("songless session allowed", func(t *testing.T) {
		s := NewPracticeSession(1, "user-1", "", 5, time.Now())
		if err := s.Validate(); err != nil {
			t.Errorf("freeform sessions should validate: %v", err)
		}
	})
}

func TestGoalValidate(t *testing.T) {
	t.Run("valid weekly goal", func(t *testing.T) {
		g := NewGoal(1, "user-1", 150, GoalPeriodWeek)
		if err := g.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("zero target rejected", func(t *testing.T) {
		g := NewGoal(1, "user-1", 0, GoalPeriodWeek)
		if err := g.Validate(); err == nil {
			t.Error("expected error for zero target")
		}
	})

	t.Run("unknown period rejected", func(t *testing.T) {
		g := NewGoal(1, "user-1", 30, "month")
		if err := g.Validate(); err == nil {
			t.Error("expected error for unknown period")
		}
	})
}

func TestFolderValidate(t *testing.T) {
	folder := NewFolder(1, "Jazz Standards")
	if err := folder.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	folder.SetName("")
	if err := folder.Validate(); err == nil {
		t.Error("expected error for empty name")
	}
}
