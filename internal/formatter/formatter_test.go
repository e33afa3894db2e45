package formatter

import (
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/woodshedhq/woodshed/internal/models"
	"github.com/woodshedhq/woodshed/internal/stats"
	wstesting "github.com/woodshedhq/woodshed/internal/testing"
)

func testExport() *Export {
	from := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	first := models.NewPracticeSession(1, "local", "song-1", 25, from.Add(9*time.Hour))
	first.SetNotes("slow work on the bridge")
	second := models.NewPracticeSession(2, "local", "", 70, from.Add(33*time.Hour))

	return &Export{
		UserID: "local",
		From:   from,
		To:     from.AddDate(0, 0, 7),
		Entries: []Entry{
			{Session: first, SongTitle: "Autumn Leaves"},
			{Session: second},
		},
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(testExport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d rows, want header plus 2", len(records))
	}
	if records[0][0] != "Date" || records[0][2] != "Minutes" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][1] != "Autumn Leaves" || records[1][2] != "25" {
		t.Errorf("unexpected first row: %v", records[1])
	}
	if records[2][1] != "" {
		t.Errorf("songless session should have an empty song column, got %q", records[2][1])
	}
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown(testExport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "# Practice Log 2025-06-02 to 2025-06-09") {
		t.Error("missing title")
	}
	if !strings.Contains(out, "**Total**: 1h 35m") {
		t.Errorf("missing total, output:\n%s", out)
	}
	if !strings.Contains(out, "Autumn Leaves") {
		t.Error("missing song title")
	}
	if !strings.Contains(out, "Free practice") {
		t.Error("songless session should render as free practice")
	}
	if !strings.Contains(out, "slow work on the bridge") {
		t.Error("missing notes")
	}
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(testExport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "Sessions: 2") {
		t.Error("missing session count")
	}
	if !strings.Contains(out, "1. 2025-06-02 - Autumn Leaves (25m)") {
		t.Errorf("unexpected first line, output:\n%s", out)
	}
}

func TestWriteExports(t *testing.T) {
	t.Run("csv with summary", func(t *testing.T) {
		dir := t.TempDir()
		export := testExport()
		export.Summary = &stats.Summary{TodayMinutes: 25, WeekMinutes: 95, StreakDays: 2}

		result, err := WriteCSVExport(export, filepath.Join(dir, "log"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		wstesting.AssertFileExists(t, result.SessionsFile)
		wstesting.AssertFileExists(t, result.SummaryFile)

		if !strings.Contains(wstesting.MustReadFile(t, result.SummaryFile), "\"streak_days\": 2") {
			t.Error("summary JSON missing streak")
		}
	})

	t.Run("csv without summary skips the json file", func(t *testing.T) {
		dir := t.TempDir()
		result, err := WriteCSVExport(testExport(), filepath.Join(dir, "log"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.SummaryFile != "" {
			t.Errorf("unexpected summary file %q", result.SummaryFile)
		}
	})

	t.Run("markdown default filename uses user id", func(t *testing.T) {
		wd := wstesting.MustGetwd(t)
		wstesting.MustChdir(t, t.TempDir())
		defer wstesting.MustChdir(t, wd)

		path, err := WriteMarkdownExport(testExport(), "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != "local_practice.md" {
			t.Errorf("path = %q, want local_practice.md", path)
		}
		wstesting.AssertFileExists(t, path)
	})

	t.Run("text export", func(t *testing.T) {
		dir := t.TempDir()
		path, err := WriteTextExport(testExport(), filepath.Join(dir, "out.txt"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		wstesting.AssertFileExists(t, path)
	})
}
