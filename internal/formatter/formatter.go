// package formatter provides functions to export practice history to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/woodshedhq/woodshed/internal/models"
	"github.com/woodshedhq/woodshed/internal/shared"
	"github.com/woodshedhq/woodshed/internal/stats"
)

// Entry pairs a session with its resolved song title. Sessions logged
// without a song carry an empty title.
type Entry struct {
	Session   *models.PracticeSession
	SongTitle string
}

// Export is a slice of practice history prepared for output.
type Export struct {
	UserID  string
	From    time.Time
	To      time.Time
	Entries []Entry
	Summary *stats.Summary
}

// TotalMinutes sums the practiced minutes across all entries.
func (e *Export) TotalMinutes() int {
	total := 0
	for _, entry := range e.Entries {
		total += entry.Session.DurationMinutes()
	}
	return total
}

// ExportToCSV converts an Export to CSV format with columns: Date, Song, Minutes, Notes
func ExportToCSV(export *Export) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Date", "Song", "Minutes", "Notes"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range export.Entries {
		record := []string{
			entry.Session.PracticedAt().Format(time.DateOnly),
			entry.SongTitle,
			strconv.Itoa(entry.Session.DurationMinutes()),
			entry.Session.Notes(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an Export to a Markdown practice log
func ExportToMarkdown(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Practice Log %s to %s\n\n",
		export.From.Format(time.DateOnly), export.To.Format(time.DateOnly)))

	buf.WriteString(fmt.Sprintf("**Sessions**: %d\n", len(export.Entries)))
	buf.WriteString(fmt.Sprintf("**Total**: %s\n\n", shared.FormatMinutes(export.TotalMinutes())))

	if export.Summary != nil {
		buf.WriteString(fmt.Sprintf("**Streak**: %d days\n\n", export.Summary.StreakDays))
	}

	buf.WriteString("## Sessions\n\n")
	for i, entry := range export.Entries {
		title := entry.SongTitle
		if title == "" {
			title = "Free practice"
		}
		line := fmt.Sprintf("%d. %s - %s [%s]", i+1,
			entry.Session.PracticedAt().Format(time.DateOnly), title,
			shared.FormatMinutes(entry.Session.DurationMinutes()))
		if notes := entry.Session.Notes(); notes != "" {
			line += fmt.Sprintf(": %s", notes)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts an Export to plain text format
func ExportToText(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Practice log: %s to %s\n",
		export.From.Format(time.DateOnly), export.To.Format(time.DateOnly)))
	buf.WriteString(fmt.Sprintf("Sessions: %d\n", len(export.Entries)))
	buf.WriteString(fmt.Sprintf("Total: %s\n\n", shared.FormatMinutes(export.TotalMinutes())))

	for i, entry := range export.Entries {
		title := entry.SongTitle
		if title == "" {
			title = "Free practice"
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%s)\n", i+1,
			entry.Session.PracticedAt().Format(time.DateOnly), title,
			shared.FormatMinutes(entry.Session.DurationMinutes())))
	}

	return buf.Bytes(), nil
}

// ToSummaryJSON generates a JSON representation of a stats summary
func ToSummaryJSON(summary *stats.Summary) ([]byte, error) {
	return shared.MarshalJSON(summary, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	SessionsFile string
	SummaryFile  string
}

// WriteCSVExport writes an export to CSV with an accompanying summary JSON file.
//
// Defaults to the user ID as the base filename & creates {base}_sessions.csv
// and, when a summary is attached, {base}_summary.json
func WriteCSVExport(export *Export, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.UserID
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	sessionsFile := baseFilepath + "_sessions.csv"
	if err := os.WriteFile(sessionsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	result := &CSVExportResult{SessionsFile: sessionsFile}

	if export.Summary != nil {
		summaryJSON, err := ToSummaryJSON(export.Summary)
		if err != nil {
			return nil, fmt.Errorf("failed to generate summary JSON: %w", err)
		}
		summaryFile := baseFilepath + "_summary.json"
		if err := os.WriteFile(summaryFile, summaryJSON, 0644); err != nil {
			return nil, fmt.Errorf("failed to write summary file: %w", err)
		}
		result.SummaryFile = summaryFile
	}

	return result, nil
}

// WriteMarkdownExport writes an export to {filepath} in Markdown form.
//
// Defaults to {userID}_practice.md as the filename.
func WriteMarkdownExport(export *Export, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_practice.md", export.UserID)
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport writes an export to plain text.
//
// Defaults to {userID}_practice.txt as the filename.
func WriteTextExport(export *Export, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_practice.txt", export.UserID)
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
