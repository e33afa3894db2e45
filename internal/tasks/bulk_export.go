package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/woodshedhq/woodshed/internal/formatter"
	"github.com/woodshedhq/woodshed/internal/models"
	"github.com/woodshedhq/woodshed/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk practice-history exports.
type BulkExportOpts struct {
	UserID     string    // Owner of the exported history
	From       time.Time // Start of the export range, inclusive
	To         time.Time // End of the export range, exclusive (default: now)
	Format     string    // Export format: json, csv, markdown, txt
	OutputDir  string    // Base output directory (default: practice_export_{epoch})
	NumWorkers int       // Concurrent writers (default: 3)
	RateLimit  float64   // Store reads per second (default: 10)
}

// ChunkExportResult records the outcome for one calendar month.
type ChunkExportResult struct {
	Label    string   `json:"label"`
	Sessions int      `json:"sessions"`
	Success  bool     `json:"success"`
	Files    []string `json:"files,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// BulkExportResult summarizes a whole bulk export run.
type BulkExportResult struct {
	TotalChunks      int                 `json:"total_chunks"`
	SuccessfulChunks int                 `json:"successful_chunks"`
	FailedChunks     int                 `json:"failed_chunks"`
	TotalSessions    int                 `json:"total_sessions"`
	Format           string              `json:"format"`
	OutputDirectory  string              `json:"output_directory"`
	ManifestPath     string              `json:"manifest_path,omitempty"`
	Results          []ChunkExportResult `json:"results"`
}

type chunkJob struct {
	label  string
	export *formatter.Export
}

// BulkExport writes practice history to disk, one file set per calendar
// month, using a pool of concurrent writers.
//
// Store reads are rate limited so a large history cannot starve a live
// session of database access. Partial failures are recorded per chunk and a
// manifest file summarizing the run is written last.
func (e *ExportEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if e.sessions == nil {
		return nil, fmt.Errorf("%w: session store not initialized", shared.ErrInvalidConfig)
	}
	if opts.UserID == "" {
		return nil, fmt.Errorf("%w: user id required", shared.ErrMissingArgument)
	}

	if opts.To.IsZero() {
		opts.To = time.Now()
	}
	if opts.From.IsZero() {
		opts.From = opts.To.AddDate(-1, 0, 0)
	}
	if !opts.From.Before(opts.To) {
		return nil, fmt.Errorf("%w: empty export range", shared.ErrInvalidArgument)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("practice_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	chunks := monthChunks(opts.From, opts.To)
	result := &BulkExportResult{
		TotalChunks:     len(chunks),
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		Results:         make([]ChunkExportResult, 0, len(chunks)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan chunkJob, len(chunks))
	results := make(chan ChunkExportResult, len(chunks))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		titles := make(map[string]string)

		for i, chunk := range chunks {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				return
			}

			e.sendProgress(prog, loadSessionsUpdate(i+1, len(chunks), chunk.label))

			sessions, err := e.sessions.ListRange(opts.UserID, chunk.from, chunk.to)
			if err != nil {
				results <- ChunkExportResult{
					Label:   chunk.label,
					Success: false,
					Error:   fmt.Sprintf("failed to load sessions: %v", err),
				}
				continue
			}
			if len(sessions) == 0 {
				continue
			}

			jobs <- chunkJob{
				label:  chunk.label,
				export: e.buildExport(opts.UserID, chunk.from, chunk.to, sessions, titles),
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)
		result.TotalSessions += res.Sessions

		if res.Success {
			result.SuccessfulChunks++
			e.sendProgress(prog, chunkCompletedUpdate(completed, len(chunks), res.Label, len(res.Files)))
		} else {
			result.FailedChunks++
			e.sendProgress(prog, chunkFailedUpdate(completed, len(chunks), res.Label, fmt.Errorf("%s", res.Error)))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	e.sendProgress(prog, manifestUpdate(manifestPath))
	return result, nil
}

// buildExport resolves song titles and assembles the formatter input.
// Titles are cached across chunks; a missing song leaves the title empty.
func (e *ExportEngine) buildExport(
	userID string,
	from, to time.Time,
	sessions []*models.PracticeSession,
	titles map[string]string,
) *formatter.Export {
	export := &formatter.Export{
		UserID:  userID,
		From:    from,
		To:      to,
		Entries: make([]formatter.Entry, 0, len(sessions)),
	}

	for _, session := range sessions {
		entry := formatter.Entry{Session: session}
		if id := session.SongID(); id != "" && e.songs != nil {
			title, cached := titles[id]
			if !cached {
				if song, err := e.songs.Get(id); err == nil {
					title = song.Title()
				}
				titles[id] = title
			}
			entry.SongTitle = title
		}
		export.Entries = append(export.Entries, entry)
	}
	return export
}

// exportWorker is a worker goroutine that writes chunks from the jobs channel.
func (e *ExportEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan chunkJob,
	results chan<- ChunkExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.exportSingleChunk(job, opts)
	}
}

// exportSingleChunk writes one month of history in the requested format.
func (e *ExportEngine) exportSingleChunk(j chunkJob, opts BulkExportOpts) ChunkExportResult {
	result := ChunkExportResult{
		Label:    j.label,
		Sessions: len(j.export.Entries),
		Files:    []string{},
	}

	switch opts.Format {
	case "csv":
		baseFilepath := filepath.Join(opts.OutputDir, j.label)
		csvRes, err := formatter.WriteCSVExport(j.export, baseFilepath)
		if err != nil {
			result.Error = fmt.Sprintf("CSV export failed: %v", err)
			return result
		}
		result.Files = []string{csvRes.SessionsFile}
		if csvRes.SummaryFile != "" {
			result.Files = append(result.Files, csvRes.SummaryFile)
		}
		result.Success = true

	case "markdown":
		mdPath := filepath.Join(opts.OutputDir, j.label+".md")
		path, err := formatter.WriteMarkdownExport(j.export, mdPath)
		if err != nil {
			result.Error = fmt.Sprintf("markdown export failed: %v", err)
			return result
		}
		result.Files = []string{path}
		result.Success = true

	case "txt":
		txtPath := filepath.Join(opts.OutputDir, j.label+".txt")
		path, err := formatter.WriteTextExport(j.export, txtPath)
		if err != nil {
			result.Error = fmt.Sprintf("text export failed: %v", err)
			return result
		}
		result.Files = []string{path}
		result.Success = true

	case "json":
		fallthrough
	default:
		jsonPath := filepath.Join(opts.OutputDir, j.label+".json")
		data, err := shared.MarshalJSON(exportJSON(j.export), true)
		if err != nil {
			result.Error = fmt.Sprintf("JSON marshal failed: %v", err)
			return result
		}
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			result.Error = fmt.Sprintf("JSON write failed: %v", err)
			return result
		}
		result.Files = []string{jsonPath}
		result.Success = true
	}
	return result
}

type sessionJSON struct {
	Date    string `json:"date"`
	Song    string `json:"song,omitempty"`
	Minutes int    `json:"minutes"`
	Notes   string `json:"notes,omitempty"`
}

type chunkJSON struct {
	UserID   string        `json:"user_id"`
	From     string        `json:"from"`
	To       string        `json:"to"`
	Sessions []sessionJSON `json:"sessions"`
}

func exportJSON(export *formatter.Export) chunkJSON {
	out := chunkJSON{
		UserID:   export.UserID,
		From:     export.From.Format(time.DateOnly),
		To:       export.To.Format(time.DateOnly),
		Sessions: make([]sessionJSON, 0, len(export.Entries)),
	}
	for _, entry := range export.Entries {
		out.Sessions = append(out.Sessions, sessionJSON{
			Date:    entry.Session.PracticedAt().Format(time.DateOnly),
			Song:    entry.SongTitle,
			Minutes: entry.Session.DurationMinutes(),
			Notes:   entry.Session.Notes(),
		})
	}
	return out
}

type monthChunk struct {
	label string
	from  time.Time
	to    time.Time
}

// monthChunks splits [from, to) along calendar month boundaries.
func monthChunks(from, to time.Time) []monthChunk {
	var chunks []monthChunk
	cursor := from
	for cursor.Before(to) {
		monthEnd := time.Date(cursor.Year(), cursor.Month(), 1, 0, 0, 0, 0, cursor.Location()).AddDate(0, 1, 0)
		end := monthEnd
		if end.After(to) {
			end = to
		}
		chunks = append(chunks, monthChunk{
			label: cursor.Format("2006-01"),
			from:  cursor,
			to:    end,
		})
		cursor = end
	}
	return chunks
}
