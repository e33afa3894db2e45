package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"github.com/woodshedhq/woodshed/internal/events"
	"github.com/woodshedhq/woodshed/internal/repositories"
	"github.com/woodshedhq/woodshed/internal/shared"
	"github.com/woodshedhq/woodshed/internal/stats"
	"github.com/woodshedhq/woodshed/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	db       *sql.DB
	songs    *repositories.SongRepository
	folders  *repositories.FolderRepository
	sessions *repositories.SessionRepository
	goals    *repositories.GoalRepository
	stats    *stats.Service
	engine   *tasks.ExportEngine
	bus      *events.Bus
	notifier *events.Notifier
	logger   *log.Logger
	output   io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	DB     *sql.DB
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config:   opts.Config,
		bus:      events.NewBus(),
		notifier: events.NewNotifier(),
		logger:   opts.Logger,
		output:   opts.Output,
	}
	if opts.DB != nil {
		r.attach(opts.DB)
	}
	return r
}

// connect opens the configured database and builds the repositories.
// Commands that touch storage call it first; setup is the exception
// since it creates the database.
func (r *Runner) connect() error {
	if r.db != nil {
		return nil
	}

	if _, err := os.Stat(r.config.Database.Path); err != nil {
		return fmt.Errorf("%w: database not found at %s, run 'woodshed setup' first", shared.ErrMissingConfig, r.config.Database.Path)
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	r.attach(db)
	return nil
}

func (r *Runner) attach(db *sql.DB) {
	r.db = db
	r.songs = repositories.NewSongRepository(db)
	r.folders = repositories.NewFolderRepository(db)
	r.sessions = repositories.NewSessionRepository(db)
	r.goals = repositories.NewGoalRepository(db)
	r.stats = stats.NewService(r.sessions, r.goals, shared.SystemClock{})
	r.engine = tasks.NewExportEngine(r.sessions, r.songs)
}

// Close releases the database connection if one was opened.
func (r *Runner) Close() {
	if r.db != nil {
		r.db.Close()
		r.db = nil
	}
}

// SetLogger swaps the runner's logger, used when the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, practiceCommand, songCommand, folderCommand, sessionsCommand, statsCommand, goalCommand, metronomeCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
