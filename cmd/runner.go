package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songbook/internal/repositories"
	"github.com/desertthunder/songbook/internal/search"
	"github.com/desertthunder/songbook/internal/services"
	"github.com/desertthunder/songbook/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	lookupEnv  func(string) (string, bool)
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A non-nil Config is used as-is and skips loading config.toml and the environment.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	LookupEnv  func(string) (string, bool)
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		lookupEnv:  opts.LookupEnv,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the runner's logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) { r.logger = l }

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, exportCommand, searchCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Configure is the root Before hook: it resolves the configuration every command runs with.
//
// .env files are loaded first so their values reach [shared.Config.ApplyEnv]. A missing config file
// falls back to the embedded defaults.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	if r.config != nil {
		return ctx, nil
	}

	if err := shared.LoadEnv(); err != nil {
		r.logger.Warn("ignoring .env", "error", err)
	}

	config, err := shared.LoadConfig(r.configPath)
	switch {
	case errors.Is(err, shared.ErrMissingConfig):
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		config = shared.DefaultConfig()
	case err != nil:
		return ctx, err
	}

	if err := config.ApplyEnv(r.lookupEnv); err != nil {
		return ctx, err
	}

	r.config = config
	return ctx, nil
}

// openStore opens the configured database, brings its schema up to date and wraps it in a [repositories.Store].
//
// The caller owns the returned [sql.DB] and must close it.
func (r *Runner) openStore() (*repositories.Store, *sql.DB, error) {
	db, dialect, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	applied, err := shared.RunMigrations(db, dialect)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if applied > 0 {
		r.logger.Info("applied migrations", "count", applied)
	}

	return repositories.NewStore(db, dialect), db, nil
}

// openIndex connects to Typesense when search is enabled. It returns nil, nil when search is disabled.
func (r *Runner) openIndex(ctx context.Context) (*search.TypesenseIndex, error) {
	if !r.config.Search.Enabled {
		return nil, nil
	}

	index, err := search.NewTypesenseIndex(r.config.Search, shared.WithLogger(r.logger, "component", "search"))
	if err != nil {
		return nil, err
	}
	if err := index.EnsureCollection(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	return index, nil
}

// catalog builds the artist and song services over store. index may be nil.
func (r *Runner) catalog(store *repositories.Store, index services.SongIndex) (*services.ArtistService, *services.SongService) {
	artists := repositories.NewArtistRepository(store)
	songs := repositories.NewSongRepository(store)
	songService := services.NewSongService(artists, songs, index, shared.WithLogger(r.logger, "service", "songs"))
	return services.NewArtistService(artists, songService), songService
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.output, format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
