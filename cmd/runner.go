package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/taskx/internal/repositories"
	"github.com/desertthunder/taskx/internal/services"
	"github.com/desertthunder/taskx/internal/session"
	"github.com/desertthunder/taskx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Session backends selectable with session.backend.
const (
	backendSQLite = "sqlite"
	backendFile   = "file"
	backendMemory = "memory"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The gateway and session store are built on first use from the loaded config.
type Runner struct {
	config  *shared.Config
	api     *services.APIService
	ownsAPI bool
	store   *session.Store
	closers []func() error
	logger  *log.Logger
	output  io.Writer
	input   *bufio.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	API     *services.APIService
	Session *session.Store
	Logger  *log.Logger
	Output  io.Writer
	Input   io.Reader
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
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	return &Runner{
		config: opts.Config,
		api:    opts.API,
		store:  opts.Session,
		logger: opts.Logger,
		output: opts.Output,
		input:  bufio.NewReader(opts.Input),
	}
}

func (r *Runner) command() *cli.Command {
	commands := authCommands(r)
	for _, fn := range [](func(*Runner) *cli.Command){
		tasksCommand, tuiCommand, setupCommand, devServerCommand,
	} {
		commands = append(commands, fn(r))
	}

	return &cli.Command{
		Name:    "taskx",
		Usage:   "Manage your tasks from the terminal",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.before,
		Commands: commands,
	}
}

// before loads the config file when present and applies the log level.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if err := r.configure(cmd.String("config"), cmd.Bool("debug")); err != nil {
		return ctx, err
	}
	return ctx, nil
}

func (r *Runner) configure(path string, debug bool) error {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			config, err := shared.LoadConfig(path)
			if err != nil {
				return err
			}
			r.config = config
			r.logger.Debug("config loaded", "path", path)
		}
	}

	if debug {
		shared.SetLogLevel(r.logger, log.DebugLevel)
		return nil
	}
	return shared.SetLogLevelString(r.logger, r.config.Log.Level)
}

// SetLogger replaces the logger, rebuilding the gateway when the runner created it.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	if r.ownsAPI {
		r.api, r.ownsAPI = nil, false
	}
}

// gateway returns the task backend client, creating it from config on first use.
func (r *Runner) gateway() *services.APIService {
	if r.api == nil {
		r.api = newAPIService(r.config.API, r.logger)
		r.ownsAPI = true
	}
	return r.api
}

func newAPIService(cfg shared.APIConfig, logger *log.Logger) *services.APIService {
	client := &http.Client{}
	if cfg.Timeout > 0 {
		client.Timeout = time.Duration(cfg.Timeout) * time.Second
	}

	opts := []services.Option{services.WithLogger(logger)}
	if cfg.RateLimit > 0 {
		opts = append(opts, services.WithRateLimit(cfg.RateLimit, cfg.Burst))
	}
	return services.NewAPIService(cfg.BaseURL, client, opts...)
}

// session returns the session store, opening its storage backend on first use.
func (r *Runner) session() (*session.Store, error) {
	if r.store != nil {
		return r.store, nil
	}

	storage, err := r.openStorage()
	if err != nil {
		return nil, err
	}

	r.store = session.NewStore(storage,
		session.WithKey(r.config.Session.Key),
		session.WithLogger(r.logger),
	)
	return r.store, nil
}

func (r *Runner) openStorage() (session.Storage, error) {
	switch backend := r.config.Session.Backend; backend {
	case backendSQLite, "":
		db, err := shared.OpenMigrated(r.config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open session database: %w", err)
		}
		r.closers = append(r.closers, db.Close)
		return repositories.NewStateRepository(db), nil
	case backendFile:
		return session.NewFileStorage(r.config.Session.Dir), nil
	case backendMemory:
		return session.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("%w: unknown session backend %q", shared.ErrInvalidConfig, backend)
	}
}

// Close releases resources opened by the runner.
func (r *Runner) Close() error {
	var errs []error
	for _, closeFn := range r.closers {
		errs = append(errs, closeFn())
	}
	r.closers = nil
	return errors.Join(errs...)
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
