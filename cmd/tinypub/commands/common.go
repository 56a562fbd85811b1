package commands

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/tinypub/internal/config"
	"git.home.luguber.info/inful/tinypub/internal/logfields"
	"git.home.luguber.info/inful/tinypub/internal/metrics"
	"git.home.luguber.info/inful/tinypub/internal/state"
	"git.home.luguber.info/inful/tinypub/internal/tinypub"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"tinypub.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Write the ActivityPub documents for every stale job"`
	Jobs  JobsCmd  `cmd:"" help:"List build jobs and whether they would run"`
	Init  InitCmd  `cmd:"" help:"Initialize a new configuration file"`
	Watch WatchCmd `cmd:"" help:"Rebuild whenever posts or configuration change"`
	State StateCmd `cmd:"" help:"Inspect or clear recorded job state"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel honours --verbose first, then TINYPUB_LOG_LEVEL.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("TINYPUB_LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// session bundles everything a command needs to drive one configuration.
type session struct {
	cfg      *config.Config
	store    state.Store
	registry *prom.Registry
	pipeline *tinypub.Pipeline
}

func openSession(ctx context.Context, configPath string) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	store, err := state.Open(ctx, cfg.State)
	if err != nil {
		return nil, err
	}
	slog.Debug("Opened state store", logfields.Backend(store.Backend()))

	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	return &session{
		cfg:      cfg,
		store:    store,
		registry: reg,
		pipeline: tinypub.NewPipeline(cfg, store, rec),
	}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		slog.Warn("Failed to close state store", logfields.Backend(s.store.Backend()), logfields.Error(err))
	}
}

// exportMetrics writes the textfile when configured.
func (s *session) exportMetrics() {
	path := s.cfg.Metrics.Textfile
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path, s.registry); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(err))
	}
}
