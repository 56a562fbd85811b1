package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/tinypub/internal/config"
	"git.home.luguber.info/inful/tinypub/internal/logfields"
	"git.home.luguber.info/inful/tinypub/internal/metrics"
	"git.home.luguber.info/inful/tinypub/internal/state"
	"git.home.luguber.info/inful/tinypub/internal/tinypub"
	"git.home.luguber.info/inful/tinypub/internal/watch"
)

const metricsShutdownTimeout = 5 * time.Second

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Interval time.Duration `help:"Rebuild periodically at this interval (overrides watch.interval, 0 disables)"`
	Listen   string        `help:"Serve /metrics on this address (overrides metrics.listen)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return w.run(ctx, root.Config)
}

func (w *WatchCmd) run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	store, err := state.Open(ctx, cfg.State)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	reg := prom.NewRegistry()
	rb := &rebuilder{
		configPath: configPath,
		stateCfg:   cfg.State,
		store:      store,
		registry:   reg,
		recorder:   metrics.NewPrometheusRecorder(reg),
	}
	daemon := watch.NewDaemon(rb.build)

	contentDir := cfg.Content.Directory
	if _, err := os.Stat(contentDir); err != nil {
		slog.Warn("Content directory not found; only watching configuration", logfields.Path(contentDir))
		contentDir = ""
	}
	watcher, err := watch.NewWatcher(configPath, contentDir, cfg.Watch.Debounce, daemon.Trigger)
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		_ = watcher.Stop()
		return err
	}
	defer func() { _ = watcher.Stop() }()

	interval := cfg.Watch.Interval
	if w.Interval > 0 {
		interval = w.Interval
	}
	if interval > 0 {
		scheduler, err := watch.NewScheduler()
		if err != nil {
			return err
		}
		if _, err := scheduler.SchedulePeriodicBuild(interval, daemon.Trigger); err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				slog.Warn("Failed to stop scheduler", logfields.Error(err))
			}
		}()
	}

	listen := cfg.Metrics.Listen
	if w.Listen != "" {
		listen = w.Listen
	}
	if listen != "" {
		srv := serveMetrics(listen, reg)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	fmt.Fprintf(stdout, "Watching %s for changes (Ctrl+C to stop)\n", cfg.Content.Directory)
	err = daemon.Run(ctx)
	builds, lastErr := daemon.Stats()
	slog.Info("Watch stopped", slog.Int("builds", builds), logfields.Error(lastErr))
	return err
}

// rebuilder reloads the configuration before every build so edits take effect
// without a restart. The state store is opened once.
type rebuilder struct {
	configPath string
	stateCfg   config.StateConfig
	store      state.Store
	registry   *prom.Registry
	recorder   metrics.Recorder
}

func (r *rebuilder) build(ctx context.Context) error {
	cfg, err := config.Load(r.configPath)
	if err != nil {
		return err
	}
	if !reflect.DeepEqual(cfg.State, r.stateCfg) {
		slog.Warn("State settings changed; restart watch to use the new store", logfields.Backend(r.store.Backend()))
	}

	result, err := tinypub.NewPipeline(cfg, r.store, r.recorder).Build(ctx)
	if path := cfg.Metrics.Textfile; path != "" {
		if werr := metrics.WriteTextfile(path, r.registry); werr != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(werr))
		}
	}
	if err != nil {
		return err
	}
	if result.Executed() > 0 {
		fmt.Fprintf(stdout, "Rebuilt %d documents\n", result.Executed())
	}
	return nil
}

func serveMetrics(addr string, reg *prom.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		slog.Info("Serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	return srv
}
