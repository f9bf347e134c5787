// Package runner wires the long-lived run mode together: storage, session,
// event bus, journal, autosave, config watcher, HTTP server, and the
// interactive console.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"git.home.luguber.info/inful/lapwatch/internal/config"
	"git.home.luguber.info/inful/lapwatch/internal/events"
	"git.home.luguber.info/inful/lapwatch/internal/journal"
	"git.home.luguber.info/inful/lapwatch/internal/logfields"
	"git.home.luguber.info/inful/lapwatch/internal/metrics"
	"git.home.luguber.info/inful/lapwatch/internal/session"
	"git.home.luguber.info/inful/lapwatch/internal/storage"
	"git.home.luguber.info/inful/lapwatch/internal/storage/bolt"
	"git.home.luguber.info/inful/lapwatch/internal/tick"
)

// stopTimeout bounds graceful shutdown once the run ends.
const stopTimeout = 10 * time.Second

// Options select what a run wires up beyond the configuration file.
type Options struct {
	// ConfigPath is the file the live-reload watcher monitors. Empty
	// disables live reload.
	ConfigPath string

	// Ephemeral keeps all state in memory: nothing is persisted and the
	// journal is skipped.
	Ephemeral bool

	// NoConsole suppresses the interactive prompt; the run then serves
	// HTTP only until the context ends.
	NoConsole bool

	// Input and Output are the console streams, defaulting to stdin and
	// stdout.
	Input  io.Reader
	Output io.Writer
}

// Runner owns the run mode component graph. Components start in dependency
// order and shut down in reverse.
type Runner struct {
	cfg  *config.Config
	opts Options

	kv          storage.KV
	bus         *events.Bus
	sess        *session.Session
	hub         *Hub
	server      *Server
	watcher     *config.Watcher
	journalDB   *journal.SQLiteJournal
	journalStop func()

	// autosaveMu serializes reload-driven autosave swaps against shutdown.
	autosaveMu    sync.Mutex
	autosave      *Autosave
	autosaveEvery time.Duration
}

// New returns an unstarted runner for cfg.
func New(cfg *config.Config, opts Options) *Runner {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Runner{cfg: cfg, opts: opts}
}

// Run starts all components, blocks on the console (or the context when the
// console is disabled), and shuts everything down when the run ends.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.Start(ctx); err != nil {
		return err
	}

	if r.opts.NoConsole {
		<-ctx.Done()
	} else {
		console := NewConsole(r.sess, r.opts.Input, r.opts.Output)
		if err := console.Run(ctx); err != nil {
			slog.Error("console failed", logfields.Error(err))
		}
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return r.Shutdown(stopCtx)
}

// Start brings up storage, the session, and the optional services. If Start
// returns an error the runner has already been shut down.
func (r *Runner) Start(ctx context.Context) error {
	if err := r.start(ctx); err != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		if stopErr := r.Shutdown(stopCtx); stopErr != nil {
			slog.Warn("cleanup after failed start", logfields.Error(stopErr))
		}
		return err
	}
	return nil
}

func (r *Runner) start(ctx context.Context) error {
	if err := r.openStorage(); err != nil {
		return err
	}
	r.bus = events.NewBus()

	rec := metrics.Recorder(metrics.NoopRecorder{})
	var metricsHandler http.Handler
	if r.cfg.MetricsEnabled() {
		reg := metrics.NewRegistry()
		rec = metrics.NewPrometheusRecorder(reg)
		metricsHandler = metrics.HTTPHandler(reg)
	}

	r.sess = session.New(session.Options{
		Store:   session.NewStore(r.kv),
		Bus:     r.bus,
		Ticks:   tick.NewInterval(r.cfg.TickInterval()),
		Metrics: rec,
	})

	// The recorder subscribes before Load so the restore lands in the
	// journal too.
	if r.cfg.JournalEnabled() && !r.opts.Ephemeral {
		db, err := journal.NewSQLiteJournal(r.cfg.JournalPath())
		if err != nil {
			slog.Warn("journal unavailable, continuing without history", logfields.Error(err))
		} else {
			r.journalDB = db
			r.journalStop = journal.NewRecorder(db).Start(ctx, r.bus)
		}
	}

	r.sess.Load()

	r.hub = NewHub(rec)
	r.hub.Start(r.bus)

	autosave, err := NewAutosave(r.cfg.AutosaveInterval(), r.sess.Flush)
	if err != nil {
		return err
	}
	r.autosave = autosave
	r.autosaveEvery = r.cfg.AutosaveInterval()

	if r.opts.ConfigPath != "" {
		r.startWatcher(ctx)
	}

	if r.cfg.ServerEnabled() {
		srv := NewServer(r.sess, r.hub, r.cfg.Server.Addr, metricsHandler)
		if err := srv.Start(); err != nil {
			return err
		}
		r.server = srv
	}
	return nil
}

func (r *Runner) openStorage() error {
	if r.opts.Ephemeral {
		slog.Info("running ephemeral, nothing will be persisted")
		r.kv = storage.NewMemory()
		return nil
	}
	kv, err := bolt.Open(r.cfg.SessionPath())
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	r.kv = kv
	return nil
}

// startWatcher wires config live reload. Reload failures never take the run
// down; they only cost the live-reload feature.
func (r *Runner) startWatcher(ctx context.Context) {
	watcher, err := config.NewWatcher(r.opts.ConfigPath, r.applyReload)
	if err != nil {
		slog.Warn("config live reload unavailable", logfields.Error(err))
		return
	}
	if err := watcher.Start(ctx); err != nil {
		slog.Warn("config live reload unavailable", logfields.Error(err))
		watcher.Stop()
		return
	}
	r.watcher = watcher
}

// applyReload handles a changed config file. Logging and the autosave
// interval apply live; storage paths, the tick period, and the listen
// address are fixed for the lifetime of the run.
func (r *Runner) applyReload(cfg *config.Config) {
	cfg.SetupLogging()
	slog.Info("configuration reloaded",
		slog.String("log_level", cfg.Logging.Level),
		slog.String("log_format", cfg.Logging.Format))

	r.swapAutosave(cfg.AutosaveInterval())

	if cfg.SessionPath() != r.cfg.SessionPath() ||
		cfg.Server.Addr != r.cfg.Server.Addr ||
		cfg.TickInterval() != r.cfg.TickInterval() {
		slog.Info("storage, tick, and server changes take effect on restart")
	}
}

// swapAutosave replaces the autosave scheduler when the configured interval
// changed. A swap after shutdown has begun is a no-op.
func (r *Runner) swapAutosave(every time.Duration) {
	r.autosaveMu.Lock()
	defer r.autosaveMu.Unlock()

	if r.autosave == nil || every == r.autosaveEvery {
		return
	}
	next, err := NewAutosave(every, r.sess.Flush)
	if err != nil {
		slog.Warn("autosave interval change rejected", logfields.Error(err))
		return
	}
	if err := r.autosave.Stop(); err != nil {
		slog.Warn("stopping previous autosave scheduler", logfields.Error(err))
	}
	r.autosave = next
	r.autosaveEvery = every
	slog.Info("autosave interval updated", slog.Duration("interval", every))
}

// Session exposes the running session, mainly for the console and tests.
func (r *Runner) Session() *session.Session {
	return r.sess
}

// Addr returns the HTTP listen address, or "" when the server is disabled.
func (r *Runner) Addr() string {
	if r.server == nil {
		return ""
	}
	return r.server.Addr()
}

// Shutdown stops components in reverse start order and closes storage last
// so the final session flush still has somewhere to land. Safe to call on a
// partially started runner.
func (r *Runner) Shutdown(ctx context.Context) error {
	var errs []error

	if r.server != nil {
		if err := r.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop http server: %w", err))
		}
		r.server = nil
	}
	if r.watcher != nil {
		r.watcher.Stop()
		r.watcher = nil
	}
	r.autosaveMu.Lock()
	autosave := r.autosave
	r.autosave = nil
	r.autosaveMu.Unlock()
	if autosave != nil {
		if err := autosave.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	if r.hub != nil {
		r.hub.Shutdown()
		r.hub = nil
	}
	if r.journalStop != nil {
		r.journalStop()
		r.journalStop = nil
	}
	if r.bus != nil {
		r.bus.Close()
		r.bus = nil
	}
	if r.sess != nil {
		if err := r.sess.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close session: %w", err))
		}
		r.sess = nil
	}
	if r.journalDB != nil {
		if err := r.journalDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close journal: %w", err))
		}
		r.journalDB = nil
	}
	if r.kv != nil {
		if err := r.kv.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close session store: %w", err))
		}
		r.kv = nil
	}
	return errors.Join(errs...)
}
