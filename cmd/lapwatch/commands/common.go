package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/lapwatch/internal/config"
	"git.home.luguber.info/inful/lapwatch/internal/events"
	"git.home.luguber.info/inful/lapwatch/internal/journal"
	"git.home.luguber.info/inful/lapwatch/internal/logfields"
	"git.home.luguber.info/inful/lapwatch/internal/session"
	"git.home.luguber.info/inful/lapwatch/internal/stopwatch"
	"git.home.luguber.info/inful/lapwatch/internal/storage/bolt"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"lapwatch.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init    InitCmd    `cmd:"" help:"Write a default configuration file"`
	Run     RunCmd     `cmd:"" help:"Run the ticking stopwatch with console and HTTP surface"`
	Status  StatusCmd  `cmd:"" help:"Show the persisted session state"`
	Start   StartCmd   `cmd:"" help:"Start the clock"`
	Stop    StopCmd    `cmd:"" help:"Stop the clock"`
	Toggle  ToggleCmd  `cmd:"" help:"Start the clock if stopped, stop it if running"`
	Lap     LapCmd     `cmd:"" help:"Save the current time as a lap"`
	Laps    LapsCmd    `cmd:"" help:"List saved laps, newest first"`
	Rename  RenameCmd  `cmd:"" help:"Rename a lap"`
	Delete  DeleteCmd  `cmd:"" help:"Delete laps by list position"`
	Reset   ResetCmd   `cmd:"" help:"Zero the clock, keeping laps"`
	Total   TotalCmd   `cmd:"" help:"Show lap count and summed lap time"`
	History HistoryCmd `cmd:"" help:"Show recorded mutations, newest first"`
	Clear   ClearCmd   `cmd:"" help:"Delete the persisted session"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads and validates the configuration. Without --verbose the
// file's logging settings take over from the provisional CLI logger.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	if !root.Verbose {
		cfg.SetupLogging()
	}
	return cfg, nil
}

// withSession runs fn against the persisted session: load, mutate, flush,
// exit. The clock does not tick here; elapsed only moves in run mode.
// Journaling records the mutation when enabled; read-only commands pass
// journaling=false and skip opening the journal entirely.
//
// Save and close problems are logged, not returned: the mutation already
// applied in memory and the command's answer is still correct.
func withSession(root *CLI, journaling bool, fn func(*session.Session) error) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	kv, err := bolt.Open(cfg.SessionPath())
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	var (
		bus          *events.Bus
		db           *journal.SQLiteJournal
		stopRecorder func()
	)
	if journaling && cfg.JournalEnabled() {
		db, err = journal.NewSQLiteJournal(cfg.JournalPath())
		if err != nil {
			slog.Warn("journal unavailable, mutation will not be recorded", logfields.Error(err))
			db = nil
		} else {
			bus = events.NewBus()
		}
	}

	sess := session.New(session.Options{Store: session.NewStore(kv), Bus: bus})
	sess.Load()
	// The recorder attaches after Load so one-shot restores stay out of
	// the history.
	if db != nil {
		stopRecorder = journal.NewRecorder(db).Start(context.Background(), bus)
	}

	runErr := fn(sess)

	if stopRecorder != nil {
		stopRecorder()
	}
	if bus != nil {
		bus.Close()
	}
	if err := sess.Close(); err != nil {
		slog.Warn("final session save failed", logfields.Error(err))
	}
	if db != nil {
		if err := db.Close(); err != nil {
			slog.Warn("closing journal failed", logfields.Error(err))
		}
	}
	if err := kv.Close(); err != nil {
		slog.Warn("closing session store failed", logfields.Error(err))
	}
	return runErr
}

// statusLine renders the one-line summary used by status-style commands.
func statusLine(snap stopwatch.Snapshot) string {
	state := "stopped"
	if snap.Running {
		state = "running"
	}
	return fmt.Sprintf("%s  %s  %d laps", stopwatch.FormatElapsed(snap.Elapsed), state, len(snap.Laps))
}
