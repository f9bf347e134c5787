package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"git.home.luguber.info/inful/lapwatch/internal/journal"
	"git.home.luguber.info/inful/lapwatch/internal/logfields"
	"git.home.luguber.info/inful/lapwatch/internal/session"
	"git.home.luguber.info/inful/lapwatch/internal/stopwatch"
	"git.home.luguber.info/inful/lapwatch/internal/storage/bolt"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" help:"Maximum entries to show" default:"20"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if !cfg.JournalEnabled() {
		fmt.Println("journal is disabled in the configuration")
		return nil
	}

	db, err := journal.NewSQLiteJournal(cfg.JournalPath())
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Warn("closing journal failed", logfields.Error(err))
		}
	}()

	entries, err := db.Recent(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no history recorded")
		return nil
	}
	for _, entry := range entries {
		fmt.Println(historyLine(entry))
	}
	return nil
}

func historyLine(entry journal.Entry) string {
	state := "stopped"
	if entry.Running {
		state = "running"
	}
	line := fmt.Sprintf("%s  %-10s  %s  %s  laps=%d",
		entry.At.Format(time.DateTime), entry.Op,
		stopwatch.FormatElapsed(entry.Elapsed), state, entry.LapCount)

	if len(entry.Detail) == 0 {
		return line
	}
	keys := make([]string, 0, len(entry.Detail))
	for k := range entry.Detail {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, entry.Detail[k])
	}
	return line + "  " + strings.Join(parts, " ")
}

// ClearCmd implements the 'clear' command.
type ClearCmd struct {
	Yes bool `help:"Clear without asking"`
}

func (c *ClearCmd) Run(_ *Global, root *CLI) error {
	if !c.Yes {
		return errors.New("refusing to clear without --yes")
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	kv, err := bolt.Open(cfg.SessionPath())
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			slog.Warn("closing session store failed", logfields.Error(err))
		}
	}()

	if err := session.NewStore(kv).Clear(); err != nil {
		return err
	}
	fmt.Println("session cleared")
	return nil
}
