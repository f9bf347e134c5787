package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/lapwatch/internal/config"
	"git.home.luguber.info/inful/lapwatch/internal/journal"
	"git.home.luguber.info/inful/lapwatch/internal/session"
	"git.home.luguber.info/inful/lapwatch/internal/stopwatch"
	"git.home.luguber.info/inful/lapwatch/internal/storage/bolt"
)

func testRoot(t *testing.T) *CLI {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "lapwatch.yaml")
	body := fmt.Sprintf("storage:\n  dir: %q\n", dir)
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))
	return &CLI{Config: cfgPath}
}

// loadSnapshot reads the persisted session the way the next invocation would.
func loadSnapshot(t *testing.T, root *CLI) stopwatch.Snapshot {
	t.Helper()
	cfg, err := config.Load(root.Config)
	require.NoError(t, err)
	kv, err := bolt.Open(cfg.SessionPath())
	require.NoError(t, err)
	defer func() { _ = kv.Close() }()
	return session.NewStore(kv).Load()
}

func TestStartStopPersistAcrossInvocations(t *testing.T) {
	root := testRoot(t)
	g := &Global{}

	require.NoError(t, (&StartCmd{}).Run(g, root))
	snap := loadSnapshot(t, root)
	require.True(t, snap.Running)
	require.Zero(t, snap.Elapsed, "one-shot commands never tick")

	require.NoError(t, (&StartCmd{}).Run(g, root), "starting a running session is benign")

	require.NoError(t, (&StopCmd{}).Run(g, root))
	snap = loadSnapshot(t, root)
	require.False(t, snap.Running)

	require.NoError(t, (&StopCmd{}).Run(g, root), "stopping a stopped session is benign")
}

func TestToggleFlips(t *testing.T) {
	root := testRoot(t)
	g := &Global{}

	require.NoError(t, (&ToggleCmd{}).Run(g, root))
	require.True(t, loadSnapshot(t, root).Running)

	require.NoError(t, (&ToggleCmd{}).Run(g, root))
	require.False(t, loadSnapshot(t, root).Running)
}

func TestLapRenameDelete(t *testing.T) {
	root := testRoot(t)
	g := &Global{}

	require.NoError(t, (&LapCmd{}).Run(g, root))
	require.NoError(t, (&LapCmd{}).Run(g, root))
	snap := loadSnapshot(t, root)
	require.Len(t, snap.Laps, 2)
	require.Equal(t, "Lap 2", snap.Laps[0].Name, "newest first")

	id := snap.Laps[0].ID
	require.NoError(t, (&RenameCmd{ID: id, Name: []string{"warm", "up"}}).Run(g, root))
	snap = loadSnapshot(t, root)
	require.Equal(t, "warm up", snap.Laps[0].Name)

	require.Error(t, (&RenameCmd{ID: "missing", Name: []string{"x"}}).Run(g, root))

	require.NoError(t, (&DeleteCmd{Positions: []int{0}}).Run(g, root))
	snap = loadSnapshot(t, root)
	require.Len(t, snap.Laps, 1)
	require.Equal(t, "Lap 1", snap.Laps[0].Name)
}

func TestResetRequiresYes(t *testing.T) {
	root := testRoot(t)
	g := &Global{}

	require.Error(t, (&ResetCmd{}).Run(g, root))

	require.NoError(t, (&StartCmd{}).Run(g, root))
	require.NoError(t, (&LapCmd{}).Run(g, root))
	require.NoError(t, (&ResetCmd{Yes: true}).Run(g, root))

	snap := loadSnapshot(t, root)
	require.False(t, snap.Running)
	require.Zero(t, snap.Elapsed)
	require.Len(t, snap.Laps, 1, "reset keeps laps")
}

func TestClearDeletesPersistedSession(t *testing.T) {
	root := testRoot(t)
	g := &Global{}

	require.NoError(t, (&StartCmd{}).Run(g, root))
	require.NoError(t, (&LapCmd{}).Run(g, root))

	require.Error(t, (&ClearCmd{}).Run(g, root))
	require.NoError(t, (&ClearCmd{Yes: true}).Run(g, root))

	snap := loadSnapshot(t, root)
	require.False(t, snap.Running)
	require.Zero(t, snap.Elapsed)
	require.Empty(t, snap.Laps)
}

func TestReadOnlyCommands(t *testing.T) {
	root := testRoot(t)
	g := &Global{}

	require.NoError(t, (&StatusCmd{}).Run(g, root))
	require.NoError(t, (&LapsCmd{}).Run(g, root))
	require.NoError(t, (&TotalCmd{}).Run(g, root))
	require.NoError(t, (&HistoryCmd{Limit: 5}).Run(g, root))
}

func TestHistoryRecordsOneShotMutations(t *testing.T) {
	root := testRoot(t)
	g := &Global{}

	require.NoError(t, (&StartCmd{}).Run(g, root))
	require.NoError(t, (&LapCmd{}).Run(g, root))
	require.NoError(t, (&StopCmd{}).Run(g, root))
	require.NoError(t, (&StatusCmd{}).Run(g, root), "read-only command adds nothing")

	cfg, err := config.Load(root.Config)
	require.NoError(t, err)
	db, err := journal.NewSQLiteJournal(cfg.JournalPath())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	entries, err := db.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, stopwatch.OpStop, entries[0].Op)
	require.Equal(t, stopwatch.OpLapSave, entries[1].Op)
	require.Equal(t, stopwatch.OpStart, entries[2].Op)
}

func TestHistoryLineFormatting(t *testing.T) {
	entry := journal.Entry{
		Op:       stopwatch.OpLapSave,
		Elapsed:  65230 * time.Millisecond,
		Running:  true,
		LapCount: 3,
		Detail:   map[string]string{"lap_name": "Lap 3", "lap_id": "abc"},
	}
	line := historyLine(entry)
	require.Contains(t, line, "lap.save")
	require.Contains(t, line, "01:05:23")
	require.Contains(t, line, "running")
	require.Contains(t, line, "laps=3")
	require.Contains(t, line, `lap_id="abc" lap_name="Lap 3"`)
}

func TestInitWritesLoadableConfig(t *testing.T) {
	dir := t.TempDir()
	root := &CLI{Config: filepath.Join(dir, "lapwatch.yaml")}
	g := &Global{}

	require.NoError(t, (&InitCmd{}).Run(g, root))
	require.FileExists(t, root.Config)

	require.Error(t, (&InitCmd{}).Run(g, root), "existing file needs --force")
	require.NoError(t, (&InitCmd{Force: true}).Run(g, root))

	cfg, err := config.Load(root.Config)
	require.NoError(t, err)
	require.Equal(t, "~/.lapwatch", cfg.Storage.Dir)
}
