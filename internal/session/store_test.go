package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/lapwatch/internal/stopwatch"
	"git.home.luguber.info/inful/lapwatch/internal/storage"
)

func TestEncodeDecodeLapsRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)
	in := []stopwatch.Lap{
		{ID: "b", Name: "sprint", CreatedAt: created.Add(time.Minute), Elapsed: 3750 * time.Millisecond},
		{ID: "a", Name: "", CreatedAt: created, Elapsed: 2500 * time.Millisecond},
	}

	data, err := EncodeLaps(in)
	require.NoError(t, err)

	out, err := DecodeLaps(data)
	require.NoError(t, err)
	require.Len(t, out, 2)

	for i := range in {
		require.Equal(t, in[i].ID, out[i].ID)
		require.Equal(t, in[i].Name, out[i].Name)
		require.Equal(t, in[i].Elapsed, out[i].Elapsed)
		require.True(t, in[i].CreatedAt.Equal(out[i].CreatedAt),
			"lap %d createdAt drifted: %v vs %v", i, in[i].CreatedAt, out[i].CreatedAt)
	}
}

func TestEncodeLapsWireFormat(t *testing.T) {
	lap := stopwatch.Lap{
		ID:        "lap-1",
		Name:      "warmup",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Elapsed:   65230 * time.Millisecond,
	}

	data, err := EncodeLaps([]stopwatch.Lap{lap})
	require.NoError(t, err)
	require.JSONEq(t,
		`[{"id":"lap-1","name":"warmup","createdAt":"2026-01-02T03:04:05Z","elapsed":65.23}]`,
		string(data))
}

func TestDecodeLapsRejectsGarbage(t *testing.T) {
	_, err := DecodeLaps([]byte("{definitely not json"))
	require.Error(t, err)
}

func TestDecodeLapsClampsBadElapsed(t *testing.T) {
	laps, err := DecodeLaps([]byte(`[{"id":"a","name":"x","createdAt":"2026-01-02T03:04:05Z","elapsed":-4}]`))
	require.NoError(t, err)
	require.Equal(t, time.Duration(0), laps[0].Elapsed)
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(storage.NewMemory())

	snap := stopwatch.Snapshot{
		Running: true,
		Elapsed: 65230 * time.Millisecond,
		Laps: []stopwatch.Lap{
			{ID: "a", Name: "one", CreatedAt: time.Now().UTC(), Elapsed: 1250 * time.Millisecond},
		},
	}
	require.NoError(t, store.Save(snap))

	got := store.Load()
	require.True(t, got.Running)
	require.Equal(t, snap.Elapsed, got.Elapsed)
	require.Len(t, got.Laps, 1)
	require.Equal(t, "a", got.Laps[0].ID)
	require.Equal(t, 1250*time.Millisecond, got.Laps[0].Elapsed)
}

func TestStoreLoadEmptyStore(t *testing.T) {
	store := NewStore(storage.NewMemory())

	got := store.Load()
	require.False(t, got.Running)
	require.Equal(t, time.Duration(0), got.Elapsed)
	require.Empty(t, got.Laps)
}

func TestStoreLoadDegradesPerKey(t *testing.T) {
	kv := storage.NewMemory()
	store := NewStore(kv)

	// A valid elapsed value next to a corrupt lap payload: the corrupt key
	// falls back alone.
	require.NoError(t, kv.SetNumber(KeyElapsed, 12.5))
	require.NoError(t, kv.SetBytes(KeyLaps, []byte("{broken")))

	got := store.Load()
	require.Equal(t, 12500*time.Millisecond, got.Elapsed)
	require.Empty(t, got.Laps)
}

func TestStoreLoadClampsNegativeElapsed(t *testing.T) {
	kv := storage.NewMemory()
	store := NewStore(kv)

	require.NoError(t, kv.SetNumber(KeyElapsed, -7))

	got := store.Load()
	require.Equal(t, time.Duration(0), got.Elapsed)
}

func TestStoreClear(t *testing.T) {
	kv := storage.NewMemory()
	store := NewStore(kv)

	require.NoError(t, store.Save(stopwatch.Snapshot{Elapsed: time.Second, Running: true}))
	require.NoError(t, store.Clear())

	got := store.Load()
	require.False(t, got.Running)
	require.Equal(t, time.Duration(0), got.Elapsed)
	require.Empty(t, got.Laps)
}

// brokenKV fails every operation, standing in for a store on a dead disk.
type brokenKV struct{}

var errDisk = errors.New("disk is gone")

func (brokenKV) SetNumber(string, float64) error { return errDisk }
func (brokenKV) Number(string) (float64, error)  { return 0, errDisk }
func (brokenKV) SetBool(string, bool) error      { return errDisk }
func (brokenKV) Bool(string) (bool, error)       { return false, errDisk }
func (brokenKV) SetBytes(string, []byte) error   { return errDisk }
func (brokenKV) Bytes(string) ([]byte, error)    { return nil, errDisk }
func (brokenKV) Delete(string) error             { return errDisk }
func (brokenKV) Close() error                    { return nil }

func TestStoreSaveReportsFirstError(t *testing.T) {
	store := NewStore(brokenKV{})
	err := store.Save(stopwatch.Snapshot{})
	require.ErrorIs(t, err, errDisk)
}

func TestStoreLoadNeverFails(t *testing.T) {
	store := NewStore(brokenKV{})

	got := store.Load()
	require.False(t, got.Running)
	require.Equal(t, time.Duration(0), got.Elapsed)
	require.Empty(t, got.Laps)
}
