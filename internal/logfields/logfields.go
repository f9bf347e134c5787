package logfields

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/lapwatch/internal/stopwatch"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyOp        = "op"
	KeyLapID     = "lap_id"
	KeyLapName   = "lap_name"
	KeyLapCount  = "lap_count"
	KeyElapsed   = "elapsed"
	KeyRunning   = "running"
	KeyKey       = "key"
	KeyPath      = "path"
	KeyAddr      = "addr"
	KeyComponent = "component"
	KeyError     = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Op(op string) slog.Attr        { return slog.String(KeyOp, op) }
func LapID(id string) slog.Attr     { return slog.String(KeyLapID, id) }
func LapName(name string) slog.Attr { return slog.String(KeyLapName, name) }
func LapCount(n int) slog.Attr      { return slog.Int(KeyLapCount, n) }
func Running(r bool) slog.Attr      { return slog.Bool(KeyRunning, r) }
func Key(k string) slog.Attr        { return slog.String(KeyKey, k) }
func Path(p string) slog.Attr       { return slog.String(KeyPath, p) }
func Addr(a string) slog.Attr       { return slog.String(KeyAddr, a) }
func Component(c string) slog.Attr  { return slog.String(KeyComponent, c) }

// Elapsed logs the stopwatch display form rather than Go duration syntax so
// log lines match what users see on screen.
func Elapsed(d time.Duration) slog.Attr {
	return slog.String(KeyElapsed, stopwatch.FormatElapsed(d))
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
