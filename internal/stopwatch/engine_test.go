package stopwatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEngineStartStop(t *testing.T) {
	e := NewEngine()
	require.False(t, e.Running())

	require.True(t, e.Start(), "first start should transition")
	require.True(t, e.Running())
	require.False(t, e.Start(), "second start should be a no-op")
	require.True(t, e.Running())

	require.True(t, e.Stop(), "first stop should transition")
	require.False(t, e.Running())
	require.False(t, e.Stop(), "second stop should be a no-op")
}

func TestEngineToggle(t *testing.T) {
	e := NewEngine()

	require.True(t, e.Toggle())
	require.True(t, e.Running())

	require.False(t, e.Toggle())
	require.False(t, e.Running())
}

func TestEngineAdvanceOnlyWhileRunning(t *testing.T) {
	e := NewEngine()

	require.False(t, e.Advance(50*time.Millisecond), "stopped engine should drop ticks")
	require.Equal(t, time.Duration(0), e.Elapsed())

	e.Start()
	require.True(t, e.Advance(50*time.Millisecond))
	require.True(t, e.Advance(30*time.Millisecond))
	require.Equal(t, 80*time.Millisecond, e.Elapsed())

	e.Stop()
	require.False(t, e.Advance(time.Second))
	require.Equal(t, 80*time.Millisecond, e.Elapsed(), "elapsed should freeze while stopped")
}

func TestEngineAdvanceClampsNegativeDelta(t *testing.T) {
	e := NewEngine()
	e.Start()
	e.Advance(100 * time.Millisecond)

	require.False(t, e.Advance(-time.Second))
	require.False(t, e.Advance(0))
	require.Equal(t, 100*time.Millisecond, e.Elapsed(), "elapsed time must never decrease")
}

func TestEngineReset(t *testing.T) {
	e := NewEngine()
	e.Start()
	e.Advance(2 * time.Second)

	e.Reset()

	require.False(t, e.Running())
	require.Equal(t, time.Duration(0), e.Elapsed())
}

func TestEngineRestore(t *testing.T) {
	e := NewEngine()

	e.Restore(90*time.Second, true)
	require.True(t, e.Running())
	require.Equal(t, 90*time.Second, e.Elapsed())

	e.Restore(-5*time.Second, false)
	require.False(t, e.Running())
	require.Equal(t, time.Duration(0), e.Elapsed(), "negative persisted elapsed should clamp to zero")
}
