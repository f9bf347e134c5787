package tick

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIntervalDeliversMeasuredDeltas(t *testing.T) {
	src := NewInterval(5 * time.Millisecond)

	var mu sync.Mutex
	var total time.Duration
	var count int

	fired := make(chan struct{}, 64)
	src.Arm(func(delta time.Duration) {
		mu.Lock()
		total += delta
		count++
		mu.Unlock()
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	defer src.Disarm()

	for i := 0; i < 3; i++ {
		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for tick")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, count, 3)
	require.Greater(t, total, time.Duration(0), "measured deltas should accumulate")
}

func TestIntervalArmTwiceKeepsOneLoop(t *testing.T) {
	src := NewInterval(5 * time.Millisecond)

	var first, second atomic.Int64
	src.Arm(func(time.Duration) { first.Add(1) })
	src.Arm(func(time.Duration) { second.Add(1) })
	defer src.Disarm()

	require.Eventually(t, func() bool { return first.Load() >= 2 },
		2*time.Second, time.Millisecond)
	require.Equal(t, int64(0), second.Load(), "second Arm must not start another loop")
}

func TestIntervalDisarmStopsDelivery(t *testing.T) {
	src := NewInterval(5 * time.Millisecond)

	var count atomic.Int64
	src.Arm(func(time.Duration) { count.Add(1) })

	require.Eventually(t, func() bool { return count.Load() >= 1 },
		2*time.Second, time.Millisecond)

	src.Disarm()
	settled := count.Load()

	time.Sleep(30 * time.Millisecond)
	require.Equal(t, settled, count.Load(), "ticks after Disarm returned")

	// Second Disarm is a no-op.
	src.Disarm()
}

func TestIntervalRearmAfterDisarm(t *testing.T) {
	src := NewInterval(5 * time.Millisecond)

	var count atomic.Int64
	src.Arm(func(time.Duration) { count.Add(1) })
	require.Eventually(t, func() bool { return count.Load() >= 1 },
		2*time.Second, time.Millisecond)
	src.Disarm()

	before := count.Load()
	src.Arm(func(time.Duration) { count.Add(1) })
	defer src.Disarm()

	require.Eventually(t, func() bool { return count.Load() > before },
		2*time.Second, time.Millisecond)
}

func TestNewIntervalClampsPeriod(t *testing.T) {
	require.Equal(t, DefaultPeriod, NewInterval(0).Period())
	require.Equal(t, DefaultPeriod, NewInterval(-time.Second).Period())
	require.Equal(t, 25*time.Millisecond, NewInterval(25*time.Millisecond).Period())
}

func TestManualFire(t *testing.T) {
	src := NewManual()

	require.False(t, src.Fire(time.Second), "disarmed fire should be dropped")

	var got time.Duration
	src.Arm(func(delta time.Duration) { got += delta })
	require.True(t, src.Armed())

	require.True(t, src.Fire(10*time.Millisecond))
	require.True(t, src.Fire(20*time.Millisecond))
	require.Equal(t, 30*time.Millisecond, got)

	src.Disarm()
	require.False(t, src.Armed())
	require.False(t, src.Fire(time.Second))
	require.Equal(t, 30*time.Millisecond, got)
}

func TestManualRearmKeepsOriginalCallback(t *testing.T) {
	src := NewManual()

	var first, second int
	src.Arm(func(time.Duration) { first++ })
	src.Arm(func(time.Duration) { second++ })

	src.Fire(time.Millisecond)

	require.Equal(t, 2, src.ArmCalls())
	require.Equal(t, 1, first)
	require.Equal(t, 0, second, "re-arm must not swap or stack callbacks")
}
