package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/lapwatch/internal/stopwatch"
)

func recvEvent[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case evt, ok := <-ch:
		require.True(t, ok, "channel closed before delivery")
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		panic("unreachable")
	}
}

func TestBusDeliversConcreteType(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch, unsub := Subscribe[stopwatch.LapSaved](bus, 1)
	defer unsub()

	want := stopwatch.LapSaved{Lap: stopwatch.Lap{ID: "lap-1", Name: "warmup"}}
	require.NoError(t, bus.Publish(context.Background(), want))

	got := recvEvent(t, ch)
	require.Equal(t, "lap-1", got.Lap.ID)
}

func TestBusConcreteSubscriptionIgnoresOtherTypes(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch, unsub := Subscribe[stopwatch.LapSaved](bus, 1)
	defer unsub()

	require.NoError(t, bus.Publish(context.Background(), stopwatch.EngineStarted{}))

	select {
	case evt := <-ch:
		t.Fatalf("unexpected delivery: %#v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBusInterfaceSubscriptionMatchesAllEvents(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch, unsub := Subscribe[stopwatch.Event](bus, 4)
	defer unsub()

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, stopwatch.EngineStarted{}))
	require.NoError(t, bus.Publish(ctx, stopwatch.LapSaved{}))
	require.NoError(t, bus.Publish(ctx, stopwatch.EngineStopped{}))

	require.Equal(t, stopwatch.OpStart, recvEvent(t, ch).Op())
	require.Equal(t, stopwatch.OpLapSave, recvEvent(t, ch).Op())
	require.Equal(t, stopwatch.OpStop, recvEvent(t, ch).Op())
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch, unsub := Subscribe[stopwatch.EngineStarted](bus, 1)
	require.Equal(t, 1, SubscriberCount[stopwatch.EngineStarted](bus))

	unsub()
	require.Equal(t, 0, SubscriberCount[stopwatch.EngineStarted](bus))

	_, ok := <-ch
	require.False(t, ok, "unsubscribe should close the channel")

	// Publishing afterwards reaches nobody and must not error.
	require.NoError(t, bus.Publish(context.Background(), stopwatch.EngineStarted{}))
}

func TestBusPublishAfterClose(t *testing.T) {
	bus := NewBus()

	ch, _ := Subscribe[stopwatch.EngineStarted](bus, 1)
	bus.Close()

	_, ok := <-ch
	require.False(t, ok, "close should close subscriber channels")

	err := bus.Publish(context.Background(), stopwatch.EngineStarted{})
	require.ErrorIs(t, err, ErrClosed)
}

func TestBusSubscribeAfterClose(t *testing.T) {
	bus := NewBus()
	bus.Close()

	ch, unsub := Subscribe[stopwatch.EngineStarted](bus, 1)
	unsub()

	_, ok := <-ch
	require.False(t, ok)
}

func TestBusPublishRespectsContext(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	// Unbuffered subscriber that never drains.
	_, unsub := Subscribe[stopwatch.EngineStarted](bus, 0)
	defer unsub()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := bus.Publish(ctx, stopwatch.EngineStarted{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBusNilEvent(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	require.Error(t, bus.Publish(context.Background(), nil))
}
