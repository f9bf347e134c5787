package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncOp("start")
	pr.IncOp("lap.save")
	pr.IncSaveResult(SaveSuccess)
	pr.ObserveTickDelta(10 * time.Millisecond)
	pr.SetElapsed(65230 * time.Millisecond)
	pr.SetRunning(true)
	pr.SetLapCount(2)
	pr.IncEventsDropped("sse")
	// Basic scrape to ensure metrics encode without panic
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}

func TestPrometheusRecorderNilSafety(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncOp("start")
	pr.IncSaveResult(SaveFailed)
	pr.ObserveTickDelta(time.Millisecond)
	pr.SetElapsed(time.Second)
	pr.SetRunning(false)
	pr.SetLapCount(0)
	pr.IncEventsDropped("console")
}

func TestNoopRecorderIsARecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncOp("start")
	r.SetRunning(true)
}

func TestCaptureRecorder(t *testing.T) {
	c := NewCaptureRecorder()
	c.IncOp("start")
	c.IncOp("start")
	if got := c.OpCount("start"); got != 2 {
		t.Fatalf("expected 2 start ops, got %d", got)
	}
}

func TestNewRegistryHasBaseCollectors(t *testing.T) {
	reg := NewRegistry()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected go/process collector metrics, got none")
	}
}
