package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	operations    *prom.CounterVec
	saveResults   *prom.CounterVec
	tickDelta     prom.Histogram
	elapsed       prom.Gauge
	running       prom.Gauge
	lapCount      prom.Gauge
	eventsDropped *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics
// (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.operations = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "lapwatch",
			Name:      "operations_total",
			Help:      "Stopwatch mutations by operation name",
		}, []string{"op"})
		pr.saveResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "lapwatch",
			Name:      "session_saves_total",
			Help:      "Session persistence attempts by result",
		}, []string{"result"})
		pr.tickDelta = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "lapwatch",
			Name:      "tick_delta_seconds",
			Help:      "Measured time between delivered ticks",
			Buckets:   []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.25, 0.5, 1},
		})
		pr.elapsed = prom.NewGauge(prom.GaugeOpts{
			Namespace: "lapwatch",
			Name:      "elapsed_seconds",
			Help:      "Current stopwatch elapsed time in seconds",
		})
		pr.running = prom.NewGauge(prom.GaugeOpts{
			Namespace: "lapwatch",
			Name:      "running",
			Help:      "Whether the stopwatch is running (1) or stopped (0)",
		})
		pr.lapCount = prom.NewGauge(prom.GaugeOpts{
			Namespace: "lapwatch",
			Name:      "laps",
			Help:      "Number of saved laps",
		})
		pr.eventsDropped = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "lapwatch",
			Name:      "events_dropped_total",
			Help:      "Change events dropped by slow consumers",
		}, []string{"component"})
		reg.MustRegister(pr.operations, pr.saveResults, pr.tickDelta, pr.elapsed, pr.running, pr.lapCount, pr.eventsDropped)
	})
	return pr
}

func (p *PrometheusRecorder) IncOp(op string) {
	if p == nil || p.operations == nil {
		return
	}
	p.operations.WithLabelValues(op).Inc()
}

func (p *PrometheusRecorder) IncSaveResult(result SaveResultLabel) {
	if p == nil || p.saveResults == nil {
		return
	}
	p.saveResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveTickDelta(d time.Duration) {
	if p == nil || p.tickDelta == nil {
		return
	}
	p.tickDelta.Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetElapsed(d time.Duration) {
	if p == nil || p.elapsed == nil {
		return
	}
	p.elapsed.Set(d.Seconds())
}

func (p *PrometheusRecorder) SetRunning(running bool) {
	if p == nil || p.running == nil {
		return
	}
	v := 0.0
	if running {
		v = 1.0
	}
	p.running.Set(v)
}

func (p *PrometheusRecorder) SetLapCount(n int) {
	if p == nil || p.lapCount == nil {
		return
	}
	p.lapCount.Set(float64(n))
}

func (p *PrometheusRecorder) IncEventsDropped(component string) {
	if p == nil || p.eventsDropped == nil {
		return
	}
	p.eventsDropped.WithLabelValues(component).Inc()
}
