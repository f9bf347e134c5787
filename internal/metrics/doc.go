// Package metrics provides observability hooks for stopwatch activity.
//
// This package implements the Null Object pattern so components never nil
// check their recorder: everything takes a Recorder, and callers that do not
// care inject NoopRecorder. The run command swaps in PrometheusRecorder,
// which exposes counters for operations and saves plus gauges mirroring the
// live session (elapsed seconds, running flag, lap count) on /metrics.
//
// Components receive a Recorder through dependency injection:
//
//	sess := session.New(session.Options{
//	    Metrics: metrics.NoopRecorder{}, // Default: no metrics
//	})
package metrics
