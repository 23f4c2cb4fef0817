// Package metrics provides a small, backend-agnostic abstraction for recording
// metrics from a build run.
//
// A run is a short batch job, so backends are push-style (Pushgateway,
// DogStatsD) and Flush is called once at exit. The default backend is a no-op,
// so every call here is safe when metrics are disabled.
package metrics

import "time"

// Metric names shared by all backends.
const (
	StepTotal           = "songdb_step_total"
	StepDurationSeconds = "songdb_step_duration_seconds"
	RecordsTotal        = "songdb_records_total"
	OutputBytes         = "songdb_output_bytes"
	LastSuccessUnix     = "songdb_last_success_timestamp_seconds"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// SetGauge sets a gauge to value.
	SetGauge(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) SetGauge(name string, value float64, labels Labels)         {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep counts one execution of a pipeline step and its duration,
// labelled success or failure.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordRow increments a record-level counter for the given job and kind.
//
// Kinds used by the converter: "parsed", "skipped", "duplicate", "inserted".
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RecordsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordSuccess publishes the size of the written file and the completion
// time, the usual liveness signal for batch jobs.
func RecordSuccess(job string, outputBytes int64, at time.Time) {
	lbls := Labels{"job": job}
	backend.SetGauge(OutputBytes, float64(outputBytes), lbls)
	backend.SetGauge(LastSuccessUnix, float64(at.Unix()), lbls)
}
