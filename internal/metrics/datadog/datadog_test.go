package datadog

import (
	"errors"
	"reflect"
	"testing"

	"songdb/internal/metrics"
)

type call struct {
	kind  string
	name  string
	value float64
	tags  []string
}

type fakeClient struct {
	calls    []call
	closeErr error
	closed   int
}

func (f *fakeClient) Count(name string, value int64, tags []string, _ float64) error {
	f.calls = append(f.calls, call{"count", name, float64(value), tags})
	return nil
}

func (f *fakeClient) Histogram(name string, value float64, tags []string, _ float64) error {
	f.calls = append(f.calls, call{"histogram", name, value, tags})
	return nil
}

func (f *fakeClient) Gauge(name string, value float64, tags []string, _ float64) error {
	f.calls = append(f.calls, call{"gauge", name, value, tags})
	return nil
}

func (f *fakeClient) Close() error {
	f.closed++
	return f.closeErr
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend(Config{}); err == nil {
		t.Fatalf("NewBackend(empty Addr) error = nil")
	}

	// UDP needs no listener, so construction succeeds without an agent.
	b, err := NewBackend(Config{Addr: "127.0.0.1:8125", Namespace: "songdb.", GlobalTags: []string{"env:test"}})
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "parse"})
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
}

func TestBackendForwardsCalls(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	b := &Backend{client: fc}

	b.IncCounter(metrics.RecordsTotal, 3.7, metrics.Labels{"kind": "parsed", "job": "songdb"})
	b.ObserveHistogram(metrics.StepDurationSeconds, 0.25, metrics.Labels{"step": "insert"})
	b.SetGauge(metrics.OutputBytes, 4096, nil)

	want := []call{
		{"count", metrics.RecordsTotal, 3, []string{"job:songdb", "kind:parsed"}},
		{"histogram", metrics.StepDurationSeconds, 0.25, []string{"step:insert"}},
		{"gauge", metrics.OutputBytes, 4096, nil},
	}
	if !reflect.DeepEqual(fc.calls, want) {
		t.Fatalf("calls = %#v\nwant %#v", fc.calls, want)
	}
}

func TestFlushError(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{closeErr: errors.New("socket gone")}
	b := &Backend{client: fc}
	if err := b.Flush(); err == nil || fc.closed != 1 {
		t.Fatalf("Flush() error = %v, closed = %d", err, fc.closed)
	}
}

func TestZeroBackendIsSafe(t *testing.T) {
	t.Parallel()

	var b Backend
	b.IncCounter("x", 1, nil)
	b.ObserveHistogram("x", 1, nil)
	b.SetGauge("x", 1, nil)
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
}
