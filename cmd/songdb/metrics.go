package main

import (
	"fmt"
	"strings"

	"songdb/internal/config"
	"songdb/internal/logging"
	"songdb/internal/metrics"
	"songdb/internal/metrics/datadog"
	"songdb/internal/metrics/prompush"
)

// setupMetrics installs the configured metrics backend and returns a function
// that flushes it. With backend "none" metrics stay on the no-op backend.
func setupMetrics(m config.Metrics) (func(), error) {
	job := m.Job
	if job == "" {
		job = config.DefaultJob
	}

	var b metrics.Backend
	switch strings.ToLower(m.Backend) {
	case "", "none":
		logging.Debugf("metrics: disabled")
		return func() {}, nil
	case "pushgateway":
		pb, err := prompush.NewBackend(job, m.PushgatewayURL)
		if err != nil {
			return nil, fmt.Errorf("metrics: init pushgateway backend: %w", err)
		}
		logging.Debugf("metrics: backend=pushgateway url=%s job=%s", m.PushgatewayURL, job)
		b = pb
	case "datadog":
		db, err := datadog.NewBackend(datadog.Config{
			Addr:       m.DogStatsDAddr,
			GlobalTags: []string{"service:songdb"},
		})
		if err != nil {
			return nil, fmt.Errorf("metrics: init datadog backend: %w", err)
		}
		logging.Debugf("metrics: backend=datadog addr=%s job=%s", m.DogStatsDAddr, job)
		b = db
	default:
		return nil, fmt.Errorf("metrics: unknown backend %q", m.Backend)
	}

	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			logging.Errorf("metrics: flush error: %v", err)
		}
	}, nil
}
