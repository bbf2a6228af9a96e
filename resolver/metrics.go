// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package resolver

import (
	"errors"
	"time"

	"github.com/luxfi/metric"
)

const (
	outcomeLabel = "outcome"

	outcomeSuccess = "success"
	outcomeFailure = "failure"
	outcomeStale   = "stale"
)

type metrics struct {
	refreshTime  metric.GaugeVec
	refreshCount metric.CounterVec
}

// newMetrics registers the refresh metrics of the resource name. Each
// resource reports under its own subsystem so several resolvers can share a
// registerer.
func newMetrics(registerer metric.Registerer, namespace, name string) (*metrics, error) {
	labels := []string{outcomeLabel}
	m := &metrics{
		refreshTime: metric.NewGaugeVec(
			metric.GaugeOpts{
				Namespace: namespace,
				Subsystem: name,
				Name:      "resolver_refresh_time",
				Help:      "time spent locating, fetching and decoding state (ns)",
			},
			labels,
		),
		refreshCount: metric.NewCounterVec(
			metric.CounterOpts{
				Namespace: namespace,
				Subsystem: name,
				Name:      "resolver_refresh_count",
				Help:      "refresh count (n)",
			},
			labels,
		),
	}

	err := errors.Join(
		registerer.Register(m.refreshTime),
		registerer.Register(m.refreshCount),
	)
	return m, err
}

func (m *metrics) observe(outcome string, start time.Time) {
	labels := metric.Labels{
		outcomeLabel: outcome,
	}
	m.refreshTime.With(labels).Add(float64(time.Since(start)))
	m.refreshCount.With(labels).Inc()
}
