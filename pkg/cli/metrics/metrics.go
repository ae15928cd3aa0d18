/* Copyright (C) 2024, 2025 Driftnote contributors
 *
 * This file is part of Driftnote.
 *
 * Driftnote is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * Driftnote is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with Driftnote.  If not, see <https://www.gnu.org/licenses/>.
 */

// Package metrics exposes Prometheus metrics of the sync engine
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "driftnote"

// Metrics holds the sync metrics. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Cycles        *prometheus.CounterVec
	Uploaded      prometheus.Counter
	Downloaded    prometheus.Counter
	Deleted       prometheus.Counter
	Errors        prometheus.Counter
	QueueDepth    prometheus.Gauge
	CycleDuration prometheus.Histogram
}

// New creates the metrics on a dedicated registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Cycles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sync",
				Name:      "cycles_total",
				Help:      "Total number of reconciliation cycles by outcome",
			},
			[]string{"status"},
		),
		Uploaded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "uploaded_total",
			Help:      "Total number of entities uploaded",
		}),
		Downloaded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "downloaded_total",
			Help:      "Total number of entities written from the remote",
		}),
		Deleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "deleted_total",
			Help:      "Total number of queued deletions confirmed by the remote",
		}),
		Errors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "errors_total",
			Help:      "Total number of per-entity sync failures",
		}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "depth",
			Help:      "Number of entries in the operation queue",
		}),
		CycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of reconciliation cycles in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Cycle is the outcome of a reconciliation cycle
type Cycle struct {
	Status     string
	Uploaded   int
	Downloaded int
	Deleted    int
	Errors     int
	Duration   time.Duration
}

// ObserveCycle records a reconciliation cycle
func (m *Metrics) ObserveCycle(c Cycle) {
	if m == nil {
		return
	}

	m.Cycles.WithLabelValues(c.Status).Inc()
	m.Uploaded.Add(float64(c.Uploaded))
	m.Downloaded.Add(float64(c.Downloaded))
	m.Deleted.Add(float64(c.Deleted))
	m.Errors.Add(float64(c.Errors))
	m.CycleDuration.Observe(c.Duration.Seconds())
}

// SetQueueDepth records the number of queued operations
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}

	m.QueueDepth.Set(float64(n))
}

// Handler serves the metrics in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
