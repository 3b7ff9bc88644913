// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"github.com/cobaltcore-dev/vcd-inventory/internal/monitoring"
	"github.com/prometheus/client_golang/prometheus"
)

type Monitor struct {
	RunTimer                *prometheus.HistogramVec
	ObjectsGauge            *prometheus.GaugeVec
	RequestTimer            *prometheus.HistogramVec
	RequestProcessedCounter *prometheus.CounterVec
	CacheCounter            *prometheus.CounterVec
}

func NewDiscoveryMonitor(registry *monitoring.Registry) Monitor {
	runTimer := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vcd_inventory_run_duration_seconds",
		Help:    "Duration of discovery run",
		Buckets: prometheus.DefBuckets,
	}, []string{"datasource"})
	objectsGauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vcd_inventory_objects",
		Help: "Number of objects discovered",
	}, []string{"datasource"})
	requestTimer := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vcd_inventory_request_duration_seconds",
		Help:    "Duration of discovery request",
		Buckets: prometheus.DefBuckets,
	}, []string{"datasource"})
	requestProcessedCounter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vcd_inventory_request_processed_total",
		Help: "Number of processed discovery requests",
	}, []string{"datasource"})
	cacheCounter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vcd_inventory_cache_total",
		Help: "Number of cache lookups by outcome",
	}, []string{"outcome"})
	registry.MustRegister(
		runTimer,
		objectsGauge,
		requestTimer,
		requestProcessedCounter,
		cacheCounter,
	)
	return Monitor{
		RunTimer:                runTimer,
		ObjectsGauge:            objectsGauge,
		RequestTimer:            requestTimer,
		RequestProcessedCounter: requestProcessedCounter,
		CacheCounter:            cacheCounter,
	}
}
