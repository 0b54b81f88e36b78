// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedirectsTotal counts resolved scans by outcome kind.
	RedirectsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tappio_redirects_total",
		Help: "Code redirects by outcome.",
	}, []string{"kind"})

	// VisitLogFailuresTotal counts best-effort visit inserts that failed.
	VisitLogFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tappio_visit_log_failures_total",
		Help: "Visit log writes that failed and were skipped.",
	})

	CodesGeneratedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tappio_codes_generated_total",
		Help: "Codes created by admins, by type.",
	}, []string{"type"})

	CodesClaimedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tappio_codes_claimed_total",
		Help: "Codes assigned to users, by type.",
	}, []string{"type"})

	// PlaceSearchesTotal counts place searches by result: ok, skipped, error.
	PlaceSearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tappio_place_searches_total",
		Help: "Place search requests by result.",
	}, []string{"result"})

	SSEClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tappio_sse_clients",
		Help: "Connected server-sent event clients.",
	})
)
