// Package metrics holds the Prometheus collectors of the service. They are
// registered on the default registry, which go-zero's DevServer exposes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tempo"

var (
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Outbound third-party API requests by provider and outcome.",
	}, []string{"provider", "outcome"})

	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Duration of outbound third-party API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider"})

	BridgeStatusChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "bridge",
		Name:      "status_checks_total",
		Help:      "Wormhole status checks by resulting status.",
	}, []string{"status"})

	BridgeImports = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "bridge",
		Name:      "imports_total",
		Help:      "Transaction import attempts by result.",
	}, []string{"result"})

	DeviceEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "depin",
		Name:      "device_events_total",
		Help:      "Device reports by event type.",
	}, []string{"event_type"})

	RewardsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "depin",
		Name:      "rewards_issued_total",
		Help:      "Sum of reward amounts written to depin_rewards.",
	})
)
