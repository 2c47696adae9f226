package propagate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	propagationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liquidglass_propagation_requests_total",
			Help: "Total number of propagation requests by level",
		},
		[]string{"level"},
	)

	propagationDrainsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liquidglass_propagation_drains_total",
			Help: "Total number of non-empty drains by resulting level",
		},
		[]string{"level"},
	)

	propagationOverflowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "liquidglass_propagation_overflows_total",
			Help: "Total number of drains that lost requests and escalated to full",
		},
	)
)

const (
	levelFull = "full"
	levelNode = "node"
)
