package command

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var directivesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "liquidglass_directives_total",
		Help: "Total number of executed directives by name and outcome",
	},
	[]string{"directive", "result"},
)

const (
	resultOK       = "ok"
	resultRejected = "rejected"
)
