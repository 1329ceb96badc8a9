package tracking

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var feedPollErrors = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "commercepro",
	Subsystem: "tracking",
	Name:      "feed_poll_errors_total",
	Help:      "Total number of failed driver registry polls by the live feed.",
})
