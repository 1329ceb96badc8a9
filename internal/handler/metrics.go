package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	samplesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "commercepro",
		Subsystem: "kafka_consumer",
		Name:      "position_samples_processed_total",
		Help:      "Total number of position samples consumed and published.",
	})

	samplesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "commercepro",
		Subsystem: "kafka_consumer",
		Name:      "position_samples_rejected_total",
		Help:      "Total number of position samples routed to the DLQ.",
	})
)
