package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	positionPublishes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "commercepro",
		Subsystem: "tracking",
		Name:      "position_publishes_total",
		Help:      "Position publish attempts by outcome (published, resting, throttled, failed).",
	}, []string{"outcome"})

	orderAssignments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "commercepro",
		Subsystem: "dispatch",
		Name:      "order_assignments_total",
		Help:      "Order assignment attempts by result.",
	}, []string{"result"})

	statusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "commercepro",
		Subsystem: "dispatch",
		Name:      "delivery_transitions_total",
		Help:      "Delivery status transitions by target status.",
	}, []string{"to"})
)
