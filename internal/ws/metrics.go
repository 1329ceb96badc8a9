package ws

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var subscribersGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "commercepro",
	Subsystem: "tracking",
	Name:      "feed_subscribers",
	Help:      "Currently connected live-feed websocket clients.",
})
