package push

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Connections prometheus.Gauge
	Delivered   prometheus.Counter
	Dropped     prometheus.Counter
}

// NewMetrics 在 reg 上注册推送网关的指标，reg 为 nil 时使用默认 registerer
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Connections: f.NewGauge(prometheus.GaugeOpts{
			Name: "push_gateway_connections",
			Help: "Open websocket connections.",
		}),
		Delivered: f.NewCounter(prometheus.CounterOpts{
			Name: "push_gateway_messages_delivered_total",
			Help: "Messages queued to websocket connections.",
		}),
		Dropped: f.NewCounter(prometheus.CounterOpts{
			Name: "push_gateway_clients_dropped_total",
			Help: "Connections dropped because their send buffer was full.",
		}),
	}
}
