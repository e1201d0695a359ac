package tacplus

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the optional set of counters a Session reports exchange
// outcomes to. Wiring one in is opt-in via WithMetrics; a Session with
// no Metrics configured skips all instrumentation.
type Metrics struct {
	exchanges  *prometheus.CounterVec
	reconnects prometheus.Counter
}

// NewMetrics registers a Metrics set against reg. Pass
// prometheus.DefaultRegisterer for the global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		exchanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tacplus",
			Name:      "exchanges_total",
			Help:      "TACACS+ exchanges completed, by family and outcome.",
		}, []string{"family", "outcome"}),
		reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tacplus",
			Name:      "reconnects_total",
			Help:      "Transport reconnects due to a discarded connection.",
		}),
	}
	reg.MustRegister(m.exchanges, m.reconnects)
	return m
}

func (m *Metrics) observeExchange(family, outcome string) {
	if m == nil {
		return
	}
	m.exchanges.WithLabelValues(family, outcome).Inc()
}

func (m *Metrics) observeReconnect() {
	if m == nil {
		return
	}
	m.reconnects.Inc()
}
