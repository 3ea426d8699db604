package twitter

import "github.com/prometheus/client_golang/prometheus"

// Metrics wraps the Prometheus collectors the monitor reports against.
// A nil *Metrics is valid everywhere it's accepted; every method below is
// a no-op on a nil receiver, so instrumentation stays entirely optional.
//
// Grounded on EternisAI-enchanted-proxy and codeready-toolchain-tarsy,
// both of which import github.com/prometheus/client_golang for exactly
// this kind of counters/gauge registration.
type Metrics struct {
	stateTransitions *prometheus.CounterVec
	reconnects       *prometheus.CounterVec
	decodeErrors     *prometheus.CounterVec
	openerCalls      prometheus.Counter
	connected        prometheus.Gauge
}

// NewMetrics constructs and registers the monitor's collectors against
// reg. Passing prometheus.NewRegistry() in tests keeps metrics isolated
// from the global default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stateTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tstream_state_transitions_total",
			Help: "Count of connection monitor state transitions, by destination state.",
		}, []string{"to"}),
		reconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tstream_reconnects_total",
			Help: "Count of scheduled reconnects, by backoff category.",
		}, []string{"category"}),
		decodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tstream_decode_errors_total",
			Help: "Count of frame or object decode failures, by reason.",
		}, []string{"reason"}),
		openerCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tstream_opener_calls_total",
			Help: "Count of connection attempts started.",
		}),
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tstream_connected",
			Help: "1 while the monitor holds a live stream transport, 0 otherwise.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.stateTransitions, m.reconnects, m.decodeErrors, m.openerCalls, m.connected)
	}
	return m
}

// StateTransition records a monitor transition to state to.
func (m *Metrics) StateTransition(to string) {
	if m == nil {
		return
	}
	m.stateTransitions.WithLabelValues(to).Inc()
	if to == "connected" {
		m.connected.Set(1)
	} else {
		m.connected.Set(0)
	}
}

// Reconnect records a scheduled reconnect in the given backoff category.
func (m *Metrics) Reconnect(category string) {
	if m == nil {
		return
	}
	m.reconnects.WithLabelValues(category).Inc()
}

// OpenerInvoked records the start of one connection attempt.
func (m *Metrics) OpenerInvoked() {
	if m == nil {
		return
	}
	m.openerCalls.Inc()
}

// DecodeError records a frame or object decode failure.
func (m *Metrics) DecodeError(reason string) {
	if m == nil {
		return
	}
	m.decodeErrors.WithLabelValues(reason).Inc()
}
