package metrics

import "github.com/prometheus/client_golang/prometheus"

// CartMetrics counts cart mutations and the persistence path behind them.
type CartMetrics struct {
	mutations       *prometheus.CounterVec
	persistFailures prometheus.Counter
	loadFallbacks   prometheus.Counter
	evictions       prometheus.Counter
}

func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cart",
		Name:      "mutations_total",
		Help:      "Cart mutations by operation and result.",
	}, []string{"op", "result"})
	persistFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cart",
		Name:      "persist_failures_total",
		Help:      "Cart snapshots that could not be written to storage.",
	})
	loadFallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cart",
		Name:      "load_fallbacks_total",
		Help:      "Cart loads that fell back to an empty cart because the stored state was unreadable.",
	})
	evictions := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cart",
		Name:      "session_evictions_total",
		Help:      "Cached session carts dropped because the session cache was full.",
	})
	reg.MustRegister(mutations, persistFailures, loadFallbacks, evictions)
	return &CartMetrics{
		mutations:       mutations,
		persistFailures: persistFailures,
		loadFallbacks:   loadFallbacks,
		evictions:       evictions,
	}
}

// ObserveMutation records one cart operation. applied=false means the request was a no-op.
func (c *CartMetrics) ObserveMutation(op string, applied bool) {
	if c == nil || c.mutations == nil {
		return
	}
	result := "applied"
	if !applied {
		result = "ignored"
	}
	c.mutations.WithLabelValues(normalizeLabel(op), result).Inc()
}

func (c *CartMetrics) IncPersistFailure() {
	if c == nil || c.persistFailures == nil {
		return
	}
	c.persistFailures.Inc()
}

func (c *CartMetrics) IncLoadFallback() {
	if c == nil || c.loadFallbacks == nil {
		return
	}
	c.loadFallbacks.Inc()
}

func (c *CartMetrics) IncSessionEvicted() {
	if c == nil || c.evictions == nil {
		return
	}
	c.evictions.Inc()
}
