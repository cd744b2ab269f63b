package metrics

import "github.com/prometheus/client_golang/prometheus"

// PricingMetrics tracks coupon selection and quote computation.
type PricingMetrics struct {
	selections  *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	discounts   prometheus.Histogram
	catalogSize prometheus.Gauge
}

func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	selections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "coupon",
		Name:      "selection_total",
		Help:      "Coupon toggles by outcome.",
	}, []string{"outcome"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "coupon",
		Name:      "rejections_total",
		Help:      "Coupon validity rejections by reason.",
	}, []string{"reason"})
	discounts := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "pricing",
		Name:      "quote_discount_amount",
		Help:      "Total discount granted per computed quote.",
		Buckets:   []float64{0, 500, 1000, 2000, 3000, 5000, 10000, 20000},
	})
	catalogSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "coupon",
		Name:      "catalog_size",
		Help:      "Coupons held by the in-memory catalog after the last refresh.",
	})
	reg.MustRegister(selections, rejections, discounts, catalogSize)
	return &PricingMetrics{
		selections:  selections,
		rejections:  rejections,
		discounts:   discounts,
		catalogSize: catalogSize,
	}
}

func (p *PricingMetrics) ObserveSelection(outcome string) {
	if p == nil || p.selections == nil {
		return
	}
	p.selections.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (p *PricingMetrics) ObserveRejection(reason string) {
	if p == nil || p.rejections == nil {
		return
	}
	p.rejections.WithLabelValues(normalizeLabel(reason)).Inc()
}

func (p *PricingMetrics) ObserveDiscount(amount int) {
	if p == nil || p.discounts == nil {
		return
	}
	p.discounts.Observe(float64(amount))
}

func (p *PricingMetrics) SetCatalogSize(n int) {
	if p == nil || p.catalogSize == nil {
		return
	}
	p.catalogSize.Set(float64(n))
}
