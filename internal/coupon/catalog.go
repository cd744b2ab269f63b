package coupon

import (
	"context"
	"sync"
	"time"

	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/errors"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/logger"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

const refreshTimeout = 30 * time.Second

// Catalog caches the coupon list. Refreshes swap the whole list at once and concurrent
// refreshes share one fetch.
type Catalog struct {
	source  Source
	logg    *logger.Logger
	metrics *metrics.PricingMetrics
	now     func() time.Time

	group singleflight.Group

	mu          sync.RWMutex
	coupons     []Coupon
	byID        map[string]Coupon
	refreshedAt time.Time
}

func NewCatalog(source Source, logg *logger.Logger, m *metrics.PricingMetrics) *Catalog {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Catalog{
		source:  source,
		logg:    logg,
		metrics: m,
		now:     time.Now,
		byID:    map[string]Coupon{},
	}
}

// Refresh reloads the catalog from its source. The fetch is shared by concurrent callers,
// so it runs detached from any one caller's cancellation and is bounded by refreshTimeout.
func (c *Catalog) Refresh(ctx context.Context) error {
	_, err, _ := c.group.Do("refresh", func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		records, err := c.source.ListCoupons(ctx)
		if err != nil {
			return nil, errors.Wrap(errors.CodeDependency, err, "list coupons")
		}
		coupons, dropped := NormalizeAll(records)
		if dropped > 0 {
			c.logg.Warn(c.logg.WithField(ctx, "dropped", dropped), "skipped coupons without id or known type")
		}
		c.replace(coupons)
		c.logg.Debug(c.logg.WithField(ctx, "coupons", len(coupons)), "coupon catalog refreshed")
		return nil, nil
	})
	return err
}

// EnsureLoaded refreshes the catalog if it was never loaded.
func (c *Catalog) EnsureLoaded(ctx context.Context) error {
	if !c.RefreshedAt().IsZero() {
		return nil
	}
	return c.Refresh(ctx)
}

func (c *Catalog) replace(coupons []Coupon) {
	byID := make(map[string]Coupon, len(coupons))
	for _, cp := range coupons {
		byID[cp.ID] = cp
	}
	c.mu.Lock()
	c.coupons = coupons
	c.byID = byID
	c.refreshedAt = c.now()
	c.mu.Unlock()
	c.metrics.SetCatalogSize(len(coupons))
}

// All returns every cached coupon in source order.
func (c *Catalog) All() []Coupon {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Coupon(nil), c.coupons...)
}

// ForStore returns the global coupons plus those scoped to storeID.
func (c *Catalog) ForStore(storeID string) []Coupon {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Coupon, 0, len(c.coupons))
	for _, cp := range c.coupons {
		if cp.AppliesTo(storeID) {
			out = append(out, cp)
		}
	}
	return out
}

func (c *Catalog) Lookup(id string) (Coupon, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cp, ok := c.byID[id]
	return cp, ok
}

func (c *Catalog) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}
