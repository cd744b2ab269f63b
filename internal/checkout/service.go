package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/Iduk-Baduk/itseats-web-customer-sub001/internal/cart"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/internal/coupon"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/internal/stores"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/enums"
	pkgerrors "github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/errors"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/logger"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

type cartProvider interface {
	Get(ctx context.Context, sessionID string) (*cart.Store, error)
}

type couponCatalog interface {
	EnsureLoaded(ctx context.Context) error
	ForStore(storeID string) []coupon.Coupon
	Lookup(id string) (coupon.Coupon, bool)
}

type selectionProvider interface {
	For(sessionID string) *coupon.Selection
}

// Service prices carts and manages coupon selection per session.
type Service interface {
	Quote(ctx context.Context, sessionID, storeID string) (*Quote, error)
	Complete(ctx context.Context, sessionID, storeID string) (*Quote, error)
	Coupons(ctx context.Context, sessionID, storeID string) ([]CouponView, error)
	ToggleCoupon(ctx context.Context, sessionID, couponID string) (*ToggleResult, error)
	ClearCoupons(ctx context.Context, sessionID string) error
}

// Deps wires a Service.
type Deps struct {
	Carts      cartProvider
	Catalog    couponCatalog
	Selections selectionProvider
	Stores     stores.Source
	Calculator coupon.Calculator
	Validator  coupon.Validator
	Logger     *logger.Logger
	Metrics    *metrics.PricingMetrics
}

type service struct {
	carts      cartProvider
	catalog    couponCatalog
	selections selectionProvider
	stores     stores.Source
	calc       coupon.Calculator
	validator  coupon.Validator
	logg       *logger.Logger
	metrics    *metrics.PricingMetrics
}

// NewService builds a checkout service backed by the provided collaborators.
func NewService(deps Deps) (Service, error) {
	if deps.Carts == nil {
		return nil, fmt.Errorf("cart provider required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("coupon catalog required")
	}
	if deps.Selections == nil {
		return nil, fmt.Errorf("coupon selections required")
	}
	if deps.Stores == nil {
		return nil, fmt.Errorf("store source required")
	}
	logg := deps.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		carts:      deps.Carts,
		catalog:    deps.Catalog,
		selections: deps.Selections,
		stores:     deps.Stores,
		calc:       deps.Calculator,
		validator:  deps.Validator,
		logg:       logg,
		metrics:    deps.Metrics,
	}, nil
}

// Quote prices the session's cart for storeID. Selected coupons that no longer apply are
// listed in Skipped and left out of the discount.
func (s *service) Quote(ctx context.Context, sessionID, storeID string) (*Quote, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storeId is required")
	}
	ctx = s.logg.WithStoreID(s.logg.WithSessionID(ctx, sessionID), storeID)

	store, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var deliveryFee int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.catalog.EnsureLoaded(gctx); err != nil {
			// a stale or empty catalog only means fewer discounts
			s.logg.WarnErr(gctx, "coupon catalog unavailable for quote", err)
		}
		return nil
	})
	g.Go(func() error {
		st, err := s.stores.GetStore(gctx, storeID)
		if err != nil {
			return err
		}
		deliveryFee = st.DeliveryFee
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := store.Items()
	subtotal := cart.Subtotal(items)
	selection := s.selections.For(sessionID)

	quote := &Quote{
		StoreID:           storeID,
		Items:             quoteLines(items),
		ItemCount:         store.Count(),
		Subtotal:          subtotal,
		DeliveryFee:       deliveryFee,
		SelectedCouponIDs: selection.IDs(),
		Skipped:           []SkippedCoupon{},
	}

	applicable := make([]coupon.Coupon, 0, len(quote.SelectedCouponIDs))
	for _, id := range quote.SelectedCouponIDs {
		c, ok := s.catalog.Lookup(id)
		switch {
		case !ok:
			quote.Skipped = append(quote.Skipped, SkippedCoupon{CouponID: id, Reason: enums.CouponRejectionUnknown})
		case !c.AppliesTo(storeID):
			quote.Skipped = append(quote.Skipped, SkippedCoupon{CouponID: id, Reason: enums.CouponRejectionWrongStore})
		default:
			if reason := s.validator.Check(c, subtotal); reason.Rejected() {
				quote.Skipped = append(quote.Skipped, SkippedCoupon{CouponID: id, Reason: reason})
				continue
			}
			applicable = append(applicable, c)
		}
	}

	quote.Discount = s.calc.Aggregate(applicable, subtotal, deliveryFee)
	quote.Total = subtotal + deliveryFee - quote.Discount.TotalDiscount
	s.metrics.ObserveDiscount(quote.Discount.TotalDiscount)
	return quote, nil
}

// Complete finalizes the order: it prices the cart one last time, then clears the cart and
// the coupon selection.
func (s *service) Complete(ctx context.Context, sessionID, storeID string) (*Quote, error) {
	quote, err := s.Quote(ctx, sessionID, storeID)
	if err != nil {
		return nil, err
	}
	if len(quote.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	store, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := store.Clear(ctx); err != nil {
		return nil, err
	}
	s.selections.For(sessionID).Clear()

	ctx = s.logg.WithFields(s.logg.WithSessionID(ctx, sessionID), map[string]any{
		"store_id": storeID,
		"total":    quote.Total,
		"discount": quote.Discount.TotalDiscount,
	})
	s.logg.Info(ctx, "order completed")
	return quote, nil
}

// Coupons lists the coupons usable at storeID with their state for the session's cart.
func (s *service) Coupons(ctx context.Context, sessionID, storeID string) ([]CouponView, error) {
	store, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.catalog.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	subtotal := store.Subtotal()
	selection := s.selections.For(sessionID)
	coupons := s.catalog.ForStore(strings.TrimSpace(storeID))

	views := make([]CouponView, 0, len(coupons))
	for _, c := range coupons {
		reason := s.validator.Check(c, subtotal)
		view := CouponView{
			Coupon:     c,
			Selected:   selection.Contains(c.ID),
			Applicable: !reason.Rejected(),
			Rejection:  reason,
		}
		if view.Applicable {
			// delivery previews need a fee; the quote endpoint has the real one
			view.PreviewDiscount = s.calc.Discount(c, subtotal, 0)
		}
		views = append(views, view)
	}
	return views, nil
}

// ToggleCoupon selects or deselects couponID against the session's current subtotal.
func (s *service) ToggleCoupon(ctx context.Context, sessionID, couponID string) (*ToggleResult, error) {
	couponID = strings.TrimSpace(couponID)
	store, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.catalog.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	selection := s.selections.For(sessionID)
	c, ok := s.catalog.Lookup(couponID)
	if !ok {
		if selection.Contains(couponID) {
			// coupon vanished from the catalog but is still selected
			outcome := selection.Deselect(couponID)
			return &ToggleResult{CouponID: couponID, Outcome: outcome, SelectedCouponIDs: selection.IDs()}, nil
		}
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}

	outcome, reason := selection.Toggle(c, store.Subtotal())
	s.metrics.ObserveSelection(outcome.String())
	if reason.Rejected() {
		s.metrics.ObserveRejection(reason.String())
		s.logg.Debug(s.logg.WithFields(s.logg.WithCouponID(ctx, couponID), map[string]any{"reason": reason.String()}), "coupon selection rejected")
	}
	return &ToggleResult{
		CouponID:          couponID,
		Outcome:           outcome,
		Reason:            reason,
		SelectedCouponIDs: selection.IDs(),
	}, nil
}

func (s *service) ClearCoupons(_ context.Context, sessionID string) error {
	s.selections.For(sessionID).Clear()
	return nil
}
