package coupon

import (
	"time"

	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/enums"
)

// Validator decides whether a coupon can be applied to an order subtotal right now.
type Validator struct {
	now func() time.Time
}

// NewValidator builds a validator. A nil clock uses time.Now.
func NewValidator(now func() time.Time) Validator {
	if now == nil {
		now = time.Now
	}
	return Validator{now: now}
}

// Check returns the first failed check, or CouponRejectionNone.
func (v Validator) Check(c Coupon, orderSubtotal int) enums.CouponRejection {
	switch {
	case !c.Usable:
		return enums.CouponRejectionNotUsable
	case c.Used:
		return enums.CouponRejectionUsed
	case c.Expired:
		return enums.CouponRejectionExpired
	case !c.ValidUntil.IsZero() && v.clock().After(c.ValidUntil):
		return enums.CouponRejectionPastDue
	case c.MinOrderAmount > 0 && orderSubtotal < c.MinOrderAmount:
		return enums.CouponRejectionBelowMinimum
	}
	return enums.CouponRejectionNone
}

func (v Validator) IsValid(c Coupon, orderSubtotal int) bool {
	return !v.Check(c, orderSubtotal).Rejected()
}

func (v Validator) clock() time.Time {
	if v.now == nil {
		return time.Now()
	}
	return v.now()
}
