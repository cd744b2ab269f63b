// Package coupon validates coupons, computes their discounts and tracks which ones a
// session has selected.
package coupon

import (
	"time"

	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/enums"
	"github.com/shopspring/decimal"
)

// Amount is a coupon value tagged with how it must be read.
// For DiscountModePercent the value is a percentage (10 means 10%).
type Amount struct {
	Mode  enums.DiscountMode `json:"mode"`
	Value decimal.Decimal    `json:"value"`
}

func Percent(pct decimal.Decimal) Amount {
	return Amount{Mode: enums.DiscountModePercent, Value: pct}
}

func Fixed(amount decimal.Decimal) Amount {
	return Amount{Mode: enums.DiscountModeAmount, Value: amount}
}

func FullWaiver() Amount {
	return Amount{Mode: enums.DiscountModeFullWaiver, Value: decimal.Zero}
}

// Coupon is the normalized form of a backend coupon.
type Coupon struct {
	ID             string           `json:"id"`
	StoreID        string           `json:"storeId,omitempty"`
	Name           string           `json:"name,omitempty"`
	Kind           enums.CouponKind `json:"kind"`
	Value          Amount           `json:"value"`
	MinOrderAmount int              `json:"minOrderAmount"`
	MaxDiscount    *int             `json:"maxDiscount,omitempty"`
	Stackable      bool             `json:"stackable"`
	ValidUntil     time.Time        `json:"validUntil"`
	Usable         bool             `json:"usable"`
	Used           bool             `json:"used"`
	Expired        bool             `json:"expired"`
}

// Global reports whether the coupon applies to every store.
func (c Coupon) Global() bool {
	return c.StoreID == ""
}

// AppliesTo reports whether the coupon may be used for an order at storeID.
func (c Coupon) AppliesTo(storeID string) bool {
	return c.Global() || c.StoreID == storeID
}

// AppliedCoupon is one line of a discount breakdown.
type AppliedCoupon struct {
	CouponID string           `json:"couponId"`
	Kind     enums.CouponKind `json:"kind"`
	Amount   int              `json:"amount"`
}

// DiscountResult is the combined discount of a coupon selection.
// TotalDiscount always equals OrderDiscount + DeliveryDiscount.
type DiscountResult struct {
	OrderDiscount    int             `json:"orderDiscount"`
	DeliveryDiscount int             `json:"deliveryDiscount"`
	TotalDiscount    int             `json:"totalDiscount"`
	Applied          []AppliedCoupon `json:"applied"`
}
