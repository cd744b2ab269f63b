package enums

import (
	"fmt"
	"strings"
)

// CouponKind identifies which bucket a coupon discounts and how.
type CouponKind string

const (
	CouponKindPercentage  CouponKind = "PERCENTAGE"
	CouponKindDelivery    CouponKind = "DELIVERY"
	CouponKindFixedAmount CouponKind = "FIXED_AMOUNT"
)

var validCouponKinds = []CouponKind{
	CouponKindPercentage,
	CouponKindDelivery,
	CouponKindFixedAmount,
}

// backend spellings seen on the coupon feed
var couponKindAliases = map[string]CouponKind{
	"PERCENT":       CouponKindPercentage,
	"RATE":          CouponKindPercentage,
	"DELIVERY_FEE":  CouponKindDelivery,
	"FREE_DELIVERY": CouponKindDelivery,
	"FIXED":         CouponKindFixedAmount,
	"AMOUNT":        CouponKindFixedAmount,
	"GENERAL":       CouponKindFixedAmount,
}

// String implements fmt.Stringer.
func (k CouponKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known CouponKind.
func (k CouponKind) IsValid() bool {
	for _, candidate := range validCouponKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// DiscountsDelivery reports whether the kind reduces the delivery fee rather than the order.
func (k CouponKind) DiscountsDelivery() bool {
	return k == CouponKindDelivery
}

// ParseCouponKind converts raw backend input into a CouponKind, accepting known aliases.
func ParseCouponKind(value string) (CouponKind, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validCouponKinds {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	if kind, ok := couponKindAliases[normalized]; ok {
		return kind, nil
	}
	return "", fmt.Errorf("invalid coupon kind %q", value)
}
