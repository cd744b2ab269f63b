package checkout

import (
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/internal/cart"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/internal/coupon"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/enums"
)

// Quote is the priced view of a session's cart for one store.
type Quote struct {
	StoreID           string                `json:"storeId"`
	Items             []QuoteLine           `json:"items"`
	ItemCount         int                   `json:"itemCount"`
	Subtotal          int                   `json:"subtotal"`
	DeliveryFee       int                   `json:"deliveryFee"`
	Discount          coupon.DiscountResult `json:"discount"`
	Total             int                   `json:"total"`
	SelectedCouponIDs []string              `json:"selectedCouponIds"`
	Skipped           []SkippedCoupon       `json:"skippedCoupons"`
}

// QuoteLine is a cart entry with its computed line total.
type QuoteLine struct {
	cart.LineItem
	LineTotal int `json:"lineTotal"`
}

// SkippedCoupon is a selected coupon left out of the quote.
type SkippedCoupon struct {
	CouponID string                `json:"couponId"`
	Reason   enums.CouponRejection `json:"reason"`
}

// CouponView is a catalog coupon annotated for one session and store.
type CouponView struct {
	coupon.Coupon
	Selected        bool                  `json:"selected"`
	Applicable      bool                  `json:"applicable"`
	Rejection       enums.CouponRejection `json:"rejection,omitempty"`
	PreviewDiscount int                   `json:"previewDiscount"`
}

// ToggleResult reports what a coupon toggle did.
type ToggleResult struct {
	CouponID          string                 `json:"couponId"`
	Outcome           enums.SelectionOutcome `json:"outcome"`
	Reason            enums.CouponRejection  `json:"reason,omitempty"`
	SelectedCouponIDs []string               `json:"selectedCouponIds"`
}

func quoteLines(items []cart.LineItem) []QuoteLine {
	lines := make([]QuoteLine, len(items))
	for i, item := range items {
		lines[i] = QuoteLine{LineItem: item, LineTotal: cart.Price(item)}
	}
	return lines
}
