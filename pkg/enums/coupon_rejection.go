package enums

// CouponRejection names the first validity check a coupon failed.
type CouponRejection string

const (
	CouponRejectionNone          CouponRejection = ""
	CouponRejectionNotUsable     CouponRejection = "not_usable"
	CouponRejectionUsed          CouponRejection = "used"
	CouponRejectionExpired       CouponRejection = "expired"
	CouponRejectionPastDue       CouponRejection = "past_valid_until"
	CouponRejectionBelowMinimum  CouponRejection = "below_minimum_order"
	CouponRejectionUnknown       CouponRejection = "unknown_coupon"
	CouponRejectionStackConflict CouponRejection = "stack_conflict"
	CouponRejectionWrongStore    CouponRejection = "wrong_store"
)

// String implements fmt.Stringer.
func (r CouponRejection) String() string {
	return string(r)
}

// Rejected reports whether the value carries an actual rejection.
func (r CouponRejection) Rejected() bool {
	return r != CouponRejectionNone
}
