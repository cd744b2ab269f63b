package enums

import "fmt"

// DiscountMode says how a coupon's value is interpreted.
type DiscountMode string

const (
	DiscountModePercent    DiscountMode = "PERCENT"
	DiscountModeAmount     DiscountMode = "AMOUNT"
	DiscountModeFullWaiver DiscountMode = "FULL_WAIVER"
)

var validDiscountModes = []DiscountMode{
	DiscountModePercent,
	DiscountModeAmount,
	DiscountModeFullWaiver,
}

// String implements fmt.Stringer.
func (m DiscountMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known DiscountMode.
func (m DiscountMode) IsValid() bool {
	for _, candidate := range validDiscountModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseDiscountMode converts raw input into a DiscountMode.
func ParseDiscountMode(value string) (DiscountMode, error) {
	for _, candidate := range validDiscountModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount mode %q", value)
}
