package coupon

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/enums"
	"github.com/shopspring/decimal"
)

// Record is the coupon shape returned by the backend. Every field may be missing.
type Record struct {
	CouponID      FlexString       `json:"couponId"`
	StoreID       FlexString       `json:"storeId"`
	Name          string           `json:"name"`
	DiscountValue decimal.Decimal  `json:"discountValue"`
	MinPrice      *decimal.Decimal `json:"minPrice"`
	CouponType    string           `json:"couponType"`
	ValidDate     string           `json:"validDate"`
	IsStackable   *bool            `json:"isStackable"`
	CanUsed       *bool            `json:"canUsed"`
	IsUsed        *bool            `json:"isUsed"`
	IsExpired     *bool            `json:"isExpired"`
	MaxDiscount   *decimal.Decimal `json:"maxDiscount"`
	IsPercentage  *bool            `json:"isPercentage"`
}

// UnmarshalJSON decodes r field by field when the record as a whole does not decode, so a
// malformed value only resets that field to its zero value.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	var strict plain
	if err := json.Unmarshal(data, &strict); err == nil {
		*r = Record(strict)
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*r = Record{
		CouponID:      lenientField[FlexString](fields, "couponId"),
		StoreID:       lenientField[FlexString](fields, "storeId"),
		Name:          lenientField[string](fields, "name"),
		DiscountValue: lenientField[decimal.Decimal](fields, "discountValue"),
		MinPrice:      lenientField[*decimal.Decimal](fields, "minPrice"),
		CouponType:    lenientField[string](fields, "couponType"),
		ValidDate:     lenientField[string](fields, "validDate"),
		IsStackable:   lenientField[*bool](fields, "isStackable"),
		CanUsed:       lenientField[*bool](fields, "canUsed"),
		IsUsed:        lenientField[*bool](fields, "isUsed"),
		IsExpired:     lenientField[*bool](fields, "isExpired"),
		MaxDiscount:   lenientField[*decimal.Decimal](fields, "maxDiscount"),
		IsPercentage:  lenientField[*bool](fields, "isPercentage"),
	}
	return nil
}

func lenientField[T any](fields map[string]json.RawMessage, name string) T {
	var v T
	raw, ok := fields[name]
	if !ok {
		return v
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero
	}
	return v
}

// FlexString accepts both JSON strings and numbers.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

var validDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

const dateOnlyLayout = "2006-01-02"

// Normalize converts a backend record into a Coupon. ok is false when the record has no id
// or an unknown coupon type.
func Normalize(r Record) (Coupon, bool) {
	id := strings.TrimSpace(string(r.CouponID))
	if id == "" {
		return Coupon{}, false
	}
	kind, err := enums.ParseCouponKind(r.CouponType)
	if err != nil {
		return Coupon{}, false
	}

	c := Coupon{
		ID:          id,
		StoreID:     strings.TrimSpace(string(r.StoreID)),
		Name:        r.Name,
		Kind:        kind,
		Value:       valueFor(kind, r.DiscountValue, r.IsPercentage),
		Stackable:   boolValue(r.IsStackable),
		Usable:      boolValue(r.CanUsed),
		Used:        boolValue(r.IsUsed),
		Expired:     boolValue(r.IsExpired),
		ValidUntil:  parseValidDate(r.ValidDate),
		MaxDiscount: optionalAmount(r.MaxDiscount),
	}
	if r.MinPrice != nil && r.MinPrice.Sign() > 0 {
		c.MinOrderAmount = int(r.MinPrice.Floor().IntPart())
	}
	return c, true
}

// NormalizeAll keeps the records that normalize and reports how many were dropped.
func NormalizeAll(records []Record) ([]Coupon, int) {
	out := make([]Coupon, 0, len(records))
	dropped := 0
	for _, r := range records {
		c, ok := Normalize(r)
		if !ok {
			dropped++
			continue
		}
		out = append(out, c)
	}
	return out, dropped
}

func valueFor(kind enums.CouponKind, value decimal.Decimal, isPercentage *bool) Amount {
	if value.Sign() < 0 {
		value = decimal.Zero
	}
	switch kind {
	case enums.CouponKindPercentage:
		return Percent(value)
	case enums.CouponKindFixedAmount:
		return Fixed(value)
	}

	// delivery coupons
	if isPercentage != nil {
		if !*isPercentage {
			return Fixed(value)
		}
		if value.GreaterThanOrEqual(hundred) {
			return FullWaiver()
		}
		if value.GreaterThan(one) {
			return Percent(value)
		}
		return Percent(value.Mul(hundred))
	}
	switch {
	case value.GreaterThanOrEqual(hundred):
		return FullWaiver()
	case value.GreaterThan(one):
		return Fixed(value)
	default:
		return Percent(value.Mul(hundred))
	}
}

// parseValidDate returns the zero time, meaning no deadline, when the date is missing or
// unparseable. A date without a time covers that whole day in UTC.
func parseValidDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range validDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	if t, err := time.Parse(dateOnlyLayout, raw); err == nil {
		return t.Add(24*time.Hour - time.Nanosecond)
	}
	return time.Time{}
}

func boolValue(b *bool) bool {
	return b != nil && *b
}

func optionalAmount(d *decimal.Decimal) *int {
	if d == nil || d.Sign() < 0 {
		return nil
	}
	v := int(d.Floor().IntPart())
	return &v
}
