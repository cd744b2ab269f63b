package coupon

import (
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/enums"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/money"
	"github.com/shopspring/decimal"
)

// Calculator computes coupon discounts in whole currency units. The zero value rounds to
// money.DefaultRoundingUnit.
type Calculator struct {
	roundingUnit int
}

// NewCalculator uses money.DefaultRoundingUnit when unit is not positive.
func NewCalculator(roundingUnit int) Calculator {
	if roundingUnit <= 0 {
		roundingUnit = money.DefaultRoundingUnit
	}
	return Calculator{roundingUnit: roundingUnit}
}

// Discount returns what c takes off. It never exceeds the bucket it applies to: the order
// subtotal for PERCENTAGE and FIXED_AMOUNT, the delivery fee for DELIVERY.
func (calc Calculator) Discount(c Coupon, orderSubtotal, deliveryFee int) int {
	if orderSubtotal < 0 || deliveryFee < 0 {
		return 0
	}
	switch c.Kind {
	case enums.CouponKindPercentage:
		raw := calc.amountOff(c.Value, orderSubtotal)
		return money.Clamp(capAt(raw, c.MaxDiscount), orderSubtotal)
	case enums.CouponKindDelivery:
		raw := calc.amountOff(c.Value, deliveryFee)
		return money.Clamp(capAt(raw, c.MaxDiscount), deliveryFee)
	case enums.CouponKindFixedAmount:
		return money.Clamp(wholeUnits(c.Value.Value), orderSubtotal)
	}
	return 0
}

func (calc Calculator) amountOff(v Amount, base int) int {
	switch v.Mode {
	case enums.DiscountModeFullWaiver:
		return base
	case enums.DiscountModeAmount:
		return wholeUnits(v.Value)
	case enums.DiscountModePercent:
		return money.FloorToUnit(money.PercentOf(base, v.Value), calc.unit())
	}
	return 0
}

func (calc Calculator) unit() int {
	if calc.roundingUnit <= 0 {
		return money.DefaultRoundingUnit
	}
	return calc.roundingUnit
}

// accumulator carries the running remainders through Aggregate's fold.
type accumulator struct {
	remainingOrder    int
	remainingDelivery int
	result            DiscountResult
}

// Aggregate combines the selected coupons. When any coupon is non-stackable only the first
// non-stackable one applies. Otherwise coupons apply in order, each against what is left
// of its bucket after the previous ones.
func (calc Calculator) Aggregate(selected []Coupon, orderSubtotal, deliveryFee int) DiscountResult {
	acc := accumulator{
		remainingOrder:    money.NonNegative(orderSubtotal),
		remainingDelivery: money.NonNegative(deliveryFee),
		result:            DiscountResult{Applied: []AppliedCoupon{}},
	}
	for _, c := range selected {
		if !c.Stackable {
			return calc.apply(acc, c).result
		}
	}
	for _, c := range selected {
		acc = calc.apply(acc, c)
	}
	return acc.result
}

func (calc Calculator) apply(acc accumulator, c Coupon) accumulator {
	amount := calc.Discount(c, acc.remainingOrder, acc.remainingDelivery)
	if c.Kind.DiscountsDelivery() {
		acc.remainingDelivery = money.NonNegative(acc.remainingDelivery - amount)
		acc.result.DeliveryDiscount += amount
	} else {
		acc.remainingOrder = money.NonNegative(acc.remainingOrder - amount)
		acc.result.OrderDiscount += amount
	}
	acc.result.TotalDiscount = acc.result.OrderDiscount + acc.result.DeliveryDiscount
	acc.result.Applied = append(acc.result.Applied, AppliedCoupon{CouponID: c.ID, Kind: c.Kind, Amount: amount})
	return acc
}

func capAt(value int, limit *int) int {
	if limit != nil && value > *limit {
		return *limit
	}
	return value
}

func wholeUnits(d decimal.Decimal) int {
	if d.Sign() <= 0 {
		return 0
	}
	return int(d.Floor().IntPart())
}
