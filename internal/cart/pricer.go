package cart

import "github.com/Iduk-Baduk/itseats-web-customer-sub001/internal/menu"

// Price returns (base + option surcharges) * quantity. Negative base and option prices
// count as 0 and a non-positive quantity counts as 1, so the result is never negative.
func Price(item LineItem) int {
	base := item.BasePrice
	if base < 0 {
		base = 0
	}
	quantity := item.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	return (base + menu.OptionTotal(item.OptionGroups)) * quantity
}

// Subtotal sums Price over items.
func Subtotal(items []LineItem) int {
	total := 0
	for _, item := range items {
		total += Price(item)
	}
	return total
}
