package cart

import "github.com/Iduk-Baduk/itseats-web-customer-sub001/internal/menu"

// LineItem is one cart entry: a menu item with its selected options and a quantity.
type LineItem struct {
	ItemID       string             `json:"itemId" validate:"required"`
	Name         string             `json:"name,omitempty"`
	StoreID      string             `json:"storeId,omitempty"`
	BasePrice    int                `json:"basePrice" validate:"min=0"`
	Quantity     int                `json:"quantity" validate:"min=1,max=99"`
	OptionGroups []menu.OptionGroup `json:"optionGroups" validate:"dive"`
	Fingerprint  int32              `json:"fingerprint"`
}

// Key addresses a line item inside a cart.
type Key struct {
	ItemID      string
	Fingerprint int32
}

func (li LineItem) Key() Key {
	return Key{ItemID: li.ItemID, Fingerprint: li.Fingerprint}
}

func (li LineItem) clone() LineItem {
	li.OptionGroups = menu.CloneGroups(li.OptionGroups)
	return li
}

// withFingerprint returns a copy whose fingerprint matches its option groups.
func (li LineItem) withFingerprint() LineItem {
	out := li.clone()
	out.Fingerprint = menu.Fingerprint(out.OptionGroups)
	return out
}
