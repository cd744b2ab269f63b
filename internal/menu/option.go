package menu

// Option is one selected choice inside an option group, with its surcharge.
type Option struct {
	Name  string `json:"name" validate:"required"`
	Price int    `json:"price" validate:"min=0"`
}

// OptionGroup is a named set of selected options (e.g. "Size", "Toppings").
type OptionGroup struct {
	GroupName string   `json:"groupName" validate:"required"`
	Options   []Option `json:"options" validate:"dive"`
}

// OptionTotal sums every option surcharge across all groups. Negative prices count as 0.
func OptionTotal(groups []OptionGroup) int {
	total := 0
	for _, group := range groups {
		for _, option := range group.Options {
			if option.Price > 0 {
				total += option.Price
			}
		}
	}
	return total
}

// CloneGroups deep-copies option groups so callers cannot alias cart state.
func CloneGroups(groups []OptionGroup) []OptionGroup {
	if groups == nil {
		return nil
	}
	out := make([]OptionGroup, len(groups))
	for i, group := range groups {
		out[i] = OptionGroup{GroupName: group.GroupName}
		if group.Options != nil {
			out[i].Options = append([]Option(nil), group.Options...)
		}
	}
	return out
}
