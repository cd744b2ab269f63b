package enums

// SelectionOutcome reports what a coupon selection toggle did to the selection state.
type SelectionOutcome string

const (
	SelectionOutcomeSelected   SelectionOutcome = "selected"
	SelectionOutcomeReplaced   SelectionOutcome = "replaced"
	SelectionOutcomeDeselected SelectionOutcome = "deselected"
	SelectionOutcomeUnchanged  SelectionOutcome = "unchanged"
	SelectionOutcomeRejected   SelectionOutcome = "rejected"
)

// String implements fmt.Stringer.
func (o SelectionOutcome) String() string {
	return string(o)
}

// Changed reports whether the selection state was mutated.
func (o SelectionOutcome) Changed() bool {
	switch o {
	case SelectionOutcomeSelected, SelectionOutcomeReplaced, SelectionOutcomeDeselected:
		return true
	}
	return false
}
