package coupon

import (
	"sync"
	"time"

	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/enums"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Selection is the ordered set of coupons a session has picked.
type Selection struct {
	mu        sync.Mutex
	validator Validator
	selected  []Coupon
}

func NewSelection(validator Validator) *Selection {
	return &Selection{validator: validator}
}

// Select adds c to the selection. Invalid coupons and stackable coupons picked next to a
// non-stackable one are rejected without touching the selection. A non-stackable coupon
// replaces whatever was selected before.
func (s *Selection) Select(c Coupon, orderSubtotal int) (enums.SelectionOutcome, enums.CouponRejection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if reason := s.validator.Check(c, orderSubtotal); reason.Rejected() {
		return enums.SelectionOutcomeRejected, reason
	}
	if s.indexOf(c.ID) >= 0 {
		return enums.SelectionOutcomeUnchanged, enums.CouponRejectionNone
	}
	if !c.Stackable {
		outcome := enums.SelectionOutcomeSelected
		if len(s.selected) > 0 {
			outcome = enums.SelectionOutcomeReplaced
		}
		s.selected = []Coupon{c}
		return outcome, enums.CouponRejectionNone
	}
	if s.hasNonStackable() {
		return enums.SelectionOutcomeRejected, enums.CouponRejectionStackConflict
	}
	s.selected = append(s.selected, c)
	return enums.SelectionOutcomeSelected, enums.CouponRejectionNone
}

// Deselect removes only the coupon with id.
func (s *Selection) Deselect(id string) enums.SelectionOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return enums.SelectionOutcomeUnchanged
	}
	s.selected = append(s.selected[:idx:idx], s.selected[idx+1:]...)
	return enums.SelectionOutcomeDeselected
}

// Toggle deselects c when it is selected and selects it otherwise.
func (s *Selection) Toggle(c Coupon, orderSubtotal int) (enums.SelectionOutcome, enums.CouponRejection) {
	if s.Contains(c.ID) {
		return s.Deselect(c.ID), enums.CouponRejectionNone
	}
	return s.Select(c, orderSubtotal)
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

func (s *Selection) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

// IDs returns the selected coupon ids in selection order.
func (s *Selection) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.selected))
	for i, c := range s.selected {
		ids[i] = c.ID
	}
	return ids
}

// Resolve returns the selected coupons as currently known by lookup, in selection order.
// Ids the lookup no longer knows are skipped.
func (s *Selection) Resolve(lookup func(id string) (Coupon, bool)) []Coupon {
	ids := s.IDs()
	out := make([]Coupon, 0, len(ids))
	for _, id := range ids {
		if c, ok := lookup(id); ok {
			out = append(out, c)
		}
	}
	return out
}

func (s *Selection) indexOf(id string) int {
	for i, c := range s.selected {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Selection) hasNonStackable() bool {
	for _, c := range s.selected {
		if !c.Stackable {
			return true
		}
	}
	return false
}

const (
	DefaultMaxSessions = 10000
	DefaultSessionTTL  = 30 * time.Minute
)

// SelectionsOptions bounds how many idle selections are kept. An evicted session starts
// over with an empty selection.
type SelectionsOptions struct {
	MaxSessions int
	SessionTTL  time.Duration
}

// Selections keeps one Selection per session.
type Selections struct {
	mu        sync.Mutex
	validator Validator
	sessions  *expirable.LRU[string, *Selection]
}

func NewSelections(validator Validator, opts SelectionsOptions) *Selections {
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	return &Selections{
		validator: validator,
		sessions:  expirable.NewLRU[string, *Selection](opts.MaxSessions, nil, opts.SessionTTL),
	}
}

// For returns the session's selection, creating an empty one on first use. Each call
// restarts the session's idle timer.
func (s *Selections) For(sessionID string) *Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.sessions.Get(sessionID)
	if !ok {
		sel = NewSelection(s.validator)
	}
	s.sessions.Add(sessionID, sel)
	return sel
}

// Len reports how many sessions hold a selection.
func (s *Selections) Len() int {
	return s.sessions.Len()
}
