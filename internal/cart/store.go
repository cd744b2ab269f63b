package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/errors"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/logger"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/metrics"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/storage"
)

const (
	DefaultMaxQuantity = 99
	DefaultStorageKey  = "cart"
)

// Options configures a Store.
type Options struct {
	StorageKey  string
	MaxQuantity int
	Logger      *logger.Logger
	Metrics     *metrics.CartMetrics
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.StorageKey) == "" {
		o.StorageKey = DefaultStorageKey
	}
	if o.MaxQuantity <= 0 {
		o.MaxQuantity = DefaultMaxQuantity
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	return o
}

type snapshot struct {
	Items []LineItem `json:"items"`
}

// Store is a write-through cart. Every mutation is applied in memory and then the whole
// cart is written to the backing KV before the call returns.
type Store struct {
	mu      sync.Mutex
	kv      storage.KV
	opts    Options
	items   []LineItem
	metrics *metrics.CartMetrics
}

// NewStore returns an empty store. Call Load to pick up previously persisted state.
func NewStore(kv storage.KV, opts Options) *Store {
	opts = opts.withDefaults()
	return &Store{kv: kv, opts: opts, metrics: opts.Metrics}
}

// Open builds a store and loads its persisted state.
func Open(ctx context.Context, kv storage.KV, opts Options) (*Store, error) {
	s := NewStore(kv, opts)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the in-memory cart with the persisted one. Missing or unreadable state
// yields an empty cart; only a storage read failure is returned.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = s.opts.Logger.WithField(ctx, "storage_key", s.opts.StorageKey)
	raw, ok, err := s.kv.Get(ctx, s.opts.StorageKey)
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "read cart state")
	}
	s.items = nil
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		s.opts.Logger.WarnErr(ctx, "discarding unreadable cart state", err)
		s.metrics.IncLoadFallback()
		return nil
	}
	items, repaired := s.mergeEntries(snap.Items)
	if repaired > 0 {
		s.opts.Logger.Warn(s.opts.Logger.WithField(ctx, "repaired", repaired), "repaired stored cart entries")
	}
	s.items = items
	return nil
}

// Add merges item into the cart. An entry with the same item id and option fingerprint has
// its quantity increased (capped at the max quantity); otherwise the item is appended.
func (s *Store) Add(ctx context.Context, item LineItem) (LineItem, error) {
	if strings.TrimSpace(item.ItemID) == "" {
		return LineItem{}, errors.New(errors.CodeValidation, "itemId is required")
	}
	if item.Quantity < 1 {
		return LineItem{}, errors.New(errors.CodeValidation, "quantity must be at least 1")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item = item.withFingerprint()
	idx := s.indexOf(item.Key())
	if idx >= 0 {
		s.items[idx].Quantity = s.capQuantity(s.items[idx].Quantity + item.Quantity)
	} else {
		item.Quantity = s.capQuantity(item.Quantity)
		s.items = append(s.items, item)
		idx = len(s.items) - 1
	}
	result := s.items[idx].clone()

	s.metrics.ObserveMutation("add", true)
	return result, s.persist(ctx)
}

// UpdateQuantity adds delta to the matching entry. The change is ignored (false, nil) when
// the entry does not exist or the new quantity would leave 1..max.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, fingerprint int32, delta int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(Key{ItemID: itemID, Fingerprint: fingerprint})
	if idx < 0 {
		s.metrics.ObserveMutation("update_quantity", false)
		return false, nil
	}
	next := s.items[idx].Quantity + delta
	if next < 1 || next > s.opts.MaxQuantity {
		s.metrics.ObserveMutation("update_quantity", false)
		return false, nil
	}
	s.items[idx].Quantity = next

	s.metrics.ObserveMutation("update_quantity", true)
	return true, s.persist(ctx)
}

// Remove deletes the matching entry and leaves entries with other fingerprints alone.
func (s *Store) Remove(ctx context.Context, itemID string, fingerprint int32) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(Key{ItemID: itemID, Fingerprint: fingerprint})
	if idx < 0 {
		s.metrics.ObserveMutation("remove", false)
		return false, nil
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)

	s.metrics.ObserveMutation("remove", true)
	return true, s.persist(ctx)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.metrics.ObserveMutation("clear", true)
	return s.persist(ctx)
}

// Initialize replaces the cart with items. Entries sharing an item id and option
// fingerprint are merged into the first one.
func (s *Store) Initialize(ctx context.Context, items []LineItem) error {
	for _, item := range items {
		if strings.TrimSpace(item.ItemID) == "" {
			return errors.New(errors.CodeValidation, "itemId is required")
		}
		if item.Quantity < 1 || item.Quantity > s.opts.MaxQuantity {
			return errors.New(errors.CodeValidation, fmt.Sprintf("quantity must be between 1 and %d", s.opts.MaxQuantity))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items, _ = s.mergeEntries(items)

	s.metrics.ObserveMutation("initialize", true)
	return s.persist(ctx)
}

// Persist writes the current cart to storage.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx)
}

// Items returns a copy of the cart entries in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItems()
}

func (s *Store) Subtotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Subtotal(s.items)
}

// Count returns the total quantity across entries.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

func (s *Store) indexOf(key Key) int {
	for i, item := range s.items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

// mergeEntries folds entries with the same key into the first occurrence and keeps every
// quantity within 1..max. Entries without an item id or a positive quantity are dropped.
// It reports how many entries were merged, dropped or clamped.
func (s *Store) mergeEntries(items []LineItem) ([]LineItem, int) {
	out := make([]LineItem, 0, len(items))
	index := make(map[Key]int, len(items))
	repaired := 0
	for _, item := range items {
		if strings.TrimSpace(item.ItemID) == "" || item.Quantity < 1 {
			repaired++
			continue
		}
		item = item.withFingerprint()
		if idx, ok := index[item.Key()]; ok {
			out[idx].Quantity = s.capQuantity(out[idx].Quantity + item.Quantity)
			repaired++
			continue
		}
		if item.Quantity > s.opts.MaxQuantity {
			item.Quantity = s.opts.MaxQuantity
			repaired++
		}
		index[item.Key()] = len(out)
		out = append(out, item)
	}
	return out, repaired
}

func (s *Store) capQuantity(quantity int) int {
	if quantity > s.opts.MaxQuantity {
		return s.opts.MaxQuantity
	}
	return quantity
}

func (s *Store) copyItems() []LineItem {
	out := make([]LineItem, len(s.items))
	for i, item := range s.items {
		out[i] = item.clone()
	}
	return out
}

// persist must be called with mu held.
func (s *Store) persist(ctx context.Context) error {
	payload, err := json.Marshal(snapshot{Items: s.copyItems()})
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "encode cart state")
	}
	if err := s.kv.Set(ctx, s.opts.StorageKey, string(payload)); err != nil {
		s.metrics.IncPersistFailure()
		ctx = s.opts.Logger.WithField(ctx, "storage_key", s.opts.StorageKey)
		s.opts.Logger.Error(ctx, "failed to persist cart state", err)
		return errors.Wrap(errors.CodeDependency, err, "persist cart state")
	}
	return nil
}
