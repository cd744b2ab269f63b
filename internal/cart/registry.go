package cart

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/errors"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/storage"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/multierr"
)

const (
	DefaultMaxSessions = 10000
	DefaultSessionTTL  = 30 * time.Minute
)

// StorageKeyFor returns the storage key holding a session's cart.
func StorageKeyFor(sessionID string) string {
	return DefaultStorageKey + ":" + sessionID
}

// RegistryOptions bounds the in-memory session cache. Evicted carts stay in storage and are
// reloaded on the next request.
type RegistryOptions struct {
	MaxSessions int
	SessionTTL  time.Duration
}

func (o RegistryOptions) withDefaults() RegistryOptions {
	if o.MaxSessions <= 0 {
		o.MaxSessions = DefaultMaxSessions
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = DefaultSessionTTL
	}
	return o
}

// Registry hands out one lazily loaded Store per session.
type Registry struct {
	mu     sync.Mutex
	kv     storage.KV
	opts   Options
	stores *expirable.LRU[string, *Store]
}

func NewRegistry(kv storage.KV, opts Options, limits RegistryOptions) *Registry {
	limits = limits.withDefaults()
	return &Registry{
		kv:     kv,
		opts:   opts,
		stores: expirable.NewLRU[string, *Store](limits.MaxSessions, nil, limits.SessionTTL),
	}
}

// Get returns the session's store, loading it from storage on first use or after eviction.
func (r *Registry) Get(ctx context.Context, sessionID string) (*Store, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, errors.New(errors.CodeValidation, "session id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores.Get(sessionID); ok {
		// re-adding restarts the idle timer
		r.stores.Add(sessionID, s)
		return s, nil
	}
	opts := r.opts
	opts.StorageKey = StorageKeyFor(sessionID)
	if opts.Logger != nil {
		ctx = opts.Logger.WithSessionID(ctx, sessionID)
	}
	s, err := Open(ctx, r.kv, opts)
	if err != nil {
		return nil, err
	}
	if r.stores.Add(sessionID, s) {
		r.opts.Metrics.IncSessionEvicted()
	}
	return s, nil
}

// Forget drops the cached store for a session. Its persisted state is untouched.
func (r *Registry) Forget(sessionID string) {
	r.stores.Remove(sessionID)
}

// Len reports how many sessions are cached.
func (r *Registry) Len() int {
	return r.stores.Len()
}

// Flush re-persists every cached store and returns the combined failures.
func (r *Registry) Flush(ctx context.Context) error {
	var err error
	for _, s := range r.stores.Values() {
		err = multierr.Append(err, s.Persist(ctx))
	}
	return err
}
