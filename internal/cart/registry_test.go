package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgerrors "github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/errors"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryIsolatesSessions(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	reg := NewRegistry(kv, Options{}, RegistryOptions{})

	a, err := reg.Get(ctx, "session-a")
	require.NoError(t, err)
	b, err := reg.Get(ctx, "session-b")
	require.NoError(t, err)

	_, err = a.Add(ctx, LineItem{ItemID: "pizza", BasePrice: 10000, Quantity: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, a.Count())
	assert.Equal(t, 0, b.Count())

	again, err := reg.Get(ctx, "session-a")
	require.NoError(t, err)
	assert.Same(t, a, again)
	assert.ElementsMatch(t, []string{"cart:session-a"}, kv.Keys())
}

func TestRegistryReloadsAfterForget(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(storage.NewMemory(), Options{}, RegistryOptions{})

	s, err := reg.Get(ctx, "s1")
	require.NoError(t, err)
	_, err = s.Add(ctx, LineItem{ItemID: "cola", BasePrice: 2000, Quantity: 2})
	require.NoError(t, err)

	reg.Forget("s1")
	assert.Equal(t, 0, reg.Len())

	reloaded, err := reg.Get(ctx, "s1")
	require.NoError(t, err)
	assert.NotSame(t, s, reloaded)
	assert.Equal(t, 2, reloaded.Count())
}

func TestRegistryRequiresSession(t *testing.T) {
	_, err := NewRegistry(storage.NewMemory(), Options{}, RegistryOptions{}).Get(context.Background(), "  ")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestRegistryFlushCombinesFailures(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{}
	reg := NewRegistry(kv, Options{}, RegistryOptions{})
	_, err := reg.Get(ctx, "a")
	require.NoError(t, err)
	_, err = reg.Get(ctx, "b")
	require.NoError(t, err)

	require.NoError(t, reg.Flush(ctx))

	kv.err = errors.New("unavailable")
	err = reg.Flush(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
}

func TestRegistryEvictsLeastRecentSessionAtCapacity(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(storage.NewMemory(), Options{}, RegistryOptions{MaxSessions: 2})

	first, err := reg.Get(ctx, "s1")
	require.NoError(t, err)
	_, err = first.Add(ctx, LineItem{ItemID: "pizza", BasePrice: 10000, Quantity: 3})
	require.NoError(t, err)
	_, err = reg.Get(ctx, "s2")
	require.NoError(t, err)
	_, err = reg.Get(ctx, "s3")
	require.NoError(t, err)

	assert.Equal(t, 2, reg.Len())

	reloaded, err := reg.Get(ctx, "s1")
	require.NoError(t, err)
	assert.NotSame(t, first, reloaded)
	assert.Equal(t, 3, reloaded.Count())
	assert.Equal(t, 2, reg.Len())
}

func TestRegistryKeepsRecentlyUsedSession(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(storage.NewMemory(), Options{}, RegistryOptions{MaxSessions: 2})

	s1, err := reg.Get(ctx, "s1")
	require.NoError(t, err)
	_, err = reg.Get(ctx, "s2")
	require.NoError(t, err)
	_, err = reg.Get(ctx, "s1")
	require.NoError(t, err)
	_, err = reg.Get(ctx, "s3")
	require.NoError(t, err)

	again, err := reg.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Same(t, s1, again)
}

func TestRegistryDropsIdleSessions(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(storage.NewMemory(), Options{}, RegistryOptions{SessionTTL: 20 * time.Millisecond})

	s, err := reg.Get(ctx, "idle")
	require.NoError(t, err)
	_, err = s.Add(ctx, LineItem{ItemID: "cola", BasePrice: 2000, Quantity: 1})
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	reloaded, err := reg.Get(ctx, "idle")
	require.NoError(t, err)
	assert.NotSame(t, s, reloaded)
	assert.Equal(t, 1, reloaded.Count())
}
