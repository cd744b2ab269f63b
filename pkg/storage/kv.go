// Package storage provides the durable key-value slots that hold serialized client state.
package storage

import (
	"context"
	"strings"
)

// KV is a string key-value store. Get reports ok=false when the key was never written.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Namespaced prefixes every key with a fixed namespace before delegating.
type Namespaced struct {
	inner  KV
	prefix string
}

// WithPrefix wraps kv so keys are written as "<prefix>:<key>". An empty prefix returns kv unchanged.
func WithPrefix(kv KV, prefix string) KV {
	prefix = strings.Trim(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		return kv
	}
	return &Namespaced{inner: kv, prefix: prefix}
}

func (n *Namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.inner.Get(ctx, n.key(key))
}

func (n *Namespaced) Set(ctx context.Context, key, value string) error {
	return n.inner.Set(ctx, n.key(key), value)
}

func (n *Namespaced) key(key string) string {
	return n.prefix + ":" + key
}
