// Package kvstore is the durable string store shared by the cache layer,
// payment markers and user preferences. Keys form one flat namespace; use
// Namespace to scope a store to a single Telegram identity.
package kvstore

import (
	"context"
	"errors"
	"strconv"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a durable string-keyed string store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type namespaced struct {
	store  Store
	prefix string
}

// Namespace returns a view of store where every key is prefixed.
func Namespace(store Store, prefix string) Store {
	return &namespaced{store: store, prefix: prefix}
}

// ForIdentity scopes store to a single Telegram identity.
func ForIdentity(store Store, id int64) Store {
	return Namespace(store, "tg:"+strconv.FormatInt(id, 10)+":")
}

func (n *namespaced) Get(ctx context.Context, key string) (string, error) {
	return n.store.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.store.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Remove(ctx context.Context, key string) error {
	return n.store.Remove(ctx, n.prefix+key)
}
