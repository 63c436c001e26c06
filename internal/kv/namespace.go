package kv

import "context"

// Namespaced scopes every key of an underlying Store under a prefix,
// so several profiles can share one backend.
type Namespaced struct {
	store  Store
	prefix string
}

func NewNamespaced(store Store, namespace string) *Namespaced {
	prefix := ""
	if namespace != "" {
		prefix = namespace + ":"
	}
	return &Namespaced{store: store, prefix: prefix}
}

func (n *Namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.store.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Set(ctx context.Context, key, value string) error {
	return n.store.Set(ctx, n.prefix+key, value)
}

func (n *Namespaced) Ping(ctx context.Context) error {
	if p, ok := n.store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
