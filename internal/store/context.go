package store

import "context"

type contextKey struct{}

// NewContext returns a copy of ctx carrying the session store
func NewContext(ctx context.Context, st *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, st)
}

// FromContext returns the session store carried by ctx, if any
func FromContext(ctx context.Context) (*Store, bool) {
	st, ok := ctx.Value(contextKey{}).(*Store)
	return st, ok && st != nil
}
