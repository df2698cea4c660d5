package requestctx

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// Key is the typed context key used for storing the request context.
var Key contextKey = "trevor/requestctx"

// Context captures the identity resolved from the bearer token.
type Context struct {
	UserID uuid.UUID
	Email  string
}

// WithContext embeds the request context into the parent context.
func WithContext(parent context.Context, rc *Context) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithValue(parent, Key, rc)
}

// FromContext retrieves the request context if present.
func FromContext(ctx context.Context) (*Context, bool) {
	if ctx == nil {
		return nil, false
	}
	rc, ok := ctx.Value(Key).(*Context)
	return rc, ok
}
