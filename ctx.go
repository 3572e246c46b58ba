package sqlidentity

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

var identityCtxKey = &contextKey{"identity"}

type contextKey struct {
	name string
}

// WithContext sets the Identity in the given context
func WithContext(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// FromContext finds the identity in the context.
func FromContext(ctx context.Context) (*Identity, bool) {
	raw, ok := ctx.Value(identityCtxKey).(*Identity)
	return raw, ok
}

// CurrentIdentity extracts the request identity stored in the fiber context
// by the middleware. The locals key defaults to DefaultContextKey.
func CurrentIdentity(c *fiber.Ctx, keys ...string) (*Identity, bool) {
	key := DefaultContextKey
	if len(keys) > 0 && keys[0] != "" {
		key = keys[0]
	}

	raw := c.Locals(key)
	if raw == nil {
		return nil, false
	}

	identity, ok := raw.(*Identity)
	return identity, ok
}
