// Package requestcontext provides HTTP-independent accessors for request-scoped
// values. Middleware sets them; services read them. Keeping this package free of
// net/http lets services import only what they need.
//
// Usage in services (read values):
//
//	correlationID := requestcontext.CorrelationID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithCorrelationID(ctx, id)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "fellgate/pkg/domain"
)

type (
	userAccountIDKey struct{}
	correlationIDKey struct{}
	requestTimeKey   struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyUserAccountID = userAccountIDKey{}
	ContextKeyCorrelationID = correlationIDKey{}
	ContextKeyRequestTime   = requestTimeKey{}
)

// UserAccountID retrieves the authenticated external user's account id.
// Returns the zero value (nil UUID) if not set.
func UserAccountID(ctx context.Context) id.UserAccountID {
	if v, ok := ctx.Value(ContextKeyUserAccountID).(id.UserAccountID); ok {
		return v
	}
	return id.UserAccountID{}
}

// WithUserAccountID injects a user account id into the context.
func WithUserAccountID(ctx context.Context, userID id.UserAccountID) context.Context {
	return context.WithValue(ctx, ContextKeyUserAccountID, userID)
}

// CorrelationID retrieves the request correlation id used verbatim on every
// audit event raised during the request.
func CorrelationID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyCorrelationID).(string); ok {
		return v
	}
	return ""
}

// WithCorrelationID injects a correlation id into the context.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, ContextKeyCorrelationID, correlationID)
}

// Now retrieves the request-scoped time from context. Falls back to time.Now()
// for non-HTTP contexts (workers, CLI, tests that don't pin time).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests that don't run the HTTP middleware chain, and for workers that need a
// consistent time within one batch.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
