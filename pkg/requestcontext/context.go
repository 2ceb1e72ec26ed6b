// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// The acting user and the request time are set by middleware at the boundary
// of each unit of work and read by services deeper in the call chain. Because
// they live on the context, they are scoped to that one unit of work and can
// never leak into a concurrent request — the context dies with the request.
//
// Usage in services (read values):
//
//	actorID, ok := requestcontext.ActorID(ctx)
//	today := requestcontext.Now(ctx)
//
// Usage in middleware and batch jobs (set values):
//
//	ctx = requestcontext.WithActorID(ctx, userID)
//	ctx = requestcontext.WithTime(ctx, tickTime)
package requestcontext

import (
	"context"
	"time"
)

type (
	actorIDKey   struct{}
	requestIDKey struct{}
	timeKey      struct{}
)

// ActorID retrieves the acting user ID from the context. The second return
// reports whether an actor is present; batch jobs without an attributed user
// run with no actor.
func ActorID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(actorIDKey{}).(int64)
	return id, ok
}

// WithActorID injects the acting user ID into the context.
func WithActorID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, actorIDKey{}, userID)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now retrieves the request-scoped time from context. Falls back to
// time.Now() for contexts that never passed through middleware or a worker
// tick. Reconciliation and aging read the clock exclusively through this so
// tests can pin "today".
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(timeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Used by workers so every
// row in one batch sees the same clock, and by tests.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, timeKey{}, t)
}
