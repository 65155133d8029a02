// Package ctxutil carries request-scoped values that adapters need but the
// core never sees. It has no internal dependencies to avoid import cycles.
package ctxutil

import (
	"context"
	"os"
	"os/user"
)

// ActorKey is the context key for the actor recorded in the audit trail.
type ActorKey struct{}

// WithActorID returns a context with the actor ID embedded.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, ActorKey{}, actorID)
}

// ActorFromContext returns the actor ID from context, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ActorKey{}).(string); ok {
		return v
	}
	return ""
}

// LocalActor names the person at the keyboard: $WARDNOTES_ACTOR if set,
// otherwise the login name of the OS user.
func LocalActor() string {
	if a := os.Getenv("WARDNOTES_ACTOR"); a != "" {
		return a
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
