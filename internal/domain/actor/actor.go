package actor

import "context"

// Actor identifies who triggered an operation. Both fields are optional.
type Actor struct {
	UserID         string
	OrganizationID string
}

// IsZero reports whether no identifier is known.
func (a Actor) IsZero() bool { return a.UserID == "" && a.OrganizationID == "" }

type ctxKey struct{}

// WithActor stores the actor in the context.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the actor stored in ctx, or the zero Actor.
func FromContext(ctx context.Context) Actor {
	if a, ok := ctx.Value(ctxKey{}).(Actor); ok {
		return a
	}
	return Actor{}
}
