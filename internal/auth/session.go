package auth

import (
	"context"
	"time"
)

// Session identifies the caller of an authenticated request.
type Session struct {
	UserID    int64
	Email     string
	Name      string
	ExpiresAt time.Time
}

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SessionFromContext returns the session installed by the auth middleware.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
