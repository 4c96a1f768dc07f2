package common

import "context"

type sessionKey struct{}

// Session carries the identity supplied by the external auth provider. It is
// threaded explicitly through request context rather than living in any global.
type Session struct {
	UserID string
	Email  string
	Phone  string
}

// WithSession stores the authenticated session on the provided context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom extracts the authenticated session from the context if present.
func SessionFrom(ctx context.Context) (Session, bool) {
	v, ok := ctx.Value(sessionKey{}).(Session)
	return v, ok
}

// UserID extracts the authenticated user identifier from the context if present.
func UserID(ctx context.Context) (string, bool) {
	s, ok := SessionFrom(ctx)
	if !ok || s.UserID == "" {
		return "", false
	}
	return s.UserID, true
}
