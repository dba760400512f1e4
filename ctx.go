package accounts

import (
	"context"
)

var userIDCtxKey = &contextKey{"user_id"}

type contextKey struct {
	name string
}

// WithUserID attaches the verified caller id to the given context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext finds the verified caller id set by the gate.
// The second value is false for anonymous requests.
func UserIDFromContext(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(userIDCtxKey).(string)
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}
