package auth

import "context"

type ctxKey int

const ctxUserID ctxKey = iota

// WithUser stores the authenticated user's ID in context.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxUserID, userID)
}

// UserID returns the authenticated user's ID, if any.
// ok is false for anonymous requests; anonymous is not an error here.
func UserID(ctx context.Context) (string, bool) {
	v := ctx.Value(ctxUserID)
	if s, ok := v.(string); ok && s != "" {
		return s, true
	}
	return "", false
}
