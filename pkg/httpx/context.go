package httpx

import "context"

type ctxKey string

// CtxKeyUserID holds the authenticated user's ID once AuthnMiddleware has
// resolved the bearer token.
const CtxKeyUserID ctxKey = "user_id"

// UserIDFromContext returns the authenticated user ID, or "" when the
// request did not pass through AuthnMiddleware.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
