package httpx

import "context"

type ctxKey string

// CtxKeyUserID carries the authenticated user's ID through the request
// context. Set by the session middleware, read by rate limiting.
const CtxKeyUserID ctxKey = "user_id"

func userIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
