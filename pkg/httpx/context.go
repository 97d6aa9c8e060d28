package httpx

import "context"

type ctxKey string

const (
	CtxKeyTabID ctxKey = "tab_id"
	CtxKeyNonce ctxKey = "script_nonce"
)

// ContextWithTab stores the tab id of the request.
func ContextWithTab(ctx context.Context, tabID string) context.Context {
	return context.WithValue(ctx, CtxKeyTabID, tabID)
}

// TabFromContext returns the tab id set by TabMiddleware.
func TabFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyTabID).(string); ok {
		return v
	}
	return ""
}

// NonceFromContext returns the script nonce set by SecurityHeaders.
func NonceFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyNonce).(string); ok {
		return v
	}
	return ""
}
