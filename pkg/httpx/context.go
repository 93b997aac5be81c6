package httpx

import "context"

type ctxKey string

const (
	// CtxKeyUserID holds the authenticated user's ID.
	CtxKeyUserID ctxKey = "user_id"
	// CtxKeyActiveRoleID holds the role ID the session operates under.
	CtxKeyActiveRoleID ctxKey = "active_role_id"
)

// WithIdentity injects the authenticated identity into the context. Called
// by the authentication gate once the bearer token checks out.
func WithIdentity(ctx context.Context, userID, activeRoleID string) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, userID)
	return context.WithValue(ctx, CtxKeyActiveRoleID, activeRoleID)
}

// UserIDFromCtx returns the authenticated user ID, or "" before the gate.
func UserIDFromCtx(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeyUserID).(string)
	return v
}

// ActiveRoleIDFromCtx returns the session's active role ID, or "".
func ActiveRoleIDFromCtx(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeyActiveRoleID).(string)
	return v
}
