package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/flixtify/rolegate/internal/auth/store"
	"github.com/flixtify/rolegate/pkg/authsdk"
	"github.com/flixtify/rolegate/pkg/httpx"
	"github.com/flixtify/rolegate/pkg/jwtx"
	"github.com/flixtify/rolegate/pkg/slogx"
)

// AuthnMiddleware verifies the bearer access token and loads the account it
// names. The user and active role IDs land in the request context for the
// handlers behind it. Disabled or deleted accounts are rejected even when the
// token itself is still live.
func AuthnMiddleware(verifier jwtx.Verifier, st store.Store) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				authsdk.ErrUnauthorized.WithDescription("missing bearer token").Write(w)
				return
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				authsdk.ErrUnauthorized.WithDescription("invalid access token").Write(w)
				return
			}
			// Refresh tokens are signed with the same key; they must never
			// pass as access credentials.
			if err := claims.ValidateUse(jwtx.TokenUseAccess); err != nil {
				authsdk.ErrUnauthorized.WithDescription("invalid access token").Write(w)
				return
			}

			user, err := st.Users().GetUserByID(r.Context(), claims.Subject)
			if errors.Is(err, store.ErrNotFound) {
				authsdk.ErrUnauthorized.WithDescription("unknown account").Write(w)
				return
			}
			if err != nil {
				slogx.FromContext(r.Context()).Error("load user for authn", "error", err)
				authsdk.ErrInternal.Write(w)
				return
			}
			if !user.Enabled || user.Deleted {
				authsdk.ErrForbidden.WithDescription("account disabled").Write(w)
				return
			}

			ctx := httpx.WithIdentity(r.Context(), user.ID, claims.ActiveRoleID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a route on the session's active role carrying the
// administrative role name. It must sit behind AuthnMiddleware.
func RequireAdmin(st store.Store, adminRoleName string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleID := httpx.ActiveRoleIDFromCtx(r.Context())
			if roleID == "" {
				authsdk.ErrForbidden.WithDescription("no active role").Write(w)
				return
			}

			role, err := st.Roles().GetRoleByID(r.Context(), roleID)
			if errors.Is(err, store.ErrNotFound) {
				authsdk.ErrForbidden.WithDescription("active role no longer exists").Write(w)
				return
			}
			if err != nil {
				slogx.FromContext(r.Context()).Error("load role for admin gate", "error", err)
				authsdk.ErrInternal.Write(w)
				return
			}
			if role.Name != adminRoleName {
				authsdk.ErrForbidden.WithDescription("administrator role required").Write(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}
