package http

import (
	"net/http"

	"github.com/flixtify/rolegate/internal/auth/domain"
	"github.com/flixtify/rolegate/internal/auth/service"
	"github.com/flixtify/rolegate/pkg/authsdk"
	"github.com/flixtify/rolegate/pkg/httpx"
)

// AuthHandler serves the credential endpoints: registration, login, token
// lifecycle, role switching and the active role's menu listing.
type AuthHandler struct {
	Auth *service.AuthService
}

// Register creates an account. The response mirrors the administrative user
// view so clients see the same shape everywhere.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var prefs *domain.Preferences
	if req.Preferences != nil {
		p := domain.Preferences(*req.Preferences)
		prefs = &p
	}

	user, err := h.Auth.Register(r.Context(), service.RegisterParams{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Preferences: prefs,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUser(user))
}

// Login authenticates and returns the token pair plus an identity summary.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Auth.Login(r.Context(), service.LoginParams{
		Email:     req.Email,
		Password:  req.Password,
		OTPCode:   req.OTPCode,
		UserAgent: r.UserAgent(),
		IP:        httpx.IPKeyExtractor(r),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTokenResponse(res.Tokens, &res.User))
}

// Refresh exchanges a refresh token for a new access token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		authsdk.ErrBadRequest.WithDescription("refresh_token is required").Write(w)
		return
	}

	pair, err := h.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTokenResponse(pair, nil))
}

// Logout revokes the refresh session. It succeeds even when the token was
// already revoked.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LogoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		authsdk.ErrBadRequest.WithDescription("refresh_token is required").Write(w)
		return
	}

	if err := h.Auth.Logout(r.Context(), req.RefreshToken); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SwitchRole moves the caller's active role and mints an access token bound
// to it. Outstanding refresh tokens are left alone.
func (h *AuthHandler) SwitchRole(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SwitchRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RoleID == "" {
		authsdk.ErrBadRequest.WithDescription("role_id is required").Write(w)
		return
	}

	userID := httpx.UserIDFromCtx(r.Context())
	pair, err := h.Auth.SwitchActiveRole(r.Context(), userID, req.RoleID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTokenResponse(pair, nil))
}

// Menus lists the navigation entries the active role can see.
func (h *AuthHandler) Menus(w http.ResponseWriter, r *http.Request) {
	roleID := httpx.ActiveRoleIDFromCtx(r.Context())
	entries, err := h.Auth.MenusForActiveRole(r.Context(), roleID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toMenuEntries(entries))
}
