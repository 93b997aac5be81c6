package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flixtify/rolegate/internal/auth/domain"
	"github.com/flixtify/rolegate/internal/auth/service"
	"github.com/flixtify/rolegate/internal/auth/store"
	"github.com/flixtify/rolegate/pkg/authsdk"
	"github.com/flixtify/rolegate/pkg/slogx"
)

// maxBodyBytes caps request bodies. Every payload this API accepts is a small
// JSON document.
const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst. On failure it writes a
// bad_request response and returns false; the handler should return
// immediately.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		authsdk.ErrBadRequest.WithDescription("invalid JSON body").Write(w)
		return false
	}
	return true
}

// writeServiceError translates service and store sentinels into the standard
// error envelope. Anything unrecognized is logged and reported as a 500
// without leaking internals.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrDuplicateAssignment),
		errors.Is(err, service.ErrRoleInUse),
		errors.Is(err, service.ErrMenuHasChildren),
		errors.Is(err, service.ErrMenuCycle),
		errors.Is(err, service.ErrActiveRoleRevoke),
		errors.Is(err, service.ErrSelfTarget),
		errors.Is(err, service.ErrMethodNotVerified):
		authsdk.ErrBadRequest.WithDescription(err.Error()).Write(w)

	case errors.Is(err, service.ErrOTPRequired),
		errors.Is(err, service.ErrOTPInvalid),
		errors.Is(err, service.ErrRefreshInvalid):
		authsdk.ErrUnauthorized.WithDescription(err.Error()).Write(w)

	case errors.Is(err, service.ErrAccountDisabled),
		errors.Is(err, service.ErrNoActiveRole),
		errors.Is(err, service.ErrRoleNotAssigned):
		authsdk.ErrForbidden.WithDescription(err.Error()).Write(w)

	case errors.Is(err, store.ErrNotFound):
		authsdk.ErrNotFound.Write(w)

	case errors.Is(err, store.ErrAlreadyExists):
		authsdk.ErrConflict.Write(w)

	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "error", err)
		authsdk.ErrInternal.Write(w)
	}
}

func toTokenResponse(pair domain.TokenPair, user *domain.UserSummary) authsdk.TokenResponse {
	out := authsdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	}
	if user != nil {
		out.User = &authsdk.UserSummary{
			ID:         user.ID,
			Username:   user.Username,
			Email:      user.Email,
			ActiveRole: user.ActiveRole,
			Roles:      user.Roles,
		}
	}
	return out
}

func toMenuEntries(entries []domain.MenuEntry) []authsdk.MenuEntry {
	out := make([]authsdk.MenuEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, authsdk.MenuEntry{
			ID:     e.ID,
			Name:   e.Name,
			Path:   e.Path,
			Icon:   e.Icon,
			Type:   e.Type,
			Parent: e.Parent,
		})
	}
	return out
}

func toRole(r domain.Role) authsdk.Role {
	return authsdk.Role{ID: r.ID, Name: r.Name, Description: r.Description}
}

func toMenu(m domain.Menu) authsdk.Menu {
	return authsdk.Menu{
		ID:       m.ID,
		Name:     m.Name,
		Icon:     m.Icon,
		Path:     m.Path,
		Type:     string(m.Type),
		ParentID: m.ParentID,
	}
}

func toUser(u domain.User) authsdk.User {
	return authsdk.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Enabled:      u.Enabled,
		TwoFAEnabled: u.TwoFAEnabled,
		Preferences:  authsdk.Preferences(u.Preferences),
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
	}
}

func toTwoFAMethod(m domain.TwoFAMethod) authsdk.TwoFAMethod {
	return authsdk.TwoFAMethod{
		ID:         m.ID,
		MethodType: string(m.MethodType),
		IsEnabled:  m.IsEnabled,
		IsVerified: m.IsVerified,
		IsPrimary:  m.IsPrimary,
		CreatedAt:  m.CreatedAt,
	}
}
