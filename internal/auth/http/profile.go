package http

import (
	"net/http"

	"github.com/flixtify/rolegate/internal/auth/domain"
	"github.com/flixtify/rolegate/internal/auth/service"
	"github.com/flixtify/rolegate/pkg/authsdk"
	"github.com/flixtify/rolegate/pkg/httpx"
)

// ProfileHandler serves the caller's own account view.
type ProfileHandler struct {
	Users *service.UserService
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.Get(r.Context(), httpx.UserIDFromCtx(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUser(user))
}

// Update changes the caller's username and preferences. Email, password and
// account flags are not reachable from here.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req authsdk.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var prefs *domain.Preferences
	if req.Preferences != nil {
		p := domain.Preferences(*req.Preferences)
		prefs = &p
	}

	user, err := h.Users.UpdateProfile(r.Context(), httpx.UserIDFromCtx(r.Context()), service.ProfileParams{
		Username:    req.Username,
		Preferences: prefs,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUser(user))
}
