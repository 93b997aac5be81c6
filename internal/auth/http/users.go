package http

import (
	"net/http"

	"github.com/flixtify/rolegate/internal/auth/service"
	"github.com/flixtify/rolegate/pkg/authsdk"
	"github.com/flixtify/rolegate/pkg/httpx"
)

// UsersHandler serves the administrative account surface.
type UsersHandler struct {
	Users *service.UserService
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]authsdk.User, 0, len(users))
	for _, u := range users {
		out = append(out, toUser(u))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUser(user))
}

// Update changes another account's username, email or enabled flag. Admins
// edit their own account through the profile endpoints instead.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req authsdk.AdminUpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	actorID := httpx.UserIDFromCtx(r.Context())
	user, err := h.Users.AdminUpdate(r.Context(), actorID, r.PathValue("id"), service.AdminUserParams{
		Username: req.Username,
		Email:    req.Email,
		Enabled:  req.Enabled,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUser(user))
}

// Deactivate soft-deletes an account: it disappears from listings and its
// sessions and 2FA methods are cleared, but the row survives.
func (h *UsersHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	actorID := httpx.UserIDFromCtx(r.Context())
	if err := h.Users.SoftDelete(r.Context(), actorID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Purge permanently removes an account and everything hanging off it.
func (h *UsersHandler) Purge(w http.ResponseWriter, r *http.Request) {
	actorID := httpx.UserIDFromCtx(r.Context())
	if err := h.Users.HardDelete(r.Context(), actorID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
