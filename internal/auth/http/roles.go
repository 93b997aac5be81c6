package http

import (
	"net/http"

	"github.com/flixtify/rolegate/internal/auth/service"
	"github.com/flixtify/rolegate/pkg/authsdk"
	"github.com/flixtify/rolegate/pkg/httpx"
)

// RolesHandler serves the administrative role CRUD surface.
type RolesHandler struct {
	Roles *service.RoleService
}

func (h *RolesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	role, err := h.Roles.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toRole(role))
}

func (h *RolesHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Roles.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]authsdk.Role, 0, len(roles))
	for _, role := range roles {
		out = append(out, toRole(role))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *RolesHandler) Get(w http.ResponseWriter, r *http.Request) {
	role, err := h.Roles.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toRole(role))
}

func (h *RolesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	role, err := h.Roles.Update(r.Context(), r.PathValue("id"), req.Name, req.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toRole(role))
}

// Delete removes a role that no user currently holds.
func (h *RolesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Roles.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
