package http

import (
	"net/http"

	"github.com/flixtify/rolegate/internal/auth/service"
	"github.com/flixtify/rolegate/pkg/authsdk"
	"github.com/flixtify/rolegate/pkg/httpx"
)

// AssignmentsHandler serves the two link surfaces: user-role assignments and
// role-menu grants.
type AssignmentsHandler struct {
	Assignments *service.AssignmentService
}

// AssignRole links a role to a user. The new link starts inactive; the user
// opts in through switch-role.
func (h *AssignmentsHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	var req authsdk.AssignRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" || req.RoleID == "" {
		authsdk.ErrBadRequest.WithDescription("user_id and role_id are required").Write(w)
		return
	}

	if err := h.Assignments.AssignRoleToUser(r.Context(), req.UserID, req.RoleID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *AssignmentsHandler) UserRoles(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.Assignments.RolesForUser(r.Context(), r.PathValue("userId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]authsdk.RoleAssignment, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, authsdk.RoleAssignment{
			RoleID:      a.RoleID,
			Name:        a.Name,
			Description: a.Description,
			IsActive:    a.IsActive,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// RevokeRole removes a user-role link. The active link is protected; the user
// must switch away first.
func (h *AssignmentsHandler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	err := h.Assignments.RevokeRoleFromUser(r.Context(), r.PathValue("userId"), r.PathValue("roleId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AssignMenu grants a role visibility of a menu.
func (h *AssignmentsHandler) AssignMenu(w http.ResponseWriter, r *http.Request) {
	var req authsdk.AssignMenuRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RoleID == "" || req.MenuID == "" {
		authsdk.ErrBadRequest.WithDescription("role_id and menu_id are required").Write(w)
		return
	}

	if err := h.Assignments.AssignMenuToRole(r.Context(), req.RoleID, req.MenuID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *AssignmentsHandler) RoleMenus(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Assignments.MenusForRole(r.Context(), r.PathValue("roleId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toMenuEntries(entries))
}

func (h *AssignmentsHandler) RevokeMenu(w http.ResponseWriter, r *http.Request) {
	err := h.Assignments.RevokeMenuFromRole(r.Context(), r.PathValue("roleId"), r.PathValue("menuId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
