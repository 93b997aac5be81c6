package http

import (
	"net/http"

	"github.com/flixtify/rolegate/internal/auth/domain"
	"github.com/flixtify/rolegate/internal/auth/service"
	"github.com/flixtify/rolegate/pkg/authsdk"
	"github.com/flixtify/rolegate/pkg/httpx"
)

// MenusHandler serves the administrative menu CRUD surface. Visibility grants
// live on AssignmentsHandler.
type MenusHandler struct {
	Menus *service.MenuService
}

func menuParams(req authsdk.MenuRequest) service.MenuParams {
	return service.MenuParams{
		Name:     req.Name,
		Icon:     req.Icon,
		Path:     req.Path,
		Type:     domain.MenuType(req.Type),
		ParentID: req.ParentID,
	}
}

func (h *MenusHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req authsdk.MenuRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	menu, err := h.Menus.Create(r.Context(), menuParams(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toMenu(menu))
}

func (h *MenusHandler) List(w http.ResponseWriter, r *http.Request) {
	menus, err := h.Menus.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]authsdk.Menu, 0, len(menus))
	for _, m := range menus {
		out = append(out, toMenu(m))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *MenusHandler) Get(w http.ResponseWriter, r *http.Request) {
	menu, err := h.Menus.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toMenu(menu))
}

// Update replaces a menu's fields. Re-parenting is validated against the
// existing tree so no update can introduce a cycle.
func (h *MenusHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req authsdk.MenuRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	menu, err := h.Menus.Update(r.Context(), r.PathValue("id"), menuParams(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toMenu(menu))
}

// Delete removes a childless menu together with its role grants.
func (h *MenusHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Menus.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
