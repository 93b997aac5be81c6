package http

import (
	"net/http"
	"time"

	"github.com/flixtify/rolegate/internal/auth/service"
	"github.com/flixtify/rolegate/internal/auth/store"
	"github.com/flixtify/rolegate/pkg/httpx"
	"github.com/flixtify/rolegate/pkg/jwtx"
)

// RouterConfig carries everything the route table needs.
type RouterConfig struct {
	Auth        *service.AuthService
	Roles       *service.RoleService
	Menus       *service.MenuService
	Assignments *service.AssignmentService
	Users       *service.UserService
	TwoFA       *service.TwoFAService

	Store    store.Store
	Verifier jwtx.Verifier

	// AdminRoleName gates the administrative routes.
	AdminRoleName string

	Version   string
	StartTime time.Time
}

// Router is the HTTP front of the service. Middlewares passed to NewRouter
// wrap every route; per-route gates and rate limits are attached in
// ApplyRoutes.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
}

// NewRouter builds the full route table. The variadic middlewares wrap the
// whole mux, outermost first.
func NewRouter(cfg RouterConfig, middlewares ...httpx.Middleware) *Router {
	r := &Router{
		Mux:         http.NewServeMux(),
		middlewares: middlewares,
	}
	r.ApplyRoutes(cfg)
	return r
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// ApplyRoutes registers every endpoint with its gates and rate limits.
// Credential-accepting routes get the strict per-IP profile; authenticated
// reads and writes are limited per user.
func (r *Router) ApplyRoutes(cfg RouterConfig) {
	auth := &AuthHandler{Auth: cfg.Auth}
	roles := &RolesHandler{Roles: cfg.Roles}
	menus := &MenusHandler{Menus: cfg.Menus}
	assignments := &AssignmentsHandler{Assignments: cfg.Assignments}
	users := &UsersHandler{Users: cfg.Users}
	profile := &ProfileHandler{Users: cfg.Users}
	twofa := &TwoFAHandler{TwoFA: cfg.TwoFA}

	authn := AuthnMiddleware(cfg.Verifier, cfg.Store)
	admin := RequireAdmin(cfg.Store, cfg.AdminRoleName)

	// public wraps unauthenticated credential endpoints.
	public := func(h http.HandlerFunc) http.Handler {
		return httpx.Chain(h, httpx.RateLimitByIP(httpx.StrictLimit))
	}
	// authedRead and authedWrite wrap routes behind the authn gate. The gate
	// runs first so the per-user limiter can key on the identity it injects.
	authedRead := func(h http.HandlerFunc) http.Handler {
		return httpx.Chain(h, authn, httpx.RateLimitByUser(httpx.LenientLimit))
	}
	authedWrite := func(h http.HandlerFunc) http.Handler {
		return httpx.Chain(h, authn, httpx.RateLimitByUser(httpx.ModerateLimit))
	}
	adminRead := func(h http.HandlerFunc) http.Handler {
		return httpx.Chain(h, authn, admin, httpx.RateLimitByUser(httpx.LenientLimit))
	}
	adminWrite := func(h http.HandlerFunc) http.Handler {
		return httpx.Chain(h, authn, admin, httpx.RateLimitByUser(httpx.ModerateLimit))
	}

	// Credential lifecycle.
	r.Mux.Handle("POST /v1/auth/register", public(auth.Register))
	r.Mux.Handle("POST /v1/auth/login", public(auth.Login))
	r.Mux.Handle("POST /v1/auth/refresh", public(auth.Refresh))
	r.Mux.Handle("POST /v1/auth/logout", public(auth.Logout))
	r.Mux.Handle("POST /v1/auth/switch-role", authedWrite(auth.SwitchRole))
	r.Mux.Handle("GET /v1/auth/menus", authedRead(auth.Menus))

	// Self service.
	r.Mux.Handle("GET /v1/profile", authedRead(profile.Get))
	r.Mux.Handle("PUT /v1/profile", authedWrite(profile.Update))

	// Second factor lifecycle.
	r.Mux.Handle("POST /v1/2fa/totp/enroll", authedWrite(twofa.EnrollTOTP))
	r.Mux.Handle("POST /v1/2fa/methods/{id}/verify", authedWrite(twofa.Verify))
	r.Mux.Handle("GET /v1/2fa/methods", authedRead(twofa.List))
	r.Mux.Handle("PUT /v1/2fa/methods/{id}/activate", authedWrite(twofa.Activate))
	r.Mux.Handle("DELETE /v1/2fa/methods/{id}", authedWrite(twofa.Delete))

	// Role administration.
	r.Mux.Handle("POST /v1/roles", adminWrite(roles.Create))
	r.Mux.Handle("GET /v1/roles", adminRead(roles.List))
	r.Mux.Handle("GET /v1/roles/{id}", adminRead(roles.Get))
	r.Mux.Handle("PUT /v1/roles/{id}", adminWrite(roles.Update))
	r.Mux.Handle("DELETE /v1/roles/{id}", adminWrite(roles.Delete))

	// Menu administration.
	r.Mux.Handle("POST /v1/menus", adminWrite(menus.Create))
	r.Mux.Handle("GET /v1/menus", adminRead(menus.List))
	r.Mux.Handle("GET /v1/menus/{id}", adminRead(menus.Get))
	r.Mux.Handle("PUT /v1/menus/{id}", adminWrite(menus.Update))
	r.Mux.Handle("DELETE /v1/menus/{id}", adminWrite(menus.Delete))

	// Assignments and grants.
	r.Mux.Handle("POST /v1/user-roles", adminWrite(assignments.AssignRole))
	r.Mux.Handle("GET /v1/user-roles/{userId}", adminRead(assignments.UserRoles))
	r.Mux.Handle("DELETE /v1/user-roles/{userId}/{roleId}", adminWrite(assignments.RevokeRole))
	r.Mux.Handle("POST /v1/role-menus", adminWrite(assignments.AssignMenu))
	r.Mux.Handle("GET /v1/role-menus/{roleId}", adminRead(assignments.RoleMenus))
	r.Mux.Handle("DELETE /v1/role-menus/{roleId}/{menuId}", adminWrite(assignments.RevokeMenu))

	// Account administration.
	r.Mux.Handle("GET /v1/users", adminRead(users.List))
	r.Mux.Handle("GET /v1/users/{id}", adminRead(users.Get))
	r.Mux.Handle("PUT /v1/users/{id}", adminWrite(users.Update))
	r.Mux.Handle("DELETE /v1/users/{id}", adminWrite(users.Deactivate))
	r.Mux.Handle("DELETE /v1/users/{id}/hard", adminWrite(users.Purge))

	// Probes stay outside every gate.
	r.Mux.Handle("GET /livez", httpx.Chain(LivezHandler(cfg.StartTime, cfg.Version),
		httpx.RateLimitByIP(httpx.PublicLimit)))
	r.Mux.Handle("GET /readyz", httpx.Chain(ReadyzHandler(cfg.Store),
		httpx.RateLimitByIP(httpx.PublicLimit)))
}
