package http

import (
	"net/http"
	"time"

	"github.com/flixtify/rolegate/internal/auth/store"
	"github.com/flixtify/rolegate/pkg/httpx"
	"github.com/flixtify/rolegate/pkg/slogx"
)

// LivezHandler reports process liveness. It always answers ok while the
// process can serve requests at all.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"uptime":  time.Since(startTime).Round(time.Second).String(),
			"version": version,
		})
	}
}

// ReadyzHandler reports readiness to take traffic. A failing database ping
// degrades the answer to 503 so load balancers rotate the instance out.
func ReadyzHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			slogx.FromContext(r.Context()).Error("readiness ping failed", "error", err)
			httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "degraded",
				"checks": map[string]string{"database": "unreachable"},
			})
			return
		}

		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"checks": map[string]string{"database": "ok"},
		})
	}
}
