package http

import (
	"net/http"
	"time"

	"github.com/brianwits/cowsaltpro/internal/auth/store"
	"github.com/brianwits/cowsaltpro/pkg/authsdk"
	"github.com/brianwits/cowsaltpro/pkg/httpx"
)

// ReadyzHandler reports 503 when the database is unreachable.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{Database: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, authsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
