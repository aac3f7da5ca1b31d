package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// health is the liveness probe. It reports that the process is up and
// serving; it deliberately touches no dependency.
func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// readiness reports whether the server can reach its database. With a nil
// pool the probe always reports unavailable.
func readiness(pool *pgxpool.Pool, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if pool == nil {
			writeError(w, http.StatusServiceUnavailable, "database not configured")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			logger.Warn("readiness check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
}
