package telegram

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewWebhookRouter serves Telegram webhook updates on path, a liveness probe
// on /health and a database readiness probe on /ready.
func NewWebhookRouter(path string, webhook http.Handler, db Pinger, log *slog.Logger) http.Handler {
	log = log.With("component", "webhook_router")

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Get("/ready", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		status, code := "ok", http.StatusOK
		if err := db.Ping(ctx); err != nil {
			log.WarnContext(ctx, "Readiness check failed", "error", err)
			status, code = "unreachable", http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{"database": status})
	})

	r.Method(http.MethodPost, path, webhook)
	return r
}
