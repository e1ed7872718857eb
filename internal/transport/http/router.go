package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter assembles the middleware chain and mounts every endpoint.
// metricsHandler serves the Prometheus registry; pass nil to skip the
// /metrics route.
func NewRouter(h *Handler, logger *slog.Logger, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(Recovery(logger))
	r.Use(RequestID)
	r.Use(RequestTime)
	r.Use(ClientAPIKey)
	r.Use(Logging(logger))

	h.Register(r)
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}
	return r
}
