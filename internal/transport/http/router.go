// Package httptransport assembles the public HTTP surface of the service.
package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"verident/internal/platform/metrics"
	"verident/internal/platform/middleware"
	"verident/internal/ratelimit"
	"verident/internal/verification/handler"
)

// requestTimeout bounds one request end to end; OCR plus face matching on a
// large photograph can legitimately take several seconds.
const requestTimeout = 30 * time.Second

// RouterConfig carries the wired dependencies of the router. Limiter is
// optional; without it the identity routes run unthrottled.
type RouterConfig struct {
	Handler *handler.Handler
	Metrics *metrics.Metrics
	Limiter ratelimit.Allower
	Logger  *slog.Logger
}

// NewRouter wires all public endpoints behind the shared middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Latency(cfg.Metrics, "identity"))
		if cfg.Limiter != nil {
			r.Use(ratelimit.Middleware(cfg.Limiter, cfg.Logger))
		}
		cfg.Handler.Register(r)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
