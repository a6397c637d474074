package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminhandler "consentvault/internal/admin/handler"
	deletionhandler "consentvault/internal/deletion/handler"
	identityhandler "consentvault/internal/identity/handler"
	"consentvault/internal/platform/health"
	prefhandler "consentvault/internal/preference/handler"
	"consentvault/pkg/platform/httputil"
	"consentvault/pkg/platform/middleware/auth"
	"consentvault/pkg/platform/middleware/metadata"
	"consentvault/pkg/platform/middleware/request"
	"consentvault/pkg/requestcontext"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultAuthRateWindow = time.Minute
)

// Handlers groups the domain handlers the router mounts.
type Handlers struct {
	Identity    *identityhandler.Handler
	Preferences *prefhandler.Handler
	Deletion    *deletionhandler.Handler
	Admin       *adminhandler.Handler
	Health      *health.Handler
}

// Config carries the cross-cutting dependencies of the middleware stack.
type Config struct {
	Tokens         auth.TokenValidator
	Revocations    auth.TokenRevocationChecker
	Metadata       *metadata.Resolver
	RequestMetrics *request.Metrics
	RequestTimeout time.Duration
	// CORSOrigins lists the sites whose consent banners may call the API.
	// Empty disables CORS handling.
	CORSOrigins []string
	// AuthRateLimit caps credential attempts per client IP and window on the
	// public register, authenticate and admin login routes. Zero disables it.
	AuthRateLimit  int
	AuthRateWindow time.Duration
	// ExposeMetrics mounts the Prometheus scrape endpoint at /metrics.
	ExposeMetrics bool
}

// NewRouter wires every public endpoint behind the shared middleware stack.
// User routes sit behind RequireUser and admin routes behind RequireAdmin, so
// handlers only read the principal from the request context.
func NewRouter(h Handlers, cfg Config, logger *slog.Logger) http.Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	resolver := cfg.Metadata
	if resolver == nil {
		resolver = metadata.New(nil)
	}

	r := chi.NewRouter()
	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(request.RequestTime)
	r.Use(resolver.Handler)
	r.Use(request.Logger(logger))
	r.Use(request.Latency(cfg.RequestMetrics))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	if h.Health != nil {
		h.Health.Register(r)
	}
	if cfg.ExposeMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(request.Timeout(timeout))
		r.Use(request.ContentTypeJSON)

		r.Group(func(r chi.Router) {
			if limiter := authLimiter(cfg); limiter != nil {
				r.Use(limiter)
			}
			if h.Identity != nil {
				h.Identity.Register(r)
			}
			if h.Admin != nil {
				h.Admin.Register(r)
			}
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(cfg.Tokens, logger))
			if h.Identity != nil {
				h.Identity.RegisterAuthenticated(r)
			}
			if h.Preferences != nil {
				h.Preferences.Register(r)
			}
			if h.Deletion != nil {
				h.Deletion.Register(r)
			}
		})

		if h.Admin != nil {
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin(cfg.Tokens, cfg.Revocations, logger))
				h.Admin.RegisterAuthenticated(r)
			})
		}
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusNotFound, map[string]string{
			"error":             "not_found",
			"error_description": "Route not found",
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{
			"error":             "method_not_allowed",
			"error_description": "Method not allowed",
		})
	})

	return r
}

// authLimiter keys on the client IP resolved by the metadata middleware so
// trusted-proxy handling is shared with the rest of the stack.
func authLimiter(cfg Config) func(http.Handler) http.Handler {
	if cfg.AuthRateLimit <= 0 {
		return nil
	}
	window := cfg.AuthRateWindow
	if window <= 0 {
		window = defaultAuthRateWindow
	}
	return httprate.Limit(cfg.AuthRateLimit, window,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if ip := requestcontext.ClientIP(r.Context()); ip != "" {
				return ip, nil
			}
			return httprate.KeyByIP(r)
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			httputil.WriteJSON(w, http.StatusTooManyRequests, map[string]string{
				"error":             "rate_limited",
				"error_description": "Too many attempts, try again later",
			})
		}),
	)
}
