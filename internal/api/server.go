// Package api provides the HTTP API server and handlers for BookNotes.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/booknotes/booknotes-server/internal/http/response"
	"github.com/booknotes/booknotes-server/internal/logger"
	"github.com/booknotes/booknotes-server/internal/ratelimit"
	"github.com/booknotes/booknotes-server/internal/service"
)

// Pinger reports whether the relational store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the business logic services used by the API server.
type Services struct {
	Auth    *service.AuthService
	Session *service.SessionService
	Library *service.LibraryService
	Catalog *service.CatalogService
	Search  *service.SearchService
	DB      Pinger
}

// Options holds HTTP-layer settings.
type Options struct {
	CORSOrigins   []string
	CookieSecure  bool
	AuthRateLimit int // login/register attempts per minute per client IP
	AuthRateBurst int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services        *Services
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	cookieSecure    bool
	authRateLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, opts Options, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if opts.AuthRateLimit <= 0 {
		opts.AuthRateLimit = 20
	}
	if opts.AuthRateBurst <= 0 {
		opts.AuthRateBurst = 5
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	router := chi.NewRouter()

	// Middleware must be registered before humachi mounts any route.
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.RequestLogger(log))
	router.Use(recoverer(log))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: !slices.Contains(opts.CORSOrigins, "*"),
		MaxAge:           300,
	}))
	router.Use(authMiddleware(services.Session))

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "resource not found", log)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, "method not allowed", log)
	})

	humaConfig := huma.DefaultConfig("BookNotes API", "1.0.0")
	humaConfig.Info.Description = "Personal library and reading notes."
	// Envelope bodies carry no $schema link.
	humaConfig.CreateHooks = nil
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		services:        services,
		router:          router,
		api:             api,
		logger:          log,
		cookieSecure:    opts.CookieSecure,
		authRateLimiter: ratelimit.PerMinute(opts.AuthRateLimit, opts.AuthRateBurst),
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerBookRoutes()
	s.registerNoteRoutes()
	s.registerCatalogRoutes()
	s.registerSearchRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, for OpenAPI generation and tests.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	s.authRateLimiter.Stop()
}

// bearerSecurity marks an operation as requiring a session token.
var bearerSecurity = []map[string][]string{{"bearer": {}}}

// recoverer turns handler panics into an enveloped 500.
func recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.ErrorContext(r.Context(), "Panic recovered",
					"panic", fmt.Sprint(rec),
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				response.InternalError(w, "internal server error", log)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
