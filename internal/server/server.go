package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/medplat-be/internal/archive"
	"github.com/hongminglow/medplat-be/internal/auth"
	"github.com/hongminglow/medplat-be/internal/config"
	"github.com/hongminglow/medplat-be/internal/http/handlers"
	"github.com/hongminglow/medplat-be/internal/http/respond"
	"github.com/hongminglow/medplat-be/internal/metrics"
	"github.com/hongminglow/medplat-be/internal/middleware"
	"github.com/hongminglow/medplat-be/internal/storage"
)

// Deps are the collaborators the routes are built on.
type Deps struct {
	Store     storage.Store
	Archiver  archive.Archiver
	Generator handlers.Generator
	Logger    *logrus.Logger
	// Registry defaults to a fresh registry when nil.
	Registry *prometheus.Registry
	// PasswordCost defaults to bcrypt.DefaultCost when zero.
	PasswordCost int
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, deps Deps) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewHandler(cfg, deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return &Server{inner: httpServer}
}

// NewHandler builds the full middleware chain and router.
func NewHandler(cfg config.Config, deps Deps) http.Handler {
	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	cost := deps.PasswordCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	m := metrics.New(registry)
	logger := deps.Logger

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)
	guard := auth.NewGuard(tokens, deps.Store)
	protect := handlers.Protect(middleware.RequireAuth(guard, logger))

	r := mux.NewRouter()
	countRequests := middleware.Metrics(m)
	r.Use(countRequests)
	// Router middleware only runs on matched routes.
	r.NotFoundHandler = countRequests(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusNotFound, "Not Found")
	}))
	r.MethodNotAllowedHandler = countRequests(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}))

	handlers.NewHealthHandler(time.Now()).Register(r)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	handlers.NewAuthHandler(deps.Store, auth.NewHasher(cost), tokens, logger).Register(r, protect)
	handlers.NewUsersHandler(deps.Store, logger).Register(r, protect)
	handlers.NewAnalyticsHandler(deps.Store, cfg.DataCollection, logger).Register(r, protect)
	handlers.NewDataHandler(deps.Store, deps.Archiver, cfg.DataCollection, cfg.UploadMaxBytes, m, logger).Register(r)
	handlers.NewAIHandler(deps.Generator, deps.Store, cfg.DataCollection, cfg.KPICacheTTL, m, logger).Register(r, protect)
	handlers.NewDashboardsHandler(deps.Store, logger).Register(r, protect)

	var handler http.Handler = r
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.CORS(cfg.CORSOrigins)(handler)
	return otelhttp.NewHandler(handler, "medplat-backend")
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
