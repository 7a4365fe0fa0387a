package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fiware/odataserver/pkg/domain/interfaces"
	"github.com/fiware/odataserver/pkg/domain/odata"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// config holds internal HTTP server configuration
type config struct {
	addr            string
	prefix          string
	baseURL         string
	sentry          bool
	defaultPageSize int
	maxPageSize     int
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithPrefix sets the URL path under which the OData service is mounted
func WithPrefix(prefix string) Option {
	return func(c *config) {
		c.prefix = prefix
	}
}

// WithBaseURL sets the public scheme and host used to build absolute URLs.
// When empty, they are taken from the request.
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithSentry reports panics and internal errors to the initialized Sentry client
func WithSentry(enabled bool) Option {
	return func(c *config) {
		c.sentry = enabled
	}
}

// WithPageSize sets the default and maximum server driven page sizes
func WithPageSize(defaultSize, maxSize int) Option {
	return func(c *config) {
		c.defaultPageSize = defaultSize
		c.maxPageSize = maxSize
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	odataUC interfaces.ODataUseCase,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr:            "localhost:8080",
		prefix:          "/odata",
		defaultPageSize: odata.DefaultMaxPageSize,
		maxPageSize:     odata.MaxPageSizeLimit,
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.prefix = "/" + strings.Trim(cfg.prefix, "/")
	if cfg.prefix == "/" {
		cfg.prefix = ""
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)
	if cfg.sentry {
		router.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}
	router.Use(MethodOverride)

	// Health check
	router.Get("/health", handleHealth(odataUC))

	// OData service
	handler := newODataHandler(cfg, odataUC)
	routes := func(r chi.Router) {
		r.Get("/", handler.serviceDocument)
		r.Get("/$metadata", handler.metadata)
		r.Get("/*", handler.resource)
	}
	if cfg.prefix == "" {
		routes(router)
	} else {
		router.Route(cfg.prefix, routes)
	}

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
