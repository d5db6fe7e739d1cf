// Package server exposes the aggregation engine over HTTP, with the
// stream list delivered as server-sent events.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/mteij/Zentrio-sub002/internal/metrics"
	"github.com/mteij/Zentrio-sub002/internal/provider"
	"github.com/mteij/Zentrio-sub002/internal/rank"
	"github.com/mteij/Zentrio-sub002/internal/session"
)

// Server wires the configured providers into the HTTP handlers.
type Server struct {
	providers    []session.Provider
	cache        *session.Cache
	metrics      *metrics.Metrics
	fetchTimeout time.Duration
	config       rank.Config
}

type Option func(*Server)

func WithProviders(providers []session.Provider) Option {
	return func(s *Server) { s.providers = providers }
}

func WithCache(cache *session.Cache) Option {
	return func(s *Server) { s.cache = cache }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

func WithFetchTimeout(timeout time.Duration) Option {
	return func(s *Server) { s.fetchTimeout = timeout }
}

func WithConfig(cfg rank.Config) Option {
	return func(s *Server) { s.config = cfg }
}

func New(opts ...Option) *Server {
	s := &Server{
		config: rank.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register mounts all routes on the app.
func (s *Server) Register(app *fiber.App) {
	app.Get("/healthz", s.handleHealth)

	api := app.Group("/api/streaming")
	api.Get("/providers", s.handleProviders)
	api.Get("/streams-live/:type/:id", s.handleStreamEvents)
	api.Get("/best-stream/:type/:id", s.handleBestStream)

	if s.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))
	}
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "providers": len(s.providers)})
}

func (s *Server) handleProviders(c *fiber.Ctx) error {
	descriptors := make([]provider.Descriptor, 0, len(s.providers))
	for _, p := range s.providers {
		descriptors = append(descriptors, p.Descriptor)
	}
	return c.JSON(fiber.Map{"addons": descriptors})
}

func (s *Server) sessionOptions(refresh bool, cfg rank.Config) session.Options {
	return session.Options{
		Config:       cfg,
		FetchTimeout: s.fetchTimeout,
		Cache:        s.cache,
		Refresh:      refresh,
		Metrics:      s.metrics,
	}
}
