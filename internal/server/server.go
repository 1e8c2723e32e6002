// Package server exposes the trip API over HTTP. Trip views are public so a
// share link works without an account; every mutation requires a planner
// token.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/minhng/tripfund/internal/auth"
	"github.com/minhng/tripfund/internal/config"
	"github.com/minhng/tripfund/internal/storage"
	"github.com/minhng/tripfund/internal/suggest"
	"github.com/minhng/tripfund/internal/trip"
	"github.com/minhng/tripfund/internal/weather"
)

// Server wires the store, auth and provider clients into a fiber app.
type Server struct {
	cfg     *config.Config
	store   storage.Store
	jwt     *auth.JWTManager
	authn   *auth.PasswordAuthenticator
	suggest *suggest.Client
	weather *weather.Client
	app     *fiber.App
}

// New assembles the HTTP server with all routes registered.
func New(cfg *config.Config, store storage.Store, jwt *auth.JWTManager,
	authn *auth.PasswordAuthenticator, suggestClient *suggest.Client, weatherClient *weather.Client) *Server {

	s := &Server{
		cfg:     cfg,
		store:   store,
		jwt:     jwt,
		authn:   authn,
		suggest: suggestClient,
		weather: weatherClient,
	}

	s.app = fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	origins := strings.Split(cfg.Server.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	s.app.Use(metricsMiddleware())

	s.routes()
	return s
}

// errorHandler maps domain sentinels onto status codes: validation failures
// are 400, duplicates and integrity locks 409, missing records 404.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	case errors.Is(err, trip.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, trip.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, trip.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	slog.Error("unhandled request error", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

func (s *Server) routes() {
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api")

	api.Post("/auth/register", s.handleRegister)
	api.Post("/auth/login", s.handleLogin)

	// Public share-link views: the trip, its settlement and its dashboard
	// extras are readable by anyone holding the short code.
	api.Get("/trips/:id", s.handleGetTrip)
	api.Get("/trips/:id/settlement", s.handleGetSettlement)
	api.Get("/trips/:id/suggestions/timeline", s.handleSuggestTimeline)
	api.Get("/trips/:id/suggestions/packing", s.handleSuggestPacking)
	api.Get("/trips/:id/weather", s.handleGetWeather)

	protected := api.Group("", jwtMiddleware(s.jwt))

	protected.Get("/auth/me", s.handleMe)

	protected.Get("/trips", s.handleListTrips)
	protected.Post("/trips", s.handleCreateTrip)
	protected.Put("/trips/:id", s.handleUpdateTrip)
	protected.Delete("/trips/:id", s.handleDeleteTrip)
	protected.Post("/trips/:id/duplicate", s.handleDuplicateTrip)
	protected.Put("/trips/:id/timeline", s.handleReplaceTimeline)
	protected.Put("/trips/:id/packing", s.handleReplacePacking)

	protected.Post("/trips/:id/participants", s.handleAddParticipant)
	protected.Put("/trips/:id/participants/:name", s.handleRenameParticipant)
	protected.Delete("/trips/:id/participants/:name", s.handleRemoveParticipant)

	protected.Post("/trips/:id/expenses", s.handleAddExpense)
	protected.Put("/trips/:id/expenses/:expenseId", s.handleEditExpense)
	protected.Delete("/trips/:id/expenses/:expenseId", s.handleRemoveExpense)

	protected.Post("/trips/:id/rounds", s.handleAddRound)
	protected.Put("/trips/:id/rounds/:roundId", s.handleEditRound)
	protected.Delete("/trips/:id/rounds/:roundId", s.handleRemoveRound)
	protected.Post("/trips/:id/rounds/:roundId/toggle", s.handleToggleContribution)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving HTTP on the configured port.
func (s *Server) Listen() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	slog.Info("server listening", "addr", addr)
	return s.app.Listen(addr)
}
