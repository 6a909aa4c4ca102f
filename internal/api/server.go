// Package api exposes the tracker over a JSON HTTP interface.
package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/iamhollywoodpro/strivetrack/internal/auth"
	"github.com/iamhollywoodpro/strivetrack/internal/logger"
	"github.com/iamhollywoodpro/strivetrack/internal/media"
	"github.com/iamhollywoodpro/strivetrack/internal/tracker"
	"github.com/iamhollywoodpro/strivetrack/internal/validation"
)

// ServiceFactory builds the tracker for the user a request is signed for.
type ServiceFactory func(ctx context.Context, claims *auth.Claims) (*tracker.Service, error)

type Server struct {
	app      *fiber.App
	auth     *auth.Authenticator
	services ServiceFactory
}

// New wires the routes. a should be stateless so concurrent logins do not
// trip the reentrancy guard.
func New(a *auth.Authenticator, services ServiceFactory) *Server {
	s := &Server{auth: a, services: services}
	s.app = fiber.New(fiber.Config{
		AppName:               "strivetrack",
		ErrorHandler:          errorHandler,
		BodyLimit:             64 * 1024 * 1024,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		DisableStartupMessage: true,
	})
	s.app.Use(recover.New())
	s.app.Use(requestLogger)
	s.routes()
	return s
}

func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen(addr string) error {
	logger.Info("API listening", "addr", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) routes() {
	api := s.app.Group("/api")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	authGroup := api.Group("/auth")
	authGroup.Post("/login", s.login)
	authGroup.Post("/register", s.register)
	authGroup.Post("/reset", s.resetPassword)

	user := func(method, path string, h serviceHandler) {
		api.Add(method, path, s.requireAuth, s.withService(h))
	}
	api.Get("/me", s.requireAuth, s.me)
	user(fiber.MethodGet, "/dashboard", dashboard)
	user(fiber.MethodGet, "/points", getPoints)
	user(fiber.MethodGet, "/achievements", listAchievements)

	user(fiber.MethodGet, "/habits", listHabits)
	user(fiber.MethodPost, "/habits", createHabit)
	user(fiber.MethodPost, "/habits/samples", createSampleHabits)
	user(fiber.MethodPost, "/habits/:id/toggle", toggleCompletion)
	user(fiber.MethodDelete, "/habits/:id", deleteHabit)

	user(fiber.MethodGet, "/goals", listGoals)
	user(fiber.MethodPost, "/goals", createGoal)
	user(fiber.MethodPost, "/goals/:id/progress", updateGoalProgress)
	user(fiber.MethodPost, "/goals/:id/complete", completeGoal)
	user(fiber.MethodDelete, "/goals/:id", deleteGoal)

	user(fiber.MethodGet, "/food", foodLog)
	user(fiber.MethodPost, "/food", addFood)
	user(fiber.MethodDelete, "/food/:id", deleteFood)
	user(fiber.MethodGet, "/nutrition", nutrition)

	user(fiber.MethodGet, "/media", listMedia)
	user(fiber.MethodPost, "/media", uploadMedia)
	user(fiber.MethodGet, "/media/usage", storageUsage)
	user(fiber.MethodPost, "/media/clean", cleanMedia)
	user(fiber.MethodDelete, "/media/:id", deleteMedia)

	admin := api.Group("/admin", s.requireAuth, requireAdmin)
	admin.Get("/users", s.listUsers)
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	logger.Debug("HTTP request", "method", c.Method(), "path", c.Path(), "status", c.Response().StatusCode(), "latency", time.Since(start))
	return err
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case validation.IsValidationError(err):
		return fiber.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrNotLoggedIn), errors.Is(err, auth.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, auth.ErrUserExists):
		return fiber.StatusConflict
	case errors.Is(err, auth.ErrOfflineReset), errors.Is(err, media.ErrNoTierAvailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, media.ErrSizeLimit), errors.Is(err, media.ErrFileTooLarge):
		return fiber.StatusRequestEntityTooLarge
	}
	return fiber.StatusInternalServerError
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	body := fiber.Map{"success": false, "error": err.Error()}
	var ve *validation.Error
	if errors.As(err, &ve) {
		body["field"] = ve.Field
	}
	if code >= fiber.StatusInternalServerError {
		logger.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(body)
}
