// Package http exposes the account services over HTTP/JSON using Fiber.
package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/logging"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/models"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

// AuthService is the login and registration flow used by the /auth routes.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, in services.RegisterInput) error
	Verify(ctx context.Context, token string) (*models.User, error)
}

// UserService is the CRUD surface used by the /users routes.
type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	Create(ctx context.Context, in services.CreateInput) (*models.User, error)
	Patch(ctx context.Context, id int64, in services.PatchInput) (*models.User, error)
}

// Pinger reports database reachability for /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	address string
	app     *fiber.App
	auth    AuthService
	users   UserService
	session SessionConfig
	db      Pinger
	metrics *metrics
	logger  logging.Logger
}

func NewServer(address string, l logging.Logger, as AuthService, us UserService, sc SessionConfig, db Pinger) *Server {
	s := &Server{
		address: address,
		auth:    as,
		users:   us,
		session: sc,
		db:      db,
		metrics: newMetrics(),
		logger:  l.With("module", "http_server"),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "auth-backend",
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(s.logger),
	})
	s.routes()

	return s
}

// App exposes the Fiber application, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) routes() {
	s.app.Use(requestid.New())
	s.app.Use(s.observe)
	s.app.Use(recover.New())

	s.app.Get("/healthz", s.health)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))

	a := s.app.Group("/auth")
	a.Post("/login", Validate(loginSchema), s.login)
	a.Post("/register", Validate(registerSchema), s.register)
	a.Get("/verify/:token", Validate(verifySchema), s.verify)
	a.Get("/session", s.currentSession)
	a.Post("/logout", s.logout)

	u := s.app.Group("/users")
	u.Get("/", s.listUsers)
	u.Get("/single/:userId", Validate(userIDSchema), s.getUser)
	u.Delete("/delete/:userId", Validate(userIDSchema), s.deleteUser)
	u.Post("/create", Validate(createUserSchema), s.createUser)
	u.Patch("/patch/:userId", Validate(patchUserSchema), s.patchUser)
}

func (s *Server) health(c *fiber.Ctx) error {
	if err := s.db.PingContext(c.UserContext()); err != nil {
		s.logger.Warn(c.UserContext(), "health check failed", "error", err)
		return fiber.NewError(fiber.StatusServiceUnavailable, "Database unavailable.")
	}
	return c.JSON(fiber.Map{"success": true})
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.app.Listen(s.address); err != nil {
		return err
	}

	return nil
}
