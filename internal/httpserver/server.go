// Package httpserver is the HTTP edge of the gateway: routing, templates,
// and the login/signup/logout handlers.
package httpserver

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/roms-in-tech/authgate/internal/domain"
	appmetrics "github.com/roms-in-tech/authgate/internal/metrics"
	"github.com/roms-in-tech/authgate/internal/platform/config"
	"github.com/roms-in-tech/authgate/web"
)

// authService is the credential-verification and registration contract the
// handlers depend on.
type authService interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	Register(ctx context.Context, username, password, confirm string) (*domain.User, error)
}

// sessionManager binds authenticated users to cookie sessions.
type sessionManager interface {
	Establish(r *http.Request, w http.ResponseWriter, user *domain.User) error
	Resolve(ctx context.Context, r *http.Request) (*domain.User, bool)
	Clear(r *http.Request, w http.ResponseWriter) error
	Flash(r *http.Request, w http.ResponseWriter, message string) error
	PopFlashes(r *http.Request, w http.ResponseWriter) []string
}

// postgresHealthChecker is a minimal interface for database health checks.
type postgresHealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	auth     authService
	sessions sessionManager

	templates *template.Template

	registry    *prometheus.Registry
	httpMetrics *appmetrics.HTTPMetrics
	authMetrics *appmetrics.AuthMetrics

	postgresHealthCheck postgresHealthChecker
	startTime           time.Time
}

func NewServer(cfg *config.Config, auth authService, sessions sessionManager, db postgresHealthChecker, registry *prometheus.Registry) (*Server, error) {
	templates, err := template.ParseFS(web.TemplateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:                e,
		config:              cfg,
		auth:                auth,
		sessions:            sessions,
		templates:           templates,
		registry:            registry,
		httpMetrics:         appmetrics.NewHTTPMetrics(registry),
		authMetrics:         appmetrics.NewAuthMetrics(registry),
		postgresHealthCheck: db,
		startTime:           time.Now(),
	}

	srv.registerRoutes()

	return srv, nil
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

func (s *Server) renderTemplate(c echo.Context, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("Template execution failed", "path", c.Request().URL.Path, "error", err)
		if err := c.String(http.StatusInternalServerError, "Failed to render page"); err != nil {
			return fmt.Errorf("failed to send error response: %w", err)
		}
		return nil
	}
	if err := c.HTMLBlob(http.StatusOK, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send HTML response: %w", err)
	}
	return nil
}
