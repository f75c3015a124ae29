package httpserver

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roms-in-tech/authgate/internal/auth"
	"github.com/roms-in-tech/authgate/internal/domain"
	apperrors "github.com/roms-in-tech/authgate/internal/errors"
	"github.com/roms-in-tech/authgate/internal/metrics"
)

func (s *Server) handleEntryPage(c echo.Context) error {
	if s.isAuthenticated(c) {
		if err := c.Redirect(http.StatusFound, "/welcome"); err != nil {
			return fmt.Errorf("failed to redirect: %w", err)
		}
		return nil
	}

	data := map[string]any{
		"Messages": s.sessions.PopFlashes(c.Request(), c.Response().Writer),
	}
	return s.renderTemplate(c, "index.html", data)
}

// handleLogin verifies the submitted credentials. A rejection flashes its
// message and returns to the entry page; an unexpected fault surfaces through
// the error middleware so it is never mistaken for bad credentials.
func (s *Server) handleLogin(c echo.Context) error {
	ctx := c.Request().Context()
	username := c.FormValue("username")
	password := c.FormValue("password")

	user, err := s.auth.Authenticate(ctx, username, password)
	if rejection, ok := auth.AsRejection(err); ok {
		s.authMetrics.ObserveLogin(metrics.OutcomeRejected)
		return s.rejectToEntryPage(c, rejection)
	}
	if err != nil {
		s.authMetrics.ObserveLogin(metrics.OutcomeError)
		return apperrors.InternalError("failed to authenticate", err)
	}

	if err := s.sessions.Establish(c.Request(), c.Response().Writer, user); err != nil {
		s.authMetrics.ObserveLogin(metrics.OutcomeError)
		return apperrors.InternalError("failed to establish session", err).WithField("user_id", user.ID)
	}

	s.authMetrics.ObserveLogin(metrics.OutcomeSuccess)
	slog.InfoContext(ctx, "User logged in", "user_id", user.ID, "username", user.Username)

	if err := c.Redirect(http.StatusFound, "/welcome"); err != nil {
		return fmt.Errorf("failed to redirect: %w", err)
	}
	return nil
}

// handleSignup registers a new account and, on success, logs it straight in.
func (s *Server) handleSignup(c echo.Context) error {
	ctx := c.Request().Context()
	username := c.FormValue("username")
	password := c.FormValue("password")
	confirm := c.FormValue("confirm_password")

	user, err := s.auth.Register(ctx, username, password, confirm)
	if rejection, ok := auth.AsRejection(err); ok {
		s.authMetrics.ObserveSignup(metrics.OutcomeRejected)
		return s.rejectToEntryPage(c, rejection)
	}
	if err != nil {
		s.authMetrics.ObserveSignup(metrics.OutcomeError)
		return apperrors.InternalError("failed to sign up", err)
	}

	if err := s.sessions.Establish(c.Request(), c.Response().Writer, user); err != nil {
		s.authMetrics.ObserveSignup(metrics.OutcomeError)
		return apperrors.InternalError("failed to establish session", err).WithField("user_id", user.ID)
	}

	s.authMetrics.ObserveSignup(metrics.OutcomeSuccess)
	slog.InfoContext(ctx, "User signed up", "user_id", user.ID, "username", user.Username)

	if err := c.Redirect(http.StatusFound, "/welcome"); err != nil {
		return fmt.Errorf("failed to redirect: %w", err)
	}
	return nil
}

func (s *Server) handleLogout(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Get("userID")

	if err := s.sessions.Clear(c.Request(), c.Response().Writer); err != nil {
		return apperrors.InternalError("failed to clear session", err)
	}

	slog.InfoContext(ctx, "User logged out", "user_id", userID)

	if err := c.Redirect(http.StatusFound, "/"); err != nil {
		return fmt.Errorf("failed to redirect: %w", err)
	}
	return nil
}

func (s *Server) handleWelcome(c echo.Context) error {
	user, ok := c.Get("user").(*domain.User)
	if !ok {
		return c.Redirect(http.StatusFound, "/")
	}

	data := map[string]any{"Username": user.Username}
	return s.renderTemplate(c, "welcome.html", data)
}

// rejectToEntryPage flashes a rejection's message and sends the user back to
// the entry page to resubmit.
func (s *Server) rejectToEntryPage(c echo.Context, rejection *auth.Rejection) error {
	if err := s.sessions.Flash(c.Request(), c.Response().Writer, rejection.Reason); err != nil {
		slog.Warn("Failed to flash rejection message", "error", err)
	}
	if err := c.Redirect(http.StatusFound, "/"); err != nil {
		return fmt.Errorf("failed to redirect: %w", err)
	}
	return nil
}
