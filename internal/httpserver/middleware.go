package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roms-in-tech/authgate/internal/platform/correlation"
)

func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := correlation.WithID(c.Request().Context(), correlation.NewID())
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// requireAuth guards protected routes. It resolves the session cookie back to
// a stored user on every request; anything short of that redirects to the
// entry page instead of rendering protected content.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := s.sessions.Resolve(c.Request().Context(), c.Request())
		if !ok {
			return c.Redirect(http.StatusFound, "/")
		}

		c.Set("user", user)
		c.Set("userID", user.ID)
		return next(c)
	}
}

// isAuthenticated checks whether the request carries a valid session for an
// existing user.
func (s *Server) isAuthenticated(c echo.Context) bool {
	_, ok := s.sessions.Resolve(c.Request().Context(), c.Request())
	return ok
}
