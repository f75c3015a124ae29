// Package session binds authenticated users to cookie-backed sessions.
//
// The session payload is the user ID alone, never the full record and never
// the password hash. Every protected request resolves the ID back to a user
// through the store, so a session whose account has disappeared silently
// degrades to anonymous instead of erroring.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/roms-in-tech/authgate/internal/domain"
)

const (
	sessionName      = "authgate-session"
	sessionKeyUserID = "user_id"
)

// Manager establishes and resolves cookie sessions.
type Manager struct {
	store *sessions.CookieStore
	users domain.UserRepository
}

// NewManager creates a Manager with a cookie store configured the way the
// rest of the app expects: HttpOnly, SameSite=Lax, Secure outside development.
func NewManager(secret string, maxAge time.Duration, secure bool, users domain.UserRepository) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store, users: users}
}

// Establish creates an authenticated session for user. Any pre-auth session
// is invalidated first and a session with a fresh ID is issued in its place,
// so a session ID fixated before login cannot be replayed afterwards.
func (m *Manager) Establish(r *http.Request, w http.ResponseWriter, user *domain.User) error {
	old, err := m.store.Get(r, sessionName)
	if err == nil {
		old.Options.MaxAge = -1
		if err := old.Save(r, w); err != nil {
			return fmt.Errorf("failed to invalidate old session: %w", err)
		}
	}

	// New reports a decode error when the cookie is tampered with or signed
	// under an old secret, but still returns a usable fresh session. Saving
	// that session overwrites the bad cookie, so the error is dropped rather
	// than failing a login over a cookie the user cannot fix.
	session, _ := m.store.New(r, sessionName)

	// New decodes an existing cookie into the session, so wipe any carried
	// values before writing the authenticated payload.
	session.Values = make(map[any]any)
	session.Values[sessionKeyUserID] = user.ID.String()
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Resolve rehydrates the current user from the request's session cookie.
// A missing cookie, malformed payload, unknown ID, or store fault all resolve
// to (nil, false): absence of an account invalidates the session silently.
func (m *Manager) Resolve(ctx context.Context, r *http.Request) (*domain.User, bool) {
	session, err := m.store.Get(r, sessionName)
	if err != nil {
		return nil, false
	}

	raw, ok := session.Values[sessionKeyUserID].(string)
	if !ok {
		return nil, false
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		slog.WarnContext(ctx, "Session carries malformed user ID, treating as anonymous", "error", err)
		return nil, false
	}

	user, err := m.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		slog.WarnContext(ctx, "Session references unknown user, treating as anonymous", "user_id", userID)
		return nil, false
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to resolve session user", "user_id", userID, "error", err)
		return nil, false
	}

	return user, true
}

// Clear destroys the current session.
func (m *Manager) Clear(r *http.Request, w http.ResponseWriter) error {
	session, err := m.store.Get(r, sessionName)
	if err != nil {
		session, err = m.store.New(r, sessionName)
		if err != nil {
			return fmt.Errorf("failed to create session during clear: %w", err)
		}
	}
	session.Options.MaxAge = -1

	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save cleared session: %w", err)
	}
	return nil
}

// Flash queues a one-shot message for the next page render.
func (m *Manager) Flash(r *http.Request, w http.ResponseWriter, message string) error {
	session, err := m.store.Get(r, sessionName)
	if err != nil {
		slog.Warn("Failed to get session for flash message", "error", err)
	}
	session.AddFlash(message)
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save flash message: %w", err)
	}
	return nil
}

// PopFlashes returns queued flash messages and clears them.
func (m *Manager) PopFlashes(r *http.Request, w http.ResponseWriter) []string {
	session, err := m.store.Get(r, sessionName)
	if err != nil {
		return nil
	}

	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		slog.Warn("Failed to clear flash messages", "error", err)
	}

	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}
