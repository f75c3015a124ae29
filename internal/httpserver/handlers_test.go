package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/roms-in-tech/authgate/internal/auth"
	"github.com/roms-in-tech/authgate/internal/domain"
	"github.com/roms-in-tech/authgate/internal/platform/config"
	"github.com/roms-in-tech/authgate/internal/session"
)

// --- Fakes ---

// fakeUserRepo backs both the auth service and the session manager in tests.
type fakeUserRepo struct {
	mu      sync.Mutex
	byName  map[string]*domain.User
	failErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byName: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	user, ok := r.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	for _, user := range r.byName {
		if user.ID == userID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) Insert(_ context.Context, username, passwordHash string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	if _, exists := r.byName[username]; exists {
		return nil, domain.ErrUsernameTaken
	}
	user := &domain.User{ID: uuid.New(), Username: username, PasswordHash: passwordHash}
	r.byName[username] = user
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) Ping(_ context.Context) error {
	if r.failErr != nil {
		return r.failErr
	}
	return nil
}

// --- Test helpers ---

func newTestServer(t *testing.T, repo *fakeUserRepo) *Server {
	t.Helper()

	cfg := &config.Config{
		AppEnv:        "test",
		Port:          "0",
		SessionSecret: "test-secret-key-32-bytes-long!!!",
		SessionMaxAge: time.Hour,
	}

	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	authSvc := auth.NewService(repo, hasher)
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionMaxAge, false, repo)

	srv, err := NewServer(cfg, authSvc, sessions, repo, prometheus.NewRegistry())
	require.NoError(t, err)
	return srv
}

// registerUser seeds the repo through the real signup flow so the stored
// password hash is genuine.
func registerUser(t *testing.T, srv *Server, username, password string) *domain.User {
	t.Helper()
	user, err := srv.auth.Register(context.Background(), username, password, password)
	require.NoError(t, err)
	return user
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// login performs a real login and returns the cookies of the authenticated
// session.
func login(t *testing.T, srv *Server, username, password string) []*http.Cookie {
	t.Helper()

	req := postForm("/login", url.Values{"username": {username}, "password": {password}})
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/welcome", rec.Header().Get("Location"))
	return rec.Result().Cookies()
}

// withCookies forwards response cookies the way a browser would: a later
// Set-Cookie for the same name wins, and expired cookies are dropped.
func withCookies(req *http.Request, cookies []*http.Cookie) *http.Request {
	latest := make(map[string]*http.Cookie)
	var names []string
	for _, cookie := range cookies {
		if _, seen := latest[cookie.Name]; !seen {
			names = append(names, cookie.Name)
		}
		latest[cookie.Name] = cookie
	}
	for _, name := range names {
		cookie := latest[name]
		if cookie.MaxAge < 0 || cookie.Value == "" {
			continue
		}
		req.AddCookie(cookie)
	}
	return req
}
