package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMetrics_CountsByActionAndOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAuthMetrics(reg)

	m.ObserveLogin(OutcomeSuccess)
	m.ObserveLogin(OutcomeRejected)
	m.ObserveLogin(OutcomeRejected)
	m.ObserveSignup(OutcomeError)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.AttemptsTotal.WithLabelValues("login", "success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.AttemptsTotal.WithLabelValues("login", "rejected")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AttemptsTotal.WithLabelValues("signup", "error")))
}

func TestHTTPMetrics_MiddlewareRecordsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/welcome", func(c echo.Context) error {
		return c.String(http.StatusOK, "hi")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/welcome", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	count := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/welcome", "200"))
	assert.Equal(t, float64(1), count)
}

func TestHTTPMetrics_MiddlewareSkipsOperationalEndpoints(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/metrics", func(c echo.Context) error { return c.String(http.StatusOK, "") })
	e.GET("/health/live", func(c echo.Context) error { return c.String(http.StatusOK, "") })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "authgate_http_requests_total" {
			assert.Empty(t, mf.GetMetric())
		}
	}
}

func TestNewRegistry_ServesDefaultCollectors(t *testing.T) {
	reg := NewRegistry()

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
