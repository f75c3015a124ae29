package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels for auth attempt metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// AuthMetrics tracks login and signup attempts by outcome.
type AuthMetrics struct {
	AttemptsTotal *prometheus.CounterVec
}

// NewAuthMetrics creates and registers auth metrics on the given registry.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	m := &AuthMetrics{
		AttemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "attempts_total",
			Help:      "Total login and signup attempts by action and outcome.",
		}, []string{"action", "outcome"}),
	}

	reg.MustRegister(m.AttemptsTotal)
	return m
}

// ObserveLogin records a login attempt outcome.
func (m *AuthMetrics) ObserveLogin(outcome string) {
	m.AttemptsTotal.WithLabelValues("login", outcome).Inc()
}

// ObserveSignup records a signup attempt outcome.
func (m *AuthMetrics) ObserveSignup(outcome string) {
	m.AttemptsTotal.WithLabelValues("signup", outcome).Inc()
}
