package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var signInAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "whiteboard_signin_attempts_total",
	Help: "Sign-in attempts by provider and outcome.",
}, []string{"provider", "outcome"})

const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

func ObserveSignIn(provider, outcome string) {
	signInAttempts.WithLabelValues(provider, outcome).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
