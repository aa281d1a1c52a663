package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// AuthActions counts relay outcomes per action. outcome is
	// "success" or a failure kind.
	AuthActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_auth_actions_total",
		Help: "Auth relay actions by action and outcome.",
	}, []string{"action", "outcome"})

	// GuestSessions counts guest sessions minted by the bootstrap
	// middleware, not explicit /api/auth/guest calls.
	GuestSessions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_guest_sessions_total",
		Help: "Guest sessions minted by the session bootstrap middleware.",
	})

	// PlacesCache counts cache hits and misses for places lookups.
	PlacesCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_places_cache_total",
		Help: "Places proxy cache lookups by result.",
	}, []string{"result"})
)

// RecordAuthAction tags one relay outcome.
func RecordAuthAction(action, outcome string) {
	AuthActions.WithLabelValues(action, outcome).Inc()
}

// Handler exposes the default registry for the /metrics route.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
