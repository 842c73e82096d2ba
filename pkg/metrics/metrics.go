package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentacar_booking",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	reservations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentacar_booking",
			Name:      "reservations_total",
			Help:      "Reservation attempts by outcome (accepted, conflict, invalid).",
		},
		[]string{"outcome"},
	)

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentacar_booking",
			Name:      "lifecycle_transitions_total",
			Help:      "Booking lifecycle transitions by target status.",
		},
		[]string{"to"},
	)
)

// Register registers all collectors. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, reservations, transitions)
	})
}

// Handler returns the /metrics endpoint handler.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Middleware counts every HTTP request by method, route and status.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		IncHTTP(c.Request.Method, path, strconv.Itoa(c.Writer.Status()))
	}
}

// IncHTTP counts one HTTP request.
func IncHTTP(method, path, status string) {
	httpRequests.WithLabelValues(method, path, status).Inc()
}

// IncReservation counts one reservation attempt by outcome.
func IncReservation(outcome string) {
	reservations.WithLabelValues(outcome).Inc()
}

// IncTransition counts one lifecycle transition to the given status.
func IncTransition(to string) {
	transitions.WithLabelValues(to).Inc()
}
