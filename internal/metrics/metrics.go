package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pairpad",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "path", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pairpad",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	// ActiveRooms tracks rooms currently held by the session store.
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "pairpad",
		Name:      "active_rooms",
		Help:      "Number of live collaboration rooms",
	})

	// ConnectedClients tracks open collaboration websockets.
	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "pairpad",
		Name:      "connected_clients",
		Help:      "Number of open collaboration connections",
	})

	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pairpad",
		Name:      "rooms_created_total",
		Help:      "Total rooms created",
	})

	RoomsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pairpad",
		Name:      "rooms_deleted_total",
		Help:      "Total rooms deleted, explicitly or by emptying",
	})

	FramesBroadcast = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pairpad",
		Name:      "frames_broadcast_total",
		Help:      "Total frames fanned out to room peers",
	})
)

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records request metrics with Prometheus labels. The websocket
// route is mounted outside it; hijacked connections have no useful status.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		labels := prometheus.Labels{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": strconv.Itoa(rec.status),
		}
		httpRequests.With(labels).Inc()
		httpLatency.With(labels).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes the default Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
