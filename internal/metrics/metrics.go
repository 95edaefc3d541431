package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agenda",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agenda",
			Name:      "bookings_created_total",
			Help:      "Appointments accepted into pending state.",
		},
		[]string{"service"},
	)

	bookingsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agenda",
			Name:      "bookings_rejected_total",
			Help:      "Booking candidates rejected by validation, by reason code.",
		},
		[]string{"reason"},
	)

	statusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agenda",
			Name:      "status_transitions_total",
			Help:      "Appointment status transitions applied by the admin.",
		},
		[]string{"to"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsCreated, bookingsRejected, statusTransitions)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncBookingCreated increments accepted bookings for a service name.
func IncBookingCreated(service string) {
	bookingsCreated.WithLabelValues(service).Inc()
}

// IncBookingRejected increments rejections for a reason code.
func IncBookingRejected(reason string) {
	bookingsRejected.WithLabelValues(reason).Inc()
}

// IncStatusTransition increments transitions into a target status.
func IncStatusTransition(to string) {
	statusTransitions.WithLabelValues(to).Inc()
}
