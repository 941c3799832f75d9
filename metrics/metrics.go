// Package metrics holds the Prometheus collectors the booking and event
// services report to. They register with the default registry and are
// served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventspark_bookings_created_total",
			Help: "Seats booked, by booking path",
		},
		[]string{"path"},
	)

	bookingConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventspark_booking_conflicts_total",
			Help: "Booking attempts rejected by a business rule",
		},
		[]string{"reason"},
	)

	payments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventspark_payments_total",
			Help: "Payment settlements by outcome",
		},
		[]string{"status"},
	)

	ticketsSold = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventspark_tickets_sold_total",
			Help: "Tickets sold through the direct sell endpoint",
		},
	)

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventspark_event_cache_lookups_total",
			Help: "Event list cache lookups by result",
		},
		[]string{"result"},
	)
)

func BookingsCreated(path string, n int) {
	bookingsCreated.WithLabelValues(path).Add(float64(n))
}

func BookingConflict(reason string) {
	bookingConflicts.WithLabelValues(reason).Inc()
}

func Payment(status string) {
	payments.WithLabelValues(status).Inc()
}

func TicketsSold(n int) {
	ticketsSold.Add(float64(n))
}

// CacheLookup records "hit", "miss" or "error".
func CacheLookup(result string) {
	cacheLookups.WithLabelValues(result).Inc()
}
