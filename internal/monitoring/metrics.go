// Package monitoring exposes Prometheus metrics for the ticket
// lifecycle engine. Counters are registered through promauto and
// served on /metrics by the router.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_registrations_total",
			Help: "Registration attempts by outcome",
		},
		[]string{"outcome"},
	)

	confirmationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_confirmations_total",
			Help: "Registration confirmation attempts by outcome",
		},
		[]string{"outcome"},
	)

	ticketsIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticketing_tickets_issued_total",
			Help: "Tickets minted by the issuer",
		},
	)

	checkInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_checkins_total",
			Help: "Check-in attempts by outcome",
		},
		[]string{"outcome"},
	)

	seatsReleasedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_seats_released_total",
			Help: "Seats returned to the capacity ledger by reason",
		},
		[]string{"reason"},
	)
)

// Registration records a registration attempt outcome: granted,
// sold_out or duplicate.
func Registration(outcome string) { registrationsTotal.WithLabelValues(outcome).Inc() }

// Confirmation records a confirmation attempt outcome: confirmed,
// payment_failed or error.
func Confirmation(outcome string) { confirmationsTotal.WithLabelValues(outcome).Inc() }

// TicketIssued records a freshly minted ticket.
func TicketIssued() { ticketsIssuedTotal.Inc() }

// CheckIn records a check-in attempt outcome: success, invalid_code,
// not_active, duplicate or error.
func CheckIn(outcome string) { checkInsTotal.WithLabelValues(outcome).Inc() }

// SeatReleased records a seat returned to the ledger: cancelled,
// payment_failed or expired.
func SeatReleased(reason string) { seatsReleasedTotal.WithLabelValues(reason).Inc() }
