package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Application counters, exposed on the metrics port next to the OTel
// prometheus exporter output.
var (
	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tripdesk_catalog_searches_total",
		Help: "Catalog searches served, by listing kind.",
	}, []string{"kind"})

	ReservationLinesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tripdesk_reservation_lines_total",
		Help: "Reservation lines submitted to the booking API, by outcome.",
	}, []string{"outcome"})

	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tripdesk_logins_total",
		Help: "Login attempts, by outcome.",
	}, []string{"outcome"})
)

const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)
