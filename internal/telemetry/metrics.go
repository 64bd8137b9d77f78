package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReleasePollsTotal counts wait-loop iterations.
	ReleasePollsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sepurbot_release_polls_total",
		Help: "Number of release wait loop polls performed.",
	})

	// ReleaseCountdownSeconds tracks the remaining time until the release
	// instant, updated once per poll.
	ReleaseCountdownSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sepurbot_release_countdown_seconds",
		Help: "Seconds remaining until the release instant.",
	})

	// BookingStepsTotal counts step outcomes by step and status.
	BookingStepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sepurbot_booking_steps_total",
		Help: "Booking step outcomes.",
	}, []string{"step", "status"})

	// BookingStepSeconds measures how long each booking step took.
	BookingStepSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sepurbot_booking_step_seconds",
		Help:    "Duration of booking steps in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	}, []string{"step"})
)
