// Package observability exposes Prometheus instruments for the planning engine.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	votesSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tripvote",
		Subsystem: "voting",
		Name:      "ballots_submitted_total",
		Help:      "Vote submissions accepted.",
	})
	daysCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tripvote",
		Subsystem: "voting",
		Name:      "days_completed_total",
		Help:      "Trip days that reached complete, by consensus outcome.",
	}, []string{"outcome"})
	candidatePoolSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tripvote",
		Subsystem: "planner",
		Name:      "candidate_pool_size",
		Help:      "Number of candidates written when a day enters voting.",
		Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 8, 10},
	})
	placesRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tripvote",
		Subsystem: "places",
		Name:      "requests_total",
		Help:      "Calls to the places provider, by operation and result.",
	}, []string{"operation", "result"})
)

func init() {
	prometheus.MustRegister(votesSubmitted, daysCompleted, candidatePoolSize, placesRequests)
}

// RecordBallot counts an accepted vote submission.
func RecordBallot() {
	votesSubmitted.Inc()
}

// RecordDayCompleted counts a day completion for the given outcome.
func RecordDayCompleted(outcome string) {
	if outcome == "" {
		outcome = "none"
	}
	daysCompleted.WithLabelValues(outcome).Inc()
}

// RecordCandidatePool observes the size of a freshly written candidate set.
func RecordCandidatePool(size int) {
	candidatePoolSize.Observe(float64(size))
}

// RecordPlacesCall counts a provider call.
func RecordPlacesCall(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	placesRequests.WithLabelValues(operation, result).Inc()
}
