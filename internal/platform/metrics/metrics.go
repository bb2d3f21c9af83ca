// Package metrics exposes Prometheus counters for cafe-finder domain events.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

// Metrics holds all Prometheus metrics for the application. It implements
// application.Metrics.
type Metrics struct {
	ReviewsSubmitted    prometheus.Counter
	ReviewDecisions     *prometheus.CounterVec
	ClaimsSubmitted     prometheus.Counter
	ClaimDecisions      *prometheus.CounterVec
	RatingRecalculation prometheus.Counter
	SearchLatency       prometheus.Histogram
}

// New creates the metrics and registers them with reg. A nil reg uses the
// default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		ReviewsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "cafe_finder_reviews_submitted_total",
			Help: "Total number of reviews submitted for moderation",
		}),
		ReviewDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cafe_finder_review_decisions_total",
			Help: "Total number of moderation decisions on reviews",
		}, []string{"decision"}),
		ClaimsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "cafe_finder_claims_submitted_total",
			Help: "Total number of ownership claims submitted",
		}),
		ClaimDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cafe_finder_claim_decisions_total",
			Help: "Total number of decisions on ownership claims",
		}, []string{"decision"}),
		RatingRecalculation: factory.NewCounter(prometheus.CounterOpts{
			Name: "cafe_finder_rating_recalculations_total",
			Help: "Total number of cafe rating recalculations",
		}),
		SearchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cafe_finder_search_duration_seconds",
			Help:    "Latency of cafe searches",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) ReviewSubmitted() {
	m.ReviewsSubmitted.Inc()
}

func (m *Metrics) ReviewDecided(decision domain.Decision) {
	m.ReviewDecisions.WithLabelValues(string(decision)).Inc()
}

func (m *Metrics) ClaimSubmitted() {
	m.ClaimsSubmitted.Inc()
}

func (m *Metrics) ClaimDecided(decision domain.Decision) {
	m.ClaimDecisions.WithLabelValues(string(decision)).Inc()
}

func (m *Metrics) RatingsRecalculated() {
	m.RatingRecalculation.Inc()
}

// ObserveSearch records the time elapsed since start.
func (m *Metrics) ObserveSearch(start time.Time) {
	m.SearchLatency.Observe(time.Since(start).Seconds())
}
