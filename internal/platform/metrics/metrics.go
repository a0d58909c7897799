package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	VerificationsTotal *prometheus.CounterVec
	EnrollmentsTotal   *prometheus.CounterVec
	BranchDuration     *prometheus.HistogramVec
	RequestLatency     *prometheus.HistogramVec
	MatchSimilarity    prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		VerificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "verident_verifications_total",
			Help: "Verification requests by outcome (matched, unmatched, partial, failed).",
		}, []string{"outcome"}),
		EnrollmentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "verident_enrollments_total",
			Help: "Enrollment attempts by outcome (enrolled, duplicate, no_face, failed).",
		}, []string{"outcome"}),
		BranchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "verident_branch_duration_seconds",
			Help:    "Duration of the text and face verification branches.",
			Buckets: prometheus.DefBuckets,
		}, []string{"branch"}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "verident_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		MatchSimilarity: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "verident_match_similarity",
			Help:    "Similarity scores of positive face matches (0-100).",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
	}
}

// RecordVerification increments the verification counter for an outcome.
func (m *Metrics) RecordVerification(outcome string) {
	if m == nil {
		return
	}
	m.VerificationsTotal.WithLabelValues(outcome).Inc()
}

// RecordEnrollment increments the enrollment counter for an outcome.
func (m *Metrics) RecordEnrollment(outcome string) {
	if m == nil {
		return
	}
	m.EnrollmentsTotal.WithLabelValues(outcome).Inc()
}

// ObserveBranch records how long a verification branch took.
func (m *Metrics) ObserveBranch(branch string, d time.Duration) {
	if m == nil {
		return
	}
	m.BranchDuration.WithLabelValues(branch).Observe(d.Seconds())
}

// ObserveRequest records HTTP latency for a route.
func (m *Metrics) ObserveRequest(route string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestLatency.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveSimilarity records the similarity of a positive match.
func (m *Metrics) ObserveSimilarity(similarity float64) {
	if m == nil {
		return
	}
	m.MatchSimilarity.Observe(similarity)
}
