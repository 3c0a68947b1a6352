package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Label values
const (
	ResultServed       = "served"
	ResultLimitReached = "limit_reached"
	ResultEmpty        = "empty"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

// SchedulerMetrics groups the scheduler's collectors. A nil *SchedulerMetrics
// is valid and records nothing.
type SchedulerMetrics struct {
	reviewsTotal          *prometheus.CounterVec
	reviewDuration        prometheus.Histogram
	reviewConflictsTotal  prometheus.Counter
	reviewRetriesExceeded prometheus.Counter
	sessionsTotal         *prometheus.CounterVec
	sessionSize           prometheus.Histogram
	cacheLookupsTotal     *prometheus.CounterVec
	cacheInvalidations    prometheus.Counter

	collectors []prometheus.Collector
}

// NewSchedulerMetrics creates the collectors and registers them on registry.
func NewSchedulerMetrics(registry prometheus.Registerer) (*SchedulerMetrics, error) {
	m := &SchedulerMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *SchedulerMetrics) initMetrics() {
	m.reviewsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leitner_reviews_total",
			Help: "Total number of recorded reviews by box transition",
		},
		[]string{"from_box", "to_box", "outcome"}, // outcome: correct, incorrect
	)
	m.reviewDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "leitner_review_duration_seconds",
		Help:    "Time taken to validate and persist a review",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
	})
	m.reviewConflictsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "leitner_review_conflicts_total",
		Help: "Conditional schedule updates that lost a race and were retried",
	})
	m.reviewRetriesExceeded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "leitner_review_retries_exhausted_total",
		Help: "Reviews abandoned after exhausting conflict retries",
	})
	m.sessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leitner_study_sessions_total",
			Help: "Study sessions built, by result",
		},
		[]string{"result"}, // served, limit_reached, empty
	)
	m.sessionSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "leitner_study_session_cards",
		Help:    "Number of cards handed out per study session",
		Buckets: prometheus.LinearBuckets(0, 5, 11),
	})
	m.cacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leitner_summary_cache_lookups_total",
			Help: "Queue summary cache lookups, by result",
		},
		[]string{"result"}, // hit, miss
	)
	m.cacheInvalidations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "leitner_summary_cache_invalidations_total",
		Help: "Queue summaries evicted because a review was recorded",
	})

	m.collectors = []prometheus.Collector{
		m.reviewsTotal,
		m.reviewDuration,
		m.reviewConflictsTotal,
		m.reviewRetriesExceeded,
		m.sessionsTotal,
		m.sessionSize,
		m.cacheLookupsTotal,
		m.cacheInvalidations,
	}
}

// Describe implements prometheus.Collector.
func (m *SchedulerMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (m *SchedulerMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors {
		c.Collect(ch)
	}
}

// RecordReview counts a committed review and how long it took.
func (m *SchedulerMetrics) RecordReview(fromBox, toBox string, isCorrect bool, took time.Duration) {
	if m == nil {
		return
	}
	outcome := "incorrect"
	if isCorrect {
		outcome = "correct"
	}
	m.reviewsTotal.WithLabelValues(fromBox, toBox, outcome).Inc()
	m.reviewDuration.Observe(took.Seconds())
}

// RecordConflict counts a lost conditional update.
func (m *SchedulerMetrics) RecordConflict() {
	if m == nil {
		return
	}
	m.reviewConflictsTotal.Inc()
}

// RecordRetriesExhausted counts a review given up after repeated conflicts.
func (m *SchedulerMetrics) RecordRetriesExhausted() {
	if m == nil {
		return
	}
	m.reviewRetriesExceeded.Inc()
}

// RecordSession counts a built study session.
func (m *SchedulerMetrics) RecordSession(result string, cards int) {
	if m == nil {
		return
	}
	m.sessionsTotal.WithLabelValues(result).Inc()
	m.sessionSize.Observe(float64(cards))
}

// RecordCacheLookup counts a summary cache hit or miss.
func (m *SchedulerMetrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := CacheMiss
	if hit {
		result = CacheHit
	}
	m.cacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordCacheInvalidation counts an evicted summary.
func (m *SchedulerMetrics) RecordCacheInvalidation() {
	if m == nil {
		return
	}
	m.cacheInvalidations.Inc()
}
