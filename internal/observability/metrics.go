package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nurture"

var (
	// Labels: outcome (ok, invalid_input, dependency_failure, error)
	pageReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "progress",
		Name:      "page_reads_total",
		Help:      "Page-read events ingested",
	}, []string{"outcome"})

	unitsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "progress",
		Name:      "units_completed_total",
		Help:      "Units marked complete for the first time",
	})

	coursesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "progress",
		Name:      "courses_completed_total",
		Help:      "Progress rows that transitioned into completed",
	})

	recommendationsServed = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "recommendation",
		Name:      "courses_served",
		Help:      "Courses returned per recommendation request",
		Buckets:   []float64{0, 1, 2, 3},
	})

	// Labels: step (seed, add_picks, top_up, or a per-course step such as
	// seed_pick, add_pick, promote_pick, top_up, count_completion)
	recommendationStepFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "recommendation",
		Name:      "step_failures_total",
		Help:      "Recommendation steps or single courses that failed and were skipped",
	}, []string{"step"})

	// Labels: phase (demote, promote), outcome (ok, error, skipped)
	resyncPhases = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "recommendation",
		Name:      "resync_phases_total",
		Help:      "Personality resync phase outcomes",
	}, []string{"phase", "outcome"})

	// Labels: result (hit, miss)
	unitCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "unit_cache_lookups_total",
		Help:      "Unit identifier cache lookups",
	}, []string{"result"})

	// Labels: origin (local, remote)
	catalogInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "invalidations_total",
		Help:      "Unit cache invalidations",
	}, []string{"origin"})

	// Labels: method, route, status
	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "route", "status"})
)

func RecordPageRead(outcome string) { pageReads.WithLabelValues(outcome).Inc() }

func RecordUnitCompleted() { unitsCompleted.Inc() }

func RecordCourseCompleted() { coursesCompleted.Inc() }

func RecordRecommendations(n int) { recommendationsServed.Observe(float64(n)) }

func RecordRecommendationStepFailure(step string) {
	recommendationStepFailures.WithLabelValues(step).Inc()
}

func RecordResyncPhase(phase, outcome string) { resyncPhases.WithLabelValues(phase, outcome).Inc() }

func RecordUnitCacheLookup(hit bool) {
	if hit {
		unitCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	unitCacheLookups.WithLabelValues("miss").Inc()
}

func RecordCatalogInvalidation(origin string) { catalogInvalidations.WithLabelValues(origin).Inc() }

func ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpLatency.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler { return promhttp.Handler() }
