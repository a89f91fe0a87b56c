package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "canchalibre"

// Metrics holds the service's counters and histograms. A nil *Metrics is a no-op.
type Metrics struct {
	searches        *prometheus.CounterVec
	searchResults   prometheus.Histogram
	linkResolutions *prometheus.CounterVec
	autocompletes   *prometheus.CounterVec
	upstreamTotal   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "total",
			Help:      "Slot searches by outcome",
		}, []string{"outcome"}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "results",
			Help:      "Listings returned per successful search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		}),
		linkResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shared_link",
			Name:      "resolutions_total",
			Help:      "Shared club link resolutions by outcome",
		}, []string{"outcome"}),
		autocompletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "location",
			Name:      "autocomplete_total",
			Help:      "Location autocomplete attempts by outcome",
		}, []string{"outcome"}),
		upstreamTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Court API requests by operation and status code",
		}, []string{"op", "code"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "latency_seconds",
			Help:      "Court API request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	reg.MustRegister(m.searches, m.searchResults, m.linkResolutions, m.autocompletes, m.upstreamTotal, m.upstreamLatency)

	return m
}

func (m *Metrics) ObserveSearch(outcome string, results int) {
	if m == nil {
		return
	}

	m.searches.WithLabelValues(outcome).Inc()

	if results >= 0 {
		m.searchResults.Observe(float64(results))
	}
}

func (m *Metrics) ObserveLinkResolution(outcome string) {
	if m == nil {
		return
	}

	m.linkResolutions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveAutocomplete(outcome string) {
	if m == nil {
		return
	}

	m.autocompletes.WithLabelValues(outcome).Inc()
}

// ObserveUpstream records one court API call. status 0 means no response.
func (m *Metrics) ObserveUpstream(op string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}

	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}

	m.upstreamTotal.WithLabelValues(op, code).Inc()
	m.upstreamLatency.WithLabelValues(op).Observe(elapsed.Seconds())
}
