package observability

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reviews", Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	FetchOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "fetch_outcomes_total", Help: "Collector fetch outcomes."},
		[]string{"outcome"}, // ok|empty|transport_failed|api_failed
	)
	FilesLoaded = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "files_loaded_total", Help: "Collector files read by the preprocessor."},
		[]string{"result"}, // ok|skipped
	)
	StageRows = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: "reviews", Name: "stage_rows", Help: "Rows remaining after each preprocessing stage."},
		[]string{"stage"},
	)
	ExportedReviews = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "reviews", Name: "exported_reviews_total", Help: "Rows written to CSV."},
	)
)

var (
	regOnce sync.Once
	reg     *prometheus.Registry
)

// Registry returns the process-wide registry holding every collector above.
func Registry() *prometheus.Registry {
	regOnce.Do(func() {
		reg = prometheus.NewRegistry()
		reg.MustRegister(ExternalRequests, ExternalLatency, FetchOutcomes, FilesLoaded, StageRows, ExportedReviews)
	})
	return reg
}

// WriteTextfile dumps the registry in Prometheus text format, for node_exporter's
// textfile collector. Empty path disables it.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, Registry()); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// status 0 means no response was received.
func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveFetch(outcome string) { FetchOutcomes.WithLabelValues(outcome).Inc() }

func ObserveFile(result string) { FilesLoaded.WithLabelValues(result).Inc() }

func ObserveStage(stage string, rows int) { StageRows.WithLabelValues(stage).Set(float64(rows)) }

func ObserveExport(rows int) { ExportedReviews.Add(float64(rows)) }
