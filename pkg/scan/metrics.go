package scan

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics updated by scans
type Metrics struct {
	Scans        prometheus.Counter
	BytesScanned prometheus.Counter
	BytesSkipped prometheus.Counter
	Segments     *prometheus.CounterVec
	Records      *prometheus.CounterVec
	Violations   prometheus.Counter
	ScanDuration prometheus.Histogram
}

// NewMetrics creates and registers all scan metrics with the provided registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	scans := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eflrscan_scans_total",
		Help: "Total number of completed scans",
	})

	bytesScanned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eflrscan_bytes_scanned_total",
		Help: "Total bytes of input walked by the segment scanner",
	})

	bytesSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eflrscan_bytes_skipped_total",
		Help: "Total candidate offsets rejected while resynchronising",
	})

	segments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eflrscan_segments_total",
		Help: "Matched segments by position in their logical record",
	}, []string{"position"})

	records := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eflrscan_records_total",
		Help: "Assembled logical records by kind and outcome",
	}, []string{"kind", "outcome"})

	violations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eflrscan_protocol_violations_total",
		Help: "First segments found while a record was still pending",
	})

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "eflrscan_scan_duration_seconds",
		Help:    "Wall time of a single scan",
		Buckets: prometheus.DefBuckets,
	})

	reg.MustRegister(scans, bytesScanned, bytesSkipped, segments, records, violations, duration)

	return &Metrics{
		Scans:        scans,
		BytesScanned: bytesScanned,
		BytesSkipped: bytesSkipped,
		Segments:     segments,
		Records:      records,
		Violations:   violations,
		ScanDuration: duration,
	}
}

// Record outcomes used as the "outcome" label
const (
	OutcomeDecoded       = "decoded"
	OutcomeUnhandled     = "unhandled"
	OutcomeSchemaFailure = "schema_failure"
)

// Segment positions used as the "position" label
const (
	PositionFirst        = "first"
	PositionContinuation = "continuation"
)
