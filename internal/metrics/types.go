package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	ResultsSubmitted   *prometheus.CounterVec
	ResultActions      *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	BackendFailures    *prometheus.CounterVec
	InFlightRejected   *prometheus.CounterVec
	CommentsWritten    *prometheus.CounterVec
	ActionDuration     *prometheus.HistogramVec
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
