package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncResultsSubmitted(kind string)
	IncResultActions(action string)
	IncValidationFailures(reason string)
	IncBackendFailures(action string)
	IncInFlightRejected(action string)
	IncCommentsWritten(op string)
	ObserveActionDuration(action string, seconds float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
