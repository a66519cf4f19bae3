package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ResultsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchpoint_results_submitted_total",
			Help: "The total number of results submitted, by result kind.",
		}, []string{"kind"}),
		ResultActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchpoint_result_actions_total",
			Help: "The total number of confirm and dispute actions that reached the backend successfully.",
		}, []string{"action"}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchpoint_validation_failures_total",
			Help: "The total number of submissions blocked by client-side validation, by reason.",
		}, []string{"reason"}),
		BackendFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchpoint_backend_failures_total",
			Help: "The total number of backend calls that failed, by action.",
		}, []string{"action"}),
		InFlightRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchpoint_inflight_rejected_total",
			Help: "The total number of actions ignored because another action was still in flight.",
		}, []string{"action"}),
		CommentsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchpoint_comments_written_total",
			Help: "The total number of comment writes, by operation.",
		}, []string{"op"}),
		ActionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "matchpoint_action_duration_seconds",
			Help:    "The duration of backend calls made on behalf of a user action.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"action"}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchpoint_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchpoint_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "matchpoint_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ResultsSubmitted,
		s.ResultActions,
		s.ValidationFailures,
		s.BackendFailures,
		s.InFlightRejected,
		s.CommentsWritten,
		s.ActionDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncResultsSubmitted(kind string) {
	s.ResultsSubmitted.WithLabelValues(kind).Inc()
}

func (s *Service) IncResultActions(action string) {
	s.ResultActions.WithLabelValues(action).Inc()
}

func (s *Service) IncValidationFailures(reason string) {
	s.ValidationFailures.WithLabelValues(reason).Inc()
}

func (s *Service) IncBackendFailures(action string) {
	s.BackendFailures.WithLabelValues(action).Inc()
}

func (s *Service) IncInFlightRejected(action string) {
	s.InFlightRejected.WithLabelValues(action).Inc()
}

func (s *Service) IncCommentsWritten(op string) {
	s.CommentsWritten.WithLabelValues(op).Inc()
}

func (s *Service) ObserveActionDuration(action string, seconds float64) {
	s.ActionDuration.WithLabelValues(action).Observe(seconds)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
