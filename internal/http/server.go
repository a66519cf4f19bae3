package http

import (
	"net/http"

	"github.com/mauv0809/matchpoint/internal/config"
	"github.com/mauv0809/matchpoint/internal/metrics"
	"github.com/mauv0809/matchpoint/internal/pubsub"
	"github.com/mauv0809/matchpoint/internal/reporting"
	"github.com/mauv0809/matchpoint/internal/store"
)

func NewServer(svc *reporting.Service, store store.ResultStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Reporting:      svc,
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("POST /validate", Chain(s.ValidateHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("POST /sync", Chain(s.SyncHandler(), paramsMiddleware))
	s.Router.Handle("POST /clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches/{id}", Chain(s.GetMatchHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/import", Chain(s.ImportMatchHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/result", Chain(s.SubmitResultHandler(), paramsMiddleware, actorMiddleware))
	s.Router.Handle("POST /matches/{id}/confirm", Chain(s.ConfirmResultHandler(), paramsMiddleware, actorMiddleware))
	s.Router.Handle("POST /matches/{id}/dispute", Chain(s.DisputeResultHandler(), paramsMiddleware, actorMiddleware))
	s.Router.Handle("GET /matches/{id}/comments", Chain(s.ListCommentsHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/comments", Chain(s.CreateCommentHandler(), paramsMiddleware, actorMiddleware))
	s.Router.Handle("PUT /matches/{id}/comments/{commentID}", Chain(s.UpdateCommentHandler(), paramsMiddleware, actorMiddleware))
	s.Router.Handle("DELETE /matches/{id}/comments/{commentID}", Chain(s.DeleteCommentHandler(), paramsMiddleware, actorMiddleware))
	s.Router.Handle("POST /pubsub/result-events", Chain(s.ResultEventHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
