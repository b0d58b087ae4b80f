package httpserver

import (
	"net/http"

	"office_presence_bot/internal/app"
	"office_presence_bot/internal/domain/crossing"
	"office_presence_bot/internal/infra/geotracker"
	"office_presence_bot/internal/infra/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Server exposes the service over HTTP: location ingest for the tracker,
// inbound push delivery and greeting responses for the notification router,
// monitor control and presence/history reads.
type Server struct {
	state   *app.StateController
	monitor *app.MonitorService
	tracker *geotracker.Tracker
	history crossing.Repository // nil when crossing history is disabled
	log     *logrus.Logger
}

func New(
	state *app.StateController,
	monitor *app.MonitorService,
	tracker *geotracker.Tracker,
	history crossing.Repository,
	log *logrus.Logger,
) *Server {
	return &Server{
		state:   state,
		monitor: monitor,
		tracker: tracker,
		history: history,
		log:     log,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/location", s.handleReportLocation)
		r.Post("/monitor/start", s.handleMonitorStart)
		r.Post("/monitor/stop", s.handleMonitorStop)
		r.Get("/presence", s.handlePresence)
		r.Post("/notifications", s.handleInboundNotification)
		r.Post("/notifications/respond", s.handleRespond)
		r.Get("/crossings", s.handleListCrossings)
	})

	return r
}
