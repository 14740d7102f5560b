package http

import (
	"net/http"

	"github.com/courtware/courtboard/internal/config"
	"github.com/courtware/courtboard/internal/court"
	"github.com/courtware/courtboard/internal/events"
	"github.com/courtware/courtboard/internal/metrics"
	"github.com/courtware/courtboard/internal/notifier"
	"github.com/courtware/courtboard/internal/persistence"
	"github.com/courtware/courtboard/internal/playback"
	"github.com/courtware/courtboard/internal/roster"
)

func NewServer(store roster.Store, adapter persistence.Adapter, session *court.Session, loader *court.Loader, animator *court.Animator, player *playback.Player, notif notifier.Notifier, bus events.Bus, metricsSvc metrics.Metrics, metricsHandler http.Handler, eventsHandler http.Handler, cfg config.Config) *Server {
	if bus == nil {
		bus = events.NopBus{}
	}
	server := &Server{
		Store:          store,
		Adapter:        adapter,
		Session:        session,
		Loader:         loader,
		Animator:       animator,
		Player:         player,
		Notifier:       notif,
		Bus:            bus,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		EventsHandler:  eventsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))

	s.Router.Handle("/players", Chain(s.PlayersHandler(), paramsMiddleware))
	s.Router.Handle("/positions", Chain(s.PositionsHandler(), paramsMiddleware))
	s.Router.Handle("/scenarios", Chain(s.ScenariosHandler(), paramsMiddleware))
	s.Router.Handle("/sequences", Chain(s.SequencesHandler(), paramsMiddleware))
	s.Router.Handle("/positions/{id}/publish", Chain(s.PublishPositionHandler(), paramsMiddleware))
	s.Router.Handle("/legacy/positions", Chain(s.LegacyPositionsHandler(), paramsMiddleware))
	s.Router.Handle("/import/legacy", Chain(s.ImportLegacyHandler(), paramsMiddleware))

	s.Router.Handle("/court", Chain(s.CourtHandler(), paramsMiddleware))
	s.Router.Handle("/court/load", Chain(s.CourtLoadHandler(), paramsMiddleware))
	s.Router.Handle("/court/place", Chain(s.CourtPlaceHandler(), paramsMiddleware))
	s.Router.Handle("/court/save", Chain(s.CourtSaveHandler(), paramsMiddleware))
	s.Router.Handle("/court/clear", Chain(s.CourtClearHandler(), paramsMiddleware))

	s.Router.Handle("/play/scenario", Chain(s.PlayScenarioHandler(), paramsMiddleware))
	s.Router.Handle("/play/sequence/start", Chain(s.StartSequenceHandler(), paramsMiddleware))
	s.Router.Handle("/play/sequence/next", Chain(s.PlayNextHandler(), paramsMiddleware))
	s.Router.Handle("/play/sequence/previous", Chain(s.PlayPreviousHandler(), paramsMiddleware))

	if s.EventsHandler != nil {
		s.Router.Handle("/ws", s.EventsHandler)
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
