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

type Server struct {
	Store          roster.Store
	Adapter        persistence.Adapter
	Session        *court.Session
	Loader         *court.Loader
	Animator       *court.Animator
	Player         *playback.Player
	Notifier       notifier.Notifier
	Bus            events.Bus
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	EventsHandler  http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}
