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
		PositionLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtboard_position_loads_total",
			Help: "The total number of positions loaded onto the court.",
		}),
		AnimationsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtboard_animations_started_total",
			Help: "The total number of court transitions started.",
		}),
		AnimationsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtboard_animations_rejected_total",
			Help: "The total number of playback requests rejected because an animation was in flight.",
		}),
		AnimationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "courtboard_animation_duration_seconds",
			Help:    "The wall-clock duration of court transitions.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		PersistenceFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtboard_persistence_failures_total",
			Help: "The total number of failed persistence operations.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtboard_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtboard_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "courtboard_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.PositionLoads,
		s.AnimationsStarted,
		s.AnimationsRejected,
		s.AnimationDuration,
		s.PersistenceFailures,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncPositionLoads() {
	s.PositionLoads.Inc()
}

func (s *Service) IncAnimationsStarted() {
	s.AnimationsStarted.Inc()
}

func (s *Service) IncAnimationsRejected() {
	s.AnimationsRejected.Inc()
}

func (s *Service) ObserveAnimationDuration(duration float64) {
	s.AnimationDuration.Observe(duration)
}

func (s *Service) IncPersistenceFailures() {
	s.PersistenceFailures.Inc()
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
