package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtware/courtboard/internal/config"
	"github.com/courtware/courtboard/internal/court"
	"github.com/courtware/courtboard/internal/database"
	"github.com/courtware/courtboard/internal/events"
	server "github.com/courtware/courtboard/internal/http"
	"github.com/courtware/courtboard/internal/metrics"
	"github.com/courtware/courtboard/internal/notifier"
	"github.com/courtware/courtboard/internal/notifier/slack"
	"github.com/courtware/courtboard/internal/persistence"
	"github.com/courtware/courtboard/internal/playback"
	"github.com/courtware/courtboard/internal/roster"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	usage := metrics.New(db)

	var adapter persistence.Adapter
	switch cfg.Persistence.Mode {
	case "remote":
		adapter = persistence.NewRemote(cfg.Persistence.RemoteURL)
		log.Info("Using remote persistence", "url", cfg.Persistence.RemoteURL)
	default:
		adapter = persistence.NewLocal(db)
		log.Info("Using local persistence", "db", cfg.DBName)
	}

	store := roster.New()
	if err := hydrate(context.Background(), store, adapter); err != nil {
		log.Fatalf("Failed to hydrate roster: %s", err)
	}

	hub := events.NewHub()
	session := court.NewSession(hub)
	animator := court.NewAnimator(session, store, hub, metricsSvc,
		court.WithDuration(cfg.Animation.Duration))
	loader := court.NewLoader(store, adapter, session, animator, hub, metricsSvc, usage)
	player := playback.NewPlayer(store, loader, animator, session, hub, metricsSvc,
		playback.WithSettleDelay(cfg.Animation.SettleDelay))

	var notif notifier.Notifier
	if cfg.Slack.Token != "" && cfg.Slack.ChannelID != "" {
		notif = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
		log.Info("Slack notifier enabled", "channel", cfg.Slack.ChannelID)
	} else {
		log.Info("Slack notifier disabled, no token configured")
	}

	s := server.NewServer(
		store,
		adapter,
		session,
		loader,
		animator,
		player,
		notif,
		hub,
		metricsSvc,
		metricsHandler,
		hub,
		cfg,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}

// hydrate fills the in-memory roster from the system of record.
func hydrate(ctx context.Context, store roster.Store, adapter persistence.Adapter) error {
	players, err := adapter.GetPlayers(ctx)
	if err != nil {
		return err
	}
	positions, err := adapter.GetPositions(ctx)
	if err != nil {
		return err
	}
	scenarios, err := adapter.GetScenarios(ctx)
	if err != nil {
		return err
	}
	sequences, err := adapter.GetSequences(ctx)
	if err != nil {
		return err
	}
	store.Hydrate(players, positions, scenarios, sequences)
	log.Info("Roster hydrated",
		"players", len(players),
		"positions", len(positions),
		"scenarios", len(scenarios),
		"sequences", len(sequences),
	)
	return nil
}
