package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncPositionLoads()
	IncAnimationsStarted()
	IncAnimationsRejected()
	ObserveAnimationDuration(duration float64)
	IncPersistenceFailures()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// UsageStore persists long-lived usage counters (which formations a coach
// actually loads) in the local database, independent of process restarts.
type UsageStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
