package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	positionLoads      int
	animationsStarted  int
	animationsRejected int
	animationDurations []float64
	persistenceFails   int
	slackNotifSent     int
	slackNotifFailed   int
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		animationDurations: make([]float64, 0),
	}
}

func (m *Mock) IncPositionLoads() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positionLoads++
}

func (m *Mock) IncAnimationsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.animationsStarted++
}

func (m *Mock) IncAnimationsRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.animationsRejected++
}

func (m *Mock) ObserveAnimationDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.animationDurations = append(m.animationDurations, duration)
}

func (m *Mock) IncPersistenceFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persistenceFails++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// PositionLoads returns the number of times IncPositionLoads was called.
func (m *Mock) PositionLoads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.positionLoads
}

// AnimationsStarted returns the number of times IncAnimationsStarted was called.
func (m *Mock) AnimationsStarted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.animationsStarted
}

// AnimationsRejected returns the number of times IncAnimationsRejected was called.
func (m *Mock) AnimationsRejected() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.animationsRejected
}

// PersistenceFailures returns the number of times IncPersistenceFailures was called.
func (m *Mock) PersistenceFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.persistenceFails
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
