package notifier

import (
	"sync"

	"github.com/courtware/courtboard/internal/roster"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendLineupNotificationCalls []struct {
		Position roster.Position
		DryRun   bool
	}
	SendScenarioNotificationCalls []struct {
		Scenario roster.Scenario
		Start    roster.Position
		End      roster.Position
		DryRun   bool
	}

	// Spies
	SendLineupNotificationFunc   func(position roster.Position, dryRun bool) error
	SendScenarioNotificationFunc func(scenario roster.Scenario, start, end roster.Position, dryRun bool) error
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLineupNotificationCalls = nil
	m.SendScenarioNotificationCalls = nil
}

func (m *Mock) SendLineupNotification(position roster.Position, dryRun bool) error {
	m.mu.Lock()
	m.SendLineupNotificationCalls = append(m.SendLineupNotificationCalls, struct {
		Position roster.Position
		DryRun   bool
	}{position, dryRun})
	m.mu.Unlock()
	if m.SendLineupNotificationFunc != nil {
		return m.SendLineupNotificationFunc(position, dryRun)
	}
	return nil
}

func (m *Mock) SendScenarioNotification(scenario roster.Scenario, start, end roster.Position, dryRun bool) error {
	m.mu.Lock()
	m.SendScenarioNotificationCalls = append(m.SendScenarioNotificationCalls, struct {
		Scenario roster.Scenario
		Start    roster.Position
		End      roster.Position
		DryRun   bool
	}{scenario, start, end, dryRun})
	m.mu.Unlock()
	if m.SendScenarioNotificationFunc != nil {
		return m.SendScenarioNotificationFunc(scenario, start, end, dryRun)
	}
	return nil
}
