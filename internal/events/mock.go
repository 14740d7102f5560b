package events

import "sync"

// MockBus records published events for assertions in tests.
// It is safe for concurrent use.
type MockBus struct {
	mu     sync.Mutex
	Events []Event
}

// NewMock creates a new mock instance.
func NewMock() *MockBus {
	return &MockBus{}
}

func (m *MockBus) Publish(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// OfType returns every recorded event of the given type.
func (m *MockBus) OfType(t Type) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, e := range m.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Reset clears all recorded events.
func (m *MockBus) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = nil
}
