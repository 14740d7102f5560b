package roster

import "sync"

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	PlayersFunc        func() []Player
	PositionsFunc      func() []Position
	ScenariosFunc      func() []Scenario
	SequencesFunc      func() []Sequence
	GetPlayerFunc      func(id string) (Player, bool)
	GetPositionFunc    func(id string) (Position, bool)
	GetScenarioFunc    func(id string) (Scenario, bool)
	GetSequenceFunc    func(id string) (Sequence, bool)
	UpsertPlayerFunc   func(p Player) (Player, error)
	UpsertPositionFunc func(p Position) (Position, error)
	UpsertScenarioFunc func(s Scenario) (Scenario, error)
	UpsertSequenceFunc func(s Sequence) (Sequence, error)
	RemoveFunc         func(kind Kind, id string) (CascadeResult, error)

	// Call records
	UpsertPlayerCalls   []Player
	UpsertPositionCalls []Position
	UpsertScenarioCalls []Scenario
	UpsertSequenceCalls []Sequence
	RemoveCalls         []struct {
		Kind Kind
		ID   string
	}
	ClearCalls   int
	HydrateCalls int
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Players() []Player {
	if m.PlayersFunc != nil {
		return m.PlayersFunc()
	}
	return nil
}

func (m *MockStore) Positions() []Position {
	if m.PositionsFunc != nil {
		return m.PositionsFunc()
	}
	return nil
}

func (m *MockStore) Scenarios() []Scenario {
	if m.ScenariosFunc != nil {
		return m.ScenariosFunc()
	}
	return nil
}

func (m *MockStore) Sequences() []Sequence {
	if m.SequencesFunc != nil {
		return m.SequencesFunc()
	}
	return nil
}

func (m *MockStore) GetPlayer(id string) (Player, bool) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(id)
	}
	return Player{}, false
}

func (m *MockStore) GetPosition(id string) (Position, bool) {
	if m.GetPositionFunc != nil {
		return m.GetPositionFunc(id)
	}
	return Position{}, false
}

func (m *MockStore) GetScenario(id string) (Scenario, bool) {
	if m.GetScenarioFunc != nil {
		return m.GetScenarioFunc(id)
	}
	return Scenario{}, false
}

func (m *MockStore) GetSequence(id string) (Sequence, bool) {
	if m.GetSequenceFunc != nil {
		return m.GetSequenceFunc(id)
	}
	return Sequence{}, false
}

func (m *MockStore) UpsertPlayer(p Player) (Player, error) {
	m.mu.Lock()
	m.UpsertPlayerCalls = append(m.UpsertPlayerCalls, p)
	m.mu.Unlock()
	if m.UpsertPlayerFunc != nil {
		return m.UpsertPlayerFunc(p)
	}
	return p, nil
}

func (m *MockStore) UpsertPosition(p Position) (Position, error) {
	m.mu.Lock()
	m.UpsertPositionCalls = append(m.UpsertPositionCalls, p)
	m.mu.Unlock()
	if m.UpsertPositionFunc != nil {
		return m.UpsertPositionFunc(p)
	}
	return p, nil
}

func (m *MockStore) UpsertScenario(s Scenario) (Scenario, error) {
	m.mu.Lock()
	m.UpsertScenarioCalls = append(m.UpsertScenarioCalls, s)
	m.mu.Unlock()
	if m.UpsertScenarioFunc != nil {
		return m.UpsertScenarioFunc(s)
	}
	return s, nil
}

func (m *MockStore) UpsertSequence(s Sequence) (Sequence, error) {
	m.mu.Lock()
	m.UpsertSequenceCalls = append(m.UpsertSequenceCalls, s)
	m.mu.Unlock()
	if m.UpsertSequenceFunc != nil {
		return m.UpsertSequenceFunc(s)
	}
	return s, nil
}

func (m *MockStore) Remove(kind Kind, id string) (CascadeResult, error) {
	m.mu.Lock()
	m.RemoveCalls = append(m.RemoveCalls, struct {
		Kind Kind
		ID   string
	}{kind, id})
	m.mu.Unlock()
	if m.RemoveFunc != nil {
		return m.RemoveFunc(kind, id)
	}
	return CascadeResult{}, nil
}

func (m *MockStore) Hydrate(players []Player, positions []Position, scenarios []Scenario, sequences []Sequence) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HydrateCalls++
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
}
