package persistence

import (
	"context"
	"sync"

	"github.com/courtware/courtboard/internal/roster"
)

// MockAdapter is a mock implementation of the Adapter interface for testing.
// It is safe for concurrent use.
type MockAdapter struct {
	mu sync.Mutex

	// Spies for method calls
	GetPlayersFunc      func(ctx context.Context) ([]roster.Player, error)
	GetPositionsFunc    func(ctx context.Context) ([]roster.Position, error)
	GetScenariosFunc    func(ctx context.Context) ([]roster.Scenario, error)
	GetSequencesFunc    func(ctx context.Context) ([]roster.Sequence, error)
	SavePlayerFunc      func(ctx context.Context, p roster.Player) (roster.Player, error)
	SavePositionFunc    func(ctx context.Context, p roster.Position) (roster.Position, error)
	SaveScenarioFunc    func(ctx context.Context, s roster.Scenario) (roster.Scenario, error)
	SaveSequenceFunc    func(ctx context.Context, s roster.Sequence) (roster.Sequence, error)
	DeleteFunc          func(ctx context.Context, kind roster.Kind, id string) error
	LegacyPositionsFunc func(ctx context.Context) (map[string][]roster.PlayerPlacement, error)

	// Call records
	SavePlayerCalls   []roster.Player
	SavePositionCalls []roster.Position
	SaveScenarioCalls []roster.Scenario
	SaveSequenceCalls []roster.Sequence
	DeleteCalls       []struct {
		Kind roster.Kind
		ID   string
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockAdapter {
	return &MockAdapter{}
}

func (m *MockAdapter) GetPlayers(ctx context.Context) ([]roster.Player, error) {
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(ctx)
	}
	return nil, nil
}

func (m *MockAdapter) GetPositions(ctx context.Context) ([]roster.Position, error) {
	if m.GetPositionsFunc != nil {
		return m.GetPositionsFunc(ctx)
	}
	return nil, nil
}

func (m *MockAdapter) GetScenarios(ctx context.Context) ([]roster.Scenario, error) {
	if m.GetScenariosFunc != nil {
		return m.GetScenariosFunc(ctx)
	}
	return nil, nil
}

func (m *MockAdapter) GetSequences(ctx context.Context) ([]roster.Sequence, error) {
	if m.GetSequencesFunc != nil {
		return m.GetSequencesFunc(ctx)
	}
	return nil, nil
}

func (m *MockAdapter) SavePlayer(ctx context.Context, p roster.Player) (roster.Player, error) {
	m.mu.Lock()
	m.SavePlayerCalls = append(m.SavePlayerCalls, p)
	m.mu.Unlock()
	if m.SavePlayerFunc != nil {
		return m.SavePlayerFunc(ctx, p)
	}
	return p, nil
}

func (m *MockAdapter) SavePosition(ctx context.Context, p roster.Position) (roster.Position, error) {
	m.mu.Lock()
	m.SavePositionCalls = append(m.SavePositionCalls, p)
	m.mu.Unlock()
	if m.SavePositionFunc != nil {
		return m.SavePositionFunc(ctx, p)
	}
	return p, nil
}

func (m *MockAdapter) SaveScenario(ctx context.Context, s roster.Scenario) (roster.Scenario, error) {
	m.mu.Lock()
	m.SaveScenarioCalls = append(m.SaveScenarioCalls, s)
	m.mu.Unlock()
	if m.SaveScenarioFunc != nil {
		return m.SaveScenarioFunc(ctx, s)
	}
	return s, nil
}

func (m *MockAdapter) SaveSequence(ctx context.Context, s roster.Sequence) (roster.Sequence, error) {
	m.mu.Lock()
	m.SaveSequenceCalls = append(m.SaveSequenceCalls, s)
	m.mu.Unlock()
	if m.SaveSequenceFunc != nil {
		return m.SaveSequenceFunc(ctx, s)
	}
	return s, nil
}

func (m *MockAdapter) Delete(ctx context.Context, kind roster.Kind, id string) error {
	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, struct {
		Kind roster.Kind
		ID   string
	}{kind, id})
	m.mu.Unlock()
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, kind, id)
	}
	return nil
}

func (m *MockAdapter) LegacyPositions(ctx context.Context) (map[string][]roster.PlayerPlacement, error) {
	if m.LegacyPositionsFunc != nil {
		return m.LegacyPositionsFunc(ctx)
	}
	return map[string][]roster.PlayerPlacement{}, nil
}
