package persistence

import (
	"context"
	"errors"

	"github.com/courtware/courtboard/internal/roster"
)

// ErrNotFound is returned when a delete targets an id the backend never saw.
var ErrNotFound = errors.New("not persisted")

// Adapter is the system of record across sessions. The session's in-memory
// store is hydrated from it on startup and written back entity by entity on
// explicit saves. All operations may fail; callers treat a failure as "not
// persisted, in-memory state unchanged except for a user-visible error".
type Adapter interface {
	GetPlayers(ctx context.Context) ([]roster.Player, error)
	GetPositions(ctx context.Context) ([]roster.Position, error)
	GetScenarios(ctx context.Context) ([]roster.Scenario, error)
	GetSequences(ctx context.Context) ([]roster.Sequence, error)

	SavePlayer(ctx context.Context, p roster.Player) (roster.Player, error)
	SavePosition(ctx context.Context, p roster.Position) (roster.Position, error)
	SaveScenario(ctx context.Context, s roster.Scenario) (roster.Scenario, error)
	SaveSequence(ctx context.Context, s roster.Sequence) (roster.Sequence, error)

	Delete(ctx context.Context, kind roster.Kind, id string) error

	// LegacyPositions exposes the deprecated flat position map keyed by
	// name. Read-only; new writes always go through SavePosition.
	LegacyPositions(ctx context.Context) (map[string][]roster.PlayerPlacement, error)
}
