package roster

import "sync"

// Kind identifies one of the entity collections held by the store.
type Kind string

const (
	KindPlayer   Kind = "player"
	KindPosition Kind = "position"
	KindScenario Kind = "scenario"
	KindSequence Kind = "sequence"
)

// Kinds lists every entity kind in persistence order.
var Kinds = []Kind{KindPlayer, KindPosition, KindScenario, KindSequence}

// Court coordinate space. Tokens are 50 units wide and the top 4 units are
// reserved for the net band, so placements are clamped to these bounds.
const (
	CourtSize = 600.0
	MaxX      = 550.0
	MinY      = 4.0
	MaxY      = 550.0
)

// Player is a squad member identified by jersey number.
type Player struct {
	ID     string `json:"id" msgpack:"id"`
	Jersey string `json:"jersey" msgpack:"jersey"`
	Name   string `json:"name" msgpack:"name"`
}

// PlayerPlacement pins a player to a court coordinate inside a Position.
type PlayerPlacement struct {
	PlayerID string  `json:"playerId" msgpack:"playerId"`
	Jersey   string  `json:"jersey" msgpack:"jersey"`
	Name     string  `json:"name" msgpack:"name"`
	X        float64 `json:"x" msgpack:"x"`
	Y        float64 `json:"y" msgpack:"y"`
}

// Position is a named snapshot of all players' court coordinates.
// Names may repeat; tags disambiguate.
type Position struct {
	ID              string            `json:"id" msgpack:"id"`
	Name            string            `json:"name" msgpack:"name"`
	Tags            []string          `json:"tags" msgpack:"tags"`
	PlayerPositions []PlayerPlacement `json:"playerPositions" msgpack:"playerPositions"`
}

// Scenario names a single start-to-end transition between two positions.
// It references the positions by id and does not own them.
type Scenario struct {
	ID              string   `json:"id" msgpack:"id"`
	Name            string   `json:"name" msgpack:"name"`
	StartPositionID string   `json:"startPositionId" msgpack:"startPositionId"`
	EndPositionID   string   `json:"endPositionId" msgpack:"endPositionId"`
	Tags            []string `json:"tags" msgpack:"tags"`
}

// StepType tags a sequence item as a position or a scenario reference.
type StepType string

const (
	StepPosition StepType = "position"
	StepScenario StepType = "scenario"
)

// SequenceItem is one ordered playback step.
type SequenceItem struct {
	Type StepType `json:"type" msgpack:"type"`
	ID   string   `json:"id" msgpack:"id"`
}

// Sequence is an ordered list of position/scenario steps for multi-step
// playback. The legacy ScenarioIDs shape is accepted on input and folded
// into Items by Normalize; nothing downstream ever reads ScenarioIDs.
type Sequence struct {
	ID    string         `json:"id" msgpack:"id"`
	Name  string         `json:"name" msgpack:"name"`
	Items []SequenceItem `json:"items" msgpack:"items"`

	// Deprecated: legacy wire shape, consumed by Normalize only.
	ScenarioIDs []string `json:"scenarioIds,omitempty" msgpack:"scenarioIds,omitempty"`
}

// Normalize migrates the legacy scenarioIds shape into Items. It is applied
// once at the persistence boundary and is a no-op for current-shape sequences.
func (s *Sequence) Normalize() {
	if len(s.Items) > 0 || len(s.ScenarioIDs) == 0 {
		s.ScenarioIDs = nil
		return
	}
	s.Items = make([]SequenceItem, 0, len(s.ScenarioIDs))
	for _, id := range s.ScenarioIDs {
		s.Items = append(s.Items, SequenceItem{Type: StepScenario, ID: id})
	}
	s.ScenarioIDs = nil
}

// ClampX bounds an x coordinate to the playable band.
func ClampX(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > MaxX {
		return MaxX
	}
	return x
}

// ClampY bounds a y coordinate below the net band.
func ClampY(y float64) float64 {
	if y < MinY {
		return MinY
	}
	if y > MaxY {
		return MaxY
	}
	return y
}

// store holds the canonical in-memory collections for the session.
type store struct {
	mu        sync.RWMutex
	players   []Player
	positions []Position
	scenarios []Scenario
	sequences []Sequence
}
