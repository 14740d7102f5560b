package roster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var (
	// ErrEmptyName is returned when a required name field is blank.
	ErrEmptyName = errors.New("name is required")
	// ErrDuplicateJersey is returned when another player already wears the jersey.
	ErrDuplicateJersey = errors.New("jersey already taken")
	// ErrSamePosition is returned when a scenario's start and end positions match.
	ErrSamePosition = errors.New("start and end position must differ")
	// ErrUnknownKind is returned for an unrecognized entity kind.
	ErrUnknownKind = errors.New("unknown entity kind")
	// ErrNotFound is returned when no entity carries the given id.
	ErrNotFound = errors.New("entity not found")
)

// CascadeResult reports the side effects of a Remove so callers can persist
// every entity the referential-integrity pass touched.
type CascadeResult struct {
	UpdatedPositions []Position
	UpdatedSequences []Sequence
	RemovedScenarios []string
}

// New creates an empty Store.
func New() Store {
	return &store{}
}

func (s *store) Players() []Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Player, len(s.players))
	copy(out, s.players)
	return out
}

func (s *store) Positions() []Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Position, len(s.positions))
	copy(out, s.positions)
	return out
}

func (s *store) Scenarios() []Scenario {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Scenario, len(s.scenarios))
	copy(out, s.scenarios)
	return out
}

func (s *store) Sequences() []Sequence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Sequence, len(s.sequences))
	copy(out, s.sequences)
	return out
}

func (s *store) GetPlayer(id string) (Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

func (s *store) GetPosition(id string) (Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.positions {
		if p.ID == id {
			return p, true
		}
	}
	return Position{}, false
}

func (s *store) GetScenario(id string) (Scenario, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sc := range s.scenarios {
		if sc.ID == id {
			return sc, true
		}
	}
	return Scenario{}, false
}

func (s *store) GetSequence(id string) (Sequence, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sq := range s.sequences {
		if sq.ID == id {
			return sq, true
		}
	}
	return Sequence{}, false
}

// UpsertPlayer validates and stores a player. Jerseys must be unique across
// the squad; the check excludes the player itself so saves are idempotent.
func (s *store) UpsertPlayer(p Player) (Player, error) {
	if strings.TrimSpace(p.Name) == "" {
		return Player{}, ErrEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.players {
		if other.ID != p.ID && other.Jersey == p.Jersey {
			return Player{}, fmt.Errorf("%w: jersey %s belongs to %s", ErrDuplicateJersey, p.Jersey, other.Name)
		}
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	for i, other := range s.players {
		if other.ID == p.ID {
			s.players[i] = p
			return p, nil
		}
	}
	s.players = append(s.players, p)
	log.Debug("Added player to store", "playerID", p.ID, "jersey", p.Jersey)
	return p, nil
}

// UpsertPosition validates, clamps placement coordinates and stores a position.
func (s *store) UpsertPosition(p Position) (Position, error) {
	if strings.TrimSpace(p.Name) == "" {
		return Position{}, ErrEmptyName
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	for i := range p.PlayerPositions {
		p.PlayerPositions[i].X = ClampX(p.PlayerPositions[i].X)
		p.PlayerPositions[i].Y = ClampY(p.PlayerPositions[i].Y)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, other := range s.positions {
		if other.ID == p.ID {
			s.positions[i] = p
			return p, nil
		}
	}
	s.positions = append(s.positions, p)
	return p, nil
}

// UpsertScenario validates and stores a scenario. A scenario whose start and
// end positions are the same id is rejected before any mutation.
func (s *store) UpsertScenario(sc Scenario) (Scenario, error) {
	if strings.TrimSpace(sc.Name) == "" {
		return Scenario{}, ErrEmptyName
	}
	if sc.StartPositionID == sc.EndPositionID {
		return Scenario{}, ErrSamePosition
	}
	if sc.ID == "" {
		sc.ID = uuid.New().String()
	}
	if sc.Tags == nil {
		sc.Tags = []string{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, other := range s.scenarios {
		if other.ID == sc.ID {
			s.scenarios[i] = sc
			return sc, nil
		}
	}
	s.scenarios = append(s.scenarios, sc)
	return sc, nil
}

func (s *store) UpsertSequence(sq Sequence) (Sequence, error) {
	if strings.TrimSpace(sq.Name) == "" {
		return Sequence{}, ErrEmptyName
	}
	sq.Normalize()
	if sq.ID == "" {
		sq.ID = uuid.New().String()
	}
	if sq.Items == nil {
		sq.Items = []SequenceItem{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, other := range s.sequences {
		if other.ID == sq.ID {
			s.sequences[i] = sq
			return sq, nil
		}
	}
	s.sequences = append(s.sequences, sq)
	return sq, nil
}

// Remove deletes an entity and runs the referential-integrity pass for its
// kind. The pass walks every collection that may reference the deleted id:
//
//	player   -> position placements
//	position -> scenarios (cascade-deleted), sequence steps
//	scenario -> sequence steps
//
// There is no transactional guarantee across the cascade; a caller that fails
// to persist part of the result leaves the backend behind the session, which
// the single-user model accepts.
func (s *store) Remove(kind Kind, id string) (CascadeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res CascadeResult
	switch kind {
	case KindPlayer:
		if !s.deletePlayerLocked(id) {
			return res, ErrNotFound
		}
		for i := range s.positions {
			if stripPlacement(&s.positions[i], id) {
				res.UpdatedPositions = append(res.UpdatedPositions, s.positions[i])
			}
		}

	case KindPosition:
		if !s.deletePositionLocked(id) {
			return res, ErrNotFound
		}
		// Scenarios referencing the position as start or end are cascade
		// deleted rather than left dangling.
		kept := s.scenarios[:0]
		for _, sc := range s.scenarios {
			if sc.StartPositionID == id || sc.EndPositionID == id {
				res.RemovedScenarios = append(res.RemovedScenarios, sc.ID)
				continue
			}
			kept = append(kept, sc)
		}
		s.scenarios = kept
		dead := map[string]bool{id: true}
		for _, scID := range res.RemovedScenarios {
			dead[scID] = true
		}
		for i := range s.sequences {
			if stripSteps(&s.sequences[i], dead) {
				res.UpdatedSequences = append(res.UpdatedSequences, s.sequences[i])
			}
		}

	case KindScenario:
		if !s.deleteScenarioLocked(id) {
			return res, ErrNotFound
		}
		for i := range s.sequences {
			if stripSteps(&s.sequences[i], map[string]bool{id: true}) {
				res.UpdatedSequences = append(res.UpdatedSequences, s.sequences[i])
			}
		}

	case KindSequence:
		if !s.deleteSequenceLocked(id) {
			return res, ErrNotFound
		}

	default:
		return res, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	log.Info("Removed entity from store", "kind", kind, "id", id,
		"positions_touched", len(res.UpdatedPositions),
		"scenarios_removed", len(res.RemovedScenarios),
		"sequences_touched", len(res.UpdatedSequences))
	return res, nil
}

func (s *store) deletePlayerLocked(id string) bool {
	for i, p := range s.players {
		if p.ID == id {
			s.players = append(s.players[:i], s.players[i+1:]...)
			return true
		}
	}
	return false
}

func (s *store) deletePositionLocked(id string) bool {
	for i, p := range s.positions {
		if p.ID == id {
			s.positions = append(s.positions[:i], s.positions[i+1:]...)
			return true
		}
	}
	return false
}

func (s *store) deleteScenarioLocked(id string) bool {
	for i, sc := range s.scenarios {
		if sc.ID == id {
			s.scenarios = append(s.scenarios[:i], s.scenarios[i+1:]...)
			return true
		}
	}
	return false
}

func (s *store) deleteSequenceLocked(id string) bool {
	for i, sq := range s.sequences {
		if sq.ID == id {
			s.sequences = append(s.sequences[:i], s.sequences[i+1:]...)
			return true
		}
	}
	return false
}

// stripPlacement removes the player's placement from a position, reporting
// whether anything changed.
func stripPlacement(p *Position, playerID string) bool {
	kept := p.PlayerPositions[:0]
	changed := false
	for _, pl := range p.PlayerPositions {
		if pl.PlayerID == playerID {
			changed = true
			continue
		}
		kept = append(kept, pl)
	}
	p.PlayerPositions = kept
	return changed
}

// stripSteps removes sequence items whose id is in dead, reporting whether
// anything changed.
func stripSteps(sq *Sequence, dead map[string]bool) bool {
	kept := sq.Items[:0]
	changed := false
	for _, item := range sq.Items {
		if dead[item.ID] {
			changed = true
			continue
		}
		kept = append(kept, item)
	}
	sq.Items = kept
	return changed
}

func (s *store) Hydrate(players []Player, positions []Position, scenarios []Scenario, sequences []Sequence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range sequences {
		sequences[i].Normalize()
	}
	s.players = players
	s.positions = positions
	s.scenarios = scenarios
	s.sequences = sequences
	log.Info("Hydrated store", "players", len(players), "positions", len(positions),
		"scenarios", len(scenarios), "sequences", len(sequences))
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = nil
	s.positions = nil
	s.scenarios = nil
	s.sequences = nil
}
