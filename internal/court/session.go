package court

import (
	"sort"
	"sync"

	"github.com/courtware/courtboard/internal/events"
	"github.com/courtware/courtboard/internal/roster"
)

// Session owns the transient on-court state: live placements, the identity
// of the loaded item, the dirty flag and the animating flag. It exists only
// while something is loaded into the editing surface; the roster store stays
// untouched until an explicit save.
type Session struct {
	mu         sync.RWMutex
	placements map[string]Placement
	loaded     *LoadedItem
	dirty      bool
	animating  bool
	bus        events.Bus
}

// NewSession creates an empty court session publishing to the given bus.
func NewSession(bus events.Bus) *Session {
	if bus == nil {
		bus = events.NopBus{}
	}
	return &Session{
		placements: make(map[string]Placement),
		bus:        bus,
	}
}

// Placements returns the live placements sorted by player id.
func (s *Session) Placements() []Placement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Placement, 0, len(s.placements))
	for _, p := range s.placements {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}

// Snapshot returns a copy of the live placements keyed by player id.
func (s *Session) Snapshot() map[string]Placement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Placement, len(s.placements))
	for id, p := range s.placements {
		out[id] = p
	}
	return out
}

// Empty reports whether no players are placed.
func (s *Session) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.placements) == 0
}

// Place puts a player token at a coordinate (clamped to the playable band)
// and marks the session dirty. This is the coach dragging a token.
func (s *Session) Place(p Placement) {
	p.X = roster.ClampX(p.X)
	p.Y = roster.ClampY(p.Y)
	s.mu.Lock()
	s.placements[p.PlayerID] = p
	wasDirty := s.dirty
	s.dirty = true
	s.mu.Unlock()

	s.publishCourt()
	if !wasDirty {
		s.bus.Publish(events.Event{Type: events.TypeDirtyChanged, Payload: true})
	}
}

// RemovePlayer detaches a player token if present, marking the session dirty.
func (s *Session) RemovePlayer(playerID string) {
	s.mu.Lock()
	if _, ok := s.placements[playerID]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.placements, playerID)
	s.dirty = true
	s.mu.Unlock()

	s.publishCourt()
	s.bus.Publish(events.Event{Type: events.TypeDirtyChanged, Payload: true})
}

// Clear wipes the court and the loaded item.
func (s *Session) Clear() {
	s.mu.Lock()
	s.placements = make(map[string]Placement)
	s.loaded = nil
	s.dirty = false
	s.mu.Unlock()

	s.publishCourt()
	s.bus.Publish(events.Event{Type: events.TypeLoadedItemChanged, Payload: nil})
	s.bus.Publish(events.Event{Type: events.TypeDirtyChanged, Payload: false})
}

// replaceAll swaps the whole arrangement without touching the dirty flag.
// Loading an item is not an edit.
func (s *Session) replaceAll(placements map[string]Placement) {
	s.mu.Lock()
	s.placements = placements
	s.mu.Unlock()
	s.publishCourt()
}

// setCoords writes a live coordinate during interpolation.
func (s *Session) setCoords(playerID string, x, y float64) {
	s.mu.Lock()
	p, ok := s.placements[playerID]
	if ok {
		p.X = x
		p.Y = y
		s.placements[playerID] = p
	}
	s.mu.Unlock()
}

// detach removes a player without dirtying the session (animation removal).
func (s *Session) detach(playerID string) {
	s.mu.Lock()
	delete(s.placements, playerID)
	s.mu.Unlock()
}

// attach places a player without dirtying the session (animation addition).
func (s *Session) attach(p Placement) {
	s.mu.Lock()
	s.placements[p.PlayerID] = p
	s.mu.Unlock()
}

// LoadedItem returns a copy of the loaded item identity, or nil.
func (s *Session) LoadedItem() *LoadedItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.loaded == nil {
		return nil
	}
	item := *s.loaded
	return &item
}

// SetLoadedItem records what is being edited and clears the dirty flag,
// notifying list and header observers.
func (s *Session) SetLoadedItem(item *LoadedItem) {
	s.mu.Lock()
	s.loaded = item
	s.dirty = false
	s.mu.Unlock()

	s.bus.Publish(events.Event{Type: events.TypeLoadedItemChanged, Payload: item})
	s.bus.Publish(events.Event{Type: events.TypeDirtyChanged, Payload: false})
}

// IsDirty reports whether the loaded item differs from its last saved state.
func (s *Session) IsDirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// IsAnimating reports whether a transition is running.
func (s *Session) IsAnimating() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.animating
}

// tryBeginAnimation atomically claims the animating flag. It is the single
// concurrency guard for playback: every entry point that could start a
// transition goes through it.
func (s *Session) tryBeginAnimation() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.animating {
		return false
	}
	s.animating = true
	return true
}

func (s *Session) endAnimation() {
	s.mu.Lock()
	s.animating = false
	s.mu.Unlock()
}

func (s *Session) publishCourt() {
	s.bus.Publish(events.Event{Type: events.TypeCourtUpdated, Payload: s.Placements()})
}
