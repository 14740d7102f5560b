package court

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/courtware/courtboard/internal/events"
	"github.com/courtware/courtboard/internal/metrics"
	"github.com/courtware/courtboard/internal/persistence"
	"github.com/courtware/courtboard/internal/roster"
)

// Loader resolves a position by id and renders it onto the court, replacing
// whatever is currently shown.
type Loader struct {
	store    roster.Store
	adapter  persistence.Adapter
	session  *Session
	animator *Animator
	bus      events.Bus
	metrics  metrics.Metrics
	usage    metrics.UsageStore
}

// NewLoader creates a Loader. usage may be nil when load counters are not
// being tracked.
func NewLoader(store roster.Store, adapter persistence.Adapter, session *Session, animator *Animator, bus events.Bus, metricsSvc metrics.Metrics, usage metrics.UsageStore) *Loader {
	if bus == nil {
		bus = events.NopBus{}
	}
	if metricsSvc == nil {
		metricsSvc = metrics.NewMock()
	}
	return &Loader{
		store:    store,
		adapter:  adapter,
		session:  session,
		animator: animator,
		bus:      bus,
		metrics:  metricsSvc,
		usage:    usage,
	}
}

// Load renders the position's placements onto the court. Placement is
// instant when the court is empty, when skipAnimation is set, or when an
// animation is already in flight (the running animation is cancelled so its
// stale frames cannot overwrite the new arrangement); otherwise the change
// is animated. With updateLoadedItem the position becomes the item being
// edited and the dirty flag is cleared.
//
// An unknown id falls back to the deprecated flat position map keyed by
// name; if it is absent there too the load is a silent no-op, matching how
// the editor has always behaved when a list entry outlives its entity.
func (l *Loader) Load(ctx context.Context, positionID string, updateLoadedItem, skipAnimation bool) (*Transition, error) {
	pos, ok := l.store.GetPosition(positionID)
	if !ok {
		pos, ok = l.legacyLookup(ctx, positionID)
		if !ok {
			log.Warn("Position not found, ignoring load", "positionID", positionID)
			return nil, nil
		}
	}

	l.metrics.IncPositionLoads()
	if l.usage != nil {
		l.usage.Increment("load:" + pos.ID)
	}

	var loaded *LoadedItem
	if updateLoadedItem {
		loaded = &LoadedItem{Type: ItemPosition, ID: pos.ID, Name: pos.Name}
	}

	if l.session.Empty() || skipAnimation || l.session.IsAnimating() {
		if l.session.IsAnimating() {
			l.animator.CancelActive()
		}
		l.placeInstantly(pos)
		if loaded != nil {
			l.session.SetLoadedItem(loaded)
			l.bus.Publish(events.Event{Type: events.TypeListChanged, Payload: roster.KindPosition})
		}
		return nil, nil
	}

	return l.animator.Start(pos, loaded)
}

// placeInstantly clears the court and places every placement whose player
// still exists at its stored coordinate.
func (l *Loader) placeInstantly(pos roster.Position) {
	placements := make(map[string]Placement, len(pos.PlayerPositions))
	for _, pl := range pos.PlayerPositions {
		if _, ok := l.store.GetPlayer(pl.PlayerID); !ok {
			log.Debug("Skipping placement for deleted player", "playerID", pl.PlayerID, "positionID", pos.ID)
			continue
		}
		placements[pl.PlayerID] = Placement{
			PlayerID: pl.PlayerID,
			Jersey:   pl.Jersey,
			Name:     pl.Name,
			X:        pl.X,
			Y:        pl.Y,
		}
	}
	l.session.replaceAll(placements)
}

// legacyLookup checks the deprecated flat map, where positions were keyed by
// name rather than id.
func (l *Loader) legacyLookup(ctx context.Context, name string) (roster.Position, bool) {
	if l.adapter == nil {
		return roster.Position{}, false
	}
	legacy, err := l.adapter.LegacyPositions(ctx)
	if err != nil {
		log.Error("Failed to read legacy positions", "error", err)
		return roster.Position{}, false
	}
	placements, ok := legacy[name]
	if !ok {
		return roster.Position{}, false
	}
	log.Info("Resolved position from legacy flat map", "name", name)
	return roster.Position{
		ID:              name,
		Name:            name,
		Tags:            []string{},
		PlayerPositions: placements,
	}, true
}

// Snapshot captures the current arrangement as a Position's placements,
// used when saving the court into a new or existing position.
func (l *Loader) Snapshot() []roster.PlayerPlacement {
	live := l.session.Placements()
	out := make([]roster.PlayerPlacement, 0, len(live))
	for _, p := range live {
		out = append(out, roster.PlayerPlacement{
			PlayerID: p.PlayerID,
			Jersey:   p.Jersey,
			Name:     p.Name,
			X:        p.X,
			Y:        p.Y,
		})
	}
	return out
}
