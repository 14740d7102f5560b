package playback

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtware/courtboard/internal/court"
	"github.com/courtware/courtboard/internal/events"
	"github.com/courtware/courtboard/internal/metrics"
	"github.com/courtware/courtboard/internal/roster"
)

// DefaultSettleDelay is how long a scenario waits between the instant load
// of its start position and the animated move to its end position, so the
// start arrangement is visible before players begin to move.
const DefaultSettleDelay = 100 * time.Millisecond

// Player drives scenario and sequence playback through the court animator.
// There is no autoplay; sequences advance only on explicit next/previous
// calls.
type Player struct {
	store    roster.Store
	loader   *court.Loader
	animator *court.Animator
	session  *court.Session
	bus      events.Bus
	metrics  metrics.Metrics
	settle   time.Duration

	mu     sync.Mutex
	cursor *Cursor
}

type Option func(*Player)

func WithSettleDelay(d time.Duration) Option {
	return func(p *Player) { p.settle = d }
}

func NewPlayer(store roster.Store, loader *court.Loader, animator *court.Animator, session *court.Session, bus events.Bus, metricsSvc metrics.Metrics, opts ...Option) *Player {
	if bus == nil {
		bus = events.NopBus{}
	}
	if metricsSvc == nil {
		metricsSvc = metrics.NewMock()
	}
	p := &Player{
		store:    store,
		loader:   loader,
		animator: animator,
		session:  session,
		bus:      bus,
		metrics:  metricsSvc,
		settle:   DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PlayScenario loads the scenario's start position instantly, waits for the
// placement to settle, then animates to the end position. The scenario is
// the loaded item for the whole run. An unknown scenario or a scenario whose
// positions were deleted is ignored.
func (p *Player) PlayScenario(ctx context.Context, scenarioID string) (*court.Transition, error) {
	sc, ok := p.store.GetScenario(scenarioID)
	if !ok {
		log.Warn("Scenario not found, ignoring play request", "scenarioID", scenarioID)
		return nil, nil
	}
	if _, ok := p.store.GetPosition(sc.StartPositionID); !ok {
		log.Warn("Scenario start position missing, ignoring play request", "scenarioID", sc.ID, "positionID", sc.StartPositionID)
		return nil, nil
	}
	end, ok := p.store.GetPosition(sc.EndPositionID)
	if !ok {
		log.Warn("Scenario end position missing, ignoring play request", "scenarioID", sc.ID, "positionID", sc.EndPositionID)
		return nil, nil
	}
	if p.session.IsAnimating() {
		p.metrics.IncAnimationsRejected()
		return nil, court.ErrAnimationInProgress
	}

	log.Info("Playing scenario", "scenarioID", sc.ID, "name", sc.Name)
	p.bus.Publish(events.Event{Type: events.TypePlaybackChanged, Payload: string(StateLoading)})

	if _, err := p.loader.Load(ctx, sc.StartPositionID, false, true); err != nil {
		return nil, err
	}
	loaded := &court.LoadedItem{Type: court.ItemScenario, ID: sc.ID, Name: sc.Name}
	p.session.SetLoadedItem(loaded)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(p.settle):
	}

	return p.animator.Start(end, loaded)
}

// StartSequence resets the cursor to the sequence's first step and plays it.
func (p *Player) StartSequence(ctx context.Context, sequenceID string) (*court.Transition, error) {
	seq, ok := p.store.GetSequence(sequenceID)
	if !ok {
		log.Warn("Sequence not found, ignoring play request", "sequenceID", sequenceID)
		return nil, nil
	}
	if len(seq.Items) == 0 {
		log.Warn("Sequence has no steps", "sequenceID", seq.ID)
		return nil, nil
	}
	if p.session.IsAnimating() {
		p.metrics.IncAnimationsRejected()
		return nil, court.ErrAnimationInProgress
	}

	p.mu.Lock()
	p.cursor = &Cursor{SequenceID: seq.ID, Step: 0}
	p.mu.Unlock()

	log.Info("Starting sequence", "sequenceID", seq.ID, "name", seq.Name, "steps", len(seq.Items))
	return p.playStep(seq, 0)
}

// PlayNext advances the cursor and plays the step there. At the last step it
// is a no-op; the cursor never wraps.
func (p *Player) PlayNext(ctx context.Context) (*court.Transition, error) {
	return p.advance(1)
}

// PlayPrevious retreats the cursor and plays the step there. At the first
// step it is a no-op.
func (p *Player) PlayPrevious(ctx context.Context) (*court.Transition, error) {
	return p.advance(-1)
}

func (p *Player) advance(delta int) (*court.Transition, error) {
	p.mu.Lock()
	cur := p.cursor
	p.mu.Unlock()
	if cur == nil {
		log.Warn("No sequence is playing, ignoring cursor move")
		return nil, nil
	}

	seq, ok := p.store.GetSequence(cur.SequenceID)
	if !ok {
		log.Warn("Playing sequence no longer exists, resetting cursor", "sequenceID", cur.SequenceID)
		p.mu.Lock()
		p.cursor = nil
		p.mu.Unlock()
		return nil, nil
	}

	next := cur.Step + delta
	if next < 0 || next >= len(seq.Items) {
		log.Debug("Sequence cursor at bound, ignoring", "step", cur.Step, "steps", len(seq.Items))
		return nil, nil
	}
	if p.session.IsAnimating() {
		p.metrics.IncAnimationsRejected()
		return nil, court.ErrAnimationInProgress
	}

	p.mu.Lock()
	p.cursor.Step = next
	p.mu.Unlock()
	return p.playStep(seq, next)
}

// playStep resolves the item at the given index to a target position and
// invokes the animator. A scenario step resolves to its end position.
func (p *Player) playStep(seq roster.Sequence, idx int) (*court.Transition, error) {
	item := seq.Items[idx]

	var target roster.Position
	switch item.Type {
	case roster.StepPosition:
		pos, ok := p.store.GetPosition(item.ID)
		if !ok {
			log.Warn("Sequence step targets a missing position, skipping", "sequenceID", seq.ID, "step", idx, "positionID", item.ID)
			return nil, nil
		}
		target = pos
	case roster.StepScenario:
		sc, ok := p.store.GetScenario(item.ID)
		if !ok {
			log.Warn("Sequence step targets a missing scenario, skipping", "sequenceID", seq.ID, "step", idx, "scenarioID", item.ID)
			return nil, nil
		}
		pos, ok := p.store.GetPosition(sc.EndPositionID)
		if !ok {
			log.Warn("Scenario end position missing, skipping step", "sequenceID", seq.ID, "step", idx, "scenarioID", sc.ID)
			return nil, nil
		}
		target = pos
	default:
		log.Warn("Unknown sequence step type, skipping", "sequenceID", seq.ID, "step", idx, "type", item.Type)
		return nil, nil
	}

	loaded := &court.LoadedItem{Type: court.ItemSequence, ID: seq.ID, Name: seq.Name}
	return p.animator.Start(target, loaded)
}

// Cursor reports the active sequence cursor, or nil when no sequence has
// been started.
func (p *Player) Cursor() *Cursor {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cursor == nil {
		return nil
	}
	c := *p.cursor
	return &c
}
