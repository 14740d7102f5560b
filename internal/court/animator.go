package court

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtware/courtboard/internal/events"
	"github.com/courtware/courtboard/internal/metrics"
	"github.com/courtware/courtboard/internal/roster"
)

const (
	// DefaultDuration is how long a court transition takes.
	DefaultDuration = time.Second
	// DefaultSettleDelay gives immediate placements a beat to land before
	// tokens start moving.
	DefaultSettleDelay = 10 * time.Millisecond
	// DefaultTickInterval is the interpolation frame rate (20 frames/s).
	DefaultTickInterval = 50 * time.Millisecond
)

// Move is one player's interpolated coordinate change.
type Move struct {
	PlayerID string
	FromX    float64
	FromY    float64
	ToX      float64
	ToY      float64
}

// Plan partitions a transition into disjoint operation sets. Every player
// in the current arrangement or the target appears in exactly one of
// Removals, Additions, Moves or Unchanged.
type Plan struct {
	Removals  []string
	Additions []Placement
	Moves     []Move
	Unchanged []string
}

// Empty reports whether the plan requires no operations at all.
func (p Plan) Empty() bool {
	return len(p.Removals) == 0 && len(p.Additions) == 0 && len(p.Moves) == 0
}

// BuildPlan diffs the current arrangement against a target position.
// Target entries whose player no longer exists are skipped entirely.
func BuildPlan(current map[string]Placement, target roster.Position, playerExists func(string) bool) Plan {
	var plan Plan

	targetByID := make(map[string]roster.PlayerPlacement, len(target.PlayerPositions))
	for _, pl := range target.PlayerPositions {
		if playerExists != nil && !playerExists(pl.PlayerID) {
			continue
		}
		targetByID[pl.PlayerID] = pl
	}

	for id, cur := range current {
		want, ok := targetByID[id]
		switch {
		case !ok:
			plan.Removals = append(plan.Removals, id)
		case cur.X == want.X && cur.Y == want.Y:
			// Identical coordinates need no operation.
			plan.Unchanged = append(plan.Unchanged, id)
		default:
			plan.Moves = append(plan.Moves, Move{
				PlayerID: id,
				FromX:    cur.X,
				FromY:    cur.Y,
				ToX:      want.X,
				ToY:      want.Y,
			})
		}
	}

	for id, want := range targetByID {
		if _, onCourt := current[id]; !onCourt {
			plan.Additions = append(plan.Additions, Placement{
				PlayerID: id,
				Jersey:   want.Jersey,
				Name:     want.Name,
				X:        want.X,
				Y:        want.Y,
			})
		}
	}
	return plan
}

// Transition is an awaitable, cancellable court animation. Cancelling stops
// the interpolation between frames; a cancelled transition never mutates the
// session again, so stale completions cannot clobber newer state.
type Transition struct {
	done   chan struct{}
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

func newTransition() *Transition {
	return &Transition{done: make(chan struct{})}
}

// Done is closed when the transition completes or is cancelled.
func (t *Transition) Done() <-chan struct{} {
	return t.done
}

// Err returns context.Canceled if the transition was cancelled, nil once it
// completed. Only meaningful after Done is closed.
func (t *Transition) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Cancel stops the transition. Safe to call on a finished transition.
func (t *Transition) Cancel() {
	if t.cancel != nil {
		t.cancel()
	}
}

func (t *Transition) complete(err error) {
	t.mu.Lock()
	t.err = err
	t.mu.Unlock()
	close(t.done)
}

// Animator executes timed court transitions. Only one may run at a time;
// starting a second one fails fast with ErrAnimationInProgress.
type Animator struct {
	session *Session
	store   roster.Store
	bus     events.Bus
	metrics metrics.Metrics

	duration     time.Duration
	settleDelay  time.Duration
	tickInterval time.Duration

	mu     sync.Mutex
	active *Transition
}

// AnimatorOption customizes transition timing.
type AnimatorOption func(*Animator)

// WithDuration overrides the transition duration.
func WithDuration(d time.Duration) AnimatorOption {
	return func(a *Animator) { a.duration = d }
}

// WithSettleDelay overrides the pre-move settle delay.
func WithSettleDelay(d time.Duration) AnimatorOption {
	return func(a *Animator) { a.settleDelay = d }
}

// WithTickInterval overrides the interpolation frame interval.
func WithTickInterval(d time.Duration) AnimatorOption {
	return func(a *Animator) { a.tickInterval = d }
}

// NewAnimator creates an Animator bound to a session.
func NewAnimator(session *Session, store roster.Store, bus events.Bus, metricsSvc metrics.Metrics, opts ...AnimatorOption) *Animator {
	if bus == nil {
		bus = events.NopBus{}
	}
	if metricsSvc == nil {
		metricsSvc = metrics.NewMock()
	}
	a := &Animator{
		session:      session,
		store:        store,
		bus:          bus,
		metrics:      metricsSvc,
		duration:     DefaultDuration,
		settleDelay:  DefaultSettleDelay,
		tickInterval: DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start begins a transition from the current arrangement to the target
// position. Removed players detach and added players appear immediately;
// moved players interpolate over the configured duration. If loaded is
// non-nil it becomes the session's loaded item on completion.
func (a *Animator) Start(target roster.Position, loaded *LoadedItem) (*Transition, error) {
	if !a.session.tryBeginAnimation() {
		a.metrics.IncAnimationsRejected()
		return nil, ErrAnimationInProgress
	}
	a.metrics.IncAnimationsStarted()
	started := time.Now()

	plan := BuildPlan(a.session.Snapshot(), target, a.playerExists)
	log.Debug("Built transition plan", "target", target.ID,
		"removals", len(plan.Removals), "additions", len(plan.Additions),
		"moves", len(plan.Moves), "unchanged", len(plan.Unchanged))

	for _, id := range plan.Removals {
		a.session.detach(id)
	}
	for _, p := range plan.Additions {
		a.session.attach(p)
	}
	if len(plan.Removals) > 0 || len(plan.Additions) > 0 {
		a.session.publishCourt()
	}

	t := newTransition()
	if len(plan.Moves) == 0 {
		// Nothing to interpolate: the transition completes synchronously.
		a.finish(t, loaded, time.Since(started))
		return t, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	a.mu.Lock()
	a.active = t
	a.mu.Unlock()

	a.bus.Publish(events.Event{Type: events.TypePlaybackChanged, Payload: "animating"})
	go a.run(ctx, t, plan.Moves, loaded, started)
	return t, nil
}

// CancelActive cancels the running transition, if any, and waits for it to
// stop before returning. Used when an instant load supersedes an animation.
func (a *Animator) CancelActive() {
	a.mu.Lock()
	t := a.active
	a.mu.Unlock()
	if t == nil {
		return
	}
	t.Cancel()
	<-t.Done()
}

func (a *Animator) run(ctx context.Context, t *Transition, moves []Move, loaded *LoadedItem, started time.Time) {
	select {
	case <-ctx.Done():
		a.abort(t)
		return
	case <-time.After(a.settleDelay):
	}

	ticker := time.NewTicker(a.tickInterval)
	defer ticker.Stop()
	moveStart := time.Now()

	for {
		select {
		case <-ctx.Done():
			a.abort(t)
			return
		case <-ticker.C:
			progress := float64(time.Since(moveStart)) / float64(a.duration)
			if progress >= 1 {
				for _, m := range moves {
					a.session.setCoords(m.PlayerID, m.ToX, m.ToY)
				}
				a.session.publishCourt()
				a.finish(t, loaded, time.Since(started))
				return
			}
			for _, m := range moves {
				a.session.setCoords(m.PlayerID, lerp(m.FromX, m.ToX, progress), lerp(m.FromY, m.ToY, progress))
			}
			a.session.publishCourt()
		}
	}
}

func (a *Animator) finish(t *Transition, loaded *LoadedItem, elapsed time.Duration) {
	a.mu.Lock()
	if a.active == t {
		a.active = nil
	}
	a.mu.Unlock()

	a.session.endAnimation()
	if loaded != nil {
		a.session.SetLoadedItem(loaded)
	}
	a.bus.Publish(events.Event{Type: events.TypePlaybackChanged, Payload: "idle"})
	a.metrics.ObserveAnimationDuration(elapsed.Seconds())
	log.Debug("Transition finished", "elapsed_ms", elapsed.Milliseconds())
	t.complete(nil)
}

// abort releases the animating flag without finalizing any state; whoever
// cancelled the transition owns the court now.
func (a *Animator) abort(t *Transition) {
	a.mu.Lock()
	if a.active == t {
		a.active = nil
	}
	a.mu.Unlock()

	a.session.endAnimation()
	log.Debug("Transition cancelled")
	t.complete(context.Canceled)
}

func (a *Animator) playerExists(id string) bool {
	if a.store == nil {
		return true
	}
	_, ok := a.store.GetPlayer(id)
	return ok
}

func lerp(from, to, progress float64) float64 {
	return from + (to-from)*progress
}
