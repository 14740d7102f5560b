package court_test

import (
	"context"
	"testing"
	"time"

	"github.com/courtware/courtboard/internal/court"
	"github.com/courtware/courtboard/internal/events"
	"github.com/courtware/courtboard/internal/metrics"
	"github.com/courtware/courtboard/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastAnimator returns an animator with timings short enough for tests.
func fastAnimator(t *testing.T, session *court.Session, store roster.Store, bus events.Bus, metr metrics.Metrics) *court.Animator {
	t.Helper()
	return court.NewAnimator(session, store, bus, metr,
		court.WithDuration(40*time.Millisecond),
		court.WithSettleDelay(time.Millisecond),
		court.WithTickInterval(5*time.Millisecond),
	)
}

func waitDone(t *testing.T, tr *court.Transition) {
	t.Helper()
	select {
	case <-tr.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("transition did not complete in time")
	}
}

func placementsByID(s *court.Session) map[string]court.Placement {
	out := make(map[string]court.Placement)
	for _, p := range s.Placements() {
		out[p.PlayerID] = p
	}
	return out
}

func TestBuildPlan_PartitionInvariant(t *testing.T) {
	current := map[string]court.Placement{
		"stay":  {PlayerID: "stay", X: 100, Y: 100},
		"move":  {PlayerID: "move", X: 100, Y: 200},
		"leave": {PlayerID: "leave", X: 300, Y: 300},
	}
	target := roster.Position{
		ID: "target",
		PlayerPositions: []roster.PlayerPlacement{
			{PlayerID: "stay", X: 100, Y: 100},
			{PlayerID: "move", X: 400, Y: 400},
			{PlayerID: "join", X: 50, Y: 50},
		},
	}

	plan := court.BuildPlan(current, target, nil)

	// |Remove| + |Move| + |Unchanged| = |current|
	assert.Equal(t, len(current), len(plan.Removals)+len(plan.Moves)+len(plan.Unchanged))
	// |Add| + |Move| + |Unchanged| = |target|
	assert.Equal(t, len(target.PlayerPositions), len(plan.Additions)+len(plan.Moves)+len(plan.Unchanged))

	// Every player appears in exactly one set.
	seen := map[string]int{}
	for _, id := range plan.Removals {
		seen[id]++
	}
	for _, p := range plan.Additions {
		seen[p.PlayerID]++
	}
	for _, m := range plan.Moves {
		seen[m.PlayerID]++
	}
	for _, id := range plan.Unchanged {
		seen[id]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "player %s should appear in exactly one set", id)
	}

	assert.Equal(t, []string{"leave"}, plan.Removals)
	require.Len(t, plan.Additions, 1)
	assert.Equal(t, "join", plan.Additions[0].PlayerID)
	require.Len(t, plan.Moves, 1)
	assert.Equal(t, "move", plan.Moves[0].PlayerID)
	assert.Equal(t, []string{"stay"}, plan.Unchanged)
}

func TestBuildPlan_SkipsDeletedPlayers(t *testing.T) {
	target := roster.Position{
		PlayerPositions: []roster.PlayerPlacement{
			{PlayerID: "ghost", X: 10, Y: 10},
			{PlayerID: "real", X: 20, Y: 20},
		},
	}
	plan := court.BuildPlan(map[string]court.Placement{}, target, func(id string) bool {
		return id == "real"
	})
	require.Len(t, plan.Additions, 1)
	assert.Equal(t, "real", plan.Additions[0].PlayerID)
}

func TestAnimator_MovesPlayersToTarget(t *testing.T) {
	store := roster.New()
	_, err := store.UpsertPlayer(roster.Player{ID: "p1", Jersey: "4", Name: "Ann"})
	require.NoError(t, err)

	bus := events.NewMock()
	metr := metrics.NewMock()
	session := court.NewSession(bus)
	session.Place(court.Placement{PlayerID: "p1", Jersey: "4", Name: "Ann", X: 100, Y: 100})

	animator := fastAnimator(t, session, store, bus, metr)

	target := roster.Position{
		ID:   "B",
		Name: "Attack",
		PlayerPositions: []roster.PlayerPlacement{
			{PlayerID: "p1", Jersey: "4", Name: "Ann", X: 300, Y: 300},
		},
	}
	tr, err := animator.Start(target, &court.LoadedItem{Type: court.ItemPosition, ID: "B", Name: "Attack"})
	require.NoError(t, err)
	assert.True(t, session.IsAnimating())

	waitDone(t, tr)
	require.NoError(t, tr.Err())

	got := placementsByID(session)
	require.Contains(t, got, "p1")
	assert.Equal(t, 300.0, got["p1"].X)
	assert.Equal(t, 300.0, got["p1"].Y)
	assert.False(t, session.IsAnimating(), "animating flag should clear on completion")

	loaded := session.LoadedItem()
	require.NotNil(t, loaded)
	assert.Equal(t, "B", loaded.ID)
	assert.False(t, session.IsDirty(), "dirty flag should clear when the loaded item updates")

	assert.Equal(t, 1, metr.AnimationsStarted())
	assert.NotEmpty(t, bus.OfType(events.TypeCourtUpdated), "interpolation should broadcast court updates")
}

func TestAnimator_AddsAndRemovesImmediately(t *testing.T) {
	store := roster.New()
	for _, p := range []roster.Player{{ID: "p1", Jersey: "1", Name: "A"}, {ID: "p2", Jersey: "2", Name: "B"}} {
		_, err := store.UpsertPlayer(p)
		require.NoError(t, err)
	}

	session := court.NewSession(nil)
	session.Place(court.Placement{PlayerID: "p1", X: 100, Y: 100})

	animator := fastAnimator(t, session, store, events.NewMock(), metrics.NewMock())

	// p1 leaves, p2 joins; no moves, so completion is synchronous.
	target := roster.Position{
		ID:              "swap",
		PlayerPositions: []roster.PlayerPlacement{{PlayerID: "p2", Jersey: "2", Name: "B", X: 200, Y: 200}},
	}
	tr, err := animator.Start(target, nil)
	require.NoError(t, err)

	select {
	case <-tr.Done():
	default:
		t.Fatal("a no-move transition should complete synchronously")
	}

	got := placementsByID(session)
	assert.NotContains(t, got, "p1")
	require.Contains(t, got, "p2")
	assert.Equal(t, 200.0, got["p2"].X)
	assert.False(t, session.IsAnimating())
}

func TestAnimator_ZeroOperationsCompletesSynchronously(t *testing.T) {
	store := roster.New()
	_, err := store.UpsertPlayer(roster.Player{ID: "p1", Jersey: "1", Name: "A"})
	require.NoError(t, err)

	session := court.NewSession(nil)
	session.Place(court.Placement{PlayerID: "p1", X: 100, Y: 100})

	animator := fastAnimator(t, session, store, events.NewMock(), metrics.NewMock())

	target := roster.Position{
		ID:              "same",
		PlayerPositions: []roster.PlayerPlacement{{PlayerID: "p1", X: 100, Y: 100}},
	}
	tr, err := animator.Start(target, nil)
	require.NoError(t, err)

	select {
	case <-tr.Done():
	default:
		t.Fatal("an empty plan should complete synchronously")
	}
	assert.NoError(t, tr.Err())
	assert.False(t, session.IsAnimating())
}

func TestAnimator_RejectsConcurrentStart(t *testing.T) {
	store := roster.New()
	_, err := store.UpsertPlayer(roster.Player{ID: "p1", Jersey: "1", Name: "A"})
	require.NoError(t, err)

	metr := metrics.NewMock()
	session := court.NewSession(nil)
	session.Place(court.Placement{PlayerID: "p1", X: 0, Y: 4})

	animator := court.NewAnimator(session, store, events.NewMock(), metr,
		court.WithDuration(500*time.Millisecond),
		court.WithSettleDelay(time.Millisecond),
		court.WithTickInterval(5*time.Millisecond),
	)

	target := roster.Position{
		ID:              "far",
		PlayerPositions: []roster.PlayerPlacement{{PlayerID: "p1", X: 500, Y: 500}},
	}
	tr, err := animator.Start(target, nil)
	require.NoError(t, err)

	_, err = animator.Start(target, nil)
	assert.ErrorIs(t, err, court.ErrAnimationInProgress, "a second start must fail fast, not queue")
	assert.Equal(t, 1, metr.AnimationsRejected())

	tr.Cancel()
	waitDone(t, tr)
}

func TestAnimator_CancelStopsMutation(t *testing.T) {
	store := roster.New()
	_, err := store.UpsertPlayer(roster.Player{ID: "p1", Jersey: "1", Name: "A"})
	require.NoError(t, err)

	session := court.NewSession(nil)
	session.Place(court.Placement{PlayerID: "p1", X: 0, Y: 4})

	animator := court.NewAnimator(session, store, events.NewMock(), metrics.NewMock(),
		court.WithDuration(time.Second),
		court.WithSettleDelay(time.Millisecond),
		court.WithTickInterval(5*time.Millisecond),
	)

	target := roster.Position{
		ID:              "far",
		PlayerPositions: []roster.PlayerPlacement{{PlayerID: "p1", X: 500, Y: 500}},
	}
	tr, err := animator.Start(target, &court.LoadedItem{Type: court.ItemPosition, ID: "far"})
	require.NoError(t, err)

	animator.CancelActive()
	require.ErrorIs(t, tr.Err(), context.Canceled)
	assert.False(t, session.IsAnimating(), "cancel must release the animating flag")
	assert.Nil(t, session.LoadedItem(), "a cancelled transition must not finalize the loaded item")

	before := placementsByID(session)["p1"]
	time.Sleep(30 * time.Millisecond)
	after := placementsByID(session)["p1"]
	assert.Equal(t, before, after, "no frames may land after cancellation")
}
