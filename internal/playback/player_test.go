package playback_test

import (
	"context"
	"testing"
	"time"

	"github.com/courtware/courtboard/internal/court"
	"github.com/courtware/courtboard/internal/events"
	"github.com/courtware/courtboard/internal/metrics"
	"github.com/courtware/courtboard/internal/playback"
	"github.com/courtware/courtboard/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    roster.Store
	session  *court.Session
	animator *court.Animator
	bus      *events.MockBus
	metrics  *metrics.Mock
	player   *playback.Player
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:   roster.New(),
		bus:     events.NewMock(),
		metrics: metrics.NewMock(),
	}
	f.session = court.NewSession(f.bus)
	f.animator = court.NewAnimator(f.session, f.store, f.bus, f.metrics,
		court.WithDuration(40*time.Millisecond),
		court.WithSettleDelay(time.Millisecond),
		court.WithTickInterval(5*time.Millisecond),
	)
	loader := court.NewLoader(f.store, nil, f.session, f.animator, f.bus, f.metrics, nil)
	f.player = playback.NewPlayer(f.store, loader, f.animator, f.session, f.bus, f.metrics,
		playback.WithSettleDelay(time.Millisecond))
	return f
}

func (f *fixture) seedPlayer(t *testing.T, id, jersey, name string) {
	t.Helper()
	_, err := f.store.UpsertPlayer(roster.Player{ID: id, Jersey: jersey, Name: name})
	require.NoError(t, err)
}

func (f *fixture) seedPosition(t *testing.T, name string, placements ...roster.PlayerPlacement) roster.Position {
	t.Helper()
	pos, err := f.store.UpsertPosition(roster.Position{Name: name, PlayerPositions: placements})
	require.NoError(t, err)
	return pos
}

func waitDone(t *testing.T, tr *court.Transition) {
	t.Helper()
	if tr == nil {
		return
	}
	select {
	case <-tr.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("transition did not complete in time")
	}
}

func coords(s *court.Session, playerID string) (float64, float64, bool) {
	for _, p := range s.Placements() {
		if p.PlayerID == playerID {
			return p.X, p.Y, true
		}
	}
	return 0, 0, false
}

func TestPlayScenario_EndsAtEndPosition(t *testing.T) {
	f := newFixture(t)
	f.seedPlayer(t, "1", "4", "Ann")
	a := f.seedPosition(t, "A", roster.PlayerPlacement{PlayerID: "1", Jersey: "4", Name: "Ann", X: 100, Y: 100})
	b := f.seedPosition(t, "B", roster.PlayerPlacement{PlayerID: "1", Jersey: "4", Name: "Ann", X: 300, Y: 300})
	sc, err := f.store.UpsertScenario(roster.Scenario{Name: "Rotate", StartPositionID: a.ID, EndPositionID: b.ID})
	require.NoError(t, err)

	tr, err := f.player.PlayScenario(context.Background(), sc.ID)
	require.NoError(t, err)
	waitDone(t, tr)

	x, y, ok := coords(f.session, "1")
	require.True(t, ok)
	assert.Equal(t, 300.0, x)
	assert.Equal(t, 300.0, y)

	loaded := f.session.LoadedItem()
	require.NotNil(t, loaded)
	assert.Equal(t, court.ItemScenario, loaded.Type)
	assert.Equal(t, sc.ID, loaded.ID)
}

func TestPlayScenario_UnknownIDIsNoOp(t *testing.T) {
	f := newFixture(t)
	tr, err := f.player.PlayScenario(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, tr)
	assert.True(t, f.session.Empty())
}

func TestPlayScenario_MissingEndPositionIsNoOp(t *testing.T) {
	f := newFixture(t)
	f.seedPlayer(t, "1", "4", "Ann")
	a := f.seedPosition(t, "A", roster.PlayerPlacement{PlayerID: "1", X: 100, Y: 100})
	b := f.seedPosition(t, "B", roster.PlayerPlacement{PlayerID: "1", X: 300, Y: 300})
	sc, err := f.store.UpsertScenario(roster.Scenario{Name: "Rotate", StartPositionID: a.ID, EndPositionID: b.ID})
	require.NoError(t, err)

	_, err = f.store.Remove(roster.KindPosition, b.ID)
	require.NoError(t, err)

	// The cascade removed the scenario too; playing it does nothing.
	tr, err := f.player.PlayScenario(context.Background(), sc.ID)
	assert.NoError(t, err)
	assert.Nil(t, tr)
	assert.True(t, f.session.Empty(), "court untouched when the scenario cannot play")
}

func TestPlayScenario_RejectedWhileAnimating(t *testing.T) {
	f := newFixture(t)
	f.seedPlayer(t, "1", "4", "Ann")
	a := f.seedPosition(t, "A", roster.PlayerPlacement{PlayerID: "1", X: 100, Y: 100})
	b := f.seedPosition(t, "B", roster.PlayerPlacement{PlayerID: "1", X: 300, Y: 300})
	sc, err := f.store.UpsertScenario(roster.Scenario{Name: "Rotate", StartPositionID: a.ID, EndPositionID: b.ID})
	require.NoError(t, err)

	f.session.Place(court.Placement{PlayerID: "1", X: 0, Y: 4})
	slow, err := f.animator.Start(roster.Position{
		ID:              "hold",
		PlayerPositions: []roster.PlayerPlacement{{PlayerID: "1", X: 500, Y: 500}},
	}, nil)
	require.NoError(t, err)

	_, err = f.player.PlayScenario(context.Background(), sc.ID)
	assert.ErrorIs(t, err, court.ErrAnimationInProgress)
	assert.Equal(t, 1, f.metrics.AnimationsRejected())

	slow.Cancel()
	waitDone(t, slow)
}

func TestSequence_CursorBounds(t *testing.T) {
	f := newFixture(t)
	f.seedPlayer(t, "1", "4", "Ann")
	p1 := f.seedPosition(t, "one", roster.PlayerPlacement{PlayerID: "1", X: 100, Y: 100})
	p2 := f.seedPosition(t, "two", roster.PlayerPlacement{PlayerID: "1", X: 200, Y: 200})
	seq, err := f.store.UpsertSequence(roster.Sequence{Name: "Drill", Items: []roster.SequenceItem{
		{Type: roster.StepPosition, ID: p1.ID},
		{Type: roster.StepPosition, ID: p2.ID},
	}})
	require.NoError(t, err)

	tr, err := f.player.StartSequence(context.Background(), seq.ID)
	require.NoError(t, err)
	waitDone(t, tr)
	require.NotNil(t, f.player.Cursor())
	assert.Equal(t, 0, f.player.Cursor().Step)

	// Previous at step 0 stays put and does not animate.
	tr, err = f.player.PlayPrevious(context.Background())
	require.NoError(t, err)
	assert.Nil(t, tr)
	assert.Equal(t, 0, f.player.Cursor().Step)

	tr, err = f.player.PlayNext(context.Background())
	require.NoError(t, err)
	waitDone(t, tr)
	assert.Equal(t, 1, f.player.Cursor().Step)
	x, _, ok := coords(f.session, "1")
	require.True(t, ok)
	assert.Equal(t, 200.0, x)

	// Next at the last step is a no-op.
	tr, err = f.player.PlayNext(context.Background())
	require.NoError(t, err)
	assert.Nil(t, tr)
	assert.Equal(t, 1, f.player.Cursor().Step)
}

func TestSequence_ScenarioStepResolvesToEndPosition(t *testing.T) {
	f := newFixture(t)
	f.seedPlayer(t, "1", "4", "Ann")
	a := f.seedPosition(t, "A", roster.PlayerPlacement{PlayerID: "1", X: 100, Y: 100})
	b := f.seedPosition(t, "B", roster.PlayerPlacement{PlayerID: "1", X: 300, Y: 300})
	sc, err := f.store.UpsertScenario(roster.Scenario{Name: "Rotate", StartPositionID: a.ID, EndPositionID: b.ID})
	require.NoError(t, err)
	seq, err := f.store.UpsertSequence(roster.Sequence{Name: "Drill", Items: []roster.SequenceItem{
		{Type: roster.StepScenario, ID: sc.ID},
	}})
	require.NoError(t, err)

	tr, err := f.player.StartSequence(context.Background(), seq.ID)
	require.NoError(t, err)
	waitDone(t, tr)

	x, y, ok := coords(f.session, "1")
	require.True(t, ok)
	assert.Equal(t, 300.0, x)
	assert.Equal(t, 300.0, y)

	loaded := f.session.LoadedItem()
	require.NotNil(t, loaded)
	assert.Equal(t, court.ItemSequence, loaded.Type)
	assert.Equal(t, seq.ID, loaded.ID)
}

func TestSequence_StartResetsCursor(t *testing.T) {
	f := newFixture(t)
	f.seedPlayer(t, "1", "4", "Ann")
	p1 := f.seedPosition(t, "one", roster.PlayerPlacement{PlayerID: "1", X: 100, Y: 100})
	p2 := f.seedPosition(t, "two", roster.PlayerPlacement{PlayerID: "1", X: 200, Y: 200})
	seq, err := f.store.UpsertSequence(roster.Sequence{Name: "Drill", Items: []roster.SequenceItem{
		{Type: roster.StepPosition, ID: p1.ID},
		{Type: roster.StepPosition, ID: p2.ID},
	}})
	require.NoError(t, err)

	tr, err := f.player.StartSequence(context.Background(), seq.ID)
	require.NoError(t, err)
	waitDone(t, tr)
	tr, err = f.player.PlayNext(context.Background())
	require.NoError(t, err)
	waitDone(t, tr)
	require.Equal(t, 1, f.player.Cursor().Step)

	tr, err = f.player.StartSequence(context.Background(), seq.ID)
	require.NoError(t, err)
	waitDone(t, tr)
	assert.Equal(t, 0, f.player.Cursor().Step)
	x, _, ok := coords(f.session, "1")
	require.True(t, ok)
	assert.Equal(t, 100.0, x)
}

func TestStartSequence_UnknownOrEmptyIsNoOp(t *testing.T) {
	f := newFixture(t)
	tr, err := f.player.StartSequence(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, tr)
	assert.Nil(t, f.player.Cursor())

	tr, err = f.player.PlayNext(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, tr, "cursor moves before any sequence starts are ignored")
}
