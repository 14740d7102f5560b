package persistence_test

import (
	"context"
	"testing"

	"github.com/courtware/courtboard/internal/database"
	"github.com/courtware/courtboard/internal/persistence"
	"github.com/courtware/courtboard/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (persistence.Adapter, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	adapter := persistence.NewLocal(db)
	return adapter, dbTeardown
}

func TestLocal_SaveAndGetPlayers(t *testing.T) {
	adapter, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	_, err := adapter.SavePlayer(ctx, roster.Player{ID: "p1", Jersey: "4", Name: "Ann"})
	require.NoError(t, err)
	_, err = adapter.SavePlayer(ctx, roster.Player{ID: "p2", Jersey: "7", Name: "Beth"})
	require.NoError(t, err)

	players, err := adapter.GetPlayers(ctx)
	require.NoError(t, err)
	assert.Len(t, players, 2)

	t.Run("save is an upsert by id", func(t *testing.T) {
		_, err := adapter.SavePlayer(ctx, roster.Player{ID: "p1", Jersey: "5", Name: "Ann"})
		require.NoError(t, err)

		players, err := adapter.GetPlayers(ctx)
		require.NoError(t, err)
		require.Len(t, players, 2)
		byID := map[string]roster.Player{}
		for _, p := range players {
			byID[p.ID] = p
		}
		assert.Equal(t, "5", byID["p1"].Jersey)
	})
}

func TestLocal_PositionRoundtrip(t *testing.T) {
	adapter, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	pos := roster.Position{
		ID:   "pos1",
		Name: "Serve Receive",
		Tags: []string{"receive", "5-1"},
		PlayerPositions: []roster.PlayerPlacement{
			{PlayerID: "p1", Jersey: "4", Name: "Ann", X: 100, Y: 100},
			{PlayerID: "p2", Jersey: "7", Name: "Beth", X: 300, Y: 250},
		},
	}
	_, err := adapter.SavePosition(ctx, pos)
	require.NoError(t, err)

	positions, err := adapter.GetPositions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, pos, positions[0])
}

func TestLocal_Delete(t *testing.T) {
	adapter, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	_, err := adapter.SaveScenario(ctx, roster.Scenario{ID: "sc1", Name: "Rotate", StartPositionID: "A", EndPositionID: "B"})
	require.NoError(t, err)

	require.NoError(t, adapter.Delete(ctx, roster.KindScenario, "sc1"))

	scenarios, err := adapter.GetScenarios(ctx)
	require.NoError(t, err)
	assert.Empty(t, scenarios)

	t.Run("deleting an unknown id fails", func(t *testing.T) {
		err := adapter.Delete(ctx, roster.KindScenario, "sc1")
		assert.ErrorIs(t, err, persistence.ErrNotFound)
	})
}

func TestLocal_GetSequences_NormalizesLegacyShape(t *testing.T) {
	adapter, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	// A sequence written by an old client still carrying scenarioIds.
	_, err := adapter.SaveSequence(ctx, roster.Sequence{ID: "sq1", Name: "Old", ScenarioIDs: []string{"sc1", "sc2"}})
	require.NoError(t, err)

	sequences, err := adapter.GetSequences(ctx)
	require.NoError(t, err)
	require.Len(t, sequences, 1)
	require.Len(t, sequences[0].Items, 2)
	assert.Equal(t, roster.StepScenario, sequences[0].Items[0].Type)
	assert.Nil(t, sequences[0].ScenarioIDs)
}

func TestLocal_LegacyPositions(t *testing.T) {
	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	defer dbTeardown()

	_, err = db.Exec(`INSERT INTO legacy_positions (name, placements_json) VALUES
		('Base', '[{"playerId":"p1","jersey":"4","name":"Ann","x":100,"y":100}]')`)
	require.NoError(t, err)

	adapter := persistence.NewLocal(db)
	legacy, err := adapter.LegacyPositions(context.Background())
	require.NoError(t, err)
	require.Contains(t, legacy, "Base")
	require.Len(t, legacy["Base"], 1)
	assert.Equal(t, "p1", legacy["Base"][0].PlayerID)
	assert.Equal(t, 100.0, legacy["Base"][0].X)
}
