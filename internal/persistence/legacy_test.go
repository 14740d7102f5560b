package persistence_test

import (
	"strings"
	"testing"

	"github.com/courtware/courtboard/internal/persistence"
	"github.com/courtware/courtboard/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLegacy_JSON(t *testing.T) {
	export := `{
		"players": [{"id":"p1","jersey":"4","name":"Ann"}],
		"positions": {"Base": [{"playerId":"p1","jersey":"4","name":"Ann","x":700,"y":-5}]},
		"scenarios": [{"id":"sc1","name":"Rotate","startPositionId":"A","endPositionId":"B"}],
		"sequences": [{"id":"sq1","name":"Drill","scenarioIds":["sc1"]}]
	}`

	imp, err := persistence.ParseLegacy(strings.NewReader(export))
	require.NoError(t, err)

	require.Len(t, imp.Players, 1)
	assert.Equal(t, "Ann", imp.Players[0].Name)

	require.Len(t, imp.Positions, 1)
	assert.Equal(t, "Base", imp.Positions[0].Name)
	assert.NotEmpty(t, imp.Positions[0].ID, "flat-map positions get minted ids")
	require.Len(t, imp.Positions[0].PlayerPositions, 1)
	assert.Equal(t, roster.MaxX, imp.Positions[0].PlayerPositions[0].X, "out-of-range coordinates are clamped")
	assert.Equal(t, roster.MinY, imp.Positions[0].PlayerPositions[0].Y)

	require.Len(t, imp.Sequences, 1)
	require.Len(t, imp.Sequences[0].Items, 1)
	assert.Equal(t, roster.StepScenario, imp.Sequences[0].Items[0].Type)
	assert.Equal(t, "sc1", imp.Sequences[0].Items[0].ID)
}

func TestParseLegacy_XML(t *testing.T) {
	export := `
	<courtboard>
		<player id="p1" jersey="4" name="Ann"/>
		<position name="Base">
			<player id="p1" jersey="4" name="Ann" x="100" y="100"/>
		</position>
		<scenario id="sc1" name="Rotate" start="A" end="B"/>
		<sequence id="sq1" name="Drill">
			<step scenario="sc1"/>
		</sequence>
	</courtboard>`

	imp, err := persistence.ParseLegacy(strings.NewReader(export))
	require.NoError(t, err)

	require.Len(t, imp.Players, 1)
	require.Len(t, imp.Positions, 1)
	require.Len(t, imp.Positions[0].PlayerPositions, 1)
	assert.Equal(t, 100.0, imp.Positions[0].PlayerPositions[0].X)

	require.Len(t, imp.Scenarios, 1)
	assert.Equal(t, "A", imp.Scenarios[0].StartPositionID)
	assert.Equal(t, "B", imp.Scenarios[0].EndPositionID)

	require.Len(t, imp.Sequences, 1)
	require.Len(t, imp.Sequences[0].Items, 1)
	assert.Equal(t, "sc1", imp.Sequences[0].Items[0].ID)
}

func TestParseLegacy_Garbage(t *testing.T) {
	_, err := persistence.ParseLegacy(strings.NewReader("not an export"))
	assert.Error(t, err)
}
