package metrics_test

import (
	"testing"

	"github.com/courtware/courtboard/internal/database"
	"github.com/courtware/courtboard/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageStore_IncrementAndGetAll(t *testing.T) {
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()

	store := metrics.New(db)

	store.Increment("load:pos1")
	store.Increment("load:pos1")
	store.Increment("load:pos2")

	counters, err := store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, 2, counters["load:pos1"])
	assert.Equal(t, 1, counters["load:pos2"])
}
