package ecs_test

import (
	"testing"

	"github.com/plus3/tetracube/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	stats := storage.CollectStats()
	assert.Zero(t, stats.ArchetypeCount)
	assert.Zero(t, stats.TotalEntityCount)

	for i := 0; i < 3; i++ {
		storage.Spawn(Position{}, Velocity{})
	}
	storage.Spawn(Name{Value: "solo"})
	gone := storage.Spawn(Health{})
	storage.Delete(gone)

	storage.AddSingleton(Counter{})

	stats = storage.CollectStats()
	assert.Equal(t, 2, stats.ArchetypeCount, "empty archetypes are skipped")
	assert.Equal(t, 4, stats.TotalEntityCount)
	assert.Equal(t, 1, stats.SingletonCount)
	assert.Equal(t, []string{"ecs_test.Counter"}, stats.SingletonTypes)

	require.Len(t, stats.ArchetypeBreakdown, 2)
	assert.Equal(t, []string{"ecs_test.Position", "ecs_test.Velocity"}, stats.ArchetypeBreakdown[0].ComponentTypes)
	assert.Equal(t, 3, stats.ArchetypeBreakdown[0].EntityCount)
	assert.Equal(t, 1, stats.ArchetypeBreakdown[1].EntityCount)
}
