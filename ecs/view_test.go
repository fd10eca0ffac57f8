package ecs_test

import (
	"testing"

	"github.com/plus3/tetracube/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	moving := storage.Spawn(Position{X: 1}, Velocity{DX: 1})
	named := storage.Spawn(Position{X: 2}, Velocity{DX: 2}, Name{Value: "bob"})
	still := storage.Spawn(Position{X: 3})

	t.Run("required fields filter archetypes", func(t *testing.T) {
		view := ecs.NewView[struct {
			*Position
			*Velocity
		}](storage)

		var ids []ecs.EntityId
		for id, item := range view.Iter() {
			ids = append(ids, id)
			item.Position.X += item.Velocity.DX
		}

		assert.ElementsMatch(t, []ecs.EntityId{moving, named}, ids)
		assert.Equal(t, 2.0, ecs.ReadComponent[Position](storage, moving).X)
		assert.Equal(t, 4.0, ecs.ReadComponent[Position](storage, named).X)
		assert.Equal(t, 3.0, ecs.ReadComponent[Position](storage, still).X)
	})

	t.Run("optional fields", func(t *testing.T) {
		view := ecs.NewView[struct {
			*Position
			Name *Name `ecs:"optional"`
		}](storage)

		names := map[ecs.EntityId]string{}
		for id, item := range view.Iter() {
			if item.Name != nil {
				names[id] = item.Name.Value
			} else {
				names[id] = ""
			}
		}

		assert.Len(t, names, 3)
		assert.Equal(t, "bob", names[named])
		assert.Equal(t, "", names[still])
	})

	t.Run("entity id field", func(t *testing.T) {
		view := ecs.NewView[struct {
			ID ecs.EntityId
			*Name
		}](storage)

		var seen []ecs.EntityId
		for item := range view.Values() {
			seen = append(seen, item.ID)
		}
		assert.Equal(t, []ecs.EntityId{named}, seen)
	})

	t.Run("get and fill", func(t *testing.T) {
		view := ecs.NewView[struct {
			*Position
			*Velocity
		}](storage)

		item := view.Get(named)
		require.NotNil(t, item)
		assert.Equal(t, 2.0, item.Velocity.DX)

		assert.Nil(t, view.Get(still))
	})

	t.Run("invalid shapes panic", func(t *testing.T) {
		assert.Panics(t, func() { ecs.NewView[int](storage) })
		assert.Panics(t, func() { ecs.NewView[struct{ Position }](storage) })
		assert.Panics(t, func() {
			ecs.NewView[struct {
				P *Position `ecs:"sometimes"`
			}](storage)
		})
	})
}

func TestViewEarlyBreak(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := 0; i < 10; i++ {
		storage.Spawn(Position{X: float64(i)})
	}

	view := ecs.NewView[struct{ *Position }](storage)
	count := 0
	for range view.Iter() {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(t, 3, count)
}
