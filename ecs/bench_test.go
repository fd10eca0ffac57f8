package ecs_test

import (
	"testing"

	"github.com/plus3/tetracube/ecs"
)

func BenchmarkViewIter(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := 0; i < 10000; i++ {
		storage.Spawn(Position{X: float64(i)}, Velocity{DX: 1})
	}
	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, item := range view.Iter() {
			item.Position.X += item.Velocity.DX
		}
	}
}

func BenchmarkSpawnDelete(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := storage.Spawn(Position{}, Health{})
		storage.Delete(id)
	}
}
