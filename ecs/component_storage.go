package ecs

import (
	"iter"
	"reflect"
)

// componentStorage is a type-erased column of components belonging to one archetype.
type componentStorage interface {
	Append(item any) int
	Delete(index int)
	Get(index int) any
	Len() int
	Iter() iter.Seq[int]
}

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage instance has its own ComponentRegistry, allowing multiple
// independent ECS systems to coexist without interference.
type ComponentRegistry struct {
	factories map[reflect.Type]func() componentStorage
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() componentStorage),
	}
}

// RegisterComponent registers a new component type with the given registry.
// This must be called for each component type before it can be spawned.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	r.factories[t] = func() componentStorage {
		return &blockStorage[T]{}
	}
}

// Registered reports whether T has been registered.
func Registered[T any](r *ComponentRegistry) bool {
	_, ok := r.factories[reflect.TypeFor[T]()]
	return ok
}

func (r *ComponentRegistry) getFactory(t reflect.Type) func() componentStorage {
	return r.factories[t]
}

const blockSize = 64

type block[T any] struct {
	items  [blockSize]T
	filled [blockSize]bool
}

// blockStorage keeps components in fixed size blocks that are allocated
// individually, so a pointer handed out by Get stays valid while the slot is
// occupied even when the storage grows.
type blockStorage[T any] struct {
	blocks    []*block[T]
	freeSlots []int
	nextIndex int
	count     int
}

func (bs *blockStorage[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case *T:
		value = *v
	case T:
		value = v
	default:
		return -1
	}

	var index int
	if n := len(bs.freeSlots); n > 0 {
		index = bs.freeSlots[n-1]
		bs.freeSlots = bs.freeSlots[:n-1]
	} else {
		index = bs.nextIndex
		bs.nextIndex++
		if index/blockSize >= len(bs.blocks) {
			bs.blocks = append(bs.blocks, &block[T]{})
		}
	}

	b := bs.blocks[index/blockSize]
	b.items[index%blockSize] = value
	b.filled[index%blockSize] = true
	bs.count++
	return index
}

func (bs *blockStorage[T]) slot(index int) (*block[T], int, bool) {
	if index < 0 || index >= bs.nextIndex {
		return nil, 0, false
	}
	b := bs.blocks[index/blockSize]
	return b, index % blockSize, true
}

func (bs *blockStorage[T]) Get(index int) any {
	b, i, ok := bs.slot(index)
	if !ok || !b.filled[i] {
		return nil
	}
	return &b.items[i]
}

func (bs *blockStorage[T]) Delete(index int) {
	b, i, ok := bs.slot(index)
	if !ok || !b.filled[i] {
		return
	}

	var zero T
	b.items[i] = zero
	b.filled[i] = false
	bs.freeSlots = append(bs.freeSlots, index)
	bs.count--
}

func (bs *blockStorage[T]) Len() int {
	return bs.count
}

func (bs *blockStorage[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < bs.nextIndex; i++ {
			if !bs.blocks[i/blockSize].filled[i%blockSize] {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}
