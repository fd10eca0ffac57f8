package ecs

import (
	"reflect"
	"unsafe"
)

// Singleton gives systems direct access to a component that is not attached
// to any entity: game state, configuration, input buffers.
type Singleton[T any] struct {
	storage      *Storage
	componentPtr unsafe.Pointer
}

// NewSingleton returns an accessor for T, creating the singleton from the
// optional initializer (or the zero value) if the storage does not hold one yet.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	typ := reflect.TypeFor[T]()

	entry := storage.getSingletonEntry(typ)
	if entry == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(&value)
		entry = storage.getSingletonEntry(typ)
	}

	return &Singleton[T]{
		storage:      storage,
		componentPtr: entry.dataPtr,
	}
}

// Init binds the accessor to a storage. The Scheduler calls it for Singleton
// fields of registered systems.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.componentPtr = nil
	s.refresh()
}

// Get returns the singleton, or nil if it has not been added to the storage.
func (s *Singleton[T]) Get() *T {
	if s.componentPtr == nil {
		s.refresh()
	}
	return (*T)(s.componentPtr)
}

// Exists reports whether the singleton has been added to the storage.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

func (s *Singleton[T]) refresh() {
	if s.storage == nil {
		return
	}
	if entry := s.storage.getSingletonEntry(reflect.TypeFor[T]()); entry != nil {
		s.componentPtr = entry.dataPtr
	}
}
