package ecs

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// iface represents the internal memory layout of an interface{}.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

type singletonEntry struct {
	typ     reflect.Type
	dataPtr unsafe.Pointer
}

// Storage owns all entities, grouped into archetypes, plus singleton components.
type Storage struct {
	archetypes *intmap.Map[uint32, *Archetype]
	// order keeps archetypes in creation order so iteration is deterministic
	order      []*Archetype
	singletons map[reflect.Type]*singletonEntry
	registry   *ComponentRegistry
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: intmap.New[uint32, *Archetype](16),
		singletons: make(map[reflect.Type]*singletonEntry),
		registry:   registry,
	}
}

// Registry returns the component registry the storage was created with.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

func (s *Storage) archetype(id uint32) *Archetype {
	a, _ := s.archetypes.Get(id)
	return a
}

func (s *Storage) getOrCreateArchetype(types []reflect.Type) *Archetype {
	id := hashTypesToUint32(types)
	if a := s.archetype(id); a != nil {
		return a
	}

	a := NewArchetype(id, types, s.registry)
	s.archetypes.Put(id, a)
	s.order = append(s.order, a)
	return a
}

// GetArchetype returns an archetype storage (if one exists)
func (s *Storage) GetArchetype(components ...any) *Archetype {
	return s.archetype(hashTypesToUint32(extractComponentTypes(components)))
}

// Archetypes returns every archetype in creation order.
func (s *Storage) Archetypes() []*Archetype {
	return s.order
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	archetype := s.getOrCreateArchetype(extractComponentTypes(components))
	return NewEntityId(archetype.id, archetype.Spawn(components))
}

// Delete removes all data related to the entity ID
func (s *Storage) Delete(id EntityId) {
	if archetype := s.archetype(id.ArchetypeId()); archetype != nil {
		archetype.Delete(id.Index())
	}
}

// Clear deletes every entity but keeps singletons.
func (s *Storage) Clear() {
	for _, archetype := range s.order {
		for id := range archetype.Iter() {
			archetype.Delete(id.Index())
		}
	}
}

// GetComponent returns the component for the given entity ID and component type
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	archetype := s.archetype(id.ArchetypeId())
	if archetype == nil {
		return nil
	}
	return archetype.GetComponent(id.Index(), compType)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	archetype := s.archetype(id.ArchetypeId())
	return archetype != nil && archetype.HasComponent(compType)
}

// AddSingleton stores value as the singleton of its type, replacing any previous one.
// Passing a pointer stores the pointed-to value in place, so the caller keeps a live handle.
func (s *Storage) AddSingleton(value any) {
	v := reflect.ValueOf(value)
	if !v.IsValid() {
		panic("cannot add nil singleton")
	}

	var ptr reflect.Value
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			panic("cannot add nil singleton")
		}
		ptr = v
	} else {
		ptr = reflect.New(v.Type())
		ptr.Elem().Set(v)
	}

	typ := ptr.Type().Elem()
	s.singletons[typ] = &singletonEntry{
		typ:     typ,
		dataPtr: ptr.UnsafePointer(),
	}
}

func (s *Storage) getSingletonEntry(typ reflect.Type) *singletonEntry {
	return s.singletons[typ]
}

// ReadSingleton points target (a **T) at the stored singleton of type T.
// It returns false and leaves target untouched when no such singleton exists.
func (s *Storage) ReadSingleton(target any) bool {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Ptr {
		panic(fmt.Sprintf("ReadSingleton expects a pointer to a pointer, got %T", target))
	}

	typ := v.Elem().Type().Elem()
	entry := s.getSingletonEntry(typ)
	if entry == nil {
		return false
	}

	v.Elem().Set(reflect.NewAt(typ, entry.dataPtr))
	return true
}

// extractComponentTypes extracts and sorts component types from a slice of components
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		compType := reflect.TypeOf(comp)

		if compType.Kind() == reflect.Ptr {
			compType = compType.Elem()
		}

		// Components can be structs or primitives, not reference kinds
		if compType.Kind() == reflect.Ptr || compType.Kind() == reflect.Map ||
			compType.Kind() == reflect.Chan || compType.Kind() == reflect.Func {
			panic("components cannot be pointers, maps, channels, or functions")
		}

		types = append(types, compType)
	}
	return sortTypes(types)
}

// hashTypesToUint32 generates a uint32 FNV-1a hash for a sorted slice of types
func hashTypesToUint32(types []reflect.Type) uint32 {
	var h uint32 = 2166136261
	const prime uint32 = 16777619

	for _, t := range types {
		ptr := uintptr((*iface)(unsafe.Pointer(&t)).data)
		val := uint32(ptr)
		if unsafe.Sizeof(uintptr(0)) == 8 {
			val ^= uint32(uint64(ptr) >> 32)
		}

		h ^= val
		h *= prime
	}

	return h
}

// ComponentReader is anything that can look up a component by entity.
type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the entity's component of type T, or nil.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
