package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

var entityIdType = reflect.TypeFor[EntityId]()

// View matches entities against a struct of component pointers.
//
// Every field of T must be a pointer to a registered component type, except
// for an optional EntityId field, which receives the matched entity's ID.
// Embedded pointer fields are required. Named pointer fields may carry the
// `ecs:"optional"` tag, in which case they are nil when the entity lacks them.
type View[T any] struct {
	storage     *Storage
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
	idOffset    uintptr
	hasId       bool
}

// NewView creates a new view for the given struct type
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{storage: storage}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == entityIdType {
			v.idOffset = field.Offset
			v.hasId = true
			continue
		}

		if field.Type.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types or EntityId")
		}

		isOptional := false
		if !field.Anonymous {
			switch tag := field.Tag.Get("ecs"); tag {
			case "":
			case "optional":
				isOptional = true
			default:
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
			}
		}

		v.types = append(v.types, field.Type.Elem())
		v.optional = append(v.optional, isOptional)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
	}

	return v
}

// Fill populates ptr with the entity's components.
// Returns false if the entity is missing any required component.
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	archetype := v.storage.archetype(id.ArchetypeId())
	if archetype == nil || !v.matchesArchetype(archetype) {
		return false
	}
	return v.populate(unsafe.Pointer(ptr), archetype, int(id.Index()), v.columns(archetype), id)
}

// Get returns a populated view struct for the entity, or nil.
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

func (v *View[T]) matchesArchetype(archetype *Archetype) bool {
	for i, typ := range v.types {
		if !v.optional[i] && !archetype.HasComponent(typ) {
			return false
		}
	}
	return true
}

// columns maps each view field to the archetype column holding it, -1 when absent.
func (v *View[T]) columns(archetype *Archetype) []int {
	cols := make([]int, len(v.types))
	for i, typ := range v.types {
		cols[i] = archetype.column(typ)
	}
	return cols
}

func (v *View[T]) populate(resultPtr unsafe.Pointer, archetype *Archetype, index int, cols []int, id EntityId) bool {
	for i, col := range cols {
		fieldPtr := unsafe.Add(resultPtr, v.fieldOffset[i])

		var component any
		if col != -1 {
			component = archetype.storages[col].Get(index)
		}

		if component == nil {
			if !v.optional[i] {
				return false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		*(*unsafe.Pointer)(fieldPtr) = (*iface)(unsafe.Pointer(&component)).data
	}

	if v.hasId {
		*(*EntityId)(unsafe.Add(resultPtr, v.idOffset)) = id
	}
	return true
}

func (v *View[T]) iterArchetype(archetype *Archetype) iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		if len(archetype.storages) == 0 {
			return
		}

		cols := v.columns(archetype)

		var result T
		resultPtr := unsafe.Pointer(&result)

		for index := range archetype.storages[0].Iter() {
			id := NewEntityId(archetype.id, uint32(index))
			if !v.populate(resultPtr, archetype, index, cols, id) {
				continue
			}
			if !yield(id, result) {
				return
			}
		}
	}
}

// Iter returns an iterator over every matching entity, in archetype creation order.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, archetype := range v.storage.order {
			if !v.matchesArchetype(archetype) {
				continue
			}
			for id, item := range v.iterArchetype(archetype) {
				if !yield(id, item) {
					return
				}
			}
		}
	}
}

// Values returns an iterator over just the view structs.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}
