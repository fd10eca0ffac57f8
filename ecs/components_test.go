package ecs_test

import "github.com/plus3/tetracube/ecs"

type Position struct {
	X, Y, Z float64
}

type Velocity struct {
	DX, DY, DZ float64
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type Frozen struct{}

type Score int32

type Counter struct {
	Ticks int
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Frozen](registry)
	ecs.RegisterComponent[Score](registry)
	return registry
}
