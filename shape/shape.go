// Package shape is the catalog of the eight tetracubes.
package shape

import (
	"fmt"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// Type identifies a tetracube shape.
type Type int

const (
	I Type = iota
	O
	L
	T
	N
	TowerRight
	TowerLeft
	Tripod

	count
)

var names = [count]string{"I", "O", "L", "T", "N", "TowerRight", "TowerLeft", "Tripod"}

// offsets are the local cube positions relative to the piece origin.
var offsets = [count][4]mgl64.Vec3{
	I:          {{-2, 0, 0}, {-1, 0, 0}, {0, 0, 0}, {1, 0, 0}},
	O:          {{0, 0, 0}, {0, 1, 0}, {1, 0, 0}, {1, 1, 0}},
	L:          {{-1, 0, 0}, {0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
	T:          {{-1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 0, 0}},
	N:          {{-1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0}},
	TowerRight: {{0, 0, 0}, {1, 0, 0}, {1, 1, -1}, {1, 0, -1}},
	TowerLeft:  {{0, 0, 0}, {1, 0, 0}, {0, 1, -1}, {0, 0, -1}},
	Tripod:     {{0, 0, 0}, {-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return names[t]
}

// Valid reports whether t is one of the eight shapes.
func (t Type) Valid() bool {
	return t >= 0 && t < count
}

// Parse looks a shape up by name.
func Parse(name string) (Type, error) {
	for i, n := range names {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

// Offsets returns a fresh copy of the four cube offsets of t.
// It panics on an unknown type.
func Offsets(t Type) []mgl64.Vec3 {
	if !t.Valid() {
		panic(fmt.Sprintf("shape: unknown type %d", int(t)))
	}
	out := make([]mgl64.Vec3, 4)
	copy(out, offsets[t][:])
	return out
}

// All lists every shape in catalog order.
func All() []Type {
	all := make([]Type, count)
	for i := range all {
		all[i] = Type(i)
	}
	return all
}

// Random draws a shape uniformly.
func Random(rng *rand.Rand) Type {
	return Type(rng.IntN(int(count)))
}
