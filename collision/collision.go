// Package collision classifies how a piece pose conflicts with the field
// boundary and with landed geometry.
package collision

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/tetracube/field"
)

// Event is a set of collision flags. Several may be reported for one test.
type Event uint8

const (
	// Bottom means the pose crosses the floor or intersects a landed cube.
	Bottom Event = 1 << iota
	// Sides means the pose crosses a wall or intersects a landed cube.
	Sides
	// Top means some cube is above the ceiling.
	Top
)

// None is the empty set.
const None Event = 0

// BroadPhaseRadius is the distance between piece positions beyond which no
// cube pair can overlap.
const BroadPhaseRadius = 4.0

// OverlapTolerance is the largest distance along the differing axis at which
// two aligned cubes still intersect.
const OverlapTolerance = 0.99

// Has reports whether any flag in mask is set.
func (e Event) Has(mask Event) bool {
	return e&mask != 0
}

func (e Event) String() string {
	if e == None {
		return "None"
	}

	var parts []string
	if e.Has(Bottom) {
		parts = append(parts, "Bottom")
	}
	if e.Has(Sides) {
		parts = append(parts, "Sides")
	}
	if e.Has(Top) {
		parts = append(parts, "Top")
	}
	return strings.Join(parts, "|")
}

// Body is anything with world cube coordinates and a reference position.
type Body interface {
	Coordinates() []mgl64.Vec3
	Position() mgl64.Vec3
}

// Test checks body against the bounds and every piece in against. Boundary
// violations of Sides or Bottom are returned without scanning other pieces.
// body itself may appear in against and is skipped.
func Test[B interface {
	comparable
	Body
}](bounds field.Bounds, body B, against []B) Event {
	coords := body.Coordinates()

	var event Event
	if !bounds.AllWithinSides(coords) {
		event |= Sides
	}
	if !bounds.AllWithinBottom(coords) {
		event |= Bottom
	}
	if !bounds.AllWithinTop(coords) {
		event |= Top
	}
	if event.Has(Sides | Bottom) {
		return event
	}

	var zero B
	position := body.Position()
	for _, other := range against {
		if other == body || other == zero {
			continue
		}
		if other.Position().Sub(position).Len() > BroadPhaseRadius {
			continue
		}

		for _, theirs := range other.Coordinates() {
			for _, ours := range coords {
				event |= Overlap(ours, theirs)
			}
		}
	}

	return event
}

// Overlap reports Bottom|Sides when the unit cubes centered at a and b
// intersect. Cubes intersect when two coordinates match and the third differs
// by at most OverlapTolerance. The direction of approach is not reported, so
// any intersection rejects horizontal, vertical and rotational moves alike.
func Overlap(a, b mgl64.Vec3) Event {
	dx := math.Abs(a.X() - b.X())
	dy := math.Abs(a.Y() - b.Y())
	dz := math.Abs(a.Z() - b.Z())

	sameX, sameY, sameZ := dx < field.Epsilon, dy < field.Epsilon, dz < field.Epsilon

	switch {
	case sameX && sameZ && dy <= OverlapTolerance,
		sameY && sameZ && dx <= OverlapTolerance,
		sameY && sameX && dz <= OverlapTolerance:
		return Bottom | Sides
	}
	return None
}
