// Package piece holds the movable pieces of the game and the commit/rollback
// protocol for moves checked by the collision engine.
package piece

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/tetracube/collision"
	"github.com/plus3/tetracube/field"
	"github.com/plus3/tetracube/shape"
)

// Axis selects a rotation axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return "?"
}

func (a Axis) rotation(degrees float64) mgl64.Mat4 {
	rad := mgl64.DegToRad(degrees)
	switch a {
	case AxisX:
		return mgl64.HomogRotate3DX(rad)
	case AxisY:
		return mgl64.HomogRotate3DY(rad)
	case AxisZ:
		return mgl64.HomogRotate3DZ(rad)
	}
	panic("piece: unknown axis")
}

// Tetracube is a group of cubes moving together. Its world transform is
// translation * rotation, and position tracks the translation part.
type Tetracube struct {
	bounds      field.Bounds
	typ         shape.Type
	cubes       []Cube
	position    mgl64.Vec3
	translation mgl64.Mat4
	rotation    mgl64.Mat4
}

// New builds a piece of the given shape at a lattice position. The field's
// centering is applied to the position.
func New(bounds field.Bounds, position mgl64.Vec3, typ shape.Type, c color.RGBA, textured bool) *Tetracube {
	offsets := shape.Offsets(typ)
	cubes := make([]Cube, len(offsets))
	for i, off := range offsets {
		cubes[i] = Cube{Offset: off, Color: c, Textured: textured}
	}
	return newTetracube(bounds, typ, cubes, bounds.Center(position), mgl64.Ident4())
}

// NewSingle builds a one-cube piece at a lattice position.
func NewSingle(bounds field.Bounds, position mgl64.Vec3, typ shape.Type, c color.RGBA, textured bool) *Tetracube {
	cubes := []Cube{{Color: c, Textured: textured}}
	return newTetracube(bounds, typ, cubes, bounds.Center(position), mgl64.Ident4())
}

func newTetracube(bounds field.Bounds, typ shape.Type, cubes []Cube, position mgl64.Vec3, rotation mgl64.Mat4) *Tetracube {
	return &Tetracube{
		bounds:      bounds,
		typ:         typ,
		cubes:       cubes,
		position:    position,
		translation: mgl64.Translate3D(position.X(), position.Y(), position.Z()),
		rotation:    rotation,
	}
}

// Coordinates returns the lattice coordinate of every cube.
func (t *Tetracube) Coordinates() []mgl64.Vec3 {
	transform := t.Transform()
	coords := make([]mgl64.Vec3, len(t.cubes))
	for i, c := range t.cubes {
		coords[i] = c.WorldCoord(t.bounds, transform)
	}
	return coords
}

func (t *Tetracube) Position() mgl64.Vec3 { return t.position }

// Transform is the matrix used both for collision and for drawing.
func (t *Tetracube) Transform() mgl64.Mat4 { return t.translation.Mul4(t.rotation) }

func (t *Tetracube) Rotation() mgl64.Mat4 { return t.rotation }

func (t *Tetracube) Bounds() field.Bounds { return t.bounds }

func (t *Tetracube) Type() shape.Type { return t.typ }

func (t *Tetracube) Len() int { return len(t.cubes) }

func (t *Tetracube) IsEmpty() bool { return len(t.cubes) == 0 }

// Cubes returns a copy of the cubes.
func (t *Tetracube) Cubes() []Cube {
	out := make([]Cube, len(t.cubes))
	copy(out, t.cubes)
	return out
}

// LowestY is the smallest cube y, or +Inf for an empty piece.
func (t *Tetracube) LowestY() float64 {
	lowest := math.Inf(1)
	for _, c := range t.Coordinates() {
		lowest = math.Min(lowest, c.Y())
	}
	return lowest
}

// TestCollisions checks the current pose without changing it.
func (t *Tetracube) TestCollisions(landed []*Tetracube) collision.Event {
	return collision.Test(t.bounds, t, landed)
}

// Translate moves the piece by delta. If the resulting verdict shares a flag
// with reject, the move is undone. The verdict is returned either way.
func (t *Tetracube) Translate(delta mgl64.Vec3, reject collision.Event, landed []*Tetracube) collision.Event {
	position, translation := t.position, t.translation

	t.Move(delta)
	event := t.TestCollisions(landed)
	if event.Has(reject) {
		t.position, t.translation = position, translation
	}
	return event
}

func (t *Tetracube) TranslateX(amount float64, landed []*Tetracube) collision.Event {
	return t.Translate(mgl64.Vec3{amount, 0, 0}, collision.Sides, landed)
}

func (t *Tetracube) TranslateY(amount float64, landed []*Tetracube) collision.Event {
	return t.Translate(mgl64.Vec3{0, amount, 0}, collision.Bottom, landed)
}

func (t *Tetracube) TranslateZ(amount float64, landed []*Tetracube) collision.Event {
	return t.Translate(mgl64.Vec3{0, 0, amount}, collision.Sides, landed)
}

// Move shifts the piece without any collision test.
func (t *Tetracube) Move(delta mgl64.Vec3) {
	t.position = t.position.Add(delta)
	t.translation = t.translation.Mul4(mgl64.Translate3D(delta.X(), delta.Y(), delta.Z()))
}

// Rotate turns the piece about a fixed axis frame through its origin. The
// rotation is undone when the verdict reports Sides or Bottom; Top is allowed
// since pieces spawn against the ceiling.
func (t *Tetracube) Rotate(degrees float64, axis Axis, landed []*Tetracube) collision.Event {
	previous := t.rotation

	// undo the old rotation, apply the increment, then reapply the old one
	inverse := previous.Transpose()
	t.rotation = previous.Mul4(inverse).Mul4(axis.rotation(degrees)).Mul4(previous)

	event := t.TestCollisions(landed)
	if event.Has(collision.Sides | collision.Bottom) {
		t.rotation = previous
	}
	return event
}

func (t *Tetracube) RotateX(degrees float64, landed []*Tetracube) collision.Event {
	return t.Rotate(degrees, AxisX, landed)
}

func (t *Tetracube) RotateY(degrees float64, landed []*Tetracube) collision.Event {
	return t.Rotate(degrees, AxisY, landed)
}

func (t *Tetracube) RotateZ(degrees float64, landed []*Tetracube) collision.Event {
	return t.Rotate(degrees, AxisZ, landed)
}

// IsAt reports whether every cube sits on row y. Empty pieces are nowhere.
func (t *Tetracube) IsAt(y float64) bool {
	if t.IsEmpty() {
		return false
	}
	for _, c := range t.Coordinates() {
		if math.Abs(c.Y()-y) > field.Epsilon {
			return false
		}
	}
	return true
}

// RemoveRowCubes drops every cube on row y and returns how many were dropped.
func (t *Tetracube) RemoveRowCubes(y float64) int {
	coords := t.Coordinates()
	kept := t.cubes[:0]
	for i, c := range t.cubes {
		if math.Abs(coords[i].Y()-y) <= field.Epsilon {
			continue
		}
		kept = append(kept, c)
	}

	removed := len(t.cubes) - len(kept)
	clear(t.cubes[len(kept):])
	t.cubes = kept
	return removed
}

// MoveIfAbove drops the piece one row when all of its cubes are above row y.
func (t *Tetracube) MoveIfAbove(y float64) bool {
	if t.IsEmpty() {
		return false
	}
	for _, c := range t.Coordinates() {
		if c.Y() <= y+field.Epsilon {
			return false
		}
	}
	t.Move(mgl64.Vec3{0, -1, 0})
	return true
}

// SnapToGrid rounds the position onto the lattice and rebuilds the
// translation from it. Calling it again changes nothing.
func (t *Tetracube) SnapToGrid() {
	lattice := t.bounds.Uncenter(t.position)
	for i := range lattice {
		lattice[i] = math.Round(lattice[i])
	}
	t.position = t.bounds.Center(lattice)
	t.translation = mgl64.Translate3D(t.position.X(), t.position.Y(), t.position.Z())
}

// SplitIntoSingles hands every cube to a new one-cube piece placed at the
// cube's rounded coordinate. The receiver is left empty.
func (t *Tetracube) SplitIntoSingles() []*Tetracube {
	coords := t.Coordinates()
	singles := make([]*Tetracube, len(t.cubes))
	for i, c := range t.cubes {
		var lattice mgl64.Vec3
		for axis := range lattice {
			lattice[axis] = math.Round(coords[i][axis])
		}

		c.Offset = mgl64.Vec3{}
		singles[i] = newTetracube(t.bounds, t.typ, []Cube{c}, t.bounds.Center(lattice), t.rotation)
	}

	t.cubes = nil
	return singles
}
