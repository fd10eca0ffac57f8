// Package field describes the playing volume: its size, its bounds and the
// boundary predicates every cube coordinate is checked against.
package field

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon absorbs float drift when comparing coordinates against the lattice.
const Epsilon = 0.01

// Clearance is how far above the floor a cube center must sit. The floor acts
// like a layer of cubes at Min.Y, so on lattice inputs this is Y > Min.Y.
const Clearance = 0.99

// Height is the vertical extent of every field.
const Height = 10

// Size is one of the supported footprints.
type Size int

const (
	Size4x4 Size = iota
	Size5x5
	Size6x6
)

var sizeNames = [...]string{"4x4", "5x5", "6x6"}

func (s Size) String() string {
	if s < 0 || int(s) >= len(sizeNames) {
		return fmt.Sprintf("Size(%d)", int(s))
	}
	return sizeNames[s]
}

// Footprint is the number of cubes along X and Z.
func (s Size) Footprint() int {
	switch s {
	case Size4x4:
		return 4
	case Size5x5:
		return 5
	case Size6x6:
		return 6
	}
	panic(fmt.Sprintf("field: unknown size %d", int(s)))
}

// ParseSize accepts "4x4", "5x5" or "6x6".
func ParseSize(s string) (Size, error) {
	for i, name := range sizeNames {
		if s == name {
			return Size(i), nil
		}
	}
	return 0, fmt.Errorf("unknown field size %q (want 4x4, 5x5 or 6x6)", s)
}

// Bounds is the axis-aligned volume a session plays in. Max is Size/2 and
// Min is -Max on every axis.
type Bounds struct {
	Size mgl64.Vec3
	Min  mgl64.Vec3
	Max  mgl64.Vec3
}

// NewBounds builds the bounds for a footprint.
func NewBounds(size Size) Bounds {
	n := float64(size.Footprint())
	dims := mgl64.Vec3{n, Height, n}
	return Bounds{
		Size: dims,
		Min:  dims.Mul(-0.5),
		Max:  dims.Mul(0.5),
	}
}

// WithinSides reports whether c lies inside the walls.
func (b Bounds) WithinSides(c mgl64.Vec3) bool {
	return c.X() >= b.Min.X()-Epsilon && c.X() < b.Max.X()-Epsilon &&
		c.Z() >= b.Min.Z()-Epsilon && c.Z() < b.Max.Z()-Epsilon
}

// WithinTop reports whether c is not above the ceiling.
func (b Bounds) WithinTop(c mgl64.Vec3) bool {
	return c.Y() <= b.Max.Y()+Epsilon
}

// WithinBottom reports whether c is clear of the floor.
func (b Bounds) WithinBottom(c mgl64.Vec3) bool {
	return c.Y()-b.Min.Y() > Clearance
}

// AllWithinSides is WithinSides for every coordinate.
func (b Bounds) AllWithinSides(coords []mgl64.Vec3) bool {
	for _, c := range coords {
		if !b.WithinSides(c) {
			return false
		}
	}
	return true
}

// AllWithinTop is WithinTop for every coordinate.
func (b Bounds) AllWithinTop(coords []mgl64.Vec3) bool {
	for _, c := range coords {
		if !b.WithinTop(c) {
			return false
		}
	}
	return true
}

// AllWithinBottom is WithinBottom for every coordinate.
func (b Bounds) AllWithinBottom(coords []mgl64.Vec3) bool {
	for _, c := range coords {
		if !b.WithinBottom(c) {
			return false
		}
	}
	return true
}

// Centering is the shift applied to world coordinates so cubes sit between
// integer grid lines on axes with an even size.
func (b Bounds) Centering() mgl64.Vec3 {
	var c mgl64.Vec3
	for i := 0; i < 3; i++ {
		if int(b.Size[i])%2 == 0 {
			c[i] = 0.5
		}
	}
	return c
}

// Center moves a lattice point into centered world space.
func (b Bounds) Center(v mgl64.Vec3) mgl64.Vec3 {
	return v.Add(b.Centering())
}

// Uncenter is the inverse of Center.
func (b Bounds) Uncenter(v mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(b.Centering())
}

// LayerSize is the number of cubes in one full horizontal layer.
func (b Bounds) LayerSize() int {
	return int(b.Size.X()) * int(b.Size.Z())
}

// SpawnPoint is the top-middle lattice point new pieces appear at, before centering.
func (b Bounds) SpawnPoint() mgl64.Vec3 {
	return mgl64.Vec3{0, b.Max.Y(), 0}
}

// Rows lists the y values a landed cube can rest at, bottom first.
func (b Bounds) Rows() []float64 {
	rows := make([]float64, 0, int(b.Size.Y()))
	for y := b.Min.Y() + 1; y <= b.Max.Y()+Epsilon; y++ {
		rows = append(rows, y)
	}
	return rows
}

// Row rounds y to the nearest lattice row.
func Row(y float64) int {
	return int(math.Round(y))
}
