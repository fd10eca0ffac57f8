package piece

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/tetracube/field"
)

// Cube is one unit of a tetracube. Offset is local to the owning piece.
type Cube struct {
	Offset   mgl64.Vec3
	Color    color.RGBA
	Textured bool
}

// WorldCoord applies transform to the cube's offset and removes the field's
// centering, giving the lattice coordinate used by collision and row logic.
func (c Cube) WorldCoord(bounds field.Bounds, transform mgl64.Mat4) mgl64.Vec3 {
	return bounds.Uncenter(transform.Mul4x1(c.Offset.Vec4(1)).Vec3())
}
