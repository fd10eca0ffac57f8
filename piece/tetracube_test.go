package piece_test

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/tetracube/collision"
	"github.com/plus3/tetracube/field"
	"github.com/plus3/tetracube/piece"
	"github.com/plus3/tetracube/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = color.RGBA{R: 255, A: 255}

func spawn(bounds field.Bounds, typ shape.Type) *piece.Tetracube {
	return piece.New(bounds, bounds.SpawnPoint(), typ, red, false)
}

func singleAt(bounds field.Bounds, at mgl64.Vec3) *piece.Tetracube {
	return piece.NewSingle(bounds, at, shape.O, red, false)
}

func TestNewCentersOnEvenAxes(t *testing.T) {
	even := field.NewBounds(field.Size4x4)
	p := spawn(even, shape.I)
	assert.Equal(t, mgl64.Vec3{0.5, 5.5, 0.5}, p.Position())

	coords := p.Coordinates()
	require.Len(t, coords, 4)
	for i, x := range []float64{-2, -1, 0, 1} {
		assert.InDelta(t, x, coords[i].X(), 1e-9)
		assert.InDelta(t, 5, coords[i].Y(), 1e-9)
		assert.InDelta(t, 0, coords[i].Z(), 1e-9)
	}

	odd := field.NewBounds(field.Size5x5)
	assert.Equal(t, mgl64.Vec3{0, 5.5, 0}, spawn(odd, shape.T).Position())
}

func TestTranslateRollback(t *testing.T) {
	bounds := field.NewBounds(field.Size4x4)
	p := spawn(bounds, shape.I)

	position, transform := p.Position(), p.Transform()

	event := p.TranslateX(-1, nil)
	assert.True(t, event.Has(collision.Sides))
	assert.Equal(t, position, p.Position())
	assert.Equal(t, transform, p.Transform())

	// already touching the +x wall
	event = p.TranslateX(1, nil)
	assert.True(t, event.Has(collision.Sides))
	assert.Equal(t, position, p.Position())

	event = p.TranslateZ(-1, nil)
	assert.Equal(t, collision.None, event)
	assert.InDelta(t, -0.5, p.Position().Z(), 1e-9)

	event = p.TranslateZ(-3, nil)
	assert.True(t, event.Has(collision.Sides))
	assert.InDelta(t, -0.5, p.Position().Z(), 1e-9)
}

func TestMovesIntoLandedBetweenRowsRollBack(t *testing.T) {
	bounds := field.NewBounds(field.Size5x5)

	column := func(x, z float64) []*piece.Tetracube {
		var out []*piece.Tetracube
		for y := -4.0; y <= -2; y++ {
			out = append(out, singleAt(bounds, mgl64.Vec3{x, y, z}))
		}
		return out
	}

	tests := []struct {
		name   string
		landed []*piece.Tetracube
		p      *piece.Tetracube
		move   func(p *piece.Tetracube, landed []*piece.Tetracube) collision.Event
	}{
		{
			name:   "x+",
			landed: column(1, 0),
			p:      singleAt(bounds, mgl64.Vec3{0, -2.6, 0}),
			move:   func(p *piece.Tetracube, l []*piece.Tetracube) collision.Event { return p.TranslateX(1, l) },
		},
		{
			name:   "x-",
			landed: column(-1, 0),
			p:      singleAt(bounds, mgl64.Vec3{0, -3.3, 0}),
			move:   func(p *piece.Tetracube, l []*piece.Tetracube) collision.Event { return p.TranslateX(-1, l) },
		},
		{
			name:   "z+",
			landed: column(0, 1),
			p:      singleAt(bounds, mgl64.Vec3{0, -2.6, 0}),
			move:   func(p *piece.Tetracube, l []*piece.Tetracube) collision.Event { return p.TranslateZ(1, l) },
		},
		{
			name:   "z-",
			landed: column(0, -1),
			p:      singleAt(bounds, mgl64.Vec3{0, -2.05, 0}),
			move:   func(p *piece.Tetracube, l []*piece.Tetracube) collision.Event { return p.TranslateZ(-1, l) },
		},
		{
			name:   "rotate y",
			landed: append(column(0, 1), column(0, -1)...),
			p:      piece.New(bounds, mgl64.Vec3{0, -2.6, 0}, shape.I, red, false),
			move:   func(p *piece.Tetracube, l []*piece.Tetracube) collision.Event { return p.RotateY(90, l) },
		},
		{
			name:   "rotate z",
			landed: column(0, 0),
			p:      piece.New(bounds, mgl64.Vec3{0, -0.6, 0}, shape.I, red, false),
			move:   func(p *piece.Tetracube, l []*piece.Tetracube) collision.Event { return p.RotateZ(90, l) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, collision.None, tt.p.TestCollisions(tt.landed), "starts clear of the column")
			position, transform := tt.p.Position(), tt.p.Transform()

			event := tt.move(tt.p, tt.landed)

			assert.Equal(t, collision.Bottom|collision.Sides, event)
			assert.Equal(t, position, tt.p.Position())
			assert.Equal(t, transform, tt.p.Transform())
			assert.Equal(t, collision.None, tt.p.TestCollisions(tt.landed))
		})
	}
}

func TestILandsOneAboveFloor(t *testing.T) {
	bounds := field.NewBounds(field.Size4x4)
	p := spawn(bounds, shape.I)

	landed := false
	for i := 0; i < 1000; i++ {
		if p.TranslateY(-0.1, nil).Has(collision.Bottom) {
			landed = true
			break
		}
	}
	require.True(t, landed)

	p.SnapToGrid()
	assert.Equal(t, bounds.Min.Y()+1, p.LowestY())
	assert.Equal(t, collision.None, p.TestCollisions(nil))
}

func TestLandsOnOtherPieces(t *testing.T) {
	bounds := field.NewBounds(field.Size4x4)
	below := singleAt(bounds, mgl64.Vec3{0, -4, 0})
	falling := singleAt(bounds, mgl64.Vec3{0, -2, 0})
	landed := []*piece.Tetracube{below, falling}

	var event collision.Event
	for i := 0; i < 10 && !event.Has(collision.Bottom); i++ {
		event = falling.TranslateY(-0.5, landed)
	}

	assert.Equal(t, collision.Bottom|collision.Sides, event)
	assert.InDelta(t, -3, falling.LowestY(), 1e-9)
}

func TestRotateRoundTrip(t *testing.T) {
	bounds := field.NewBounds(field.Size4x4)

	for _, axis := range []piece.Axis{piece.AxisX, piece.AxisY, piece.AxisZ} {
		t.Run(axis.String(), func(t *testing.T) {
			p := piece.New(bounds, mgl64.Vec3{0, 0, 0}, shape.T, red, false)
			before := p.Transform()

			event := p.Rotate(90, axis, nil)
			require.False(t, event.Has(collision.Sides|collision.Bottom), event)
			assert.False(t, p.Transform().ApproxEqualThreshold(before, 1e-9))

			p.Rotate(-90, axis, nil)
			assert.True(t, p.Transform().ApproxEqualThreshold(before, 1e-9))
		})
	}
}

func TestRotateComposesAboutFixedAxes(t *testing.T) {
	bounds := field.NewBounds(field.Size5x5)
	p := piece.New(bounds, mgl64.Vec3{0, 0, 0}, shape.T, red, false)

	p.RotateX(90, nil)
	p.RotateY(90, nil)

	want := mgl64.HomogRotate3DY(mgl64.DegToRad(90)).Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(90)))
	assert.True(t, p.Rotation().ApproxEqualThreshold(want, 1e-9))
}

func TestRotateRejectedByWall(t *testing.T) {
	bounds := field.NewBounds(field.Size4x4)
	p := spawn(bounds, shape.I)
	rotation := p.Rotation()

	// lying along x, a quarter turn about y would push a cube through the z wall
	event := p.RotateY(90, nil)
	assert.True(t, event.Has(collision.Sides))
	assert.Equal(t, rotation, p.Rotation())
}

func TestRotateAllowsTop(t *testing.T) {
	bounds := field.NewBounds(field.Size4x4)
	p := spawn(bounds, shape.O)
	require.True(t, p.TestCollisions(nil).Has(collision.Top), "spawns poking through the ceiling")

	event := p.RotateY(90, nil)
	assert.Equal(t, collision.Top, event)
	assert.False(t, p.Rotation().ApproxEqualThreshold(mgl64.Ident4(), 1e-9))
}

func TestSnapToGridIdempotent(t *testing.T) {
	bounds := field.NewBounds(field.Size4x4)
	p := spawn(bounds, shape.L)

	for i := 0; i < 7; i++ {
		p.TranslateY(-0.37, nil)
	}
	p.RotateX(90, nil)

	p.SnapToGrid()
	position, transform := p.Position(), p.Transform()
	p.SnapToGrid()

	assert.Equal(t, position, p.Position())
	assert.Equal(t, transform, p.Transform())
	assert.InDelta(t, 2.5, position.Y(), 1e-9)
}

func TestRowOperations(t *testing.T) {
	bounds := field.NewBounds(field.Size4x4)
	p := piece.New(bounds, mgl64.Vec3{0, -4, 0}, shape.O, red, false)

	assert.False(t, p.IsAt(-4))
	assert.Equal(t, 0, p.RemoveRowCubes(0))
	assert.Equal(t, 2, p.RemoveRowCubes(-4))
	assert.Equal(t, 2, p.Len())
	assert.True(t, p.IsAt(-3))

	assert.True(t, p.MoveIfAbove(-4))
	assert.True(t, p.IsAt(-4))
	assert.False(t, p.MoveIfAbove(-4))

	assert.Equal(t, 2, p.RemoveRowCubes(-4))
	assert.True(t, p.IsEmpty())
	assert.False(t, p.IsAt(-4))
	assert.False(t, p.MoveIfAbove(-10))
}

func TestSplitIntoSingles(t *testing.T) {
	bounds := field.NewBounds(field.Size4x4)
	p := piece.New(bounds, mgl64.Vec3{0, 0, 0}, shape.Tripod, red, true)
	p.TranslateY(-0.02, nil)
	p.RotateY(90, nil)

	coords := p.Coordinates()
	singles := p.SplitIntoSingles()

	assert.True(t, p.IsEmpty())
	require.Len(t, singles, len(coords))
	for i, s := range singles {
		require.Equal(t, 1, s.Len())
		assert.True(t, s.Coordinates()[0].ApproxEqualThreshold(coords[i], 0.05))

		c := s.Cubes()[0]
		assert.Equal(t, red, c.Color)
		assert.True(t, c.Textured)
		assert.True(t, s.Rotation().ApproxEqualThreshold(p.Rotation(), 1e-12))

		for axis := 0; axis < 3; axis++ {
			v := s.Coordinates()[0][axis]
			assert.InDelta(t, float64(field.Row(v)), v, 1e-9, "on the lattice")
		}
	}
}

func TestCubeWorldCoord(t *testing.T) {
	bounds := field.NewBounds(field.Size4x4)
	c := piece.Cube{Offset: mgl64.Vec3{1, 0, 0}}

	got := c.WorldCoord(bounds, mgl64.Translate3D(0.5, 0.5, 0.5).Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(90))))
	assert.True(t, got.ApproxEqualThreshold(mgl64.Vec3{0, 1, 0}, 1e-9), got)
}
