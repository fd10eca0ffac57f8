package collision_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/tetracube/collision"
	"github.com/plus3/tetracube/field"
	"github.com/stretchr/testify/assert"
)

type box struct {
	coords   []mgl64.Vec3
	position mgl64.Vec3
}

func (b *box) Coordinates() []mgl64.Vec3 { return b.coords }
func (b *box) Position() mgl64.Vec3      { return b.position }

func single(x, y, z float64) *box {
	v := mgl64.Vec3{x, y, z}
	return &box{coords: []mgl64.Vec3{v}, position: v}
}

func TestBoundary(t *testing.T) {
	bounds := field.NewBounds(field.Size4x4)

	tests := []struct {
		name string
		body *box
		want collision.Event
	}{
		{"at max.x", single(2, 0, 0), collision.Sides},
		{"at max.x - 1", single(1, 0, 0), collision.None},
		{"at min.x", single(-2, 0, 0), collision.None},
		{"below min.x", single(-3, 0, 0), collision.Sides},
		{"at max.z", single(0, 0, 2), collision.Sides},
		{"on the floor", single(0, -5, 0), collision.Bottom},
		{"one above the floor", single(0, -4, 0), collision.None},
		{"sinking into the floor", single(0, -4.2, 0), collision.Bottom},
		{"at the ceiling", single(0, 5, 0), collision.None},
		{"above the ceiling", single(0, 6, 0), collision.Top},
		{"corner", single(2, -5, 0), collision.Sides | collision.Bottom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collision.Test(bounds, tt.body, nil))
		})
	}
}

func TestBoundaryBeforeOverlap(t *testing.T) {
	bounds := field.NewBounds(field.Size4x4)
	body := single(2, 0, 0)
	other := single(2, -0.5, 0)

	assert.Equal(t, collision.Sides, collision.Test(bounds, body, []*box{other}))
}

func TestPieceOverlap(t *testing.T) {
	bounds := field.NewBounds(field.Size4x4)
	landed := []*box{single(0, -4, 0), single(1, -4, 0)}

	t.Run("resting on top", func(t *testing.T) {
		assert.Equal(t, collision.None, collision.Test(bounds, single(0, -3, 0), landed))
	})

	t.Run("sinking into a cube", func(t *testing.T) {
		assert.Equal(t, collision.Bottom|collision.Sides, collision.Test(bounds, single(0, -3.5, 0), landed))
	})

	t.Run("pushed into a neighbor", func(t *testing.T) {
		assert.Equal(t, collision.Bottom|collision.Sides, collision.Test(bounds, single(-0.5, -4, 0), landed[:1]))
	})

	t.Run("slid into a column between rows", func(t *testing.T) {
		column := []*box{single(1, -4, 0), single(1, -3, 0), single(1, -2, 0)}
		assert.Equal(t, collision.Bottom|collision.Sides, collision.Test(bounds, single(1, -2.6, 0), column))
	})

	t.Run("beside a column between rows", func(t *testing.T) {
		column := []*box{single(1, -4, 0), single(1, -3, 0), single(1, -2, 0)}
		assert.Equal(t, collision.None, collision.Test(bounds, single(0, -2.6, 0), column))
	})

	t.Run("coincident", func(t *testing.T) {
		assert.Equal(t, collision.Bottom|collision.Sides, collision.Test(bounds, single(1, -4, 0), landed))
	})

	t.Run("self is skipped", func(t *testing.T) {
		body := landed[0]
		assert.Equal(t, collision.None, collision.Test(bounds, body, landed[:1]))
	})

	t.Run("nil entries are skipped", func(t *testing.T) {
		assert.Equal(t, collision.None, collision.Test(bounds, single(0, 0, 0), []*box{nil}))
	})

	t.Run("broad phase prunes distant pieces", func(t *testing.T) {
		far := &box{coords: []mgl64.Vec3{{0, 0, 0}}, position: mgl64.Vec3{0, 4.5, 0}}
		assert.Equal(t, collision.None, collision.Test(bounds, single(0, 0, 0), []*box{far}))
	})
}

func TestOverlap(t *testing.T) {
	origin := mgl64.Vec3{0, 0, 0}

	tests := []struct {
		name string
		b    mgl64.Vec3
		want collision.Event
	}{
		{"same cube", mgl64.Vec3{0, 0.001, 0}, collision.Bottom | collision.Sides},
		{"vertical", mgl64.Vec3{0, 0.9, 0}, collision.Bottom | collision.Sides},
		{"vertical touching", mgl64.Vec3{0, 1, 0}, collision.None},
		{"along x", mgl64.Vec3{-0.5, 0, 0}, collision.Bottom | collision.Sides},
		{"along x touching", mgl64.Vec3{1, 0, 0}, collision.None},
		{"along z", mgl64.Vec3{0, 0, 0.99}, collision.Bottom | collision.Sides},
		{"diagonal", mgl64.Vec3{0.5, 0.5, 0}, collision.None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collision.Overlap(origin, tt.b))
			assert.Equal(t, tt.want, collision.Overlap(tt.b, origin), "symmetric")
		})
	}
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "None", collision.None.String())
	assert.Equal(t, "Bottom|Sides", (collision.Sides | collision.Bottom).String())
	assert.Equal(t, "Top", collision.Top.String())
	assert.True(t, (collision.Sides | collision.Top).Has(collision.Sides|collision.Bottom))
	assert.False(t, collision.Top.Has(collision.Sides|collision.Bottom))
}

func BenchmarkTestFullField(b *testing.B) {
	bounds := field.NewBounds(field.Size6x6)

	var landed []*box
	for y := bounds.Min.Y() + 1; y < 0; y++ {
		for x := bounds.Min.X(); x < bounds.Max.X(); x++ {
			for z := bounds.Min.Z(); z < bounds.Max.Z(); z++ {
				landed = append(landed, single(x, y, z))
			}
		}
	}

	body := &box{
		coords:   []mgl64.Vec3{{-1, 1, 0}, {0, 1, 0}, {1, 1, 0}, {1, 2, 0}},
		position: mgl64.Vec3{0, 1, 0},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collision.Test(bounds, body, landed)
	}
}
