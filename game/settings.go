package game

import (
	"fmt"
	"image/color"
	"math/rand/v2"
	"time"

	"github.com/plus3/tetracube/field"
	"github.com/plus3/tetracube/shape"
	"golang.org/x/image/colornames"
)

const (
	// MaxFallStep bounds a single gravity move so a long frame cannot skip a row.
	MaxFallStep = 0.25
	// HardDropStep is the increment a hard drop descends by.
	HardDropStep = 0.1

	DefaultGravityRate         = 1.0
	DefaultClearDelay          = time.Second
	DefaultTexturedProbability = 0.1
)

// Settings are fixed for the lifetime of a session.
type Settings struct {
	Size                field.Size
	GravityRate         float64 // units per second
	ClearDelay          time.Duration
	TexturedProbability float64
	Seed                uint64
}

// DefaultSettings is a 4x4 field with the usual pace.
func DefaultSettings() Settings {
	return Settings{
		Size:                field.Size4x4,
		GravityRate:         DefaultGravityRate,
		ClearDelay:          DefaultClearDelay,
		TexturedProbability: DefaultTexturedProbability,
		Seed:                uint64(time.Now().UnixNano()),
	}
}

// Validate reports the first unusable value.
func (s Settings) Validate() error {
	if s.Size < field.Size4x4 || s.Size > field.Size6x6 {
		return fmt.Errorf("invalid field size %v", s.Size)
	}
	if s.GravityRate <= 0 {
		return fmt.Errorf("gravity rate must be positive, got %v", s.GravityRate)
	}
	if s.ClearDelay < 0 {
		return fmt.Errorf("clear delay must not be negative, got %v", s.ClearDelay)
	}
	if s.TexturedProbability < 0 || s.TexturedProbability > 1 {
		return fmt.Errorf("textured probability must be within [0, 1], got %v", s.TexturedProbability)
	}
	return nil
}

// Palette colors pieces by shape.
var Palette = map[shape.Type]color.RGBA{
	shape.I:          colornames.Cyan,
	shape.O:          colornames.Gold,
	shape.L:          colornames.Orange,
	shape.T:          colornames.Mediumpurple,
	shape.N:          colornames.Tomato,
	shape.TowerRight: colornames.Limegreen,
	shape.TowerLeft:  colornames.Dodgerblue,
	shape.Tripod:     colornames.Hotpink,
}

// Dealer draws the random parts of a session: shapes and textures.
type Dealer struct {
	rng                 *rand.Rand
	texturedProbability float64
}

// NewDealer seeds a PCG source so that sessions with the same seed replay identically.
func NewDealer(seed uint64, texturedProbability float64) *Dealer {
	return &Dealer{
		rng:                 rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		texturedProbability: texturedProbability,
	}
}

// Shape draws the next shape.
func (d *Dealer) Shape() shape.Type {
	return shape.Random(d.rng)
}

// Textured decides whether a new piece gets the textured look.
func (d *Dealer) Textured() bool {
	return d.rng.Float64() < d.texturedProbability
}
