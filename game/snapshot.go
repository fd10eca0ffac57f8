package game

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/tetracube/field"
	"github.com/plus3/tetracube/piece"
	"github.com/plus3/tetracube/shape"
)

// CubeView is one cube as a renderer sees it.
type CubeView struct {
	Coord    mgl64.Vec3 `json:"coord"`
	Color    color.RGBA `json:"color"`
	Textured bool       `json:"textured"`
}

// PieceView is the active piece: its cubes plus the transform collision uses.
type PieceView struct {
	Type      shape.Type `json:"type"`
	Transform mgl64.Mat4 `json:"transform"`
	Cubes     []CubeView `json:"cubes"`
}

// Snapshot is a copy of everything needed to draw one frame.
type Snapshot struct {
	Bounds        field.Bounds `json:"bounds"`
	Active        *PieceView   `json:"active,omitempty"`
	Landed        []CubeView   `json:"landed"`
	Clearing      []CubeView   `json:"clearing,omitempty"`
	ClearProgress float64      `json:"clear_progress"`
	Score         int          `json:"score"`
	Rows          int          `json:"rows"`
	Next          shape.Type   `json:"next"`
	Started       bool         `json:"started"`
	Gravity       bool         `json:"gravity"`
	Over          bool         `json:"over"`
}

func cubeViews(dst []CubeView, p *piece.Tetracube) []CubeView {
	coords := p.Coordinates()
	for i, c := range p.Cubes() {
		dst = append(dst, CubeView{Coord: coords[i], Color: c.Color, Textured: c.Textured})
	}
	return dst
}

// Snapshot copies the current state. The result shares nothing with the session.
func (s *Session) Snapshot() Snapshot {
	state := s.state.Get()
	snap := Snapshot{
		Bounds:        state.Bounds,
		Landed:        []CubeView{},
		ClearProgress: state.ClearProgress(s.settings.ClearDelay),
		Score:         state.Score,
		Rows:          state.Rows,
		Next:          state.Next,
		Started:       state.Started,
		Gravity:       state.Gravity,
		Over:          state.Over,
	}

	for item := range s.active.Values() {
		snap.Active = &PieceView{
			Type:      item.Piece.Type(),
			Transform: item.Piece.Transform(),
			Cubes:     cubeViews(nil, item.Piece),
		}
	}
	for item := range s.landed.Values() {
		snap.Landed = cubeViews(snap.Landed, item.Piece)
	}
	for item := range s.clearing.Values() {
		snap.Clearing = cubeViews(snap.Clearing, item.Piece)
	}

	return snap
}
