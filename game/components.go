package game

import (
	"time"

	"github.com/plus3/tetracube/ecs"
	"github.com/plus3/tetracube/field"
	"github.com/plus3/tetracube/piece"
	"github.com/plus3/tetracube/shape"
)

// ActivePiece marks the one piece under player control.
type ActivePiece struct {
	Piece *piece.Tetracube
}

// LandedPiece is a frozen single-cube piece resting in the stack.
type LandedPiece struct {
	Piece *piece.Tetracube
}

// ClearingPiece is a cube from a cleared row, kept around while it blinks.
type ClearingPiece struct {
	Piece *piece.Tetracube
}

// RegisterComponents adds the game's component types to a registry.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ActivePiece](registry)
	ecs.RegisterComponent[LandedPiece](registry)
	ecs.RegisterComponent[ClearingPiece](registry)
}

// GameState is the singleton holding everything about a session that is not
// a piece.
type GameState struct {
	Bounds field.Bounds

	Score    int
	Rows     int
	Spawned  int
	Next     shape.Type
	Started  bool
	Gravity  bool
	Over     bool
	Clearing time.Duration

	// set by one system, consumed by a later one in the same tick
	landing        bool
	checkRows      bool
	spawnRequested bool
}

// ClearProgress is how far the current clear effect has run, in [0, 1].
func (s *GameState) ClearProgress(delay time.Duration) float64 {
	if s.Clearing <= 0 || delay <= 0 {
		return 1
	}
	return 1 - float64(s.Clearing)/float64(delay)
}

type activeView struct {
	ID ecs.EntityId
	*ActivePiece
}

type landedView struct {
	ID ecs.EntityId
	*LandedPiece
}

type clearingView struct {
	ID ecs.EntityId
	*ClearingPiece
}

func landedPieces(q *ecs.Query[landedView]) []*piece.Tetracube {
	pieces := make([]*piece.Tetracube, 0, q.Len())
	for item := range q.Values() {
		pieces = append(pieces, item.Piece)
	}
	return pieces
}
