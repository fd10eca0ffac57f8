package game

import (
	"log"
	"time"

	"github.com/kamstrup/intmap"
	"github.com/plus3/tetracube/collision"
	"github.com/plus3/tetracube/ecs"
	"github.com/plus3/tetracube/field"
	"github.com/plus3/tetracube/piece"
	"github.com/plus3/tetracube/shape"
)

// InputSystem applies the actions pressed since the previous tick.
type InputSystem struct {
	Input    ecs.Singleton[InputState]
	State    ecs.Singleton[GameState]
	Active   ecs.Query[activeView]
	Landed   ecs.Query[landedView]
	Clearing ecs.Query[clearingView]

	notifier Notifier
	logger   *log.Logger
}

func (s *InputSystem) Execute(frame *ecs.UpdateFrame) {
	actions := s.Input.Get().Take()
	if actions == 0 {
		return
	}

	state := s.State.Get()
	if actions.Has(Restart) {
		s.restart(frame, state)
		return
	}
	if state.Over {
		return
	}

	if actions.Has(ToggleGravity) {
		state.Gravity = !state.Gravity
		s.logger.Printf("gravity %v", state.Gravity)
	}

	id, active, ok := s.Active.First()
	if !ok {
		return
	}

	if actions.Has(SpawnIPiece) {
		state.Next = shape.I
		state.spawnRequested = true
		frame.Commands.Delete(id)
		return
	}

	p := active.Piece
	landed := landedPieces(&s.Landed)
	for _, action := range Actions() {
		if !actions.Has(action) {
			continue
		}

		switch action {
		case MoveXPos:
			p.TranslateX(1, landed)
		case MoveXNeg:
			p.TranslateX(-1, landed)
		case MoveZPos:
			p.TranslateZ(1, landed)
		case MoveZNeg:
			p.TranslateZ(-1, landed)
		case RotateXPos:
			p.RotateX(90, landed)
		case RotateXNeg:
			p.RotateX(-90, landed)
		case RotateYPos:
			p.RotateY(90, landed)
		case RotateYNeg:
			p.RotateY(-90, landed)
		case RotateZPos:
			p.RotateZ(90, landed)
		case RotateZNeg:
			p.RotateZ(-90, landed)
		case HardDrop:
			if state.Clearing > 0 {
				continue
			}
			hardDrop(state.Bounds, p, landed)
			state.landing = true
			return
		}
	}
}

func hardDrop(bounds field.Bounds, p *piece.Tetracube, landed []*piece.Tetracube) {
	limit := 2 * int(bounds.Size.Y()/HardDropStep)
	for i := 0; i < limit; i++ {
		if p.TranslateY(-HardDropStep, landed).Has(collision.Bottom) {
			return
		}
	}
}

func (s *InputSystem) restart(frame *ecs.UpdateFrame, state *GameState) {
	for id := range s.Active.Iter() {
		frame.Commands.Delete(id)
	}
	for id := range s.Landed.Iter() {
		frame.Commands.Delete(id)
	}
	for id := range s.Clearing.Iter() {
		frame.Commands.Delete(id)
	}

	*state = GameState{
		Bounds:         state.Bounds,
		Next:           state.Next,
		Started:        state.Started,
		Gravity:        state.Started,
		spawnRequested: true,
	}

	s.logger.Println("restart")
	s.notifier.ScoreChanged(0)
}

// ClearEffectSystem counts the blink of cleared cubes down and removes them
// once it is over.
type ClearEffectSystem struct {
	State    ecs.Singleton[GameState]
	Clearing ecs.Query[clearingView]
}

func (s *ClearEffectSystem) Execute(frame *ecs.UpdateFrame) {
	state := s.State.Get()
	if state.Clearing > 0 {
		state.Clearing -= time.Duration(frame.DeltaTime * float64(time.Second))
		if state.Clearing > 0 {
			return
		}
		state.Clearing = 0
	}

	for id := range s.Clearing.Iter() {
		frame.Commands.Delete(id)
	}
}

// GravitySystem moves the active piece down. It pauses while gravity is off,
// during a clear effect and after game over.
type GravitySystem struct {
	State    ecs.Singleton[GameState]
	Settings ecs.Singleton[Settings]
	Active   ecs.Query[activeView]
	Landed   ecs.Query[landedView]
}

func (s *GravitySystem) Execute(frame *ecs.UpdateFrame) {
	state := s.State.Get()
	if !state.Gravity || state.Over || state.Clearing > 0 || state.landing {
		return
	}

	_, active, ok := s.Active.First()
	if !ok {
		return
	}

	landed := landedPieces(&s.Landed)
	distance := s.Settings.Get().GravityRate * frame.DeltaTime
	for distance > 0 {
		step := min(distance, MaxFallStep)
		distance -= step

		if active.Piece.TranslateY(-step, landed).Has(collision.Bottom) {
			state.landing = true
			return
		}
	}
}

// LandingSystem freezes a piece that can no longer fall and breaks it into
// single cubes on the lattice.
type LandingSystem struct {
	State  ecs.Singleton[GameState]
	Active ecs.Query[activeView]
	Landed ecs.Query[landedView]

	notifier Notifier
	logger   *log.Logger
}

func (s *LandingSystem) Execute(frame *ecs.UpdateFrame) {
	state := s.State.Get()
	if !state.landing {
		return
	}
	state.landing = false

	id, active, ok := s.Active.First()
	if !ok {
		return
	}

	p := active.Piece
	landed := landedPieces(&s.Landed)
	if p.TestCollisions(landed).Has(collision.Top) {
		s.gameOver(state)
		return
	}

	// A resting piece is less than one fall step above the row it rounds
	// to, so snapping never moves it into landed cubes.
	p.SnapToGrid()

	s.logger.Printf("landed %v at y=%.0f", p.Type(), p.LowestY())

	for _, single := range p.SplitIntoSingles() {
		frame.Commands.Spawn(LandedPiece{Piece: single})
	}
	frame.Commands.Delete(id)

	state.checkRows = true
	state.spawnRequested = true
}

func (s *LandingSystem) gameOver(state *GameState) {
	state.Over = true
	s.logger.Printf("game over with score %d", state.Score)
	s.notifier.GameOver(state.Score)
}

// RowClearSystem removes full layers and compacts everything above them.
type RowClearSystem struct {
	State    ecs.Singleton[GameState]
	Settings ecs.Singleton[Settings]
	Landed   ecs.Query[landedView]

	notifier Notifier
	logger   *log.Logger
}

func (s *RowClearSystem) Execute(frame *ecs.UpdateFrame) {
	state := s.State.Get()
	if !state.checkRows {
		return
	}
	state.checkRows = false

	full := s.fullRows(state.Bounds)
	if len(full) == 0 {
		return
	}

	cleared := make(map[ecs.EntityId]bool)
	for _, y := range full {
		for id, item := range s.Landed.Iter() {
			if cleared[id] {
				continue
			}

			p := item.Piece
			if p.IsAt(y) {
				cleared[id] = true
				frame.Commands.Delete(id)
				frame.Commands.Spawn(ClearingPiece{Piece: p})
				continue
			}
			if p.RemoveRowCubes(y) > 0 && p.IsEmpty() {
				cleared[id] = true
				frame.Commands.Delete(id)
			}
		}
	}

	// full is highest first, so a piece moves once for every cleared row below it
	for _, y := range full {
		for id, item := range s.Landed.Iter() {
			if !cleared[id] {
				item.Piece.MoveIfAbove(y)
			}
		}
	}

	state.Score += ScoreFor(len(full))
	state.Rows += len(full)
	state.Clearing = s.Settings.Get().ClearDelay

	s.logger.Printf("cleared %d rows, score %d", len(full), state.Score)
	s.notifier.RowsCleared(len(full))
	s.notifier.ScoreChanged(state.Score)
}

// fullRows returns the y of every complete layer, highest first.
func (s *RowClearSystem) fullRows(bounds field.Bounds) []float64 {
	counts := intmap.New[int, int](int(bounds.Size.Y()))
	for item := range s.Landed.Values() {
		for _, c := range item.Piece.Coordinates() {
			row := field.Row(c.Y())
			n, _ := counts.Get(row)
			counts.Put(row, n+1)
		}
	}

	rows := bounds.Rows()
	var full []float64
	for i := len(rows) - 1; i >= 0; i-- {
		if n, _ := counts.Get(field.Row(rows[i])); n == bounds.LayerSize() {
			full = append(full, rows[i])
		}
	}
	return full
}

// SpawnSystem brings in the next piece once the previous one has landed.
type SpawnSystem struct {
	State  ecs.Singleton[GameState]
	Dealer ecs.Singleton[Dealer]
	Active ecs.Query[activeView]
	Landed ecs.Query[landedView]

	notifier Notifier
	logger   *log.Logger
}

func (s *SpawnSystem) Execute(frame *ecs.UpdateFrame) {
	state := s.State.Get()
	if !state.spawnRequested || state.Over {
		return
	}
	state.spawnRequested = false

	if s.Active.Len() > 0 {
		return
	}

	dealer := s.Dealer.Get()
	typ := state.Next
	textured := state.Spawned > 0 && dealer.Textured()
	p := piece.New(state.Bounds, state.Bounds.SpawnPoint(), typ, Palette[typ], textured)

	state.Spawned++
	state.Next = dealer.Shape()
	s.notifier.NextPiece(state.Next)

	if p.TestCollisions(landedPieces(&s.Landed)).Has(collision.Sides | collision.Bottom) {
		state.Over = true
		s.logger.Printf("no room to spawn %v, game over with score %d", typ, state.Score)
		s.notifier.GameOver(state.Score)
		return
	}

	frame.Commands.Spawn(ActivePiece{Piece: p})
}
