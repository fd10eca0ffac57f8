package main

import (
	"context"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/tetracube/ecs/debugui"
	debugui_ebiten "github.com/plus3/tetracube/ecs/debugui/ebiten"
	"github.com/plus3/tetracube/game"
	"github.com/plus3/tetracube/leaderboard"
	"github.com/plus3/tetracube/shape"
)

// Game implements ebiten.Game around one session.
type Game struct {
	session *game.Session
	board   leaderboard.Store
	backend *debugui_ebiten.ImguiBackend
	player  string
	debug   bool
	logger  *log.Logger

	// Set by the notifier, consumed in Update.
	finished bool

	rank    int
	records []leaderboard.Record
}

func (g *Game) ScoreChanged(int)     {}
func (g *Game) NextPiece(shape.Type) {}
func (g *Game) RowsCleared(rows int) { g.logger.Printf("cleared %d row(s)", rows) }
func (g *Game) GameOver(int)         { g.finished = true }

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}

	g.backend.BeginFrame()

	snap := g.session.Snapshot()
	if !g.keyboardCaptured() {
		if !snap.Started && inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			g.session.Start()
		}
		if actions := pressedActions(); actions != 0 {
			if actions.Has(game.Restart) {
				g.rank = 0
			}
			g.session.Press(actions)
		}
	}

	g.session.Tick(time.Second / time.Duration(ebiten.TPS()))

	g.backend.EndFrame()

	if g.finished {
		g.finished = false
		g.submitScore()
	}
	return nil
}

func (g *Game) keyboardCaptured() bool {
	if !g.debug {
		return false
	}
	var state *debugui.ImguiInputState
	return g.session.Storage().ReadSingleton(&state) && state.WantCaptureKeyboard
}

// submitScore records a finished game if it makes the board.
func (g *Game) submitScore() {
	ctx := context.Background()
	snap := g.session.Snapshot()

	ok, err := g.board.IsHighscore(ctx, snap.Score)
	if err != nil {
		g.logger.Printf("leaderboard: %v", err)
		return
	}
	if !ok {
		return
	}

	g.rank, err = g.board.Submit(ctx, leaderboard.Record{
		Player: g.player,
		Score:  snap.Score,
		Rows:   snap.Rows,
		Field:  g.session.Settings().Size.String(),
		At:     time.Now(),
	})
	if err != nil {
		g.logger.Printf("leaderboard: %v", err)
		return
	}
	g.logger.Printf("%s placed #%d with %d points", g.player, g.rank, snap.Score)
	g.refreshLeaderboard()
}

func (g *Game) refreshLeaderboard() {
	records, err := g.board.Top(context.Background())
	if err != nil {
		g.logger.Printf("leaderboard: %v", err)
		return
	}
	g.records = records
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawField(screen, g.session.Snapshot(), g.records, g.rank)
	if g.debug {
		g.backend.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.backend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
