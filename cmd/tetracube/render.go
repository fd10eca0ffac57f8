package main

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/tetracube/field"
	"github.com/plus3/tetracube/game"
	"github.com/plus3/tetracube/leaderboard"
	"golang.org/x/image/colornames"
)

const (
	cellSize   = 24
	panelGap   = 48
	panelTop   = 96
	panelLeft  = 40
	blinkSteps = 8
)

// projection maps a cube's lattice cell to panel coordinates plus a depth.
// Cells with larger depth are drawn later, in front. Cells projected outside
// the panel, such as a fresh piece above the ceiling, are skipped.
type projection struct {
	title      string
	cols, rows int
	originX    float32
	project    func(x, y, z int) (u, v, depth int)
}

func projections(bounds field.Bounds) []projection {
	fp := bounds.Size.Footprint()
	h := field.Height

	top := projection{
		title:   "top (x/z)",
		cols:    fp,
		rows:    fp,
		project: func(x, y, z int) (int, int, int) { return x, z, y },
	}
	front := projection{
		title:   "front (x/y)",
		cols:    fp,
		rows:    h,
		project: func(x, y, z int) (int, int, int) { return x, h - 1 - y, z },
	}
	side := projection{
		title:   "side (z/y)",
		cols:    fp,
		rows:    h,
		project: func(x, y, z int) (int, int, int) { return fp - 1 - z, h - 1 - y, x },
	}

	ps := []projection{top, front, side}
	x := float32(panelLeft)
	for i := range ps {
		ps[i].originX = x
		x += float32(ps[i].cols*cellSize + panelGap)
	}
	return ps
}

// cell converts a world coordinate to lattice indices, with y counted from
// the lowest playable layer.
func cell(bounds field.Bounds, c game.CubeView) (int, int, int) {
	x := field.Row(c.Coord.X() - bounds.Min.X())
	y := field.Row(c.Coord.Y()-bounds.Min.Y()) - 1
	z := field.Row(c.Coord.Z() - bounds.Min.Z())
	return x, y, z
}

type drawCube struct {
	u, v, depth int
	cube        game.CubeView
	active      bool
}

func drawField(screen *ebiten.Image, snap game.Snapshot, records []leaderboard.Record, rank int) {
	screen.Fill(colornames.Midnightblue)

	var cubes []game.CubeView
	cubes = append(cubes, snap.Landed...)
	if blinkOn(snap.ClearProgress) {
		cubes = append(cubes, snap.Clearing...)
	}
	var active []game.CubeView
	if snap.Active != nil {
		active = snap.Active.Cubes
	}

	for _, p := range projections(snap.Bounds) {
		drawPanel(screen, snap.Bounds, p, cubes, active)
	}

	drawHUD(screen, snap, records, rank)
}

func blinkOn(progress float64) bool {
	return int(progress*blinkSteps)%2 == 0
}

func drawPanel(screen *ebiten.Image, bounds field.Bounds, p projection, cubes, active []game.CubeView) {
	w := float32(p.cols * cellSize)
	h := float32(p.rows * cellSize)

	vector.DrawFilledRect(screen, p.originX, panelTop, w, h, colornames.Black, false)
	for i := 1; i < p.cols; i++ {
		x := p.originX + float32(i*cellSize)
		vector.StrokeLine(screen, x, panelTop, x, panelTop+h, 1, colornames.Darkslategray, false)
	}
	for i := 1; i < p.rows; i++ {
		y := panelTop + float32(i*cellSize)
		vector.StrokeLine(screen, p.originX, y, p.originX+w, y, 1, colornames.Darkslategray, false)
	}
	vector.StrokeRect(screen, p.originX, panelTop, w, h, 2, colornames.Lightgray, false)
	ebitenutil.DebugPrintAt(screen, p.title, int(p.originX), panelTop-18)

	var items []drawCube
	for _, c := range cubes {
		x, y, z := cell(bounds, c)
		u, v, d := p.project(x, y, z)
		items = append(items, drawCube{u: u, v: v, depth: d, cube: c})
	}
	for _, c := range active {
		x, y, z := cell(bounds, c)
		u, v, d := p.project(x, y, z)
		items = append(items, drawCube{u: u, v: v, depth: d, cube: c, active: true})
	}
	slices.SortStableFunc(items, func(a, b drawCube) int { return cmp.Compare(a.depth, b.depth) })

	for _, item := range items {
		if item.u < 0 || item.u >= p.cols || item.v < 0 || item.v >= p.rows {
			continue
		}
		x := p.originX + float32(item.u*cellSize)
		y := panelTop + float32(item.v*cellSize)
		vector.DrawFilledRect(screen, x+1, y+1, cellSize-2, cellSize-2, item.cube.Color, false)
		if item.cube.Textured {
			vector.StrokeLine(screen, x+3, y+3, x+cellSize-3, y+cellSize-3, 2, colornames.White, true)
			vector.StrokeLine(screen, x+cellSize-3, y+3, x+3, y+cellSize-3, 2, colornames.White, true)
		}
		if item.active {
			vector.StrokeRect(screen, x+1, y+1, cellSize-2, cellSize-2, 2, colornames.White, false)
		}
	}
}

func drawHUD(screen *ebiten.Image, snap game.Snapshot, records []leaderboard.Record, rank int) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score: %d   Rows: %d   Next: %v   Field: %v",
		snap.Score, snap.Rows, snap.Next, snap.Bounds.Size), panelLeft, 16)

	status := "Gravity on"
	switch {
	case snap.Over:
		status = "GAME OVER - press R to restart"
		if rank > 0 {
			status += fmt.Sprintf(" (new highscore, #%d)", rank)
		}
	case !snap.Started:
		status = "Press Enter to start"
	case !snap.Gravity:
		status = "Gravity paused (P)"
	}
	ebitenutil.DebugPrintAt(screen, status, panelLeft, 36)

	ebitenutil.DebugPrintAt(screen,
		"WASD/arrows move   X Y Z rotate (shift reverses)   space drop   P gravity   F1 debug",
		panelLeft, 56)

	y := panelTop + field.Height*cellSize + 24
	ebitenutil.DebugPrintAt(screen, "Leaderboard", panelLeft, y)
	for i, r := range records {
		y += 16
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d. %-12s %6d  %s", i+1, r.Player, r.Score, r.Field), panelLeft, y)
	}
}
