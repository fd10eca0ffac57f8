package main

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/tetracube/game"
)

// renderSessionPanel is spawned as an ImguiItem and runs inside the
// session's own tick, after the game systems.
func (g *Game) renderSessionPanel() {
	if !imgui.BeginV("Session", nil, imgui.WindowFlagsAlwaysAutoResize) {
		imgui.End()
		return
	}

	snap := g.session.Snapshot()
	settings := g.session.Settings()

	imgui.Text(fmt.Sprintf("Player: %s", g.player))
	imgui.Text(fmt.Sprintf("Field: %v   Seed: %d", settings.Size, settings.Seed))
	imgui.Text(fmt.Sprintf("Score: %d   Rows: %d", snap.Score, snap.Rows))
	imgui.Text(fmt.Sprintf("Next: %v", snap.Next))
	imgui.Text(fmt.Sprintf("Landed cubes: %d", len(snap.Landed)))

	if len(snap.Clearing) > 0 {
		imgui.ProgressBarV(float32(snap.ClearProgress), imgui.NewVec2(-1, 0), "clearing")
	}

	gravity := snap.Gravity
	if imgui.Checkbox("Gravity", &gravity) && gravity != snap.Gravity {
		g.session.Press(game.ToggleGravity)
	}

	if !snap.Started && imgui.Button("Start") {
		g.session.Start()
	}
	imgui.SameLine()
	if imgui.Button("Restart") {
		g.rank = 0
		g.session.Restart()
	}
	imgui.SameLine()
	if imgui.Button("I piece") {
		g.session.Press(game.SpawnIPiece)
	}

	if snap.Over {
		imgui.Separator()
		imgui.Text(fmt.Sprintf("Game over with %d points", snap.Score))
	}

	if imgui.TreeNodeStr("Leaderboard") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("LeaderboardTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("#")
			imgui.TableSetupColumn("Player")
			imgui.TableSetupColumn("Score")
			imgui.TableSetupColumn("Field")
			imgui.TableHeadersRow()

			for i, r := range g.records {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", i+1))
				imgui.TableNextColumn()
				imgui.Text(r.Player)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", r.Score))
				imgui.TableNextColumn()
				imgui.Text(r.Field)
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}
