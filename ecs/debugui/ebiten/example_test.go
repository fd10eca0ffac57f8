package ebiten_test

import (
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/tetracube/ecs/debugui"
	debugui_ebiten "github.com/plus3/tetracube/ecs/debugui/ebiten"
	"github.com/plus3/tetracube/field"
	"github.com/plus3/tetracube/game"
)

// Game implements ebiten.Game and draws the debug overlay over a session.
type Game struct {
	session      *game.Session
	imguiBackend *debugui_ebiten.ImguiBackend
}

func (g *Game) Update() error {
	// Begin ImGui frame before executing systems
	g.imguiBackend.BeginFrame()

	// Tick the session, which runs ImguiSystem after the game systems
	g.session.Tick(time.Second / 60)

	// End ImGui frame after systems complete
	g.imguiBackend.EndFrame()

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	// Draw the field here, then the ImGui overlay on top
	g.imguiBackend.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.imguiBackend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func Example() {
	imguiBackend := debugui_ebiten.NewImguiBackend("Tetracube Debug", 1280, 720)

	settings := game.DefaultSettings()
	settings.Size = field.Size5x5

	session, err := game.NewSession(settings,
		game.WithComponents(debugui.RegisterComponents),
		game.WithSystems(&debugui.ImguiSystem{}),
	)
	if err != nil {
		panic(err)
	}

	debugui.Install(session.Storage(), session.Scheduler(), 120)
	session.Storage().Spawn(debugui.ImguiItem{
		Render: func() {
			imgui.Begin("Score")
			imgui.Text("Hello from the session!")
			imgui.End()
		},
	})

	g := &Game{session: session, imguiBackend: imguiBackend}
	if err := ebiten.RunGame(g); err != nil {
		panic(err)
	}
}
