// Command tetracube is the desktop client: a top and a front projection of
// the field, keyboard controls and an optional Dear ImGui debug overlay.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/tetracube/config"
	"github.com/plus3/tetracube/ecs/debugui"
	debugui_ebiten "github.com/plus3/tetracube/ecs/debugui/ebiten"
	"github.com/plus3/tetracube/game"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720
)

func main() {
	configPath := flag.String("config", "", "Optional YAML config file.")
	fieldSize := flag.String("field", "", "Field size (4x4, 5x5 or 6x6), overrides the config.")
	player := flag.String("player", "", "Name recorded on the leaderboard, overrides the config.")
	debug := flag.Bool("debug", false, "Show the ImGui debug overlay (toggle with F1).")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *fieldSize != "" {
		cfg.Field = *fieldSize
	}
	if *player != "" {
		cfg.Player = *player
	}

	settings, err := cfg.Settings()
	if err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	board, err := cfg.OpenLeaderboard()
	if err != nil {
		log.Fatalf("Failed to open leaderboard: %v", err)
	}
	defer board.Close()

	backend := debugui_ebiten.NewImguiBackend("Tetracube", ScreenWidth, ScreenHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := &Game{
		player:  cfg.Player,
		board:   board,
		backend: backend,
		debug:   *debug,
		logger:  log.New(os.Stderr, "[tetracube] ", log.LstdFlags),
	}

	session, err := game.NewSession(settings,
		game.WithLogger(g.logger),
		game.WithNotifier(g),
		game.WithComponents(debugui.RegisterComponents),
		game.WithSystems(&debugui.ImguiSystem{}),
	)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}
	g.session = session

	debugui.Install(session.Storage(), session.Scheduler(), 120)
	session.Storage().Spawn(debugui.ImguiItem{Render: g.renderSessionPanel})

	g.refreshLeaderboard()

	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("Game failed: %v", err)
	}
}
