// Command tetracube-bench plays headless sessions with random input and
// prints a timing report of the game systems.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/plus3/tetracube/config"
	"github.com/plus3/tetracube/game"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML config file.")
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	sessionCount := flag.Int("sessions", 16, "The number of concurrent sessions to play.")
	actionRate := flag.Float64("action-rate", 0.3, "Probability of pressing a random action each tick.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	settings, err := cfg.Settings()
	if err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	log.Println("Starting tetracube bench...")

	bench, err := newBench(settings, *sessionCount, *actionRate)
	if err != nil {
		log.Fatalf("Failed to create sessions: %v", err)
	}

	report := &Report{
		Duration:       *duration,
		Sessions:       *sessionCount,
		Field:          settings.Size.String(),
		ActionRate:     *actionRate,
		GCPauseMetrics: *gcPauseMetrics,
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running sessions for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			updateStart := time.Now()
			bench.step(time.Second / 60)
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			report.TotalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)
	bench.fill(report)

	log.Println("Run finished.")

	fmt.Println("\n\n--- Bench Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}

type bench struct {
	sessions   []*game.Session
	actions    []game.Action
	actionRate float64
	rng        *rand.Rand

	gamesOver int
	scores    []int
	rows      int
}

func newBench(settings game.Settings, count int, actionRate float64) (*bench, error) {
	b := &bench{
		actions:    playableActions(),
		actionRate: actionRate,
		rng:        rand.New(rand.NewPCG(settings.Seed, 0)),
	}

	for i := range count {
		s := settings
		s.Seed = settings.Seed + uint64(i)
		session, err := game.NewSession(s)
		if err != nil {
			return nil, err
		}
		session.Start()
		b.sessions = append(b.sessions, session)
	}
	return b, nil
}

// playableActions excludes restart, the gravity toggle and the I-piece
// shortcut.
func playableActions() []game.Action {
	var out []game.Action
	for _, a := range game.Actions() {
		if a == game.Restart || a == game.SpawnIPiece || a == game.ToggleGravity {
			continue
		}
		out = append(out, a)
	}
	return out
}

func (b *bench) step(dt time.Duration) {
	for _, session := range b.sessions {
		if session.Over() {
			snap := session.Snapshot()
			b.gamesOver++
			b.scores = append(b.scores, snap.Score)
			b.rows += snap.Rows
			session.Restart()
		} else if b.rng.Float64() < b.actionRate {
			session.Press(b.actions[b.rng.IntN(len(b.actions))])
		}
		session.Tick(dt)
	}
}

func (b *bench) fill(r *Report) {
	for _, session := range b.sessions {
		snap := session.Snapshot()
		b.scores = append(b.scores, snap.Score)
		b.rows += snap.Rows
	}

	r.GamesOver = b.gamesOver
	r.RowsCleared = b.rows
	for _, score := range b.scores {
		r.BestScore = max(r.BestScore, score)
		r.TotalScore += score
	}
	if len(b.sessions) > 0 {
		r.Systems = mergeSystemStats(b.sessions)
	}
}
