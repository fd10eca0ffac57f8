// Command tetracube-server serves game sessions over websockets.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plus3/tetracube/config"
	"github.com/plus3/tetracube/server"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML config file.")
	addr := flag.String("addr", "", "Listen address, overrides server.addr.")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
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

	logger := log.New(os.Stderr, "[server] ", log.LstdFlags)
	srv := server.New(server.Options{
		Settings:     settings,
		TickInterval: cfg.TickInterval(),
		Logger:       logger,
	}, board)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown: %v", err)
		}
	}()

	logger.Printf("Listening on %s (field %v, %d ticks/s)", cfg.Server.Addr, settings.Size, cfg.Server.TickRate)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
	logger.Printf("Stopped with %d connections open", srv.Connections())
}
