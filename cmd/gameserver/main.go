// Package main provides the game server binary: the room directory, prompt
// packs, and the HTTP/websocket gateway players connect through.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/mkelleher/sketchparty/internal/config"
	"github.com/mkelleher/sketchparty/internal/directory"
	"github.com/mkelleher/sketchparty/internal/game/prompt"
	"github.com/mkelleher/sketchparty/internal/game/rng"
	"github.com/mkelleher/sketchparty/internal/gateway"
	"github.com/mkelleher/sketchparty/internal/observability"
	"github.com/mkelleher/sketchparty/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting game server",
		zap.String("addr", cfg.Server.Addr()),
	)

	// Load prompt packs: the bundled pack plus any configured directory.
	packStart := time.Now()
	packs := []*prompt.Pack{prompt.DefaultPack()}
	if cfg.Game.PacksDir != "" {
		extra, err := prompt.LoadPacksFromDir(cfg.Game.PacksDir)
		if err != nil {
			logger.Fatal("loading prompt packs", zap.Error(err))
		}
		packs = append(packs, extra...)
	}
	registry, err := prompt.NewRegistry(packs)
	if err != nil {
		logger.Fatal("building prompt registry", zap.Error(err))
	}
	logger.Info("prompt packs loaded",
		zap.Int("packs", registry.Count()),
		zap.Duration("elapsed", time.Since(packStart)),
	)

	src := rng.NewCryptoSource()
	dir := directory.New(src, logger)

	gw := gateway.New(cfg, dir, registry, logger)
	sweeper := directory.NewSweeper(dir, cfg.Game.SweepInterval, logger)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("gateway", gw)
	lifecycle.Add("sweeper", sweeper)

	logger.Info("initialization complete",
		zap.Duration("elapsed", time.Since(start)),
	)
	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
