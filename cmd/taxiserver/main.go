// Package main is the taxi game server entry point. It wires configuration,
// logging, the save store, the offer generator, and the WebSocket API
// together and runs them under lifecycle management.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/dmelnik/taxidriver/internal/api"
	"github.com/dmelnik/taxidriver/internal/config"
	"github.com/dmelnik/taxidriver/internal/game/catalog"
	"github.com/dmelnik/taxidriver/internal/game/flavor"
	"github.com/dmelnik/taxidriver/internal/game/offer"
	"github.com/dmelnik/taxidriver/internal/game/player"
	"github.com/dmelnik/taxidriver/internal/game/shift"
	"github.com/dmelnik/taxidriver/internal/observability"
	"github.com/dmelnik/taxidriver/internal/server"
	"github.com/dmelnik/taxidriver/internal/storage"
	"github.com/dmelnik/taxidriver/internal/storage/postgres"
)

const saveWriteTimeout = 3 * time.Second

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	catalogPath := flag.String("catalog", "content/catalog.yaml", "path to vehicle catalog file")
	flag.Parse()

	if err := run(*configPath, *catalogPath); err != nil {
		fmt.Fprintf(os.Stderr, "taxiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, catalogPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cat, err := catalog.LoadFromFile(catalogPath)
	if err != nil {
		logger.Warn("loading catalog failed, using built-in fleet",
			zap.String("path", catalogPath),
			zap.Error(err))
		cat = catalog.Default()
	}
	logger.Info("catalog loaded", zap.Int("vehicles", cat.Len()))

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	fallback := player.Default(cat.Starter().ID)
	saves := postgres.NewSaveRepository(pool.DB(), fallback, logger)

	st, err := saves.Load(ctx, cfg.Game.SaveSlot)
	if err != nil {
		return fmt.Errorf("loading save slot %q: %w", cfg.Game.SaveSlot, err)
	}
	logger.Info("save loaded",
		zap.String("slot", cfg.Game.SaveSlot),
		zap.Int("day", st.Day),
		zap.Int("money", st.Money))

	saver := storage.NewAsync(saves, cfg.Game.SaveSlot, saveWriteTimeout, logger)

	src := offer.NewCryptoSource()
	gen := offer.NewGenerator(src, buildFlavorProvider(cfg.Flavor, logger), logger)

	session := shift.NewSession(st, cat, gen, src, saver, nil, shift.Config{
		SearchDelay:     cfg.Game.SearchDelay,
		RequeueDelay:    cfg.Game.RequeueDelay,
		DrivingDuration: cfg.Game.DrivingDuration,
		BonusChance:     cfg.Game.BonusChance,
	}, logger)

	apiServer := api.NewServer(cfg.Server.Addr(), session, logger)

	lc := server.NewLifecycle(logger)
	lc.Add("saver", &server.FuncService{
		StartFn: func() error { return nil },
		StopFn:  saver.Close,
	})
	lc.Add("session", &server.FuncService{
		StartFn: func() error { return nil },
		StopFn:  session.Close,
	})
	lc.Add("api", apiServer)

	return lc.Run(ctx)
}

// buildFlavorProvider selects the configured passenger text source. Any
// remote provider is wrapped so a failure degrades to the canned record
// instead of stalling the search flow.
func buildFlavorProvider(cfg config.FlavorConfig, logger *zap.Logger) flavor.Provider {
	if cfg.Provider == "anthropic" && cfg.APIKey != "" {
		logger.Info("using anthropic flavor provider", zap.String("model", cfg.Model))
		return flavor.WithFallback(flavor.NewAnthropic(cfg.APIKey, cfg.Model), cfg.Timeout, logger)
	}
	if cfg.Provider == "anthropic" {
		logger.Warn("anthropic flavor provider configured without api key, using static provider")
	}
	return flavor.WithFallback(flavor.NewStatic(), cfg.Timeout, logger)
}
