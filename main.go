package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/config"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/input"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/logging"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/sim"
)

func main() {
	configPath := flag.String("config", "world.toml", "path to the TOML config")
	headless := flag.Bool("headless", false, "step without a window")
	seconds := flag.Float64("seconds", 0, "simulated seconds to run headless (0 uses the config)")
	levelName := flag.String("level", "", "initial map id, overrides the config")
	debug := flag.Bool("debug", false, "draw vision ranges and AI state")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *levelName != "" {
		cfg.World.InitialMap = *levelName
	}
	if *headless {
		cfg.Simulation.Headless = true
	}
	if *seconds > 0 {
		cfg.Simulation.HeadlessSeconds = *seconds
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Simulation.Headless {
		if err := runHeadless(ctx, cfg, logger); err != nil {
			logger.Fatal("headless run", zap.Error(err))
		}
		return
	}

	game, err := NewGame(ctx, cfg, logger, *debug)
	if err != nil {
		logger.Fatal("start", zap.Error(err))
	}
	defer func() { _ = game.Close() }()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("DivineBloom world test")
	ebiten.SetTPS(cfg.Simulation.TickRate)

	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		logger.Fatal("run", zap.Error(err))
	}
}

func runHeadless(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	s, err := sim.New(ctx, sim.Options{Config: cfg, Input: input.NewScripted(), Log: logger})
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.Start(ctx); err != nil {
		return err
	}
	if err := s.Run(ctx, cfg.Simulation.HeadlessSeconds); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("headless run finished",
		zap.Float64("time", s.Time()),
		zap.Uint64("frames", s.Frames()),
		zap.String("map", s.Scene.CurrentMap()),
		zap.Int("entities", s.World.Len()),
		zap.Int("waves", s.Wave()),
	)
	return nil
}
