package sim

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/config"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/entity"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/system"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/input"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/prefabs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/scene"
)

type Options struct {
	Config  *config.Config
	Catalog *prefabs.Catalog
	Input   input.Provider
	Loader  scene.MapLoader
	// Battles runs battles. When nil every battle is won on the next step.
	Battles scene.BattleHandler
	Log     *zap.Logger
}

// Simulation owns one world and everything that advances it.
type Simulation struct {
	World   *ecs.World
	Queues  *ecs.Queues
	Index   *ecs.SpatialHash
	Catalog *prefabs.Catalog
	Factory *entity.Factory
	Scene   *scene.Manager
	Events  *ecs.EventRouter

	cfg       *config.Config
	log       *zap.Logger
	scheduler *ecs.Scheduler
	ai        *system.AISystem
	rules     *system.SpawnRuleSystem
	waves     *system.WaveSystem
	watcher   *prefabs.Watcher
	auto      *autoBattles

	dt     float64
	time   float64
	frames uint64
}

func New(ctx context.Context, opts Options) (*Simulation, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Prefabs.Dir != "" {
		prefabs.DiskDir = cfg.Prefabs.Dir
	}

	catalog := opts.Catalog
	if catalog == nil {
		var err error
		catalog, err = prefabs.Preload(ctx)
		if err != nil {
			return nil, fmt.Errorf("sim: preload prefabs: %w", err)
		}
	}

	w := ecs.NewWorld()
	index := ecs.NewSpatialHash(cfg.Simulation.CellSize)
	w.SetSpatialIndex(index)
	queues := ecs.NewQueues()
	factory := entity.NewFactory(catalog, log)

	s := &Simulation{
		World:     w,
		Queues:    queues,
		Index:     index,
		Catalog:   catalog,
		Factory:   factory,
		Scene:     scene.NewManager(w, queues, factory, opts.Loader, log),
		Events:    ecs.NewEventRouter(),
		cfg:       cfg,
		log:       log.With(zap.String("component", "sim")),
		scheduler: ecs.NewScheduler(),
		dt:        cfg.DT(),
	}
	s.Scene.Now = s.Time
	if opts.Battles != nil {
		s.Scene.SetBattleHandler(opts.Battles)
	} else {
		s.auto = &autoBattles{}
		s.Scene.SetBattleHandler(s.auto)
	}

	s.registerSystems(opts.Input, log)
	s.registerEvents()

	if cfg.Prefabs.Watch {
		watcher, err := prefabs.NewWatcher(log, prefabs.DiskDir)
		if err != nil {
			s.log.Warn("prefab watch disabled", zap.String("dir", prefabs.DiskDir), zap.Error(err))
		} else {
			s.watcher = watcher
		}
	}
	return s, nil
}

func (s *Simulation) registerSystems(provider input.Provider, log *zap.Logger) {
	cfg := s.cfg

	perception := system.NewPerceptionSystem(log)
	perception.Interval = cfg.Simulation.PerceptionInterval
	perception.MaxObstacles = cfg.Simulation.MaxObstacles
	perception.ObstacleRange = cfg.Simulation.ObstacleRange

	tuning := system.DefaultAITuning()
	tuning.Seed = cfg.Simulation.Seed
	tuning.WanderMin = cfg.AI.WanderMin
	tuning.WanderMax = cfg.AI.WanderMax
	tuning.IdleChance = cfg.AI.IdleChance
	tuning.FleeDistance = cfg.AI.FleeDistance
	tuning.RecomputeInterval = cfg.AI.RecomputeInterval
	tuning.AvoidRadius = cfg.AI.AvoidRadius
	s.ai = system.NewAISystem(tuning, log)
	s.Scene.OnPause = func(paused bool) { s.ai.Paused = paused }

	portals := system.NewPortalSystem(s.Queues.Actions)
	s.waves = system.NewWaveSystem(s.Queues.Signals, cfg.Waves.Interval, cfg.Waves.MaxWaves)
	s.rules = system.NewSpawnRuleSystem(s.Queues.Signals, s.Factory, s.Catalog.SpawnRules(), log)
	s.rules.CurrentMap = s.Scene.CurrentMap

	dispatch := system.NewActionDispatchSystem(s.Queues.Actions, log, system.TeleportRoute())
	for _, r := range s.Scene.Routes() {
		dispatch.Route(r)
	}

	if provider != nil {
		s.scheduler.Add(ecs.PhaseInput, system.NewInputSystem(provider))
	}
	s.scheduler.Add(ecs.PhasePerception, perception)
	s.scheduler.Add(ecs.PhaseDecision, s.ai)
	s.scheduler.Add(ecs.PhaseControl, system.NewControlSystem(log))
	s.scheduler.Add(ecs.PhaseMovement, system.NewMovementSystem(log))
	s.scheduler.Add(ecs.PhaseMovement, system.NewSpatialIndexSystem())
	s.scheduler.Add(ecs.PhaseGameplay, portals)
	s.scheduler.Add(ecs.PhaseGameplay, system.NewEncounterSystem(s.Queues.Actions))
	s.scheduler.Add(ecs.PhaseGameplay, system.NewProjectileSystem(s.Queues.Events, log))
	s.scheduler.Add(ecs.PhaseGameplay, system.NewLifetimeSystem())
	s.scheduler.Add(ecs.PhaseGameplay, system.NewCommandSystem(s.Factory, log))
	s.scheduler.Add(ecs.PhaseGameplay, s.waves)
	s.scheduler.Add(ecs.PhaseGameplay, s.rules)
	s.scheduler.Add(ecs.PhaseActions, dispatch)
	s.scheduler.Add(ecs.PhaseCleanup, system.NewCleanupSystem(log))

	s.Scene.Track(portals, s.waves, perception)
}

func (s *Simulation) registerEvents() {
	info := func(msg string) ecs.EventHandler {
		return func(evt ecs.Event) {
			s.log.Info(msg, zap.Any("data", evt.Data), zap.Float64("time", s.time))
		}
	}
	s.Events.Handle(scene.EventToast, info("toast"))
	s.Events.Handle(scene.EventSceneChanged, info("scene changed"))
	s.Events.Handle(scene.EventBattleStarted, info("battle started"))
	s.Events.Handle(scene.EventBattleEnded, info("battle ended"))
	s.Events.Handle(system.EventEnemyDefeated, info("enemy defeated"))
	s.Events.Unmatched = func(evt ecs.Event) {
		s.log.Debug("unhandled event", zap.String("type", string(evt.Type)))
	}
}

// Start creates the session entity and loads the configured first map.
func (s *Simulation) Start(ctx context.Context) error {
	if _, ok := s.Factory.Build(s.World, entity.Global, nil); !ok {
		return fmt.Errorf("sim: global entity rejected")
	}
	req := scene.MapSwitchRequest{MapID: s.cfg.World.InitialMap, EntryID: s.cfg.World.InitialEntry}
	if err := s.Scene.SwitchMap(ctx, req); err != nil {
		return err
	}
	s.Events.Dispatch(s.Queues.Events)
	return nil
}

// Step advances the world by one fixed tick and then applies whatever
// scene change the tick requested.
func (s *Simulation) Step(ctx context.Context) error {
	s.reloadPrefabs()

	if s.Scene.Mode() == scene.ModeBattle {
		if s.auto != nil {
			if req, ok := s.auto.next(); ok {
				if err := s.Scene.ResolveBattle(ctx, scene.BattleOutcome{BattleID: req.BattleID, Won: true}); err != nil {
					return err
				}
			}
		}
	} else {
		s.scheduler.Update(s.World, s.dt)
		if n := s.Queues.Signals.Len(); n > 0 {
			s.log.Warn("signals left undrained", zap.Int("count", n))
			s.Queues.Signals.Drain()
		}
	}

	if n := s.Queues.Actions.Len(); n > 0 {
		s.log.Warn("action requests left after dispatch", zap.Int("count", n))
		s.Queues.Actions.Reset()
	}
	s.Queues.Signals.Advance()

	if err := s.Scene.Apply(ctx); err != nil {
		s.log.Error("scene change", zap.Error(err))
	}
	s.Events.Dispatch(s.Queues.Events)

	s.time += s.dt
	s.frames++
	return ctx.Err()
}

// Run steps until seconds of simulated time have passed or ctx ends.
func (s *Simulation) Run(ctx context.Context, seconds float64) error {
	for s.time < seconds {
		if err := s.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulation) reloadPrefabs() {
	if s.watcher == nil {
		return
	}
	for _, path := range s.watcher.Poll() {
		name := filepath.Base(path)
		if err := s.Catalog.Reload(name); err != nil {
			s.log.Error("prefab reload", zap.String("file", name), zap.Error(err))
			continue
		}
		s.log.Info("prefab reloaded", zap.String("file", name))
		if name == prefabs.RulesFile {
			s.rules.SetRules(s.Catalog.SpawnRules())
		}
	}
}

// Time returns the simulated seconds since Start.
func (s *Simulation) Time() float64 {
	return s.time
}

func (s *Simulation) Frames() uint64 {
	return s.frames
}

func (s *Simulation) DT() float64 {
	return s.dt
}

// Wave returns the number of waves raised in the current scene.
func (s *Simulation) Wave() int {
	return s.waves.Wave()
}

func (s *Simulation) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}

// autoBattles wins every battle one step after it starts.
type autoBattles struct {
	pending []scene.BattleRequest
}

func (a *autoBattles) StartBattle(req scene.BattleRequest) {
	a.pending = append(a.pending, req)
}

func (a *autoBattles) next() (scene.BattleRequest, bool) {
	if len(a.pending) == 0 {
		return scene.BattleRequest{}, false
	}
	req := a.pending[0]
	a.pending = a.pending[1:]
	return req, true
}
