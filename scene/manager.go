package scene

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/system"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/levels"
)

type Mode string

const (
	ModeExplore   Mode = "explore"
	ModeSwitching Mode = "switching"
	ModeBattle    Mode = "battle"
)

const (
	evSwitch  = "switch"
	evLoaded  = "loaded"
	evBattle  = "battle"
	evResolve = "resolve"
)

const (
	EventSceneChanged  = ecs.EventType("scene.changed")
	EventBattleStarted = ecs.EventType("battle.started")
	EventBattleEnded   = ecs.EventType("battle.ended")
	EventToast         = ecs.EventType("ui.toast")
)

var ErrBusy = errors.New("scene: transition not allowed in current mode")

type MapSwitchRequest struct {
	MapID   string
	EntryID string
}

type BattleRequest struct {
	BattleID   string
	EnemyGroup []string
	// Enemy is the world entity that started the encounter.
	Enemy ecs.Entity
}

type BattleOutcome struct {
	BattleID string
	Won      bool
}

type MapLoader interface {
	Load(id string) (*levels.Level, error)
}

// LoaderFunc adapts a function to MapLoader.
type LoaderFunc func(id string) (*levels.Level, error)

func (f LoaderFunc) Load(id string) (*levels.Level, error) { return f(id) }

// BattleHandler runs a battle outside the world. It reports back through
// Manager.ResolveBattle.
type BattleHandler interface {
	StartBattle(req BattleRequest)
}

// Resetter is any per-scene state that must forget the previous map.
type Resetter interface {
	Reset()
}

// Manager owns scene transitions. Requests raised during a frame are only
// recorded; Apply performs them after the frame, outside any query.
type Manager struct {
	world   *ecs.World
	queues  *ecs.Queues
	spawner system.Spawner
	loader  MapLoader
	battles BattleHandler
	log     *zap.Logger

	// OnPause is told whether world AI should be frozen.
	OnPause func(paused bool)
	// Now reports the simulated time stamped onto scene signals.
	Now func() float64

	resetters []Resetter
	fsm       *fsm.FSM

	current       *levels.Level
	pendingSwitch *MapSwitchRequest
	pendingBattle *BattleRequest
	battle        *BattleRequest
}

func NewManager(w *ecs.World, queues *ecs.Queues, spawner system.Spawner, loader MapLoader, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	if loader == nil {
		loader = LoaderFunc(levels.Load)
	}
	m := &Manager{
		world:   w,
		queues:  queues,
		spawner: spawner,
		loader:  loader,
		log:     log.With(zap.String("component", "scene")),
	}
	m.fsm = fsm.NewFSM(
		string(ModeExplore),
		fsm.Events{
			{Name: evSwitch, Src: []string{string(ModeExplore)}, Dst: string(ModeSwitching)},
			{Name: evLoaded, Src: []string{string(ModeSwitching)}, Dst: string(ModeExplore)},
			{Name: evBattle, Src: []string{string(ModeExplore)}, Dst: string(ModeBattle)},
			{Name: evResolve, Src: []string{string(ModeBattle)}, Dst: string(ModeExplore)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				m.log.Debug("mode", zap.String("from", e.Src), zap.String("to", e.Dst))
				if m.OnPause != nil {
					m.OnPause(e.Dst == string(ModeBattle))
				}
			},
		},
	)
	return m
}

// SetBattleHandler replaces the battle collaborator.
func (m *Manager) SetBattleHandler(h BattleHandler) {
	m.battles = h
}

// Track registers per-scene state reset by ClearScene.
func (m *Manager) Track(r ...Resetter) {
	m.resetters = append(m.resetters, r...)
}

func (m *Manager) Mode() Mode {
	return Mode(m.fsm.Current())
}

func (m *Manager) CurrentMap() string {
	if m.current == nil {
		return ""
	}
	return m.current.ID
}

func (m *Manager) Level() *levels.Level {
	return m.current
}

// Battle returns the running battle, if any.
func (m *Manager) Battle() (BattleRequest, bool) {
	if m.battle == nil {
		return BattleRequest{}, false
	}
	return *m.battle, true
}

// Pending reports whether a request waits for Apply.
func (m *Manager) Pending() bool {
	return m.pendingSwitch != nil || m.pendingBattle != nil
}

// RequestMapSwitch records a switch. The first request of a frame wins.
func (m *Manager) RequestMapSwitch(req MapSwitchRequest) bool {
	if req.MapID == "" {
		m.log.Warn("map switch without target")
		return false
	}
	if m.pendingSwitch != nil || !m.fsm.Can(evSwitch) {
		m.log.Debug("map switch dropped", zap.String("map", req.MapID), zap.String("mode", m.fsm.Current()))
		return false
	}
	m.pendingSwitch = &req
	return true
}

// RequestBattle records a battle. It is ignored while another battle or a
// switch is pending.
func (m *Manager) RequestBattle(req BattleRequest) bool {
	if m.pendingBattle != nil || m.pendingSwitch != nil || !m.fsm.Can(evBattle) {
		m.log.Debug("battle dropped", zap.String("battle", req.BattleID), zap.String("mode", m.fsm.Current()))
		return false
	}
	req.EnemyGroup = slices.Clone(req.EnemyGroup)
	m.pendingBattle = &req
	return true
}

// Apply performs the request recorded this frame. A map switch takes
// precedence over a battle.
func (m *Manager) Apply(ctx context.Context) error {
	switch {
	case m.pendingSwitch != nil:
		req := *m.pendingSwitch
		m.pendingSwitch = nil
		m.pendingBattle = nil
		return m.SwitchMap(ctx, req)
	case m.pendingBattle != nil:
		req := *m.pendingBattle
		m.pendingBattle = nil
		return m.startBattle(ctx, req)
	}
	return nil
}

// SwitchMap clears the scene and loads req.MapID with the player placed at
// req.EntryID. The current scene is left untouched if the map cannot be read.
func (m *Manager) SwitchMap(ctx context.Context, req MapSwitchRequest) error {
	lvl, err := m.loader.Load(req.MapID)
	if err != nil {
		m.log.Error("load map", zap.String("map", req.MapID), zap.Error(err))
		return fmt.Errorf("scene: load %s: %w", req.MapID, err)
	}
	if err := m.fsm.Event(ctx, evSwitch); err != nil {
		return fmt.Errorf("%w: %v", ErrBusy, err)
	}
	m.ClearScene()
	m.populate(lvl, req.EntryID)
	if err := m.fsm.Event(ctx, evLoaded); err != nil {
		return fmt.Errorf("scene: finish switch: %w", err)
	}
	m.log.Info("scene loaded", zap.String("map", lvl.ID), zap.String("entry", req.EntryID), zap.Int("entities", m.world.Len()))
	return nil
}

// ClearScene destroys every entity not flagged to survive scene changes and
// resets the queues, both spatial maps and every tracked resetter.
func (m *Manager) ClearScene() {
	w := m.world
	for _, e := range ecs.Entities(w) {
		if !w.IsAlive(e) {
			continue
		}
		if p, ok := ecs.Get(w, e, component.PersistentComponent.Kind()); ok && p.KeepOnSceneChange {
			continue
		}
		ecs.DestroyEntity(w, e)
	}
	w.FlushDestroyed()
	if m.queues != nil {
		m.queues.Reset()
	}
	if idx := w.SpatialIndex(); idx != nil {
		idx.Reset()
	}
	for _, r := range m.resetters {
		r.Reset()
	}
	m.current = nil
}

func (m *Manager) populate(lvl *levels.Level, entryID string) {
	w := m.world
	for i, ent := range lvl.Entities {
		if _, ok := m.spawner.Build(w, ent.Archetype, ent.Data); !ok {
			m.log.Warn("skip map entity", zap.String("map", lvl.ID), zap.Int("index", i), zap.String("archetype", ent.Archetype))
		}
	}

	global, ok := ecs.First(w, component.GlobalTagComponent.Kind())
	if !ok {
		global, ok = m.spawner.Build(w, "global", nil)
	}
	if ok {
		if lb, has := ecs.Get(w, global, component.LevelBoundsComponent.Kind()); has {
			lb.Width, lb.Height = lvl.Width, lvl.Height
		}
	}

	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		player, ok = m.spawner.Build(w, "player", nil)
	}
	if ok {
		m.place(lvl, player, entryID)
	}

	m.current = lvl
	now := 0.0
	if m.Now != nil {
		now = m.Now()
	}
	m.queues.Signals.Push(ecs.Signal{Kind: ecs.SignalSceneLoad, MapID: lvl.ID, Time: now})
	m.queues.Events.Emit(EventSceneChanged, lvl.ID)
}

func (m *Manager) place(lvl *levels.Level, player ecs.Entity, entryID string) {
	entry, ok := lvl.Entry(entryID)
	switch {
	case ok:
	case len(lvl.Entries) > 0:
		m.log.Warn("unknown entry, using first", zap.String("map", lvl.ID), zap.String("entry", entryID))
		entry = lvl.Entries[0]
	default:
		entry = levels.Entry{X: lvl.Width / 2, Y: lvl.Height / 2}
	}
	if tr, has := ecs.Get(m.world, player, component.TransformComponent.Kind()); has {
		tr.X, tr.Y = entry.X, entry.Y
	}
	if v, has := ecs.Get(m.world, player, component.VelocityComponent.Kind()); has {
		*v = component.Velocity{}
	}
}

func (m *Manager) startBattle(ctx context.Context, req BattleRequest) error {
	if err := m.fsm.Event(ctx, evBattle); err != nil {
		return fmt.Errorf("%w: %v", ErrBusy, err)
	}
	m.battle = &req
	m.queues.Events.Emit(EventBattleStarted, req.BattleID)
	if m.battles != nil {
		m.battles.StartBattle(req)
	}
	return nil
}

// ResolveBattle returns to exploration. A won battle removes the enemy that
// started it.
func (m *Manager) ResolveBattle(ctx context.Context, out BattleOutcome) error {
	if m.battle == nil {
		return fmt.Errorf("%w: no battle running", ErrBusy)
	}
	if err := m.fsm.Event(ctx, evResolve); err != nil {
		return fmt.Errorf("%w: %v", ErrBusy, err)
	}
	req := *m.battle
	m.battle = nil
	if out.Won {
		m.world.QueueDestroy(req.Enemy)
	}
	m.queues.Events.Emit(EventBattleEnded, out)
	return nil
}

// Routes returns the action routes that feed this manager.
func (m *Manager) Routes() []system.ActionRoute {
	return []system.ActionRoute{
		system.MapPortalRoute(func(_ *ecs.World, _ ecs.Entity, p component.Portal) {
			m.RequestMapSwitch(MapSwitchRequest{MapID: p.TargetMap, EntryID: p.TargetEntry})
		}),
		system.IntentRoute(component.IntentMapSwitch, func(_ *ecs.World, _ ecs.Entity, in component.Intent) {
			m.RequestMapSwitch(MapSwitchRequest{MapID: in.MapID, EntryID: in.EntryID})
		}),
		system.IntentRoute(component.IntentBattle, func(_ *ecs.World, source ecs.Entity, in component.Intent) {
			m.RequestBattle(BattleRequest{BattleID: in.BattleID, EnemyGroup: in.EnemyGroup, Enemy: source})
		}),
	}
}
