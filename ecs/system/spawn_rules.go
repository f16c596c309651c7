package system

import (
	"fmt"
	"maps"

	"github.com/d5/tengo/v2"
	"go.uber.org/zap"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/prefabs"
)

// SpawnRuleSystem drains trigger signals and spawns archetypes for every
// rule whose signal kind and condition match. A rule whose archetype would
// exceed its alive cap defers the signal to the next frame instead of
// dropping it. Conditions see kind, map_id, wave, alive and time.
type SpawnRuleSystem struct {
	// CurrentMap fills map_id for signals that carry none.
	CurrentMap func() string

	signals *ecs.SignalQueue
	spawner Spawner
	rules   []prefabs.SpawnRuleSpec
	conds   map[string]*tengo.Compiled
	log     *zap.Logger
}

func NewSpawnRuleSystem(signals *ecs.SignalQueue, spawner Spawner, rules []prefabs.SpawnRuleSpec, log *zap.Logger) *SpawnRuleSystem {
	if log == nil {
		log = zap.NewNop()
	}
	s := &SpawnRuleSystem{
		signals: signals,
		spawner: spawner,
		log:     log.With(zap.String("system", "spawn_rules")),
	}
	s.SetRules(rules)
	return s
}

// SetRules replaces the rule set, e.g. after the rules file was reloaded.
// Rules with a condition that does not compile are dropped and logged.
func (s *SpawnRuleSystem) SetRules(rules []prefabs.SpawnRuleSpec) {
	s.rules = s.rules[:0]
	s.conds = make(map[string]*tengo.Compiled)
	for _, r := range rules {
		if r.When != "" {
			c, err := compileCondition(r.When)
			if err != nil {
				s.log.Error("spawn rule condition", zap.String("rule", r.Name), zap.Error(err))
				continue
			}
			s.conds[r.When] = c
		}
		s.rules = append(s.rules, r)
	}
}

func compileCondition(expr string) (*tengo.Compiled, error) {
	script := tengo.NewScript([]byte(fmt.Sprintf("__result := (%s)", expr)))
	for _, name := range []string{"kind", "map_id"} {
		_ = script.Add(name, "")
	}
	for _, name := range []string{"wave", "alive"} {
		_ = script.Add(name, 0)
	}
	_ = script.Add("time", 0.0)
	return script.Compile()
}

func (s *SpawnRuleSystem) Update(w *ecs.World, _ float64) {
	if w == nil || s.signals == nil {
		return
	}
	for _, sig := range s.signals.Drain() {
		if s.handle(w, sig) {
			s.signals.Defer(sig)
		}
	}
}

// handle runs every matching rule and reports whether the signal must be
// retried next frame.
func (s *SpawnRuleSystem) handle(w *ecs.World, sig ecs.Signal) bool {
	alive := make(map[string]int)
	ecs.ForEach(w, component.ArchetypeComponent.Kind(), func(_ ecs.Entity, a *component.Archetype) {
		alive[a.Name]++
	})
	mapID := sig.MapID
	if mapID == "" && s.CurrentMap != nil {
		mapID = s.CurrentMap()
	}

	retry := false
	for _, r := range s.rules {
		if r.Signal != string(sig.Kind) {
			continue
		}
		ok, err := s.matches(r, sig, mapID, alive[r.Archetype])
		if err != nil {
			s.log.Warn("spawn rule condition failed", zap.String("rule", r.Name), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		if r.MaxAlive > 0 && alive[r.Archetype]+r.Count > r.MaxAlive {
			retry = true
			continue
		}
		alive[r.Archetype] += s.spawn(w, r)
	}
	return retry
}

func (s *SpawnRuleSystem) matches(r prefabs.SpawnRuleSpec, sig ecs.Signal, mapID string, alive int) (bool, error) {
	if r.When == "" {
		return true, nil
	}
	base, ok := s.conds[r.When]
	if !ok {
		return false, nil
	}
	c := base.Clone()
	vars := map[string]any{
		"kind":   string(sig.Kind),
		"map_id": mapID,
		"wave":   sig.Wave,
		"alive":  alive,
		"time":   sig.Time,
	}
	for name, v := range vars {
		// The compiler prunes globals the expression never reads.
		if !c.IsDefined(name) {
			continue
		}
		if err := c.Set(name, v); err != nil {
			return false, err
		}
	}
	if err := c.Run(); err != nil {
		return false, err
	}
	return c.Get("__result").Bool(), nil
}

func (s *SpawnRuleSystem) spawn(w *ecs.World, r prefabs.SpawnRuleSpec) int {
	if s.spawner == nil {
		return 0
	}
	n := 0
	for i := 0; i < r.Count; i++ {
		data := maps.Clone(r.Data)
		if data == nil {
			data = map[string]any{}
		}
		x, _ := toFloat(data["x"])
		data["x"] = x + float64(i)*r.Spread
		if _, ok := s.spawner.Build(w, r.Archetype, data); ok {
			n++
		} else {
			s.log.Warn("spawn rejected", zap.String("rule", r.Name), zap.String("archetype", r.Archetype))
		}
	}
	return n
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
