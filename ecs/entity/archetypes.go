package entity

import (
	"image/color"

	"github.com/google/uuid"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/prefabs"
)

type rgba = color.NRGBA

func transform(s prefabs.TransformSpec) *component.Transform {
	return &component.Transform{X: s.X, Y: s.Y, Rotation: s.Rotation}
}

func buildPlayer(f *Factory, w *ecs.World, data map[string]any) (ecs.Entity, error) {
	spec, err := decode(Player, f.catalog.Player(), data)
	if err != nil {
		return 0, err
	}
	return ecs.Spawn(w,
		ecs.Bind(component.ArchetypeComponent.Kind(), &component.Archetype{Name: Player}),
		ecs.Bind(component.PlayerTagComponent.Kind(), &component.PlayerTag{}),
		ecs.Bind(component.PlayerComponent.Kind(), &component.Player{Speed: spec.Speed, RunMultiplier: spec.RunMultiplier}),
		ecs.Bind(component.InputComponent.Kind(), &component.Input{}),
		ecs.Bind(component.TransformComponent.Kind(), transform(spec.TransformSpec)),
		ecs.Bind(component.VelocityComponent.Kind(), &component.Velocity{}),
		ecs.Bind(component.ColliderComponent.Kind(), collider(spec.Collider)),
		ecs.Bind(component.BoundsComponent.Kind(), bounds(spec.Bounds)),
		ecs.Bind(component.HealthComponent.Kind(), &component.Health{Current: spec.Health.Current, Max: spec.Health.Max}),
		ecs.Bind(component.PersistentComponent.Kind(), &component.Persistent{ID: Player, KeepOnSceneChange: true}),
		ecs.Bind(component.AppearanceComponent.Kind(), appearance(spec.Color, rgba{R: 60, G: 120, B: 220, A: 255})),
	), nil
}

func serializePlayer(w *ecs.World, e ecs.Entity) map[string]any {
	data := map[string]any{}
	position(w, e, data)
	if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok {
		data["speed"] = p.Speed
		data["run_multiplier"] = p.RunMultiplier
	}
	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
		data["health"] = map[string]any{"current": h.Current, "max": h.Max}
	}
	if c, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok {
		data["collider"] = colliderData(c)
	}
	if b, ok := ecs.Get(w, e, component.BoundsComponent.Kind()); ok {
		data["bounds"] = boundsData(b)
	}
	return data
}

func aiConfig(s prefabs.AISpec) *component.AIConfig {
	return &component.AIConfig{
		Behavior:            component.BehaviorFamily(s.Behavior),
		VisionRadius:        s.VisionRadius,
		VisionShape:         component.VisionShape(s.VisionShape),
		VisionAngle:         s.VisionAngle,
		MinVerticalRatio:    s.MinVerticalRatio,
		Speed:               s.Speed,
		ChaseExitMultiplier: s.ChaseExitMultiplier,
		FleeExitMultiplier:  s.FleeExitMultiplier,
		LostTargetTimeout:   s.LostTargetTimeout,
		StunDuration:        s.StunDuration,
		SuspicionRate:       s.SuspicionRate,
		SuspicionDecay:      s.SuspicionDecay,
	}
}

func aiConfigData(c *component.AIConfig) map[string]any {
	return map[string]any{
		"behavior":              string(c.Behavior),
		"vision_radius":         c.VisionRadius,
		"vision_shape":          string(c.VisionShape),
		"vision_angle":          c.VisionAngle,
		"min_vertical_ratio":    c.MinVerticalRatio,
		"speed":                 c.Speed,
		"chase_exit_multiplier": c.ChaseExitMultiplier,
		"flee_exit_multiplier":  c.FleeExitMultiplier,
		"lost_target_timeout":   c.LostTargetTimeout,
		"stun_duration":         c.StunDuration,
		"suspicion_rate":        c.SuspicionRate,
		"suspicion_decay":       c.SuspicionDecay,
	}
}

func buildEnemy(f *Factory, w *ecs.World, data map[string]any) (ecs.Entity, error) {
	spec, err := decode(Enemy, f.catalog.Enemy(), data)
	if err != nil {
		return 0, err
	}
	var enc *component.Encounter
	if spec.Encounter != nil {
		enc = &component.Encounter{
			BattleID:   spec.Encounter.BattleID,
			EnemyGroup: append([]string(nil), spec.Encounter.EnemyGroup...),
		}
	}
	return ecs.Spawn(w,
		ecs.Bind(component.ArchetypeComponent.Kind(), &component.Archetype{Name: Enemy}),
		ecs.Bind(component.EnemyTagComponent.Kind(), &component.EnemyTag{}),
		ecs.Bind(component.AIConfigComponent.Kind(), aiConfig(spec.AI)),
		ecs.Bind(component.AIStateComponent.Kind(), &component.AIState{State: component.AIWander, JustEntered: true}),
		ecs.Bind(component.AISensoryComponent.Kind(), &component.AISensory{}),
		ecs.Bind(component.TransformComponent.Kind(), transform(spec.TransformSpec)),
		ecs.Bind(component.VelocityComponent.Kind(), &component.Velocity{}),
		ecs.Bind(component.ColliderComponent.Kind(), collider(spec.Collider)),
		ecs.Bind(component.BoundsComponent.Kind(), bounds(spec.Bounds)),
		ecs.Bind(component.HealthComponent.Kind(), &component.Health{Current: spec.Health.Current, Max: spec.Health.Max}),
		ecs.Bind(component.EncounterComponent.Kind(), enc),
		ecs.Bind(component.AppearanceComponent.Kind(), appearance(spec.Color, rgba{R: 200, G: 60, B: 50, A: 255})),
	), nil
}

func serializeEnemy(w *ecs.World, e ecs.Entity) map[string]any {
	data := map[string]any{}
	position(w, e, data)
	if c, ok := ecs.Get(w, e, component.AIConfigComponent.Kind()); ok {
		data["ai"] = aiConfigData(c)
	}
	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
		data["health"] = map[string]any{"current": h.Current, "max": h.Max}
	}
	if c, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok {
		data["collider"] = colliderData(c)
	}
	if b, ok := ecs.Get(w, e, component.BoundsComponent.Kind()); ok {
		data["bounds"] = boundsData(b)
	}
	if enc, ok := ecs.Get(w, e, component.EncounterComponent.Kind()); ok && !enc.Triggered {
		data["encounter"] = map[string]any{
			"battle_id":   enc.BattleID,
			"enemy_group": append([]string(nil), enc.EnemyGroup...),
		}
	}
	return data
}

func buildPortal(f *Factory, w *ecs.World, data map[string]any) (ecs.Entity, error) {
	spec, err := decode(Portal, f.catalog.Portal(), data)
	if err != nil {
		return 0, err
	}
	return ecs.Spawn(w,
		ecs.Bind(component.ArchetypeComponent.Kind(), &component.Archetype{Name: Portal}),
		ecs.Bind(component.PortalComponent.Kind(), &component.Portal{
			ID:          spec.ID,
			TargetMap:   spec.TargetMap,
			TargetEntry: spec.TargetEntry,
			DestX:       spec.DestX,
			DestY:       spec.DestY,
		}),
		ecs.Bind(component.StaticTagComponent.Kind(), &component.StaticTag{}),
		ecs.Bind(component.TransformComponent.Kind(), transform(spec.TransformSpec)),
		ecs.Bind(component.ColliderComponent.Kind(), collider(spec.Collider)),
		ecs.Bind(component.AppearanceComponent.Kind(), appearance(spec.Color, rgba{R: 140, G: 70, B: 170, A: 128})),
	), nil
}

func serializePortal(w *ecs.World, e ecs.Entity) map[string]any {
	p, ok := ecs.Get(w, e, component.PortalComponent.Kind())
	if !ok {
		return nil
	}
	data := map[string]any{
		"id":           p.ID,
		"target_map":   p.TargetMap,
		"target_entry": p.TargetEntry,
		"dest_x":       p.DestX,
		"dest_y":       p.DestY,
	}
	position(w, e, data)
	if c, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok {
		data["collider"] = colliderData(c)
	}
	return data
}

func buildProjectile(f *Factory, w *ecs.World, data map[string]any) (ecs.Entity, error) {
	spec, err := decode(Projectile, f.catalog.Projectile(), data)
	if err != nil {
		return 0, err
	}
	return ecs.Spawn(w,
		ecs.Bind(component.ArchetypeComponent.Kind(), &component.Archetype{Name: Projectile}),
		ecs.Bind(component.ProjectileComponent.Kind(), &component.Projectile{
			Owner:  component.EntityRef(spec.Owner),
			Damage: spec.Damage,
			Stun:   spec.Stun,
		}),
		ecs.Bind(component.TransformComponent.Kind(), transform(spec.TransformSpec)),
		ecs.Bind(component.VelocityComponent.Kind(), &component.Velocity{X: spec.VX, Y: spec.VY}),
		ecs.Bind(component.ColliderComponent.Kind(), collider(spec.Collider)),
		ecs.Bind(component.LifetimeComponent.Kind(), &component.Lifetime{Remaining: spec.Lifetime, AutoDestroy: true}),
		ecs.Bind(component.AppearanceComponent.Kind(), appearance(spec.Color, rgba{R: 240, G: 200, B: 20, A: 255})),
	), nil
}

func serializeProjectile(w *ecs.World, e ecs.Entity) map[string]any {
	p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind())
	if !ok {
		return nil
	}
	data := map[string]any{
		"damage": p.Damage,
		"stun":   p.Stun,
		"owner":  uint64(p.Owner),
	}
	position(w, e, data)
	if v, ok := ecs.Get(w, e, component.VelocityComponent.Kind()); ok {
		data["vx"], data["vy"] = v.X, v.Y
	}
	if lt, ok := ecs.Get(w, e, component.LifetimeComponent.Kind()); ok {
		data["lifetime"] = lt.Remaining
	}
	return data
}

// buildObstacle creates static scenery. Obstacles come from map data and are
// never serialized.
func buildObstacle(f *Factory, w *ecs.World, data map[string]any) (ecs.Entity, error) {
	spec, err := decode(Obstacle, f.catalog.Obstacle(), data)
	if err != nil {
		return 0, err
	}
	return ecs.Spawn(w,
		ecs.Bind(component.ArchetypeComponent.Kind(), &component.Archetype{Name: Obstacle}),
		ecs.Bind(component.ObstacleTagComponent.Kind(), &component.ObstacleTag{}),
		ecs.Bind(component.StaticTagComponent.Kind(), &component.StaticTag{}),
		ecs.Bind(component.TransformComponent.Kind(), transform(spec.TransformSpec)),
		ecs.Bind(component.ColliderComponent.Kind(), collider(spec.Collider)),
		ecs.Bind(component.AppearanceComponent.Kind(), appearance(spec.Color, rgba{R: 120, G: 130, B: 130, A: 255})),
	), nil
}

// buildGlobal creates the session entity. There is at most one per world.
func buildGlobal(f *Factory, w *ecs.World, data map[string]any) (ecs.Entity, error) {
	if _, exists := ecs.First(w, component.GlobalTagComponent.Kind()); exists {
		return 0, ErrGlobalExists
	}
	spec, err := decode(Global, f.catalog.Global(), data)
	if err != nil {
		return 0, err
	}
	id := spec.ID
	if id == "" {
		id = uuid.NewString()
	}
	return ecs.Spawn(w,
		ecs.Bind(component.ArchetypeComponent.Kind(), &component.Archetype{Name: Global}),
		ecs.Bind(component.GlobalTagComponent.Kind(), &component.GlobalTag{}),
		ecs.Bind(component.PersistentComponent.Kind(), &component.Persistent{ID: id, KeepOnSceneChange: true}),
		ecs.Bind(component.CommandsComponent.Kind(), &component.Commands{}),
		ecs.Bind(component.LevelBoundsComponent.Kind(), &component.LevelBounds{}),
	), nil
}

func serializeGlobal(w *ecs.World, e ecs.Entity) map[string]any {
	p, ok := ecs.Get(w, e, component.PersistentComponent.Kind())
	if !ok {
		return nil
	}
	return map[string]any{"id": p.ID}
}
