package entity

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/prefabs"
)

const (
	Player     = "player"
	Enemy      = "enemy"
	Portal     = "portal"
	Projectile = "projectile"
	Obstacle   = "obstacle"
	Global     = "global"
)

var (
	ErrUnknownArchetype = errors.New("entity: unknown archetype")
	ErrGlobalExists     = errors.New("entity: global entity already exists")
)

type buildFn func(f *Factory, w *ecs.World, data map[string]any) (ecs.Entity, error)

// serializeFn converts live components back into data Build accepts. A nil
// serializer means the archetype is rebuilt from map data instead.
type serializeFn func(w *ecs.World, e ecs.Entity) map[string]any

type archetype struct {
	build     buildFn
	serialize serializeFn
}

var archetypes = map[string]archetype{
	Player:     {build: buildPlayer, serialize: serializePlayer},
	Enemy:      {build: buildEnemy, serialize: serializeEnemy},
	Portal:     {build: buildPortal, serialize: serializePortal},
	Projectile: {build: buildProjectile, serialize: serializeProjectile},
	Obstacle:   {build: buildObstacle},
	Global:     {build: buildGlobal, serialize: serializeGlobal},
}

// Factory builds validated entities from prefab defaults overlaid with
// per-instance data.
type Factory struct {
	catalog *prefabs.Catalog
	log     *zap.Logger
}

func NewFactory(catalog *prefabs.Catalog, log *zap.Logger) *Factory {
	if log == nil {
		log = zap.NewNop()
	}
	return &Factory{catalog: catalog, log: log.With(zap.String("component", "factory"))}
}

// Build creates an entity of the named archetype. Invalid data is logged and
// rejected; the caller gets (0, false) and the world is left untouched.
func (f *Factory) Build(w *ecs.World, name string, data map[string]any) (ecs.Entity, bool) {
	e, err := f.BuildErr(w, name, data)
	if err != nil {
		f.log.Warn("build rejected", zap.String("archetype", name), zap.Error(err))
		return 0, false
	}
	return e, true
}

// BuildErr is Build with the reason for a rejection.
func (f *Factory) BuildErr(w *ecs.World, name string, data map[string]any) (ecs.Entity, error) {
	a, ok := archetypes[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownArchetype, name)
	}
	if w == nil {
		return 0, errors.New("entity: nil world")
	}
	if f.catalog == nil {
		return 0, errors.New("entity: no prefab catalog")
	}
	if _, tagged := data["archetype"]; tagged {
		data = maps.Clone(data)
		delete(data, "archetype")
	}
	return a.build(f, w, data)
}

// Serialize returns the data that rebuilds e through Build. Archetypes
// derived from map data report false.
func (f *Factory) Serialize(w *ecs.World, e ecs.Entity) (map[string]any, bool) {
	arch, ok := ecs.Get(w, e, component.ArchetypeComponent.Kind())
	if !ok {
		return nil, false
	}
	a, ok := archetypes[arch.Name]
	if !ok || a.serialize == nil {
		return nil, false
	}
	data := a.serialize(w, e)
	if data == nil {
		return nil, false
	}
	data["archetype"] = arch.Name
	return data, true
}

func Archetypes() []string {
	names := make([]string, 0, len(archetypes))
	for name := range archetypes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// decode overlays data on the prefab default and validates the result.
func decode[T interface{ Validate() error }](name string, base T, data map[string]any) (T, error) {
	spec, err := prefabs.Overlay(base, data)
	if err != nil {
		return spec, fmt.Errorf("%s: %w", name, err)
	}
	if err := spec.Validate(); err != nil {
		return spec, fmt.Errorf("%s: %w", name, err)
	}
	return spec, nil
}

func collider(spec prefabs.ColliderSpec) *component.Collider {
	shape := component.ColliderBox
	if spec.Shape == "circle" {
		shape = component.ColliderCircle
	}
	return &component.Collider{
		Shape:   shape,
		Width:   spec.Width,
		Height:  spec.Height,
		Radius:  spec.Radius,
		OffsetX: spec.OffsetX,
		OffsetY: spec.OffsetY,
	}
}

func colliderData(c *component.Collider) map[string]any {
	return map[string]any{
		"shape":    string(c.Shape),
		"width":    c.Width,
		"height":   c.Height,
		"radius":   c.Radius,
		"offset_x": c.OffsetX,
		"offset_y": c.OffsetY,
	}
}

func bounds(spec *prefabs.BoundsSpec) *component.Bounds {
	if spec == nil {
		return nil
	}
	return &component.Bounds{
		MinX:         spec.MinX,
		MaxX:         spec.MaxX,
		MinY:         spec.MinY,
		MaxY:         spec.MaxY,
		UseMapBounds: spec.UseMapBounds,
	}
}

func boundsData(b *component.Bounds) map[string]any {
	return map[string]any{
		"min_x":          b.MinX,
		"max_x":          b.MaxX,
		"min_y":          b.MinY,
		"max_y":          b.MaxY,
		"use_map_bounds": b.UseMapBounds,
	}
}

func appearance(c *prefabs.YAMLColor, fallback rgba) *component.Appearance {
	return &component.Appearance{Color: c.NRGBA(fallback)}
}

func position(w *ecs.World, e ecs.Entity, data map[string]any) {
	if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		data["x"] = tr.X
		data["y"] = tr.Y
		data["rotation"] = tr.Rotation
	}
}
