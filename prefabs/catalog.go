package prefabs

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	PlayerFile     = "player.yaml"
	EnemyFile      = "enemy.yaml"
	PortalFile     = "portal.yaml"
	ProjectileFile = "projectile.yaml"
	ObstacleFile   = "obstacle.yaml"
	GlobalFile     = "global.yaml"
	RulesFile      = "spawn_rules.yaml"
)

// Catalog holds the parsed default spec of every archetype. It is filled
// once before the world is marked ready and refreshed by Reload when a
// watched file changes.
type Catalog struct {
	mu         sync.RWMutex
	player     PlayerSpec
	enemy      EnemySpec
	portal     PortalSpec
	projectile ProjectileSpec
	obstacle   ObstacleSpec
	global     GlobalSpec
	rules      []SpawnRuleSpec
}

// Preload parses every prefab file concurrently. The first failure cancels
// the rest.
func Preload(ctx context.Context) (*Catalog, error) {
	c := &Catalog{}
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range []string{PlayerFile, EnemyFile, PortalFile, ProjectileFile, ObstacleFile, GlobalFile, RulesFile} {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return c.Reload(name)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads one prefab file by name. Unknown names are ignored.
func (c *Catalog) Reload(name string) error {
	switch filepath.Base(cleanPrefabPath(name)) {
	case PlayerFile:
		return reload(c, PlayerFile, &c.player)
	case EnemyFile:
		return reload(c, EnemyFile, &c.enemy)
	case PortalFile:
		return reload(c, PortalFile, &c.portal)
	case ProjectileFile:
		return reload(c, ProjectileFile, &c.projectile)
	case ObstacleFile:
		return reload(c, ObstacleFile, &c.obstacle)
	case GlobalFile:
		return reload(c, GlobalFile, &c.global)
	case RulesFile:
		rules, err := LoadSpawnRules()
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.rules = rules
		c.mu.Unlock()
	}
	return nil
}

func reload[T interface{ Validate() error }](c *Catalog, name string, dst *T) error {
	spec, err := LoadSpec[T](name)
	if err != nil {
		return err
	}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("prefabs: %s: %w", name, err)
	}
	c.mu.Lock()
	*dst = spec
	c.mu.Unlock()
	return nil
}

func (c *Catalog) Player() PlayerSpec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.player
}

func (c *Catalog) Enemy() EnemySpec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enemy
}

func (c *Catalog) Portal() PortalSpec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.portal
}

func (c *Catalog) Projectile() ProjectileSpec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.projectile
}

func (c *Catalog) Obstacle() ObstacleSpec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.obstacle
}

func (c *Catalog) Global() GlobalSpec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.global
}

func (c *Catalog) SpawnRules() []SpawnRuleSpec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]SpawnRuleSpec(nil), c.rules...)
}
