package system

import (
	"go.uber.org/zap"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

// Spawner builds an entity of a named archetype from plain data.
type Spawner interface {
	Build(w *ecs.World, archetype string, data map[string]any) (ecs.Entity, bool)
}

// CommandSystem applies the global command queue. Deletes are immediate; this
// is the editor path and runs outside any gameplay query.
type CommandSystem struct {
	spawner Spawner
	log     *zap.Logger
}

func NewCommandSystem(spawner Spawner, log *zap.Logger) *CommandSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &CommandSystem{spawner: spawner, log: log.With(zap.String("system", "commands"))}
}

func (s *CommandSystem) Update(w *ecs.World, _ float64) {
	if w == nil {
		return
	}
	cmds, ok := globalCommands(w)
	if !ok || len(cmds.Queue) == 0 {
		return
	}
	queue := cmds.Queue
	cmds.Queue = nil

	for _, cmd := range queue {
		switch cmd.Kind {
		case component.CommandCreate:
			if s.spawner == nil {
				s.log.Warn("create without spawner", zap.String("archetype", cmd.Archetype))
				continue
			}
			if _, ok := s.spawner.Build(w, cmd.Archetype, cmd.Data); !ok {
				s.log.Warn("create rejected", zap.String("archetype", cmd.Archetype))
			}
		case component.CommandDelete:
			target := ecs.Entity(cmd.Target)
			if ecs.Has(w, target, component.GlobalTagComponent.Kind()) {
				s.log.Warn("refusing to delete the global entity")
				continue
			}
			ecs.DestroyEntity(w, target)
		default:
			s.log.Warn("unknown command", zap.String("kind", string(cmd.Kind)))
		}
	}
}
