package system

import (
	"go.uber.org/zap"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
)

// CleanupSystem flushes deferred destruction and then removes entities left
// pointing at a destroyed parent.
type CleanupSystem struct {
	log *zap.Logger
}

func NewCleanupSystem(log *zap.Logger) *CleanupSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &CleanupSystem{log: log.With(zap.String("system", "cleanup"))}
}

func (s *CleanupSystem) Update(w *ecs.World, _ float64) {
	if w == nil {
		return
	}
	w.FlushDestroyed()
	for _, e := range ecs.Orphans(w) {
		s.log.Warn("destroying orphan", zap.Stringer("entity", e))
		ecs.DestroyEntity(w, e)
	}
}
