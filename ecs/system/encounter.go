package system

import (
	"slices"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

// EncounterSystem gives an enemy touching the player a battle intent and
// raises the request once. An enemy already carrying an intent this frame
// is left for the next frame.
type EncounterSystem struct {
	queue *ecs.ActionQueue
}

func NewEncounterSystem(queue *ecs.ActionQueue) *EncounterSystem {
	return &EncounterSystem{queue: queue}
}

func (s *EncounterSystem) Update(w *ecs.World, _ float64) {
	if w == nil || s.queue == nil {
		return
	}
	w.With(component.PlayerTagComponent, component.ColliderComponent).Each(func(player ecs.Entity) {
		for _, other := range overlapping(w, player) {
			enc, ok := ecs.Get(w, other, component.EncounterComponent.Kind())
			if !ok || enc.Triggered || ecs.Has(w, other, component.IntentComponent.Kind()) {
				continue
			}
			enc.Triggered = true
			_ = ecs.Add(w, other, component.IntentComponent.Kind(), &component.Intent{
				Kind:       component.IntentBattle,
				EnemyGroup: slices.Clone(enc.EnemyGroup),
				BattleID:   enc.BattleID,
				Subject:    component.EntityRef(player),
			})
			s.queue.Push(other)
		}
	})
}
