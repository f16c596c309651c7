package ecs

import (
	"slices"
	"strconv"
	"strings"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

// View is a live query: the set of entities holding every required component
// and none of the excluded ones. Views are cached per signature and kept in
// sync on every structural change, so obtaining one is cheap after the first
// call.
type View struct {
	w       *World
	key     string
	with    []component.ComponentID
	without []component.ComponentID

	dense []Entity
	index map[Entity]int
}

// With returns the live view over entities holding all of kinds.
func (w *World) With(kinds ...component.Key) *View {
	return w.view(keyIDs(kinds), nil)
}

// Without narrows the view to entities lacking every one of kinds.
func (v *View) Without(kinds ...component.Key) *View {
	if v == nil {
		return nil
	}
	return v.w.view(v.with, append(slices.Clone(v.without), keyIDs(kinds)...))
}

func keyIDs(kinds []component.Key) []component.ComponentID {
	out := make([]component.ComponentID, 0, len(kinds))
	for _, k := range kinds {
		if k == nil || k.ID() == 0 {
			continue
		}
		out = append(out, k.ID())
	}
	return out
}

func normalizeIDs(ids []component.ComponentID) []component.ComponentID {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func signature(with, without []component.ComponentID) string {
	var b strings.Builder
	for _, id := range with {
		b.WriteString(strconv.FormatUint(uint64(id), 10))
		b.WriteByte(',')
	}
	b.WriteByte('|')
	for _, id := range without {
		b.WriteString(strconv.FormatUint(uint64(id), 10))
		b.WriteByte(',')
	}
	return b.String()
}

func (w *World) view(with, without []component.ComponentID) *View {
	if w == nil {
		return nil
	}
	with = normalizeIDs(with)
	without = normalizeIDs(without)
	key := signature(with, without)
	if v, ok := w.views[key]; ok {
		return v
	}

	v := &View{
		w:       w,
		key:     key,
		with:    with,
		without: without,
		index:   make(map[Entity]int),
	}
	for _, e := range w.entities.dense {
		if v.matches(e) {
			v.insert(e)
		}
	}
	w.views[key] = v
	w.viewList = append(w.viewList, v)
	return v
}

func (v *View) matches(e Entity) bool {
	if len(v.with) == 0 {
		return false
	}
	for _, id := range v.with {
		if !v.w.hasID(e, id) {
			return false
		}
	}
	for _, id := range v.without {
		if v.w.hasID(e, id) {
			return false
		}
	}
	return true
}

func (v *View) insert(e Entity) {
	if _, ok := v.index[e]; ok {
		return
	}
	v.index[e] = len(v.dense)
	v.dense = append(v.dense, e)
}

func (v *View) erase(e Entity) {
	idx, ok := v.index[e]
	if !ok {
		return
	}
	last := len(v.dense) - 1
	moved := v.dense[last]
	v.dense[idx] = moved
	v.index[moved] = idx
	v.dense = v.dense[:last]
	delete(v.index, e)
}

// Contains reports whether e is currently a member of the view.
func (v *View) Contains(e Entity) bool {
	if v == nil {
		return false
	}
	_, ok := v.index[e]
	return ok
}

// Len returns the current member count.
func (v *View) Len() int {
	if v == nil {
		return 0
	}
	return len(v.dense)
}

// Entities returns a copy of the current members.
func (v *View) Entities() []Entity {
	if v == nil {
		return nil
	}
	return slices.Clone(v.dense)
}

// Each calls fn for every member. It walks a snapshot taken at the start and
// re-checks membership before each call, so entities destroyed, stripped of a
// required component or queued for destruction by an earlier callback are
// skipped. Entities that join during the walk are seen on the next pass.
func (v *View) Each(fn func(e Entity)) {
	if v == nil || fn == nil || len(v.dense) == 0 {
		return
	}
	snapshot := slices.Clone(v.dense)
	for _, e := range snapshot {
		if !v.Contains(e) || v.w.IsPendingDestroy(e) {
			continue
		}
		fn(e)
	}
}

// First returns any current member that is not queued for destruction.
func (v *View) First() (Entity, bool) {
	if v == nil {
		return 0, false
	}
	for _, e := range v.dense {
		if !v.w.IsPendingDestroy(e) {
			return e, true
		}
	}
	return 0, false
}
