package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

func TestDestroyWalksChildrenFirst(t *testing.T) {
	w := NewWorld()
	owner := CreateEntity(w)
	weapon := CreateEntity(w)
	charm := CreateEntity(w)

	require.True(t, Attach(w, owner, weapon, 4, 0))
	require.True(t, Attach(w, weapon, charm, 1, 1))

	require.True(t, DestroyEntity(w, owner))
	require.False(t, IsAlive(w, weapon))
	require.False(t, IsAlive(w, charm))
	require.Zero(t, w.Len())
}

func TestDestroyChildDetachesFromParent(t *testing.T) {
	w := NewWorld()
	owner := CreateEntity(w)
	weapon := CreateEntity(w)
	require.True(t, Attach(w, owner, weapon, 0, 0))

	require.True(t, DestroyEntity(w, weapon))
	children, ok := Get(w, owner, component.ChildrenComponent.Kind())
	require.True(t, ok)
	require.Empty(t, children.Entities)
	require.True(t, IsAlive(w, owner))
}

func TestAttachCycleDoesNotRecurseForever(t *testing.T) {
	w := NewWorld()
	a := CreateEntity(w)
	b := CreateEntity(w)
	require.True(t, Attach(w, a, b, 0, 0))

	// corrupt the tree: a claims b as its parent too
	_ = Add(w, a, component.ParentComponent.Kind(), &component.Parent{Entity: component.EntityRef(b)})
	_ = Add(w, b, component.ChildrenComponent.Kind(), &component.Children{Entities: []component.EntityRef{component.EntityRef(a)}})

	require.True(t, DestroyEntity(w, a))
	require.False(t, IsAlive(w, a))
	require.False(t, IsAlive(w, b))
}

func TestOrphans(t *testing.T) {
	w := NewWorld()
	owner := CreateEntity(w)
	weapon := CreateEntity(w)
	_ = Add(w, weapon, component.ParentComponent.Kind(), &component.Parent{Entity: component.EntityRef(owner)})

	require.Empty(t, Orphans(w))
	// bypass the tree walk: owner has no Children list so weapon is left behind
	require.True(t, DestroyEntity(w, owner))
	require.Equal(t, []Entity{weapon}, Orphans(w))
	require.True(t, Detach(w, weapon))
	require.Empty(t, Orphans(w))
}
