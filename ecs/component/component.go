package component

import (
	"errors"
	"sync"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// Key is the type-erased view of a component kind. Queries take keys so that
// kinds of different component types can be mixed in one signature.
type Key interface {
	ID() ComponentID
	Name() string
}

type ComponentKind[T any] struct {
	id ComponentID
}

func NewComponentKind[T any](name string) ComponentKind[T] {
	id := ComponentID(nextComponentID.Add(1))
	registerName(id, name)
	return ComponentKind[T]{id: id}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Name() string {
	return NameOf(k.id)
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any](name string) ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T](name)}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}

func (h ComponentHandle[T]) ID() ComponentID {
	return h.kind.id
}

func (h ComponentHandle[T]) Name() string {
	return h.kind.Name()
}

type ComponentID uint32

var nextComponentID atomic.Uint32

var (
	namesMu sync.RWMutex
	names   = map[ComponentID]string{}
	byName  = map[string]ComponentID{}
)

func registerName(id ComponentID, name string) {
	if name == "" {
		return
	}
	namesMu.Lock()
	defer namesMu.Unlock()
	names[id] = name
	if _, taken := byName[name]; !taken {
		byName[name] = id
	}
}

// NameOf returns the registered name of a component id, or "" if unnamed.
func NameOf(id ComponentID) string {
	namesMu.RLock()
	defer namesMu.RUnlock()
	return names[id]
}

// Lookup resolves a component name to the first kind registered under it.
func Lookup(name string) (ComponentID, bool) {
	namesMu.RLock()
	defer namesMu.RUnlock()
	id, ok := byName[name]
	return id, ok
}
