package system

import (
	"go.uber.org/zap"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

// ActionRoute pairs a predicate over the source entity with the handler to
// run when it matches.
type ActionRoute struct {
	Name   string
	Match  func(w *ecs.World, source ecs.Entity) bool
	Handle func(w *ecs.World, source ecs.Entity)
}

// IntentRoute matches sources declaring an intent of kind.
func IntentRoute(kind component.IntentKind, handle func(w *ecs.World, source ecs.Entity, intent component.Intent)) ActionRoute {
	return ActionRoute{
		Name: "intent." + string(kind),
		Match: func(w *ecs.World, source ecs.Entity) bool {
			in, ok := ecs.Get(w, source, component.IntentComponent.Kind())
			return ok && in.Kind == kind
		},
		Handle: func(w *ecs.World, source ecs.Entity) {
			in, ok := ecs.Get(w, source, component.IntentComponent.Kind())
			if !ok {
				return
			}
			handle(w, source, *in)
		},
	}
}

// TeleportRoute moves the intent subject, or the source itself, to the
// intent's coordinates.
func TeleportRoute() ActionRoute {
	return IntentRoute(component.IntentTeleport, func(w *ecs.World, source ecs.Entity, in component.Intent) {
		subject := source
		if in.Subject != 0 {
			subject = ecs.Entity(in.Subject)
		}
		if w.IsPendingDestroy(subject) {
			return
		}
		tr, ok := ecs.Get(w, subject, component.TransformComponent.Kind())
		if !ok {
			return
		}
		tr.X, tr.Y = in.X, in.Y
	})
}

// ActionDispatchSystem drains the action queue once per frame. Each request
// is offered to the routes in priority order; the first match handles it.
// A transient intent is removed afterwards; config sources such as portals
// carry no intent and keep their data.
type ActionDispatchSystem struct {
	queue  *ecs.ActionQueue
	routes []ActionRoute
	log    *zap.Logger
}

func NewActionDispatchSystem(queue *ecs.ActionQueue, log *zap.Logger, routes ...ActionRoute) *ActionDispatchSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &ActionDispatchSystem{
		queue:  queue,
		routes: routes,
		log:    log.With(zap.String("system", "actions")),
	}
}

// Route appends a lower priority route.
func (s *ActionDispatchSystem) Route(r ActionRoute) {
	if r.Match == nil || r.Handle == nil {
		return
	}
	s.routes = append(s.routes, r)
}

func (s *ActionDispatchSystem) Update(w *ecs.World, _ float64) {
	if w == nil || s.queue == nil {
		return
	}
	for _, req := range s.queue.Drain() {
		s.dispatch(w, req)
	}
}

func (s *ActionDispatchSystem) dispatch(w *ecs.World, req ecs.ActionRequest) {
	if !w.IsAlive(req.Source) {
		s.log.Debug("drop request from dead source", zap.Stringer("entity", req.Source))
		return
	}
	if w.IsPendingDestroy(req.Source) {
		s.log.Debug("drop request from source pending removal", zap.Stringer("entity", req.Source))
		return
	}
	handled := false
	for _, r := range s.routes {
		if r.Match(w, req.Source) {
			r.Handle(w, req.Source)
			handled = true
			break
		}
	}
	if !handled {
		s.log.Warn("no route for action", zap.Stringer("entity", req.Source))
	}
	ecs.Remove(w, req.Source, component.IntentComponent.Kind())
}
