package component

// EntityRef is a stored reference to another entity. It holds the raw
// generational handle (ecs.Entity is uint64) so stale references never
// resolve to a recycled slot.
type EntityRef uint64

// Parent links an attached entity (e.g. a weapon) to its owner.
type Parent struct {
	Entity EntityRef
	// OffsetX/OffsetY keep the child positioned relative to the parent.
	OffsetX float64
	OffsetY float64
}

// Children lists entities attached to this one. Destroying the owner walks
// this list first.
type Children struct {
	Entities []EntityRef
}

var ParentComponent = NewComponent[Parent]("parent")
var ChildrenComponent = NewComponent[Children]("children")
