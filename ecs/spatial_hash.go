package ecs

import (
	"math"
	"slices"

	"github.com/jakecoffman/cp"
)

// DefaultCellSize is the side of one square grid cell in world units.
const DefaultCellSize = 64.0

// maxCellSpan bounds the number of cells one box may cover per axis. Wider
// boxes are kept in a side list that every query checks.
const maxCellSpan = 4096

type cellKey struct {
	cx int32
	cy int32
}

type placement struct {
	static bool
	wide   bool
	bb     cp.BB
	cells  []cellKey
}

// SpatialHash is a uniform grid broad-phase. Scenery that never moves within
// a scene lives in the static map and is only cleared on scene change; moving
// entities live in the dynamic map, which is cleared and rebuilt every frame.
// Queries return candidates from both maps; callers run the exact test.
type SpatialHash struct {
	cellSize float64
	static   map[cellKey]map[Entity]struct{}
	dynamic  map[cellKey]map[Entity]struct{}
	placed   map[Entity]placement
	// wide holds boxes spanning more than maxCellSpan cells on an axis.
	wide map[Entity]struct{}
}

func NewSpatialHash(cellSize float64) *SpatialHash {
	if cellSize <= 0 || math.IsNaN(cellSize) || math.IsInf(cellSize, 0) {
		cellSize = DefaultCellSize
	}
	return &SpatialHash{
		cellSize: cellSize,
		static:   make(map[cellKey]map[Entity]struct{}),
		dynamic:  make(map[cellKey]map[Entity]struct{}),
		placed:   make(map[Entity]placement),
		wide:     make(map[Entity]struct{}),
	}
}

func (h *SpatialHash) CellSize() float64 {
	return h.cellSize
}

func (h *SpatialHash) toCell(v float64) float64 {
	return math.Floor(v / h.cellSize)
}

func validBB(bb cp.BB) bool {
	for _, v := range [...]float64{bb.L, bb.B, bb.R, bb.T} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return bb.L <= bb.R && bb.B <= bb.T
}

// cellRange returns the inclusive cell rectangle covered by bb. It reports
// false when the rectangle is wider than maxCellSpan on either axis or falls
// outside the cell coordinate range.
func (h *SpatialHash) cellRange(bb cp.BB) (minX, minY, maxX, maxY int32, ok bool) {
	l, b := h.toCell(bb.L), h.toCell(bb.B)
	r, t := h.toCell(bb.R), h.toCell(bb.T)
	if r-l >= maxCellSpan || t-b >= maxCellSpan {
		return 0, 0, 0, 0, false
	}
	for _, v := range [...]float64{l, b, r, t} {
		if v < math.MinInt32 || v > math.MaxInt32 {
			return 0, 0, 0, 0, false
		}
	}
	return int32(l), int32(b), int32(r), int32(t), true
}

// CellsTouched returns how many cells a query over bb visits. A box past the
// cell limit visits none; Query scans every placement for it instead.
func (h *SpatialHash) CellsTouched(bb cp.BB) int {
	if !validBB(bb) {
		return 0
	}
	minX, minY, maxX, maxY, ok := h.cellRange(bb)
	if !ok {
		return 0
	}
	return int(maxX-minX+1) * int(maxY-minY+1)
}

// InsertStatic adds an immovable entity. It stays until ClearStatic or Remove.
func (h *SpatialHash) InsertStatic(e Entity, bb cp.BB) bool {
	return h.insert(e, bb, true)
}

// InsertDynamic adds a moving entity for the current frame.
func (h *SpatialHash) InsertDynamic(e Entity, bb cp.BB) bool {
	return h.insert(e, bb, false)
}

func (h *SpatialHash) insert(e Entity, bb cp.BB, static bool) bool {
	if h == nil || !e.Valid() || !validBB(bb) {
		return false
	}
	h.Remove(e)

	minX, minY, maxX, maxY, ok := h.cellRange(bb)
	if !ok {
		h.wide[e] = struct{}{}
		h.placed[e] = placement{static: static, wide: true, bb: bb}
		return true
	}
	grid := h.dynamic
	if static {
		grid = h.static
	}
	cells := make([]cellKey, 0, int(maxX-minX+1)*int(maxY-minY+1))
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			k := cellKey{cx: cx, cy: cy}
			cell := grid[k]
			if cell == nil {
				cell = make(map[Entity]struct{})
				grid[k] = cell
			}
			cell[e] = struct{}{}
			cells = append(cells, k)
		}
	}
	h.placed[e] = placement{static: static, bb: bb, cells: cells}
	return true
}

// Remove takes e out of whichever map holds it.
func (h *SpatialHash) Remove(e Entity) {
	if h == nil {
		return
	}
	p, ok := h.placed[e]
	if !ok {
		return
	}
	if p.wide {
		delete(h.wide, e)
		delete(h.placed, e)
		return
	}
	grid := h.dynamic
	if p.static {
		grid = h.static
	}
	for _, k := range p.cells {
		cell := grid[k]
		if cell == nil {
			continue
		}
		delete(cell, e)
		if len(cell) == 0 {
			delete(grid, k)
		}
	}
	delete(h.placed, e)
}

// Bounds returns the box e was inserted with.
func (h *SpatialHash) Bounds(e Entity) (cp.BB, bool) {
	if h == nil {
		return cp.BB{}, false
	}
	p, ok := h.placed[e]
	return p.bb, ok
}

// IsStatic reports whether e sits in the static map.
func (h *SpatialHash) IsStatic(e Entity) bool {
	if h == nil {
		return false
	}
	p, ok := h.placed[e]
	return ok && p.static
}

// Query returns every entity registered in a cell bb touches, from both
// maps, without duplicates and ordered by handle. It may include entities
// that do not overlap bb. Boxes wider than the cell limit, inserted or
// queried, are matched by a box test over the placements instead.
func (h *SpatialHash) Query(bb cp.BB) []Entity {
	if h == nil || !validBB(bb) {
		return nil
	}
	minX, minY, maxX, maxY, ok := h.cellRange(bb)
	if !ok {
		return h.scan(bb)
	}
	seen := make(map[Entity]struct{})
	var out []Entity
	for e := range h.wide {
		if h.placed[e].bb.Intersects(bb) {
			seen[e] = struct{}{}
			out = append(out, e)
		}
	}
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			k := cellKey{cx: cx, cy: cy}
			for _, grid := range [...]map[cellKey]map[Entity]struct{}{h.static, h.dynamic} {
				for e := range grid[k] {
					if _, dup := seen[e]; dup {
						continue
					}
					seen[e] = struct{}{}
					out = append(out, e)
				}
			}
		}
	}
	slices.Sort(out)
	return out
}

func (h *SpatialHash) scan(bb cp.BB) []Entity {
	var out []Entity
	for e, p := range h.placed {
		if p.bb.Intersects(bb) {
			out = append(out, e)
		}
	}
	slices.Sort(out)
	return out
}

// QueryOverlapping runs the exact box test over Query's candidates.
func (h *SpatialHash) QueryOverlapping(bb cp.BB) []Entity {
	candidates := h.Query(bb)
	out := candidates[:0]
	for _, e := range candidates {
		if other, ok := h.Bounds(e); ok && other.Intersects(bb) {
			out = append(out, e)
		}
	}
	return out
}

// ClearDynamic drops every moving occupant.
func (h *SpatialHash) ClearDynamic() {
	if h == nil {
		return
	}
	for e, p := range h.placed {
		if !p.static {
			delete(h.placed, e)
			delete(h.wide, e)
		}
	}
	clear(h.dynamic)
}

// ClearStatic drops the scenery map. Called on scene change.
func (h *SpatialHash) ClearStatic() {
	if h == nil {
		return
	}
	for e, p := range h.placed {
		if p.static {
			delete(h.placed, e)
			delete(h.wide, e)
		}
	}
	clear(h.static)
}

// Reset clears both maps.
func (h *SpatialHash) Reset() {
	h.ClearDynamic()
	h.ClearStatic()
}

// Len returns the number of indexed entities.
func (h *SpatialHash) Len() int {
	if h == nil {
		return 0
	}
	return len(h.placed)
}
