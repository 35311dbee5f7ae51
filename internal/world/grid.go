package world

import (
	"math"
	"sort"

	"github.com/brickrun/platformer/internal/core/ecs"
	"github.com/brickrun/platformer/internal/geom"
)

// SolidGrid is a cell-based broadphase over static solid entities. An
// entity occupies every cell its box touches. Queries return candidates in
// insertion order, which matches the manager's live order for entities that
// never move.
// Accessed only from the frame loop, no locks.
type SolidGrid struct {
	cellW, cellH float64
	cells        map[cellKey][]gridEntry
	next         int

	// reusable query buffers
	buf  []gridEntry
	seen map[ecs.EntityID]struct{}
	out  []ecs.Entity
}

type cellKey struct {
	cx, cy int32
}

type gridEntry struct {
	e   ecs.Entity
	seq int
}

func NewSolidGrid(cellW, cellH float64) *SolidGrid {
	return &SolidGrid{
		cellW: cellW,
		cellH: cellH,
		cells: make(map[cellKey][]gridEntry),
		seen:  make(map[ecs.EntityID]struct{}),
	}
}

func toCellCoord(v, size float64) int32 {
	return int32(math.Floor(v / size))
}

func (g *SolidGrid) span(r geom.Rect) (minX, minY, maxX, maxY int32) {
	mx := r.Max()
	return toCellCoord(r.Min.X, g.cellW), toCellCoord(r.Min.Y, g.cellH),
		toCellCoord(mx.X, g.cellW), toCellCoord(mx.Y, g.cellH)
}

// Add places e into every cell covered by r.
func (g *SolidGrid) Add(e ecs.Entity, r geom.Rect) {
	entry := gridEntry{e: e, seq: g.next}
	g.next++
	minX, minY, maxX, maxY := g.span(r)
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			k := cellKey{cx: cx, cy: cy}
			g.cells[k] = append(g.cells[k], entry)
		}
	}
}

// Query returns the active entities sharing a cell with r. The slice is
// reused by the next call.
func (g *SolidGrid) Query(r geom.Rect) []ecs.Entity {
	g.buf = g.buf[:0]
	clear(g.seen)
	minX, minY, maxX, maxY := g.span(r)
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			for _, entry := range g.cells[cellKey{cx: cx, cy: cy}] {
				if _, dup := g.seen[entry.e.ID()]; dup || !entry.e.Active() {
					continue
				}
				g.seen[entry.e.ID()] = struct{}{}
				g.buf = append(g.buf, entry)
			}
		}
	}
	sort.Slice(g.buf, func(i, j int) bool { return g.buf[i].seq < g.buf[j].seq })

	g.out = g.out[:0]
	for _, entry := range g.buf {
		g.out = append(g.out, entry.e)
	}
	return g.out
}

// Remove drops e from every cell, e.g. before it is moved.
func (g *SolidGrid) Remove(e ecs.Entity) {
	for k, cell := range g.cells {
		n := 0
		for _, entry := range cell {
			if entry.e.ID() != e.ID() {
				cell[n] = entry
				n++
			}
		}
		if n == 0 {
			delete(g.cells, k)
			continue
		}
		g.cells[k] = cell[:n]
	}
}

// Prune drops destroyed entities from every cell.
func (g *SolidGrid) Prune() {
	for k, cell := range g.cells {
		n := 0
		for _, entry := range cell {
			if entry.e.Active() {
				cell[n] = entry
				n++
			}
		}
		if n == 0 {
			delete(g.cells, k)
			continue
		}
		g.cells[k] = cell[:n]
	}
}

// Cells is the number of occupied cells.
func (g *SolidGrid) Cells() int { return len(g.cells) }

func (g *SolidGrid) Reset() {
	g.cells = make(map[cellKey][]gridEntry)
	g.next = 0
}
