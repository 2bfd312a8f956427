// Package systems provides the simulation engine building blocks: the toroidal
// spatial grid, the breed scheduler and the random-walk movement policy.
package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/predation/components"
)

// Grid is a toroidal multi-occupancy grid of entities.
// Every coordinate passed in is normalized modulo height/width, so callers
// never need to pre-wrap. Cell occupants keep placement order.
type Grid struct {
	height int
	width  int
	cells  [][]ecs.Entity     // flat row-major grid of occupant lists
	where  map[ecs.Entity]int // entity -> flat cell index
}

// NewGrid creates an empty grid. Panics on non-positive dimensions.
func NewGrid(height, width int) *Grid {
	if height < 1 || width < 1 {
		panic(fmt.Sprintf("systems: grid dimensions must be positive, got %dx%d", height, width))
	}

	cells := make([][]ecs.Entity, height*width)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 4)
	}

	return &Grid{
		height: height,
		width:  width,
		cells:  cells,
		where:  make(map[ecs.Entity]int),
	}
}

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Len returns the number of placed entities.
func (g *Grid) Len() int { return len(g.where) }

// Wrap normalizes p onto the torus.
func (g *Grid) Wrap(p components.Position) components.Position {
	return components.Position{Row: wrap(p.Row, g.height), Col: wrap(p.Col, g.width)}
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// cellIndex returns the flat index for a (normalized) position.
func (g *Grid) cellIndex(p components.Position) int {
	p = g.Wrap(p)
	return p.Row*g.width + p.Col
}

// Place adds e to the cell at p and returns the normalized position.
// Placing an entity that is already on the grid is a programming error.
func (g *Grid) Place(e ecs.Entity, p components.Position) components.Position {
	if _, ok := g.where[e]; ok {
		panic(fmt.Sprintf("systems: entity %v placed twice", e))
	}
	idx := g.cellIndex(p)
	g.cells[idx] = append(g.cells[idx], e)
	g.where[e] = idx
	return g.Wrap(p)
}

// Remove takes e off the grid.
// Removing an entity that is not placed is a programming error.
func (g *Grid) Remove(e ecs.Entity) {
	idx, ok := g.where[e]
	if !ok {
		panic(fmt.Sprintf("systems: removing entity %v that is not on the grid", e))
	}
	cell := g.cells[idx]
	for i, o := range cell {
		if o == e {
			// Shift instead of swap so occupants keep placement order.
			copy(cell[i:], cell[i+1:])
			g.cells[idx] = cell[:len(cell)-1]
			break
		}
	}
	delete(g.where, e)
}

// MoveTo relocates e to p and returns the normalized position.
// The grid is single-threaded; no reader can observe the intermediate state.
func (g *Grid) MoveTo(e ecs.Entity, p components.Position) components.Position {
	g.Remove(e)
	return g.Place(e, p)
}

// Locate returns the cell e occupies.
func (g *Grid) Locate(e ecs.Entity) (components.Position, bool) {
	idx, ok := g.where[e]
	if !ok {
		return components.Position{}, false
	}
	return components.Position{Row: idx / g.width, Col: idx % g.width}, true
}

// Placed reports whether e is on the grid.
func (g *Grid) Placed(e ecs.Entity) bool {
	_, ok := g.where[e]
	return ok
}

// OccupantsAt returns the entities in the cell at p in placement order.
// The slice is owned by the grid: do not modify it, and do not hold it
// across a Place/Remove/MoveTo.
func (g *Grid) OccupantsAt(p components.Position) []ecs.Entity {
	return g.cells[g.cellIndex(p)]
}

// Neighborhood returns the cells within radius of p.
// See NeighborhoodInto.
func (g *Grid) Neighborhood(p components.Position, radius int, includeSelf, moore bool) []components.Position {
	return g.NeighborhoodInto(nil, p, radius, includeSelf, moore)
}

// NeighborhoodInto appends the cells within radius of p to dst and returns it.
// Moore uses Chebyshev distance (8 neighbors at radius 1), otherwise Manhattan
// distance (Von Neumann, 4 neighbors). Coordinates wrap toroidally; cells
// reached twice through the wrap on small grids are reported once.
// Order is row-major over the offsets, which keeps seeded runs reproducible.
func (g *Grid) NeighborhoodInto(dst []components.Position, p components.Position, radius int, includeSelf, moore bool) []components.Position {
	p = g.Wrap(p)
	start := len(dst)

	for dr := -radius; dr <= radius; dr++ {
		for dc := -radius; dc <= radius; dc++ {
			if dr == 0 && dc == 0 && !includeSelf {
				continue
			}
			if !moore && abs(dr)+abs(dc) > radius {
				continue
			}

			q := components.Position{Row: wrap(p.Row+dr, g.height), Col: wrap(p.Col+dc, g.width)}
			if !includeSelf && q == p {
				continue
			}
			if containsPos(dst[start:], q) {
				continue
			}
			dst = append(dst, q)
		}
	}

	return dst
}

// Each calls fn for every placed entity, cell by cell in row-major order.
func (g *Grid) Each(fn func(e ecs.Entity, p components.Position)) {
	for idx, cell := range g.cells {
		p := components.Position{Row: idx / g.width, Col: idx % g.width}
		for _, e := range cell {
			fn(e, p)
		}
	}
}

func containsPos(list []components.Position, p components.Position) bool {
	for _, q := range list {
		if q == p {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
