package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/predation/components"
)

// MoveIncludesCurrentCell makes staying put one of the random-walk outcomes.
// Fixed for reproducibility of seeded runs.
const MoveIncludesCurrentCell = true

// Mover implements the random-walk movement policy shared by mobile breeds.
type Mover struct {
	grid        *Grid
	rng         *rand.Rand
	buf         []components.Position
	includeSelf bool
}

// NewMover creates a movement policy over grid.
func NewMover(grid *Grid, rng *rand.Rand) *Mover {
	return &Mover{
		grid:        grid,
		rng:         rng,
		buf:         make([]components.Position, 0, 9),
		includeSelf: MoveIncludesCurrentCell,
	}
}

// RandomMove relocates e to a uniformly chosen cell of the radius-1
// neighborhood around from and returns the new position. An agent with no
// candidate cell, which only happens on a 1x1 grid that excludes the
// current cell, stays where it is.
func (m *Mover) RandomMove(e ecs.Entity, from components.Position, moore bool) components.Position {
	m.buf = m.grid.NeighborhoodInto(m.buf[:0], from, 1, m.includeSelf, moore)
	if len(m.buf) == 0 {
		return m.grid.MoveTo(e, from)
	}
	next := m.buf[m.rng.Intn(len(m.buf))]
	return m.grid.MoveTo(e, next)
}
