package systems

import (
	"testing"

	"github.com/pthm-cable/predation/components"
)

func TestRandomMoveStaysInNeighborhood(t *testing.T) {
	_, es := newEntities(1)
	g := NewGrid(6, 6)
	m := NewMover(g, newRNG(5))
	e := es[0]
	at := g.Place(e, pos(0, 0))

	for i := 0; i < 200; i++ {
		allowed := g.Neighborhood(at, 1, MoveIncludesCurrentCell, true)
		next := m.RandomMove(e, at, true)
		if !containsPos(allowed, next) {
			t.Fatalf("move %d: %v -> %v outside neighborhood %v", i, at, next, allowed)
		}
		if p, _ := g.Locate(e); p != next {
			t.Fatalf("grid location %v does not match returned %v", p, next)
		}
		at = next
	}
}

func TestRandomMoveVonNeumannNeverDiagonal(t *testing.T) {
	_, es := newEntities(1)
	g := NewGrid(9, 9)
	m := NewMover(g, newRNG(8))
	e := es[0]
	at := g.Place(e, pos(4, 4))

	for i := 0; i < 200; i++ {
		next := m.RandomMove(e, at, false)
		dr := abs(next.Row - at.Row)
		dc := abs(next.Col - at.Col)
		if dr > 1 && dr != g.Height()-1 || dc > 1 && dc != g.Width()-1 {
			t.Fatalf("move jumped from %v to %v", at, next)
		}
		if dr != 0 && dc != 0 {
			t.Fatalf("diagonal move %v -> %v with von neumann neighborhood", at, next)
		}
		at = next
	}
}

func TestRandomMoveCoversCandidates(t *testing.T) {
	_, es := newEntities(1)
	g := NewGrid(5, 5)
	m := NewMover(g, newRNG(13))
	e := es[0]
	start := g.Place(e, pos(2, 2))

	seen := make(map[components.Position]int)
	for i := 0; i < 900; i++ {
		next := m.RandomMove(e, start, true)
		seen[next]++
		g.MoveTo(e, start)
	}
	if len(seen) != 9 {
		t.Errorf("visited %d distinct cells, want 9 (8 neighbors + stay)", len(seen))
	}
	for p, n := range seen {
		if n < 50 {
			t.Errorf("cell %v chosen only %d/900 times", p, n)
		}
	}
}

func TestRandomMoveSingleCellGrid(t *testing.T) {
	tests := []struct {
		name        string
		includeSelf bool
	}{
		{"stay allowed", true},
		{"stay excluded", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, es := newEntities(1)
			g := NewGrid(1, 1)
			m := NewMover(g, newRNG(21))
			m.includeSelf = tt.includeSelf
			e := es[0]
			at := g.Place(e, pos(0, 0))

			for _, moore := range []bool{true, false} {
				if next := m.RandomMove(e, at, moore); next != at {
					t.Errorf("moore=%v: moved %v -> %v on a 1x1 grid", moore, at, next)
				}
				if p, ok := g.Locate(e); !ok || p != at {
					t.Errorf("moore=%v: grid location %v,%v, want %v", moore, p, ok, at)
				}
			}
		})
	}
}
