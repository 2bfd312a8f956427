package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/predation/components"
)

func pos(r, c int) components.Position { return components.Position{Row: r, Col: c} }

func TestGridWrap(t *testing.T) {
	g := NewGrid(5, 7)
	tests := []struct {
		in, want components.Position
	}{
		{pos(0, 0), pos(0, 0)},
		{pos(-1, -1), pos(4, 6)},
		{pos(5, 7), pos(0, 0)},
		{pos(12, -15), pos(2, 6)},
	}
	for _, tt := range tests {
		if got := g.Wrap(tt.in); got != tt.want {
			t.Errorf("Wrap(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGridPlaceRemove(t *testing.T) {
	_, es := newEntities(3)
	g := NewGrid(4, 4)

	got := g.Place(es[0], pos(5, -1))
	if got != pos(1, 3) {
		t.Errorf("Place returned %v, want normalized (1,3)", got)
	}
	g.Place(es[1], pos(1, 3))
	g.Place(es[2], pos(0, 0))

	occ := g.OccupantsAt(pos(1, 3))
	if len(occ) != 2 || occ[0] != es[0] || occ[1] != es[1] {
		t.Errorf("OccupantsAt(1,3) = %v, want [%v %v] in placement order", occ, es[0], es[1])
	}
	if g.Len() != 3 {
		t.Errorf("Len() = %d, want 3", g.Len())
	}

	g.Remove(es[0])
	occ = g.OccupantsAt(pos(1, 3))
	if len(occ) != 1 || occ[0] != es[1] {
		t.Errorf("after Remove: occupants = %v, want [%v]", occ, es[1])
	}
	if g.Placed(es[0]) {
		t.Error("removed entity still reported as placed")
	}
	if p, ok := g.Locate(es[2]); !ok || p != pos(0, 0) {
		t.Errorf("Locate = %v,%v want (0,0),true", p, ok)
	}
}

func TestGridMoveTo(t *testing.T) {
	_, es := newEntities(1)
	g := NewGrid(3, 3)
	g.Place(es[0], pos(0, 0))

	got := g.MoveTo(es[0], pos(-1, 4))
	if got != pos(2, 1) {
		t.Errorf("MoveTo returned %v, want (2,1)", got)
	}
	if len(g.OccupantsAt(pos(0, 0))) != 0 {
		t.Error("old cell not emptied")
	}
	if occ := g.OccupantsAt(pos(2, 1)); len(occ) != 1 || occ[0] != es[0] {
		t.Errorf("new cell occupants = %v", occ)
	}
}

func TestGridFaults(t *testing.T) {
	_, es := newEntities(2)
	g := NewGrid(3, 3)
	g.Place(es[0], pos(0, 0))

	expectPanic(t, "double place", func() { g.Place(es[0], pos(1, 1)) })
	expectPanic(t, "remove unplaced", func() { g.Remove(es[1]) })
	expectPanic(t, "move unplaced", func() { g.MoveTo(es[1], pos(1, 1)) })
	expectPanic(t, "zero size", func() { NewGrid(0, 3) })
}

func TestNeighborhoodWrapsAtCorner(t *testing.T) {
	const h, w = 10, 8
	g := NewGrid(h, w)
	cells := g.Neighborhood(pos(0, 0), 1, false, true)

	if len(cells) != 8 {
		t.Fatalf("moore neighborhood size = %d, want 8", len(cells))
	}
	for _, want := range []components.Position{pos(h-1, w-1), pos(h-1, 0), pos(0, w-1), pos(1, 1)} {
		if !containsPos(cells, want) {
			t.Errorf("neighborhood of (0,0) missing %v: %v", want, cells)
		}
	}
	if containsPos(cells, pos(0, 0)) {
		t.Error("center included with includeSelf=false")
	}
}

func TestNeighborhoodShapes(t *testing.T) {
	g := NewGrid(20, 20)
	tests := []struct {
		name        string
		radius      int
		includeSelf bool
		moore       bool
		want        int
	}{
		{"moore r1", 1, false, true, 8},
		{"moore r1 with self", 1, true, true, 9},
		{"von neumann r1", 1, false, false, 4},
		{"von neumann r1 with self", 1, true, false, 5},
		{"moore r2", 2, false, true, 24},
		{"von neumann r2", 2, false, false, 12},
		{"radius zero with self", 0, true, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := g.Neighborhood(pos(5, 5), tt.radius, tt.includeSelf, tt.moore)
			if len(cells) != tt.want {
				t.Errorf("len = %d, want %d (%v)", len(cells), tt.want, cells)
			}
		})
	}
}

func TestNeighborhoodVonNeumannAxes(t *testing.T) {
	g := NewGrid(4, 4)
	cells := g.Neighborhood(pos(0, 0), 1, false, false)
	want := []components.Position{pos(3, 0), pos(0, 3), pos(0, 1), pos(1, 0)}
	if len(cells) != len(want) {
		t.Fatalf("len = %d, want %d: %v", len(cells), len(want), cells)
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("cells[%d] = %v, want %v", i, cells[i], want[i])
		}
	}
}

func TestNeighborhoodDeduplicatesOnTinyGrid(t *testing.T) {
	g := NewGrid(2, 2)
	cells := g.Neighborhood(pos(0, 0), 1, true, true)
	if len(cells) != 4 {
		t.Errorf("2x2 moore with self = %d cells, want 4: %v", len(cells), cells)
	}

	g1 := NewGrid(1, 1)
	cells = g1.Neighborhood(pos(0, 0), 1, true, true)
	if len(cells) != 1 || cells[0] != pos(0, 0) {
		t.Errorf("1x1 grid neighborhood = %v, want [(0,0)]", cells)
	}
	cells = g1.Neighborhood(pos(0, 0), 1, false, true)
	if len(cells) != 0 {
		t.Errorf("1x1 grid without self = %v, want empty", cells)
	}
}

func TestGridEach(t *testing.T) {
	_, es := newEntities(3)
	g := NewGrid(3, 3)
	g.Place(es[0], pos(2, 2))
	g.Place(es[1], pos(0, 1))
	g.Place(es[2], pos(0, 1))

	var seen []components.Position
	g.Each(func(_ ecs.Entity, p components.Position) { seen = append(seen, p) })
	want := []components.Position{pos(0, 1), pos(0, 1), pos(2, 2)}
	if len(seen) != len(want) {
		t.Fatalf("Each visited %d, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("visit %d at %v, want %v", i, seen[i], want[i])
		}
	}
}
