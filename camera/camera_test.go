package camera

import (
	"testing"

	"github.com/pthm-cable/predation/components"
)

func TestNew(t *testing.T) {
	cam := New(0, 0, 800, 400, 10, 40)

	if cam.X != 20 || cam.Y != 5 {
		t.Errorf("center = (%f, %f), want (20, 5)", cam.X, cam.Y)
	}
	// min(800/40, 400/10)
	if cam.BaseCell != 20 {
		t.Errorf("BaseCell = %f, want 20", cam.BaseCell)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("Zoom = %f, want 1", cam.Zoom)
	}
}

func TestCellToScreenCentered(t *testing.T) {
	cam := New(0, 0, 400, 400, 20, 20)

	tests := []struct {
		cell   components.Position
		sx, sy float32
	}{
		{components.Position{Row: 10, Col: 10}, 200, 200},
		{components.Position{Row: 0, Col: 0}, 0, 0},
		{components.Position{Row: 19, Col: 19}, 380, 380},
		{components.Position{Row: 0, Col: 15}, 300, 0},
	}
	for _, tt := range tests {
		sx, sy := cam.CellToScreen(tt.cell)
		if sx != tt.sx || sy != tt.sy {
			t.Errorf("CellToScreen(%v) = (%f, %f), want (%f, %f)", tt.cell, sx, sy, tt.sx, tt.sy)
		}
	}
}

func TestScreenToCellRoundtrip(t *testing.T) {
	cam := New(0, 0, 400, 400, 20, 20)
	half := cam.CellSize() / 2

	for row := 0; row < 20; row++ {
		for col := 0; col < 20; col++ {
			p := components.Position{Row: row, Col: col}
			sx, sy := cam.CellToScreen(p)
			got, ok := cam.ScreenToCell(sx+half, sy+half)
			if !ok || got != p {
				t.Fatalf("roundtrip %v -> (%f,%f) -> %v,%t", p, sx+half, sy+half, got, ok)
			}
		}
	}
}

func TestScreenToCellOutsideViewport(t *testing.T) {
	cam := New(100, 50, 400, 400, 20, 20)

	if got, ok := cam.ScreenToCell(100, 50); !ok || got != (components.Position{}) {
		t.Errorf("ScreenToCell(viewport origin) = %v,%t, want (0,0),true", got, ok)
	}
	if _, ok := cam.ScreenToCell(99, 50); ok {
		t.Error("point left of the viewport mapped to a cell")
	}
	if _, ok := cam.ScreenToCell(300, 450); ok {
		t.Error("point below the viewport mapped to a cell")
	}
}

func TestToroidalWrap(t *testing.T) {
	cam := New(0, 0, 400, 400, 20, 20)
	cam.X = 1 // near the left edge

	// Last column is closer going left around the torus.
	sx, _ := cam.CellToScreen(components.Position{Row: 10, Col: 19})
	if sx >= 200 {
		t.Errorf("column 19 drawn at x=%f, want left of center", sx)
	}
}

func TestPanWraps(t *testing.T) {
	cam := New(0, 0, 400, 400, 20, 20)
	cam.X = 1

	cam.Pan(-40, 0) // two cells left

	if cam.X != 19 {
		t.Errorf("X = %f after wrapping pan, want 19", cam.X)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(0, 0, 400, 400, 20, 20)

	cam.SetZoom(0.1)
	if cam.Zoom != 1 {
		t.Errorf("zoom clamped to %f, want 1", cam.Zoom)
	}

	cam.SetZoom(100)
	if cam.Zoom != 8 {
		t.Errorf("zoom clamped to %f, want 8", cam.Zoom)
	}

	cam.SetZoom(2)
	cam.ZoomBy(1.5)
	if cam.Zoom != 3 {
		t.Errorf("ZoomBy(1.5) from 2 = %f, want 3", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(0, 0, 400, 400, 20, 20)

	if !cam.IsVisible(components.Position{Row: 0, Col: 0}) {
		t.Error("corner cell should be visible at zoom 1")
	}

	cam.SetZoom(2)
	if !cam.IsVisible(components.Position{Row: 10, Col: 10}) {
		t.Error("center cell should be visible")
	}
	if cam.IsVisible(components.Position{Row: 0, Col: 0}) {
		t.Error("corner cell should be off screen at zoom 2")
	}
}

func TestResizeRefitsCells(t *testing.T) {
	cam := New(0, 0, 400, 400, 20, 20)
	cam.Resize(10, 10, 200, 600)

	if cam.BaseCell != 10 {
		t.Errorf("BaseCell = %f after resize, want 10", cam.BaseCell)
	}
	if cam.OriginX != 10 || cam.OriginY != 10 {
		t.Errorf("origin = (%f, %f), want (10, 10)", cam.OriginX, cam.OriginY)
	}
}

func TestReset(t *testing.T) {
	cam := New(0, 0, 400, 400, 20, 20)
	cam.X = 3
	cam.Y = 17
	cam.Zoom = 2.5

	cam.Reset()

	if cam.X != 10 || cam.Y != 10 {
		t.Errorf("position = (%f, %f), want (10, 10)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("Zoom = %f, want 1", cam.Zoom)
	}
}
