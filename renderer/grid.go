// Package renderer draws the simulation grid with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/predation/camera"
	"github.com/pthm-cable/predation/components"
)

// Forage palette
var (
	ColorGrown      = rl.Color{R: 0x36, G: 0x96, B: 0x38, A: 255}
	ColorGrazed     = rl.Color{R: 0x66, G: 0x59, B: 0x37, A: 255}
	ColorRegrowing  = rl.Color{R: 0x6e, G: 0xc2, B: 0x70, A: 255}
	ColorEmptyCell  = rl.Color{R: 24, G: 28, B: 24, A: 255}
	ColorGridLine   = rl.Color{R: 0, G: 0, B: 0, A: 60}
	ColorBackground = rl.Color{R: 15, G: 15, B: 18, A: 255}
)

// GridRenderer draws the forage layer and cell outlines.
type GridRenderer struct {
	ShowGridLines bool
	// Grass colour only distinguishes grown from grazed when false.
	ShowRegrowth bool
}

// NewGridRenderer creates a grid renderer with outlines and regrowth shading on.
func NewGridRenderer() *GridRenderer {
	return &GridRenderer{ShowGridLines: true, ShowRegrowth: true}
}

// ForageColor maps a patch view to its cell colour. A grazed patch starts
// brown and greens as it approaches regrowth.
func ForageColor(v components.AgentView, shaded bool) rl.Color {
	if v.Grown {
		return ColorGrown
	}
	if !shaded {
		return ColorGrazed
	}
	progress := float32(1 - v.RegrowthFraction)
	return lerpColor(ColorGrazed, ColorRegrowing, progress)
}

// Draw renders every visible cell. agents must hold all live agents;
// only forage is drawn here.
func (r *GridRenderer) Draw(cam *camera.Camera, agents []components.AgentView) {
	rl.DrawRectangle(int32(cam.OriginX), int32(cam.OriginY), int32(cam.ViewportW), int32(cam.ViewportH), ColorBackground)

	size := cam.CellSize()
	rl.BeginScissorMode(int32(cam.OriginX), int32(cam.OriginY), int32(cam.ViewportW), int32(cam.ViewportH))
	defer rl.EndScissorMode()

	for row := 0; row < cam.Rows; row++ {
		for col := 0; col < cam.Cols; col++ {
			p := components.Position{Row: row, Col: col}
			if !cam.IsVisible(p) {
				continue
			}
			sx, sy := cam.CellToScreen(p)
			rl.DrawRectangleV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: size, Y: size}, ColorEmptyCell)
		}
	}

	for i := range agents {
		v := &agents[i]
		if v.Kind != components.KindForage || !cam.IsVisible(v.Pos) {
			continue
		}
		sx, sy := cam.CellToScreen(v.Pos)
		rl.DrawRectangleV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: size, Y: size}, ForageColor(*v, r.ShowRegrowth))
	}

	if r.ShowGridLines && size >= 6 {
		for row := 0; row < cam.Rows; row++ {
			for col := 0; col < cam.Cols; col++ {
				p := components.Position{Row: row, Col: col}
				if !cam.IsVisible(p) {
					continue
				}
				sx, sy := cam.CellToScreen(p)
				rl.DrawRectangleLinesEx(rl.Rectangle{X: sx, Y: sy, Width: size, Height: size}, 1, ColorGridLine)
			}
		}
	}
}

// lerpColor interpolates between two colors.
func lerpColor(a, b rl.Color, t float32) rl.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: 255,
	}
}
