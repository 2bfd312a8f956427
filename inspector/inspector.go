// Package inspector shows the raw components of every agent in a selected
// grid cell, driven by `inspect` struct tags.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/predation/camera"
	"github.com/pthm-cable/predation/components"
	"github.com/pthm-cable/predation/game"
)

// Panel dimensions
const (
	PanelWidth   = 280
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// Source provides the occupants of a cell.
type Source interface {
	Inspect(p components.Position) []game.Occupant
}

// Inspector manages cell selection and panel rendering.
type Inspector struct {
	selected     components.Position
	hasSelected  bool
	panelX       int32
	panelY       int32
	screenHeight int32
}

// NewInspector creates an inspector anchored to the right screen edge.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	return &Inspector{
		panelX:       screenWidth - PanelWidth - 10,
		panelY:       10,
		screenHeight: screenHeight,
	}
}

// HandleInput selects the clicked cell. Right click or Escape deselects.
func (ins *Inspector) HandleInput(cam *camera.Camera) {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	mouse := rl.GetMousePosition()
	mx, my := int32(mouse.X), int32(mouse.Y)

	if ins.hasSelected {
		closeX := ins.panelX + PanelWidth - 25
		closeY := ins.panelY + 5
		if mx >= closeX && mx <= closeX+20 && my >= closeY && my <= closeY+20 {
			ins.Deselect()
			return
		}
		// Clicks on the panel itself are ignored.
		if mx >= ins.panelX && mx <= ins.panelX+PanelWidth && my >= ins.panelY {
			return
		}
	}

	if p, ok := cam.ScreenToCell(mouse.X, mouse.Y); ok {
		ins.Select(p)
	}
}

// Select marks cell p as inspected.
func (ins *Inspector) Select(p components.Position) {
	ins.selected = p
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the inspected cell.
func (ins *Inspector) Selected() (components.Position, bool) {
	return ins.selected, ins.hasSelected
}

// SetPosition moves the panel.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.panelX = x
	ins.panelY = y
}

// Draw renders the panel for the selected cell.
func (ins *Inspector) Draw(src Source) {
	if !ins.hasSelected {
		return
	}
	occupants := src.Inspect(ins.selected)
	panelHeight := ins.screenHeight - ins.panelY - 10

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(panelHeight)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	title := fmt.Sprintf("CELL (%d, %d)  %d agents", ins.selected.Row, ins.selected.Col, len(occupants))
	rl.DrawText(title, ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	bottom := ins.panelY + panelHeight - PanelPadding

	for i, occ := range occupants {
		if y+40 > bottom {
			rl.DrawText(fmt.Sprintf("... %d more", len(occupants)-i), x, y, 14, ColorTextDim)
			break
		}
		y = ins.drawOccupant(x, y, occ)
	}
}

// drawOccupant renders the summary fields and raw components of one agent.
func (ins *Inspector) drawOccupant(x, y int32, occ game.Occupant) int32 {
	v := occ.View
	ins.drawSectionHeader(x, y, fmt.Sprintf("%s #%d", v.Kind, v.ID))
	y += 22

	for _, fd := range components.FieldDescriptors(v.Kind) {
		if fd.IsBar {
			y += DrawBar(x, y, fd.Label, fd.Value(v), float64(fd.Max))
			continue
		}
		y += DrawLabel(x, y, fd.Label, fd.Text(v))
	}

	for _, c := range occ.Components {
		rl.DrawText(ComponentName(c), x, y, 12, ColorTextDim)
		y += 14
		for _, f := range ExtractFields(c) {
			y += DrawField(x+10, y, f)
		}
	}

	rl.DrawLine(x, y+2, ins.panelX+PanelWidth-PanelPadding, y+2, ColorPanelBorder)
	return y + 8
}

func (ins *Inspector) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
}

// DrawSelectionHighlight outlines the selected cell.
func (ins *Inspector) DrawSelectionHighlight(cam *camera.Camera) {
	if !ins.hasSelected || !cam.IsVisible(ins.selected) {
		return
	}
	sx, sy := cam.CellToScreen(ins.selected)
	size := cam.CellSize()
	rl.DrawRectangleLinesEx(rl.Rectangle{X: sx, Y: sy, Width: size, Height: size}, 2, rl.Yellow)
}
