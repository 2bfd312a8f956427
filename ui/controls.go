package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/predation/config"
)

// ControlAction is a button press reported by the controls panel.
type ControlAction int

const (
	ActionNone ControlAction = iota
	ActionTogglePause
	ActionStep
	ActionReset
	ActionDefaults
)

// ControlsPanel renders the parameter sliders, the model switches and the
// run buttons. Slider edits go to a pending config that takes effect on reset.
type ControlsPanel struct {
	renderer *Renderer
	sliders  []config.Slider
	x, y     int32
	width    int32
}

// NewControlsPanel creates a controls panel for the declared sliders.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		sliders:  config.Sliders(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Height returns the panel height.
func (c *ControlsPanel) Height() int32 {
	lh := c.renderer.Theme.LineHeight
	return c.renderer.Theme.Padding*2 + lh + 4 + int32(len(c.sliders))*(lh+24) + 2*26 + 40
}

// Draw renders the panel, writes slider changes into pending and returns the
// button pressed this frame, if any.
func (c *ControlsPanel) Draw(pending *config.Config, paused, dirty bool) ControlAction {
	r := c.renderer
	padding := r.Theme.Padding
	lh := r.Theme.LineHeight

	r.DrawPanel(c.x, c.y, c.width, c.Height())

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	inner := float32(c.width - padding*2)

	title := "Model Parameters"
	if dirty {
		title += " (reset to apply)"
	}
	rl.DrawText(title, int32(x), int32(y), 16, rl.White)
	y += float32(lh + 4)

	for _, s := range c.sliders {
		cur := s.Get(pending)
		rl.DrawText(s.Label, int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
		rl.DrawText(formatSliderValue(s, cur), int32(x+inner-40), int32(y), r.Theme.FontSize, r.Theme.ValueColor)
		y += float32(lh)

		next := gui.SliderBar(
			rl.Rectangle{X: x, Y: y, Width: inner, Height: 16},
			"", "",
			float32(cur), float32(s.Min), float32(s.Max),
		)
		if v := s.Snap(float64(next)); v != cur {
			s.Set(pending, v)
		}
		y += 24
	}

	pending.Forage.Enabled = gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 16, Height: 16}, "Grass eatable", pending.Forage.Enabled)
	y += 26
	pending.World.Moore = gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 16, Height: 16}, "Moore displacement", pending.World.Moore)
	y += 26

	bw := (inner - 30) / 4
	action := ActionNone
	pauseLabel := "Pause"
	if paused {
		pauseLabel = "Run"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: 28}, pauseLabel) {
		action = ActionTogglePause
	}
	if gui.Button(rl.Rectangle{X: x + (bw+10)*1, Y: y, Width: bw, Height: 28}, "Step") {
		action = ActionStep
	}
	if gui.Button(rl.Rectangle{X: x + (bw+10)*2, Y: y, Width: bw, Height: 28}, "Reset") {
		action = ActionReset
	}
	if gui.Button(rl.Rectangle{X: x + (bw+10)*3, Y: y, Width: bw, Height: 28}, "Defaults") {
		action = ActionDefaults
	}
	return action
}

func formatSliderValue(s config.Slider, v float64) string {
	if s.Step >= 1 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// DrawLegend renders the overlay toggles with their key bindings at (x, y)
// and returns the bottom edge.
func (c *ControlsPanel) DrawLegend(x, y, width int32, overlays *OverlayRegistry) int32 {
	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	totalItems := 0
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat)) + 1
	}
	panelHeight := int32(totalItems)*lineHeight + padding*3 + lineHeight

	r.DrawPanel(x, y, width, panelHeight)

	cy := y + padding
	rl.DrawText("Overlays", x+padding, cy, 16, rl.White)
	cy += lineHeight + 4

	for _, category := range categories {
		rl.DrawText(categoryLabel(category), x+padding, cy, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		cy += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(x+padding, cy, desc, overlays.IsEnabled(desc.ID), width-padding*2)
			cy += lineHeight
		}
		cy += 4
	}

	return y + panelHeight
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

func categoryLabel(cat string) string {
	switch cat {
	case "grid":
		return "Grid"
	case "panels":
		return "Panels"
	default:
		return cat
	}
}
