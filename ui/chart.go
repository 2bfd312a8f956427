package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/predation/telemetry"
)

// PopulationChart plots the population history as line series, scaled to
// the largest value seen in the visible range.
type PopulationChart struct {
	renderer      *Renderer
	x, y          int32
	width, height int32
	ShowForage    bool
}

// NewPopulationChart creates a chart occupying the given rectangle.
func NewPopulationChart(x, y, width, height int32) *PopulationChart {
	return &PopulationChart{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		height:   height,
	}
}

// SetBounds moves and resizes the chart.
func (c *PopulationChart) SetBounds(x, y, width, height int32) {
	c.x, c.y, c.width, c.height = x, y, width, height
}

// Draw renders the samples. When there are more samples than horizontal
// pixels only the most recent ones are shown.
func (c *PopulationChart) Draw(samples []telemetry.Sample) {
	theme := c.renderer.Theme
	c.renderer.DrawPanel(c.x, c.y, c.width, c.height)

	const pad = 8
	const legend = 18
	plotX := float32(c.x + pad + 30)
	plotY := float32(c.y + pad + legend)
	plotW := float32(c.width - pad*2 - 30)
	plotH := float32(c.height - pad*2 - legend - 12)

	rl.DrawText("Sheep", c.x+pad, c.y+pad, 12, theme.PreyLine)
	rl.DrawText("Wolves", c.x+pad+50, c.y+pad, 12, theme.PredatorLine)
	if c.ShowForage {
		rl.DrawText("Grass", c.x+pad+110, c.y+pad, 12, theme.ForageLine)
	}

	if maxPoints := int(plotW); len(samples) > maxPoints {
		samples = samples[len(samples)-maxPoints:]
	}
	if len(samples) < 2 {
		return
	}

	peak := telemetry.Peak(samples, c.ShowForage)

	rl.DrawText(fmt.Sprint(peak), c.x+pad, int32(plotY), 10, theme.LabelColor)
	rl.DrawText("0", c.x+pad, int32(plotY+plotH)-10, 10, theme.LabelColor)
	rl.DrawLine(int32(plotX), int32(plotY+plotH), int32(plotX+plotW), int32(plotY+plotH), theme.PanelBorder)

	first, last := samples[0].Tick, samples[len(samples)-1].Tick
	span := float32(max(last-first, 1))
	px := func(tick int32) float32 { return plotX + float32(tick-first)/span*plotW }
	py := func(v int) float32 { return plotY + plotH - float32(v)/float32(peak)*plotH }

	for i := 1; i < len(samples); i++ {
		a, b := samples[i-1], samples[i]
		x0, x1 := px(a.Tick), px(b.Tick)
		rl.DrawLineV(rl.Vector2{X: x0, Y: py(a.Prey)}, rl.Vector2{X: x1, Y: py(b.Prey)}, theme.PreyLine)
		rl.DrawLineV(rl.Vector2{X: x0, Y: py(a.Predators)}, rl.Vector2{X: x1, Y: py(b.Predators)}, theme.PredatorLine)
		if c.ShowForage {
			rl.DrawLineV(rl.Vector2{X: x0, Y: py(a.GrownForage)}, rl.Vector2{X: x1, Y: py(b.GrownForage)}, theme.ForageLine)
		}
	}

	rl.DrawText(fmt.Sprint(first), int32(plotX), int32(plotY+plotH)+2, 10, theme.LabelColor)
	lastLabel := fmt.Sprint(last)
	rl.DrawText(lastLabel, int32(plotX+plotW)-rl.MeasureText(lastLabel, 10), int32(plotY+plotH)+2, 10, theme.LabelColor)
}
