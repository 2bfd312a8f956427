package renderer

import (
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/predation/camera"
	"github.com/pthm-cable/predation/components"
)

// Agent palette
var (
	ColorPrey         = rl.White
	ColorPreyText     = rl.Black
	ColorPredator     = rl.Color{R: 0x47, G: 0x47, B: 0x47, A: 255}
	ColorPredatorText = rl.White
	ColorOutline      = rl.Color{R: 0, G: 0, B: 0, A: 120}
)

// AgentRenderer draws prey and predators as filled circles. Agents sharing
// a cell are fanned out so each stays visible.
type AgentRenderer struct {
	ShowEnergy bool

	perCell map[components.Position]int
}

// NewAgentRenderer creates an agent renderer with energy labels on.
func NewAgentRenderer() *AgentRenderer {
	return &AgentRenderer{
		ShowEnergy: true,
		perCell:    make(map[components.Position]int),
	}
}

// Draw renders all mobile agents in agents.
func (r *AgentRenderer) Draw(cam *camera.Camera, agents []components.AgentView) {
	clear(r.perCell)
	for i := range agents {
		if agents[i].Kind.Mobile() {
			r.perCell[agents[i].Pos]++
		}
	}

	size := cam.CellSize()
	slot := make(map[components.Position]int, len(r.perCell))

	rl.BeginScissorMode(int32(cam.OriginX), int32(cam.OriginY), int32(cam.ViewportW), int32(cam.ViewportH))
	defer rl.EndScissorMode()

	for i := range agents {
		v := &agents[i]
		if !v.Kind.Mobile() || !cam.IsVisible(v.Pos) {
			continue
		}

		n := r.perCell[v.Pos]
		k := slot[v.Pos]
		slot[v.Pos]++

		sx, sy := cam.CellToScreen(v.Pos)
		cx, cy, radius := fanOut(sx, sy, size, k, n)

		fill, text := ColorPrey, ColorPreyText
		if v.Kind == components.KindPredator {
			fill, text = ColorPredator, ColorPredatorText
		}
		rl.DrawCircleV(rl.Vector2{X: cx, Y: cy}, radius, fill)
		rl.DrawCircleLinesV(rl.Vector2{X: cx, Y: cy}, radius, ColorOutline)

		if r.ShowEnergy && radius >= 7 {
			label := strconv.Itoa(v.Energy)
			fontSize := int32(radius)
			w := rl.MeasureText(label, fontSize)
			rl.DrawText(label, int32(cx)-w/2, int32(cy)-fontSize/2, fontSize, text)
		}
	}
}

// fanOut places the k-th of n circles inside a cell. A single agent fills the
// cell; crowds are laid out on a square lattice.
func fanOut(sx, sy, size float32, k, n int) (cx, cy, radius float32) {
	if n <= 1 {
		return sx + size/2, sy + size/2, size * 0.42
	}
	side := 1
	for side*side < n {
		side++
	}
	step := size / float32(side)
	col, row := k%side, k/side
	return sx + step*(float32(col)+0.5), sy + step*(float32(row)+0.5), step * 0.42
}
