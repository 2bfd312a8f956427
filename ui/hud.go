package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/predation/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title       string
	Prey        int
	Predators   int
	GrownForage int
	Cells       int
	Tick        int32
	Seed        int64
	TickEvery   int // frames per tick
	FPS         int32
	Paused      bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD at the top-left corner.
func (h *HUD) Draw(data HUDData) {
	theme := h.renderer.Theme

	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(fmt.Sprintf("Sheep: %d", data.Prey), 10, 35, 16, theme.PreyLine)
	rl.DrawText(fmt.Sprintf("Wolves: %d", data.Predators), 110, 35, 16, theme.PredatorLine)
	rl.DrawText(fmt.Sprintf("Grass: %d/%d", data.GrownForage, data.Cells), 220, 35, 16, theme.ForageLine)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Seed: %d | 1 tick / %d frames | FPS: %d", data.Tick, data.Seed, data.TickEvery, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 75, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// statsPanel lays out the latest stats window.
var statsPanel = PanelDescriptor{
	ID:    "window_stats",
	Title: "Window Stats",
	Width: 260,
	Sections: []SectionDescriptor{
		{
			ID:    "population",
			Title: "Population",
			Fields: []FieldDescriptor{
				statsText("window", "Window", func(s telemetry.WindowStats) string {
					return fmt.Sprintf("%d-%d", s.WindowStartTick, s.WindowEndTick)
				}),
				statsText("prey", "Sheep", func(s telemetry.WindowStats) string { return fmt.Sprint(s.PreyCount) }),
				statsText("pred", "Wolves", func(s telemetry.WindowStats) string { return fmt.Sprint(s.PredCount) }),
				{
					ID: "forage_cover", Label: "Grass cover", Widget: WidgetBar,
					Getter: func(d any) float32 { return float32(d.(telemetry.WindowStats).ForageCover) },
				},
			},
		},
		{
			ID:    "events",
			Title: "Events",
			Fields: []FieldDescriptor{
				statsText("births", "Births s/w", func(s telemetry.WindowStats) string {
					return fmt.Sprintf("%d / %d", s.PreyBirths, s.PredBirths)
				}),
				statsText("deaths", "Deaths s/w", func(s telemetry.WindowStats) string {
					return fmt.Sprintf("%d / %d", s.PreyDeaths, s.PredDeaths)
				}),
				statsText("starved", "Starved s/w", func(s telemetry.WindowStats) string {
					return fmt.Sprintf("%d / %d", s.PreyStarved, s.PredStarved)
				}),
				statsText("kills", "Kills", func(s telemetry.WindowStats) string {
					return fmt.Sprintf("%d (%.3f/wolf/tick)", s.Kills, s.KillsPerPred)
				}),
				statsText("grazes", "Grazes", func(s telemetry.WindowStats) string { return fmt.Sprint(s.Grazes) }),
			},
		},
		{
			ID:    "energy",
			Title: "Energy p10/p50/p90",
			Fields: []FieldDescriptor{
				statsText("prey_energy", "Sheep", func(s telemetry.WindowStats) string {
					return fmt.Sprintf("%.0f / %.0f / %.0f", s.PreyEnergyP10, s.PreyEnergyP50, s.PreyEnergyP90)
				}),
				statsText("pred_energy", "Wolves", func(s telemetry.WindowStats) string {
					return fmt.Sprintf("%.0f / %.0f / %.0f", s.PredEnergyP10, s.PredEnergyP50, s.PredEnergyP90)
				}),
			},
		},
	},
}

func statsText(id, label string, fn func(telemetry.WindowStats) string) FieldDescriptor {
	return FieldDescriptor{
		ID:         id,
		Label:      label,
		Widget:     WidgetText,
		TextGetter: func(d any) string { return fn(d.(telemetry.WindowStats)) },
	}
}

// StatsPanel renders the most recent stats window.
type StatsPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewStatsPanel creates a stats panel.
func NewStatsPanel(x, y int32) *StatsPanel {
	return &StatsPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *StatsPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders stats, or a placeholder before the first window closes.
func (p *StatsPanel) Draw(stats telemetry.WindowStats, ok bool) int32 {
	if !ok {
		p.renderer.DrawPanel(p.x, p.y, statsPanel.Width, 40)
		rl.DrawText("Waiting for first window...", p.x+10, p.y+12, 14, rl.Gray)
		return p.y + 40
	}
	return p.renderer.DrawPanelDescriptor(p.x, p.y, statsPanel, stats)
}

// PerfPanel renders the tick phase timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) int32 {
	rows := stats.Breakdown()
	height := int32(20+16+16) + int32(len(rows))*14 + 20
	p.renderer.DrawPanel(p.x, p.y, 260, height)

	x := p.x + 10
	y := p.y + 10

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s  (%.0f ticks/s)", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16
	rl.DrawText(fmt.Sprintf("Min %s / P95 %s / Max %s",
		stats.MinTickDuration.Round(time.Microsecond), stats.P95TickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond)), x, y, 12, rl.LightGray)
	y += 16

	for _, row := range rows {
		color := rl.LightGray
		if row.Pct > 50 {
			color = rl.Red
		} else if row.Pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-12s %8s %5.1f%%", row.Name, row.Avg.Round(time.Microsecond), row.Pct),
			x, y, 12, color,
		)
		y += 14
	}
	return p.y + height
}

// BookmarkPanel lists recent ecosystem bookmarks.
type BookmarkPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewBookmarkPanel creates a bookmark panel.
func NewBookmarkPanel(x, y, width int32) *BookmarkPanel {
	return &BookmarkPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (b *BookmarkPanel) SetPosition(x, y int32) {
	b.x = x
	b.y = y
}

// Draw renders bookmarks newest first.
func (b *BookmarkPanel) Draw(bookmarks []telemetry.Bookmark) int32 {
	lh := b.renderer.Theme.LineHeight
	height := int32(30) + int32(max(len(bookmarks), 1))*lh
	b.renderer.DrawPanel(b.x, b.y, b.width, height)

	x := b.x + 10
	y := b.y + 8
	rl.DrawText("Bookmarks", x, y, 16, rl.White)
	y += 20

	if len(bookmarks) == 0 {
		rl.DrawText("none yet", x, y, 12, rl.Gray)
		return b.y + height
	}
	for i := len(bookmarks) - 1; i >= 0; i-- {
		bm := bookmarks[i]
		text := fmt.Sprintf("%5d  %s", bm.Tick, bm.Description)
		rl.DrawText(text, x, y, 12, bookmarkColor(bm.Type))
		y += lh
	}
	return b.y + height
}

func bookmarkColor(t telemetry.BookmarkType) rl.Color {
	switch t {
	case telemetry.BookmarkPreyExtinct, telemetry.BookmarkPredatorExtinct, telemetry.BookmarkPreyCrash:
		return rl.Color{R: 220, G: 110, B: 110, A: 255}
	case telemetry.BookmarkStableEcosystem:
		return rl.Color{R: 110, G: 200, B: 110, A: 255}
	default:
		return rl.LightGray
	}
}
