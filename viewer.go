package main

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/predation/camera"
	"github.com/pthm-cable/predation/components"
	"github.com/pthm-cable/predation/config"
	"github.com/pthm-cable/predation/game"
	"github.com/pthm-cable/predation/inspector"
	"github.com/pthm-cable/predation/renderer"
	"github.com/pthm-cable/predation/ui"
)

const sidebarWidth = 300

// viewer drives a Game from the raylib frame loop.
type viewer struct {
	opts    game.Options
	game    *game.Game
	pending *config.Config // slider edits, applied on reset
	dirty   bool

	cam       *camera.Camera
	grid      *renderer.GridRenderer
	agents    *renderer.AgentRenderer
	hud       *ui.HUD
	controls  *ui.ControlsPanel
	stats     *ui.StatsPanel
	perf      *ui.PerfPanel
	bookmarks *ui.BookmarkPanel
	chart     *ui.PopulationChart
	overlays  *ui.OverlayRegistry
	inspector *inspector.Inspector

	paused    bool
	stepOnce  bool
	frame     int
	tickEvery int
}

func newViewer(opts game.Options) (*viewer, error) {
	g, err := game.NewGame(opts)
	if err != nil {
		return nil, err
	}

	cfg := opts.Config
	sw, sh := int32(cfg.Screen.Width), int32(cfg.Screen.Height)

	v := &viewer{
		opts:      opts,
		game:      g,
		pending:   cfg.Clone(),
		grid:      renderer.NewGridRenderer(),
		agents:    renderer.NewAgentRenderer(),
		hud:       ui.NewHUD(),
		controls:  ui.NewControlsPanel(sw-sidebarWidth-10, 10, sidebarWidth),
		stats:     ui.NewStatsPanel(10, 100),
		perf:      ui.NewPerfPanel(10, 100),
		bookmarks: ui.NewBookmarkPanel(10, 0, 360),
		chart:     ui.NewPopulationChart(0, 0, 0, 0),
		overlays:  ui.NewOverlayRegistry(),
		inspector: inspector.NewInspector(sw-sidebarWidth-10, sh),
		tickEvery: max(cfg.Screen.TickEvery, 1),
	}
	v.layout()
	return v, nil
}

// layout places the grid viewport and the chart below it.
func (v *viewer) layout() {
	sw, sh := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	chartH := float32(170)
	gridW := sw - sidebarWidth - 30
	gridH := sh - chartH - 110

	h, w := v.game.GridSize()
	if v.cam == nil || v.cam.Rows != h || v.cam.Cols != w {
		v.cam = camera.New(10, 100, gridW, gridH, h, w)
	} else {
		v.cam.Resize(10, 100, gridW, gridH)
	}
	v.chart.SetBounds(10, int32(sh-chartH-30), int32(gridW), int32(chartH))
	v.controls.SetPosition(int32(sw)-sidebarWidth-10, 10)
	v.inspector.SetPosition(int32(sw)-sidebarWidth-10, v.controls.Height()+20)
}

// Update handles input and advances the simulation every tickEvery frames.
func (v *viewer) Update() {
	v.game.RecordFrame()
	if rl.IsWindowResized() {
		v.layout()
	}

	v.overlays.HandleInput()
	v.handleCameraInput()
	v.inspector.HandleInput(v.cam)

	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		v.stepOnce = true
	}
	if rl.IsKeyPressed(rl.KeyEqual) {
		v.tickEvery = max(v.tickEvery/2, 1)
	}
	if rl.IsKeyPressed(rl.KeyMinus) {
		v.tickEvery = min(v.tickEvery*2, 120)
	}

	v.frame++
	if v.stepOnce || (!v.paused && v.frame%v.tickEvery == 0) {
		v.game.Step()
		v.stepOnce = false
	}
}

func (v *viewer) handleCameraInput() {
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		v.cam.Pan(-d.X, -d.Y)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Reset()
	}
}

// Draw renders one frame.
func (v *viewer) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(rl.Color{R: 10, G: 10, B: 12, A: 255})

	agents := v.game.Agents()
	v.grid.ShowGridLines = v.overlays.IsEnabled(ui.OverlayGridLines)
	v.grid.ShowRegrowth = v.overlays.IsEnabled(ui.OverlayRegrowth)
	v.agents.ShowEnergy = v.overlays.IsEnabled(ui.OverlayEnergyLabels)
	v.grid.Draw(v.cam, agents)
	v.agents.Draw(v.cam, agents)
	v.inspector.DrawSelectionHighlight(v.cam)

	cfg := v.game.Config()
	v.hud.Draw(ui.HUDData{
		Title:       "Predation",
		Prey:        v.game.CountOf(components.KindPrey),
		Predators:   v.game.CountOf(components.KindPredator),
		GrownForage: v.game.GrownForage(),
		Cells:       cfg.Derived.Cells,
		Tick:        v.game.Tick(),
		Seed:        v.game.Seed(),
		TickEvery:   v.tickEvery,
		FPS:         rl.GetFPS(),
		Paused:      v.paused,
	})

	if v.overlays.IsEnabled(ui.OverlayChart) {
		v.chart.ShowForage = cfg.Forage.Enabled
		v.chart.Draw(v.game.History())
	}

	panelY := int32(100)
	if v.overlays.IsEnabled(ui.OverlayStats) {
		v.stats.SetPosition(20, panelY+10)
		stats, ok := v.game.LastStats()
		panelY = v.stats.Draw(stats, ok)
	}
	if v.overlays.IsEnabled(ui.OverlayPerf) {
		v.perf.SetPosition(20, panelY+10)
		panelY = v.perf.Draw(v.game.PerfStats())
	}
	if v.overlays.IsEnabled(ui.OverlayBookmarks) {
		v.bookmarks.SetPosition(20, panelY+10)
		v.bookmarks.Draw(v.game.RecentBookmarks())
	}

	if v.overlays.IsEnabled(ui.OverlaySliders) {
		v.handleAction(v.controls.Draw(v.pending, v.paused, v.dirty))
	}
	if _, selected := v.inspector.Selected(); selected {
		v.inspector.Draw(v.game)
	} else {
		sw := int32(rl.GetScreenWidth())
		v.controls.DrawLegend(sw-sidebarWidth-10, v.controls.Height()+20, sidebarWidth, v.overlays)
	}

	v.hud.DrawControls(int32(rl.GetScreenHeight()),
		"[Space] pause  [.] step  [+/-] speed  [wheel] zoom  [middle drag] pan  [Home] recenter  [click] inspect cell")
}

func (v *viewer) handleAction(action ui.ControlAction) {
	switch action {
	case ui.ActionTogglePause:
		v.paused = !v.paused
	case ui.ActionStep:
		v.stepOnce = true
	case ui.ActionDefaults:
		v.pending = config.Defaults()
	case ui.ActionReset:
		v.reset()
	}
	v.dirty = !sameParams(v.pending, v.game.Config())
}

// sameParams compares two configs ignoring derived values.
func sameParams(a, b *config.Config) bool {
	x, y := *a, *b
	x.Derived, y.Derived = config.DerivedConfig{}, config.DerivedConfig{}
	return x == y
}

// reset rebuilds the game from the pending config with the same seed.
func (v *viewer) reset() {
	opts := v.opts
	opts.Config = v.pending.Clone()
	if err := opts.Config.Refresh(); err != nil {
		slog.Warn("reset rejected", "error", err)
		return
	}
	// The old game owns the output files; release them first.
	v.game.Close()
	g, err := game.NewGame(opts)
	if err != nil {
		slog.Error("reset failed", "error", err)
		opts.OutputDir = ""
		if g, err = game.NewGame(opts); err != nil {
			panic(err)
		}
	}
	v.game = g
	v.opts = opts
	v.inspector.Deselect()
	v.layout()
	slog.Info("simulation reset", "seed", opts.Seed)
}

// Close releases the current game.
func (v *viewer) Close() {
	v.game.Close()
}
