// Package game runs the predator-prey simulation: it owns the ECS world,
// the toroidal grid, the breed scheduler and the random source, and drives
// one scheduler pass per tick.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/predation/components"
	"github.com/pthm-cable/predation/config"
	"github.com/pthm-cable/predation/systems"
	"github.com/pthm-cable/predation/telemetry"
)

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand
	seed  int64

	// Archetype mappers
	mobileMapper *ecs.Map4[
		components.Identity,
		components.Position,
		components.Energy,
		components.Movement,
	]
	forageMapper *ecs.Map3[
		components.Identity,
		components.Position,
		components.Forage,
	]
	mobileFilter *ecs.Filter2[components.Identity, components.Energy]
	forageFilter *ecs.Filter1[components.Forage]

	// Individual component mappers for lookups
	idMap     *ecs.Map1[components.Identity]
	posMap    *ecs.Map1[components.Position]
	energyMap *ecs.Map1[components.Energy]
	moveMap   *ecs.Map1[components.Movement]
	forageMap *ecs.Map1[components.Forage]

	grid      *systems.Grid
	scheduler *systems.Scheduler
	mover     *systems.Mover

	// State
	tick    int32
	nextID  uint64
	births  [components.NumKinds]int
	deaths  [components.NumKinds]int
	extinct [components.NumKinds]bool
	debug   bool

	// Telemetry
	collector        *telemetry.Collector
	history          *telemetry.PopulationHistory
	bookmarkDetector *telemetry.BookmarkDetector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	recentBookmarks  []telemetry.Bookmark
	lastStats        telemetry.WindowStats
	hasStats         bool
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
	onEvent          func(telemetry.Event)
}

// NewGame creates a simulation and spawns its initial population.
func NewGame(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Defaults()
	}
	// Sliders and the optimizer edit configs in place; recheck before use.
	cfg = cfg.Clone()
	if err := cfg.Refresh(); err != nil {
		return nil, fmt.Errorf("game config: %w", err)
	}

	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(opts.Seed))

	g := &Game{
		cfg:   cfg,
		world: world,
		rng:   rng,
		seed:  opts.Seed,
		mobileMapper: ecs.NewMap4[
			components.Identity,
			components.Position,
			components.Energy,
			components.Movement,
		](world),
		forageMapper: ecs.NewMap3[
			components.Identity,
			components.Position,
			components.Forage,
		](world),
		mobileFilter:  ecs.NewFilter2[components.Identity, components.Energy](world),
		forageFilter:  ecs.NewFilter1[components.Forage](world),
		idMap:         ecs.NewMap1[components.Identity](world),
		posMap:        ecs.NewMap1[components.Position](world),
		energyMap:     ecs.NewMap1[components.Energy](world),
		moveMap:       ecs.NewMap1[components.Movement](world),
		forageMap:     ecs.NewMap1[components.Forage](world),
		nextID:        1,
		debug:         opts.Debug,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
		onEvent:       opts.OnEvent,
	}

	g.grid = systems.NewGrid(cfg.World.Height, cfg.World.Width)
	g.scheduler = systems.NewScheduler(rng)
	g.mover = systems.NewMover(g.grid, rng)
	g.scheduler.Handle(components.KindPrey, g.stepPrey)
	g.scheduler.Handle(components.KindPredator, g.stepPredator)
	g.scheduler.Handle(components.KindForage, g.stepForage)

	g.collector = telemetry.NewCollector(cfg.Telemetry.StatsWindow)
	g.history = telemetry.NewPopulationHistory(cfg.Telemetry.HistorySize)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}
	g.outputManager = om

	g.spawnInitialPopulation()

	// Tick 0 is part of the population series.
	g.collect()

	return g, nil
}

// Step runs a single tick: one full scheduler pass followed by data collection.
func (g *Game) Step() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseActivation)
	g.scheduler.ActivateAll()
	g.tick++

	if g.debug {
		g.perfCollector.StartPhase(telemetry.PhaseConsistency)
		if err := g.CheckConsistency(); err != nil {
			panic(fmt.Sprintf("game: tick %d: %v", g.tick, err))
		}
	}

	g.perfCollector.StartPhase(telemetry.PhaseCollect)
	g.collect()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// Run advances up to n ticks and returns how many ran. It only stops
// between ticks; a cancelled ctx yields ctx.Err().
func (g *Game) Run(ctx context.Context, n int) (int, error) {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		g.Step()
	}
	return n, nil
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// Seed returns the RNG seed the game was created with.
func (g *Game) Seed() int64 {
	return g.seed
}

// Config returns the game's private configuration copy. Do not modify it.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// CountOf returns the live population of a breed.
func (g *Game) CountOf(kind components.Kind) int {
	return g.scheduler.CountOf(kind)
}

// Births returns the number of agents of kind born by reproduction so far.
func (g *Game) Births(kind components.Kind) int {
	return g.births[kind]
}

// Deaths returns the number of agents of kind that starved or were eaten so far.
func (g *Game) Deaths(kind components.Kind) int {
	return g.deaths[kind]
}

// Extinct reports whether both mobile breeds have died out.
func (g *Game) Extinct() bool {
	return g.CountOf(components.KindPrey) == 0 && g.CountOf(components.KindPredator) == 0
}

// GrownForage returns the number of grown grass patches.
func (g *Game) GrownForage() int {
	n := 0
	query := g.forageFilter.Query()
	for query.Next() {
		if query.Get().Grown {
			n++
		}
	}
	return n
}

// GridSize returns the grid height and width.
func (g *Game) GridSize() (height, width int) {
	return g.grid.Height(), g.grid.Width()
}

// View returns the read-only projection of a live agent.
func (g *Game) View(e ecs.Entity) (components.AgentView, bool) {
	if !g.world.Alive(e) || !g.scheduler.Registered(e) {
		return components.AgentView{}, false
	}

	id := g.idMap.Get(e)
	v := components.AgentView{
		ID:   id.ID,
		Kind: id.Kind,
		Pos:  *g.posMap.Get(e),
	}
	if id.Kind.Mobile() {
		v.Energy = g.energyMap.Get(e).Value
	} else {
		f := g.forageMap.Get(e)
		v.Grown = f.Grown
		v.RegrowthFraction = f.RegrowthFraction()
	}
	return v, true
}

// AgentsAt returns the occupants of the cell at p in placement order.
// Coordinates are normalized onto the torus.
func (g *Game) AgentsAt(p components.Position) []components.AgentView {
	occupants := g.grid.OccupantsAt(p)
	views := make([]components.AgentView, 0, len(occupants))
	for _, e := range occupants {
		if v, ok := g.View(e); ok {
			views = append(views, v)
		}
	}
	return views
}

// Occupant pairs an agent view with copies of its components.
type Occupant struct {
	View       components.AgentView
	Components []any
}

// Inspect returns the occupants of the cell at p with their raw components,
// in placement order.
func (g *Game) Inspect(p components.Position) []Occupant {
	occupants := g.grid.OccupantsAt(p)
	out := make([]Occupant, 0, len(occupants))
	for _, e := range occupants {
		v, ok := g.View(e)
		if !ok {
			continue
		}
		comps := []any{*g.idMap.Get(e), *g.posMap.Get(e)}
		if v.Kind.Mobile() {
			comps = append(comps, *g.energyMap.Get(e), *g.moveMap.Get(e))
		} else {
			comps = append(comps, *g.forageMap.Get(e))
		}
		out = append(out, Occupant{View: v, Components: comps})
	}
	return out
}

// Agents returns every live agent, cell by cell in row-major order.
func (g *Game) Agents() []components.AgentView {
	views := make([]components.AgentView, 0, g.grid.Len())
	g.grid.Each(func(e ecs.Entity, _ components.Position) {
		if v, ok := g.View(e); ok {
			views = append(views, v)
		}
	})
	return views
}

// History returns the recorded population samples in tick order.
func (g *Game) History() []telemetry.Sample {
	return g.history.Samples()
}

// LastStats returns the most recently flushed stats window.
func (g *Game) LastStats() (telemetry.WindowStats, bool) {
	return g.lastStats, g.hasStats
}

// RecentBookmarks returns the latest bookmarks, oldest first.
func (g *Game) RecentBookmarks() []telemetry.Bookmark {
	return g.recentBookmarks
}

// PerfStats returns timing statistics over the perf window.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// RecordFrame records frame timing for graphical front ends.
func (g *Game) RecordFrame() {
	g.perfCollector.RecordFrame()
}

// Close flushes output files and logs the final state.
func (g *Game) Close() error {
	slog.Info("simulation finished",
		"tick", g.tick,
		"prey", g.CountOf(components.KindPrey),
		"predators", g.CountOf(components.KindPredator),
		"grown_forage", g.GrownForage(),
	)
	return g.outputManager.Close()
}
