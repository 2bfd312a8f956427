package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/predation/components"
)

// spawnInitialPopulation creates the starting prey and predators at random
// cells, then one grass patch per cell.
func (g *Game) spawnInitialPopulation() {
	cfg := g.cfg
	h, w := g.grid.Height(), g.grid.Width()

	for i := 0; i < cfg.Population.InitialPrey; i++ {
		g.spawnMobile(components.KindPrey, components.Position{Row: g.rng.Intn(h), Col: g.rng.Intn(w)})
	}
	for i := 0; i < cfg.Population.InitialPredators; i++ {
		g.spawnMobile(components.KindPredator, components.Position{Row: g.rng.Intn(h), Col: g.rng.Intn(w)})
	}

	period := cfg.Forage.RegrowthPeriod
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			patch := components.Forage{Grown: true, RegrowthPeriod: period}
			if cfg.Forage.RandomInitial && g.rng.Intn(2) == 0 {
				patch.Grown = false
				patch.Countdown = 1 + g.rng.Intn(period)
			}
			g.spawnForage(components.Position{Row: row, Col: col}, patch)
		}
	}

	slog.Info("population spawned",
		"seed", g.seed,
		"grid", [2]int{h, w},
		"prey", g.CountOf(components.KindPrey),
		"predators", g.CountOf(components.KindPredator),
		"forage", g.CountOf(components.KindForage),
		"forage_enabled", cfg.Forage.Enabled,
	)
}

// spawnMobile creates a prey or predator with the configured initial energy.
func (g *Game) spawnMobile(kind components.Kind, pos components.Position) ecs.Entity {
	if !kind.Mobile() {
		panic("game: spawnMobile called with " + kind.String())
	}
	pos = g.grid.Wrap(pos)

	id := g.newIdentity(kind)
	energy := components.Energy{Value: g.cfg.Energy.Initial}
	move := components.Movement{Moore: g.cfg.World.Moore}

	e := g.mobileMapper.NewEntity(&id, &pos, &energy, &move)
	g.attach(e, kind, pos)
	return e
}

// spawnForage creates a grass patch with the given state.
func (g *Game) spawnForage(pos components.Position, patch components.Forage) ecs.Entity {
	pos = g.grid.Wrap(pos)

	id := g.newIdentity(components.KindForage)
	e := g.forageMapper.NewEntity(&id, &pos, &patch)
	g.attach(e, components.KindForage, pos)
	return e
}

func (g *Game) newIdentity(kind components.Kind) components.Identity {
	id := components.Identity{ID: g.nextID, Kind: kind}
	g.nextID++
	return id
}

// attach places e on the grid and registers it with the scheduler. Together
// with despawn it is the only path that touches both structures.
func (g *Game) attach(e ecs.Entity, kind components.Kind, pos components.Position) {
	g.grid.Place(e, pos)
	g.scheduler.Register(e, kind)
}

// despawn removes e from the scheduler, the grid and the world.
// Component pointers obtained before the call may be invalidated.
func (g *Game) despawn(e ecs.Entity) components.Kind {
	kind := g.scheduler.Deregister(e)
	g.grid.Remove(e)
	g.world.RemoveEntity(e)
	return kind
}
