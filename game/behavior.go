package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/predation/components"
	"github.com/pthm-cable/predation/telemetry"
)

// Stepping rules for the three breeds. Each runs once per agent per tick
// from inside the scheduler pass.
//
// Component pointers from the mappers stay valid only until the next
// structural change (spawn or despawn); re-fetch after either.

// stepPrey moves, pays the metabolic cost when grazing is on, starves at
// exactly zero energy, grazes, then may reproduce.
func (g *Game) stepPrey(e ecs.Entity) {
	grazing := g.cfg.Derived.GrassEaten

	if g.moveAgent(e, grazing) == 0 {
		g.starve(e, components.KindPrey)
		return
	}

	if grazing {
		g.graze(e)
	}

	g.maybeReproduce(e, components.KindPrey, g.cfg.Prey.Reproduce)
}

// stepPredator moves at a constant metabolic cost, starves at exactly zero
// energy, eats the first prey in its cell, then may reproduce.
func (g *Game) stepPredator(e ecs.Entity) {
	if g.moveAgent(e, true) == 0 {
		g.starve(e, components.KindPredator)
		return
	}

	pos := *g.posMap.Get(e)
	if prey, ok := g.preyAt(pos); ok {
		g.eat(e, prey)
	}

	g.maybeReproduce(e, components.KindPredator, g.cfg.Predator.Reproduce)
}

// stepForage advances regrowth of an eaten patch. A patch grazed earlier in
// the same tick starts counting down on the next one.
func (g *Game) stepForage(e ecs.Entity) {
	g.forageMap.Get(e).GrowAt(g.currentTick())
}

// moveAgent performs one random-walk move and returns the remaining energy.
func (g *Game) moveAgent(e ecs.Entity, pay bool) int {
	pos := g.posMap.Get(e)
	*pos = g.mover.RandomMove(e, *pos, g.moveMap.Get(e).Moore)

	energy := g.energyMap.Get(e)
	if pay {
		energy.Value--
	}
	return energy.Value
}

// graze eats the grass patch under a prey if it is grown.
func (g *Game) graze(e ecs.Entity) {
	patch := g.grownForageAt(*g.posMap.Get(e))
	if patch == nil {
		return
	}
	patch.EatAt(g.currentTick())

	gain := g.cfg.Prey.GainFromFood
	g.energyMap.Get(e).Value += gain
	g.emit(telemetry.NewGrazeEvent(g.currentTick(), g.idMap.Get(e).ID, gain))
}

// eat removes prey from the simulation and credits the predator.
func (g *Game) eat(predator, prey ecs.Entity) {
	predatorID := g.idMap.Get(predator).ID
	preyID := g.idMap.Get(prey).ID

	g.despawn(prey)
	g.deaths[components.KindPrey]++

	gain := g.cfg.Predator.GainFromFood
	g.energyMap.Get(predator).Value += gain

	tick := g.currentTick()
	g.emit(telemetry.NewKillEvent(tick, predatorID, preyID, gain))
	g.emit(telemetry.NewDeathEvent(tick, preyID, components.KindPrey, telemetry.CauseEaten))
}

// starve removes an agent whose energy hit zero.
func (g *Game) starve(e ecs.Entity, kind components.Kind) {
	id := g.idMap.Get(e).ID
	g.despawn(e)
	g.deaths[kind]++
	g.emit(telemetry.NewDeathEvent(g.currentTick(), id, kind, telemetry.CauseStarved))
}

// maybeReproduce draws once and, below probability p, spawns a child of the
// same breed in the parent's cell. The child acts from the next tick on.
func (g *Game) maybeReproduce(e ecs.Entity, kind components.Kind, p float64) {
	if g.rng.Float64() >= p {
		return
	}

	parentID := g.idMap.Get(e).ID
	child := g.spawnMobile(kind, *g.posMap.Get(e))
	g.births[kind]++
	g.emit(telemetry.NewBirthEvent(g.currentTick(), g.idMap.Get(child).ID, parentID, kind))
}

// preyAt returns the first prey placed in the cell at p.
func (g *Game) preyAt(p components.Position) (ecs.Entity, bool) {
	for _, o := range g.grid.OccupantsAt(p) {
		if g.idMap.Get(o).Kind == components.KindPrey {
			return o, true
		}
	}
	return ecs.Entity{}, false
}

// grownForageAt returns the grass patch in the cell at p if it is grown.
func (g *Game) grownForageAt(p components.Position) *components.Forage {
	for _, o := range g.grid.OccupantsAt(p) {
		if g.idMap.Get(o).Kind != components.KindForage {
			continue
		}
		patch := g.forageMap.Get(o)
		if !patch.Grown {
			return nil
		}
		return patch
	}
	return nil
}

// currentTick is the tick being computed while the scheduler pass runs.
func (g *Game) currentTick() int32 {
	return g.tick + 1
}

func (g *Game) emit(ev telemetry.Event) {
	g.collector.Record(ev)
	if g.onEvent != nil {
		g.onEvent(ev)
	}
}
