package game

import (
	"errors"
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/predation/components"
)

// CheckConsistency verifies that the grid and the scheduler registry agree:
// every registered agent is placed in exactly one cell matching its Position
// component, every placed entity is registered and alive, agent ids are
// unique, and every grass patch satisfies its countdown invariant.
func (g *Game) CheckConsistency() error {
	var errs []error
	ids := make(map[uint64]ecs.Entity, g.scheduler.Total())

	placed := 0
	g.grid.Each(func(e ecs.Entity, p components.Position) {
		placed++
		if !g.world.Alive(e) {
			errs = append(errs, fmt.Errorf("dead entity %v on grid at %v", e, p))
			return
		}
		kind, ok := g.scheduler.KindOf(e)
		if !ok {
			errs = append(errs, fmt.Errorf("entity %v at %v is placed but not registered", e, p))
			return
		}

		id := g.idMap.Get(e)
		if id.Kind != kind {
			errs = append(errs, fmt.Errorf("agent %d registered as %s but tagged %s", id.ID, kind, id.Kind))
		}
		if prev, dup := ids[id.ID]; dup {
			errs = append(errs, fmt.Errorf("agent id %d shared by %v and %v", id.ID, prev, e))
		}
		ids[id.ID] = e

		if pos := *g.posMap.Get(e); pos != p {
			errs = append(errs, fmt.Errorf("agent %d at cell %v but Position says %v", id.ID, p, pos))
		}

		if kind == components.KindForage {
			f := g.forageMap.Get(e)
			if f.Countdown < 0 || f.Countdown > f.RegrowthPeriod || f.Grown != (f.Countdown == 0) {
				errs = append(errs, fmt.Errorf("grass patch %d has grown=%t countdown=%d period=%d",
					id.ID, f.Grown, f.Countdown, f.RegrowthPeriod))
			}
		}
	})

	if placed != g.scheduler.Total() {
		errs = append(errs, fmt.Errorf("%d agents placed but %d registered", placed, g.scheduler.Total()))
	}
	for _, kind := range components.Kinds {
		for _, e := range g.scheduler.Members(kind) {
			if !g.grid.Placed(e) {
				errs = append(errs, fmt.Errorf("registered %s %v is not on the grid", kind, e))
			}
		}
	}

	return errors.Join(errs...)
}
