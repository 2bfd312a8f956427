package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/predation/components"
)

// newEntities creates n bare entities in a fresh world.
func newEntities(n int) (*ecs.World, []ecs.Entity) {
	world := ecs.NewWorld()
	mapper := ecs.NewMap1[components.Identity](world)
	entities := make([]ecs.Entity, n)
	for i := range entities {
		entities[i] = mapper.NewEntity(&components.Identity{ID: uint64(i + 1)})
	}
	return world, entities
}

func newRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// expectPanic fails the test if fn does not panic.
func expectPanic(t testing.TB, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Error(name + ": expected panic")
		}
	}()
	fn()
}
