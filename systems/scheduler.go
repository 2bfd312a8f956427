package systems

import (
	"fmt"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/predation/components"
)

// StepFunc advances a single agent by one activation.
type StepFunc func(e ecs.Entity)

// entitySet is an insertion-order-agnostic set with O(1) add and remove.
type entitySet struct {
	list  []ecs.Entity
	index map[ecs.Entity]int
}

func newEntitySet() entitySet {
	return entitySet{index: make(map[ecs.Entity]int)}
}

func (s *entitySet) add(e ecs.Entity) bool {
	if _, ok := s.index[e]; ok {
		return false
	}
	s.index[e] = len(s.list)
	s.list = append(s.list, e)
	return true
}

func (s *entitySet) remove(e ecs.Entity) bool {
	i, ok := s.index[e]
	if !ok {
		return false
	}
	last := len(s.list) - 1
	if i != last {
		moved := s.list[last]
		s.list[i] = moved
		s.index[moved] = i
	}
	s.list = s.list[:last]
	delete(s.index, e)
	return true
}

func (s *entitySet) has(e ecs.Entity) bool {
	_, ok := s.index[e]
	return ok
}

// Scheduler activates every registered agent once per tick, breed by breed.
//
// Breed order is shuffled each tick. Within a breed the members are
// snapshotted and shuffled before any step runs: agents registered during the
// pass wait for the next tick, and agents deregistered during the pass are
// skipped when their turn comes.
type Scheduler struct {
	rng     *rand.Rand
	members [components.NumKinds]entitySet
	kindOf  map[ecs.Entity]components.Kind
	steps   [components.NumKinds]StepFunc

	// Reused buffers
	order    []components.Kind
	snapshot []ecs.Entity
	active   bool
}

// NewScheduler creates an empty scheduler drawing all shuffles from rng.
func NewScheduler(rng *rand.Rand) *Scheduler {
	s := &Scheduler{
		rng:    rng,
		kindOf: make(map[ecs.Entity]components.Kind),
	}
	for i := range s.members {
		s.members[i] = newEntitySet()
	}
	return s
}

// Handle installs the step behavior for a breed.
func (s *Scheduler) Handle(kind components.Kind, fn StepFunc) {
	s.steps[kind] = fn
}

// Register adds e to its breed. Registering twice is a programming error.
func (s *Scheduler) Register(e ecs.Entity, kind components.Kind) {
	if prev, ok := s.kindOf[e]; ok {
		panic(fmt.Sprintf("systems: entity %v already registered as %s", e, prev))
	}
	s.members[kind].add(e)
	s.kindOf[e] = kind
}

// Deregister removes e from its breed. Deregistering an agent that is not
// registered is a programming error.
func (s *Scheduler) Deregister(e ecs.Entity) components.Kind {
	kind, ok := s.kindOf[e]
	if !ok {
		panic(fmt.Sprintf("systems: deregistering entity %v that is not registered", e))
	}
	s.members[kind].remove(e)
	delete(s.kindOf, e)
	return kind
}

// Registered reports whether e is currently live in the registry.
func (s *Scheduler) Registered(e ecs.Entity) bool {
	_, ok := s.kindOf[e]
	return ok
}

// KindOf returns the breed e is registered under.
func (s *Scheduler) KindOf(e ecs.Entity) (components.Kind, bool) {
	k, ok := s.kindOf[e]
	return k, ok
}

// CountOf returns the number of live agents of a breed.
func (s *Scheduler) CountOf(kind components.Kind) int {
	return len(s.members[kind].list)
}

// Total returns the number of live agents across all breeds.
func (s *Scheduler) Total() int {
	return len(s.kindOf)
}

// Members returns the live agents of a breed. The slice is owned by the
// scheduler and is invalidated by the next Register or Deregister.
func (s *Scheduler) Members(kind components.Kind) []ecs.Entity {
	return s.members[kind].list
}

// ActivateAll performs one full tick.
func (s *Scheduler) ActivateAll() {
	if s.active {
		panic("systems: ActivateAll called re-entrantly")
	}
	s.active = true
	defer func() { s.active = false }()

	s.order = s.order[:0]
	for _, kind := range components.Kinds {
		if s.CountOf(kind) > 0 {
			s.order = append(s.order, kind)
		}
	}
	s.rng.Shuffle(len(s.order), func(i, j int) {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	})

	for _, kind := range s.order {
		step := s.steps[kind]
		if step == nil {
			panic(fmt.Sprintf("systems: no step behavior for %s", kind))
		}

		s.snapshot = append(s.snapshot[:0], s.members[kind].list...)
		s.rng.Shuffle(len(s.snapshot), func(i, j int) {
			s.snapshot[i], s.snapshot[j] = s.snapshot[j], s.snapshot[i]
		})

		for _, e := range s.snapshot {
			// Died earlier in this pass
			if !s.members[kind].has(e) {
				continue
			}
			step(e)
		}
	}
}
