// Package components defines ECS components for the simulation.
package components

// Kind is the closed set of agent breeds. Fixed at construction.
type Kind uint8

const (
	KindPrey Kind = iota
	KindPredator
	KindForage

	NumKinds = 3
)

// Kinds lists every breed in declaration order.
var Kinds = [NumKinds]Kind{KindPrey, KindPredator, KindForage}

// String returns the display name for a Kind.
func (k Kind) String() string {
	switch k {
	case KindPrey:
		return "prey"
	case KindPredator:
		return "predator"
	case KindForage:
		return "forage"
	default:
		return "unknown"
	}
}

// Mobile reports whether agents of this kind move and carry energy.
func (k Kind) Mobile() bool {
	return k == KindPrey || k == KindPredator
}

// Identity holds the simulation-wide agent id and breed.
// IDs are assigned monotonically at creation and never reused.
type Identity struct {
	ID   uint64 `inspect:"label"`
	Kind Kind   `inspect:"label"`
}

// Position is a grid cell coordinate.
type Position struct {
	Row, Col int
}

// Energy tracks a mobile agent's energy budget.
// Value may go negative; only an exact zero kills.
type Energy struct {
	Value int `inspect:"label"`
}

// Movement selects the neighborhood used for random moves.
type Movement struct {
	Moore bool // 8 neighbors when true, 4 otherwise
}

// Forage is a stationary, renewable grass patch.
// Invariant: Grown == (Countdown == 0) and 0 <= Countdown <= RegrowthPeriod.
type Forage struct {
	Grown          bool  `inspect:"bool"`
	RegrowthPeriod int   `inspect:"label"`
	Countdown      int   `inspect:"label"` // steps until regrown
	EatenAt        int32 `inspect:"label"` // tick of the last graze, 0 = never
}

// Eat marks the patch as grazed and restarts the regrowth countdown.
func (f *Forage) Eat() {
	f.Grown = false
	f.Countdown = f.RegrowthPeriod
}

// EatAt is Eat during tick. The patch does not regrow in that same tick.
func (f *Forage) EatAt(tick int32) {
	f.Eat()
	f.EatenAt = tick
}

// GrowAt is Grow during tick, skipped if the patch was eaten in tick.
func (f *Forage) GrowAt(tick int32) {
	if f.EatenAt == tick {
		return
	}
	f.Grow()
}

// Grow advances regrowth by one step. No-op on a grown patch.
func (f *Forage) Grow() {
	if f.Grown {
		return
	}
	f.Countdown--
	if f.Countdown <= 0 {
		f.Countdown = 0
		f.Grown = true
	}
}

// RegrowthFraction returns Countdown/RegrowthPeriod: 0 when grown, 1 when just eaten.
func (f Forage) RegrowthFraction() float64 {
	if f.RegrowthPeriod <= 0 {
		return 0
	}
	return float64(f.Countdown) / float64(f.RegrowthPeriod)
}

// AgentView is a read-only projection of one agent for rendering and statistics.
type AgentView struct {
	ID   uint64
	Kind Kind
	Pos  Position

	// Mobile kinds
	Energy int

	// Forage kind
	Grown            bool
	RegrowthFraction float64
}
