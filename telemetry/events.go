// Package telemetry provides population history, windowed ecosystem
// statistics, bookmarks and CSV output for the simulation.
package telemetry

import "github.com/pthm-cable/predation/components"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventBirth EventType = iota
	EventDeath
	EventKill
	EventGraze
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventBirth:
		return "birth"
	case EventDeath:
		return "death"
	case EventKill:
		return "kill"
	case EventGraze:
		return "graze"
	default:
		return "unknown"
	}
}

// DeathCause tells why an agent was removed.
type DeathCause uint8

const (
	CauseNone DeathCause = iota
	CauseStarved
	CauseEaten
)

// String returns the cause name.
func (c DeathCause) String() string {
	switch c {
	case CauseStarved:
		return "starved"
	case CauseEaten:
		return "eaten"
	default:
		return "none"
	}
}

// Event represents a single telemetry event.
type Event struct {
	Type    EventType       `json:"type"`
	Tick    int32           `json:"tick"`
	AgentID uint64          `json:"agent"`
	Kind    components.Kind `json:"kind"`

	// Optional fields depending on event type
	TargetID uint64     `json:"target,omitempty"` // prey eaten (kill) or parent (birth)
	Amount   int        `json:"amount,omitempty"` // energy gained (kill, graze)
	Cause    DeathCause `json:"cause,omitempty"`
}

// NewBirthEvent creates a birth event.
func NewBirthEvent(tick int32, childID, parentID uint64, kind components.Kind) Event {
	return Event{
		Type:     EventBirth,
		Tick:     tick,
		AgentID:  childID,
		Kind:     kind,
		TargetID: parentID, // parent ID stored in TargetID
	}
}

// NewDeathEvent creates a death event.
func NewDeathEvent(tick int32, agentID uint64, kind components.Kind, cause DeathCause) Event {
	return Event{
		Type:    EventDeath,
		Tick:    tick,
		AgentID: agentID,
		Kind:    kind,
		Cause:   cause,
	}
}

// NewKillEvent creates a kill event (predator ate prey).
func NewKillEvent(tick int32, predatorID, preyID uint64, gain int) Event {
	return Event{
		Type:     EventKill,
		Tick:     tick,
		AgentID:  predatorID,
		Kind:     components.KindPredator,
		TargetID: preyID,
		Amount:   gain,
	}
}

// NewGrazeEvent creates a grazing event (prey ate a grown patch).
func NewGrazeEvent(tick int32, preyID uint64, gain int) Event {
	return Event{
		Type:    EventGraze,
		Tick:    tick,
		AgentID: preyID,
		Kind:    components.KindPrey,
		Amount:  gain,
	}
}
