package telemetry

import "github.com/pthm-cable/predation/components"

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	preyBirths   int
	predBirths   int
	preyDeaths   int
	predDeaths   int
	preyStarved  int
	predStarved  int
	kills        int
	grazes       int
	energyEaten  int
	energyGrazed int
}

// NewCollector creates a new stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowDurationTicks: int32(windowTicks)}
}

// Record counts a single event in the current window.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventBirth:
		if ev.Kind == components.KindPrey {
			c.preyBirths++
		} else {
			c.predBirths++
		}
	case EventDeath:
		if ev.Kind == components.KindPrey {
			c.preyDeaths++
			if ev.Cause == CauseStarved {
				c.preyStarved++
			}
		} else {
			c.predDeaths++
			if ev.Cause == CauseStarved {
				c.predStarved++
			}
		}
	case EventKill:
		c.kills++
		c.energyEaten += ev.Amount
	case EventGraze:
		c.grazes++
		c.energyGrazed += ev.Amount
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// sample is the population at the window end; cells is the grid area used
// for forage coverage.
func (c *Collector) Flush(sample Sample, preyEnergies, predEnergies []float64, cells int) WindowStats {
	ticks := float64(sample.Tick - c.windowStartTick)

	var killsPerPred, forageCover float64
	if sample.Predators > 0 && ticks > 0 {
		killsPerPred = float64(c.kills) / float64(sample.Predators) / ticks
	}
	if cells > 0 {
		forageCover = float64(sample.GrownForage) / float64(cells)
	}

	prey := ComputeEnergyStats(preyEnergies)
	pred := ComputeEnergyStats(predEnergies)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   sample.Tick,

		PreyCount:   sample.Prey,
		PredCount:   sample.Predators,
		GrownForage: sample.GrownForage,
		ForageCover: forageCover,

		PreyBirths:  c.preyBirths,
		PredBirths:  c.predBirths,
		PreyDeaths:  c.preyDeaths,
		PredDeaths:  c.predDeaths,
		PreyStarved: c.preyStarved,
		PredStarved: c.predStarved,

		Kills:        c.kills,
		KillsPerPred: killsPerPred,
		Grazes:       c.grazes,
		EnergyEaten:  c.energyEaten,
		EnergyGrazed: c.energyGrazed,

		PreyEnergyMean: prey.Mean,
		PreyEnergyStd:  prey.Std,
		PreyEnergyP10:  prey.P10,
		PreyEnergyP50:  prey.P50,
		PreyEnergyP90:  prey.P90,

		PredEnergyMean: pred.Mean,
		PredEnergyStd:  pred.Std,
		PredEnergyP10:  pred.P10,
		PredEnergyP50:  pred.P50,
		PredEnergyP90:  pred.P90,
	}

	// Reset for next window
	*c = Collector{
		windowDurationTicks: c.windowDurationTicks,
		windowStartTick:     sample.Tick,
	}

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
