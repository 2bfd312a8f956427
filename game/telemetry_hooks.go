package game

import (
	"log/slog"

	"github.com/pthm-cable/predation/components"
	"github.com/pthm-cable/predation/telemetry"
)

// collect records the population sample for the completed tick.
func (g *Game) collect() {
	sample := telemetry.Sample{
		Tick:        g.tick,
		Prey:        g.CountOf(components.KindPrey),
		Predators:   g.CountOf(components.KindPredator),
		GrownForage: g.GrownForage(),
	}
	g.history.Record(sample)

	if err := g.outputManager.WritePopulation(sample); err != nil {
		slog.Error("failed to write population sample", "error", err)
	}

	g.checkExtinction(components.KindPrey, sample.Prey)
	g.checkExtinction(components.KindPredator, sample.Predators)
}

// checkExtinction logs the first tick a mobile breed is found empty.
func (g *Game) checkExtinction(kind components.Kind, count int) {
	if count > 0 {
		g.extinct[kind] = false
		return
	}
	if g.extinct[kind] {
		return
	}
	g.extinct[kind] = true
	slog.Info("breed extinct", "kind", kind.String(), "tick", g.tick)
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	preyEnergies, predEnergies := g.sampleEnergyDistributions()
	sample, _ := g.history.Last()

	stats := g.collector.Flush(sample, preyEnergies, predEnergies, g.grid.Height()*g.grid.Width())
	perfStats := g.perfCollector.Stats()
	g.lastStats, g.hasStats = stats, true

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		slog.Info("perf", "window_end", stats.WindowEndTick, "perf", perfStats)
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		g.rememberBookmark(bm)
	}
}

// rememberBookmark keeps the latest bookmarks for display.
func (g *Game) rememberBookmark(bm telemetry.Bookmark) {
	limit := g.cfg.Telemetry.BookmarkHistorySize
	g.recentBookmarks = append(g.recentBookmarks, bm)
	if limit > 0 && len(g.recentBookmarks) > limit {
		g.recentBookmarks = g.recentBookmarks[len(g.recentBookmarks)-limit:]
	}
}

// sampleEnergyDistributions collects energy values of live mobile agents.
func (g *Game) sampleEnergyDistributions() (preyEnergies, predEnergies []float64) {
	query := g.mobileFilter.Query()
	for query.Next() {
		id, energy := query.Get()
		switch id.Kind {
		case components.KindPrey:
			preyEnergies = append(preyEnergies, float64(energy.Value))
		case components.KindPredator:
			predEnergies = append(predEnergies, float64(energy.Value))
		}
	}
	return preyEnergies, predEnergies
}
