package game

import (
	"github.com/pthm-cable/predation/config"
	"github.com/pthm-cable/predation/telemetry"
)

// Options holds configuration for game initialization.
type Options struct {
	Config    *config.Config // nil = embedded defaults
	Seed      int64          // RNG seed; equal seeds and configs replay identically
	Debug     bool           // verify grid/registry consistency after every tick
	LogStats  bool           // log window stats and bookmarks via slog
	OutputDir string         // directory for CSV logs and config snapshot ("" = disabled)

	// StatsCallback is invoked with each flushed stats window.
	StatsCallback func(telemetry.WindowStats)
	// OnEvent is invoked synchronously for every birth, death, kill and graze.
	OnEvent func(telemetry.Event)
}
