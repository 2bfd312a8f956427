package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase is one timed section of a tick.
type Phase int

// Tick phases in execution order.
const (
	PhaseActivation Phase = iota
	PhaseConsistency
	PhaseCollect
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{"activation", "consistency", "collect", "telemetry"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// perfSample holds timing data for a single tick.
type perfSample struct {
	tick   time.Duration
	phases [numPhases]time.Duration
	ran    [numPhases]bool
}

// PerfCollector keeps tick timings in a ring of the last windowSize ticks.
type PerfCollector struct {
	samples []perfSample
	next    int
	count   int

	current    perfSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase // -1 outside a phase

	lastFrame     time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{samples: make([]perfSample, windowSize), phase: -1}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = perfSample{}
	p.phase = -1
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
	p.current.ran[phase] = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick finishes the tick and records it.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = -1
	p.current.tick = now.Sub(p.tickStart)

	p.samples[p.next] = p.current
	p.next = (p.next + 1) % len(p.samples)
	p.count = min(p.count+1, len(p.samples))
}

// RecordFrame records the time since the previous rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameDuration = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates the tick timings of one window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration
	TicksPerSecond  float64

	// Per-phase averages and share of the average tick, indexed by Phase.
	// Ran marks phases that ran at least once in the window.
	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64
	Ran      [numPhases]bool

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	s.FrameDuration = p.frameDuration
	if p.frameDuration > 0 {
		s.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.count == 0 {
		return s
	}

	ticks := make([]float64, p.count)
	var phaseSum [numPhases]time.Duration
	for i, sample := range p.samples[:p.count] {
		ticks[i] = float64(sample.tick)
		for ph := range numPhases {
			phaseSum[ph] += sample.phases[ph]
			s.Ran[ph] = s.Ran[ph] || sample.ran[ph]
		}
	}
	slices.Sort(ticks)

	s.AvgTickDuration = time.Duration(stat.Mean(ticks, nil))
	s.MinTickDuration = time.Duration(ticks[0])
	s.MaxTickDuration = time.Duration(ticks[len(ticks)-1])
	s.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, ticks, nil))
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}

	for ph := range numPhases {
		s.PhaseAvg[ph] = phaseSum[ph] / time.Duration(p.count)
		if s.AvgTickDuration > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTickDuration) * 100
		}
	}
	return s
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, row := range s.Breakdown() {
		attrs = append(attrs, slog.Float64(row.Name+"_pct", row.Pct))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	P95TickUS      int64   `csv:"p95_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	ActivationPct  float64 `csv:"activation_pct"`
	ConsistencyPct float64 `csv:"consistency_pct"`
	CollectPct     float64 `csv:"collect_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s for the perf log.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		P95TickUS:      s.P95TickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		ActivationPct:  s.PhasePct[PhaseActivation],
		ConsistencyPct: s.PhasePct[PhaseConsistency],
		CollectPct:     s.PhasePct[PhaseCollect],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
	}
}

// PhaseTiming is one row of a per-phase breakdown.
type PhaseTiming struct {
	Name string
	Avg  time.Duration
	Pct  float64
}

// Breakdown returns the phases that ran, in execution order.
func (s PerfStats) Breakdown() []PhaseTiming {
	var out []PhaseTiming
	for ph := range numPhases {
		if s.Ran[ph] {
			out = append(out, PhaseTiming{Name: ph.String(), Avg: s.PhaseAvg[ph], Pct: s.PhasePct[ph]})
		}
	}
	return out
}
