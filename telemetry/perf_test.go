package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseActivation)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseTelemetry)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if !stats.Ran[PhaseActivation] || !stats.Ran[PhaseTelemetry] {
		t.Error("expected activation and telemetry phases to be tracked")
	}
	if stats.Ran[PhaseConsistency] {
		t.Error("consistency phase reported without running")
	}
	if stats.PhasePct[PhaseTelemetry] <= stats.PhasePct[PhaseActivation] {
		t.Errorf("telemetry %.1f%% <= activation %.1f%%, want the slower phase larger",
			stats.PhasePct[PhaseTelemetry], stats.PhasePct[PhaseActivation])
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseActivation)
		pc.EndTick()
	}
	// Only the last 5 ticks count; none ran the collect phase.
	pc.StartTick()
	pc.StartPhase(PhaseCollect)
	pc.EndTick()

	stats := pc.Stats()
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
	if !stats.Ran[PhaseCollect] {
		t.Error("collect phase missing from window")
	}
}

func TestPerfCollector_Ordering(t *testing.T) {
	pc := NewPerfCollector(20)
	for i := 1; i <= 20; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseActivation)
		time.Sleep(time.Duration(i) * 50 * time.Microsecond)
		pc.EndTick()
	}

	s := pc.Stats()
	if !(s.MinTickDuration <= s.AvgTickDuration && s.AvgTickDuration <= s.P95TickDuration && s.P95TickDuration <= s.MaxTickDuration) {
		t.Errorf("min %v, avg %v, p95 %v, max %v not ordered",
			s.MinTickDuration, s.AvgTickDuration, s.P95TickDuration, s.MaxTickDuration)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}
	if len(stats.Breakdown()) != 0 {
		t.Errorf("Breakdown() = %v, want empty", stats.Breakdown())
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("FPS = %v, want in (0, 70] for a 16ms frame", stats.FPS)
	}
}

func TestPerfStats_BreakdownOrder(t *testing.T) {
	pc := NewPerfCollector(4)

	pc.StartTick()
	pc.StartPhase(PhaseTelemetry)
	pc.StartPhase(PhaseActivation)
	pc.StartPhase(PhaseCollect)
	pc.EndTick()

	got := pc.Stats().Breakdown()
	want := []string{"activation", "collect", "telemetry"}
	if len(got) != len(want) {
		t.Fatalf("Breakdown() has %d phases, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("Breakdown()[%d] = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		p    Phase
		want string
	}{
		{PhaseActivation, "activation"},
		{PhaseConsistency, "consistency"},
		{Phase(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(tt.p), got, tt.want)
		}
	}
}
