package telemetry

import "testing"

func TestPopulationHistoryUnbounded(t *testing.T) {
	h := NewPopulationHistory(0)
	for i := 0; i < 50; i++ {
		h.Record(Sample{Tick: int32(i), Prey: i})
	}
	if h.Len() != 50 {
		t.Fatalf("Len() = %d, want 50", h.Len())
	}
	last, ok := h.Last()
	if !ok || last.Tick != 49 {
		t.Errorf("Last() = %+v,%v want tick 49", last, ok)
	}
}

func TestPopulationHistoryRingKeepsNewest(t *testing.T) {
	h := NewPopulationHistory(4)
	for i := 0; i < 10; i++ {
		h.Record(Sample{Tick: int32(i), Prey: 100 - i, Predators: i})
	}

	samples := h.Samples()
	if len(samples) != 4 {
		t.Fatalf("len(Samples()) = %d, want 4", len(samples))
	}
	for i, s := range samples {
		if want := int32(6 + i); s.Tick != want {
			t.Errorf("Samples()[%d].Tick = %d, want %d", i, s.Tick, want)
		}
	}

	last, _ := h.Last()
	if last.Tick != 9 {
		t.Errorf("Last().Tick = %d, want 9", last.Tick)
	}

	if got := Peak(samples, false); got != 94 {
		t.Errorf("Peak() over the ring = %d, want 94", got)
	}
}

func TestPeak(t *testing.T) {
	samples := []Sample{
		{Tick: 1, Prey: 12, Predators: 3, GrownForage: 40},
		{Tick: 2, Prey: 9, Predators: 17, GrownForage: 35},
	}
	tests := []struct {
		name       string
		samples    []Sample
		withForage bool
		want       int
	}{
		{"animals only", samples, false, 17},
		{"with forage", samples, true, 40},
		{"empty", nil, true, 1},
		{"all extinct", []Sample{{Tick: 5}}, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Peak(tt.samples, tt.withForage); got != tt.want {
				t.Errorf("Peak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPopulationHistoryEmpty(t *testing.T) {
	h := NewPopulationHistory(3)
	if _, ok := h.Last(); ok {
		t.Error("Last() on empty history reported ok")
	}
	if len(h.Samples()) != 0 {
		t.Error("Samples() on empty history not empty")
	}
}
