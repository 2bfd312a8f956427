package telemetry

// Sample is the population at the end of one tick.
type Sample struct {
	Tick        int32 `csv:"tick"`
	Prey        int   `csv:"prey"`
	Predators   int   `csv:"predators"`
	GrownForage int   `csv:"grown_forage"`
}

// PopulationHistory keeps per-tick population samples, oldest first.
// With a positive capacity it is a ring buffer that drops the oldest
// samples; capacity 0 keeps everything.
type PopulationHistory struct {
	samples  []Sample
	capacity int
	start    int // index of the oldest sample once the ring is full
}

// NewPopulationHistory creates a history holding at most capacity samples.
func NewPopulationHistory(capacity int) *PopulationHistory {
	if capacity < 0 {
		capacity = 0
	}
	h := &PopulationHistory{capacity: capacity}
	if capacity > 0 {
		h.samples = make([]Sample, 0, capacity)
	}
	return h
}

// Record appends a sample.
func (h *PopulationHistory) Record(s Sample) {
	if h.capacity == 0 || len(h.samples) < h.capacity {
		h.samples = append(h.samples, s)
		return
	}
	h.samples[h.start] = s
	h.start = (h.start + 1) % h.capacity
}

// Len returns the number of stored samples.
func (h *PopulationHistory) Len() int {
	return len(h.samples)
}

// Last returns the newest sample.
func (h *PopulationHistory) Last() (Sample, bool) {
	n := len(h.samples)
	if n == 0 {
		return Sample{}, false
	}
	if h.start == 0 {
		return h.samples[n-1], true
	}
	return h.samples[h.start-1], true
}

// Samples returns a copy of the stored samples in tick order.
func (h *PopulationHistory) Samples() []Sample {
	out := make([]Sample, 0, len(h.samples))
	out = append(out, h.samples[h.start:]...)
	out = append(out, h.samples[:h.start]...)
	return out
}

// Peak returns the largest count in samples, at least 1. Grown forage
// counts only when withForage is set.
func Peak(samples []Sample, withForage bool) int {
	peak := 1
	for _, s := range samples {
		peak = max(peak, s.Prey, s.Predators)
		if withForage {
			peak = max(peak, s.GrownForage)
		}
	}
	return peak
}
