package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population at window end
	PreyCount   int     `csv:"prey"`
	PredCount   int     `csv:"pred"`
	GrownForage int     `csv:"grown_forage"`
	ForageCover float64 `csv:"forage_cover"` // grown patches / cells

	// Events during window
	PreyBirths  int `csv:"prey_births"`
	PredBirths  int `csv:"pred_births"`
	PreyDeaths  int `csv:"prey_deaths"`
	PredDeaths  int `csv:"pred_deaths"`
	PreyStarved int `csv:"prey_starved"`
	PredStarved int `csv:"pred_starved"`

	// Feeding
	Kills        int     `csv:"kills"`
	KillsPerPred float64 `csv:"kills_per_pred_tick"`
	Grazes       int     `csv:"grazes"`
	EnergyEaten  int     `csv:"energy_eaten"`
	EnergyGrazed int     `csv:"energy_grazed"`

	// Energy distribution (sampled at window end)
	PreyEnergyMean float64 `csv:"prey_energy_mean"`
	PreyEnergyStd  float64 `csv:"prey_energy_std"`
	PreyEnergyP10  float64 `csv:"prey_energy_p10"`
	PreyEnergyP50  float64 `csv:"prey_energy_p50"`
	PreyEnergyP90  float64 `csv:"prey_energy_p90"`

	PredEnergyMean float64 `csv:"pred_energy_mean"`
	PredEnergyStd  float64 `csv:"pred_energy_std"`
	PredEnergyP10  float64 `csv:"pred_energy_p10"`
	PredEnergyP50  float64 `csv:"pred_energy_p50"`
	PredEnergyP90  float64 `csv:"pred_energy_p90"`
}

// EnergyStats summarizes an energy distribution.
type EnergyStats struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats calculates mean, population standard deviation and
// percentiles from energy values.
func ComputeEnergyStats(values []float64) EnergyStats {
	if len(values) == 0 {
		return EnergyStats{}
	}

	var s EnergyStats
	s.Mean, s.Std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s.P10 = Percentile(sorted, 0.10)
	s.P50 = Percentile(sorted, 0.50)
	s.P90 = Percentile(sorted, 0.90)

	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("prey", s.PreyCount),
		slog.Int("pred", s.PredCount),
		slog.Int("grown_forage", s.GrownForage),
		slog.Float64("forage_cover", s.ForageCover),
		slog.Int("prey_births", s.PreyBirths),
		slog.Int("pred_births", s.PredBirths),
		slog.Int("prey_deaths", s.PreyDeaths),
		slog.Int("pred_deaths", s.PredDeaths),
		slog.Int("prey_starved", s.PreyStarved),
		slog.Int("pred_starved", s.PredStarved),
		slog.Int("kills", s.Kills),
		slog.Float64("kills_per_pred_tick", s.KillsPerPred),
		slog.Int("grazes", s.Grazes),
		slog.Float64("prey_energy_mean", s.PreyEnergyMean),
		slog.Float64("prey_energy_p50", s.PreyEnergyP50),
		slog.Float64("pred_energy_mean", s.PredEnergyMean),
		slog.Float64("pred_energy_p50", s.PredEnergyP50),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"prey", s.PreyCount,
		"pred", s.PredCount,
		"grown_forage", s.GrownForage,
		"prey_births", s.PreyBirths,
		"pred_births", s.PredBirths,
		"prey_deaths", s.PreyDeaths,
		"pred_deaths", s.PredDeaths,
		"prey_starved", s.PreyStarved,
		"pred_starved", s.PredStarved,
		"kills", s.Kills,
		"kills_per_pred_tick", s.KillsPerPred,
		"grazes", s.Grazes,
		"prey_energy_mean", s.PreyEnergyMean,
		"prey_energy_std", s.PreyEnergyStd,
		"prey_energy_p10", s.PreyEnergyP10,
		"prey_energy_p50", s.PreyEnergyP50,
		"prey_energy_p90", s.PreyEnergyP90,
		"pred_energy_mean", s.PredEnergyMean,
		"pred_energy_std", s.PredEnergyStd,
		"pred_energy_p10", s.PredEnergyP10,
		"pred_energy_p50", s.PredEnergyP50,
		"pred_energy_p90", s.PredEnergyP90,
	)
}
