package main

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/pthm-cable/predation/config"
	"github.com/pthm-cable/predation/game"
)

// FitnessEvaluator runs headless batches and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int
	seeds      []int64
	workers    int
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64
	lastCoexist float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, workers int, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		workers:    workers,
		baseConfig: baseCfg,
	}
}

// Last returns the mean coexistence ticks and quality of the most recent evaluation.
func (fe *FitnessEvaluator) Last() (coexist, quality float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastCoexist, fe.lastQuality
}

var errNoSeeds = errors.New("no evaluation seeds")

// Evaluate computes fitness for a raw parameter vector (lower = better).
// A config that fails validation scores 0, the worst possible value.
func (fe *FitnessEvaluator) Evaluate(ctx context.Context, x []float64) (float64, error) {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	if err := cfg.Refresh(); err != nil {
		return 0, nil
	}

	if len(fe.seeds) == 0 {
		return 0, errNoSeeds
	}
	results, err := game.RunBatch(ctx, cfg, fe.seeds, fe.maxTicks, fe.workers)
	if err != nil {
		return 0, err
	}

	var fitness, coexist, quality float64
	for _, r := range results {
		q := computeQuality(r)
		fitness += computeFitness(r, q)
		coexist += float64(r.CoexistTicks)
		quality += q
	}
	n := float64(len(results))

	fe.mu.Lock()
	fe.lastCoexist = coexist / n
	fe.lastQuality = quality / n
	fe.mu.Unlock()

	return fitness / n, nil
}

// computeFitness is -(coexistTicks × (1 + 0.2 × quality)). Coexistence
// dominates; quality separates configs that survive equally long.
func computeFitness(r game.RunResult, quality float64) float64 {
	return -(float64(r.CoexistTicks) * (1.0 + 0.2*quality))
}

// computeQuality scores population stability in [0, 1] from the series CVs.
// Runs where a breed died out score 0.
func computeQuality(r game.RunResult) float64 {
	if r.FinalPrey == 0 || r.FinalPredators == 0 {
		return 0
	}
	return clamp01(math.Exp(-(r.PreyCV*r.PreyCV + r.PredCV*r.PredCV)))
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
