package game

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/predation/components"
	"github.com/pthm-cable/predation/config"
)

// RunResult summarizes one headless run.
type RunResult struct {
	Seed  int64
	Ticks int // ticks actually simulated

	FinalPrey      int
	FinalPredators int

	// Ticks during which both mobile breeds were alive
	CoexistTicks int

	// First tick a breed was found extinct, -1 if it survived
	PreyExtinctTick     int32
	PredatorExtinctTick int32

	// Population series statistics
	PreyMean float64
	PreyCV   float64
	PredMean float64
	PredCV   float64
}

// RunHeadless simulates up to ticks ticks and summarizes the run. The run
// ends early once both mobile breeds are extinct.
func RunHeadless(ctx context.Context, opts Options, ticks int) (RunResult, error) {
	g, err := NewGame(opts)
	if err != nil {
		return RunResult{}, err
	}
	defer g.outputManager.Close()

	res := RunResult{
		Seed:                opts.Seed,
		PreyExtinctTick:     -1,
		PredatorExtinctTick: -1,
	}

	for i := 0; i < ticks && !g.Extinct(); i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		g.Step()
		res.Ticks++

		prey := g.CountOf(components.KindPrey)
		pred := g.CountOf(components.KindPredator)
		if prey > 0 && pred > 0 {
			res.CoexistTicks++
		}
		if prey == 0 && res.PreyExtinctTick < 0 {
			res.PreyExtinctTick = g.Tick()
		}
		if pred == 0 && res.PredatorExtinctTick < 0 {
			res.PredatorExtinctTick = g.Tick()
		}
	}

	res.FinalPrey = g.CountOf(components.KindPrey)
	res.FinalPredators = g.CountOf(components.KindPredator)

	history := g.History()
	preySeries := make([]float64, len(history))
	predSeries := make([]float64, len(history))
	for i, s := range history {
		preySeries[i] = float64(s.Prey)
		predSeries[i] = float64(s.Predators)
	}
	res.PreyMean, res.PreyCV = meanCV(preySeries)
	res.PredMean, res.PredCV = meanCV(predSeries)

	return res, nil
}

// RunBatch runs one headless game per seed, at most workers at a time
// (0 = GOMAXPROCS). Each run owns its own Game; results keep seed order.
func RunBatch(ctx context.Context, cfg *config.Config, seeds []int64, ticks, workers int) ([]RunResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]RunResult, len(seeds))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, seed := range seeds {
		eg.Go(func() error {
			res, err := RunHeadless(ctx, Options{Config: cfg, Seed: seed}, ticks)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// meanCV returns the mean and coefficient of variation of a series.
func meanCV(xs []float64) (mean, cv float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	mean, std := stat.PopMeanStdDev(xs, nil)
	if mean > 0 {
		cv = std / mean
	}
	return mean, cv
}
