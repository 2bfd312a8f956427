// Package main provides CMA-ES optimization for finding model parameters
// under which prey and predators coexist for long runs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/predation/config"
)

// EvalRecord is one row of optimize_log.csv.
type EvalRecord struct {
	Eval              int     `csv:"eval"`
	Fitness           float64 `csv:"fitness"`
	CoexistTicks      float64 `csv:"coexist_ticks"`
	Quality           float64 `csv:"quality"`
	PreyReproduce     float64 `csv:"prey_reproduce"`
	PredatorReproduce float64 `csv:"predator_reproduce"`
	PreyGain          int     `csv:"prey_gain"`
	PredatorGain      int     `csv:"predator_gain"`
	RegrowthPeriod    int     `csv:"regrowth_period"`
	InitialEnergy     int     `csv:"initial_energy"`
}

func newEvalRecord(eval int, fitness, coexist, quality float64, cfg *config.Config) EvalRecord {
	return EvalRecord{
		Eval:              eval,
		Fitness:           fitness,
		CoexistTicks:      coexist,
		Quality:           quality,
		PreyReproduce:     cfg.Prey.Reproduce,
		PredatorReproduce: cfg.Predator.Reproduce,
		PreyGain:          cfg.Prey.GainFromFood,
		PredatorGain:      cfg.Predator.GainFromFood,
		RegrowthPeriod:    cfg.Forage.RegrowthPeriod,
		InitialEnergy:     cfg.Energy.Initial,
	}
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 1000, "Ticks per run")
	seeds := flag.Int("seeds", 8, "Number of seeds per evaluation")
	workers := flag.Int("workers", 0, "Concurrent runs per evaluation (0 = GOMAXPROCS)")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if *outputDir == "" {
		slog.Error("--output is required")
		os.Exit(2)
	}
	if err := run(*configPath, *outputDir, *maxTicks, *seeds, *workers, *maxEvals, *population); err != nil {
		slog.Error("optimization failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, outputDir string, maxTicks, seeds, workers, maxEvals, population int) error {
	if seeds < 1 {
		return fmt.Errorf("--seeds must be >= 1, got %d", seeds)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := config.Init(configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	baseCfg := config.Cfg()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	params := NewParamVector()

	evalSeeds := make([]int64, seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, maxTicks, evalSeeds, workers, baseCfg)

	logFile, err := os.Create(filepath.Join(outputDir, "optimize_log.csv"))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	dim := params.Dim()
	popSize := population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	evalCount := 0
	bestFitness := 0.0
	var bestParams []float64
	var evalErr error
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			// After an interrupt the remaining evaluations drain without simulating.
			if evalErr != nil {
				return 0
			}
			raw := params.Snap(params.Denormalize(x))
			fitness, err := evaluator.Evaluate(ctx, raw)
			if err != nil {
				evalErr = err
				return 0
			}
			evalCount++
			if bestParams == nil || fitness < bestFitness {
				bestFitness = fitness
				bestParams = raw
			}

			cfg := baseCfg.Clone()
			params.ApplyToConfig(cfg, raw)
			coexist, quality := evaluator.Last()
			rec := []EvalRecord{newEvalRecord(evalCount, fitness, coexist, quality, cfg)}
			if evalCount == 1 {
				err = gocsv.Marshal(rec, logFile)
			} else {
				err = gocsv.MarshalWithoutHeaders(rec, logFile)
			}
			if err != nil {
				slog.Warn("failed to log evaluation", "error", err)
			}

			elapsed := time.Since(startTime)
			remaining := time.Duration(maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
			slog.Info("evaluation",
				"eval", evalCount,
				"of", maxEvals,
				"coexist_ticks", coexist,
				"quality", quality,
				"best", bestFitness,
				"elapsed", formatDuration(elapsed),
				"eta", formatDuration(remaining),
			)
			return fitness
		},
	}

	settings := &optimize.Settings{FuncEvaluations: maxEvals}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	slog.Info("starting CMA-ES",
		"params", dim,
		"population", popSize,
		"max_evals", maxEvals,
		"seeds", seeds,
		"ticks", maxTicks,
	)

	initX := params.Normalize(params.ExtractFromConfig(baseCfg))
	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}
	if evalErr != nil && !errors.Is(evalErr, context.Canceled) {
		return evalErr
	}
	if bestParams == nil && result != nil {
		bestParams = params.Snap(params.Denormalize(result.X))
	}
	if bestParams == nil {
		return errors.New("no evaluation completed")
	}

	slog.Info("optimization complete",
		"evals", evalCount,
		"duration", formatDuration(time.Since(startTime)),
		"best_fitness", bestFitness,
	)
	for i, spec := range params.Specs {
		slog.Info("best parameter", "name", spec.Name, "value", bestParams[i])
	}

	bestCfg := baseCfg.Clone()
	params.ApplyToConfig(bestCfg, bestParams)
	configOutPath := filepath.Join(outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	slog.Info("best config saved", "path", configOutPath)
	return nil
}
