package game

import (
	"context"
	"testing"

	"github.com/pthm-cable/predation/config"
)

func smallBatchConfig() *config.Config {
	return testConfig(func(c *config.Config) {
		c.World.Height, c.World.Width = 10, 10
		c.Population.InitialPrey = 20
		c.Population.InitialPredators = 6
		c.Forage.Enabled = true
	})
}

func TestRunBatchKeepsSeedOrder(t *testing.T) {
	seeds := []int64{3, 1, 2, 9}
	results, err := RunBatch(context.Background(), smallBatchConfig(), seeds, 40, 2)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if len(results) != len(seeds) {
		t.Fatalf("got %d results, want %d", len(results), len(seeds))
	}

	for i, res := range results {
		if res.Seed != seeds[i] {
			t.Errorf("results[%d].Seed = %d, want %d", i, res.Seed, seeds[i])
		}
		if res.Ticks < 1 || res.Ticks > 40 {
			t.Errorf("results[%d].Ticks = %d, want 1..40", i, res.Ticks)
		}
		if res.CoexistTicks > res.Ticks {
			t.Errorf("results[%d].CoexistTicks = %d exceeds Ticks %d", i, res.CoexistTicks, res.Ticks)
		}
	}
}

func TestRunBatchMatchesSequentialRuns(t *testing.T) {
	cfg := smallBatchConfig()
	seeds := []int64{5, 6, 7}

	batch, err := RunBatch(context.Background(), cfg, seeds, 30, 0)
	if err != nil {
		t.Fatal(err)
	}

	for i, seed := range seeds {
		single, err := RunHeadless(context.Background(), Options{Config: cfg, Seed: seed}, 30)
		if err != nil {
			t.Fatal(err)
		}
		if batch[i] != single {
			t.Errorf("seed %d: batch result %+v differs from sequential %+v", seed, batch[i], single)
		}
	}
}

func TestRunHeadlessStopsAtExtinction(t *testing.T) {
	cfg := testConfig(func(c *config.Config) {
		c.Population.InitialPrey = 0
		c.Population.InitialPredators = 3
		c.Energy.Initial = 2
		c.Predator.Reproduce = 0
	})

	res, err := RunHeadless(context.Background(), Options{Config: cfg, Seed: 1}, 100)
	if err != nil {
		t.Fatal(err)
	}
	if res.Ticks != 2 {
		t.Errorf("Ticks = %d, want 2 (predators starve after two moves)", res.Ticks)
	}
	if res.PreyExtinctTick != 1 {
		t.Errorf("PreyExtinctTick = %d, want 1", res.PreyExtinctTick)
	}
	if res.PredatorExtinctTick != 2 {
		t.Errorf("PredatorExtinctTick = %d, want 2", res.PredatorExtinctTick)
	}
	if res.CoexistTicks != 0 {
		t.Errorf("CoexistTicks = %d, want 0", res.CoexistTicks)
	}
}

func TestRunBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := RunBatch(ctx, smallBatchConfig(), []int64{1, 2}, 10, 1); err == nil {
		t.Error("RunBatch with cancelled context returned nil error")
	}
}

func TestMeanCV(t *testing.T) {
	tests := []struct {
		name     string
		xs       []float64
		wantMean float64
		wantCV   float64
	}{
		{"empty", nil, 0, 0},
		{"constant", []float64{4, 4, 4}, 4, 0},
		{"two values", []float64{2, 6}, 4, 0.5},
		{"zero mean", []float64{0, 0}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, cv := meanCV(tt.xs)
			if mean != tt.wantMean || cv != tt.wantCV {
				t.Errorf("meanCV(%v) = %v, %v; want %v, %v", tt.xs, mean, cv, tt.wantMean, tt.wantCV)
			}
		})
	}
}
