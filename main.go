package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/predation/components"
	"github.com/pthm-cable/predation/config"
	"github.com/pthm-cable/predation/game"
)

// defaultHeadlessTicks is the headless run length when --max-ticks is unset.
const defaultHeadlessTicks = 200

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = 200 headless, unlimited graphical)")
	debug := flag.Bool("debug", false, "Check grid/scheduler consistency after every tick")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Config:    cfg,
		Seed:      rngSeed,
		Debug:     *debug,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	}

	if *headless {
		ticks := *maxTicks
		if ticks <= 0 {
			ticks = defaultHeadlessTicks
		}
		if err := runHeadless(opts, ticks); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Predation")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	v, err := newViewer(opts)
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		return
	}
	defer v.Close()

	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()

		if *maxTicks > 0 && int(v.game.Tick()) >= *maxTicks {
			break
		}
	}
}

// runHeadless advances the simulation without graphics until ticks have run,
// both mobile breeds are gone, or the process is interrupted.
func runHeadless(opts game.Options, ticks int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, err := game.NewGame(opts)
	if err != nil {
		return err
	}
	defer g.Close()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"max_ticks", ticks,
		"output_dir", opts.OutputDir,
	)

	for g.Tick() < int32(ticks) {
		if g.Extinct() {
			slog.Info("all mobile agents extinct", "tick", g.Tick())
			return nil
		}
		if _, err := g.Run(ctx, 1); err != nil {
			if errors.Is(err, context.Canceled) {
				slog.Info("interrupted", "tick", g.Tick())
				return nil
			}
			return err
		}
	}

	slog.Info("max ticks reached",
		"tick", g.Tick(),
		"prey", g.CountOf(components.KindPrey),
		"predators", g.CountOf(components.KindPredator),
	)
	return nil
}
