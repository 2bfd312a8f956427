// Command serve runs the simulation headless and streams every tick to
// websocket clients at /ws.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/predation/config"
	"github.com/pthm-cable/predation/server"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	addr := flag.String("addr", "", "Listen address (empty = server.addr from config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	paused := flag.Bool("paused", false, "Wait for a resume control before ticking")
	static := flag.String("static", "", "Directory of static client files served at /")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *addr == "" {
		*addr = cfg.Server.Addr
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	s, err := server.New(server.Options{Config: cfg, Seed: *seed, Paused: *paused})
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", s.Handler())
	if *static != "" {
		mux.Handle("/", http.FileServer(http.Dir(*static)))
	}
	srv := &http.Server{Addr: *addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Run(ctx)
	})
	g.Go(func() error {
		slog.Info("serving", "addr", *addr, "seed", *seed, "paused", *paused)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
