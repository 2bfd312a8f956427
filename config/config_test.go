package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.World.Height != 20 || cfg.World.Width != 20 {
		t.Errorf("world = %dx%d, want 20x20", cfg.World.Height, cfg.World.Width)
	}
	if cfg.Population.InitialPrey != 100 {
		t.Errorf("initial_prey = %d, want 100", cfg.Population.InitialPrey)
	}
	if cfg.Population.InitialPredators != 50 {
		t.Errorf("initial_predators = %d, want 50", cfg.Population.InitialPredators)
	}
	if cfg.Forage.Enabled {
		t.Error("forage should be disabled by default")
	}
	if !cfg.World.Moore {
		t.Error("moore should be enabled by default")
	}
	if cfg.Derived.Cells != 400 {
		t.Errorf("Derived.Cells = %d, want 400", cfg.Derived.Cells)
	}
	if cfg.Derived.InitialLive != 550 {
		t.Errorf("Derived.InitialLive = %d, want 550", cfg.Derived.InitialLive)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("world:\n  height: 7\nforage:\n  enabled: true\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.World.Height != 7 {
		t.Errorf("height = %d, want 7", cfg.World.Height)
	}
	if cfg.World.Width != 20 {
		t.Errorf("width = %d, want default 20", cfg.World.Width)
	}
	if !cfg.Forage.Enabled || !cfg.Derived.GrassEaten {
		t.Error("forage override not applied")
	}
	if cfg.Forage.RegrowthPeriod != 30 {
		t.Errorf("regrowth_period = %d, want default 30", cfg.Forage.RegrowthPeriod)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero height", func(c *Config) { c.World.Height = 0 }},
		{"zero width", func(c *Config) { c.World.Width = 0 }},
		{"negative prey", func(c *Config) { c.Population.InitialPrey = -1 }},
		{"negative predators", func(c *Config) { c.Population.InitialPredators = -1 }},
		{"prey probability above one", func(c *Config) { c.Prey.Reproduce = 1.5 }},
		{"predator probability negative", func(c *Config) { c.Predator.Reproduce = -0.1 }},
		{"negative prey gain", func(c *Config) { c.Prey.GainFromFood = -1 }},
		{"negative predator gain", func(c *Config) { c.Predator.GainFromFood = -1 }},
		{"zero regrowth", func(c *Config) { c.Forage.RegrowthPeriod = 0 }},
		{"zero initial energy", func(c *Config) { c.Energy.Initial = 0 }},
		{"zero stats window", func(c *Config) { c.Telemetry.StatsWindow = 0 }},
		{"zero server tick interval", func(c *Config) { c.Server.TickIntervalMS = 0 }},
		{"negative server tick interval", func(c *Config) { c.Server.TickIntervalMS = -200 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
		})
	}

	if err := Defaults().Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := Defaults()
	b := a.Clone()
	b.World.Height = 3
	if a.World.Height == 3 {
		t.Error("Clone shares state with original")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Defaults()
	cfg.Prey.Reproduce = 0.25
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if back.Prey.Reproduce != 0.25 {
		t.Errorf("prey.reproduce = %v, want 0.25", back.Prey.Reproduce)
	}
}

func TestSliders(t *testing.T) {
	cfg := Defaults()
	for _, s := range Sliders() {
		t.Run(s.Name, func(t *testing.T) {
			if s.Min >= s.Max {
				t.Fatalf("bad range [%v, %v]", s.Min, s.Max)
			}
			s.Set(cfg, s.Max)
			if got := s.Get(cfg); got != s.Max {
				t.Errorf("Get after Set(%v) = %v", s.Max, got)
			}
			if got := s.Snap(s.Max + 100); got != s.Max {
				t.Errorf("Snap above range = %v, want %v", got, s.Max)
			}
			if got := s.Snap(s.Min - 100); got != s.Min {
				t.Errorf("Snap below range = %v, want %v", got, s.Min)
			}
		})
	}
	if err := cfg.Refresh(); err != nil {
		t.Errorf("config at slider maxima should validate: %v", err)
	}
}
