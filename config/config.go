// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Population PopulationConfig `yaml:"population"`
	Prey       BreedConfig      `yaml:"prey"`
	Predator   BreedConfig      `yaml:"predator"`
	Energy     EnergyConfig     `yaml:"energy"`
	Forage     ForageConfig     `yaml:"forage"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`
	Screen     ScreenConfig     `yaml:"screen"`
	Server     ServerConfig     `yaml:"server"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds grid dimensions and the movement neighborhood.
type WorldConfig struct {
	Height int  `yaml:"height"`
	Width  int  `yaml:"width"`
	Moore  bool `yaml:"moore"` // true = 8-neighbor moves, false = 4-neighbor (Von Neumann)
}

// PopulationConfig holds the starting population.
type PopulationConfig struct {
	InitialPrey      int `yaml:"initial_prey"`
	InitialPredators int `yaml:"initial_predators"`
}

// BreedConfig holds per-breed reproduction and feeding parameters.
type BreedConfig struct {
	Reproduce    float64 `yaml:"reproduce"`      // Probability of asexual reproduction per activation
	GainFromFood int     `yaml:"gain_from_food"` // Energy gained per meal
}

// EnergyConfig holds mobile agent energy parameters.
type EnergyConfig struct {
	Initial int `yaml:"initial"` // Energy of every newly created prey or predator
}

// ForageConfig holds grass patch parameters.
type ForageConfig struct {
	Enabled        bool `yaml:"enabled"`         // Prey pay a move cost and eat grass
	RegrowthPeriod int  `yaml:"regrowth_period"` // Ticks from eaten to grown again
	RandomInitial  bool `yaml:"random_initial"`  // Seed patches half grown, half mid-regrowth
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Ticks per stats window
	HistorySize         int `yaml:"history_size"` // Population samples kept in memory (0 = unbounded)
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	PreyCrash        PreyCrashConfig        `yaml:"prey_crash"`
	PredatorRecovery PredatorRecoveryConfig `yaml:"predator_recovery"`
	StableEcosystem  StableEcosystemConfig  `yaml:"stable_ecosystem"`
}

// PreyCrashConfig holds prey crash detection parameters.
type PreyCrashConfig struct {
	DropPercent float64 `yaml:"drop_percent"`
	MinDrop     int     `yaml:"min_drop"`
}

// PredatorRecoveryConfig holds predator recovery detection parameters.
type PredatorRecoveryConfig struct {
	MinPopulation      int `yaml:"min_population"`
	RecoveryMultiplier int `yaml:"recovery_multiplier"`
	MinFinal           int `yaml:"min_final"`
}

// StableEcosystemConfig holds stable ecosystem detection parameters.
type StableEcosystemConfig struct {
	MinPrey       int     `yaml:"min_prey"`
	MinPred       int     `yaml:"min_pred"`
	CVThreshold   float64 `yaml:"cv_threshold"`
	StableWindows int     `yaml:"stable_windows"`
}

// ScreenConfig holds display settings for the graphical viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
	TickEvery int `yaml:"tick_every"` // Frames per simulation tick
}

// ServerConfig holds settings for the websocket state stream.
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	TickIntervalMS int    `yaml:"tick_interval_ms"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Cells       int  // World.Height * World.Width
	InitialLive int  // Initial prey + predators + one forage patch per cell
	GrassEaten  bool // Alias for Forage.Enabled, read on the hot path
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks type/range sanity of the model parameters.
// It does not enforce the narrower slider ranges used by the UI.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.World.Height >= 1, "world.height must be >= 1, got %d", c.World.Height)
	check(c.World.Width >= 1, "world.width must be >= 1, got %d", c.World.Width)
	check(c.Population.InitialPrey >= 0, "population.initial_prey must be >= 0, got %d", c.Population.InitialPrey)
	check(c.Population.InitialPredators >= 0, "population.initial_predators must be >= 0, got %d", c.Population.InitialPredators)
	check(c.Prey.Reproduce >= 0 && c.Prey.Reproduce <= 1, "prey.reproduce must be in [0,1], got %g", c.Prey.Reproduce)
	check(c.Predator.Reproduce >= 0 && c.Predator.Reproduce <= 1, "predator.reproduce must be in [0,1], got %g", c.Predator.Reproduce)
	check(c.Prey.GainFromFood >= 0, "prey.gain_from_food must be >= 0, got %d", c.Prey.GainFromFood)
	check(c.Predator.GainFromFood >= 0, "predator.gain_from_food must be >= 0, got %d", c.Predator.GainFromFood)
	check(c.Forage.RegrowthPeriod >= 1, "forage.regrowth_period must be >= 1, got %d", c.Forage.RegrowthPeriod)
	check(c.Energy.Initial >= 1, "energy.initial must be >= 1, got %d", c.Energy.Initial)
	check(c.Telemetry.StatsWindow >= 1, "telemetry.stats_window must be >= 1, got %d", c.Telemetry.StatsWindow)
	check(c.Telemetry.HistorySize >= 0, "telemetry.history_size must be >= 0, got %d", c.Telemetry.HistorySize)
	check(c.Server.TickIntervalMS >= 1, "server.tick_interval_ms must be >= 1, got %d", c.Server.TickIntervalMS)

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Cells = c.World.Height * c.World.Width
	c.Derived.InitialLive = c.Population.InitialPrey + c.Population.InitialPredators + c.Derived.Cells
	c.Derived.GrassEaten = c.Forage.Enabled
}

// Refresh recomputes derived values after fields were edited in place
// (UI sliders, optimizer parameter vectors) and revalidates.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
