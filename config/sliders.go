package config

// Slider declares a user-adjustable model parameter and its allowed range.
// Ranges are caller-declared UI bounds; Validate only enforces sanity.
type Slider struct {
	Name  string
	Label string
	Min   float64
	Max   float64
	Step  float64
	Get   func(*Config) float64
	Set   func(*Config, float64)
}

// Sliders returns the adjustable parameters in display order.
func Sliders() []Slider {
	return []Slider{
		{
			Name: "initial_prey", Label: "Initial prey population", Min: 5, Max: 200, Step: 1,
			Get: func(c *Config) float64 { return float64(c.Population.InitialPrey) },
			Set: func(c *Config, v float64) { c.Population.InitialPrey = int(v) },
		},
		{
			Name: "initial_predators", Label: "Initial predator population", Min: 5, Max: 200, Step: 1,
			Get: func(c *Config) float64 { return float64(c.Population.InitialPredators) },
			Set: func(c *Config, v float64) { c.Population.InitialPredators = int(v) },
		},
		{
			Name: "prey_reproduce", Label: "Prey breeding probability", Min: 0.01, Max: 1.0, Step: 0.01,
			Get: func(c *Config) float64 { return c.Prey.Reproduce },
			Set: func(c *Config, v float64) { c.Prey.Reproduce = v },
		},
		{
			Name: "predator_reproduce", Label: "Predator breeding probability", Min: 0.01, Max: 1.0, Step: 0.01,
			Get: func(c *Config) float64 { return c.Predator.Reproduce },
			Set: func(c *Config, v float64) { c.Predator.Reproduce = v },
		},
		{
			Name: "predator_gain", Label: "Energy gain from food (predator)", Min: 5, Max: 40, Step: 1,
			Get: func(c *Config) float64 { return float64(c.Predator.GainFromFood) },
			Set: func(c *Config, v float64) { c.Predator.GainFromFood = int(v) },
		},
		{
			Name: "prey_gain", Label: "Energy gain from food (prey)", Min: 2, Max: 10, Step: 1,
			Get: func(c *Config) float64 { return float64(c.Prey.GainFromFood) },
			Set: func(c *Config, v float64) { c.Prey.GainFromFood = int(v) },
		},
		{
			Name: "regrowth_period", Label: "Forage regrowth time", Min: 5, Max: 50, Step: 1,
			Get: func(c *Config) float64 { return float64(c.Forage.RegrowthPeriod) },
			Set: func(c *Config, v float64) { c.Forage.RegrowthPeriod = int(v) },
		},
		{
			Name: "initial_energy", Label: "Initial energy", Min: 5, Max: 15, Step: 1,
			Get: func(c *Config) float64 { return float64(c.Energy.Initial) },
			Set: func(c *Config, v float64) { c.Energy.Initial = int(v) },
		},
	}
}

// Snap rounds v to the slider step and clamps it into [Min, Max].
func (s Slider) Snap(v float64) float64 {
	if s.Step > 0 {
		steps := (v - s.Min) / s.Step
		v = s.Min + float64(int(steps+0.5))*s.Step
	}
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}
