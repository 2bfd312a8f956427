package server

import (
	"fmt"

	"github.com/pthm-cable/predation/components"
	"github.com/pthm-cable/predation/config"
	"github.com/pthm-cable/predation/game"
)

// Message types
const (
	TypeConfig = "config"
	TypeState  = "state"
	TypeStatus = "status"
	TypeError  = "error"

	ControlPause  = "pause"
	ControlResume = "resume"
	ControlStep   = "step"
	ControlReset  = "reset"
)

// Hello is sent once to every new client.
type Hello struct {
	Type    string       `json:"type"`
	Height  int          `json:"h"`
	Width   int          `json:"w"`
	Seed    int64        `json:"seed"`
	Paused  bool         `json:"paused"`
	Sliders []SliderInfo `json:"sliders"`
}

// SliderInfo describes an adjustable parameter and its current value.
type SliderInfo struct {
	Name  string  `json:"name"`
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Step  float64 `json:"step"`
	Value float64 `json:"value"`
}

// Frame is the full grid state after a tick.
type Frame struct {
	Type        string       `json:"type"`
	Tick        int32        `json:"tick"`
	Prey        int          `json:"prey"`
	Predators   int          `json:"predators"`
	GrownForage int          `json:"grown_forage"`
	Agents      []AgentFrame `json:"agents"`
}

// AgentFrame is the portrayal of one agent.
type AgentFrame struct {
	ID       uint64  `json:"id"`
	Kind     string  `json:"kind"`
	Row      int     `json:"row"`
	Col      int     `json:"col"`
	Energy   int     `json:"energy,omitempty"`
	Grown    bool    `json:"grown,omitempty"`
	Regrowth float64 `json:"regrowth,omitempty"` // remaining fraction of the regrowth period
}

// Status reports run-state changes.
type Status struct {
	Type   string `json:"type"`
	Paused bool   `json:"paused"`
	Tick   int32  `json:"tick"`
}

// ErrorMessage reports a rejected control message to its sender.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Control is a client request. Params, Forage, Moore and Seed only apply to reset.
type Control struct {
	Type   string             `json:"type"`
	Params map[string]float64 `json:"params,omitempty"`
	Forage *bool              `json:"forage,omitempty"`
	Moore  *bool              `json:"moore,omitempty"`
	Seed   *int64             `json:"seed,omitempty"`
}

func newHello(g *game.Game, paused bool) Hello {
	cfg := g.Config()
	h, w := g.GridSize()
	sliders := config.Sliders()
	infos := make([]SliderInfo, len(sliders))
	for i, s := range sliders {
		infos[i] = SliderInfo{
			Name:  s.Name,
			Label: s.Label,
			Min:   s.Min,
			Max:   s.Max,
			Step:  s.Step,
			Value: s.Get(cfg),
		}
	}
	return Hello{Type: TypeConfig, Height: h, Width: w, Seed: g.Seed(), Paused: paused, Sliders: infos}
}

func newFrame(g *game.Game) Frame {
	views := g.Agents()
	agents := make([]AgentFrame, len(views))
	for i, v := range views {
		agents[i] = AgentFrame{
			ID:     v.ID,
			Kind:   v.Kind.String(),
			Row:    v.Pos.Row,
			Col:    v.Pos.Col,
			Energy: v.Energy,
		}
		if v.Kind == components.KindForage {
			agents[i].Grown = v.Grown
			agents[i].Regrowth = v.RegrowthFraction
		}
	}
	return Frame{
		Type:        TypeState,
		Tick:        g.Tick(),
		Prey:        g.CountOf(components.KindPrey),
		Predators:   g.CountOf(components.KindPredator),
		GrownForage: g.GrownForage(),
		Agents:      agents,
	}
}

// applyControl copies base and applies the reset overrides in c.
func applyControl(base *config.Config, c Control) (*config.Config, error) {
	cfg := base.Clone()
	if len(c.Params) > 0 {
		byName := make(map[string]config.Slider)
		for _, s := range config.Sliders() {
			byName[s.Name] = s
		}
		for name, v := range c.Params {
			s, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("unknown parameter %q", name)
			}
			s.Set(cfg, s.Snap(v))
		}
	}
	if c.Forage != nil {
		cfg.Forage.Enabled = *c.Forage
	}
	if c.Moore != nil {
		cfg.World.Moore = *c.Moore
	}
	if err := cfg.Refresh(); err != nil {
		return nil, err
	}
	return cfg, nil
}
