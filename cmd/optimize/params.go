// Package main provides CMA-ES optimization for predation model parameters.
package main

import (
	"fmt"

	"github.com/pthm-cable/predation/config"
)

// ParamSpec defines a single optimizable parameter. Bounds and rounding come
// from the matching config slider.
type ParamSpec struct {
	Name   string
	Slider config.Slider
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// optimizedParams lists the searched sliders in vector order. Initial
// populations stay fixed so every candidate starts from the same scene.
var optimizedParams = []string{
	"prey_reproduce",
	"predator_reproduce",
	"prey_gain",
	"predator_gain",
	"regrowth_period",
	"initial_energy",
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	pv, err := newParamVector(optimizedParams)
	if err != nil {
		panic(err)
	}
	return pv
}

func newParamVector(names []string) (*ParamVector, error) {
	byName := make(map[string]config.Slider)
	for _, s := range config.Sliders() {
		byName[s.Name] = s
	}
	pv := &ParamVector{}
	for _, name := range names {
		s, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("optimize: no slider named %q", name)
		}
		pv.Specs = append(pv.Specs, ParamSpec{Name: name, Slider: s})
	}
	return pv, nil
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Slider.Min) / (spec.Slider.Max - spec.Slider.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Slider.Min + normalized[i]*(spec.Slider.Max-spec.Slider.Min)
	}
	return raw
}

// Snap rounds each value to its slider step and clamps it into bounds.
func (pv *ParamVector) Snap(v []float64) []float64 {
	snapped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		snapped[i] = spec.Slider.Snap(v[i])
	}
	return snapped
}

// ApplyToConfig writes snapped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Snap(values) {
		pv.Specs[i].Slider.Set(cfg, v)
	}
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Slider.Get(cfg)
	}
	return v
}
