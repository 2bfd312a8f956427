package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayGridLines    OverlayID = "grid_lines"
	OverlayEnergyLabels OverlayID = "energy_labels"
	OverlayRegrowth     OverlayID = "regrowth"
	OverlayChart        OverlayID = "chart"
	OverlayStats        OverlayID = "stats"
	OverlayPerf         OverlayID = "perf"
	OverlayBookmarks    OverlayID = "bookmarks"
	OverlaySliders      OverlayID = "sliders"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID
	Name        string
	Description string
	Key         int32  // Keyboard key to toggle (0 = no key)
	KeyLabel    string // Key label for display (e.g., "S", "V")
	Category    string // Grouping (e.g., "grid", "panels")
	Default     bool   // Enabled at startup
	Exclusive   []OverlayID
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
	order       []OverlayID
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:          OverlayGridLines,
		Name:        "Grid Lines",
		Description: "Outline every cell",
		Key:         rl.KeyG,
		KeyLabel:    "G",
		Category:    "grid",
		Default:     true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayEnergyLabels,
		Name:        "Energy Labels",
		Description: "Print each agent's energy inside its marker",
		Key:         rl.KeyE,
		KeyLabel:    "E",
		Category:    "grid",
		Default:     true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayRegrowth,
		Name:        "Regrowth Shading",
		Description: "Shade grazed grass by regrowth progress",
		Key:         rl.KeyR,
		KeyLabel:    "R",
		Category:    "grid",
		Default:     true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayChart,
		Name:        "Population Chart",
		Description: "Prey, predator and grass series",
		Key:         rl.KeyC,
		KeyLabel:    "C",
		Category:    "panels",
		Default:     true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayStats,
		Name:        "Window Stats",
		Description: "Births, deaths and energy of the last window",
		Key:         rl.KeyS,
		KeyLabel:    "S",
		Category:    "panels",
		Exclusive:   []OverlayID{OverlayPerf},
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayPerf,
		Name:        "Performance",
		Description: "Tick phase timing",
		Key:         rl.KeyP,
		KeyLabel:    "P",
		Category:    "panels",
		Exclusive:   []OverlayID{OverlayStats},
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayBookmarks,
		Name:        "Bookmarks",
		Description: "Recent ecosystem events",
		Key:         rl.KeyB,
		KeyLabel:    "B",
		Category:    "panels",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlaySliders,
		Name:        "Parameters",
		Description: "Model parameter sliders",
		Key:         rl.KeyTab,
		KeyLabel:    "Tab",
		Category:    "panels",
		Default:     true,
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.order = append(r.order, desc.ID)
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	newState := !r.enabled[id]
	r.SetEnabled(id, newState)
	return newState
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled

	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			newState := r.Toggle(desc.ID)
			return desc.ID, newState, true
		}
	}
	return "", false, false
}

// HandleInput polls the keyboard for overlay toggles.
func (r *OverlayRegistry) HandleInput() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}

// EnabledOverlays returns a list of currently enabled overlay IDs.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	var result []OverlayID
	for _, id := range r.order {
		if r.enabled[id] {
			result = append(result, id)
		}
	}
	return result
}
