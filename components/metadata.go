package components

import "fmt"

// FieldDescriptor describes an agent field for UI display.
type FieldDescriptor struct {
	ID     string  // Unique identifier
	Label  string  // Display name
	Format string  // Printf format (e.g., "%.2f")
	Min    float32 // Minimum value (for bars)
	Max    float32 // Maximum value (for bars)
	IsBar  bool    // True to render as progress bar
	Value  func(AgentView) float64
}

// Text formats the field value of v.
func (d FieldDescriptor) Text(v AgentView) string {
	return fmt.Sprintf(d.Format, d.Value(v))
}

// FieldDescriptors returns the displayable fields for a kind.
func FieldDescriptors(kind Kind) []FieldDescriptor {
	id := FieldDescriptor{ID: "id", Label: "ID", Format: "%.0f",
		Value: func(v AgentView) float64 { return float64(v.ID) }}

	if kind.Mobile() {
		return []FieldDescriptor{
			id,
			{ID: "energy", Label: "Energy", Format: "%.0f",
				Value: func(v AgentView) float64 { return float64(v.Energy) }},
		}
	}

	return []FieldDescriptor{
		id,
		{ID: "regrowth", Label: "Regrowth", Format: "%.2f", Min: 0, Max: 1, IsBar: true,
			Value: func(v AgentView) float64 { return 1 - v.RegrowthFraction }},
	}
}
