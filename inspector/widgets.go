package inspector

import (
	"fmt"
	"reflect"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorBarBg   = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorBarLow  = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorText    = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorBoolOn  = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

// DrawLabel renders a name: value line.
func DrawLabel(x, y int32, name, text string) int32 {
	rl.DrawText(name+": "+text, x, y, 14, ColorText)
	return 18
}

// DrawBar renders a horizontal bar of value against fullScale.
func DrawBar(x, y int32, name string, value, fullScale float64) int32 {
	ratio := float32(min(max(value/fullScale, 0), 1))
	const barWidth, barHeight = int32(120), int32(14)

	rl.DrawText(name, x, y, 14, ColorTextDim)
	barX := x + 80
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)
	fill := ColorBarFill
	if ratio < 0.3 {
		fill = ColorBarLow
	}
	rl.DrawRectangle(barX, y, int32(float32(barWidth)*ratio), barHeight, fill)
	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barWidth+5, y, 14, ColorTextDim)
	return 18
}

// DrawBool renders a yes/no indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	const size = int32(14)
	color, text := ColorBoolOff, "NO"
	if value {
		color, text = ColorBoolOn, "YES"
	}
	rl.DrawRectangle(x+80, y, size, size, color)
	rl.DrawText(text, x+80+size+5, y, 14, color)
	return 18
}

// DrawField renders a field with its tagged widget, falling back to a label.
func DrawField(x, y int32, f Field) int32 {
	switch f.Tag.Widget {
	case WidgetBar:
		if v, ok := f.Number(); ok {
			return DrawBar(x, y, f.Name, v, f.Tag.Max)
		}
	case WidgetBool:
		if f.Value.Kind() == reflect.Bool {
			return DrawBool(x, y, f.Name, f.Value.Bool())
		}
	}
	return DrawLabel(x, y, f.Name, f.Text())
}
