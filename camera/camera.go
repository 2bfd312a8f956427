// Package camera maps grid cells to screen pixels for the graphical viewer.
package camera

import (
	"math"

	"github.com/pthm-cable/predation/components"
)

// Camera controls the viewport into the toroidal grid. The center is kept in
// fractional cell coordinates so panning is smooth across cell boundaries.
type Camera struct {
	// Center of the view in cell units (column, row)
	X, Y float32

	// Zoom level (1.0 = BaseCell pixels per cell)
	Zoom float32

	// Pixels per cell at zoom 1
	BaseCell float32

	// Viewport rectangle on screen
	OriginX, OriginY     float32
	ViewportW, ViewportH float32

	// Grid dimensions in cells
	Rows, Cols int

	MinZoom, MaxZoom float32
}

// New creates a camera that fits a rows x cols grid into the viewport.
func New(originX, originY, viewportW, viewportH float32, rows, cols int) *Camera {
	base := min(viewportW/float32(cols), viewportH/float32(rows))
	return &Camera{
		X:         float32(cols) / 2,
		Y:         float32(rows) / 2,
		Zoom:      1.0,
		BaseCell:  base,
		OriginX:   originX,
		OriginY:   originY,
		ViewportW: viewportW,
		ViewportH: viewportH,
		Rows:      rows,
		Cols:      cols,
		MinZoom:   1.0,
		MaxZoom:   8.0,
	}
}

// CellSize returns the current size of a cell in pixels.
func (c *Camera) CellSize() float32 {
	return c.BaseCell * c.Zoom
}

// CellToScreen returns the screen position of the top-left corner of cell p,
// taking the shortest way around the torus from the camera center.
func (c *Camera) CellToScreen(p components.Position) (sx, sy float32) {
	size := c.CellSize()
	dx := toroidalDelta(float32(p.Col), c.X, float32(c.Cols))
	dy := toroidalDelta(float32(p.Row), c.Y, float32(c.Rows))
	sx = c.OriginX + c.ViewportW/2 + dx*size
	sy = c.OriginY + c.ViewportH/2 + dy*size
	return sx, sy
}

// ScreenToCell returns the cell under a screen point. The second result is
// false when the point lies outside the viewport.
func (c *Camera) ScreenToCell(sx, sy float32) (components.Position, bool) {
	if sx < c.OriginX || sy < c.OriginY || sx >= c.OriginX+c.ViewportW || sy >= c.OriginY+c.ViewportH {
		return components.Position{}, false
	}
	size := c.CellSize()
	wx := c.X + (sx-c.OriginX-c.ViewportW/2)/size
	wy := c.Y + (sy-c.OriginY-c.ViewportH/2)/size

	col := int(math.Floor(float64(mod(wx, float32(c.Cols)))))
	row := int(math.Floor(float64(mod(wy, float32(c.Rows)))))
	// Float rounding can land exactly on the upper bound.
	if col >= c.Cols {
		col = c.Cols - 1
	}
	if row >= c.Rows {
		row = c.Rows - 1
	}
	return components.Position{Row: row, Col: col}, true
}

// IsVisible reports whether any part of cell p falls inside the viewport.
func (c *Camera) IsVisible(p components.Position) bool {
	sx, sy := c.CellToScreen(p)
	size := c.CellSize()
	return sx+size > c.OriginX && sy+size > c.OriginY &&
		sx < c.OriginX+c.ViewportW && sy < c.OriginY+c.ViewportH
}

// Resize updates the viewport and refits the base cell size.
func (c *Camera) Resize(originX, originY, viewportW, viewportH float32) {
	c.OriginX, c.OriginY = originX, originY
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW, c.ViewportH = viewportW, viewportH
	c.BaseCell = min(viewportW/float32(c.Cols), viewportH/float32(c.Rows))
}

// Pan moves the camera by a screen-pixel delta, wrapping around the grid.
func (c *Camera) Pan(dx, dy float32) {
	size := c.CellSize()
	c.X = mod(c.X+dx/size, float32(c.Cols))
	c.Y = mod(c.Y+dy/size, float32(c.Rows))
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centers the grid at zoom 1.
func (c *Camera) Reset() {
	c.X = float32(c.Cols) / 2
	c.Y = float32(c.Rows) / 2
	c.Zoom = 1.0
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// in a toroidal space of the given size.
func toroidalDelta(to, from, size float32) float32 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
