package geometry

import (
	"fmt"
	"image"
	"math"
)

// Rect is an axis-aligned rectangle. Position is its bottom-left corner in a
// y-up coordinate space.
type Rect struct {
	Position Vector2 `json:"position"`
	Size     Vector2 `json:"size"`
}

// R builds a Rect from its components
func R(x, y, w, h float64) Rect {
	return Rect{Position: Vector2{X: x, Y: y}, Size: Vector2{X: w, Y: h}}
}

// Min returns the bottom-left corner
func (r Rect) Min() Vector2 {
	return r.Position
}

// Max returns the top-right corner
func (r Rect) Max() Vector2 {
	return r.Position.Add(r.Size)
}

// Center returns the midpoint
func (r Rect) Center() Vector2 {
	return r.Position.Add(r.Size.Mul(0.5))
}

// Contains reports whether p lies inside r, edges included
func (r Rect) Contains(p Vector2) bool {
	max := r.Max()
	return p.X >= r.Position.X && p.Y >= r.Position.Y && p.X <= max.X && p.Y <= max.Y
}

// Empty reports whether the rectangle has no area
func (r Rect) Empty() bool {
	return r.Size.X <= 0 || r.Size.Y <= 0
}

// AspectRatio returns width/height
func (r Rect) AspectRatio() float64 {
	return r.Size.X / r.Size.Y
}

// Normalized flips negative extents so that Size is non-negative while
// covering the same area.
func (r Rect) Normalized() Rect {
	if r.Size.X < 0 {
		r.Position.X += r.Size.X
		r.Size.X = -r.Size.X
	}
	if r.Size.Y < 0 {
		r.Position.Y += r.Size.Y
		r.Size.Y = -r.Size.Y
	}
	return r
}

// Within reports whether r lies inside [0, bounds] on both axes, allowing
// eps of float slack.
func (r Rect) Within(bounds Vector2, eps float64) bool {
	max := r.Max()
	return r.Position.X >= -eps && r.Position.Y >= -eps &&
		max.X <= bounds.X+eps && max.Y <= bounds.Y+eps
}

// PixelRect converts r, given in a y-up space of the supplied height, into a
// y-down integer image.Rectangle. Edges are rounded to the nearest pixel.
func (r Rect) PixelRect(height float64) image.Rectangle {
	x0 := int(math.Round(r.Position.X))
	x1 := int(math.Round(r.Position.X + r.Size.X))
	y0 := int(math.Round(height - r.Position.Y - r.Size.Y))
	y1 := int(math.Round(height - r.Position.Y))
	return image.Rect(x0, y0, x1, y1)
}

func (r Rect) String() string {
	return fmt.Sprintf("%gx%g@%g,%g", r.Size.X, r.Size.Y, r.Position.X, r.Position.Y)
}
