// Package geometry holds the small value types shared by the cropping engine:
// a two component vector used for sizes and points, and an axis-aligned
// rectangle anchored at its bottom-left corner.
package geometry

import "fmt"

// Vector2 is a pair of float components. It stands for both sizes
// (width/height) and points (x/y).
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec returns a Vector2 with the given components
func Vec(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Splat returns a Vector2 with both components set to v
func Splat(v float64) Vector2 {
	return Vector2{X: v, Y: v}
}

// Add returns v+o
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v-o
func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Mul multiplies both components by f
func (v Vector2) Mul(f float64) Vector2 {
	return Vector2{X: v.X * f, Y: v.Y * f}
}

// Div divides both components by f
func (v Vector2) Div(f float64) Vector2 {
	return Vector2{X: v.X / f, Y: v.Y / f}
}

// Scale multiplies v by s component-wise
func (v Vector2) Scale(s Vector2) Vector2 {
	return Vector2{X: v.X * s.X, Y: v.Y * s.Y}
}

// Swap exchanges the components
func (v Vector2) Swap() Vector2 {
	return Vector2{X: v.Y, Y: v.X}
}

// MinComponent returns the smaller component
func (v Vector2) MinComponent() float64 {
	if v.X < v.Y {
		return v.X
	}
	return v.Y
}

// MaxComponent returns the larger component
func (v Vector2) MaxComponent() float64 {
	if v.X > v.Y {
		return v.X
	}
	return v.Y
}

// Less reports whether either component of v is smaller than the matching
// component of o.
func (v Vector2) Less(o Vector2) bool {
	return v.X < o.X || v.Y < o.Y
}

func (v Vector2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// ClampBetween clamps each component of v into the range spanned by lo and
// hi. The bounds may be given in either order on each axis: when lo > hi the
// range is simply reversed.
func ClampBetween(v, lo, hi Vector2) Vector2 {
	v.X = clampAxis(v.X, lo.X, hi.X)
	v.Y = clampAxis(v.Y, lo.Y, hi.Y)
	return v
}

func clampAxis(v, lo, hi float64) float64 {
	if lo < hi {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}

	if v < hi {
		return hi
	}
	if v > lo {
		return lo
	}
	return v
}

// RoundToInt rounds each component half-up by truncating v+0.5.
func RoundToInt(v Vector2) Vector2 {
	return Vector2{X: float64(int(v.X + 0.5)), Y: float64(int(v.Y + 0.5))}
}

// CeilToInt truncates v+0.999. The bias is deliberately short of a full
// ceiling so values carrying float error just above an integer stay put.
func CeilToInt(v Vector2) Vector2 {
	return Vector2{X: float64(int(v.X + 0.999)), Y: float64(int(v.Y + 0.999))}
}

// FloorToInt truncates each component toward zero.
func FloorToInt(v Vector2) Vector2 {
	return Vector2{X: float64(int(v.X)), Y: float64(int(v.Y))}
}

// CeilInt is the scalar form of CeilToInt.
func CeilInt(v float64) float64 {
	return float64(int(v + 0.999))
}

// Lerp interpolates between a and b. t is not clamped.
func Lerp(a, b Vector2, t float64) Vector2 {
	return Vector2{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// LerpFloat is the scalar form of Lerp.
func LerpFloat(a, b, t float64) float64 {
	return a + (b-a)*t
}
