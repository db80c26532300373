// Package constraint keeps a selection rectangle valid: inside the image,
// inside the size limits and inside the aspect-ratio limits.
package constraint

import "github.com/menta2k/image-cropper/pkg/geometry"

const (
	// MinAspectSentinel replaces an unset minimum aspect ratio.
	MinAspectSentinel = 1e-6
	// MaxAspectSentinel replaces an unset maximum aspect ratio.
	MaxAspectSentinel = 1e6
)

// Direction is a set of selection edges.
type Direction int

const (
	None   Direction = 0
	Left   Direction = 1
	Top    Direction = 2
	Right  Direction = 4
	Bottom Direction = 8
)

// Has reports whether every edge in e is part of d
func (d Direction) Has(e Direction) bool {
	return d&e == e
}

// Opposite returns the pivot for a drag on the edges in d: the edge facing
// each dragged edge stays anchored.
func (d Direction) Opposite() Direction {
	pivot := None
	if d.Has(Left) {
		pivot |= Right
	} else if d.Has(Right) {
		pivot |= Left
	}
	if d.Has(Top) {
		pivot |= Bottom
	} else if d.Has(Bottom) {
		pivot |= Top
	}
	return pivot
}

// Solver resolves proposed rectangles against the limits of one oriented
// image. MinSize and MaxSize must already be clamped to ImageSize (see
// CurrentSizeBounds) and the aspect limits normalized (see NormalizeAspect).
type Solver struct {
	ImageSize geometry.Vector2
	MinSize   geometry.Vector2
	MaxSize   geometry.Vector2
	MinAspect float64
	MaxAspect float64
}

// NewSolver builds a Solver for an image, deriving the effective size
// limits and normalizing the aspect limits.
func NewSolver(imageSize, minSize, maxSize geometry.Vector2, minAspect, maxAspect float64) Solver {
	currMin, currMax := CurrentSizeBounds(minSize, maxSize, imageSize)
	minAspect, maxAspect = NormalizeAspect(minAspect, maxAspect)
	return Solver{
		ImageSize: imageSize,
		MinSize:   currMin,
		MaxSize:   currMax,
		MinAspect: minAspect,
		MaxAspect: maxAspect,
	}
}

// NormalizeAspect replaces non-positive limits with sentinels that never
// trigger, and swaps inverted limits.
func NormalizeAspect(minAspect, maxAspect float64) (float64, float64) {
	if minAspect <= 0 {
		minAspect = MinAspectSentinel
	}
	if maxAspect <= 0 {
		maxAspect = MaxAspectSentinel
	}
	if minAspect > maxAspect {
		minAspect, maxAspect = maxAspect, minAspect
	}
	return minAspect, maxAspect
}

// NormalizeSizeBounds fills in unset size limits for a source image and
// orders them. A minimum under one pixel becomes a tenth of the shorter
// side; a maximum under one pixel becomes twice the longer side.
func NormalizeSizeBounds(minSize, maxSize, originalSize geometry.Vector2) (geometry.Vector2, geometry.Vector2) {
	maxDefault := geometry.Splat(2 * originalSize.MaxComponent())
	if minSize.X < 1 || minSize.Y < 1 {
		minSize = geometry.Splat(0.1 * originalSize.MinComponent())
	}
	if maxSize.X < 1 || maxSize.Y < 1 {
		maxSize = maxDefault
	}

	minSize = geometry.ClampBetween(minSize, geometry.Splat(1), geometry.Splat(originalSize.MaxComponent()))
	maxSize = geometry.ClampBetween(maxSize, minSize, maxDefault)
	return minSize, maxSize
}

// CurrentSizeBounds clamps the configured limits to the oriented image.
func CurrentSizeBounds(minSize, maxSize, imageSize geometry.Vector2) (geometry.Vector2, geometry.Vector2) {
	currMin := geometry.ClampBetween(minSize, geometry.Splat(1), imageSize)
	currMax := geometry.ClampBetween(maxSize, currMin, imageSize)
	return currMin, currMax
}

// AspectWithin reports whether size satisfies the aspect limits with tol of
// slack on both ends.
func (s Solver) AspectWithin(size geometry.Vector2, tol float64) bool {
	ratio := size.X / size.Y
	return ratio >= s.MinAspect-tol && ratio <= s.MaxAspect+tol
}

// Move clamps a translated position so a rectangle of the given size stays
// inside the image.
func (s Solver) Move(position, size geometry.Vector2) geometry.Vector2 {
	return geometry.ClampBetween(position, geometry.Vector2{}, s.ImageSize.Sub(size))
}

// Resolve returns the valid rectangle nearest to the proposed one.
//
// The size is clamped into the limits first. When the aspect ratio is then
// out of range, shrinkToFit picks the dimension that gives way: with
// shrinkToFit the offending dimension is reduced (height of a too-tall
// rectangle, width of a too-wide one), otherwise the other dimension grows.
// A resize gesture passes false while the user drags outward so the edge
// under the pointer is the one that follows. Size changes are absorbed on
// the sides not named by pivot, and the result is clamped inside the image.
func (s Solver) Resolve(position, size geometry.Vector2, pivot Direction, shrinkToFit bool) geometry.Rect {
	newSize := s.fitAspect(geometry.ClampBetween(size, s.MinSize, s.MaxSize), shrinkToFit)

	if size.X != newSize.X {
		delta := newSize.X - size.X
		if pivot.Has(Right) {
			position.X -= delta
		} else if !pivot.Has(Left) {
			position.X -= delta * 0.5
		}
		size.X = newSize.X
	}
	if size.Y != newSize.Y {
		delta := newSize.Y - size.Y
		if pivot.Has(Top) {
			position.Y -= delta
		} else if !pivot.Has(Bottom) {
			position.Y -= delta * 0.5
		}
		size.Y = newSize.Y
	}

	return geometry.Rect{Position: s.Move(position, size), Size: size}
}

func (s Solver) fitAspect(size geometry.Vector2, shrinkToFit bool) geometry.Vector2 {
	minSize, maxSize := s.MinSize, s.MaxSize
	ratio := size.X / size.Y

	switch {
	case ratio < s.MinAspect:
		if shrinkToFit {
			if h := size.X / s.MinAspect; h >= minSize.Y {
				size.Y = h
			} else if w := minSize.Y * s.MinAspect; w <= maxSize.X {
				size = geometry.Vec(w, minSize.Y)
			} else {
				size = geometry.Vec(maxSize.X, minSize.Y)
			}
		} else {
			if w := size.Y * s.MinAspect; w <= maxSize.X {
				size.X = w
			} else if h := maxSize.X / s.MinAspect; h <= maxSize.Y {
				size = geometry.Vec(maxSize.X, h)
			} else {
				size = maxSize
			}
		}
	case ratio > s.MaxAspect:
		if shrinkToFit {
			if w := size.Y * s.MaxAspect; w >= minSize.X {
				size.X = w
			} else if h := minSize.X / s.MaxAspect; h <= maxSize.Y {
				size = geometry.Vec(minSize.X, h)
			} else {
				size = geometry.Vec(minSize.X, maxSize.Y)
			}
		} else {
			if h := size.X / s.MaxAspect; h <= maxSize.Y {
				size.Y = h
			} else if w := maxSize.Y * s.MaxAspect; w <= maxSize.X {
				size = geometry.Vec(w, maxSize.Y)
			} else {
				size = maxSize
			}
		}
	}

	return size
}
