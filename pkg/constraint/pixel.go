package constraint

import "github.com/menta2k/image-cropper/pkg/geometry"

// PixelPerfect snaps r to whole pixels while keeping it inside the image
// and the size limits. If rounding pushes the aspect ratio out of range, at
// most three one-pixel nudges are tried in order and the first that lands
// in range wins; when none does the rounded size is kept, which leaves the
// ratio off by at most one pixel. Calling it on its own output is a no-op.
func (s Solver) PixelPerfect(r geometry.Rect) geometry.Rect {
	minSize := geometry.CeilToInt(s.MinSize)
	size := geometry.ClampBetween(geometry.RoundToInt(r.Size), minSize, s.ImageSize)

	ratio := size.X / size.Y
	switch {
	case ratio < s.MinAspect:
		canExpandWidth := size.X < s.ImageSize.X
		canShrinkHeight := size.Y > minSize.Y
		size = s.firstInRange(size,
			nudge{geometry.Vec(1, 0), canExpandWidth},
			nudge{geometry.Vec(0, -1), canShrinkHeight},
			nudge{geometry.Vec(1, -1), canExpandWidth && canShrinkHeight},
		)
	case ratio > s.MaxAspect:
		canShrinkWidth := size.X > minSize.X
		canExpandHeight := size.Y < s.ImageSize.Y
		size = s.firstInRange(size,
			nudge{geometry.Vec(-1, 0), canShrinkWidth},
			nudge{geometry.Vec(0, 1), canExpandHeight},
			nudge{geometry.Vec(-1, 1), canShrinkWidth && canExpandHeight},
		)
	}

	position := geometry.ClampBetween(geometry.RoundToInt(r.Position), geometry.Vector2{}, s.ImageSize.Sub(size))
	return geometry.Rect{Position: position, Size: size}
}

type nudge struct {
	delta   geometry.Vector2
	allowed bool
}

func (s Solver) firstInRange(size geometry.Vector2, nudges ...nudge) geometry.Vector2 {
	for _, n := range nudges {
		if !n.allowed {
			continue
		}
		candidate := size.Add(n.delta)
		if s.AspectWithin(candidate, 0) {
			return candidate
		}
	}
	return size
}

// PixelTolerant reports whether size satisfies the aspect limits, or could
// after a single pixel trade between width and height. Pixel-perfect
// selections are allowed this much slack.
func (s Solver) PixelTolerant(size geometry.Vector2, tol float64) bool {
	ratio := size.X / size.Y
	if ratio < s.MinAspect-tol {
		return (size.X+1)/(size.Y-1) >= s.MinAspect-tol
	}
	if ratio > s.MaxAspect+tol {
		return (size.X-1)/(size.Y+1) <= s.MaxAspect+tol
	}
	return true
}
