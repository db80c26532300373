package session

import (
	"github.com/menta2k/image-cropper/pkg/autozoom"
	"github.com/menta2k/image-cropper/pkg/constraint"
	"github.com/menta2k/image-cropper/pkg/geometry"
)

// handlerUpdateMargin keeps edge scrolling off while the image is shown
// at (or within rounding of) its fit-to-viewport scale.
const handlerUpdateMargin = 0.01

// SetViewportSize records the viewport size and reframes the view when it
// changes.
func (s *Session) SetViewportSize(size geometry.Vector2) {
	if size == s.viewport {
		return
	}
	s.viewport = size
	if s.state != StateIdle {
		s.ResetView(true)
	}
}

// ResetView fits the whole image in the viewport. Any gesture in progress
// is stopped and any zoom transition dropped. With frame set and autoZoom
// enabled, the view then jumps straight to the selection.
func (s *Session) ResetView(frame bool) {
	if s.state == StateIdle {
		return
	}

	s.stopAutoZoom()
	s.stopHandler()
	s.state = StateActive

	if s.viewport.X <= 0 || s.viewport.Y <= 0 {
		s.minImageScale = 1
		s.imageScale = 1
		s.imagePosition = geometry.Vector2{}
		return
	}

	s.minImageScale = autozoom.MinScale(s.viewport, s.orientedSize)
	s.imageScale = s.minImageScale
	s.imagePosition = autozoom.RestrictToViewport(geometry.Vector2{}, s.imageScale, s.orientedSize, s.viewport)

	if frame && s.autoZoom {
		s.StartAutoZoom(true)
	}
}

// StartAutoZoom plans a zoom onto the selection. It does nothing while a
// gesture is in progress or when the current view is acceptable. instant
// skips the animation.
func (s *Session) StartAutoZoom(instant bool) {
	if s.state != StateActive && s.state != StateSettling {
		return
	}

	d, ok := s.planner.Plan(autozoom.Input{
		Selection: s.selection,
		Viewport:  s.viewport,
		ImageSize: s.orientedSize,
		Scale:     s.imageScale,
		Position:  s.imagePosition,
		MinScale:  s.minImageScale,
	})
	if !ok {
		return
	}

	curve := s.curve
	if instant {
		curve = nil
	}
	t := autozoom.NewTransition(s.imageScale, s.imagePosition, d, curve)
	if t.Instant() {
		s.stopAutoZoom()
		s.imageScale, s.imagePosition = t.Target()
		s.state = StateActive
		return
	}

	s.zoom = t
	s.state = StateSettling
}

func (s *Session) stopAutoZoom() {
	s.zoom = nil
	if s.state == StateSettling {
		s.state = StateActive
	}
}

// Settling reports whether a zoom transition is running
func (s *Session) Settling() bool { return s.zoom != nil }

// Tick advances time by dt seconds: it steps a running zoom transition and
// lets the active gesture handler scroll the view.
func (s *Session) Tick(dt float64) {
	if s.state == StateIdle {
		return
	}

	if s.zoom != nil {
		scale, position, done := s.zoom.Step(dt)
		s.imageScale, s.imagePosition = scale, position
		if done {
			s.zoom = nil
			s.state = StateActive
		}
	}

	if s.handler != nil && s.imageScale > s.minImageScale+handlerUpdateMargin {
		s.handler.Update(dt)
	}
}

// ScrollImage pans the image layer at the scroll speed for dt seconds so
// that more of the image beyond the given edges comes into view. The image
// never leaves the viewport uncovered.
func (s *Session) ScrollImage(edges constraint.Direction, dt float64) {
	if s.state == StateIdle {
		return
	}
	s.stopAutoZoom()

	step := s.scrollSpeed * dt
	position := s.imagePosition
	if edges.Has(constraint.Left) {
		position.X += step
	} else if edges.Has(constraint.Right) {
		position.X -= step
	}
	if edges.Has(constraint.Bottom) {
		position.Y += step
	} else if edges.Has(constraint.Top) {
		position.Y -= step
	}
	s.imagePosition = autozoom.RestrictToViewport(position, s.imageScale, s.orientedSize, s.viewport)
}

// ViewportToImage converts a point in viewport space to oriented image
// coordinates.
func (s *Session) ViewportToImage(p geometry.Vector2) geometry.Vector2 {
	if s.imageScale <= 0 {
		return p
	}
	return p.Sub(s.imagePosition).Div(s.imageScale)
}

// ImageToViewport converts a point in oriented image coordinates to
// viewport space.
func (s *Session) ImageToViewport(p geometry.Vector2) geometry.Vector2 {
	return p.Mul(s.imageScale).Add(s.imagePosition)
}
