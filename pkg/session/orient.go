package session

import (
	"github.com/menta2k/image-cropper/pkg/constraint"
	"github.com/menta2k/image-cropper/pkg/orientation"
)

const aspectTolerance = 1e-4

// SetOrientation changes the orientation of the image and carries the
// selection across so it covers the same source pixels. The view is reset
// afterwards.
func (s *Session) SetOrientation(o orientation.Orientation) {
	if s.state == StateIdle || !o.Valid() {
		return
	}
	s.setOrientation(o)
	if s.pixelPerfect {
		s.MakePixelPerfect()
	}
	s.ResetView(true)
}

func (s *Session) setOrientation(o orientation.Orientation) {
	old := s.selection
	orientedSize, mapped := orientation.Change(old, s.current, o, s.originalSize)

	s.current = o
	s.orientedSize = orientedSize
	s.currMinSize, s.currMaxSize = constraint.CurrentSizeBounds(s.minSize, s.maxSize, orientedSize)

	solver := s.solver()
	size := mapped.Size
	// A quarter turn swaps the aspect ratio. Keep the old extent when the
	// swapped one breaks the limits, unless it is only off by a pixel.
	if !solver.AspectWithin(size, aspectTolerance) &&
		!(s.pixelPerfect && solver.PixelTolerant(size, aspectTolerance)) {
		size = old.Size
	}

	s.selection = solver.Resolve(mapped.Position, size, constraint.None, true)
}

// Rotate90Clockwise turns the image a quarter turn clockwise
func (s *Session) Rotate90Clockwise() {
	s.SetOrientation(orientation.RotateClockwise(s.current, 1))
}

// Rotate180Clockwise turns the image upside down
func (s *Session) Rotate180Clockwise() {
	s.SetOrientation(orientation.RotateClockwise(s.current, 2))
}

// Rotate270Clockwise turns the image a quarter turn counter-clockwise
func (s *Session) Rotate270Clockwise() {
	s.SetOrientation(orientation.RotateClockwise(s.current, 3))
}

// FlipHorizontal mirrors the displayed image left to right
func (s *Session) FlipHorizontal() {
	s.SetOrientation(orientation.FlipHorizontally(s.current))
}

// FlipVertical mirrors the displayed image top to bottom
func (s *Session) FlipVertical() {
	s.SetOrientation(orientation.FlipVertically(s.current))
}
