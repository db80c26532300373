package session

import (
	"fmt"
	"image"
	"image/color"

	"github.com/menta2k/image-cropper/pkg/constraint"
	"github.com/menta2k/image-cropper/pkg/geometry"
	"github.com/menta2k/image-cropper/pkg/orientation"
)

// Rasterizer produces the cropped image. selection is in the oriented,
// y-up coordinates of the session; the output is width x height pixels.
type Rasterizer interface {
	Render(src image.Image, o orientation.Orientation, selection geometry.Rect, width, height int, background color.Color) (image.Image, error)
}

// Result is the outcome of a crop
type Result struct {
	Success     bool
	Original    image.Image
	Cropped     image.Image
	Rect        geometry.Rect
	Orientation orientation.Orientation
	Width       int
	Height      int
}

// CropSize returns the output size a crop would produce right now: the
// selection truncated to whole pixels, passed through the resize policy
// and capped at the maximum output size.
func (s *Session) CropSize() (int, int, error) {
	if s.state == StateIdle {
		return 0, 0, ErrNotReady
	}

	width := clampInt(int(s.selection.Size.X), 1, int(s.orientedSize.X))
	height := clampInt(int(s.selection.Size.Y), 1, int(s.orientedSize.Y))

	if s.resizePolicy != nil {
		width, height = s.resizePolicy(width, height)
	}
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	if s.maxOutputSize > 0 {
		w, h, scaled := constraint.FitOutputSize(width, height, s.maxOutputSize)
		if scaled {
			s.logger.Info("output size exceeds limit, scaling down",
				"requested_width", width, "requested_height", height,
				"width", w, "height", h, "limit", s.maxOutputSize)
		}
		width, height = w, h
	}
	return width, height, nil
}

// Crop renders the selection with r. The session stays open whatever the
// outcome; a failed render returns ErrRenderFailed and a Result with
// Success unset.
func (s *Session) Crop(r Rasterizer) (result Result, err error) {
	if s.state == StateIdle || s.image == nil {
		return Result{}, ErrNotReady
	}
	if r == nil {
		return Result{}, fmt.Errorf("%w: no rasterizer", ErrRenderFailed)
	}

	result = Result{
		Original:    s.image,
		Rect:        s.selection,
		Orientation: s.current,
	}

	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("crop panicked", "panic", p)
			result.Cropped = nil
			result.Success = false
			err = fmt.Errorf("%w: %v", ErrRenderFailed, p)
		}
	}()

	width, height, err := s.CropSize()
	if err != nil {
		return result, err
	}
	result.Width, result.Height = width, height

	cropped, rerr := r.Render(s.image, s.current, s.selection, width, height, s.background)
	if rerr != nil {
		s.logger.Error("failed to render crop", "error", rerr)
		return result, fmt.Errorf("%w: %w", ErrRenderFailed, rerr)
	}
	if cropped == nil {
		return result, fmt.Errorf("%w: rasterizer returned no image", ErrRenderFailed)
	}

	result.Cropped = cropped
	result.Success = true
	return result, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
