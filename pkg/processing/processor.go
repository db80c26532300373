// Package processing loads, orients, crops and saves images. Processor
// is the rasterizer a crop session renders its selection with.
package processing

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/menta2k/image-cropper/pkg/geometry"
	"github.com/menta2k/image-cropper/pkg/orientation"
)

// Processor handles image processing operations
type Processor struct {
	logger *slog.Logger
	filter imaging.ResampleFilter
}

// NewProcessor creates a new image processor. A nil logger uses the
// default one.
func NewProcessor(logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger, filter: imaging.Lanczos}
}

// Orient returns src transformed by o. The result always has its origin at
// (0, 0).
func Orient(src image.Image, o orientation.Orientation) *image.NRGBA {
	switch o {
	case orientation.Rotate90:
		return imaging.Rotate90(src)
	case orientation.Rotate180:
		return imaging.Rotate180(src)
	case orientation.Rotate270:
		return imaging.Rotate270(src)
	case orientation.FlipHorizontal:
		return imaging.FlipH(src)
	case orientation.Transpose:
		return imaging.Transpose(src)
	case orientation.FlipVertical:
		return imaging.FlipV(src)
	case orientation.Transverse:
		return imaging.Transverse(src)
	}
	return imaging.Clone(src)
}

// Render crops selection out of src shown with orientation o and scales it
// to width x height. selection uses the y-up coordinates of the oriented
// image. The crop is composited over background: an opaque background
// yields an *image.RGBA, a translucent one an *image.NRGBA.
func (p *Processor) Render(src image.Image, o orientation.Orientation, selection geometry.Rect, width, height int, background color.Color) (image.Image, error) {
	if src == nil {
		return nil, fmt.Errorf("render: nil source image")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: invalid output size %dx%d", width, height)
	}
	if background == nil {
		background = color.Black
	}

	oriented := Orient(src, o)
	bounds := oriented.Bounds()
	rect := selection.PixelRect(float64(bounds.Dy())).Intersect(bounds)
	if rect.Empty() {
		return nil, fmt.Errorf("render: selection %v outside the %dx%d image", selection, bounds.Dx(), bounds.Dy())
	}

	cropped := imaging.Crop(oriented, rect)
	if rect.Dx() != width || rect.Dy() != height {
		p.logger.Debug("resampling crop",
			"from_width", rect.Dx(), "from_height", rect.Dy(),
			"width", width, "height", height)
		cropped = imaging.Resize(cropped, width, height, p.filter)
	}

	out := imaging.Overlay(imaging.New(width, height, background), cropped, image.Pt(0, 0), 1.0)
	if !opaque(background) {
		return out, nil
	}

	rgba := image.NewRGBA(out.Bounds())
	draw.Draw(rgba, rgba.Bounds(), out, image.Point{}, draw.Src)
	for i := 3; i < len(rgba.Pix); i += 4 {
		rgba.Pix[i] = 0xff
	}
	return rgba, nil
}

func opaque(c color.Color) bool {
	_, _, _, a := c.RGBA()
	return a == 0xffff
}
