package processing

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/menta2k/image-cropper/pkg/geometry"
	"github.com/menta2k/image-cropper/pkg/orientation"
	"github.com/menta2k/image-cropper/pkg/types"
)

// OverlayOptions controls what CreateDebugOverlay draws
type OverlayOptions struct {
	// Suggestion is a normalized top-left box on the source image, drawn
	// when set
	Suggestion *types.Box
	Guidelines bool
	Oval       bool
}

var (
	shade     = color.NRGBA{0, 0, 0, 128}
	gold      = color.NRGBA{255, 204, 0, 255} // selection
	green     = color.NRGBA{0, 255, 0, 255}   // suggestion
	guideline = color.NRGBA{255, 255, 255, 160}
)

// CreateDebugOverlay draws a selection the way a crop UI would show it:
// the image is oriented, everything outside the selection is dimmed, the
// selection is outlined and optionally split into thirds.
func (p *Processor) CreateDebugOverlay(src image.Image, o orientation.Orientation, selection geometry.Rect, opts OverlayOptions) *image.NRGBA {
	img := Orient(src, o)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	sel := selection.PixelRect(float64(h)).Intersect(img.Bounds())

	dimOutside(img, sel, opts.Oval)

	stroke := int(math.Max(2, 0.004*float64(min(w, h)))) // ~0.4% of min side
	drawRect(img, sel, gold, stroke)

	if opts.Guidelines && !sel.Empty() {
		for i := 1; i < 3; i++ {
			x := sel.Min.X + sel.Dx()*i/3
			y := sel.Min.Y + sel.Dy()*i/3
			drawVLine(img, x, sel.Min.Y, sel.Max.Y, guideline)
			drawHLine(img, y, sel.Min.X, sel.Max.X, guideline)
		}
	}

	if opts.Suggestion != nil {
		drawRect(img, suggestionRect(*opts.Suggestion, o, src.Bounds()), green, stroke)
	}
	return img
}

// suggestionRect maps a normalized box on the source image into pixel
// coordinates of the oriented image.
func suggestionRect(b types.Box, o orientation.Orientation, bounds image.Rectangle) image.Rectangle {
	original := geometry.Vec(float64(bounds.Dx()), float64(bounds.Dy()))
	b = b.Clamp(0, 0)
	r := geometry.R(b.X*original.X, (1-b.Y-b.H)*original.Y, b.W*original.X, b.H*original.Y)
	size, mapped := orientation.Apply(r, o, original)
	return mapped.PixelRect(size.Y)
}

func dimOutside(img *image.NRGBA, sel image.Rectangle, oval bool) {
	bounds := img.Bounds()
	if !oval {
		overlay := &image.Uniform{C: shade}
		for _, r := range []image.Rectangle{
			image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, sel.Min.Y),
			image.Rect(bounds.Min.X, sel.Max.Y, bounds.Max.X, bounds.Max.Y),
			image.Rect(bounds.Min.X, sel.Min.Y, sel.Min.X, sel.Max.Y),
			image.Rect(sel.Max.X, sel.Min.Y, bounds.Max.X, sel.Max.Y),
		} {
			draw.Draw(img, r.Intersect(bounds), overlay, image.Point{}, draw.Over)
		}
		return
	}

	mask := &ellipseMask{rect: sel, bounds: bounds}
	draw.DrawMask(img, bounds, &image.Uniform{C: shade}, image.Point{}, mask, bounds.Min, draw.Over)
}

// ellipseMask is opaque everywhere except inside the ellipse inscribed in
// rect.
type ellipseMask struct {
	rect, bounds image.Rectangle
}

func (m *ellipseMask) ColorModel() color.Model { return color.AlphaModel }
func (m *ellipseMask) Bounds() image.Rectangle { return m.bounds }

func (m *ellipseMask) At(x, y int) color.Color {
	if m.rect.Empty() {
		return color.Alpha{A: 0xff}
	}
	rx := float64(m.rect.Dx()) / 2
	ry := float64(m.rect.Dy()) / 2
	dx := (float64(x) + 0.5 - float64(m.rect.Min.X) - rx) / rx
	dy := (float64(y) + 0.5 - float64(m.rect.Min.Y) - ry) / ry
	if dx*dx+dy*dy <= 1 {
		return color.Alpha{}
	}
	return color.Alpha{A: 0xff}
}

func drawRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA, stroke int) {
	if r.Empty() {
		return
	}
	for s := 0; s < stroke; s++ {
		drawHLine(img, r.Min.Y+s, r.Min.X, r.Max.X, c)
		drawHLine(img, r.Max.Y-1-s, r.Min.X, r.Max.X, c)
		drawVLine(img, r.Min.X+s, r.Min.Y, r.Max.Y, c)
		drawVLine(img, r.Max.X-1-s, r.Min.Y, r.Max.Y, c)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	x0, x1 = max(x0, 0), min(x1, img.Bounds().Dx())
	for x := x0; x < x1; x++ {
		img.SetNRGBA(x, y, c)
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	y0, y1 = max(y0, 0), min(y1, img.Bounds().Dy())
	for y := y0; y < y1; y++ {
		img.SetNRGBA(x, y, c)
	}
}
