package types

import "math"

// Box represents a normalized bounding box with coordinates in [0,1] range.
// The origin is the top-left corner of the source image.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// CenteredBox is the box used when nothing better is known
var CenteredBox = Box{X: 0.25, Y: 0.25, W: 0.5, H: 0.5}

// Empty reports whether the box covers no area
func (b Box) Empty() bool {
	return b.W <= 0 || b.H <= 0
}

// Center returns the normalized centre of the box
func (b Box) Center() (float64, float64) {
	return b.X + b.W/2, b.Y + b.H/2
}

// Clamp returns the box limited to the unit square. Boxes given in pixels
// by mistake (any coordinate above 1) are divided by the image size first
// when imgW and imgH are positive.
func (b Box) Clamp(imgW, imgH int) Box {
	if imgW > 0 && imgH > 0 && (b.X > 1 || b.Y > 1 || b.W > 1 || b.H > 1) {
		b = Box{
			X: b.X / float64(imgW),
			Y: b.Y / float64(imgH),
			W: b.W / float64(imgW),
			H: b.H / float64(imgH),
		}
	}
	x := clamp(b.X, 0, 1)
	y := clamp(b.Y, 0, 1)
	return Box{
		X: x,
		Y: y,
		W: clamp(b.W, 0, 1-x),
		H: clamp(b.H, 0, 1-y),
	}
}

// Pixels converts the box to pixel coordinates on a w x h image
func (b Box) Pixels(w, h int) (x, y, bw, bh int) {
	fw, fh := float64(w), float64(h)
	return int(math.Round(b.X * fw)), int(math.Round(b.Y * fh)),
		int(math.Round(b.W * fw)), int(math.Round(b.H * fh))
}

// Suggestion is a crop region proposed by a vision model
type Suggestion struct {
	Label       string   `json:"label"`
	Confidence  float64  `json:"confidence"`
	Box         Box      `json:"box"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	// Fallback is set when the model gave nothing usable and Box is the
	// centred default.
	Fallback bool `json:"-"`
}

// FallbackSuggestion returns a centred suggestion explaining why the model
// answer was discarded.
func FallbackSuggestion(reason string) *Suggestion {
	return &Suggestion{
		Label:       "none",
		Confidence:  0,
		Box:         CenteredBox,
		Description: reason,
		Tags:        []string{"fallback"},
		Fallback:    true,
	}
}

// SaveOptions defines how cropped images are written
type SaveOptions struct {
	Quality  int
	Lossless bool
	// Extension overrides the format implied by the output path
	Extension string
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
