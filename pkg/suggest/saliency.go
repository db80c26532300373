package suggest

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/menta2k/image-cropper/pkg/types"
)

// SaliencyConfig tunes the offline suggester
type SaliencyConfig struct {
	// EdgeWeight and BrightnessWeight mix the two saliency cues
	EdgeWeight       float64
	BrightnessWeight float64
	// Coverage is the share of the largest fitting window, per axis, that
	// the suggested box spans
	Coverage float64
	// MaxDim is the long side the image is reduced to before analysis
	MaxDim int
}

// DefaultSaliencyConfig returns the configuration used by NewSaliency
func DefaultSaliencyConfig() SaliencyConfig {
	return SaliencyConfig{
		EdgeWeight:       0.6,
		BrightnessWeight: 0.4,
		Coverage:         0.8,
		MaxDim:           256,
	}
}

// Saliency suggests the selection without a model, by sliding a window
// over an edge and contrast map of the image and keeping the window that
// holds the most of it.
type Saliency struct {
	config SaliencyConfig
}

// NewSaliency creates an offline suggester with default configuration
func NewSaliency() *Saliency {
	return &Saliency{config: DefaultSaliencyConfig()}
}

// NewSaliencyWithConfig creates an offline suggester with custom configuration
func NewSaliencyWithConfig(config SaliencyConfig) *Saliency {
	return &Saliency{config: config}
}

// Suggest returns a normalized top-left box on img. The box takes the
// image's aspect ratio clamped to the request's limits. Only the aspect
// limits of req are used.
func (s *Saliency) Suggest(img image.Image, req Request) *types.Suggestion {
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return types.FallbackSuggestion("empty image")
	}

	var small *image.NRGBA
	if s.config.MaxDim > 0 && max(bounds.Dx(), bounds.Dy()) > s.config.MaxDim {
		small = imaging.Fit(img, s.config.MaxDim, s.config.MaxDim, imaging.Box)
	} else {
		small = imaging.Clone(img)
	}
	sat := s.summedAreaTable(small)
	w, h := small.Bounds().Dx(), small.Bounds().Dy()

	total := sat.sum(0, 0, w, h)
	if total <= 0 {
		return types.FallbackSuggestion("flat image")
	}

	aspect := float64(bounds.Dx()) / float64(bounds.Dy())
	if req.MinAspect > 0 && req.MaxAspect > 0 {
		aspect = clamp(aspect, req.MinAspect, req.MaxAspect)
	}

	// largest window of that aspect, in pixels of the reduced image
	sx, sy := float64(bounds.Dx())/float64(w), float64(bounds.Dy())/float64(h)
	winW, winH := float64(w), float64(w)*sx/aspect/sy
	if winH > float64(h) {
		winW, winH = float64(h)*sy*aspect/sx, float64(h)
	}
	coverage := clamp(s.config.Coverage, 0.05, 1)
	ww := max(1, int(math.Round(winW*coverage)))
	wh := max(1, int(math.Round(winH*coverage)))

	step := max(1, min(ww, wh)/16)
	bestX, bestY, best := (w-ww)/2, (h-wh)/2, -1.0
	for y := 0; y <= h-wh; y += step {
		for x := 0; x <= w-ww; x += step {
			if v := sat.sum(x, y, ww, wh); v > best {
				best, bestX, bestY = v, x, y
			}
		}
	}

	return &types.Suggestion{
		Label:      "salient",
		Confidence: clamp(best/total, 0, 1),
		Box: types.Box{
			X: float64(bestX) / float64(w),
			Y: float64(bestY) / float64(h),
			W: float64(ww) / float64(w),
			H: float64(wh) / float64(h),
		},
		Description: "region with the strongest edges and contrast",
		Tags:        []string{"saliency"},
	}
}

// table is a summed-area table with one row and column of zero padding
type table struct {
	stride int
	v      []float64
}

func (t table) sum(x, y, w, h int) float64 {
	a := t.v[y*t.stride+x]
	b := t.v[y*t.stride+x+w]
	c := t.v[(y+h)*t.stride+x]
	d := t.v[(y+h)*t.stride+x+w]
	return d - b - c + a
}

// summedAreaTable scores each pixel by its colour distance to its
// neighbours plus its brightness and accumulates the scores.
func (s *Saliency) summedAreaTable(img *image.NRGBA) table {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	t := table{stride: w + 1, v: make([]float64, (w+1)*(h+1))}

	at := func(x, y int) (float64, float64, float64) {
		i := y*img.Stride + x*4
		a := float64(img.Pix[i+3]) / 255
		return float64(img.Pix[i]) * a, float64(img.Pix[i+1]) * a, float64(img.Pix[i+2]) * a
	}

	for y := 0; y < h; y++ {
		var row float64
		for x := 0; x < w; x++ {
			r1, g1, b1 := at(x, y)

			var edge float64
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if (dx == 0 && dy == 0) || nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					r2, g2, b2 := at(nx, ny)
					edge += math.Sqrt((r1-r2)*(r1-r2) + (g1-g2)*(g1-g2) + (b1-b2)*(b1-b2))
					n++
				}
			}
			if n > 0 {
				edge /= float64(n) * 255 * math.Sqrt(3)
			}
			brightness := (r1 + g1 + b1) / (3 * 255)

			row += s.config.EdgeWeight*edge + s.config.BrightnessWeight*brightness
			t.v[(y+1)*t.stride+x+1] = t.v[y*t.stride+x+1] + row
		}
	}
	return t
}
