package session

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/menta2k/image-cropper/pkg/geometry"
	"github.com/menta2k/image-cropper/pkg/orientation"
	"github.com/menta2k/image-cropper/pkg/types"
)

// Visibility controls when the selection guidelines are shown.
type Visibility int

const (
	Hidden Visibility = iota
	OnDrag
	AlwaysVisible
)

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case OnDrag:
		return "on-drag"
	case AlwaysVisible:
		return "always"
	}
	return "unknown"
}

// ParseVisibility parses the names returned by Visibility.String
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hidden", "never":
		return Hidden, nil
	case "on-drag", "ondrag", "drag":
		return OnDrag, nil
	case "always", "":
		return AlwaysVisible, nil
	}
	return Hidden, fmt.Errorf("unknown guideline visibility %q", s)
}

// Button is a set of orientation buttons the UI may expose.
type Button int

const (
	ButtonFlipHorizontal Button = 1 << iota
	ButtonFlipVertical
	ButtonRotate90

	ButtonNone Button = 0
	AllButtons        = ButtonFlipHorizontal | ButtonFlipVertical | ButtonRotate90
)

var buttonNames = map[string]Button{
	"flip-horizontal": ButtonFlipHorizontal,
	"flip-vertical":   ButtonFlipVertical,
	"rotate":          ButtonRotate90,
}

// ParseButtons combines button names ("flip-horizontal", "flip-vertical",
// "rotate") into a Button set. "all" selects every button and "none" none.
func ParseButtons(names []string) (Button, error) {
	b := ButtonNone
	for _, name := range names {
		switch n := strings.ToLower(strings.TrimSpace(name)); n {
		case "all":
			b |= AllButtons
		case "none", "":
		default:
			v, ok := buttonNames[n]
			if !ok {
				return ButtonNone, fmt.Errorf("unknown button %q", name)
			}
			b |= v
		}
	}
	return b, nil
}

// ResizePolicy may change the pixel size of the cropped image. It is called
// once per crop with the size derived from the selection.
type ResizePolicy func(width, height int) (int, int)

// Settings configure a session when an image is shown. Zero sizes and
// aspect ratios mean "unconstrained".
type Settings struct {
	AutoZoom     bool
	PixelPerfect bool
	Oval         bool

	// Background is composited under the crop. A translucent colour
	// produces an alpha-capable output image.
	Background color.Color

	VisibleButtons     Button
	Guidelines         Visibility
	InitialOrientation orientation.Orientation

	MinSize geometry.Vector2
	MaxSize geometry.Vector2

	MinAspectRatio float64
	MaxAspectRatio float64

	// Initial selection padding as fractions of the oriented image.
	PaddingLeft   float64
	PaddingTop    float64
	PaddingRight  float64
	PaddingBottom float64

	// InitialSelection, when set, replaces the padded rectangle. It is a
	// normalized top-left box on the source image, as returned by a
	// selection suggester.
	InitialSelection *types.Box

	ResizePolicy ResizePolicy
}

// DefaultSettings returns the settings used when Show gets nil.
func DefaultSettings() Settings {
	return Settings{
		AutoZoom:       true,
		Background:     color.Black,
		VisibleButtons: AllButtons,
		Guidelines:     AlwaysVisible,
		PaddingLeft:    0.1,
		PaddingTop:     0.1,
		PaddingRight:   0.1,
		PaddingBottom:  0.1,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
