// Package autozoom decides how the image layer should be panned and scaled
// so the selection fills a comfortable share of the viewport, and animates
// the change one tick at a time.
package autozoom

import (
	"math"

	"github.com/menta2k/image-cropper/pkg/geometry"
)

const (
	// outsideEpsilon is how far the scaled selection may poke out of the
	// viewport before an in-place pan is triggered.
	outsideEpsilon = 1e-4
	// instantScaleDelta is the scale change under which a zoom is applied
	// without animating.
	instantScaleDelta = 0.001
	noOpEpsilon       = 1e-6
)

// Thresholds tune when the planner zooms. Fill rates are the share of the
// viewport covered by the selection on its tighter axis.
type Thresholds struct {
	ZoomInThreshold  float64 `json:"zoom_in_threshold"`
	ZoomOutThreshold float64 `json:"zoom_out_threshold"`
	ZoomInFill       float64 `json:"zoom_in_fill"`
	ZoomOutFill      float64 `json:"zoom_out_fill"`
}

// DefaultThresholds zoom in below 50% fill to 64%, and out above 65% to 51%.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ZoomInThreshold:  0.5,
		ZoomOutThreshold: 0.65,
		ZoomInFill:       0.64,
		ZoomOutFill:      0.51,
	}
}

// Input is a snapshot of the view the planner works from.
type Input struct {
	// Selection in image-local coordinates
	Selection geometry.Rect
	// Viewport size in display units
	Viewport geometry.Vector2
	// ImageSize is the oriented image size in image-local units
	ImageSize geometry.Vector2
	// Scale and Position of the image layer inside the viewport
	Scale    float64
	Position geometry.Vector2
	// MinScale is the scale at which the whole image fits the viewport
	MinScale float64
}

// Decision is the view the image layer should move to.
type Decision struct {
	Scale    float64
	Position geometry.Vector2
	// Instant is set when the scale barely changes and animating would
	// only add latency.
	Instant bool
}

// Planner turns view snapshots into zoom decisions.
type Planner struct {
	Thresholds Thresholds
}

// NewPlanner creates a Planner with the given thresholds
func NewPlanner(t Thresholds) *Planner {
	return &Planner{Thresholds: t}
}

// MinScale returns the scale at which imageSize fits inside viewport on its
// tighter axis.
func MinScale(viewport, imageSize geometry.Vector2) float64 {
	return math.Min(viewport.X/imageSize.X, viewport.Y/imageSize.Y)
}

// Plan decides whether the view should change. It returns false when the
// current view is already acceptable, so repeated calls with the same input
// settle on no-op.
func (p *Planner) Plan(in Input) (Decision, bool) {
	if in.Viewport.X <= 0 || in.Viewport.Y <= 0 || in.Selection.Empty() {
		return Decision{}, false
	}

	sel := in.Selection
	scaled := sel.Size.Mul(in.Scale)
	fillRate := math.Max(scaled.X/in.Viewport.X, scaled.Y/in.Viewport.Y)

	zoom := -1.0
	switch {
	case fillRate <= p.Thresholds.ZoomInThreshold:
		zoom = fillScale(in.Viewport, sel.Size, p.Thresholds.ZoomInFill)
	case fillRate >= p.Thresholds.ZoomOutThreshold:
		zoom = fillScale(in.Viewport, sel.Size, p.Thresholds.ZoomOutFill)
	default:
		bottomLeft := in.Position.Add(sel.Position.Mul(in.Scale))
		topRight := bottomLeft.Add(scaled)
		if bottomLeft.X < -outsideEpsilon || bottomLeft.Y < -outsideEpsilon ||
			topRight.X > in.Viewport.X+outsideEpsilon || topRight.Y > in.Viewport.Y+outsideEpsilon {
			zoom = in.Scale
		}
	}

	if zoom < 0 {
		return Decision{}, false
	}
	if zoom < in.MinScale {
		zoom = in.MinScale
	}

	position := in.Viewport.Mul(0.5).Sub(sel.Center().Mul(zoom))
	position = RestrictToViewport(position, zoom, in.ImageSize, in.Viewport)

	if math.Abs(zoom-in.Scale) < noOpEpsilon &&
		math.Abs(position.X-in.Position.X) < noOpEpsilon &&
		math.Abs(position.Y-in.Position.Y) < noOpEpsilon {
		return Decision{}, false
	}

	return Decision{
		Scale:    zoom,
		Position: position,
		Instant:  math.Abs(zoom-in.Scale) < instantScaleDelta,
	}, true
}

func fillScale(viewport, selection geometry.Vector2, fill float64) float64 {
	return math.Min(viewport.X*fill/selection.X, viewport.Y*fill/selection.Y)
}

// RestrictToViewport keeps an image of imageSize shown at scale from
// leaving part of the viewport uncovered. An axis on which the scaled image
// is smaller than the viewport is centred instead.
func RestrictToViewport(position geometry.Vector2, scale float64, imageSize, viewport geometry.Vector2) geometry.Vector2 {
	scaled := imageSize.Mul(scale)
	position.X = restrictAxis(position.X, scaled.X, viewport.X)
	position.Y = restrictAxis(position.Y, scaled.Y, viewport.Y)
	return position
}

func restrictAxis(pos, scaled, viewport float64) float64 {
	if scaled < viewport {
		return (viewport - scaled) * 0.5
	}
	return math.Min(math.Max(pos, viewport-scaled), 0)
}
