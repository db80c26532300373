package autozoom

import "github.com/menta2k/image-cropper/pkg/geometry"

// Transition animates the image layer from one view to another. It holds
// no timers: the owner advances it with Step and cancels it by dropping it.
type Transition struct {
	elapsed float64
	length  float64
	curve   Curve

	startScale    float64
	startPosition geometry.Vector2
	targetScale   float64
	targetPos     geometry.Vector2
}

// NewTransition starts a transition from the current view towards d. A nil
// or zero-length curve, or an instant decision, produces a transition that
// completes on its first Step.
func NewTransition(scale float64, position geometry.Vector2, d Decision, curve Curve) *Transition {
	t := &Transition{
		curve:         curve,
		startScale:    scale,
		startPosition: position,
		targetScale:   d.Scale,
		targetPos:     d.Position,
	}
	if curve != nil && !d.Instant {
		t.length = curve.Length()
	}
	return t
}

// Instant reports whether the transition jumps straight to its target.
func (t *Transition) Instant() bool {
	return t.length <= 0
}

// Target returns the view the transition ends at
func (t *Transition) Target() (float64, geometry.Vector2) {
	return t.targetScale, t.targetPos
}

// Step advances the transition by dt seconds and returns the view to show.
// done is true once the target has been reached.
func (t *Transition) Step(dt float64) (scale float64, position geometry.Vector2, done bool) {
	t.elapsed += dt
	if t.elapsed >= t.length {
		return t.targetScale, t.targetPos, true
	}

	f := t.curve.Evaluate(t.elapsed)
	scale = geometry.LerpFloat(t.startScale, t.targetScale, f)
	position = geometry.Lerp(t.startPosition, t.targetPos, f)
	return scale, position, false
}
