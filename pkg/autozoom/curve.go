package autozoom

import "sort"

// Curve maps elapsed time to an interpolation factor.
type Curve interface {
	// Length is the time of the last key; zero means "no animation".
	Length() float64
	Evaluate(t float64) float64
}

// Keyframe is one point of a Keyframes curve.
type Keyframe struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

// Keyframes is a curve through its keys with flat tangents at every key, so
// each segment eases in and out. Keys must be sorted by time.
type Keyframes []Keyframe

// EaseInOut returns a curve rising from 0 to 1 over duration seconds.
func EaseInOut(duration float64) Keyframes {
	if duration <= 0 {
		return nil
	}
	return Keyframes{{Time: 0, Value: 0}, {Time: duration, Value: 1}}
}

// Length implements Curve
func (k Keyframes) Length() float64 {
	if len(k) == 0 {
		return 0
	}
	return k[len(k)-1].Time
}

// Evaluate implements Curve. Times outside the keys hold the end values.
func (k Keyframes) Evaluate(t float64) float64 {
	switch {
	case len(k) == 0:
		return 1
	case t <= k[0].Time:
		return k[0].Value
	case t >= k[len(k)-1].Time:
		return k[len(k)-1].Value
	}

	i := sort.Search(len(k), func(i int) bool { return k[i].Time > t })
	a, b := k[i-1], k[i]
	span := b.Time - a.Time
	if span <= 0 {
		return b.Value
	}
	u := (t - a.Time) / span
	return a.Value + (b.Value-a.Value)*u*u*(3-2*u)
}
