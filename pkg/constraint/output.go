package constraint

import "math"

// FitOutputSize shrinks width x height so neither side exceeds limit while
// keeping the aspect ratio. The longer side becomes exactly limit and the
// other is rounded to the nearest pixel, never below one. scaled reports
// whether any change was made.
func FitOutputSize(width, height, limit int) (w, h int, scaled bool) {
	if limit <= 0 || (width <= limit && height <= limit) {
		return width, height, false
	}

	preferredWidth := int(math.Round(float64(limit) * float64(width) / float64(height)))
	preferredHeight := int(math.Round(float64(limit) * float64(height) / float64(width)))

	if preferredWidth <= limit {
		preferredHeight = limit
	} else {
		preferredWidth = limit
	}

	if preferredWidth < 1 {
		preferredWidth = 1
	}
	if preferredHeight < 1 {
		preferredHeight = 1
	}
	return preferredWidth, preferredHeight, true
}
