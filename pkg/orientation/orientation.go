// Package orientation maps selection rectangles between the eight EXIF-style
// orientations of an image.
//
// A rectangle is always expressed against the axes of the image as currently
// displayed (the oriented image). ToOriginal removes the effect of an
// orientation and Apply adds one, so switching orientation is always
// "un-apply the current one, then apply the new one" and never an
// incremental transform.
package orientation

import (
	"fmt"
	"strings"

	"github.com/menta2k/image-cropper/pkg/geometry"
)

// Orientation is one element of the dihedral group of order eight. The
// numeric values follow the EXIF orientations with reordered indices.
type Orientation int

const (
	Normal Orientation = iota
	Rotate90
	Rotate180
	Rotate270
	FlipHorizontal
	Transpose
	FlipVertical
	Transverse
)

var names = [...]string{
	Normal:         "normal",
	Rotate90:       "rotate90",
	Rotate180:      "rotate180",
	Rotate270:      "rotate270",
	FlipHorizontal: "flip-horizontal",
	Transpose:      "transpose",
	FlipVertical:   "flip-vertical",
	Transverse:     "transverse",
}

// All lists every orientation in enum order
func All() []Orientation {
	return []Orientation{Normal, Rotate90, Rotate180, Rotate270, FlipHorizontal, Transpose, FlipVertical, Transverse}
}

// Valid reports whether o is one of the eight orientations
func (o Orientation) Valid() bool {
	return o >= Normal && o <= Transverse
}

func (o Orientation) String() string {
	if !o.Valid() {
		return fmt.Sprintf("orientation(%d)", int(o))
	}
	return names[o]
}

// Parse accepts the names produced by String, case-insensitively.
func Parse(s string) (Orientation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Normal, nil
	}
	for i, name := range names {
		if name == s {
			return Orientation(i), nil
		}
	}
	return Normal, fmt.Errorf("unknown orientation: %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (o Orientation) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid orientation %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *Orientation) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// SwapsAxes reports whether o exchanges the width and height of the image.
func (o Orientation) SwapsAxes() bool {
	switch o {
	case Rotate90, Rotate270, Transpose, Transverse:
		return true
	}
	return false
}

// Mirrored reports whether o contains a reflection.
func (o Orientation) Mirrored() bool {
	return o >= FlipHorizontal
}

// OrientedSize returns the displayed image size for o.
func OrientedSize(o Orientation, originalSize geometry.Vector2) geometry.Vector2 {
	if o.SwapsAxes() {
		return originalSize.Swap()
	}
	return originalSize
}
