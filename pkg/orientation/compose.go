package orientation

// RotateClockwise turns o by the given number of clockwise quarter turns.
// Negative counts rotate counter-clockwise.
func RotateClockwise(o Orientation, quarterTurns int) Orientation {
	quarterTurns %= 4
	if quarterTurns < 0 {
		quarterTurns += 4
	}
	if quarterTurns == 0 {
		return o
	}

	// Rotate90..Rotate270 turn counter-clockwise, so a clockwise turn walks
	// the index backwards inside its half of the group.
	v := int(o) - quarterTurns
	if o < FlipHorizontal {
		if v < 0 {
			v += 4
		}
	} else if v < int(FlipHorizontal) {
		v += 4
	}
	return Orientation(v)
}

var flipH = [...]Orientation{
	Normal:         FlipHorizontal,
	FlipHorizontal: Normal,
	Rotate90:       Transverse,
	Transverse:     Rotate90,
	Rotate180:      FlipVertical,
	FlipVertical:   Rotate180,
	Rotate270:      Transpose,
	Transpose:      Rotate270,
}

var flipV = [...]Orientation{
	Normal:         FlipVertical,
	FlipVertical:   Normal,
	Rotate90:       Transpose,
	Transpose:      Rotate90,
	Rotate180:      FlipHorizontal,
	FlipHorizontal: Rotate180,
	Rotate270:      Transverse,
	Transverse:     Rotate270,
}

// FlipHorizontally mirrors the displayed image of o left to right.
func FlipHorizontally(o Orientation) Orientation {
	if !o.Valid() {
		return FlipHorizontal
	}
	return flipH[o]
}

// FlipVertically mirrors the displayed image of o top to bottom.
func FlipVertically(o Orientation) Orientation {
	if !o.Valid() {
		return FlipVertical
	}
	return flipV[o]
}

// ExifFix returns the orientation that displays an image tagged with the
// EXIF orientation o upright. Rotate90/Rotate270 and Transpose/Transverse
// swap places; every other value is its own fix.
func ExifFix(o Orientation) Orientation {
	switch o {
	case Normal:
		return Normal
	case Rotate90:
		return Rotate270
	case Rotate180:
		return Rotate180
	case Rotate270:
		return Rotate90
	case FlipHorizontal:
		return FlipHorizontal
	case Transpose:
		return Transverse
	case FlipVertical:
		return FlipVertical
	}
	return Transpose
}

// FromExifTag converts a raw EXIF orientation tag (1..8) into the value
// ExifFix expects, so ExifFix(FromExifTag(tag)) is the orientation that shows
// the image upright. The two diagonal reflections are listed under each
// other's name in that table. Unknown tags are treated as Normal.
func FromExifTag(tag int) Orientation {
	switch tag {
	case 2:
		return FlipHorizontal
	case 3:
		return Rotate180
	case 4:
		return FlipVertical
	case 5:
		return Transverse
	case 6:
		return Rotate90
	case 7:
		return Transpose
	case 8:
		return Rotate270
	}
	return Normal
}
