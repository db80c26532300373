package orientation

import "github.com/menta2k/image-cropper/pkg/geometry"

// ToOriginal expresses rect, given against the axes of an image shown with
// orientation current, against the axes of the unrotated source image.
// orientedSize is the displayed size of the image under current.
func ToOriginal(rect geometry.Rect, current Orientation, orientedSize geometry.Vector2) geometry.Rect {
	p, s := rect.Position, rect.Size
	ext := orientedSize

	switch current {
	case Rotate90:
		p = geometry.Vec(p.Y, ext.X-p.X-s.X)
		s = s.Swap()
	case Rotate180:
		p = geometry.Vec(ext.X-p.X-s.X, ext.Y-p.Y-s.Y)
	case Rotate270:
		p = geometry.Vec(ext.Y-p.Y-s.Y, p.X)
		s = s.Swap()
	case FlipHorizontal:
		p = geometry.Vec(ext.X-p.X-s.X, p.Y)
	case Transpose:
		p = geometry.Vec(ext.Y-p.Y-s.Y, ext.X-p.X-s.X)
		s = s.Swap()
	case FlipVertical:
		p = geometry.Vec(p.X, ext.Y-p.Y-s.Y)
	case Transverse:
		p = p.Swap()
		s = s.Swap()
	}

	return geometry.Rect{Position: p, Size: s}
}

// Apply re-expresses rect, given against the source image axes, against the
// axes of the image shown with orientation target. It returns the new
// oriented image size along with the mapped rectangle.
func Apply(rect geometry.Rect, target Orientation, originalSize geometry.Vector2) (geometry.Vector2, geometry.Rect) {
	p, s := rect.Position, rect.Size
	ext := originalSize

	switch target {
	case Rotate90:
		p = geometry.Vec(ext.Y-p.Y-s.Y, p.X)
		s = s.Swap()
	case Rotate180:
		p = geometry.Vec(ext.X-p.X-s.X, ext.Y-p.Y-s.Y)
	case Rotate270:
		p = geometry.Vec(p.Y, ext.X-p.X-s.X)
		s = s.Swap()
	case FlipHorizontal:
		p = geometry.Vec(ext.X-p.X-s.X, p.Y)
	case Transpose:
		p = geometry.Vec(ext.Y-p.Y-s.Y, ext.X-p.X-s.X)
		s = s.Swap()
	case FlipVertical:
		p = geometry.Vec(p.X, ext.Y-p.Y-s.Y)
	case Transverse:
		p = p.Swap()
		s = s.Swap()
	}

	return OrientedSize(target, originalSize), geometry.Rect{Position: p, Size: s}
}

// Change moves rect from orientation from to orientation to.
func Change(rect geometry.Rect, from, to Orientation, originalSize geometry.Vector2) (geometry.Vector2, geometry.Rect) {
	original := ToOriginal(rect, from, OrientedSize(from, originalSize))
	return Apply(original, to, originalSize)
}
