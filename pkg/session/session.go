// Package session holds the state of one interactive crop: the selection,
// the orientation of the image, the size and aspect limits, and the pan and
// zoom of the image inside the viewport.
//
// A Session is driven from a single goroutine, typically a UI frame loop.
// It does no locking; calls must not overlap.
package session

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/menta2k/image-cropper/pkg/autozoom"
	"github.com/menta2k/image-cropper/pkg/constraint"
	"github.com/menta2k/image-cropper/pkg/geometry"
	"github.com/menta2k/image-cropper/pkg/orientation"
)

// State is the lifecycle phase of a session.
type State int

const (
	StateIdle State = iota
	StateActive
	StateEditing
	StateSettling
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateEditing:
		return "editing"
	case StateSettling:
		return "settling"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Handler owns a selection gesture between BeginEdit and EndEdit.
type Handler interface {
	// Stop is called when the session takes the gesture away, for
	// instance because the view was reset.
	Stop()
	// Update runs on every Tick while the handler holds the gesture and
	// the image is zoomed in. Handlers use it to scroll the view.
	Update(dt float64)
}

// Session is a single crop in progress. Create it with New and open it
// with Show.
type Session struct {
	logger *slog.Logger

	planner       *autozoom.Planner
	curve         autozoom.Curve
	snapThreshold float64
	scrollSpeed   float64
	maxOutputSize int

	state   State
	image   image.Image
	handler Handler
	zoom    *autozoom.Transition

	autoZoom     bool
	pixelPerfect bool
	oval         bool
	guidelines   Visibility
	buttons      Button
	background   color.Color
	resizePolicy ResizePolicy

	originalSize geometry.Vector2
	orientedSize geometry.Vector2
	current      orientation.Orientation
	selection    geometry.Rect

	minSize, maxSize         geometry.Vector2
	currMinSize, currMaxSize geometry.Vector2
	minAspect, maxAspect     float64

	viewport      geometry.Vector2
	imagePosition geometry.Vector2
	imageScale    float64
	minImageScale float64
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the logger used for notable events such as output
// downscaling.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithThresholds overrides the auto-zoom thresholds
func WithThresholds(t autozoom.Thresholds) Option {
	return func(s *Session) { s.planner = autozoom.NewPlanner(t) }
}

// WithCurve sets the easing curve of auto-zoom transitions. A nil curve
// makes every zoom instant.
func WithCurve(c autozoom.Curve) Option {
	return func(s *Session) { s.curve = c }
}

// WithSnapThreshold sets how close to an image edge a dragged selection
// edge snaps onto it, in image-local units.
func WithSnapThreshold(v float64) Option {
	return func(s *Session) { s.snapThreshold = v }
}

// WithScrollSpeed sets the edge auto-scroll speed in viewport units per
// second.
func WithScrollSpeed(v float64) Option {
	return func(s *Session) { s.scrollSpeed = v }
}

// WithMaxOutputSize caps the width and height of cropped images. Larger
// requests are scaled down.
func WithMaxOutputSize(px int) Option {
	return func(s *Session) { s.maxOutputSize = px }
}

// New creates an idle Session
func New(opts ...Option) *Session {
	s := &Session{
		logger:        slog.Default(),
		planner:       autozoom.NewPlanner(autozoom.DefaultThresholds()),
		curve:         autozoom.EaseInOut(0.3),
		snapThreshold: 5,
		scrollSpeed:   512,
		maxOutputSize: 8192,
		background:    color.Black,
		imageScale:    1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Show opens the session on img. A nil or empty image is rejected and
// leaves the session untouched. A nil settings uses DefaultSettings.
func (s *Session) Show(img image.Image, settings *Settings) error {
	if img == nil {
		return fmt.Errorf("%w: image is nil", ErrInvalidImage)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidImage, bounds.Dx(), bounds.Dy())
	}

	if settings == nil {
		def := DefaultSettings()
		settings = &def
	}

	s.stopAutoZoom()

	s.image = img
	s.originalSize = geometry.Vec(float64(bounds.Dx()), float64(bounds.Dy()))
	s.orientedSize = s.originalSize
	s.current = orientation.Normal
	s.selection = geometry.Rect{}
	s.state = StateActive

	s.oval = settings.Oval
	s.guidelines = settings.Guidelines
	s.buttons = settings.VisibleButtons
	s.resizePolicy = settings.ResizePolicy
	s.background = settings.Background
	if s.background == nil {
		s.background = color.Black
	}

	s.minAspect, s.maxAspect = constraint.NormalizeAspect(settings.MinAspectRatio, settings.MaxAspectRatio)
	s.minSize, s.maxSize = constraint.NormalizeSizeBounds(settings.MinSize, settings.MaxSize, s.originalSize)

	initial := settings.InitialOrientation
	if !initial.Valid() {
		s.logger.Warn("ignoring invalid initial orientation", "orientation", int(initial))
		initial = orientation.Normal
	}

	s.autoZoom = false
	s.pixelPerfect = false
	s.setOrientation(initial)

	s.autoZoom = settings.AutoZoom
	s.pixelPerfect = settings.PixelPerfect

	s.selection = s.initialSelection(settings)
	if s.pixelPerfect {
		s.MakePixelPerfect()
	}

	s.ResetView(false)
	return nil
}

func (s *Session) initialSelection(settings *Settings) geometry.Rect {
	solver := s.solver()

	if box := settings.InitialSelection; box != nil && box.W > 0 && box.H > 0 {
		// normalized top-left box on the source image to a y-up rect
		src := geometry.R(
			box.X*s.originalSize.X,
			(1-box.Y-box.H)*s.originalSize.Y,
			box.W*s.originalSize.X,
			box.H*s.originalSize.Y,
		)
		_, r := orientation.Apply(src, s.current, s.originalSize)
		return solver.Resolve(r.Position, r.Size, constraint.None, true)
	}

	paddingMax := geometry.Vec(1-clamp01(settings.PaddingRight), 1-clamp01(settings.PaddingTop))
	paddingMin := geometry.Vec(
		clampFloat(settings.PaddingLeft, 0, paddingMax.X),
		clampFloat(settings.PaddingBottom, 0, paddingMax.Y),
	)

	size := s.orientedSize.Scale(paddingMax.Sub(paddingMin))
	position := s.orientedSize.Scale(paddingMin)
	return solver.Resolve(position, size, constraint.None, true)
}

// Hide closes the session and drops the image. A gesture in progress is
// stopped.
func (s *Session) Hide() {
	s.stopAutoZoom()
	s.stopHandler()
	s.state = StateIdle
	s.image = nil
	s.resizePolicy = nil
}

func (s *Session) solver() constraint.Solver {
	return constraint.Solver{
		ImageSize: s.orientedSize,
		MinSize:   s.currMinSize,
		MaxSize:   s.currMaxSize,
		MinAspect: s.minAspect,
		MaxAspect: s.maxAspect,
	}
}

// IsOpen reports whether an image is shown
func (s *Session) IsOpen() bool { return s.state != StateIdle }

// State returns the lifecycle phase
func (s *Session) State() State { return s.state }

// Image returns the source image, or nil when idle
func (s *Session) Image() image.Image { return s.image }

// Selection returns the selection in oriented image coordinates
func (s *Session) Selection() geometry.Rect { return s.selection }

// Orientation returns the current orientation
func (s *Session) Orientation() orientation.Orientation { return s.current }

// OriginalImageSize returns the source image size
func (s *Session) OriginalImageSize() geometry.Vector2 { return s.originalSize }

// OrientedImageSize returns the image size as displayed
func (s *Session) OrientedImageSize() geometry.Vector2 { return s.orientedSize }

// SizeBounds returns the size limits in effect for the current orientation
func (s *Session) SizeBounds() (min, max geometry.Vector2) { return s.currMinSize, s.currMaxSize }

// AspectBounds returns the normalized aspect-ratio limits
func (s *Session) AspectBounds() (min, max float64) { return s.minAspect, s.maxAspect }

// ViewportSize returns the last viewport size
func (s *Session) ViewportSize() geometry.Vector2 { return s.viewport }

// ImagePosition returns the pan offset of the image layer in the viewport
func (s *Session) ImagePosition() geometry.Vector2 { return s.imagePosition }

// ImageScale returns the zoom of the image layer
func (s *Session) ImageScale() float64 { return s.imageScale }

// MinImageScale returns the scale at which the whole image fits
func (s *Session) MinImageScale() float64 { return s.minImageScale }

// AutoZoomEnabled reports whether auto-zoom runs after edits
func (s *Session) AutoZoomEnabled() bool { return s.autoZoom }

// PixelPerfectEnabled reports whether the selection snaps to whole pixels
func (s *Session) PixelPerfectEnabled() bool { return s.pixelPerfect }

// Background returns the colour composited under the crop
func (s *Session) Background() color.Color { return s.background }

// OvalMaskVisible reports whether the selection is drawn as an ellipse
func (s *Session) OvalMaskVisible() bool { return s.oval }

// SetOval switches between oval and rectangular selection masks
func (s *Session) SetOval(oval bool) { s.oval = oval }

// GuidelinesVisibility returns the guideline policy
func (s *Session) GuidelinesVisibility() Visibility { return s.guidelines }

// SetGuidelinesVisibility changes the guideline policy
func (s *Session) SetGuidelinesVisibility(v Visibility) { s.guidelines = v }

// GuidelinesVisible reports whether guidelines should be drawn right now.
func (s *Session) GuidelinesVisible() bool {
	switch s.guidelines {
	case AlwaysVisible:
		return true
	case OnDrag:
		return s.state == StateEditing
	}
	return false
}

// ButtonVisible reports whether every button in b is exposed
func (s *Session) ButtonVisible(b Button) bool {
	return s.buttons&b == b
}

// SetAutoZoom enables or disables auto-zoom. Enabling it plans a zoom
// right away.
func (s *Session) SetAutoZoom(enabled bool) {
	s.autoZoom = enabled
	if enabled {
		s.StartAutoZoom(false)
	}
}

// SetPixelPerfect enables or disables whole-pixel selections. Enabling it
// snaps the current selection.
func (s *Session) SetPixelPerfect(enabled bool) {
	s.pixelPerfect = enabled
	if enabled {
		s.MakePixelPerfect()
	}
}

// MakePixelPerfect snaps the selection to whole pixels.
func (s *Session) MakePixelPerfect() {
	if s.state == StateIdle {
		return
	}
	s.selection = s.solver().PixelPerfect(s.selection)
}

// UpdateSelectionPosition moves the selection, keeping it inside the image.
func (s *Session) UpdateSelectionPosition(position geometry.Vector2) {
	if s.state == StateIdle {
		return
	}
	s.selection.Position = s.solver().Move(position, s.selection.Size)
}

// UpdateSelection proposes a new selection. The closest valid rectangle is
// committed; pivot names the edges that should stay put.
func (s *Session) UpdateSelection(position, size geometry.Vector2, pivot constraint.Direction, shrinkToFit bool) {
	if s.state == StateIdle {
		return
	}
	s.selection = s.solver().Resolve(position, size, pivot, shrinkToFit)
}
