// Package imagecropper provides an interactive image crop engine.
//
// A Cropper owns at most one crop session at a time. The session keeps a
// selection rectangle valid under size and aspect limits while the user
// moves it, resizes it, rotates or flips the image, and it frames the view
// around the selection with animated auto-zoom.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//
//		imagecropper "github.com/menta2k/image-cropper"
//		"github.com/menta2k/image-cropper/pkg/processing"
//		"github.com/menta2k/image-cropper/pkg/session"
//		"github.com/menta2k/image-cropper/pkg/types"
//	)
//
//	func main() {
//		proc := processing.NewProcessor(nil)
//		img, err := proc.LoadImage("photo.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		c := imagecropper.New(proc)
//		settings := session.DefaultSettings()
//		settings.MinAspectRatio, settings.MaxAspectRatio = 1, 1
//		if err := c.Show(img, &settings); err != nil {
//			log.Fatal(err)
//		}
//		c.Session().Rotate90Clockwise()
//
//		result, err := c.Crop()
//		if err != nil {
//			log.Fatal(err)
//		}
//		if err := proc.SaveImage(result.Cropped, "photo_square.jpg", types.SaveOptions{Quality: 90}); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of these components:
//
//  1. Geometry (pkg/geometry): vectors and bottom-left origin rectangles
//  2. Orientation (pkg/orientation): the eight image orientations and how
//     rectangles map between them
//  3. Constraint (pkg/constraint): the selection solver for size, aspect
//     and containment limits
//  4. Auto-zoom (pkg/autozoom): view framing decisions and transitions
//  5. Session (pkg/session): crop session state, edits and gestures
//  6. Processing (pkg/processing): image loading, EXIF, rendering, saving
//  7. Suggestion (pkg/suggest): initial selection from a vision model
package imagecropper

import (
	"image"
	"log/slog"

	"github.com/menta2k/image-cropper/pkg/session"
)

// Version of the image cropper library
const Version = "1.0.0"

// Cropper owns the active crop session and renders its result
type Cropper struct {
	rasterizer session.Rasterizer
	options    []session.Option
	logger     *slog.Logger
	session    *session.Session
}

// New creates a Cropper rendering with r. Options apply to every session
// it shows.
func New(r session.Rasterizer, opts ...session.Option) *Cropper {
	return &Cropper{
		rasterizer: r,
		options:    opts,
		logger:     slog.Default(),
		session:    session.New(opts...),
	}
}

// SetLogger sets the logger of the Cropper and of the sessions it shows
func (c *Cropper) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	c.logger = logger
	c.options = append(c.options, session.WithLogger(logger))
}

// Show starts a crop session for img, replacing any active one. A nil
// settings uses session.DefaultSettings. An invalid image leaves the
// active session untouched. The viewport size carries over.
func (c *Cropper) Show(img image.Image, settings *session.Settings) error {
	s := session.New(c.options...)
	s.SetViewportSize(c.session.ViewportSize())
	if err := s.Show(img, settings); err != nil {
		return err
	}

	if c.session.IsOpen() {
		c.logger.Debug("replacing active crop session")
		c.session.Hide()
	}
	c.session = s
	return nil
}

// Session returns the current session. It is idle when nothing is shown.
func (c *Cropper) Session() *session.Session {
	return c.session
}

// IsOpen reports whether a session is active
func (c *Cropper) IsOpen() bool {
	return c.session.IsOpen()
}

// Crop renders the selection and closes the session on success. On failure
// the session stays open so the crop can be retried.
func (c *Cropper) Crop() (session.Result, error) {
	result, err := c.session.Crop(c.rasterizer)
	if err != nil {
		return result, err
	}
	c.session.Hide()
	return result, nil
}

// Cancel closes the session without cropping. The result is unsuccessful
// and carries the original image and the last selection.
func (c *Cropper) Cancel() session.Result {
	s := c.session
	if !s.IsOpen() {
		return session.Result{}
	}
	result := session.Result{
		Original:    s.Image(),
		Rect:        s.Selection(),
		Orientation: s.Orientation(),
	}
	s.Hide()
	return result
}
