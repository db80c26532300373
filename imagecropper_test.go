package imagecropper

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/menta2k/image-cropper/pkg/geometry"
	"github.com/menta2k/image-cropper/pkg/orientation"
	"github.com/menta2k/image-cropper/pkg/processing"
	"github.com/menta2k/image-cropper/pkg/session"
)

// createTestImage creates a simple test image
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	// Create a pattern with a bright subject in the center
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x > width/3 && x < 2*width/3 && y > height/3 && y < 2*height/3 {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			} else {
				img.Set(x, y, color.RGBA{64, 64, 64, 255})
			}
		}
	}

	return img
}

type failingRasterizer struct{}

func (failingRasterizer) Render(image.Image, orientation.Orientation, geometry.Rect, int, int, color.Color) (image.Image, error) {
	return nil, errors.New("out of memory")
}

func TestNew(t *testing.T) {
	c := New(processing.NewProcessor(nil))
	if c == nil {
		t.Fatal("New() returned nil")
	}

	if c.IsOpen() {
		t.Error("new cropper should not be open")
	}

	if c.Session() == nil {
		t.Error("session is nil")
	}
}

func TestCrop(t *testing.T) {
	c := New(processing.NewProcessor(nil))
	img := createTestImage(300, 200)

	settings := session.DefaultSettings()
	settings.MinAspectRatio, settings.MaxAspectRatio = 1, 1
	if err := c.Show(img, &settings); err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if !c.IsOpen() {
		t.Fatal("cropper should be open after Show")
	}

	result, err := c.Crop()
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	if !result.Success {
		t.Error("expected successful result")
	}

	if result.Original != img {
		t.Error("result should carry the original image")
	}

	bounds := result.Cropped.Bounds()
	if bounds.Dx() != result.Width || bounds.Dy() != result.Height {
		t.Errorf("cropped image is %dx%d, result says %dx%d", bounds.Dx(), bounds.Dy(), result.Width, result.Height)
	}

	if result.Width != result.Height {
		t.Errorf("expected square crop, got %dx%d", result.Width, result.Height)
	}

	if c.IsOpen() {
		t.Error("cropper should close after a successful crop")
	}
}

func TestCropFailureKeepsSession(t *testing.T) {
	c := New(failingRasterizer{})
	if err := c.Show(createTestImage(100, 100), nil); err != nil {
		t.Fatalf("Show failed: %v", err)
	}

	result, err := c.Crop()
	if !errors.Is(err, session.ErrRenderFailed) {
		t.Errorf("expected ErrRenderFailed, got %v", err)
	}

	if result.Success {
		t.Error("failed crop should not be successful")
	}

	if !c.IsOpen() {
		t.Error("session should stay open after a failed crop")
	}
}

func TestCropWithoutSession(t *testing.T) {
	c := New(processing.NewProcessor(nil))
	if _, err := c.Crop(); !errors.Is(err, session.ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	c := New(processing.NewProcessor(nil))
	img := createTestImage(200, 100)
	if err := c.Show(img, nil); err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	c.Session().Rotate90Clockwise()
	selection := c.Session().Selection()

	result := c.Cancel()
	if result.Success {
		t.Error("cancelled result should not be successful")
	}

	if result.Original != img || result.Cropped != nil {
		t.Error("cancelled result should carry only the original image")
	}

	if result.Rect != selection || result.Orientation != orientation.Rotate270 {
		t.Errorf("unexpected cancelled result %+v", result)
	}

	if c.IsOpen() {
		t.Error("cropper should close after Cancel")
	}

	if again := c.Cancel(); again.Original != nil {
		t.Error("second Cancel should return an empty result")
	}
}

func TestShowReplacesSession(t *testing.T) {
	c := New(processing.NewProcessor(nil))
	if err := c.Show(createTestImage(100, 100), nil); err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	first := c.Session()

	second := createTestImage(50, 80)
	if err := c.Show(second, nil); err != nil {
		t.Fatalf("Show failed: %v", err)
	}

	if first.IsOpen() {
		t.Error("previous session should be closed")
	}

	if c.Session().Image() != second {
		t.Error("active session should show the new image")
	}
}

func TestShowKeepsViewport(t *testing.T) {
	c := New(processing.NewProcessor(nil))
	if err := c.Show(createTestImage(100, 100), nil); err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	c.Session().SetViewportSize(geometry.Vec(400, 300))

	if err := c.Show(createTestImage(200, 100), nil); err != nil {
		t.Fatalf("Show failed: %v", err)
	}

	s := c.Session()
	if s.ViewportSize() != geometry.Vec(400, 300) {
		t.Errorf("viewport = %v, want 400x300", s.ViewportSize())
	}

	if s.MinImageScale() != 2 {
		t.Errorf("min scale = %g, want 2", s.MinImageScale())
	}
}

func TestShowInvalidImageKeepsSession(t *testing.T) {
	c := New(processing.NewProcessor(nil))
	img := createTestImage(100, 100)
	if err := c.Show(img, nil); err != nil {
		t.Fatalf("Show failed: %v", err)
	}

	err := c.Show(image.NewRGBA(image.Rect(0, 0, 0, 0)), nil)
	if !errors.Is(err, session.ErrInvalidImage) {
		t.Errorf("expected ErrInvalidImage, got %v", err)
	}

	if !c.IsOpen() || c.Session().Image() != img {
		t.Error("invalid image should leave the active session untouched")
	}
}

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
}
