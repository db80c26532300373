package session

import "errors"

var (
	// ErrInvalidImage is returned by Show for a nil or empty image.
	ErrInvalidImage = errors.New("invalid source image")
	// ErrNotReady is returned when no session is open.
	ErrNotReady = errors.New("cropper is not ready")
	// ErrNotPermitted is returned when another handler holds the gesture.
	ErrNotPermitted = errors.New("selection is being modified by another handler")
	// ErrRenderFailed wraps rasterizer failures during Crop.
	ErrRenderFailed = errors.New("failed to render cropped image")
)
