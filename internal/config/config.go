package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/menta2k/image-cropper/pkg/autozoom"
	"github.com/menta2k/image-cropper/pkg/geometry"
	"github.com/menta2k/image-cropper/pkg/orientation"
	"github.com/menta2k/image-cropper/pkg/session"
)

// Config holds the application configuration
type Config struct {
	Selection SelectionConfig `json:"selection"`
	AutoZoom  AutoZoomConfig  `json:"auto_zoom"`
	Output    OutputConfig    `json:"output"`
	Vision    VisionConfig    `json:"vision"`
}

// SelectionConfig holds the limits and presentation of the crop selection
type SelectionConfig struct {
	MinWidth       float64  `json:"min_width"`
	MinHeight      float64  `json:"min_height"`
	MaxWidth       float64  `json:"max_width"`
	MaxHeight      float64  `json:"max_height"`
	MinAspectRatio float64  `json:"min_aspect_ratio"`
	MaxAspectRatio float64  `json:"max_aspect_ratio"`
	Padding        Padding  `json:"padding"`
	PixelPerfect   bool     `json:"pixel_perfect"`
	Oval           bool     `json:"oval"`
	Guidelines     string   `json:"guidelines"`
	Buttons        []string `json:"buttons"`
	// Orientation is an orientation name, or "auto" to follow EXIF data
	Orientation string `json:"orientation"`
}

// Padding of the initial selection as fractions of the image
type Padding struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// AutoZoomConfig holds the view framing behaviour
type AutoZoomConfig struct {
	Enabled          bool    `json:"enabled"`
	ZoomInThreshold  float64 `json:"zoom_in_threshold"`
	ZoomOutThreshold float64 `json:"zoom_out_threshold"`
	ZoomInFill       float64 `json:"zoom_in_fill"`
	ZoomOutFill      float64 `json:"zoom_out_fill"`
	// Duration of a zoom transition in seconds; 0 zooms instantly
	Duration      float64 `json:"duration"`
	SnapThreshold float64 `json:"snap_threshold"`
	ScrollSpeed   float64 `json:"scroll_speed"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	DefaultFormat string `json:"default_format"`
	OutputDir     string `json:"output_dir"`
	Prefix        string `json:"prefix"`
	Suffix        string `json:"suffix"`
	Quality       int    `json:"quality"`
	Lossless      bool   `json:"lossless"`
	// MaxSize caps the width and height of cropped images
	MaxSize int `json:"max_size"`
	// Background is a #rrggbb or #rrggbbaa colour composited under the crop
	Background string `json:"background"`
	// Width and Height force the output size; zero keeps the selection size
	// on that axis, scaled to keep the aspect ratio when the other is set
	Width  int `json:"width"`
	Height int `json:"height"`
}

// VisionConfig holds the vision model used to suggest the initial selection
type VisionConfig struct {
	Enabled bool `json:"enabled"`
	// Backend is "ollama", "llamacpp" or "saliency"; saliency needs no
	// model server
	Backend string `json:"backend"`
	URL     string `json:"url"`
	Model   string `json:"model"`
	// MaxDim is the longest side of the image sent to the model
	MaxDim         int `json:"max_dim"`
	TimeoutSeconds int `json:"timeout_seconds"`
}

// Default returns a configuration with default values
func Default() *Config {
	t := autozoom.DefaultThresholds()
	return &Config{
		Selection: SelectionConfig{
			Padding:     Padding{Left: 0.1, Top: 0.1, Right: 0.1, Bottom: 0.1},
			Guidelines:  "always",
			Buttons:     []string{"all"},
			Orientation: "auto",
		},
		AutoZoom: AutoZoomConfig{
			Enabled:          true,
			ZoomInThreshold:  t.ZoomInThreshold,
			ZoomOutThreshold: t.ZoomOutThreshold,
			ZoomInFill:       t.ZoomInFill,
			ZoomOutFill:      t.ZoomOutFill,
			Duration:         0.3,
			SnapThreshold:    5,
			ScrollSpeed:      512,
		},
		Output: OutputConfig{
			DefaultFormat: "jpg",
			OutputDir:     "./output",
			Prefix:        "",
			Suffix:        "_cropped",
			Quality:       90,
			MaxSize:       8192,
			Background:    "#000000",
		},
		Vision: VisionConfig{
			Enabled:        false,
			Backend:        "ollama",
			URL:            "http://localhost:11434",
			Model:          "llava:7b",
			MaxDim:         1024,
			TimeoutSeconds: 300,
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Keys missing from the
// file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid. Size and aspect limits
// are not checked here: the crop session normalizes any values it gets.
func (c *Config) Validate() error {
	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	if c.Output.MaxSize < 0 {
		return fmt.Errorf("output.max_size must not be negative")
	}

	if c.Output.Width < 0 || c.Output.Height < 0 {
		return fmt.Errorf("output.width and output.height must not be negative")
	}

	if _, err := ParseColor(c.Output.Background); err != nil {
		return fmt.Errorf("output.background: %w", err)
	}

	for name, v := range map[string]float64{
		"zoom_in_threshold":  c.AutoZoom.ZoomInThreshold,
		"zoom_out_threshold": c.AutoZoom.ZoomOutThreshold,
		"zoom_in_fill":       c.AutoZoom.ZoomInFill,
		"zoom_out_fill":      c.AutoZoom.ZoomOutFill,
	} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("auto_zoom.%s must be in (0, 1]", name)
		}
	}

	if c.AutoZoom.ZoomInThreshold >= c.AutoZoom.ZoomOutThreshold {
		return fmt.Errorf("auto_zoom.zoom_in_threshold must be below zoom_out_threshold")
	}

	if c.AutoZoom.Duration < 0 || c.AutoZoom.SnapThreshold < 0 || c.AutoZoom.ScrollSpeed < 0 {
		return fmt.Errorf("auto_zoom.duration, snap_threshold and scroll_speed must not be negative")
	}

	if _, err := session.ParseVisibility(c.Selection.Guidelines); err != nil {
		return fmt.Errorf("selection.guidelines: %w", err)
	}

	if _, err := session.ParseButtons(c.Selection.Buttons); err != nil {
		return fmt.Errorf("selection.buttons: %w", err)
	}

	if c.Selection.Orientation != "auto" {
		if _, err := orientation.Parse(c.Selection.Orientation); err != nil {
			return fmt.Errorf("selection.orientation: %w", err)
		}
	}

	if c.Vision.Enabled {
		switch c.Vision.Backend {
		case "saliency":
		case "ollama", "llamacpp":
			if c.Vision.Model == "" {
				return fmt.Errorf("vision.model cannot be empty")
			}
		default:
			return fmt.Errorf("vision.backend must be ollama, llamacpp or saliency")
		}
	}

	return nil
}

// AutoOrient reports whether the initial orientation comes from EXIF data
func (c *Config) AutoOrient() bool {
	return c.Selection.Orientation == "auto"
}

// SessionSettings converts the configuration into crop session settings
func (c *Config) SessionSettings() (session.Settings, error) {
	s := session.DefaultSettings()
	sel := c.Selection

	guidelines, err := session.ParseVisibility(sel.Guidelines)
	if err != nil {
		return s, err
	}
	buttons, err := session.ParseButtons(sel.Buttons)
	if err != nil {
		return s, err
	}
	background, err := ParseColor(c.Output.Background)
	if err != nil {
		return s, err
	}
	if !c.AutoOrient() {
		if s.InitialOrientation, err = orientation.Parse(sel.Orientation); err != nil {
			return s, err
		}
	}

	s.AutoZoom = c.AutoZoom.Enabled
	s.PixelPerfect = sel.PixelPerfect
	s.Oval = sel.Oval
	s.Guidelines = guidelines
	s.VisibleButtons = buttons
	s.Background = background
	s.MinSize = geometry.Vec(sel.MinWidth, sel.MinHeight)
	s.MaxSize = geometry.Vec(sel.MaxWidth, sel.MaxHeight)
	s.MinAspectRatio = sel.MinAspectRatio
	s.MaxAspectRatio = sel.MaxAspectRatio
	s.PaddingLeft = sel.Padding.Left
	s.PaddingTop = sel.Padding.Top
	s.PaddingRight = sel.Padding.Right
	s.PaddingBottom = sel.Padding.Bottom
	s.ResizePolicy = c.ResizePolicy()
	return s, nil
}

// SessionOptions returns the crop session options for this configuration
func (c *Config) SessionOptions(logger *slog.Logger) []session.Option {
	var curve autozoom.Curve
	if c.AutoZoom.Duration > 0 {
		curve = autozoom.EaseInOut(c.AutoZoom.Duration)
	}
	return []session.Option{
		session.WithLogger(logger),
		session.WithThresholds(autozoom.Thresholds{
			ZoomInThreshold:  c.AutoZoom.ZoomInThreshold,
			ZoomOutThreshold: c.AutoZoom.ZoomOutThreshold,
			ZoomInFill:       c.AutoZoom.ZoomInFill,
			ZoomOutFill:      c.AutoZoom.ZoomOutFill,
		}),
		session.WithCurve(curve),
		session.WithSnapThreshold(c.AutoZoom.SnapThreshold),
		session.WithScrollSpeed(c.AutoZoom.ScrollSpeed),
		session.WithMaxOutputSize(c.Output.MaxSize),
	}
}

// ResizePolicy returns the output size policy configured by Output.Width
// and Output.Height, or nil when the selection size is kept.
func (c *Config) ResizePolicy() session.ResizePolicy {
	tw, th := c.Output.Width, c.Output.Height
	switch {
	case tw > 0 && th > 0:
		return func(int, int) (int, int) { return tw, th }
	case tw > 0:
		return func(w, h int) (int, int) { return tw, h * tw / w }
	case th > 0:
		return func(w, h int) (int, int) { return w * th / h, th }
	}
	return nil
}

// ParseColor parses #rgb, #rrggbb and #rrggbbaa colours
func ParseColor(s string) (color.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return nil, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "image-cropper", "config.json")
}
