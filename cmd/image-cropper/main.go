package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	imagecropper "github.com/menta2k/image-cropper"
	"github.com/menta2k/image-cropper/internal/config"
	"github.com/menta2k/image-cropper/internal/utils"
	"github.com/menta2k/image-cropper/pkg/client"
	"github.com/menta2k/image-cropper/pkg/llamacpp"
	"github.com/menta2k/image-cropper/pkg/ollama"
	"github.com/menta2k/image-cropper/pkg/orientation"
	"github.com/menta2k/image-cropper/pkg/processing"
	"github.com/menta2k/image-cropper/pkg/session"
	"github.com/menta2k/image-cropper/pkg/suggest"
	"github.com/menta2k/image-cropper/pkg/types"
)

type options struct {
	in, configPath, saveConfig string
	selectBox                  string
	aspect                     string
	rotate                     int
	flip                       string
	debug                      bool
	verbose                    bool
	sendFmt                    string
	sendQ                      int
}

func main() {
	var opts options
	cfg := config.Default()

	flag.StringVar(&opts.in, "in", "", "input image path, directory or URL (jpg/png/webp)")
	flag.StringVar(&opts.configPath, "config", config.GetConfigPath(), "configuration file (JSON)")
	flag.StringVar(&opts.saveConfig, "save-config", "", "write the effective configuration to this file and exit")

	outDir := flag.String("out", "", "output directory (overrides config)")
	ext := flag.String("ext", "", "output format: jpg|png|webp (overrides config)")
	quality := flag.Int("quality", 0, "JPEG/WebP output quality 1-100 (overrides config)")
	lossless := flag.Bool("lossless", false, "WebP lossless output")
	width := flag.Int("width", 0, "output width in pixels")
	height := flag.Int("height", 0, "output height in pixels")
	background := flag.String("background", "", "background colour #rrggbb[aa]")

	flag.StringVar(&opts.aspect, "aspect", "", "aspect ratio limits: 16:9, 1.5 or min-max such as 0.8-1.25")
	flag.StringVar(&opts.selectBox, "select", "", "initial selection x,y,w,h on the source image, normalized or in pixels")
	flag.IntVar(&opts.rotate, "rotate", 0, "clockwise quarter turns applied after EXIF orientation")
	flag.StringVar(&opts.flip, "flip", "", "flip the image: h, v or hv")
	pixelPerfect := flag.Bool("pixel-perfect", false, "snap the selection to whole pixels")

	vision := flag.Bool("vision", false, "ask a vision model for the initial selection")
	backend := flag.String("backend", "", "vision backend: ollama, llamacpp or saliency")
	url := flag.String("url", "", "vision server URL")
	model := flag.String("model", "", "vision model name")
	flag.StringVar(&opts.sendFmt, "sendfmt", "jpg", "format sent to the model: jpg|png")
	flag.IntVar(&opts.sendQ, "sendq", 85, "JPEG quality for the image sent to the model (1-100)")

	flag.BoolVar(&opts.debug, "debug", false, "write a debug overlay next to each crop")
	flag.BoolVar(&opts.verbose, "v", false, "verbose logging")

	flag.Parse()

	if utils.FileExists(opts.configPath) {
		loaded, err := config.LoadFromFile(opts.configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}

	// explicit flags override the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.Output.OutputDir = *outDir
		case "ext":
			cfg.Output.DefaultFormat = strings.ToLower(*ext)
		case "quality":
			cfg.Output.Quality = *quality
		case "lossless":
			cfg.Output.Lossless = *lossless
		case "width":
			cfg.Output.Width = *width
		case "height":
			cfg.Output.Height = *height
		case "background":
			cfg.Output.Background = *background
		case "pixel-perfect":
			cfg.Selection.PixelPerfect = *pixelPerfect
		case "vision":
			cfg.Vision.Enabled = *vision
		case "backend":
			cfg.Vision.Backend = *backend
		case "url":
			cfg.Vision.URL = *url
		case "model":
			cfg.Vision.Model = *model
		}
	})

	if opts.aspect != "" {
		lo, hi, err := parseAspect(opts.aspect)
		if err != nil {
			log.Fatal(err)
		}
		cfg.Selection.MinAspectRatio, cfg.Selection.MaxAspectRatio = lo, hi
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if opts.saveConfig != "" {
		if err := cfg.SaveToFile(opts.saveConfig); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", opts.saveConfig)
		return
	}

	if opts.in == "" {
		log.Fatalf("usage: %s -in input.jpg|dir|URL [-aspect 16:9] [-rotate 1] [-flip h] [-select x,y,w,h] [-vision] [-out outdir] [-ext jpg|png|webp]", filepath.Base(os.Args[0]))
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	sources := []string{opts.in}
	if utils.DirExists(opts.in) {
		files, err := utils.ListImageFiles(opts.in)
		if err != nil {
			log.Fatal(err)
		}
		if len(files) == 0 {
			log.Fatalf("no images found in %s", opts.in)
		}
		sources = files
	}

	if err := utils.EnsureDir(cfg.Output.OutputDir); err != nil {
		log.Fatal(err)
	}

	var suggester *suggest.Suggester
	if cfg.Vision.Enabled && cfg.Vision.Backend != "saliency" {
		visionClient, err := newVisionClient(cfg.Vision)
		if err != nil {
			log.Fatal(err)
		}
		suggester = suggest.NewSuggester(visionClient, cfg.Vision.Model, logger)
	}

	processor := processing.NewProcessor(logger)
	cropper := imagecropper.New(processor, cfg.SessionOptions(logger)...)
	cropper.SetLogger(logger)

	failed := 0
	for _, source := range sources {
		if err := cropOne(cropper, processor, suggester, cfg, opts, source); err != nil {
			log.Printf("%s: %v", source, err)
			failed++
		}
	}
	if failed > 0 {
		log.Fatalf("%d of %d images failed", failed, len(sources))
	}
}

func cropOne(cropper *imagecropper.Cropper, processor *processing.Processor, suggester *suggest.Suggester, cfg *config.Config, opts options, source string) error {
	ctx := context.Background()

	img, exifOrientation, err := processor.LoadOriented(ctx, source)
	if err != nil {
		return err
	}
	bounds := img.Bounds()

	settings, err := cfg.SessionSettings()
	if err != nil {
		return err
	}
	if cfg.AutoOrient() {
		settings.InitialOrientation = exifOrientation
	}

	var suggestion *types.Suggestion
	switch {
	case opts.selectBox != "":
		box, err := parseBox(opts.selectBox)
		if err != nil {
			return err
		}
		box = box.Clamp(bounds.Dx(), bounds.Dy())
		settings.InitialSelection = &box
	case cfg.Vision.Enabled:
		suggestion = suggestSelection(ctx, processor, suggester, cfg, opts, img, settings.InitialOrientation)
		if !suggestion.Fallback {
			settings.InitialSelection = &suggestion.Box
		}
	}

	if err := cropper.Show(img, &settings); err != nil {
		return err
	}

	s := cropper.Session()
	for i := 0; i < ((opts.rotate%4)+4)%4; i++ {
		s.Rotate90Clockwise()
	}
	if strings.Contains(opts.flip, "h") {
		s.FlipHorizontal()
	}
	if strings.Contains(opts.flip, "v") {
		s.FlipVertical()
	}

	o, selection := s.Orientation(), s.Selection()
	log.Printf("%s: %dx%d orientation=%s selection=%.0fx%.0f@%.0f,%.0f",
		source, bounds.Dx(), bounds.Dy(), o, selection.Size.X, selection.Size.Y, selection.Position.X, selection.Position.Y)

	var overlay *processing.OverlayOptions
	if opts.debug {
		overlay = &processing.OverlayOptions{
			Guidelines: s.GuidelinesVisibility() == session.AlwaysVisible,
			Oval:       s.OvalMaskVisible(),
		}
		if suggestion != nil {
			overlay.Suggestion = &suggestion.Box
		}
	}

	result, err := cropper.Crop()
	if err != nil {
		cropper.Cancel()
		return err
	}

	saveOpts := types.SaveOptions{
		Quality:   cfg.Output.Quality,
		Lossless:  cfg.Output.Lossless,
		Extension: cfg.Output.DefaultFormat,
	}
	outPath := utils.OutputFilename(source, cfg.Output.OutputDir, cfg.Output.Prefix, cfg.Output.Suffix, cfg.Output.DefaultFormat)
	if err := processor.SaveImage(result.Cropped, outPath, saveOpts); err != nil {
		return err
	}
	if info, err := os.Stat(outPath); err == nil {
		log.Printf("wrote %s (%dx%d, %s)", outPath, result.Width, result.Height, utils.FormatFileSize(info.Size()))
	}

	if overlay != nil {
		dbg := processor.CreateDebugOverlay(result.Original, result.Orientation, result.Rect, *overlay)
		dbgPath := utils.OutputFilename(source, cfg.Output.OutputDir, cfg.Output.Prefix, "_debug", "png")
		if err := processor.SaveImage(dbg, dbgPath, types.SaveOptions{Extension: "png"}); err != nil {
			log.Printf("debug overlay save failed: %v", err)
		} else {
			log.Printf("wrote %s", dbgPath)
		}
	}

	if suggestion != nil {
		js, _ := json.MarshalIndent(suggestion, "", "  ")
		jsPath := utils.OutputFilename(source, cfg.Output.OutputDir, cfg.Output.Prefix, "_suggestion", "json")
		if err := os.WriteFile(jsPath, js, 0o644); err != nil {
			log.Printf("suggestion save failed: %v", err)
		}
	}
	return nil
}

// suggestSelection asks the vision model for the initial selection and
// falls back to the offline saliency suggester when there is no model or
// it cannot be reached.
func suggestSelection(ctx context.Context, processor *processing.Processor, suggester *suggest.Suggester, cfg *config.Config, opts options, img image.Image, o orientation.Orientation) *types.Suggestion {
	// suggestions are on the stored image, so aspect limits flip with the axes
	minAspect, maxAspect := cfg.Selection.MinAspectRatio, cfg.Selection.MaxAspectRatio
	if o.SwapsAxes() && minAspect > 0 && maxAspect > 0 {
		minAspect, maxAspect = 1/maxAspect, 1/minAspect
	}
	req := suggest.Request{
		Width:     img.Bounds().Dx(),
		Height:    img.Bounds().Dy(),
		MinAspect: minAspect,
		MaxAspect: maxAspect,
	}

	suggestion, err := modelSuggestion(ctx, processor, suggester, cfg, opts, img, req)
	if suggestion == nil {
		if err != nil {
			log.Printf("vision suggestion failed, using saliency: %v", err)
		}
		suggestion = suggest.NewSaliency().Suggest(img, req)
	}

	log.Printf("suggestion=%q conf=%.2f box=%.3fx%.3f@%.3f,%.3f fallback=%v",
		suggestion.Label, suggestion.Confidence, suggestion.Box.W, suggestion.Box.H,
		suggestion.Box.X, suggestion.Box.Y, suggestion.Fallback)
	if suggestion.Description != "" {
		log.Printf("description: %s", suggestion.Description)
	}
	return suggestion
}

func modelSuggestion(ctx context.Context, processor *processing.Processor, suggester *suggest.Suggester, cfg *config.Config, opts options, img image.Image, req suggest.Request) (*types.Suggestion, error) {
	if suggester == nil {
		return nil, nil
	}
	if cfg.Vision.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Vision.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	imgB64, err := processor.PrepareImageForModel(img, opts.sendFmt, cfg.Vision.MaxDim, opts.sendQ)
	if err != nil {
		return nil, err
	}
	req.ImageB64 = imgB64
	return suggester.Suggest(ctx, req)
}

func newVisionClient(vc config.VisionConfig) (client.VisionClient, error) {
	switch vc.Backend {
	case "ollama":
		c, err := ollama.NewClient(vc.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama client: %w", err)
		}
		return c, nil
	case "llamacpp":
		url := vc.URL
		if url == "" {
			url = llamacpp.DefaultServerURL
		}
		c, err := llamacpp.NewClient(url)
		if err != nil {
			return nil, fmt.Errorf("failed to create llama.cpp client: %w", err)
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown backend: %s (use 'ollama' or 'llamacpp')", vc.Backend)
}

// parseAspect accepts "16:9", "1.5" and "min-max" ranges of either form
func parseAspect(s string) (float64, float64, error) {
	parts := strings.SplitN(s, "-", 2)
	lo, err := parseRatio(parts[0])
	if err != nil {
		return 0, 0, err
	}
	hi := lo
	if len(parts) == 2 {
		if hi, err = parseRatio(parts[1]); err != nil {
			return 0, 0, err
		}
	}
	return lo, hi, nil
}

func parseRatio(s string) (float64, error) {
	num, den, found := strings.Cut(strings.TrimSpace(s), ":")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid aspect ratio %q", s)
	}
	if !found {
		return n, nil
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("invalid aspect ratio %q", s)
	}
	return n / d, nil
}

// parseBox parses "x,y,w,h" on the source image, normalized or in pixels
func parseBox(s string) (types.Box, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 4 {
		return types.Box{}, fmt.Errorf("selection must be x,y,w,h: %q", s)
	}
	var v [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return types.Box{}, fmt.Errorf("selection must be x,y,w,h: %q", s)
		}
		v[i] = n
	}
	return types.Box{X: v[0], Y: v[1], W: v[2], H: v[3]}, nil
}
