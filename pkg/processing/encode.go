package processing

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/menta2k/image-cropper/pkg/types"
)

// PrepareImageForModel converts an image to base64 for sending to vision
// models, shrinking it so its longer side is at most maxDim.
func (p *Processor) PrepareImageForModel(img image.Image, format string, maxDim int, quality int) (string, error) {
	if maxDim > 0 {
		b := img.Bounds()
		w, h := b.Dx(), b.Dy()
		if w > maxDim || h > maxDim {
			if w >= h {
				img = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
			} else {
				img = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
			}
		}
	}

	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return "", fmt.Errorf("encode png: %w", err)
		}
	default: // jpg
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return "", fmt.Errorf("encode jpeg: %w", err)
		}
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// FormatFor returns the output format for path: the explicit extension in
// opts if any, otherwise the file extension. Unknown extensions map to jpg.
func FormatFor(path string, opts types.SaveOptions) string {
	ext := opts.Extension
	if ext == "" {
		ext = filepath.Ext(path)
	}
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "webp":
		return "webp"
	case "png":
		return "png"
	}
	return "jpg"
}

// SaveImage saves an image to a file with the specified format and quality
func (p *Processor) SaveImage(img image.Image, path string, opts types.SaveOptions) error {
	format := FormatFor(path, opts)
	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = 90
	}

	err := writeFile(path, func(w io.Writer) error {
		switch format {
		case "webp":
			return webp.Encode(w, img, &webp.Options{Lossless: opts.Lossless, Quality: float32(quality)})
		case "png":
			return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
		}
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	p.logger.Info("saved image", "path", path, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return nil
}

func writeFile(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
