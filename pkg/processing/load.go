package processing

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/image-cropper/pkg/orientation"
)

// maxDownloadSize caps images fetched over HTTP
const maxDownloadSize = 64 << 20

// LoadImageFromURL downloads and loads an image from a URL
func (p *Processor) LoadImageFromURL(ctx context.Context, imageURL string) (image.Image, error) {
	data, err := p.download(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	return decodeImageFromBytes(data)
}

func (p *Processor) download(ctx context.Context, imageURL string) ([]byte, error) {
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %s (only http and https are supported)", parsedURL.Scheme)
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Image-Cropper/1.0 (+https://github.com/menta2k/image-cropper)")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %s", resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("URL does not point to an image (Content-Type: %s)", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) > maxDownloadSize {
		return nil, fmt.Errorf("image larger than %d bytes", maxDownloadSize)
	}
	p.logger.Debug("downloaded image", "url", imageURL, "bytes", len(data))
	return data, nil
}

// LoadImage loads an image from a file path with WebP support
func (p *Processor) LoadImage(path string) (image.Image, error) {
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	// imaging.Open failed: retry with the explicit decoders
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := decodeImageFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// LoadImageSmart loads an image from either a file path or URL
func (p *Processor) LoadImageSmart(ctx context.Context, source string) (image.Image, error) {
	if isURL(source) {
		return p.LoadImageFromURL(ctx, source)
	}
	return p.LoadImage(source)
}

// LoadOriented loads an image and returns the orientation that shows it
// upright according to its EXIF data. Images without EXIF orientation
// report orientation.Normal.
func (p *Processor) LoadOriented(ctx context.Context, source string) (image.Image, orientation.Orientation, error) {
	var data []byte
	var err error
	if isURL(source) {
		data, err = p.download(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, orientation.Normal, err
	}

	img, err := decodeImageFromBytes(data)
	if err != nil {
		return nil, orientation.Normal, fmt.Errorf("%s: %w", source, err)
	}

	o, err := ReadExifOrientation(bytes.NewReader(data))
	if err != nil {
		p.logger.Debug("no usable EXIF orientation", "source", source, "error", err)
		o = orientation.Normal
	}
	return img, o, nil
}

// ReadExifOrientation reads the EXIF orientation tag from r and returns the
// orientation that displays the image upright.
func ReadExifOrientation(r io.Reader) (orientation.Orientation, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return orientation.Normal, fmt.Errorf("decode exif: %w", err)
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return orientation.Normal, fmt.Errorf("exif orientation: %w", err)
	}
	v, err := tag.Int(0)
	if err != nil {
		return orientation.Normal, fmt.Errorf("exif orientation value: %w", err)
	}
	return orientation.ExifFix(orientation.FromExifTag(v)), nil
}

// decodeImageFromBytes decodes an image from byte data with WebP support
func decodeImageFromBytes(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("image: unknown or unsupported format")
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
