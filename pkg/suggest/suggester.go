// Package suggest asks a vision model where to put the initial crop
// selection.
package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/menta2k/image-cropper/pkg/client"
	"github.com/menta2k/image-cropper/pkg/types"
)

// SimpleTestPrompt for testing if the model can see images
const SimpleTestPrompt = `What do you see in this image? Describe it briefly.`

// DefaultPrompt asks for the region a photo editor would keep
const DefaultPrompt = `You are a photo editor choosing a crop.

Return JSON only:
{
  "label": "string",
  "confidence": 0.0,
  "box": {"x": 0.0, "y": 0.0, "w": 0.0, "h": 0.0},
  "description": "short neutral sentence (≤ 20 words)",
  "tags": ["tag1", "tag2", "tag3"]
}

HARD RULES
- "box" is the region worth keeping. x, y is its top-left corner.
- All coordinates are normalized to [0,1] (NOT pixels).
- Keep the dominant subject whole with a little breathing room; cut away empty borders and distractions.
- Description must be brief and factual. Do not guess real identities.
- Tags: lowercase, concise, no punctuation or duplicates.
- If nothing stands out, return:
  {"label":"none","confidence":0.0,"box":{"x":0.1,"y":0.1,"w":0.8,"h":0.8},"description":"generic scene","tags":["generic"]}
- JSON only. No markdown, no code fences, no comments, no trailing commas.`

// aspectHint is appended to the prompt when the crop has a fixed shape
const aspectHint = `
- The box width divided by its height, measured in pixels of a %dx%d image, must be between %.3f and %.3f.`

const (
	// minConfidence below which a suggestion is logged as a guess
	minConfidence = 0.2
	// minArea is the smallest accepted box, as a fraction of the image
	minArea = 0.01
)

// Request describes the image a suggestion is wanted for
type Request struct {
	// ImageB64 is the base64 encoded image sent to the model
	ImageB64 string
	// Width and Height of the source image in pixels
	Width, Height int
	// MinAspect and MaxAspect limit the shape of the crop; zero means
	// unconstrained
	MinAspect, MaxAspect float64
	// Prompt replaces DefaultPrompt when set
	Prompt string
}

// Suggester proposes crop selections using a vision model
type Suggester struct {
	client client.VisionClient
	model  string
	logger *slog.Logger
}

// NewSuggester creates a suggester that queries model through c
func NewSuggester(c client.VisionClient, model string, logger *slog.Logger) *Suggester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Suggester{client: c, model: model, logger: logger}
}

// Suggest returns a normalized top-left box for the initial selection.
// Unusable model answers yield a centred fallback, not an error; errors
// are reserved for transport failures.
func (s *Suggester) Suggest(ctx context.Context, req Request) (*types.Suggestion, error) {
	prompt := req.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	if req.MinAspect > 0 && req.MaxAspect > 0 && req.Width > 0 && req.Height > 0 {
		prompt += fmt.Sprintf(aspectHint, req.Width, req.Height, req.MinAspect, req.MaxAspect)
	}

	result, err := s.client.SuggestCrop(ctx, s.model, prompt, req.ImageB64)
	if err != nil {
		return nil, fmt.Errorf("suggest crop: %w", err)
	}

	result = s.validate(result, req)
	s.logger.Debug("crop suggestion",
		"label", result.Label,
		"confidence", result.Confidence,
		"box", fmt.Sprintf("%.3f,%.3f %.3fx%.3f", result.Box.X, result.Box.Y, result.Box.W, result.Box.H),
		"fallback", result.Fallback)
	return result, nil
}

// TestVision checks that the model can actually see the image
func (s *Suggester) TestVision(ctx context.Context, imageB64 string) (string, error) {
	return s.client.SimpleQuery(ctx, s.model, SimpleTestPrompt, imageB64)
}

func (s *Suggester) validate(result *types.Suggestion, req Request) *types.Suggestion {
	if result == nil {
		return types.FallbackSuggestion("no suggestion")
	}

	result.Box = result.Box.Clamp(req.Width, req.Height)
	result.Tags = normalizeTags(result.Tags)

	if result.Box.Empty() {
		s.logger.Warn("model suggested an empty box, using centred fallback", "label", result.Label)
		return types.FallbackSuggestion("empty box")
	}

	if result.Box.W*result.Box.H < minArea {
		s.logger.Warn("model suggested a tiny box, using centred fallback",
			"w", result.Box.W, "h", result.Box.H)
		return types.FallbackSuggestion("box too small")
	}

	if strings.EqualFold(result.Label, "none") {
		result.Fallback = true
	} else if result.Confidence > 0 && result.Confidence < minConfidence {
		s.logger.Info("low confidence crop suggestion", "label", result.Label, "confidence", result.Confidence)
	}

	if req.MinAspect > 0 && req.MaxAspect > 0 && req.Width > 0 && req.Height > 0 {
		result.Box = fitAspect(result.Box, float64(req.Width), float64(req.Height), req.MinAspect, req.MaxAspect)
	}
	return result
}

// fitAspect shrinks the box around its centre until its pixel aspect ratio
// is within [minAspect, maxAspect].
func fitAspect(b types.Box, w, h, minAspect, maxAspect float64) types.Box {
	if minAspect > maxAspect {
		minAspect, maxAspect = maxAspect, minAspect
	}
	pw, ph := b.W*w, b.H*h
	ratio := pw / ph
	cx, cy := b.Center()

	switch {
	case ratio < minAspect:
		ph = pw / minAspect
	case ratio > maxAspect:
		pw = ph * maxAspect
	default:
		return b
	}

	nw, nh := pw/w, ph/h
	return types.Box{
		X: clamp(cx-nw/2, 0, 1-nw),
		Y: clamp(cy-nh/2, 0, 1-nh),
		W: nw,
		H: nh,
	}
}

// clamp ensures a value is within the given bounds
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// normalizeTags ensures tags are cleaned and limited to 5 entries
func normalizeTags(tags []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, 5)
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == 5 {
			break
		}
	}
	return out
}
