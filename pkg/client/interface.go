package client

import (
	"context"

	"github.com/menta2k/image-cropper/pkg/types"
)

// VisionClient is a vision model backend able to look at an image
type VisionClient interface {
	SimpleQuery(ctx context.Context, model, prompt, imgB64 string) (string, error)
	SuggestCrop(ctx context.Context, model, prompt, imgB64 string) (*types.Suggestion, error)
}
