package driven

import (
	"context"

	"github.com/confab-labs/confab-cli/internal/core/domain"
)

// ImageService generates images from text prompts.
// Optional - when nil, the image command reports the service as
// unconfigured.
type ImageService interface {
	// Generate produces an image for the request and writes it to the
	// configured output directory, returning its stored metadata.
	Generate(ctx context.Context, req domain.ImageRequest) (*domain.ImageRecord, error)

	// ModelName returns the name of the image model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
