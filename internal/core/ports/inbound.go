package ports

import (
	"context"

	"github.com/kirillkom/handwriting-extraction/internal/core/domain"
)

// UploadExtractor is the inbound contract for the upload pipeline.
type UploadExtractor interface {
	Extract(ctx context.Context, upload domain.UploadedImage, language string) (*domain.ExtractionResult, error)
}

// ReadinessReporter is the inbound contract for the health surface.
type ReadinessReporter interface {
	Status() domain.ReadinessStatus
}
