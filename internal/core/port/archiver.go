package port

import (
	"context"

	"github.com/bornholm/pdfsplit/internal/core/model"
)

// Archiver bundles artifacts into one compressed container.
type Archiver interface {
	Archive(ctx context.Context, artifacts []model.Artifact) ([]byte, error)
	Extension() string
	ContentType() string
}
