package port

import (
	"context"
)

// Sink delivers bytes to the user under a suggested name.
type Sink interface {
	Save(ctx context.Context, name string, contentType string, data []byte) error
}
