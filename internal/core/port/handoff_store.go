package port

import (
	"context"

	"github.com/bornholm/pdfsplit/internal/core/model"
)

// HandoffStore is a single slot holding the latest payload handed to another
// tool. Put overwrites any previous entry; Get returns ErrNotFound when empty.
type HandoffStore interface {
	Put(ctx context.Context, payload *model.ChainPayload) error
	Get(ctx context.Context) (*model.ChainPayload, error)
}
