package port

import (
	"context"

	"github.com/bornholm/pdfsplit/internal/core/model"
)

// DocumentLoader decodes raw bytes into a Document.
//
// Implementations must return ErrNotADocument for input that is not a
// document and ErrEncrypted for documents requiring an unlock step. A valid
// document without pages is not an error.
type DocumentLoader interface {
	Load(ctx context.Context, name string, data []byte) (*model.Document, error)
}

// DocumentCopier materializes a new standalone document holding exactly the
// given pages of the source, in the given order, without re-encoding them.
// It may be called concurrently on the same source document.
type DocumentCopier interface {
	CopyPages(ctx context.Context, doc *model.Document, pages []model.PageIndex) ([]byte, error)
}

type DocumentProcessor interface {
	DocumentLoader
	DocumentCopier
}
