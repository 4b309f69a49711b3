package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/pkg/errors"
)

type SavedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Sink keeps saved files in memory, in saving order.
type Sink struct {
	mutex sync.Mutex
	files []SavedFile
}

// Save implements [port.Sink].
func (s *Sink) Save(ctx context.Context, name string, contentType string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.files = append(s.files, SavedFile{
		Name:        name,
		ContentType: contentType,
		Data:        slices.Clone(data),
	})

	return nil
}

func (s *Sink) Files() []SavedFile {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return slices.Clone(s.files)
}

func NewSink() *Sink {
	return &Sink{}
}

var _ port.Sink = &Sink{}
