package filesystem

import (
	"context"
	"os"
	"sync"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	handoffDataFile     = "handoff.data"
	handoffMetadataFile = "handoff.yaml"
)

type handoffMetadata struct {
	Name        string `yaml:"name"`
	ContentType string `yaml:"contentType"`
	Origin      string `yaml:"origin"`
	Size        int    `yaml:"size"`
}

// HandoffStore persists the handoff slot as a data file and its metadata so
// that another process sharing the directory can pick the payload up.
type HandoffStore struct {
	mutex sync.Mutex
	fs    afero.Fs
}

// Get implements [port.HandoffStore].
func (s *HandoffStore) Get(ctx context.Context) (*model.ChainPayload, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	rawMetadata, err := afero.ReadFile(s.fs, handoffMetadataFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.WithStack(port.ErrNotFound)
		}

		return nil, errors.WithStack(err)
	}

	var metadata handoffMetadata
	if err := yaml.Unmarshal(rawMetadata, &metadata); err != nil {
		return nil, errors.Wrap(err, "could not parse handoff metadata")
	}

	data, err := afero.ReadFile(s.fs, handoffDataFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.WithStack(port.ErrNotFound)
		}

		return nil, errors.WithStack(err)
	}

	if len(data) != metadata.Size {
		return nil, errors.Errorf("handoff payload size mismatch: expected %d bytes, got %d", metadata.Size, len(data))
	}

	return &model.ChainPayload{
		Name:        metadata.Name,
		ContentType: metadata.ContentType,
		Origin:      metadata.Origin,
		Data:        data,
	}, nil
}

// Put implements [port.HandoffStore].
func (s *HandoffStore) Put(ctx context.Context, payload *model.ChainPayload) error {
	if payload == nil {
		return errors.New("payload is nil")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.fs.MkdirAll("/", os.ModePerm); err != nil {
		return errors.WithStack(err)
	}

	rawMetadata, err := yaml.Marshal(handoffMetadata{
		Name:        payload.Name,
		ContentType: payload.ContentType,
		Origin:      payload.Origin,
		Size:        len(payload.Data),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Data first: a reader never sees metadata describing a missing payload
	if err := afero.WriteFile(s.fs, handoffDataFile, payload.Data, 0o644); err != nil {
		return errors.WithStack(err)
	}

	if err := afero.WriteFile(s.fs, handoffMetadataFile, rawMetadata, 0o644); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func NewHandoffStore(fs afero.Fs) *HandoffStore {
	return &HandoffStore{
		fs: fs,
	}
}

var _ port.HandoffStore = &HandoffStore{}
