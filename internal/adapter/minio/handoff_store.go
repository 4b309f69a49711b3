package minio

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

const (
	handoffObject   = "handoff"
	metadataName    = "Name"
	metadataOrigin  = "Origin"
	userMetadataKey = "X-Amz-Meta-"
)

// HandoffStore keeps the handoff slot as a single object, payload name and
// origin being stored as user metadata.
type HandoffStore struct {
	client *minio.Client
	bucket string
	key    string
}

// Get implements [port.HandoffStore].
func (s *HandoffStore) Get(ctx context.Context) (*model.ChainPayload, error) {
	object, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer object.Close()

	stat, err := object.Stat()
	if err != nil {
		if minio.ToErrorResponse(err).StatusCode == http.StatusNotFound {
			return nil, errors.WithStack(port.ErrNotFound)
		}

		return nil, errors.WithStack(err)
	}

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &model.ChainPayload{
		Name:        userMetadata(stat, metadataName),
		ContentType: stat.ContentType,
		Origin:      userMetadata(stat, metadataOrigin),
		Data:        data,
	}, nil
}

// Put implements [port.HandoffStore].
func (s *HandoffStore) Put(ctx context.Context, payload *model.ChainPayload) error {
	if payload == nil {
		return errors.New("payload is nil")
	}

	_, err := s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(payload.Data), int64(len(payload.Data)), minio.PutObjectOptions{
		ContentType: payload.ContentType,
		UserMetadata: map[string]string{
			metadataName:   payload.Name,
			metadataOrigin: payload.Origin,
		},
	})
	if err != nil {
		return errors.Wrapf(err, "could not upload object '%s'", s.key)
	}

	return nil
}

func userMetadata(stat minio.ObjectInfo, key string) string {
	if value, exists := stat.UserMetadata[key]; exists {
		return value
	}

	return stat.Metadata.Get(userMetadataKey + key)
}

func NewHandoffStore(client *minio.Client, bucket string, prefix string) *HandoffStore {
	return &HandoffStore{
		client: client,
		bucket: bucket,
		key:    path.Join(prefix, handoffObject),
	}
}

var _ port.HandoffStore = &HandoffStore{}
