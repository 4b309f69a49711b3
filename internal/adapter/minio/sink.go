package minio

import (
	"bytes"
	"context"
	"path"

	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

// Sink uploads delivered files as objects under a prefix of a bucket.
type Sink struct {
	client *minio.Client
	bucket string
	prefix string
}

// Save implements [port.Sink].
func (s *Sink) Save(ctx context.Context, name string, contentType string, data []byte) error {
	if name == "" || path.Base(name) != name {
		return errors.Errorf("invalid file name '%s'", name)
	}

	key := path.Join(s.prefix, name)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return errors.Wrapf(err, "could not upload object '%s'", key)
	}

	return nil
}

func NewSink(client *minio.Client, bucket string, prefix string) *Sink {
	return &Sink{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

var _ port.Sink = &Sink{}
