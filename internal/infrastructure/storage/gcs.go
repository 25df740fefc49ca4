package storage

import (
	"context"
	"io"
	"path"

	gcs "cloud.google.com/go/storage"

	"github.com/oksasatya/dog-registry/pkg/helpers"
)

// GCSStore keeps avatars in a bucket under Prefix.
type GCSStore struct {
	Client *gcs.Client
	Bucket string
	Prefix string
}

func NewGCSStore(client *gcs.Client, bucket, prefix string) *GCSStore {
	return &GCSStore{Client: client, Bucket: bucket, Prefix: prefix}
}

func (s *GCSStore) Put(ctx context.Context, name, contentType string, r io.Reader) error {
	return helpers.UploadObject(ctx, s.Client, s.Bucket, path.Join(s.Prefix, name), contentType, r)
}

func (s *GCSStore) Delete(ctx context.Context, name string) error {
	return helpers.DeleteObject(ctx, s.Client, s.Bucket, path.Join(s.Prefix, name))
}

var _ helpers.ObjectStore = (*GCSStore)(nil)
