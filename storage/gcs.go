package storage

import (
	"context"
	"io"

	gcs "cloud.google.com/go/storage"

	"github.com/teranos/hourgen/errors"
)

// GCSAPI opens object readers and writers. Set STORAGE_EMULATOR_HOST to
// target an emulator.
type GCSAPI interface {
	NewWriter(ctx context.Context, bucket, object string) io.WriteCloser
	NewReader(ctx context.Context, bucket, object string) (io.ReadCloser, error)
}

type gcsClient struct {
	client *gcs.Client
}

func (g *gcsClient) NewWriter(ctx context.Context, bucket, object string) io.WriteCloser {
	w := g.client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = ContentType
	return w
}

func (g *gcsClient) NewReader(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	return g.client.Bucket(bucket).Object(object).NewReader(ctx)
}

func (o *Opener) gcsAPI(ctx context.Context) (GCSAPI, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.GCS != nil {
		return o.GCS, nil
	}

	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create GCS client")
	}
	o.GCS = &gcsClient{client: client}
	o.log().Debugw("Created GCS client")
	return o.GCS, nil
}

func (g *gcsClient) Close() error {
	return g.client.Close()
}
