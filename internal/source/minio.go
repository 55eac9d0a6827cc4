package source

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/config"
)

type MinIOOpener struct {
	client *minio.Client
}

func NewMinIOOpener(cfg config.MinIOConfig) (*MinIOOpener, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client for %s: %w", cfg.Endpoint, err)
	}
	return &MinIOOpener{client: client}, nil
}

// Open streams the object. minio defers request errors to the first read,
// so the object is stat'ed up front to fail early on a missing key.
func (o *MinIOOpener) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := o.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("getting minio object %s/%s: %w", bucket, key, err)
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, fmt.Errorf("minio object %s/%s not found: %w", bucket, key, err)
		}
		return nil, fmt.Errorf("stat minio object %s/%s: %w", bucket, key, err)
	}
	return obj, nil
}
