package source

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/config"
)

// S3Client is the subset of *s3.Client used here.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3Opener struct {
	client S3Client
}

// NewS3Opener builds a client from the default AWS credential chain.
func NewS3Opener(ctx context.Context, cfg config.S3Config) (*S3Opener, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &S3Opener{client: client}, nil
}

func NewS3OpenerWithClient(client S3Client) *S3Opener {
	return &S3Opener{client: client}
}

func (o *S3Opener) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	out, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("s3 object %s/%s not found: %w", bucket, key, err)
		}
		return nil, fmt.Errorf("getting s3 object %s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}
