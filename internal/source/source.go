// Package source opens the text input of a run. Locations are local paths,
// file:// URLs, s3://bucket/key or minio://bucket/key objects. Inputs whose
// name ends in .zst or .lz4 are decompressed on the fly.
package source

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/errors"
)

// ObjectOpener streams one object out of a bucket.
type ObjectOpener interface {
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Resolver maps location schemes to object openers. Openers for s3 and minio
// are built from config on first use unless registered explicitly.
type Resolver struct {
	cfg     config.SourceConfig
	mu      sync.Mutex
	openers map[string]ObjectOpener
}

func NewResolver(cfg config.SourceConfig) *Resolver {
	return &Resolver{
		cfg:     cfg,
		openers: make(map[string]ObjectOpener),
	}
}

// Register installs opener for scheme, replacing any default.
func (r *Resolver) Register(scheme string, opener ObjectOpener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.openers[scheme] = opener
}

// Open returns a reader over the decompressed content at location.
func (r *Resolver) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	raw, name, err := r.openRaw(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w: %w", location, apperrors.ErrIO, err)
	}
	rc, err := decompress(raw, name)
	if err != nil {
		raw.Close()
		return nil, fmt.Errorf("decoding %s: %w: %w", location, apperrors.ErrIO, err)
	}
	return rc, nil
}

func (r *Resolver) openRaw(ctx context.Context, location string) (io.ReadCloser, string, error) {
	scheme, rest, found := strings.Cut(location, "://")
	if !found {
		f, err := os.Open(location)
		return f, location, err
	}
	switch scheme {
	case "file":
		u, err := url.Parse(location)
		if err != nil {
			return nil, "", err
		}
		f, err := os.Open(u.Path)
		return f, u.Path, err
	default:
		bucket, key, ok := strings.Cut(rest, "/")
		if !ok || bucket == "" || key == "" {
			return nil, "", fmt.Errorf("location must look like %s://bucket/key", scheme)
		}
		opener, err := r.opener(ctx, scheme)
		if err != nil {
			return nil, "", err
		}
		rc, err := opener.Open(ctx, bucket, key)
		return rc, key, err
	}
}

func (r *Resolver) opener(ctx context.Context, scheme string) (ObjectOpener, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.openers[scheme]; ok {
		return o, nil
	}
	var (
		o   ObjectOpener
		err error
	)
	switch scheme {
	case "s3":
		o, err = NewS3Opener(ctx, r.cfg.S3)
	case "minio":
		o, err = NewMinIOOpener(r.cfg.MinIO)
	default:
		return nil, fmt.Errorf("unsupported location scheme %q", scheme)
	}
	if err != nil {
		return nil, err
	}
	r.openers[scheme] = o
	return o, nil
}

func decompress(rc io.ReadCloser, name string) (io.ReadCloser, error) {
	switch path.Ext(name) {
	case ".zst":
		dec, err := zstd.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		return &stackedReader{Reader: dec, closers: []func() error{
			func() error { dec.Close(); return nil },
			rc.Close,
		}}, nil
	case ".lz4":
		return &stackedReader{Reader: lz4.NewReader(rc), closers: []func() error{rc.Close}}, nil
	default:
		return rc, nil
	}
}

// stackedReader reads through a decoder and closes every layer beneath it.
type stackedReader struct {
	io.Reader
	closers []func() error
}

func (s *stackedReader) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
