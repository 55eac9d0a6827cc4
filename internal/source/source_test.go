package source

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/errors"
)

const corpusText = "first line\nsecond line\nthird line\n"

func readAll(t *testing.T, r *Resolver, location string) string {
	t.Helper()
	rc, err := r.Open(context.Background(), location)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestOpenLocalPlain(t *testing.T) {
	p := writeFile(t, "corpus.txt", []byte(corpusText))
	r := NewResolver(config.SourceConfig{})
	assert.Equal(t, corpusText, readAll(t, r, p))
	assert.Equal(t, corpusText, readAll(t, r, "file://"+p))
}

func TestOpenLocalZstd(t *testing.T) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write([]byte(corpusText))
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	p := writeFile(t, "corpus.txt.zst", buf.Bytes())
	assert.Equal(t, corpusText, readAll(t, NewResolver(config.SourceConfig{}), p))
}

func TestOpenLocalLZ4(t *testing.T) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	_, err := zw.Write([]byte(corpusText))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	p := writeFile(t, "corpus.txt.lz4", buf.Bytes())
	assert.Equal(t, corpusText, readAll(t, NewResolver(config.SourceConfig{}), p))
}

func TestOpenMissingFile(t *testing.T) {
	_, err := NewResolver(config.SourceConfig{}).Open(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenCorruptZstd(t *testing.T) {
	p := writeFile(t, "bad.zst", []byte("definitely not zstd"))
	rc, err := NewResolver(config.SourceConfig{}).Open(context.Background(), p)
	if err == nil {
		// the decoder may only notice on first read
		_, err = io.ReadAll(rc)
		rc.Close()
	}
	assert.Error(t, err)
}

type fakeS3 struct {
	objects map[string]string
	lastKey string
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.lastKey = *in.Bucket + "/" + *in.Key
	body, ok := f.objects[f.lastKey]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestOpenS3(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"corpora/books/moby.txt": corpusText}}
	r := NewResolver(config.SourceConfig{})
	r.Register("s3", NewS3OpenerWithClient(fake))

	assert.Equal(t, corpusText, readAll(t, r, "s3://corpora/books/moby.txt"))
	assert.Equal(t, "corpora/books/moby.txt", fake.lastKey)

	_, err := r.Open(context.Background(), "s3://corpora/missing.txt")
	require.Error(t, err)
	var nsk *types.NoSuchKey
	assert.ErrorAs(t, err, &nsk)
	assert.ErrorIs(t, err, apperrors.ErrIO)
}

type memOpener map[string]string

func (m memOpener) Open(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	body, ok := m[bucket+"/"+key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func TestOpenRegisteredScheme(t *testing.T) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	_, err := zw.Write([]byte(corpusText))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	r := NewResolver(config.SourceConfig{})
	r.Register("minio", memOpener{"bucket/data.lz4": buf.String()})
	assert.Equal(t, corpusText, readAll(t, r, "minio://bucket/data.lz4"))
}

func TestOpenBadLocations(t *testing.T) {
	r := NewResolver(config.SourceConfig{})
	for _, loc := range []string{"ftp://host/file", "s3://bucket-only", "s3:///key"} {
		_, err := r.Open(context.Background(), loc)
		assert.Error(t, err, loc)
	}
}

func TestNewMinIOOpener(t *testing.T) {
	o, err := NewMinIOOpener(config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)
	assert.NotNil(t, o.client)
}
