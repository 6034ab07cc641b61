package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	objects map[string][]byte
}

func (f *fakeAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeAPI) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestStore_UploadDownload(t *testing.T) {
	api := &fakeAPI{objects: map[string][]byte{}}
	store := NewStore(api)
	dir := t.TempDir()

	src := filepath.Join(dir, "src")
	require.NoError(t, os.WriteFile(src, []byte("line1\nline2\n"), 0o600))

	loc := Location{Bucket: "backups", Key: "nomad/jobs"}
	require.NoError(t, store.Upload(context.Background(), loc, src))
	assert.Equal(t, []byte("line1\nline2\n"), api.objects["backups/nomad/jobs"])

	dst := filepath.Join(dir, "dst")
	require.NoError(t, store.Download(context.Background(), loc, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2\n", string(data))
}

func TestStore_DownloadMissing(t *testing.T) {
	store := NewStore(&fakeAPI{objects: map[string][]byte{}})
	dst := filepath.Join(t.TempDir(), "dst")

	err := store.Download(context.Background(), Location{Bucket: "b", Key: "k"}, dst)
	require.Error(t, err)

	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
}

func TestStore_UploadMissingFile(t *testing.T) {
	store := NewStore(&fakeAPI{objects: map[string][]byte{}})
	err := store.Upload(context.Background(), Location{Bucket: "b", Key: "k"}, filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
