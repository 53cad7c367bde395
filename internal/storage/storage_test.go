package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	base := t.TempDir()
	s, err := NewLocalStorage(Config{BasePath: base})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "avatars/a.png", strings.NewReader("png-bytes"), "image/png"))

	data, err := os.ReadFile(filepath.Join(base, "avatars", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "/avatars/a.png", s.GetURL("avatars/a.png"))

	require.NoError(t, s.Delete(ctx, "avatars/a.png"))
	_, err = os.Stat(filepath.Join(base, "avatars", "a.png"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// повторное удаление - не ошибка
	assert.NoError(t, s.Delete(ctx, "avatars/a.png"))
}

func TestLocalStorage_PathTraversal(t *testing.T) {
	base := t.TempDir()
	s, err := NewLocalStorage(Config{BasePath: base})
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "../../escape.txt", strings.NewReader("x"), "text/plain"))
	_, err = os.Stat(filepath.Join(base, "escape.txt"))
	assert.NoError(t, err)

	assert.Error(t, s.Save(context.Background(), "/", strings.NewReader("x"), "text/plain"))
}

func TestLocalStorage_BaseURL(t *testing.T) {
	s, err := NewLocalStorage(Config{BasePath: t.TempDir(), BaseURL: "https://cdn.example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/avatars/a.png", s.GetURL("avatars/a.png"))
}

type fakeObjectAPI struct {
	puts    map[string]string
	deleted []string
	err     error
}

func (f *fakeObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.puts[*params.Bucket+"/"+*params.Key] = string(body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, *params.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Storage(t *testing.T) {
	api := &fakeObjectAPI{puts: map[string]string{}}
	s := newS3Storage(api, Config{Bucket: "avatars-bucket", Endpoint: "http://localhost:9000"})
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "/avatars/a.png", strings.NewReader("img"), "image/png"))
	assert.Equal(t, "img", api.puts["avatars-bucket/avatars/a.png"])
	assert.Equal(t, "http://localhost:9000/avatars-bucket/avatars/a.png", s.GetURL("avatars/a.png"))

	require.NoError(t, s.Delete(ctx, "avatars/a.png"))
	assert.Equal(t, []string{"avatars/a.png"}, api.deleted)

	api.err = errors.New("network down")
	assert.Error(t, s.Save(ctx, "avatars/b.png", strings.NewReader("img"), "image/png"))
}

func TestS3Storage_DefaultURL(t *testing.T) {
	s := newS3Storage(&fakeObjectAPI{}, Config{Bucket: "b", Region: "eu-central-1"})
	assert.Equal(t, "https://b.s3.eu-central-1.amazonaws.com/x.png", s.GetURL("x.png"))
}

func TestNewStorage_UnknownType(t *testing.T) {
	_, err := NewStorage(context.Background(), Config{Type: "ftp"})
	assert.Error(t, err)
}

func TestNewS3Storage_RequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), Config{Type: TypeS3})
	assert.Error(t, err)
}
