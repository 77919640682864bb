package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveExistsDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir(), "/storage")
	require.NoError(t, err)
	store.now = func() time.Time { return time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC) }

	key, err := store.Save(ctx, strings.NewReader("jpeg-bytes"), "galleries/images", "JPG", "image/jpeg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "galleries/images/2026/03/"), key)
	assert.True(t, strings.HasSuffix(key, ".jpg"), key)

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "/storage/"+key, store.URL(key))

	require.NoError(t, store.Delete(ctx, key))
	exists, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	// 重复删除不报错
	require.NoError(t, store.Delete(ctx, key))
}

func TestLocalStorageNeverReusesNames(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	a, err := store.Save(ctx, strings.NewReader("a"), "grooms/photos", ".png", "")
	require.NoError(t, err)
	b, err := store.Save(ctx, strings.NewReader("b"), "grooms/photos", ".png", "")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCleanRelativeRejectsTraversal(t *testing.T) {
	for _, p := range []string{"", "/", "..", "../etc/passwd", "a/../../b"} {
		_, err := cleanRelative(p)
		assert.ErrorIs(t, err, ErrInvalidPath, p)
	}
	got, err := cleanRelative("/galleries//images/x.jpg")
	require.NoError(t, err)
	assert.Equal(t, "galleries/images/x.jpg", got)
}

type fakeS3 struct {
	objects map[string][]byte
	putErr  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[*in.Key]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3StorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}}
	store := NewS3StorageWithClient(fake, "undangan-assets", "https://cdn.example.com/")

	key, err := store.Save(ctx, bytes.NewReader([]byte("mp4")), "galleries/videos", ".mp4", "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, []byte("mp4"), fake.objects[key])
	assert.Equal(t, "https://cdn.example.com/"+key, store.URL(key))

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, key))
	exists, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestS3StorageSaveError(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, putErr: errors.New("access denied")}
	store := NewS3StorageWithClient(fake, "bucket", "")
	_, err := store.Save(context.Background(), strings.NewReader("x"), "musics/audio", ".mp3", "audio/mpeg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}
