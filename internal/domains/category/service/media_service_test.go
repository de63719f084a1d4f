package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"marketplace-backend/internal/domains/category/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBucketURL = "http://minio:9000/categories"

type mediaFixture struct {
	svc    MediaService
	repo   *memRepo
	store  *fakeStore
	images *fakeImages
	tasks  *fakeEnqueuer
}

func newMediaFixture(t *testing.T) *mediaFixture {
	t.Helper()
	f := &mediaFixture{
		repo:   newMemRepo(),
		store:  &fakeStore{base: testBucketURL},
		images: &fakeImages{},
		tasks:  &fakeEnqueuer{},
	}
	f.svc = NewMediaService(f.repo, f.store, f.images, f.tasks, nil)
	f.repo.put(1, "Men", nil)
	return f
}

func TestParseMediaKind(t *testing.T) {
	kind, err := ParseMediaKind("icon")
	require.NoError(t, err)
	assert.Equal(t, MediaIcon, kind)
	assert.Equal(t, 128, kind.Size())
	assert.Equal(t, 800, MediaImage.Size())

	_, err = ParseMediaKind("banner")
	assert.ErrorIs(t, err, model.ErrInvalidMedia)
}

func TestMediaUpload_ReplacesImage(t *testing.T) {
	f := newMediaFixture(t)
	old := testBucketURL + "/categories/1/image-old.jpg"
	row := f.repo.rows[1]
	row.Image = &old
	f.repo.rows[1] = row

	url, err := f.svc.Upload(context.Background(), 1, MediaImage, []byte("jpeg"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, testBucketURL+"/categories/1/image-"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))
	assert.Equal(t, url, *f.repo.rows[1].Image)
	assert.Equal(t, []int{800}, f.images.sizes)

	require.Len(t, f.tasks.payloads, 1)
	assert.Equal(t, int64(1), f.tasks.payloads[0].CategoryID)
	assert.Equal(t, "categories/1/image-old.jpg", f.tasks.payloads[0].ObjectKey)
}

func TestMediaUpload_Icon(t *testing.T) {
	f := newMediaFixture(t)
	foreign := "https://elsewhere.example.com/icon.png"
	row := f.repo.rows[1]
	row.Icon = &foreign
	f.repo.rows[1] = row

	url, err := f.svc.Upload(context.Background(), 1, MediaIcon, []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, url, *f.repo.rows[1].Icon)
	assert.Nil(t, f.repo.rows[1].Image)
	assert.Equal(t, []int{128}, f.images.sizes)

	// objects outside the bucket are never deleted
	assert.Empty(t, f.tasks.payloads)
}

func TestMediaUpload_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid image", func(t *testing.T) {
		f := newMediaFixture(t)
		f.images.invalid = errors.New("image format gif not allowed")

		_, err := f.svc.Upload(ctx, 1, MediaImage, []byte("gif"))
		assert.ErrorIs(t, err, model.ErrInvalidMedia)
		assert.Equal(t, "image format gif not allowed", model.GetErrorMessage(err))
		assert.Empty(t, f.store.uploaded)
	})

	t.Run("unknown category removes the upload", func(t *testing.T) {
		f := newMediaFixture(t)

		_, err := f.svc.Upload(ctx, 42, MediaImage, []byte("jpeg"))
		assert.ErrorIs(t, err, model.ErrNotFound)
		require.Len(t, f.store.uploaded, 1)
		assert.Equal(t, f.store.uploaded, f.store.deleted)
	})

	t.Run("storage down", func(t *testing.T) {
		f := newMediaFixture(t)
		f.store.uploadErr = errors.New("dial tcp: refused")

		_, err := f.svc.Upload(ctx, 1, MediaImage, []byte("jpeg"))
		assert.ErrorIs(t, err, model.ErrStorageFailure)
		assert.Nil(t, f.repo.rows[1].Image)
	})
}

func TestMediaDeleteObject(t *testing.T) {
	f := newMediaFixture(t)
	require.NoError(t, f.svc.DeleteObject(context.Background(), "categories/1/icon-a.jpg"))
	assert.Equal(t, []string{"categories/1/icon-a.jpg"}, f.store.deleted)
}
