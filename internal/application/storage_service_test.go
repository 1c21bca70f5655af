package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fretvault/api/internal/domain/entity"
	"github.com/fretvault/api/internal/testsupport/memrepo"
	"github.com/fretvault/api/pkg/helpers"
)

func newStorageFixture() (*StorageService, *fakeStore) {
	store := newFakeStore()
	return NewStorageService(memrepo.New().Files(), store, 15*time.Minute, 1<<20, nil), store
}

func TestStorageService_Unconfigured(t *testing.T) {
	svc := NewStorageService(memrepo.New().Files(), nil, time.Minute, 1<<20, nil)
	_, err := svc.CreateUpload(context.Background(), "u1", UploadInput{Filename: "a.pdf", ContentType: "application/pdf", SizeBytes: 10})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	_, err = svc.DownloadURL(context.Background(), "u1", "f1")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestStorageService_CreateUpload(t *testing.T) {
	svc, _ := newStorageFixture()
	ctx := context.Background()

	up, err := svc.CreateUpload(ctx, "u1", UploadInput{Filename: `C:\scores\Solo.PDF`, ContentType: "application/pdf; charset=binary", SizeBytes: 1000})
	require.NoError(t, err)
	assert.Equal(t, "PUT", up.Method)
	assert.Equal(t, map[string]string{"Content-Type": "application/pdf"}, up.Headers)
	assert.Equal(t, "Solo.PDF", up.File.Filename)
	assert.Equal(t, entity.FilePending, up.File.Status)
	assert.True(t, strings.HasPrefix(up.File.ObjectKey, "users/u1/"))
	assert.True(t, strings.HasSuffix(up.File.ObjectKey, ".pdf"))
	assert.Contains(t, up.URL, up.File.ObjectKey)

	noExt, err := svc.CreateUpload(ctx, "u1", UploadInput{Filename: "cover", ContentType: "image/png", SizeBytes: 10})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(noExt.File.ObjectKey, ".png"))

	cases := map[string]UploadInput{
		"content_type": {Filename: "x.exe", ContentType: "application/x-msdownload", SizeBytes: 10},
		"size_bytes":   {Filename: "x.pdf", ContentType: "application/pdf", SizeBytes: 2 << 20},
		"filename":     {Filename: "  ", ContentType: "application/pdf", SizeBytes: 10},
	}
	for field, in := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := svc.CreateUpload(ctx, "u1", in)
			var ie *InputError
			require.ErrorAs(t, err, &ie)
			assert.Contains(t, ie.Details, field)
		})
	}
}

func TestStorageService_CompleteAndDownload(t *testing.T) {
	svc, store := newStorageFixture()
	ctx := context.Background()
	up, err := svc.CreateUpload(ctx, "u1", UploadInput{Filename: "riff.gp5", ContentType: "application/octet-stream", SizeBytes: 500})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(up.File.ObjectKey, ".gp5"))

	_, err = svc.DownloadURL(ctx, "u1", up.File.ID)
	assert.ErrorIs(t, err, ErrConflict, "pending files have no download url")

	_, err = svc.CompleteUpload(ctx, "u1", up.File.ID)
	assert.ErrorIs(t, err, ErrUploadMissing)
	assert.ErrorIs(t, err, ErrConflict)

	store.objects[up.File.ObjectKey] = helpers.ObjectAttrs{Size: 480, ContentType: "application/octet-stream"}
	f, err := svc.CompleteUpload(ctx, "u1", up.File.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.FileUploaded, f.Status)
	assert.Equal(t, int64(480), f.SizeBytes)
	require.NotNil(t, f.UploadedAt)

	dl, err := svc.DownloadURL(ctx, "u1", up.File.ID)
	require.NoError(t, err)
	assert.Contains(t, dl.URL, "name=riff.gp5")

	_, err = svc.DownloadURL(ctx, "u2", up.File.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorageService_CompleteRejectsOversizedObject(t *testing.T) {
	svc, store := newStorageFixture()
	ctx := context.Background()
	up, err := svc.CreateUpload(ctx, "u1", UploadInput{Filename: "a.png", ContentType: "image/png", SizeBytes: 10})
	require.NoError(t, err)

	store.objects[up.File.ObjectKey] = helpers.ObjectAttrs{Size: 5 << 20}
	_, err = svc.CompleteUpload(ctx, "u1", up.File.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, []string{up.File.ObjectKey}, store.deleted)
}

func TestStorageService_Delete(t *testing.T) {
	svc, store := newStorageFixture()
	ctx := context.Background()
	up, err := svc.CreateUpload(ctx, "u1", UploadInput{Filename: "a.png", ContentType: "image/png", SizeBytes: 10})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "u2", up.File.ID), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, "u1", up.File.ID), "missing object is ignored")
	assert.Equal(t, []string{up.File.ObjectKey}, store.deleted)

	files, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, files)
}
