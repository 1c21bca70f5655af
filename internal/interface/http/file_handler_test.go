package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fretvault/api/pkg/helpers"
)

func TestFiles_UploadLifecycle(t *testing.T) {
	api := newTestAPI(t, true)
	ada := api.register("ada@example.com", "Ada")
	bo := api.register("bo@example.com", "Bo")

	res := api.do(http.MethodPost, "/api/files/upload-url", ada.Token, map[string]any{
		"filename": "run.exe", "content_type": "application/x-msdownload", "size_bytes": 10,
	})
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.details(t), "content_type")

	res = api.do(http.MethodPost, "/api/files/upload-url", ada.Token, map[string]any{
		"filename": "big.pdf", "content_type": "application/pdf", "size_bytes": 2 << 20,
	})
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.details(t), "size_bytes")

	res = api.do(http.MethodPost, "/api/files/upload-url", ada.Token, map[string]any{
		"filename": `C:\charts\Lesson 1.PDF`, "content_type": "application/pdf; charset=binary", "size_bytes": 1024,
	})
	require.Equal(t, http.StatusCreated, res.Code, string(res.Body))
	var up uploadDTO
	res.data(t, &up)
	assert.Equal(t, "PUT", up.Method)
	assert.Equal(t, "application/pdf", up.Headers["Content-Type"])
	assert.Equal(t, "Lesson 1.PDF", up.File.Filename)
	assert.Equal(t, "pending", up.File.Status)
	assert.Contains(t, up.UploadURL, "users/"+ada.UserID+"/")

	id := up.File.ID
	res = api.do(http.MethodGet, "/api/files/"+id+"/download-url", ada.Token, nil)
	assert.Equal(t, http.StatusConflict, res.Code)
	res = api.do(http.MethodPost, "/api/files/"+id+"/complete", ada.Token, nil)
	assert.Equal(t, http.StatusConflict, res.Code)

	key := strings.TrimPrefix(strings.SplitN(up.UploadURL, "?", 2)[0], "https://storage.test/")
	api.files.objects[key] = helpers.ObjectAttrs{Size: 1000, ContentType: "application/pdf"}

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPost, "/api/files/"+id+"/complete", bo.Token, nil).Code)
	res = api.do(http.MethodPost, "/api/files/"+id+"/complete", ada.Token, nil)
	require.Equal(t, http.StatusOK, res.Code, string(res.Body))
	var f fileDTO
	res.data(t, &f)
	assert.Equal(t, "uploaded", f.Status)
	assert.EqualValues(t, 1000, f.SizeBytes)
	assert.NotNil(t, f.UploadedAt)

	res = api.do(http.MethodGet, "/api/files/"+id+"/download-url", ada.Token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	var dl downloadDTO
	res.data(t, &dl)
	assert.Contains(t, dl.URL, "sig=get")

	res = api.do(http.MethodGet, "/api/files", ada.Token, nil)
	var files []fileDTO
	res.data(t, &files)
	assert.Len(t, files, 1)

	require.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/api/files/"+id, ada.Token, nil).Code)
	assert.NotContains(t, api.files.objects, key)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, "/api/files/"+id, ada.Token, nil).Code)
}

func TestFiles_StorageNotConfigured(t *testing.T) {
	api := newTestAPI(t, false)
	ada := api.register("ada@example.com", "Ada")

	res := api.do(http.MethodPost, "/api/files/upload-url", ada.Token, map[string]any{
		"filename": "a.png", "content_type": "image/png", "size_bytes": 10,
	})
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)

	res = api.do(http.MethodGet, "/api/files", ada.Token, nil)
	assert.Equal(t, http.StatusOK, res.Code)
}
