package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabs_RevisionsAndRestore(t *testing.T) {
	api := newTestAPI(t, false)
	ada := api.register("ada@example.com", "Ada")
	bo := api.register("bo@example.com", "Bo")

	res := api.do(http.MethodPost, "/api/tabs", ada.Token, map[string]any{"title": "Wish You Were Here", "artist": "Pink Floyd", "capo": 30})
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "must be at most 24", res.details(t)["capo"])

	res = api.do(http.MethodPost, "/api/tabs", ada.Token, map[string]any{"title": "Wish You Were Here", "artist": "Pink Floyd", "content": "e|-3-"})
	require.Equal(t, http.StatusCreated, res.Code, string(res.Body))
	var tab tabDTO
	res.data(t, &tab)
	assert.Equal(t, 1, tab.Version)
	assert.Equal(t, "EADGBE", tab.Tuning)

	res = api.do(http.MethodPatch, "/api/tabs/"+tab.ID, ada.Token, map[string]any{"content": "e|-3-"})
	require.Equal(t, http.StatusOK, res.Code)
	res.data(t, &tab)
	assert.Equal(t, 1, tab.Version, "no-op patch keeps the version")

	res = api.do(http.MethodPatch, "/api/tabs/"+tab.ID, ada.Token, map[string]any{"content": "e|-3-5-", "capo": 2})
	require.Equal(t, http.StatusOK, res.Code)
	res.data(t, &tab)
	assert.Equal(t, 2, tab.Version)

	res = api.do(http.MethodGet, "/api/tabs/"+tab.ID+"/revisions", ada.Token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	var revs []revisionDTO
	res.data(t, &revs)
	require.Len(t, revs, 2)
	assert.Equal(t, 2, revs[0].Version)
	assert.Equal(t, "Version 2", revs[0].Message)
	assert.Empty(t, revs[0].Content)

	res = api.do(http.MethodGet, "/api/tabs/"+tab.ID+"/revisions/1", ada.Token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	var rev revisionDTO
	res.data(t, &rev)
	assert.Equal(t, "e|-3-", rev.Content)
	assert.Equal(t, "Initial version", rev.Message)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/tabs/"+tab.ID+"/revisions/zero", ada.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/tabs/"+tab.ID+"/revisions/9", ada.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/tabs/"+tab.ID+"/revisions/1", bo.Token, nil).Code)

	res = api.do(http.MethodPost, "/api/tabs/"+tab.ID+"/revisions/1/restore", ada.Token, nil)
	require.Equal(t, http.StatusOK, res.Code, string(res.Body))
	res.data(t, &tab)
	assert.Equal(t, 3, tab.Version)
	assert.Equal(t, "e|-3-", tab.Content)
	assert.Equal(t, 0, tab.Capo)

	res = api.do(http.MethodGet, "/api/tabs?q=floyd", ada.Token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	var list []tabDTO
	res.data(t, &list)
	assert.Len(t, list, 1)
	res = api.do(http.MethodGet, "/api/tabs", bo.Token, nil)
	res.data(t, &list)
	assert.Empty(t, list)

	res = api.do(http.MethodGet, "/api/tabs/search?q=floyd", ada.Token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `[]`, string(res.Env.Data))

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, "/api/tabs/"+tab.ID, bo.Token, nil).Code)
	require.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/api/tabs/"+tab.ID, ada.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/tabs/"+tab.ID, ada.Token, nil).Code)
}
