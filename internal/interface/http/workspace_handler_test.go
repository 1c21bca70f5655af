package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fretvault/api/internal/application"
)

func TestWorkspaces_Membership(t *testing.T) {
	api := newTestAPI(t, false)
	ada := api.register("ada@example.com", "Ada")
	bo := api.register("bo@example.com", "Bo")
	cy := api.register("cy@example.com", "Cy")

	res := api.do(http.MethodGet, "/api/workspaces", ada.Token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	var list []workspaceDTO
	res.data(t, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "personal", list[0].Kind)
	assert.Equal(t, "owner", list[0].Role)

	res = api.do(http.MethodPost, "/api/workspaces", ada.Token, map[string]any{"name": "The Band", "kind": "trio"})
	require.Equal(t, http.StatusBadRequest, res.Code)

	res = api.do(http.MethodPost, "/api/workspaces", ada.Token, map[string]any{"name": "The Band"})
	require.Equal(t, http.StatusCreated, res.Code, string(res.Body))
	var ws workspaceDTO
	res.data(t, &ws)
	assert.Equal(t, "band", ws.Kind)
	assert.Equal(t, "the-band", ws.Slug)

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/workspaces/"+ws.ID, bo.Token, nil).Code)

	res = api.do(http.MethodPost, "/api/workspaces/"+ws.ID+"/members", ada.Token, map[string]any{"email": "bo@example.com", "role": "owner"})
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "must be one of: editor, viewer", res.details(t)["role"])

	res = api.do(http.MethodPost, "/api/workspaces/"+ws.ID+"/members", ada.Token, map[string]any{"email": "nobody@example.com", "role": "viewer"})
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.details(t), "email")

	res = api.do(http.MethodPost, "/api/workspaces/"+ws.ID+"/members", ada.Token, map[string]any{"email": "bo@example.com", "role": "viewer"})
	require.Equal(t, http.StatusCreated, res.Code, string(res.Body))
	res = api.do(http.MethodPost, "/api/workspaces/"+ws.ID+"/members", ada.Token, map[string]any{"email": "bo@example.com", "role": "editor"})
	assert.Equal(t, http.StatusConflict, res.Code)

	// viewers cannot manage members
	res = api.do(http.MethodPost, "/api/workspaces/"+ws.ID+"/members", bo.Token, map[string]any{"email": "cy@example.com", "role": "viewer"})
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = api.do(http.MethodGet, "/api/workspaces/"+ws.ID, bo.Token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	var detail workspaceDetailDTO
	res.data(t, &detail)
	assert.Equal(t, "viewer", detail.Role)
	assert.Len(t, detail.Members, 2)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodDelete, "/api/workspaces/"+ws.ID+"/members/"+ada.UserID, ada.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, "/api/workspaces/"+ws.ID+"/members/"+bo.UserID, cy.Token, nil).Code)
	require.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/api/workspaces/"+ws.ID+"/members/"+bo.UserID, bo.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/workspaces/"+ws.ID, bo.Token, nil).Code)
}

func TestNotes_LinksRenderExport(t *testing.T) {
	api := newTestAPI(t, false)
	ada := api.register("ada@example.com", "Ada")
	bo := api.register("bo@example.com", "Bo")

	res := api.do(http.MethodPost, "/api/workspaces", ada.Token, map[string]any{"name": "Lessons"})
	var ws workspaceDTO
	res.data(t, &ws)
	base := "/api/workspaces/" + ws.ID + "/notes"

	res = api.do(http.MethodPost, base, ada.Token, map[string]any{"title": "CAGED System", "content": "Five shapes."})
	require.Equal(t, http.StatusCreated, res.Code, string(res.Body))
	var caged noteDTO
	res.data(t, &caged)
	assert.Equal(t, "caged-system", caged.Slug)

	res = api.do(http.MethodPost, base, ada.Token, map[string]any{"title": "Bad", "slug": "Not A Slug"})
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "must contain only lowercase letters, digits and single hyphens", res.details(t)["slug"])

	res = api.do(http.MethodPost, base, ada.Token, map[string]any{"title": "CAGED System"})
	assert.Equal(t, http.StatusConflict, res.Code)

	content := "See [[caged-system|the CAGED]] and [[Modes]].\n\n`[[not-a-link]]`\n"
	res = api.do(http.MethodPost, base, ada.Token, map[string]any{"title": "Fretboard map", "content": content})
	require.Equal(t, http.StatusCreated, res.Code, string(res.Body))

	res = api.do(http.MethodGet, base+"/fretboard-map/links", ada.Token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	var links []application.LinkStatus
	res.data(t, &links)
	require.Len(t, links, 2)
	assert.Equal(t, application.LinkResolved, links[0].Status)
	assert.Equal(t, caged.ID, links[0].NoteID)
	assert.Equal(t, "modes", links[1].Target)
	assert.Equal(t, application.LinkMissing, links[1].Status)

	res = api.do(http.MethodGet, base+"/caged-system/backlinks", ada.Token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	var back []noteSummaryDTO
	res.data(t, &back)
	require.Len(t, back, 1)
	assert.Equal(t, "fretboard-map", back[0].Slug)

	res = api.do(http.MethodGet, base+"/fretboard-map/render", ada.Token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.True(t, strings.HasPrefix(res.Header.Get("Content-Type"), "text/html"))
	html := string(res.Body)
	assert.Contains(t, html, `<a class="internal-link" href="/workspaces/`+ws.ID+`/notes/caged-system"`)
	assert.Contains(t, html, `internal-link-missing`)
	assert.Contains(t, html, `<code>[[not-a-link]]</code>`)

	res = api.do(http.MethodGet, base+"/fretboard-map/markdown", ada.Token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.True(t, strings.HasPrefix(res.Header.Get("Content-Type"), "text/markdown"))
	md := string(res.Body)
	assert.Contains(t, md, "[the CAGED](/workspaces/"+ws.ID+"/notes/caged-system)")
	assert.Contains(t, md, "and Modes.")
	assert.Contains(t, md, "`[[not-a-link]]`")

	// viewers read but do not write
	api.do(http.MethodPost, "/api/workspaces/"+ws.ID+"/members", ada.Token, map[string]any{"email": "bo@example.com", "role": "viewer"})
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, base+"/caged-system", bo.Token, nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, base, bo.Token, map[string]any{"title": "Mine"}).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, base+"/caged-system", bo.Token, nil).Code)

	res = api.do(http.MethodPatch, base+"/caged-system", ada.Token, map[string]any{"slug": "caged"})
	require.Equal(t, http.StatusOK, res.Code, string(res.Body))
	res = api.do(http.MethodGet, base+"/fretboard-map/links", ada.Token, nil)
	res.data(t, &links)
	assert.Equal(t, application.LinkMissing, links[0].Status)

	res = api.do(http.MethodGet, base+"/search?q=caged", ada.Token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `[]`, string(res.Env.Data))

	res = api.do(http.MethodGet, base, ada.Token, nil)
	var notes []noteSummaryDTO
	res.data(t, &notes)
	assert.Len(t, notes, 2)

	require.Equal(t, http.StatusOK, api.do(http.MethodDelete, base+"/caged", ada.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, base+"/caged", ada.Token, nil).Code)
}
