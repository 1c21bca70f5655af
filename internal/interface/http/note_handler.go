package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fretvault/api/internal/application"
	"github.com/fretvault/api/pkg/response"
)

type NoteHandler struct {
	Svc    *application.NoteService
	Logger *logrus.Logger
}

func NewNoteHandler(svc *application.NoteService, logger *logrus.Logger) *NoteHandler {
	return &NoteHandler{Svc: svc, Logger: logger}
}

type noteRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Slug    string `json:"slug" binding:"omitempty,max=100,slug"`
	Content string `json:"content" binding:"max=100000"`
}

type notePatchRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=200"`
	Slug    *string `json:"slug" binding:"omitempty,max=100,slug"`
	Content *string `json:"content" binding:"omitempty,max=100000"`
}

// List GET /api/workspaces/:id/notes
func (h *NoteHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	out := toNoteSummaryDTOs(list)
	response.Success(c, http.StatusOK, out, "notes", response.Page{Count: len(out)})
}

// Create POST /api/workspaces/:id/notes
func (h *NoteHandler) Create(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	n, err := h.Svc.Create(c.Request.Context(), userID(c), c.Param("id"), application.NoteInput{
		Title:   req.Title,
		Slug:    req.Slug,
		Content: req.Content,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toNoteDTO(n), "note created", nil)
}

// Get GET /api/workspaces/:id/notes/:slug
func (h *NoteHandler) Get(c *gin.Context) {
	n, err := h.Svc.Get(c.Request.Context(), userID(c), c.Param("id"), c.Param("slug"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toNoteDTO(n), "note", nil)
}

// Update PATCH /api/workspaces/:id/notes/:slug
func (h *NoteHandler) Update(c *gin.Context) {
	var req notePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	n, err := h.Svc.Update(c.Request.Context(), userID(c), c.Param("id"), c.Param("slug"), application.NotePatch{
		Title:   req.Title,
		Slug:    req.Slug,
		Content: req.Content,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toNoteDTO(n), "note updated", nil)
}

// Delete DELETE /api/workspaces/:id/notes/:slug
func (h *NoteHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), userID(c), c.Param("id"), c.Param("slug")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "note deleted", nil)
}

// Links GET /api/workspaces/:id/notes/:slug/links
func (h *NoteHandler) Links(c *gin.Context) {
	links, err := h.Svc.Links(c.Request.Context(), userID(c), c.Param("id"), c.Param("slug"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, links, "note links", response.Page{Count: len(links)})
}

// Backlinks GET /api/workspaces/:id/notes/:slug/backlinks
func (h *NoteHandler) Backlinks(c *gin.Context) {
	list, err := h.Svc.Backlinks(c.Request.Context(), userID(c), c.Param("id"), c.Param("slug"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	out := toNoteSummaryDTOs(list)
	response.Success(c, http.StatusOK, out, "note backlinks", response.Page{Count: len(out)})
}

// Render GET /api/workspaces/:id/notes/:slug/render
func (h *NoteHandler) Render(c *gin.Context) {
	_, html, err := h.Svc.Render(c.Request.Context(), userID(c), c.Param("id"), c.Param("slug"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

// Markdown GET /api/workspaces/:id/notes/:slug/markdown
func (h *NoteHandler) Markdown(c *gin.Context) {
	n, md, err := h.Svc.Markdown(c.Request.Context(), userID(c), c.Param("id"), c.Param("slug"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+n.Slug+`.md"`)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", md)
}

// Search GET /api/workspaces/:id/notes/search
func (h *NoteHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badPayload(c, err)
		return
	}
	hits, err := h.Svc.SearchNotes(c.Request.Context(), userID(c), c.Param("id"), q.Q, q.Size)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "note search", response.Page{Count: len(hits)})
}
