package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fretvault/api/internal/application"
	repo "github.com/fretvault/api/internal/domain/repository"
	"github.com/fretvault/api/pkg/response"
)

type TabHandler struct {
	Svc    *application.TabService
	Logger *logrus.Logger
}

func NewTabHandler(svc *application.TabService, logger *logrus.Logger) *TabHandler {
	return &TabHandler{Svc: svc, Logger: logger}
}

type listTabsQuery struct {
	Q      string `form:"q" binding:"max=200"`
	Artist string `form:"artist" binding:"max=200"`
}

type searchQuery struct {
	Q    string `form:"q" binding:"max=200"`
	Size int    `form:"size" binding:"omitempty,min=1,max=50"`
}

type tabRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Artist  string `json:"artist" binding:"max=200"`
	Tuning  string `json:"tuning" binding:"max=32"`
	Capo    int    `json:"capo" binding:"min=0,max=24"`
	Content string `json:"content" binding:"max=200000"`
	Message string `json:"message" binding:"max=200"`
}

type tabPatchRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=200"`
	Artist  *string `json:"artist" binding:"omitempty,max=200"`
	Tuning  *string `json:"tuning" binding:"omitempty,max=32"`
	Capo    *int    `json:"capo" binding:"omitempty,min=0,max=24"`
	Content *string `json:"content" binding:"omitempty,max=200000"`
	Message string  `json:"message" binding:"max=200"`
}

func versionParam(c *gin.Context) (int, bool) {
	v, err := strconv.Atoi(c.Param("version"))
	if err != nil || v < 1 {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"version": "must be a positive integer"})
		return 0, false
	}
	return v, true
}

// List GET /api/tabs
func (h *TabHandler) List(c *gin.Context) {
	var q listTabsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badPayload(c, err)
		return
	}
	tabs, err := h.Svc.List(c.Request.Context(), userID(c), repo.TabFilter{Query: q.Q, Artist: q.Artist})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	out := make([]tabDTO, 0, len(tabs))
	for i := range tabs {
		out = append(out, toTabDTO(&tabs[i]))
	}
	response.Success(c, http.StatusOK, out, "tabs", response.Page{Count: len(out)})
}

// Create POST /api/tabs
func (h *TabHandler) Create(c *gin.Context) {
	var req tabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), userID(c), application.TabInput{
		Title:   req.Title,
		Artist:  req.Artist,
		Tuning:  req.Tuning,
		Capo:    req.Capo,
		Content: req.Content,
		Message: req.Message,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toTabDTO(t), "tab created", nil)
}

// Get GET /api/tabs/:id
func (h *TabHandler) Get(c *gin.Context) {
	t, err := h.Svc.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTabDTO(t), "tab", nil)
}

// Update PATCH /api/tabs/:id
func (h *TabHandler) Update(c *gin.Context) {
	var req tabPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	t, err := h.Svc.Update(c.Request.Context(), userID(c), c.Param("id"), application.TabPatch{
		Title:   req.Title,
		Artist:  req.Artist,
		Tuning:  req.Tuning,
		Capo:    req.Capo,
		Content: req.Content,
		Message: req.Message,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTabDTO(t), "tab updated", nil)
}

// Delete DELETE /api/tabs/:id
func (h *TabHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "tab deleted", nil)
}

// Revisions GET /api/tabs/:id/revisions
func (h *TabHandler) Revisions(c *gin.Context) {
	revs, err := h.Svc.Revisions(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	out := make([]revisionDTO, 0, len(revs))
	for i := range revs {
		out = append(out, toRevisionDTO(&revs[i]))
	}
	response.Success(c, http.StatusOK, out, "tab revisions", response.Page{Count: len(out)})
}

// Revision GET /api/tabs/:id/revisions/:version
func (h *TabHandler) Revision(c *gin.Context) {
	v, ok := versionParam(c)
	if !ok {
		return
	}
	rev, err := h.Svc.Revision(c.Request.Context(), userID(c), c.Param("id"), v)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toRevisionDTO(rev), "tab revision", nil)
}

// Restore POST /api/tabs/:id/revisions/:version/restore
func (h *TabHandler) Restore(c *gin.Context) {
	v, ok := versionParam(c)
	if !ok {
		return
	}
	t, err := h.Svc.Restore(c.Request.Context(), userID(c), c.Param("id"), v)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTabDTO(t), "tab restored", nil)
}

// Search GET /api/tabs/search
func (h *TabHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badPayload(c, err)
		return
	}
	hits, err := h.Svc.SearchTabs(c.Request.Context(), userID(c), q.Q, q.Size)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "tab search", response.Page{Count: len(hits)})
}
